package logger

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a logger for env. Production uses JSON with an ISO8601
// "timestamp" key, anything else the coloured development console encoder.
// When sink is not nil every entry is also written to it as JSON.
func New(env string, sink io.Writer) (*zap.Logger, error) {
	var config zap.Config
	if env == "production" {
		config = zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if sink == nil {
		return config.Build()
	}

	level := zap.NewAtomicLevelAt(config.Level.Level())
	consoleEncoder := zapcore.NewConsoleEncoder(config.EncoderConfig)
	if env == "production" {
		consoleEncoder = zapcore.NewJSONEncoder(config.EncoderConfig)
	}
	sinkConfig := config.EncoderConfig
	sinkConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewTee(
		zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stdout), level),
		zapcore.NewCore(zapcore.NewJSONEncoder(sinkConfig), zapcore.AddSync(sink), level),
	)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

// MustNew is New for main packages; it exits when the logger cannot be built.
func MustNew(env string, sink io.Writer) *zap.Logger {
	log, err := New(env, sink)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	return log
}

// BookingFields are the standard fields attached to every log line about a
// booking.
func BookingFields(bookingID, userID, carID string) []zap.Field {
	fields := make([]zap.Field, 0, 3)
	if bookingID != "" {
		fields = append(fields, zap.String("booking_id", bookingID))
	}
	if userID != "" {
		fields = append(fields, zap.String("user_id", userID))
	}
	if carID != "" {
		fields = append(fields, zap.String("car_id", carID))
	}
	return fields
}
