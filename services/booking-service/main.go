package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"

	awspkg "github.com/yashrajoria/car-rental/backend/pkg/aws"
	"github.com/yashrajoria/car-rental/backend/services/booking-service/controllers"
	"github.com/yashrajoria/car-rental/backend/services/booking-service/services"
	"github.com/yashrajoria/car-rental/backend/services/common/bootstrap"
	"github.com/yashrajoria/car-rental/backend/services/common/lambdaenv"
	"github.com/yashrajoria/car-rental/backend/services/common/repository"
)

func main() {
	ctx := context.Background()
	rt, err := bootstrap.Init(ctx, "booking-service")
	if err != nil {
		panic("failed to initialize runtime: " + err.Error())
	}
	logger := rt.Logger
	defer logger.Sync()

	cfg, err := LoadConfig()
	if err != nil {
		logger.Fatal("Config load failed", zap.Error(err))
	}

	bookingRepo := repository.NewDynamoBookingAdapter(dynamodb.NewFromConfig(rt.AWS), cfg.BookingsTable)
	queue := services.NewSQSEventQueue(awspkg.NewSQSClient(rt.AWS, cfg.QueueURL, logger))
	bookingService := services.NewBookingService(bookingRepo, queue, logger, services.WithMetrics(rt.Metrics))
	bookingController := controllers.NewBookingController(bookingService, logger)

	if lambdaenv.InLambda() {
		lambda.Start(bookingController.Invoke)
		return
	}

	r := rt.Router(rt.AuthVerifier(ctx))
	bookingController.RegisterRoutes(r)

	sigCtx, stop := bootstrap.SignalContext()
	defer stop()
	if err := bootstrap.Serve(sigCtx, logger, cfg.Port, r); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}
