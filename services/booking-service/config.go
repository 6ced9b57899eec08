package main

import (
	"fmt"

	"github.com/yashrajoria/car-rental/backend/services/common/bootstrap"
)

type Config struct {
	Port          string
	BookingsTable string
	QueueURL      string
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:          bootstrap.GetEnv("PORT", "8081"),
		BookingsTable: bootstrap.GetEnv("DDB_TABLE_BOOKINGS", "Bookings"),
		QueueURL:      bootstrap.GetEnv("BOOKING_QUEUE_URL", ""),
	}
	if cfg.QueueURL == "" {
		return nil, fmt.Errorf("BOOKING_QUEUE_URL is required")
	}
	return cfg, nil
}
