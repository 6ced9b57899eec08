package main

import (
	"fmt"

	"github.com/yashrajoria/car-rental/backend/services/common/bootstrap"
)

type Config struct {
	Port        string
	CartTable   string
	CarsTable   string
	TopicArn    string
	QueueURL    string
	Concurrency int
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:        bootstrap.GetEnv("PORT", "8082"),
		CartTable:   bootstrap.GetEnv("DDB_TABLE_CART", "ShoppingCart"),
		CarsTable:   bootstrap.GetEnv("DDB_TABLE_CARS", "Cars"),
		TopicArn:    bootstrap.GetEnv("BOOKING_TOPIC_ARN", ""),
		QueueURL:    bootstrap.GetEnv("BOOKING_QUEUE_URL", ""),
		Concurrency: bootstrap.GetEnvInt("NOTIFY_CONCURRENCY", 4),
	}
	if cfg.TopicArn == "" {
		return nil, fmt.Errorf("BOOKING_TOPIC_ARN is required")
	}
	return cfg, nil
}
