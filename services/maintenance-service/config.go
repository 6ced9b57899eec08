package main

import (
	"time"

	"github.com/yashrajoria/car-rental/backend/services/common/bootstrap"
	"github.com/yashrajoria/car-rental/backend/services/maintenance-service/services"
)

type Config struct {
	Port          string
	BookingsTable string
	Bucket        string
	Interval      time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Port:          bootstrap.GetEnv("PORT", "8084"),
		BookingsTable: bootstrap.GetEnv("DDB_TABLE_BOOKINGS", "Bookings"),
		Bucket:        bootstrap.GetEnv("ARCHIVE_BUCKET", services.DefaultBucket),
		Interval:      bootstrap.GetEnvDuration("ARCHIVE_INTERVAL", 24*time.Hour),
	}
}
