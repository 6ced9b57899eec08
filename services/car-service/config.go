package main

import (
	"fmt"
	"time"

	"github.com/yashrajoria/car-rental/backend/services/car-service/services"
	"github.com/yashrajoria/car-rental/backend/services/common/bootstrap"
)

const (
	CacheBackendDynamoDB = "dynamodb"
	CacheBackendRedis    = "redis"
)

type Config struct {
	Port         string
	CarsTable    string
	CacheTable   string
	CacheTTL     time.Duration
	CacheBackend string
	RedisURL     string
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:         bootstrap.GetEnv("PORT", "8083"),
		CarsTable:    bootstrap.GetEnv("DDB_TABLE_CARS", "Cars"),
		CacheTable:   bootstrap.GetEnv("DDB_TABLE_CAR_CACHE", "car_cache"),
		CacheTTL:     bootstrap.GetEnvDuration("CAR_CACHE_TTL", services.DefaultCacheTTL),
		CacheBackend: bootstrap.GetEnv("CACHE_BACKEND", CacheBackendDynamoDB),
		RedisURL:     bootstrap.GetEnv("REDIS_URL", ""),
	}
	if cfg.CacheTTL < services.MinCacheTTL {
		return nil, fmt.Errorf("CAR_CACHE_TTL must be at least %s, got %s", services.MinCacheTTL, cfg.CacheTTL)
	}
	switch cfg.CacheBackend {
	case CacheBackendDynamoDB:
	case CacheBackendRedis:
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("REDIS_URL is required when CACHE_BACKEND=redis")
		}
	default:
		return nil, fmt.Errorf("unknown CACHE_BACKEND %q", cfg.CacheBackend)
	}
	return cfg, nil
}
