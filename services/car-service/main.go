package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/yashrajoria/car-rental/backend/services/car-service/controllers"
	"github.com/yashrajoria/car-rental/backend/services/car-service/services"
	"github.com/yashrajoria/car-rental/backend/services/common/bootstrap"
	"github.com/yashrajoria/car-rental/backend/services/common/lambdaenv"
	"github.com/yashrajoria/car-rental/backend/services/common/repository"
)

func main() {
	ctx := context.Background()
	rt, err := bootstrap.Init(ctx, "car-service")
	if err != nil {
		panic("failed to initialize runtime: " + err.Error())
	}
	logger := rt.Logger
	defer logger.Sync()

	cfg, err := LoadConfig()
	if err != nil {
		logger.Fatal("Config load failed", zap.Error(err))
	}

	ddb := dynamodb.NewFromConfig(rt.AWS)
	carRepo := repository.NewDynamoCarAdapter(ddb, cfg.CarsTable)

	var cacheRepo repository.CarCacheRepo
	switch cfg.CacheBackend {
	case CacheBackendRedis:
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal("Invalid REDIS_URL", zap.Error(err))
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("Redis not reachable at startup, cache reads will miss", zap.Error(err))
		}
		cacheRepo = repository.NewRedisCarCacheAdapter(rdb)
	default:
		cacheRepo = repository.NewDynamoCarCacheAdapter(ddb, cfg.CacheTable)
	}
	logger.Info("Car cache configured",
		zap.String("backend", cfg.CacheBackend),
		zap.Duration("ttl", cfg.CacheTTL),
	)

	cacheService := services.NewCarCacheService(carRepo, cacheRepo, cfg.CacheTTL, logger, services.WithMetrics(rt.Metrics))
	carController := controllers.NewCarController(cacheService, services.NewCatalogService(carRepo))

	r := rt.Router(rt.AuthVerifier(ctx))
	carController.RegisterRoutes(r)

	if lambdaenv.InLambda() {
		lambda.Start(lambdaenv.ProxyHandler(r))
		return
	}

	sigCtx, stop := bootstrap.SignalContext()
	defer stop()
	if err := bootstrap.Serve(sigCtx, logger, cfg.Port, r); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}
