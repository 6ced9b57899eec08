package main

import (
	"context"
	"sync"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"

	awspkg "github.com/yashrajoria/car-rental/backend/pkg/aws"
	"github.com/yashrajoria/car-rental/backend/services/common/bootstrap"
	"github.com/yashrajoria/car-rental/backend/services/common/lambdaenv"
	"github.com/yashrajoria/car-rental/backend/services/common/repository"
	"github.com/yashrajoria/car-rental/backend/services/maintenance-service/controllers"
	"github.com/yashrajoria/car-rental/backend/services/maintenance-service/services"
	"github.com/yashrajoria/car-rental/backend/services/maintenance-service/worker"
)

func main() {
	ctx := context.Background()
	rt, err := bootstrap.Init(ctx, "maintenance-service")
	if err != nil {
		panic("failed to initialize runtime: " + err.Error())
	}
	logger := rt.Logger
	defer logger.Sync()

	cfg := LoadConfig()
	archiver := services.NewArchiver(
		repository.NewDynamoBookingAdapter(dynamodb.NewFromConfig(rt.AWS), cfg.BookingsTable),
		awspkg.NewS3Uploader(awspkg.NewS3Client(rt.AWS)),
		cfg.Bucket,
		logger,
		services.WithMetrics(rt.Metrics),
	)
	controller := controllers.NewMaintenanceController(archiver, logger)

	if lambdaenv.InLambda() {
		lambda.Start(controller.HandleScheduledEvent)
		return
	}

	sigCtx, stop := bootstrap.SignalContext()
	defer stop()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		worker.NewScheduler(archiver, cfg.Interval, logger).Run(sigCtx)
	}()

	r := rt.Router(rt.AuthVerifier(ctx))
	controller.RegisterRoutes(r)
	if err := bootstrap.Serve(sigCtx, logger, cfg.Port, r); err != nil {
		logger.Error("server failed", zap.Error(err))
		stop()
	}
	wg.Wait()
}
