package main

import (
	"context"
	"errors"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"

	awspkg "github.com/yashrajoria/car-rental/backend/pkg/aws"
	"github.com/yashrajoria/car-rental/backend/services/common/bootstrap"
	"github.com/yashrajoria/car-rental/backend/services/common/lambdaenv"
	"github.com/yashrajoria/car-rental/backend/services/common/repository"
	"github.com/yashrajoria/car-rental/backend/services/notification-service/consumer"
	"github.com/yashrajoria/car-rental/backend/services/notification-service/services"
)

func main() {
	ctx := context.Background()
	rt, err := bootstrap.Init(ctx, "notification-service")
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
	enricher := services.NewEnricher(
		repository.NewDynamoCartAdapter(ddb, cfg.CartTable),
		repository.NewDynamoCarAdapter(ddb, cfg.CarsTable),
		logger,
	)
	notificationService := services.NewNotificationService(enricher, awspkg.NewSNSClient(rt.AWS, logger), cfg.TopicArn, logger, rt.Metrics)
	processor := consumer.NewBatchProcessor(notificationService, cfg.Concurrency, logger)

	if lambdaenv.InLambda() {
		lambda.Start(processor.HandleSQSEvent)
		return
	}

	if cfg.QueueURL == "" {
		logger.Fatal("BOOKING_QUEUE_URL is required outside Lambda")
	}

	sigCtx, stop := bootstrap.SignalContext()
	defer stop()

	sqsClient := awspkg.NewSQSClient(rt.AWS, cfg.QueueURL, logger)
	pollDone := make(chan struct{})
	go func() {
		defer close(pollDone)
		if err := sqsClient.StartPolling(sigCtx, processor.HandleMessages); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("SQS polling stopped", zap.Error(err))
		}
	}()

	r := rt.Router(nil)
	if err := bootstrap.Serve(sigCtx, logger, cfg.Port, r); err != nil {
		logger.Error("server failed", zap.Error(err))
		stop()
	}
	<-pollDone
	logger.Info("Notification service stopped gracefully")
}
