package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"

	"github.com/yashrajoria/car-rental/backend/services/cart-service/controllers"
	"github.com/yashrajoria/car-rental/backend/services/cart-service/services"
	"github.com/yashrajoria/car-rental/backend/services/common/bootstrap"
	"github.com/yashrajoria/car-rental/backend/services/common/lambdaenv"
	"github.com/yashrajoria/car-rental/backend/services/common/repository"
)

func main() {
	ctx := context.Background()
	rt, err := bootstrap.Init(ctx, "cart-service")
	if err != nil {
		panic("failed to initialize runtime: " + err.Error())
	}
	logger := rt.Logger
	defer logger.Sync()

	cfg := LoadConfig()
	ddb := dynamodb.NewFromConfig(rt.AWS)
	cartService := services.NewCartService(
		repository.NewDynamoCartAdapter(ddb, cfg.CartTable),
		repository.NewDynamoCarAdapter(ddb, cfg.CarsTable),
		logger,
	)

	r := rt.Router(rt.AuthVerifier(ctx))
	controllers.NewCartController(cartService).RegisterRoutes(r)

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
