package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/yashrajoria/car-rental/backend/services/auth-service/controllers"
	"github.com/yashrajoria/car-rental/backend/services/auth-service/services"
	"github.com/yashrajoria/car-rental/backend/services/common/bootstrap"
	"github.com/yashrajoria/car-rental/backend/services/common/lambdaenv"
)

func main() {
	ctx := context.Background()
	rt, err := bootstrap.Init(ctx, "auth-service")
	if err != nil {
		panic("failed to initialize runtime: " + err.Error())
	}
	logger := rt.Logger
	defer logger.Sync()

	cfg := LoadConfig()
	verifier := rt.AuthVerifier(ctx)
	if !verifier.Enabled() {
		logger.Warn("No auth secret configured, every request will be rejected")
	}
	authorizer := services.NewAuthorizer(verifier, cfg.PrincipalID, logger)

	if lambdaenv.InLambda() {
		lambda.Start(authorizer.Authorize)
		return
	}

	// The authorizer itself is never behind the bearer gate.
	r := rt.Router(nil)
	controllers.NewAuthController(authorizer).RegisterRoutes(r)

	sigCtx, stop := bootstrap.SignalContext()
	defer stop()
	if err := bootstrap.Serve(sigCtx, logger, cfg.Port, r); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}
