package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/yashrajoria/car-rental/backend/api-gateway/proxy"
	"github.com/yashrajoria/car-rental/backend/api-gateway/routes"
	"github.com/yashrajoria/car-rental/backend/services/common/bootstrap"
)

func main() {
	ctx := context.Background()
	rt, err := bootstrap.Init(ctx, "api-gateway")
	if err != nil {
		panic("failed to initialize runtime: " + err.Error())
	}
	logger := rt.Logger
	defer logger.Sync()

	logger.Info("Starting API Gateway...")

	verifier := rt.AuthVerifier(ctx)
	if !verifier.Enabled() {
		logger.Warn("No auth secret configured, gateway routes are open")
	}
	r := rt.Router(verifier)

	forwarder := proxy.NewForwarder(bootstrap.GetEnvDuration("GATEWAY_UPSTREAM_TIMEOUT", 30*time.Second), logger)
	routes.RegisterAllRoutes(r, forwarder, routes.Targets{
		Booking:     bootstrap.GetEnv("BOOKING_SERVICE_URL", "http://booking-service:8081"),
		Car:         bootstrap.GetEnv("CAR_SERVICE_URL", "http://car-service:8083"),
		Cart:        bootstrap.GetEnv("CART_SERVICE_URL", "http://cart-service:8086"),
		Maintenance: bootstrap.GetEnv("MAINTENANCE_SERVICE_URL", "http://maintenance-service:8084"),
	})

	sigCtx, stop := bootstrap.SignalContext()
	defer stop()
	if err := bootstrap.Serve(sigCtx, logger, bootstrap.GetEnv("PORT", "8080"), r); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}
