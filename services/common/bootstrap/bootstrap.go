// Package bootstrap builds the ambient pieces every service main shares:
// environment, logger, AWS config, metrics and the HTTP server lifecycle.
package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	awspkg "github.com/yashrajoria/car-rental/backend/pkg/aws"
	"github.com/yashrajoria/car-rental/backend/services/common/auth"
	apperrors "github.com/yashrajoria/car-rental/backend/services/common/errors"
	"github.com/yashrajoria/car-rental/backend/services/common/logger"
	"github.com/yashrajoria/car-rental/backend/services/common/middleware"
)

// Runtime holds the shared dependencies of one service process.
type Runtime struct {
	Service string
	Env     string
	Logger  *zap.Logger
	AWS     sdkaws.Config
	Metrics *awspkg.MetricsClient
}

// Init loads .env (when present), the AWS config, the logger and the metrics
// client. CloudWatch logs and metrics are only wired when
// CLOUDWATCH_ENABLED=true.
func Init(ctx context.Context, service string) (*Runtime, error) {
	_ = godotenv.Load()

	env := GetEnv("ENV", "development")
	awsCfg, err := awspkg.LoadAWSConfig(ctx)
	if err != nil {
		return nil, err
	}

	cloudwatchEnabled := os.Getenv("CLOUDWATCH_ENABLED") == "true"
	var sink *awspkg.CloudWatchLogsClient
	var sinkErr error
	if cloudwatchEnabled {
		sink, sinkErr = awspkg.NewCloudWatchLogsClient(ctx, cloudwatchlogs.NewFromConfig(awsCfg),
			os.Getenv("CLOUDWATCH_LOG_GROUP"), service)
	}

	var log *zap.Logger
	if sink != nil {
		log, err = logger.New(env, sink)
	} else {
		log, err = logger.New(env, nil)
	}
	if err != nil {
		return nil, err
	}
	log = log.With(zap.String("service", service))
	if sinkErr != nil {
		log.Warn("CloudWatch logs disabled (non-fatal)", zap.Error(sinkErr))
	}

	return &Runtime{
		Service: service,
		Env:     env,
		Logger:  log,
		AWS:     awsCfg,
		Metrics: awspkg.NewMetricsClient(awsCfg, os.Getenv("CLOUDWATCH_NAMESPACE"), cloudwatchEnabled),
	}, nil
}

// AuthVerifier returns the bearer-token verifier. The secret comes from
// AUTH_TOKEN, or from Secrets Manager when AWS_USE_SECRETS=true.
func (r *Runtime) AuthVerifier(ctx context.Context) *auth.Verifier {
	secret := os.Getenv("AUTH_TOKEN")
	if os.Getenv("AWS_USE_SECRETS") == "true" {
		sm := awspkg.NewSecretsClient(r.AWS)
		name := GetEnv("AUTH_SECRET_NAME", "car-rental/AUTH_TOKEN")
		if v, err := sm.GetSecretField(ctx, name, "AUTH_TOKEN"); err == nil && v != "" {
			secret = v
		} else if err != nil {
			r.Logger.Warn("auth secret lookup failed, falling back to AUTH_TOKEN", zap.Error(err))
		}
	}
	return auth.NewVerifier(secret)
}

// Router returns a gin engine with the standard middleware chain. A nil
// verifier leaves the routes open.
func (r *Runtime) Router(verifier *auth.Verifier) *gin.Engine {
	if r.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	e := gin.New()
	e.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(r.Logger),
		apperrors.ErrorMiddleware(),
		middleware.MetricsMiddleware(r.Metrics, r.Service),
		middleware.SecurityHeaders(),
		middleware.CORS(),
		middleware.RateLimitMiddleware(GetEnvInt("RATE_LIMIT_PER_MINUTE", 600), GetEnvInt("RATE_LIMIT_BURST", 100)),
	)
	e.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": r.Service})
	})
	// Routes registered after this point require the bearer token.
	if verifier != nil {
		e.Use(middleware.BearerAuth(verifier))
	}
	return e
}

// SignalContext is cancelled on SIGINT or SIGTERM.
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// Serve runs handler on port until ctx is cancelled, then shuts down with a
// ten second grace period.
func Serve(ctx context.Context, log *zap.Logger, port string, handler http.Handler) error {
	srv := &http.Server{Addr: ":" + port, Handler: handler, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server started", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Initiating graceful shutdown...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("HTTP server stopped gracefully")
	return nil
}
