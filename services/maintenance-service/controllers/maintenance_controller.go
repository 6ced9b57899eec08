package controllers

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/yashrajoria/car-rental/backend/services/common/errors"
	"github.com/yashrajoria/car-rental/backend/services/maintenance-service/services"
)

type Archiver interface {
	Run(ctx context.Context) (*services.Result, error)
}

type MaintenanceController struct {
	archiver Archiver
	logger   *zap.Logger
}

func NewMaintenanceController(archiver Archiver, logger *zap.Logger) *MaintenanceController {
	return &MaintenanceController{archiver: archiver, logger: logger}
}

func (mc *MaintenanceController) RegisterRoutes(r gin.IRouter) {
	r.POST("/maintenance/run", mc.RunArchive)
}

// RunArchive handles POST /maintenance/run.
func (mc *MaintenanceController) RunArchive(c *gin.Context) {
	res, err := mc.archiver.Run(c.Request.Context())
	if err != nil {
		mc.logger.Error("Maintenance task failed", zap.Error(err))
		_ = c.Error(err)
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// HandleScheduledEvent is the Lambda entry point for the EventBridge schedule.
func (mc *MaintenanceController) HandleScheduledEvent(ctx context.Context, ev events.CloudWatchEvent) (*services.Result, error) {
	mc.logger.Info("Scheduled maintenance triggered", zap.String("event_id", ev.ID), zap.Time("time", ev.Time))
	res, err := mc.archiver.Run(ctx)
	if err != nil {
		mc.logger.Error("Maintenance task failed", zap.Error(err))
		return nil, err
	}
	return res, nil
}
