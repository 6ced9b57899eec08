package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yashrajoria/car-rental/backend/services/booking-service/services"
	apperrors "github.com/yashrajoria/car-rental/backend/services/common/errors"
	"github.com/yashrajoria/car-rental/backend/services/common/lambdaenv"
)

// Decider is implemented by *services.BookingService.
type Decider interface {
	Decide(ctx context.Context, req services.BookingRequest) (*services.Decision, error)
}

type BookingController struct {
	decider Decider
	logger  *zap.Logger
}

func NewBookingController(decider Decider, logger *zap.Logger) *BookingController {
	return &BookingController{decider: decider, logger: logger}
}

// Response is a shaped answer: Status is only meaningful for synchronous
// callers.
type Response struct {
	Status int
	Body   any
}

// Handle runs one resolved invocation and shapes the result for its caller.
// For orchestrator callers a dependency failure is returned as an error so
// the invocation itself fails.
func (bc *BookingController) Handle(ctx context.Context, inv Invocation) (Response, error) {
	req, err := services.ParseBookingRequest(inv.Payload)
	var decision *services.Decision
	if err == nil {
		decision, err = bc.decider.Decide(ctx, req)
	}

	if err != nil {
		if inv.Shape == ShapeOrchestrator {
			if errors.Is(err, apperrors.ErrValidation) {
				return Response{Status: http.StatusOK, Body: gin.H{"status": services.StatusInvalid, "error": apperrors.PublicMessage(err)}}, nil
			}
			return Response{}, err
		}

		body := gin.H{"error": apperrors.PublicMessage(err)}
		if decision != nil && decision.BookingID != "" {
			body["bookingId"] = decision.BookingID
		}
		return Response{Status: apperrors.StatusCode(err), Body: body}, nil
	}

	status := http.StatusOK
	if decision.Status == services.StatusDeclined {
		status = apperrors.Declined(decision.Reason).Code
	}
	return Response{Status: status, Body: decision}, nil
}

// Invoke is the Lambda entry point. It accepts either shape and answers in
// kind.
func (bc *BookingController) Invoke(ctx context.Context, raw json.RawMessage) (any, error) {
	inv, err := ParseInvocation(raw)
	if err != nil {
		if inv.Shape == ShapeSynchronous {
			return lambdaenv.JSON(apperrors.StatusCode(err), gin.H{"error": apperrors.PublicMessage(err)}), nil
		}
		return gin.H{"status": services.StatusInvalid, "error": apperrors.PublicMessage(err)}, nil
	}

	resp, err := bc.Handle(ctx, inv)
	if err != nil {
		bc.logger.Error("orchestrated booking failed", zap.Error(err))
		return nil, err
	}
	if inv.Shape == ShapeSynchronous {
		return lambdaenv.JSON(resp.Status, resp.Body), nil
	}
	return resp.Body, nil
}

// CreateBooking handles POST /bookings: the body is the synchronous payload.
func (bc *BookingController) CreateBooking(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	payload, err := decodeBody(raw)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	resp, _ := bc.Handle(c.Request.Context(), Invocation{Shape: ShapeSynchronous, Payload: payload})
	c.JSON(resp.Status, resp.Body)
}

// InvokeBooking handles POST /bookings/invoke: the body is an orchestrator
// payload and the answer is the bare result.
func (bc *BookingController) InvokeBooking(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	var payload map[string]any
	if err := decodeJSON(raw, &payload); err != nil || payload == nil {
		c.JSON(http.StatusOK, gin.H{"status": services.StatusInvalid, "error": "Invalid request payload"})
		return
	}

	resp, err := bc.Handle(c.Request.Context(), Invocation{Shape: ShapeOrchestrator, Payload: payload})
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.Body)
}

// RegisterRoutes mounts the booking endpoints.
func (bc *BookingController) RegisterRoutes(r gin.IRouter) {
	r.POST("/bookings", bc.CreateBooking)
	r.POST("/bookings/invoke", bc.InvokeBooking)
}
