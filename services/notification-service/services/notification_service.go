package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	awspkg "github.com/yashrajoria/car-rental/backend/pkg/aws"
	apperrors "github.com/yashrajoria/car-rental/backend/services/common/errors"
	"github.com/yashrajoria/car-rental/backend/services/common/logger"
	"github.com/yashrajoria/car-rental/backend/services/common/models"
)

// ErrMalformedEvent marks a record that will never succeed; it is
// acknowledged rather than retried.
var ErrMalformedEvent = errors.New("malformed notification event")

const unknownBookingID = "UNKNOWN"

type NotificationService struct {
	enricher  *Enricher
	publisher awspkg.SNSPublisher
	topicArn  string
	logger    *zap.Logger
	metrics   awspkg.Recorder
}

func NewNotificationService(enricher *Enricher, publisher awspkg.SNSPublisher, topicArn string, logger *zap.Logger, metrics awspkg.Recorder) *NotificationService {
	if metrics == nil {
		metrics = awspkg.NopRecorder{}
	}
	return &NotificationService{
		enricher:  enricher,
		publisher: publisher,
		topicArn:  topicArn,
		logger:    logger,
		metrics:   metrics,
	}
}

// snsEnvelope is the wrapper SNS adds when it fans out to SQS.
type snsEnvelope struct {
	Type    string `json:"Type"`
	Message string `json:"Message"`
}

// ParseEvent decodes a record body, unwrapping an SNS envelope if present.
func ParseEvent(body string) (models.NotificationEvent, error) {
	var ev models.NotificationEvent
	raw := []byte(body)

	var env snsEnvelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Message != "" {
		raw = []byte(env.Message)
	}
	if err := json.Unmarshal(raw, &ev); err != nil {
		return ev, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	ev.UserID = strings.TrimSpace(ev.UserID)
	ev.CarID = strings.TrimSpace(ev.CarID)
	if ev.UserID == "" || ev.CarID == "" {
		return ev, fmt.Errorf("%w: missing userId or carId", ErrMalformedEvent)
	}
	if ev.BookingID == "" {
		ev.BookingID = unknownBookingID
	}
	return ev, nil
}

// Enrich resolves quantity and car details for ev. Degraded lookups are
// logged and replaced by defaults.
func (s *NotificationService) Enrich(ctx context.Context, ev models.NotificationEvent) Notification {
	fields := logger.BookingFields(ev.BookingID, ev.UserID, ev.CarID)

	qty := s.enricher.Quantity(ctx, ev.UserID, ev.CarID)
	if qty.Degraded {
		s.degraded(ctx, "cart", qty.Err, fields)
	}
	car := s.enricher.Car(ctx, ev.CarID)
	if car.Degraded {
		s.degraded(ctx, "car", car.Err, fields)
	}

	return Notification{BookingID: ev.BookingID, Car: car.Value, Quantity: qty.Value}
}

// ProcessRecord handles one delivery. It returns an error wrapping
// ErrMalformedEvent for records to drop, and a dependency error when the
// publish failed and the record should be redelivered.
func (s *NotificationService) ProcessRecord(ctx context.Context, body string) error {
	ev, err := ParseEvent(body)
	if err != nil {
		s.count(ctx, awspkg.MetricNotificationsSkipped)
		s.logger.Warn("skipping notification record", zap.Error(err))
		return err
	}

	n := s.Enrich(ctx, ev)
	message := FormatMessage(n)
	fields := logger.BookingFields(ev.BookingID, ev.UserID, ev.CarID)

	if err := s.publisher.Publish(ctx, s.topicArn, Subject, message); err != nil {
		s.count(ctx, awspkg.MetricNotificationsFailed)
		s.logger.Error("failed to publish notification", append(fields, zap.Error(err))...)
		return apperrors.Dependency("Failed to publish notification", err)
	}

	s.count(ctx, awspkg.MetricNotificationsPublished)
	s.logger.Info("notification published",
		append(fields, zap.Int("quantity", n.Quantity), zap.String("total", n.Total().StringFixed(2)))...)
	return nil
}

func (s *NotificationService) degraded(ctx context.Context, source string, err error, fields []zap.Field) {
	s.logger.Warn("enrichment degraded, using defaults",
		append(fields, zap.String("source", source), zap.Error(err))...)
	_ = s.metrics.RecordCount(ctx, awspkg.MetricEnrichmentDegraded, map[string]string{"Source": source})
}

func (s *NotificationService) count(ctx context.Context, metric string) {
	_ = s.metrics.RecordCount(ctx, metric, map[string]string{"Service": "notification-service"})
}
