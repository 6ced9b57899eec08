package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	awspkg "github.com/yashrajoria/car-rental/backend/pkg/aws"
	apperrors "github.com/yashrajoria/car-rental/backend/services/common/errors"
	"github.com/yashrajoria/car-rental/backend/services/common/logger"
	"github.com/yashrajoria/car-rental/backend/services/common/models"
	"github.com/yashrajoria/car-rental/backend/services/common/repository"
)

const (
	StatusApproved = "APPROVED"
	StatusDeclined = "DECLINED"
	StatusInvalid  = "INVALID"

	// MaxRentalDays is the longest rental the policy approves.
	MaxRentalDays = 30
	ReasonLimit   = "limit exceeded"

	maxIDAttempts = 3
)

// Decision is the outcome of one booking request.
type Decision struct {
	Status    string `json:"status"`
	Reason    string `json:"reason,omitempty"`
	BookingID string `json:"bookingId,omitempty"`
	UserID    string `json:"userId,omitempty"`
	CarID     string `json:"carId,omitempty"`
	Quantity  int    `json:"quantity,omitempty"`
}

type BookingService struct {
	repo    repository.BookingRepo
	queue   EventQueue
	logger  *zap.Logger
	metrics awspkg.Recorder
	now     func() time.Time
	newID   func() string
}

type Option func(*BookingService)

func WithClock(now func() time.Time) Option { return func(s *BookingService) { s.now = now } }

func WithIDGenerator(gen func() string) Option { return func(s *BookingService) { s.newID = gen } }

func WithMetrics(r awspkg.Recorder) Option { return func(s *BookingService) { s.metrics = r } }

func NewBookingService(repo repository.BookingRepo, queue EventQueue, logger *zap.Logger, opts ...Option) *BookingService {
	s := &BookingService{
		repo:    repo,
		queue:   queue,
		logger:  logger,
		metrics: awspkg.NopRecorder{},
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Decide applies the rental policy. A declined request has no side effects.
// An approved one is persisted and only then announced on the queue.
//
// When the enqueue fails the booking stays recorded; Decide returns the
// approved decision together with a dependency error so the caller can still
// report the booking ID.
func (s *BookingService) Decide(ctx context.Context, req BookingRequest) (*Decision, error) {
	if err := req.Validate(); err != nil {
		s.count(ctx, awspkg.MetricBookingsRejected)
		return nil, err
	}

	if req.Quantity > MaxRentalDays {
		s.count(ctx, awspkg.MetricBookingsDeclined)
		s.logger.Info("booking declined",
			append(logger.BookingFields("", req.UserID, req.CarID),
				zap.Int("quantity", req.Quantity), zap.String("reason", ReasonLimit))...)
		return &Decision{Status: StatusDeclined, Reason: ReasonLimit}, nil
	}

	record, err := s.persist(ctx, req)
	if err != nil {
		return nil, err
	}
	fields := logger.BookingFields(record.BookingID, record.UserID, record.CarID)

	decision := &Decision{
		Status:    StatusApproved,
		BookingID: record.BookingID,
		UserID:    record.UserID,
		CarID:     record.CarID,
		Quantity:  record.Quantity,
	}

	ev := models.NotificationEvent{BookingID: record.BookingID, UserID: record.UserID, CarID: record.CarID}
	if err := s.queue.Enqueue(ctx, ev); err != nil {
		s.count(ctx, awspkg.MetricBookingEnqueueFailed)
		s.logger.Error("booking recorded but notification event not queued", append(fields, zap.Error(err))...)
		return decision, apperrors.Dependency("Booking recorded but notification could not be queued", err)
	}

	s.count(ctx, awspkg.MetricBookingsApproved)
	s.logger.Info("booking approved", append(fields, zap.Int("quantity", record.Quantity))...)
	return decision, nil
}

// persist writes the record under a fresh ID, drawing a new one if the
// store reports a collision.
func (s *BookingService) persist(ctx context.Context, req BookingRequest) (*models.BookingRecord, error) {
	record := &models.BookingRecord{
		UserID:        req.UserID,
		CarID:         req.CarID,
		Quantity:      req.Quantity,
		PaymentStatus: models.PaymentStatusConfirmed,
		Timestamp:     s.now().UTC(),
	}

	for attempt := 1; attempt <= maxIDAttempts; attempt++ {
		record.BookingID = s.newID()
		err := s.repo.Create(ctx, record)
		if err == nil {
			return record, nil
		}
		if !errors.Is(err, repository.ErrDuplicateKey) {
			s.logger.Error("failed to record booking",
				append(logger.BookingFields(record.BookingID, req.UserID, req.CarID), zap.Error(err))...)
			return nil, apperrors.Dependency("Failed to record booking", err)
		}
		s.logger.Warn("booking id collision, retrying",
			zap.String("booking_id", record.BookingID), zap.Int("attempt", attempt))
	}
	return nil, apperrors.Dependency("Failed to record booking",
		fmt.Errorf("no unique booking id after %d attempts", maxIDAttempts))
}

func (s *BookingService) count(ctx context.Context, metric string) {
	if err := s.metrics.RecordCount(ctx, metric, map[string]string{"Service": "booking-service"}); err != nil {
		s.logger.Debug("metric not recorded", zap.String("metric", metric), zap.Error(err))
	}
}
