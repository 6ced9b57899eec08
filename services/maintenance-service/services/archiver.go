package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	awspkg "github.com/yashrajoria/car-rental/backend/pkg/aws"
	apperrors "github.com/yashrajoria/car-rental/backend/services/common/errors"
)

const (
	DefaultBucket = "car-rental-archive"

	archiveKeyLayout = "2006-01-02T15-04-05Z"
)

// BookingExporter reads every booking exactly as stored.
type BookingExporter interface {
	Export(ctx context.Context) ([]map[string]any, error)
}

// ObjectWriter uploads one object.
type ObjectWriter interface {
	PutObject(ctx context.Context, bucket, key string, body []byte, contentType string) error
}

// Result is what one archival run reports back.
type Result struct {
	Message  string `json:"message"`
	Archived int    `json:"archived"`
	Key      string `json:"key,omitempty"`
}

// Archiver snapshots the whole Bookings table into one JSON object per run.
// Items are copied verbatim and never removed.
type Archiver struct {
	bookings BookingExporter
	store    ObjectWriter
	bucket   string
	logger   *zap.Logger
	metrics  awspkg.Recorder
	now      func() time.Time
}

type Option func(*Archiver)

func WithClock(now func() time.Time) Option { return func(a *Archiver) { a.now = now } }

func WithMetrics(r awspkg.Recorder) Option { return func(a *Archiver) { a.metrics = r } }

func NewArchiver(bookings BookingExporter, store ObjectWriter, bucket string, logger *zap.Logger, opts ...Option) *Archiver {
	if bucket == "" {
		bucket = DefaultBucket
	}
	a := &Archiver{
		bookings: bookings,
		store:    store,
		bucket:   bucket,
		logger:   logger,
		metrics:  awspkg.NopRecorder{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ArchiveKey is the object key for a run started at t.
func ArchiveKey(t time.Time) string {
	return "archive/bookings_archive_" + t.UTC().Format(archiveKeyLayout) + ".json"
}

func (a *Archiver) Run(ctx context.Context) (*Result, error) {
	bookings, err := a.bookings.Export(ctx)
	if err != nil {
		return nil, apperrors.Dependency("Failed to scan bookings", err)
	}
	res := &Result{Message: "Maintenance task completed"}
	if len(bookings) == 0 {
		a.logger.Info("No bookings to archive")
		return res, nil
	}

	body, err := json.Marshal(bookings)
	if err != nil {
		return nil, fmt.Errorf("marshal bookings: %w", err)
	}
	key := ArchiveKey(a.now())
	if err := a.store.PutObject(ctx, a.bucket, key, body, "application/json"); err != nil {
		return nil, apperrors.Dependency("Failed to upload archive", err)
	}

	res.Archived = len(bookings)
	res.Key = key
	a.logger.Info("Archived bookings",
		zap.Int("count", res.Archived),
		zap.String("bucket", a.bucket),
		zap.String("key", key),
	)
	_ = a.metrics.RecordCount(ctx, awspkg.MetricBookingsArchived, nil)
	return res, nil
}

