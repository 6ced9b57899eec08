package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	awspkg "github.com/yashrajoria/car-rental/backend/pkg/aws"
	apperrors "github.com/yashrajoria/car-rental/backend/services/common/errors"
	"github.com/yashrajoria/car-rental/backend/services/common/models"
	"github.com/yashrajoria/car-rental/backend/services/common/repository"
)

const (
	SourceCache   = "cache"
	SourcePrimary = "primary"

	DefaultCacheTTL = 300 * time.Second
	// MinCacheTTL is the expiry resolution: entries store whole unix seconds.
	MinCacheTTL = time.Second
)

// CarLookup is a car together with where it was read from.
type CarLookup struct {
	Source string     `json:"source"`
	Data   models.Car `json:"data"`
}

// CarCacheService serves car reads cache-aside. Entries are written on miss
// with an absolute expiry and never invalidated, so a caller may see data up
// to one TTL old.
type CarCacheService struct {
	cars    repository.CarRepo
	cache   repository.CarCacheRepo
	ttl     time.Duration
	logger  *zap.Logger
	metrics awspkg.Recorder
	now     func() time.Time
}

type Option func(*CarCacheService)

func WithClock(now func() time.Time) Option { return func(s *CarCacheService) { s.now = now } }

func WithMetrics(r awspkg.Recorder) Option { return func(s *CarCacheService) { s.metrics = r } }

func NewCarCacheService(cars repository.CarRepo, cache repository.CarCacheRepo, ttl time.Duration, logger *zap.Logger, opts ...Option) *CarCacheService {
	if ttl < MinCacheTTL {
		ttl = DefaultCacheTTL
	}
	s := &CarCacheService{
		cars:    cars,
		cache:   cache,
		ttl:     ttl,
		logger:  logger,
		metrics: awspkg.NopRecorder{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetCar returns the car from the cache when a valid entry exists, otherwise
// from the primary store, refreshing the cache. Cache failures only cost a
// trip to the primary store.
func (s *CarCacheService) GetCar(ctx context.Context, carID string) (*CarLookup, error) {
	if carID == "" {
		return nil, apperrors.Validation("CarId must be provided.")
	}
	now := s.now()

	entry, err := s.cache.Get(ctx, carID)
	switch {
	case err == nil && entry.Valid(now):
		s.count(ctx, awspkg.MetricCacheHits)
		return &CarLookup{Source: SourceCache, Data: entry.Data}, nil
	case err != nil && !errors.Is(err, repository.ErrNotFound):
		s.logger.Warn("car cache read failed, treating as miss", zap.String("car_id", carID), zap.Error(err))
	}
	s.count(ctx, awspkg.MetricCacheMisses)

	car, err := s.cars.Get(ctx, carID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("Car not found.")
	}
	if err != nil {
		return nil, apperrors.Dependency("Failed to read car", err)
	}

	fresh := models.CacheEntry{CarID: carID, Data: *car, Expiry: now.Add(s.ttl).Unix()}
	if err := s.cache.Put(ctx, fresh); err != nil {
		s.logger.Warn("car cache write failed", zap.String("car_id", carID), zap.Error(err))
	}
	return &CarLookup{Source: SourcePrimary, Data: *car}, nil
}

func (s *CarCacheService) count(ctx context.Context, metric string) {
	_ = s.metrics.RecordCount(ctx, metric, map[string]string{"Cache": "car"})
}
