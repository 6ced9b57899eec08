package repository

import (
	"context"
	"errors"

	"github.com/yashrajoria/car-rental/backend/services/common/models"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicateKey = errors.New("duplicate key")
)

// BookingRepo persists approved bookings.
type BookingRepo interface {
	// Create stores b. It returns ErrDuplicateKey when b.BookingID is taken
	// and never overwrites an existing booking.
	Create(ctx context.Context, b *models.BookingRecord) error
	List(ctx context.Context) ([]models.BookingRecord, error)
}

// CartRepo reads and writes cart entries keyed by user and car.
type CartRepo interface {
	Get(ctx context.Context, userID, carID string) (*models.CartEntry, error)
	Put(ctx context.Context, e models.CartEntry) error
	Delete(ctx context.Context, userID, carID string) error
	ListByUser(ctx context.Context, userID string) ([]models.CartEntry, error)
}

// CarRepo is the canonical car catalog.
type CarRepo interface {
	Get(ctx context.Context, carID string) (*models.Car, error)
	// Search matches query against make and model. An empty query lists
	// every car.
	Search(ctx context.Context, query string) ([]models.Car, error)
}

// CarCacheRepo stores car snapshots with an absolute expiry.
type CarCacheRepo interface {
	Get(ctx context.Context, carID string) (*models.CacheEntry, error)
	Put(ctx context.Context, e models.CacheEntry) error
}
