package services

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/yashrajoria/car-rental/backend/services/common/repository"
)

// Resolved is the outcome of one enrichment lookup. When Degraded is set,
// Value holds the substituted default and Err says why.
type Resolved[T any] struct {
	Value    T
	Degraded bool
	Err      error
}

func found[T any](v T) Resolved[T] { return Resolved[T]{Value: v} }

func fallback[T any](def T, err error) Resolved[T] {
	return Resolved[T]{Value: def, Degraded: true, Err: err}
}

var errBadQuantity = errors.New("cart quantity below 1")

// CarDetails are the display fields of a car.
type CarDetails struct {
	Make  string
	Model string
	Year  string
	Rate  decimal.Decimal
}

// DefaultCarDetails is used when the car cannot be read.
var DefaultCarDetails = CarDetails{Make: "Unknown", Model: "", Year: "N/A", Rate: decimal.Zero}

// Enricher joins a notification event with the cart and the car catalog.
// Lookups never fail: a failed or empty lookup yields a degraded default.
type Enricher struct {
	cart   repository.CartRepo
	cars   repository.CarRepo
	logger *zap.Logger
}

func NewEnricher(cart repository.CartRepo, cars repository.CarRepo, logger *zap.Logger) *Enricher {
	return &Enricher{cart: cart, cars: cars, logger: logger}
}

// Quantity reads the rental days from the cart entry, defaulting to 1.
func (e *Enricher) Quantity(ctx context.Context, userID, carID string) Resolved[int] {
	entry, err := e.cart.Get(ctx, userID, carID)
	if err != nil {
		return fallback(1, err)
	}
	if entry.Quantity < 1 {
		return fallback(1, errBadQuantity)
	}
	return found(entry.Quantity)
}

// Car reads the display fields, defaulting each missing field on its own.
func (e *Enricher) Car(ctx context.Context, carID string) Resolved[CarDetails] {
	car, err := e.cars.Get(ctx, carID)
	if err != nil {
		return fallback(DefaultCarDetails, err)
	}

	d := CarDetails{Make: car.Make, Model: car.Model, Year: DefaultCarDetails.Year, Rate: car.Price}
	if d.Make == "" {
		d.Make = DefaultCarDetails.Make
	}
	if car.Year != 0 {
		d.Year = strconv.Itoa(car.Year)
	} else if y, ok := car.Extra["year"].(string); ok && strings.TrimSpace(y) != "" {
		d.Year = strings.TrimSpace(y)
	}
	if d.Rate.IsNegative() {
		d.Rate = decimal.Zero
	}
	return found(d)
}
