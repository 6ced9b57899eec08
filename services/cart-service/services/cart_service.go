package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	apperrors "github.com/yashrajoria/car-rental/backend/services/common/errors"
	"github.com/yashrajoria/car-rental/backend/services/common/models"
	"github.com/yashrajoria/car-rental/backend/services/common/repository"
)

// CartItem is a cart entry merged with its car's catalog attributes. Car
// attributes win on key collisions, so CarId is always the catalog's.
type CartItem map[string]any

type CartService struct {
	cart     repository.CartRepo
	cars     repository.CarRepo
	validate *validator.Validate
	logger   *zap.Logger
}

func NewCartService(cart repository.CartRepo, cars repository.CarRepo, logger *zap.Logger) *CartService {
	return &CartService{cart: cart, cars: cars, validate: validator.New(), logger: logger}
}

// AddItem stores e, replacing any existing entry for the same user and car.
// A zero quantity means one day.
func (s *CartService) AddItem(ctx context.Context, e models.CartEntry) error {
	if e.Quantity == 0 {
		e.Quantity = 1
	}
	if err := s.validateEntry(e); err != nil {
		return err
	}
	if err := s.cart.Put(ctx, e); err != nil {
		return apperrors.Dependency("Failed to add item to cart", err)
	}
	s.logger.Info("Cart item stored",
		zap.String("user_id", e.UserID),
		zap.String("car_id", e.CarID),
		zap.Int("quantity", e.Quantity),
	)
	return nil
}

func (s *CartService) validateEntry(e models.CartEntry) error {
	err := s.validate.Struct(e)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			if fe.Field() == "Quantity" {
				return apperrors.Validation("Quantity must be at least 1")
			}
		}
		return apperrors.Validation("UserId and CarId must be provided.")
	}
	return apperrors.Validation(err.Error())
}

func (s *CartService) RemoveItem(ctx context.Context, userID, carID string) error {
	if userID == "" || carID == "" {
		return apperrors.Validation("UserId and CarId must be provided.")
	}
	if err := s.cart.Delete(ctx, userID, carID); err != nil {
		return apperrors.Dependency("Failed to remove item from cart", err)
	}
	return nil
}

// ListItems returns the user's cart entries, each merged with its car. An
// entry whose car is gone is returned on its own. An empty userID yields an
// empty cart.
func (s *CartService) ListItems(ctx context.Context, userID string) ([]CartItem, error) {
	items := []CartItem{}
	if userID == "" {
		return items, nil
	}
	entries, err := s.cart.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Dependency("Failed to read cart", err)
	}
	for _, e := range entries {
		car, err := s.cars.Get(ctx, e.CarID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			car = nil
		case err != nil:
			return nil, apperrors.Dependency("Failed to read car", err)
		}
		item, err := merge(e, car)
		if err != nil {
			return nil, apperrors.Dependency("Failed to build cart item", err)
		}
		items = append(items, item)
	}
	return items, nil
}

func merge(e models.CartEntry, car *models.Car) (CartItem, error) {
	item := CartItem{"UserId": e.UserID, "CarId": e.CarID, "Quantity": e.Quantity}
	if car == nil {
		return item, nil
	}
	raw, err := json.Marshal(car)
	if err != nil {
		return nil, fmt.Errorf("marshal car %s: %w", car.CarID, err)
	}
	var attrs map[string]any
	if err := json.Unmarshal(raw, &attrs); err != nil {
		return nil, fmt.Errorf("unmarshal car %s: %w", car.CarID, err)
	}
	for k, v := range attrs {
		item[k] = v
	}
	return item, nil
}
