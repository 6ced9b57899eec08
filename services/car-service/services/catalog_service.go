package services

import (
	"context"

	apperrors "github.com/yashrajoria/car-rental/backend/services/common/errors"
	"github.com/yashrajoria/car-rental/backend/services/common/models"
	"github.com/yashrajoria/car-rental/backend/services/common/repository"
)

// CatalogService lists and searches cars straight from the primary store.
type CatalogService struct {
	cars repository.CarRepo
}

func NewCatalogService(cars repository.CarRepo) *CatalogService {
	return &CatalogService{cars: cars}
}

// Search matches query (case-folded) against make and model. An empty query
// returns every car.
func (s *CatalogService) Search(ctx context.Context, query string) ([]models.Car, error) {
	cars, err := s.cars.Search(ctx, query)
	if err != nil {
		return nil, apperrors.Dependency("Failed to search cars", err)
	}
	if cars == nil {
		cars = []models.Car{}
	}
	return cars, nil
}
