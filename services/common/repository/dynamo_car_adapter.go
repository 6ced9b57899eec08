package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/shopspring/decimal"

	"github.com/yashrajoria/car-rental/backend/pkg/dynamodb"
	"github.com/yashrajoria/car-rental/backend/services/common/models"
)

// DynamoCarAdapter reads the Cars table, keyed by CarId.
type DynamoCarAdapter struct {
	table *dynamodb.Table
}

func NewDynamoCarAdapter(api dynamodb.API, table string) *DynamoCarAdapter {
	return &DynamoCarAdapter{table: dynamodb.NewTable(api, table)}
}

type ddbCar struct {
	CarID string          `dynamodbav:"CarId"`
	Make  string          `dynamodbav:"make"`
	Model string          `dynamodbav:"model"`
	Price dynamodb.Number `dynamodbav:"price"`
}

var carAttributes = map[string]struct{}{"CarId": {}, "make": {}, "model": {}, "price": {}}

// carFromItem decodes a car item. Attributes outside the known set are kept
// in Extra. year is display text in older rows: a numeric year fills Year,
// anything else stays in Extra as stored.
func carFromItem(item dynamodb.Item) (models.Car, error) {
	var row ddbCar
	if err := attributevalue.UnmarshalMap(item, &row); err != nil {
		return models.Car{}, fmt.Errorf("unmarshal car: %w", err)
	}
	car := models.Car{
		CarID: row.CarID,
		Make:  row.Make,
		Model: row.Model,
		Price: row.Price.DecimalOr(decimal.Zero),
	}

	rest := make(dynamodb.Item)
	for k, v := range item {
		if _, known := carAttributes[k]; !known {
			rest[k] = v
		}
	}
	if av, ok := rest["year"]; ok {
		var year dynamodb.Number
		if err := year.UnmarshalDynamoDBAttributeValue(av); err == nil {
			car.Year = int(year.IntOr(0))
			delete(rest, "year")
		}
	}
	if len(rest) > 0 {
		if err := attributevalue.UnmarshalMap(rest, &car.Extra); err != nil {
			return models.Car{}, fmt.Errorf("unmarshal car attributes: %w", err)
		}
	}
	return car, nil
}

// carToItem is the inverse of carFromItem.
func carToItem(car models.Car) (dynamodb.Item, error) {
	item := make(dynamodb.Item)
	if len(car.Extra) > 0 {
		extra, err := attributevalue.MarshalMap(car.Extra)
		if err != nil {
			return nil, fmt.Errorf("marshal car attributes: %w", err)
		}
		for k, v := range extra {
			item[k] = v
		}
	}
	row := ddbCar{
		CarID: car.CarID,
		Make:  car.Make,
		Model: car.Model,
		Price: dynamodb.NewNumber(car.Price),
	}
	known, err := attributevalue.MarshalMap(row)
	if err != nil {
		return nil, fmt.Errorf("marshal car: %w", err)
	}
	for k, v := range known {
		item[k] = v
	}
	if car.Year != 0 {
		if item["year"], err = dynamodb.NumberFromInt(int64(car.Year)).MarshalDynamoDBAttributeValue(); err != nil {
			return nil, fmt.Errorf("marshal car year: %w", err)
		}
	}
	return item, nil
}

func (d *DynamoCarAdapter) Get(ctx context.Context, carID string) (*models.Car, error) {
	item, err := d.table.GetItem(ctx, dynamodb.Key("CarId", carID))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNotFound
	}
	car, err := carFromItem(item)
	if err != nil {
		return nil, err
	}
	return &car, nil
}

// Put writes car, replacing any existing record with the same CarId.
func (d *DynamoCarAdapter) Put(ctx context.Context, car models.Car) error {
	item, err := carToItem(car)
	if err != nil {
		return err
	}
	return d.table.PutItem(ctx, item)
}

// Search lower-cases query and matches it as a substring of make or model.
func (d *DynamoCarAdapter) Search(ctx context.Context, query string) ([]models.Car, error) {
	var filter *dynamodb.Filter
	if q := strings.ToLower(strings.TrimSpace(query)); q != "" {
		filter = dynamodb.ContainsAny(q, "make", "model")
	}
	items, err := d.table.ScanItems(ctx, filter)
	if err != nil {
		return nil, err
	}
	cars := make([]models.Car, 0, len(items))
	for _, item := range items {
		car, err := carFromItem(item)
		if err != nil {
			return nil, err
		}
		cars = append(cars, car)
	}
	return cars, nil
}
