package repository

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/yashrajoria/car-rental/backend/pkg/dynamodb"
	"github.com/yashrajoria/car-rental/backend/services/common/models"
)

// DynamoCartAdapter stores cart entries keyed by UserId (partition) and CarId
// (sort).
type DynamoCartAdapter struct {
	table *dynamodb.Table
}

func NewDynamoCartAdapter(api dynamodb.API, table string) *DynamoCartAdapter {
	return &DynamoCartAdapter{table: dynamodb.NewTable(api, table)}
}

type ddbCartEntry struct {
	UserID   string          `dynamodbav:"UserId"`
	CarID    string          `dynamodbav:"CarId"`
	Quantity dynamodb.Number `dynamodbav:"Quantity"`
}

func (r ddbCartEntry) model() models.CartEntry {
	return models.CartEntry{UserID: r.UserID, CarID: r.CarID, Quantity: int(r.Quantity.IntOr(0))}
}

func (d *DynamoCartAdapter) Get(ctx context.Context, userID, carID string) (*models.CartEntry, error) {
	var row ddbCartEntry
	found, err := d.table.Get(ctx, dynamodb.Key("UserId", userID, "CarId", carID), &row)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}
	e := row.model()
	return &e, nil
}

func (d *DynamoCartAdapter) Put(ctx context.Context, e models.CartEntry) error {
	return d.table.Put(ctx, ddbCartEntry{
		UserID:   e.UserID,
		CarID:    e.CarID,
		Quantity: dynamodb.NumberFromInt(int64(e.Quantity)),
	})
}

func (d *DynamoCartAdapter) Delete(ctx context.Context, userID, carID string) error {
	return d.table.Delete(ctx, dynamodb.Key("UserId", userID, "CarId", carID))
}

func (d *DynamoCartAdapter) ListByUser(ctx context.Context, userID string) ([]models.CartEntry, error) {
	var rows []ddbCartEntry
	if err := d.table.Query(ctx, "UserId", &types.AttributeValueMemberS{Value: userID}, &rows); err != nil {
		return nil, err
	}
	out := make([]models.CartEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.model())
	}
	return out, nil
}
