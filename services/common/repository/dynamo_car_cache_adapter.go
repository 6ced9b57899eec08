package repository

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/yashrajoria/car-rental/backend/pkg/dynamodb"
	"github.com/yashrajoria/car-rental/backend/services/common/models"
)

// DynamoCarCacheAdapter stores {CarId, data, expiry} items. data is the car
// snapshot as a map attribute and expiry is unix seconds, so the table can
// also use expiry as its DynamoDB TTL attribute.
type DynamoCarCacheAdapter struct {
	table *dynamodb.Table
}

func NewDynamoCarCacheAdapter(api dynamodb.API, table string) *DynamoCarCacheAdapter {
	return &DynamoCarCacheAdapter{table: dynamodb.NewTable(api, table)}
}

func (d *DynamoCarCacheAdapter) Get(ctx context.Context, carID string) (*models.CacheEntry, error) {
	item, err := d.table.GetItem(ctx, dynamodb.Key("CarId", carID))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNotFound
	}

	data, ok := item["data"].(*types.AttributeValueMemberM)
	if !ok {
		return nil, fmt.Errorf("cache entry %s has no data map", carID)
	}
	car, err := carFromItem(data.Value)
	if err != nil {
		return nil, err
	}

	var expiry dynamodb.Number
	if av, ok := item["expiry"]; ok {
		if err := expiry.UnmarshalDynamoDBAttributeValue(av); err != nil {
			return nil, fmt.Errorf("cache entry %s: %w", carID, err)
		}
	}
	return &models.CacheEntry{CarID: carID, Data: car, Expiry: expiry.IntOr(0)}, nil
}

func (d *DynamoCarCacheAdapter) Put(ctx context.Context, e models.CacheEntry) error {
	data, err := carToItem(e.Data)
	if err != nil {
		return err
	}
	expiry, err := dynamodb.NumberFromInt(e.Expiry).MarshalDynamoDBAttributeValue()
	if err != nil {
		return err
	}
	return d.table.PutItem(ctx, dynamodb.Item{
		"CarId":  &types.AttributeValueMemberS{Value: e.CarID},
		"data":   &types.AttributeValueMemberM{Value: data},
		"expiry": expiry,
	})
}
