package services

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yashrajoria/car-rental/backend/pkg/dynamodb/dynamotest"
	apperrors "github.com/yashrajoria/car-rental/backend/services/common/errors"
	"github.com/yashrajoria/car-rental/backend/services/common/models"
	"github.com/yashrajoria/car-rental/backend/services/common/repository"
)

func newTestService(t *testing.T) (*CartService, *dynamotest.Memory) {
	t.Helper()
	db := dynamotest.New(map[string]dynamotest.Schema{
		"ShoppingCart": {PartitionKey: "UserId", SortKey: "CarId"},
		"Cars":         {PartitionKey: "CarId"},
	})
	db.Seed("Cars", map[string]types.AttributeValue{
		"CarId": &types.AttributeValueMemberS{Value: "c1"},
		"make":  &types.AttributeValueMemberS{Value: "Toyota"},
		"model": &types.AttributeValueMemberS{Value: "Corolla"},
		"year":  &types.AttributeValueMemberN{Value: "2022"},
		"price": &types.AttributeValueMemberN{Value: "40"},
	})
	svc := NewCartService(
		repository.NewDynamoCartAdapter(db, "ShoppingCart"),
		repository.NewDynamoCarAdapter(db, "Cars"),
		zap.NewNop(),
	)
	return svc, db
}

func TestAddListRemove(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.AddItem(ctx, models.CartEntry{UserID: "u1", CarID: "c1", Quantity: 5}))
	require.NoError(t, svc.AddItem(ctx, models.CartEntry{UserID: "u1", CarID: "gone"}))
	require.NoError(t, svc.AddItem(ctx, models.CartEntry{UserID: "u2", CarID: "c1", Quantity: 2}))

	items, err := svc.ListItems(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, items, 2)

	byCar := map[string]CartItem{}
	for _, it := range items {
		byCar[it["CarId"].(string)] = it
	}
	assert.Equal(t, 5, byCar["c1"]["Quantity"])
	assert.Equal(t, "Toyota", byCar["c1"]["make"])
	assert.Equal(t, 40.0, byCar["c1"]["price"])
	assert.Equal(t, CartItem{"UserId": "u1", "CarId": "gone", "Quantity": 1}, byCar["gone"])

	require.NoError(t, svc.RemoveItem(ctx, "u1", "c1"))
	items, err = svc.ListItems(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestAddItemOverwritesQuantity(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	require.NoError(t, svc.AddItem(ctx, models.CartEntry{UserID: "u1", CarID: "c1", Quantity: 3}))
	require.NoError(t, svc.AddItem(ctx, models.CartEntry{UserID: "u1", CarID: "c1", Quantity: 7}))

	items, err := svc.ListItems(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 7, items[0]["Quantity"])
}

func TestListItemsEmptyUser(t *testing.T) {
	svc, db := newTestService(t)
	items, err := svc.ListItems(context.Background(), "")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
	assert.Zero(t, db.Calls["Query"])
}

func TestValidationAndStoreErrors(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	err := svc.AddItem(ctx, models.CartEntry{UserID: "u1"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Equal(t, "UserId and CarId must be provided.", apperrors.PublicMessage(err))
	assert.ErrorIs(t, svc.RemoveItem(ctx, "", "c1"), apperrors.ErrValidation)

	db.Err = errors.New("throttled")
	assert.ErrorIs(t, svc.AddItem(ctx, models.CartEntry{UserID: "u1", CarID: "c1"}), apperrors.ErrDependency)
	_, err = svc.ListItems(ctx, "u1")
	assert.ErrorIs(t, err, apperrors.ErrDependency)
}

func TestAddItemRejectsNegativeQuantity(t *testing.T) {
	svc, db := newTestService(t)
	err := svc.AddItem(context.Background(), models.CartEntry{UserID: "u1", CarID: "c1", Quantity: -2})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Equal(t, "Quantity must be at least 1", apperrors.PublicMessage(err))
	assert.Empty(t, db.Items("ShoppingCart"))
}
