package dynamodb

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type fakeAPI struct {
	getItem   Item
	putInputs []*dynamodb.PutItemInput
	putErr    error
	deleted   []Item
	pages     [][]Item
	queries   []*dynamodb.QueryInput
	scans     []*dynamodb.ScanInput
}

func (f *fakeAPI) GetItem(context.Context, *dynamodb.GetItemInput, ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	return &dynamodb.GetItemOutput{Item: f.getItem}, nil
}

func (f *fakeAPI) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.putInputs = append(f.putInputs, in)
	return &dynamodb.PutItemOutput{}, f.putErr
}

func (f *fakeAPI) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.deleted = append(f.deleted, in.Key)
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *fakeAPI) page(n int) (items []Item, last Item) {
	if n >= len(f.pages) {
		return nil, nil
	}
	if n < len(f.pages)-1 {
		last = Item{"page": &types.AttributeValueMemberS{Value: string(rune('0' + n + 1))}}
	}
	return f.pages[n], last
}

func pageIndex(start Item) int {
	if start == nil {
		return 0
	}
	return int(start["page"].(*types.AttributeValueMemberS).Value[0] - '0')
}

func (f *fakeAPI) Query(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.queries = append(f.queries, in)
	items, last := f.page(pageIndex(in.ExclusiveStartKey))
	return &dynamodb.QueryOutput{Items: items, LastEvaluatedKey: last}, nil
}

func (f *fakeAPI) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.scans = append(f.scans, in)
	items, last := f.page(pageIndex(in.ExclusiveStartKey))
	return &dynamodb.ScanOutput{Items: items, LastEvaluatedKey: last}, nil
}

var errThrottled = errors.New("throttled")
