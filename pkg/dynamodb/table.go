package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ErrConditionFailed is returned by PutIfAbsent when the key already exists.
var ErrConditionFailed = errors.New("dynamodb: condition check failed")

// API is the subset of the DynamoDB client the tables use. *dynamodb.Client
// satisfies it.
type API interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// Item is a raw DynamoDB item.
type Item = map[string]types.AttributeValue

// Key builds a key item from string attributes given as name, value pairs.
func Key(pairs ...string) Item {
	key := make(Item, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		key[pairs[i]] = &types.AttributeValueMemberS{Value: pairs[i+1]}
	}
	return key
}

// Table binds an API client to one table name.
type Table struct {
	api  API
	name string
}

func NewTable(api API, name string) *Table {
	return &Table{api: api, name: name}
}

func (t *Table) Name() string { return t.name }

// GetItem returns the raw item stored under key, or nil when there is none.
func (t *Table) GetItem(ctx context.Context, key Item) (Item, error) {
	res, err := t.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: sdkaws.String(t.name),
		Key:       key,
	})
	if err != nil {
		return nil, fmt.Errorf("get item from %s: %w", t.name, err)
	}
	if len(res.Item) == 0 {
		return nil, nil
	}
	return res.Item, nil
}

// Get unmarshals the item stored under key into out. found is false when
// there is no such item, in which case out is untouched.
func (t *Table) Get(ctx context.Context, key Item, out any) (found bool, err error) {
	item, err := t.GetItem(ctx, key)
	if err != nil || item == nil {
		return false, err
	}
	if err := attributevalue.UnmarshalMap(item, out); err != nil {
		return false, fmt.Errorf("unmarshal item from %s: %w", t.name, err)
	}
	return true, nil
}

// PutItem writes a raw item unconditionally.
func (t *Table) PutItem(ctx context.Context, item Item) error {
	_, err := t.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: sdkaws.String(t.name),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put item into %s: %w", t.name, err)
	}
	return nil
}

// Put marshals v and writes it unconditionally.
func (t *Table) Put(ctx context.Context, v any) error {
	item, err := attributevalue.MarshalMap(v)
	if err != nil {
		return fmt.Errorf("marshal item for %s: %w", t.name, err)
	}
	return t.PutItem(ctx, item)
}

// PutIfAbsent writes v only when no item with the same partition key exists.
// It returns ErrConditionFailed otherwise.
func (t *Table) PutIfAbsent(ctx context.Context, v any, partitionKey string) error {
	item, err := attributevalue.MarshalMap(v)
	if err != nil {
		return fmt.Errorf("marshal item for %s: %w", t.name, err)
	}
	_, err = t.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                sdkaws.String(t.name),
		Item:                     item,
		ConditionExpression:      sdkaws.String("attribute_not_exists(#pk)"),
		ExpressionAttributeNames: map[string]string{"#pk": partitionKey},
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrConditionFailed
		}
		return fmt.Errorf("put item into %s: %w", t.name, err)
	}
	return nil
}

func (t *Table) Delete(ctx context.Context, key Item) error {
	_, err := t.api.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: sdkaws.String(t.name),
		Key:       key,
	})
	if err != nil {
		return fmt.Errorf("delete item from %s: %w", t.name, err)
	}
	return nil
}

// Query unmarshals every item whose partition key attribute equals value into
// out, which must be a pointer to a slice.
func (t *Table) Query(ctx context.Context, partitionKey string, value types.AttributeValue, out any) error {
	p := dynamodb.NewQueryPaginator(t.api, &dynamodb.QueryInput{
		TableName:                 sdkaws.String(t.name),
		KeyConditionExpression:    sdkaws.String("#pk = :pk"),
		ExpressionAttributeNames:  map[string]string{"#pk": partitionKey},
		ExpressionAttributeValues: map[string]types.AttributeValue{":pk": value},
	})

	var items []Item
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("query %s: %w", t.name, err)
		}
		items = append(items, page.Items...)
	}
	return t.unmarshalList(items, out)
}

// Filter is an optional scan filter.
type Filter struct {
	Expression string
	Names      map[string]string
	Values     map[string]types.AttributeValue
}

// ContainsAny builds a filter matching items where any of the attributes
// contains needle.
func ContainsAny(needle string, attributes ...string) *Filter {
	f := &Filter{
		Names:  make(map[string]string, len(attributes)),
		Values: map[string]types.AttributeValue{":q": &types.AttributeValueMemberS{Value: needle}},
	}
	clauses := make([]string, 0, len(attributes))
	for i, attr := range attributes {
		placeholder := fmt.Sprintf("#a%d", i)
		f.Names[placeholder] = attr
		clauses = append(clauses, fmt.Sprintf("contains(%s, :q)", placeholder))
	}
	f.Expression = strings.Join(clauses, " OR ")
	return f
}

// ScanItems reads the whole table, applying filter when it is not nil.
func (t *Table) ScanItems(ctx context.Context, filter *Filter) ([]Item, error) {
	input := &dynamodb.ScanInput{TableName: sdkaws.String(t.name)}
	if filter != nil && filter.Expression != "" {
		input.FilterExpression = sdkaws.String(filter.Expression)
		input.ExpressionAttributeNames = filter.Names
		input.ExpressionAttributeValues = filter.Values
	}

	p := dynamodb.NewScanPaginator(t.api, input)
	var items []Item
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.name, err)
		}
		items = append(items, page.Items...)
	}
	return items, nil
}

// Scan is ScanItems unmarshalled into out, a pointer to a slice.
func (t *Table) Scan(ctx context.Context, filter *Filter, out any) error {
	items, err := t.ScanItems(ctx, filter)
	if err != nil {
		return err
	}
	return t.unmarshalList(items, out)
}

func (t *Table) unmarshalList(items []Item, out any) error {
	if items == nil {
		items = []Item{}
	}
	if err := attributevalue.UnmarshalListOfMaps(items, out); err != nil {
		return fmt.Errorf("unmarshal items from %s: %w", t.name, err)
	}
	return nil
}
