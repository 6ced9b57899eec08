// Package dynamotest provides an in-memory implementation of dynamodb.API for
// tests.
package dynamotest

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Schema names the key attributes of a table. SortKey may be empty.
type Schema struct {
	PartitionKey string
	SortKey      string
}

// Memory is a small DynamoDB stand-in. It understands the conditional put,
// the partition-key query and the contains() scan filters the tables issue.
// Scan and query results come back in key order.
type Memory struct {
	mu      sync.Mutex
	schemas map[string]Schema
	tables  map[string]map[string]map[string]types.AttributeValue

	// Err, when set, is returned by every call.
	Err error
	// Calls counts calls by operation name.
	Calls map[string]int
}

func New(schemas map[string]Schema) *Memory {
	return &Memory{
		schemas: schemas,
		tables:  make(map[string]map[string]map[string]types.AttributeValue),
		Calls:   make(map[string]int),
	}
}

// Items returns a copy of every item stored in table.
func (m *Memory) Items(table string) []map[string]types.AttributeValue {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sorted(table)
}

// Seed stores item in table without counting a call.
func (m *Memory) Seed(table string, item map[string]types.AttributeValue) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k, _ := m.key(table, item)
	m.table(table)[k] = item
}

func (m *Memory) table(name string) map[string]map[string]types.AttributeValue {
	t, ok := m.tables[name]
	if !ok {
		t = make(map[string]map[string]types.AttributeValue)
		m.tables[name] = t
	}
	return t
}

func (m *Memory) key(table string, item map[string]types.AttributeValue) (string, error) {
	s, ok := m.schemas[table]
	if !ok {
		return "", errors.New("dynamotest: unknown table " + table)
	}
	pk, ok := item[s.PartitionKey].(*types.AttributeValueMemberS)
	if !ok {
		return "", errors.New("dynamotest: missing partition key " + s.PartitionKey)
	}
	if s.SortKey == "" {
		return pk.Value, nil
	}
	sk, ok := item[s.SortKey].(*types.AttributeValueMemberS)
	if !ok {
		return "", errors.New("dynamotest: missing sort key " + s.SortKey)
	}
	return pk.Value + "\x00" + sk.Value, nil
}

func (m *Memory) sorted(table string) []map[string]types.AttributeValue {
	t := m.tables[table]
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]map[string]types.AttributeValue, 0, len(keys))
	for _, k := range keys {
		out = append(out, t[k])
	}
	return out
}

func (m *Memory) enter(op string) error {
	m.Calls[op]++
	return m.Err
}

func (m *Memory) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("GetItem"); err != nil {
		return nil, err
	}
	k, err := m.key(aws.ToString(in.TableName), in.Key)
	if err != nil {
		return nil, err
	}
	return &dynamodb.GetItemOutput{Item: m.table(aws.ToString(in.TableName))[k]}, nil
}

func (m *Memory) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("PutItem"); err != nil {
		return nil, err
	}
	name := aws.ToString(in.TableName)
	k, err := m.key(name, in.Item)
	if err != nil {
		return nil, err
	}
	if strings.HasPrefix(aws.ToString(in.ConditionExpression), "attribute_not_exists") {
		if _, exists := m.table(name)[k]; exists {
			return nil, &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
		}
	}
	m.table(name)[k] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (m *Memory) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("DeleteItem"); err != nil {
		return nil, err
	}
	name := aws.ToString(in.TableName)
	k, err := m.key(name, in.Key)
	if err != nil {
		return nil, err
	}
	delete(m.table(name), k)
	return &dynamodb.DeleteItemOutput{}, nil
}

func (m *Memory) Query(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("Query"); err != nil {
		return nil, err
	}
	attr := in.ExpressionAttributeNames["#pk"]
	want, _ := in.ExpressionAttributeValues[":pk"].(*types.AttributeValueMemberS)

	var items []map[string]types.AttributeValue
	for _, item := range m.sorted(aws.ToString(in.TableName)) {
		if got, ok := item[attr].(*types.AttributeValueMemberS); ok && want != nil && got.Value == want.Value {
			items = append(items, item)
		}
	}
	return &dynamodb.QueryOutput{Items: items, Count: int32(len(items))}, nil
}

func (m *Memory) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("Scan"); err != nil {
		return nil, err
	}
	var items []map[string]types.AttributeValue
	for _, item := range m.sorted(aws.ToString(in.TableName)) {
		if in.FilterExpression == nil || matchesContains(item, in) {
			items = append(items, item)
		}
	}
	return &dynamodb.ScanOutput{Items: items, Count: int32(len(items))}, nil
}

// matchesContains evaluates an OR of contains(#name, :q) clauses.
func matchesContains(item map[string]types.AttributeValue, in *dynamodb.ScanInput) bool {
	needle, ok := in.ExpressionAttributeValues[":q"].(*types.AttributeValueMemberS)
	if !ok {
		return false
	}
	for _, attr := range in.ExpressionAttributeNames {
		if v, ok := item[attr].(*types.AttributeValueMemberS); ok && strings.Contains(v.Value, needle.Value) {
			return true
		}
	}
	return false
}
