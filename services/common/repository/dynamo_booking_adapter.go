package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"

	"github.com/yashrajoria/car-rental/backend/pkg/dynamodb"
	"github.com/yashrajoria/car-rental/backend/services/common/models"
)

// DynamoBookingAdapter stores bookings in a table keyed by BookingId.
type DynamoBookingAdapter struct {
	table *dynamodb.Table
}

func NewDynamoBookingAdapter(api dynamodb.API, table string) *DynamoBookingAdapter {
	return &DynamoBookingAdapter{table: dynamodb.NewTable(api, table)}
}

type ddbBooking struct {
	BookingID     string          `dynamodbav:"BookingId"`
	UserID        string          `dynamodbav:"UserId"`
	CarID         string          `dynamodbav:"CarId"`
	Quantity      dynamodb.Number `dynamodbav:"Quantity"`
	PaymentStatus string          `dynamodbav:"PaymentStatus"`
	Timestamp     string          `dynamodbav:"Timestamp"`
}

func (d *DynamoBookingAdapter) Create(ctx context.Context, b *models.BookingRecord) error {
	item := ddbBooking{
		BookingID:     b.BookingID,
		UserID:        b.UserID,
		CarID:         b.CarID,
		Quantity:      dynamodb.NumberFromInt(int64(b.Quantity)),
		PaymentStatus: b.PaymentStatus,
		Timestamp:     b.Timestamp.UTC().Format(time.RFC3339Nano),
	}
	err := d.table.PutIfAbsent(ctx, item, "BookingId")
	if errors.Is(err, dynamodb.ErrConditionFailed) {
		return ErrDuplicateKey
	}
	return err
}

// List decodes every booking. A timestamp in none of the known layouts is
// left zero rather than failing the scan.
func (d *DynamoBookingAdapter) List(ctx context.Context) ([]models.BookingRecord, error) {
	var rows []ddbBooking
	if err := d.table.Scan(ctx, nil, &rows); err != nil {
		return nil, err
	}
	out := make([]models.BookingRecord, 0, len(rows))
	for _, r := range rows {
		rec := models.BookingRecord{
			BookingID:     r.BookingID,
			UserID:        r.UserID,
			CarID:         r.CarID,
			Quantity:      int(r.Quantity.IntOr(1)),
			PaymentStatus: r.PaymentStatus,
		}
		if ts, ok := ParseTimestamp(r.Timestamp); ok {
			rec.Timestamp = ts
		}
		out = append(out, rec)
	}
	return out, nil
}

// Export returns every booking item as stored, attribute for attribute.
func (d *DynamoBookingAdapter) Export(ctx context.Context) ([]map[string]any, error) {
	items, err := d.table.ScanItems(ctx, nil)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(items))
	if err := attributevalue.UnmarshalListOfMaps(items, &out); err != nil {
		return nil, fmt.Errorf("unmarshal bookings: %w", err)
	}
	return out, nil
}

// Zone-less layouts are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// ParseTimestamp reads a stored booking timestamp.
func ParseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return ts.UTC(), true
		}
	}
	return time.Time{}, false
}
