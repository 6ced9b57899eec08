package services

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	apperrors "github.com/yashrajoria/car-rental/backend/services/common/errors"
)

// BookingRequest is the canonical request every invocation shape is reduced
// to.
type BookingRequest struct {
	UserID   string
	CarID    string
	Quantity int
}

// Validate checks the invariants Decide relies on.
func (r BookingRequest) Validate() error {
	if r.UserID == "" || r.CarID == "" {
		return apperrors.Validation("Missing UserId or CarId")
	}
	if r.Quantity < 1 {
		return apperrors.Validation("Quantity must be at least 1")
	}
	return nil
}

// ParseBookingRequest reads a decoded JSON payload. Identifiers are accepted
// as UserId/userId and CarId/carId. Quantity (or quantity) defaults to 1 and
// may be a number or a numeric string; fractions are truncated.
func ParseBookingRequest(payload map[string]any) (BookingRequest, error) {
	req := BookingRequest{
		UserID: stringField(payload, "UserId", "userId"),
		CarID:  stringField(payload, "CarId", "carId"),
	}
	if req.UserID == "" || req.CarID == "" {
		return req, apperrors.Validation("Missing UserId or CarId")
	}

	qty, err := quantityField(payload, "Quantity", "quantity")
	if err != nil {
		return req, err
	}
	req.Quantity = qty
	return req, req.Validate()
}

func lookup(payload map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := payload[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func stringField(payload map[string]any, keys ...string) string {
	v, ok := lookup(payload, keys...)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case float64:
		return decimal.NewFromFloat(t).String()
	default:
		return ""
	}
}

func quantityField(payload map[string]any, keys ...string) (int, error) {
	v, ok := lookup(payload, keys...)
	if !ok {
		return 1, nil
	}

	var d decimal.Decimal
	var err error
	switch t := v.(type) {
	case json.Number:
		d, err = decimal.NewFromString(t.String())
	case float64:
		d = decimal.NewFromFloat(t)
	case string:
		d, err = decimal.NewFromString(strings.TrimSpace(t))
	default:
		err = fmt.Errorf("unsupported type %T", v)
	}
	if err != nil {
		return 0, apperrors.Validation("Quantity must be a number")
	}
	// Anything past int32 is declined anyway; clamp so IntPart cannot overflow.
	if limit := decimal.NewFromInt(math.MaxInt32); d.GreaterThan(limit) {
		d = limit
	} else if d.IsNegative() {
		d = decimal.Zero
	}
	return int(d.IntPart()), nil
}
