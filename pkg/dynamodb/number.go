package dynamodb

import (
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
)

// Number is a DynamoDB numeric attribute that tolerates the loose typing of
// hand-edited tables. It decodes N values, numeric S values and NULL (which
// leaves it unset). It always encodes as N.
type Number struct {
	decimal.Decimal
	Valid bool
}

func NewNumber(d decimal.Decimal) Number {
	return Number{Decimal: d, Valid: true}
}

func NumberFromInt(v int64) Number {
	return NewNumber(decimal.NewFromInt(v))
}

func (n Number) MarshalDynamoDBAttributeValue() (types.AttributeValue, error) {
	if !n.Valid {
		return &types.AttributeValueMemberNULL{Value: true}, nil
	}
	return &types.AttributeValueMemberN{Value: n.Decimal.String()}, nil
}

func (n *Number) UnmarshalDynamoDBAttributeValue(av types.AttributeValue) error {
	var raw string
	switch v := av.(type) {
	case *types.AttributeValueMemberN:
		raw = v.Value
	case *types.AttributeValueMemberS:
		raw = strings.TrimSpace(v.Value)
		if raw == "" {
			*n = Number{}
			return nil
		}
	case *types.AttributeValueMemberNULL:
		*n = Number{}
		return nil
	default:
		return fmt.Errorf("dynamodb: cannot decode %T as a number", av)
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return fmt.Errorf("dynamodb: invalid number %q: %w", raw, err)
	}
	*n = NewNumber(d)
	return nil
}

// IntOr returns the integer part of n, or def when n is unset.
func (n Number) IntOr(def int64) int64 {
	if !n.Valid {
		return def
	}
	return n.Decimal.IntPart()
}

// DecimalOr returns n, or def when n is unset.
func (n Number) DecimalOr(def decimal.Decimal) decimal.Decimal {
	if !n.Valid {
		return def
	}
	return n.Decimal
}
