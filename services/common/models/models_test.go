package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCarJSONPriceIsNumber(t *testing.T) {
	car := Car{CarID: "c1", Make: "Toyota", Model: "Corolla", Year: 2022, Price: decimal.RequireFromString("40.5"),
		Extra: map[string]any{"seats": 5.0}}

	b, err := json.Marshal(car)
	require.NoError(t, err)
	assert.JSONEq(t, `{"CarId":"c1","make":"Toyota","model":"Corolla","year":2022,"price":40.5,"seats":5}`, string(b))

	var back Car
	require.NoError(t, json.Unmarshal(b, &back))
	assert.True(t, back.Price.Equal(car.Price))
	assert.Equal(t, car.Extra, back.Extra)
	assert.Equal(t, 2022, back.Year)
}

func TestCarJSONKeepsTextYear(t *testing.T) {
	var car Car
	require.NoError(t, json.Unmarshal([]byte(`{"CarId":"c1","make":"Ford","model":"T","year":"N/A","price":12}`), &car))
	assert.Equal(t, 0, car.Year)
	assert.Equal(t, map[string]any{"year": "N/A"}, car.Extra)

	b, err := json.Marshal(car)
	require.NoError(t, err)
	assert.JSONEq(t, `{"CarId":"c1","make":"Ford","model":"T","year":"N/A","price":12}`, string(b))

	require.NoError(t, json.Unmarshal([]byte(`{"CarId":"c2","year":null}`), &car))
	assert.Nil(t, car.Extra)
}

func TestCacheEntryValid(t *testing.T) {
	now := time.Unix(1000, 0)
	assert.True(t, CacheEntry{Expiry: 1001}.Valid(now))
	assert.False(t, CacheEntry{Expiry: 1000}.Valid(now))
	assert.False(t, CacheEntry{Expiry: 999}.Valid(now))
}
