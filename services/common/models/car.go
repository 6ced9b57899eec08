package models

import (
	"encoding/json"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Car is a catalog record. Price is the per-day rate. Year is zero when the
// stored year is missing or not a number; a non-numeric year stays in Extra.
type Car struct {
	CarID string          `json:"CarId"`
	Make  string          `json:"make"`
	Model string          `json:"model"`
	Year  int             `json:"year,omitempty"`
	Price decimal.Decimal `json:"price"`

	// Extra carries any other catalog attributes untouched.
	Extra map[string]any `json:"-"`
}

// MarshalJSON flattens Extra into the object and writes price as a plain JSON
// number.
func (c Car) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(c.Extra)+5)
	for k, v := range c.Extra {
		out[k] = v
	}
	out["CarId"] = c.CarID
	out["make"] = c.Make
	out["model"] = c.Model
	if c.Year != 0 {
		out["year"] = c.Year
	}
	out["price"] = c.Price.InexactFloat64()
	return json.Marshal(out)
}

func (c *Car) UnmarshalJSON(data []byte) error {
	type plain struct {
		CarID string          `json:"CarId"`
		Make  string          `json:"make"`
		Model string          `json:"model"`
		Price decimal.Decimal `json:"price"`
	}
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	var all map[string]any
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for _, k := range []string{"CarId", "make", "model", "price"} {
		delete(all, k)
	}
	*c = Car{CarID: p.CarID, Make: p.Make, Model: p.Model, Price: p.Price}
	switch y := all["year"].(type) {
	case float64:
		if y == math.Trunc(y) {
			c.Year = int(y)
			delete(all, "year")
		}
	case nil:
		delete(all, "year")
	}
	if len(all) > 0 {
		c.Extra = all
	}
	return nil
}

// CacheEntry is a snapshot of a Car with an absolute expiry.
type CacheEntry struct {
	CarID  string
	Data   Car
	Expiry int64 // unix seconds
}

// Valid reports whether the entry may still be served at now.
func (e CacheEntry) Valid(now time.Time) bool {
	return e.Expiry > now.Unix()
}
