// Package catalog fetches the product listing from a remote HTTP source and
// serves lookups over it.
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// ID identifies a product. The remote API sends integers; other sources and
// the persisted cart may send strings. Both decode to the same ID.
type ID string

// UnmarshalJSON accepts a JSON string or integer.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("product id must be a string or integer: %w", err)
	}
	if _, err := strconv.ParseInt(n.String(), 10, 64); err != nil {
		return fmt.Errorf("product id must be an integer, got %s", n)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// Rating is the aggregate review score the remote API reports.
type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Product is a read-only catalog entry.
type Product struct {
	ID          ID              `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Description string          `json:"description,omitempty"`
	Rating      Rating          `json:"rating"`
}

// FormatPrice renders the price with two decimals.
func (p Product) FormatPrice() string {
	return p.Price.StringFixed(2)
}
