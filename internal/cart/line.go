// Package cart holds the shopping cart state engine: an insertion-ordered set
// of product lines, mutated by four operations and persisted after each one.
package cart

import (
	"encoding/json"
	"fmt"

	"storefront/internal/catalog"

	"github.com/shopspring/decimal"
)

// Line is one product in the cart with its quantity.
// Serialized, the product fields and "quantity" sit side by side.
type Line struct {
	catalog.Product
	Quantity int `json:"quantity"`
}

// Subtotal is price times quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Snapshot is a point-in-time copy of the cart for rendering.
type Snapshot struct {
	Lines []Line
	Total decimal.Decimal
	Count int
}

// Empty reports whether the snapshot has no lines.
func (s Snapshot) Empty() bool { return len(s.Lines) == 0 }

// FormatTotal renders the snapshot total with two decimals.
func (s Snapshot) FormatTotal() string { return s.Total.StringFixed(2) }

func encodeLines(lines []Line) (string, error) {
	if lines == nil {
		lines = []Line{}
	}
	data, err := json.Marshal(lines)
	if err != nil {
		return "", fmt.Errorf("failed to encode cart: %w", err)
	}
	return string(data), nil
}

// decodeLines parses a persisted cart. The payload must be a JSON array of
// lines, each with a non-empty id and quantity >= 1, and no id may repeat.
func decodeLines(payload string) ([]Line, error) {
	var lines []Line
	if err := json.Unmarshal([]byte(payload), &lines); err != nil {
		return nil, fmt.Errorf("cart payload is not a line array: %w", err)
	}
	if lines == nil {
		// "null" decodes without error
		return nil, fmt.Errorf("cart payload is null")
	}

	seen := make(map[catalog.ID]bool, len(lines))
	for i, l := range lines {
		if l.ID == "" {
			return nil, fmt.Errorf("line %d has no id", i)
		}
		if l.Quantity < 1 {
			return nil, fmt.Errorf("line %d (%s) has quantity %d", i, l.ID, l.Quantity)
		}
		if l.Price.IsNegative() {
			return nil, fmt.Errorf("line %d (%s) has negative price %s", i, l.ID, l.Price)
		}
		if seen[l.ID] {
			return nil, fmt.Errorf("line %d repeats id %s", i, l.ID)
		}
		seen[l.ID] = true
	}
	return lines, nil
}
