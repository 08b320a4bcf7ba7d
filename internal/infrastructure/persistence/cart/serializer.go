// Package cart provides the cart key-value persistence adapters.
package cart

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/drinkmate/drinkmate-go/internal/domain/entities/cart"
)

// ErrCorruptCart flags stored cart data that failed to deserialize.
// Callers receive an empty item list alongside it and keep operating;
// the next save overwrites the corrupt value.
var ErrCorruptCart = errors.New("corrupt cart data")

// encodeItems serializes line items to the stored JSON array form.
func encodeItems(items []cart.LineItem) (string, error) {
	if items == nil {
		items = []cart.LineItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("failed to encode cart items: %w", err)
	}
	return string(data), nil
}

// decodeItems parses a stored JSON array of line items. Malformed data
// yields an empty slice plus ErrCorruptCart, never a panic; entries with
// non-positive quantities are dropped.
func decodeItems(raw string) ([]cart.LineItem, error) {
	if raw == "" {
		return []cart.LineItem{}, nil
	}

	var items []cart.LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return []cart.LineItem{}, fmt.Errorf("%w: %v", ErrCorruptCart, err)
	}

	valid := items[:0]
	for _, item := range items {
		if item.ID == "" || item.Quantity <= 0 {
			continue
		}
		valid = append(valid, item)
	}
	return valid, nil
}
