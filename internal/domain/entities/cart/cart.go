// Package cart provides domain entities for cart state management.
// It defines the line item model, the cart with its derived totals, and
// the storage key namespaces that keep guest and per-user carts disjoint.
package cart

import (
	"strings"
	"time"
)

const (
	// KeyPrefix is the namespace shared by every cart storage key.
	KeyPrefix = "drinkmate-cart"

	// guestSuffix marks the anonymous key namespace.
	guestSuffix = "guest"
)

// GuestKey returns the storage key for a browser session's anonymous
// cart. Every session gets its own key; guests never see each other's
// items.
func GuestKey(sessionID string) string {
	return KeyPrefix + "-" + guestSuffix + "-" + sessionID
}

// UserKey returns the storage key for an authenticated user's cart.
// Guest and per-user keys are disjoint namespaces; switching identity
// never silently merges data outside the explicit login merge step.
func UserKey(userID string) string {
	return KeyPrefix + "-" + userID
}

// UserIDFromKey extracts the user ID from a per-user storage key.
// Returns "" for guest keys or any foreign key shape.
func UserIDFromKey(key string) string {
	userID := strings.TrimPrefix(key, KeyPrefix+"-")
	if userID == key || userID == guestSuffix || strings.HasPrefix(userID, guestSuffix+"-") {
		return ""
	}
	return userID
}

// LineItem is one product entry in a cart. A cart holds at most one
// LineItem per product ID; adding an existing ID increments quantity.
type LineItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Image    string  `json:"image"`
}

// Cart holds an ordered sequence of line items for one storage key.
// Insertion order is preserved for display; totals are derived on demand
// and never stored.
type Cart struct {
	Key          string     `json:"key"`
	Items        []LineItem `json:"items"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastAccessed time.Time  `json:"lastAccessed"`
}

// NewCart creates an empty cart for a storage key.
func NewCart(key string) *Cart {
	now := time.Now().UTC()
	return &Cart{
		Key:          key,
		Items:        []LineItem{},
		CreatedAt:    now,
		LastAccessed: now,
	}
}

// TotalItems returns the sum of all line item quantities.
func (c *Cart) TotalItems() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// TotalPrice returns the sum of price times quantity over all line items.
func (c *Cart) TotalPrice() float64 {
	total := 0.0
	for _, item := range c.Items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// IsEmpty reports whether the cart has no line items.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Clone returns a deep copy so callers never alias internal slices.
func (c *Cart) Clone() *Cart {
	items := make([]LineItem, len(c.Items))
	copy(items, c.Items)
	return &Cart{
		Key:          c.Key,
		Items:        items,
		CreatedAt:    c.CreatedAt,
		LastAccessed: c.LastAccessed,
	}
}

// MergeItems folds a set of incoming line items into the cart: union by
// product ID, summing quantities. Incoming items with unknown IDs are
// appended in their given order. Returns the number of incoming items
// folded in.
func (c *Cart) MergeItems(incoming []LineItem) int {
	count := 0
	for _, in := range incoming {
		if in.Quantity <= 0 {
			continue
		}
		merged := false
		for i := range c.Items {
			if c.Items[i].ID == in.ID {
				c.Items[i].Quantity += in.Quantity
				merged = true
				break
			}
		}
		if !merged {
			c.Items = append(c.Items, in)
		}
		count++
	}
	return count
}
