// Package interfaces defines the cache contracts consumed by the
// application layer, decoupling services from concrete store types.
package interfaces

import (
	"time"

	"github.com/drinkmate/drinkmate-go/internal/domain/entities/cart"
)

// CartCache is the in-memory source of truth for active carts, keyed by
// storage key. Mutations are synchronous; persistence write-through is
// coordinated by the application layer.
type CartCache interface {
	GetCart(key string) (*cart.Cart, bool)
	SetCart(key string, items []cart.LineItem) *cart.Cart
	AddItem(key string, item cart.LineItem) *cart.Cart
	RemoveItem(key, itemID string) *cart.Cart
	UpdateQuantity(key, itemID string, quantity int) *cart.Cart
	ClearCart(key string) *cart.Cart
	DeleteCart(key string)
	Keys() []string
	Count() int
	CleanupExpired(ttl time.Duration) int
}
