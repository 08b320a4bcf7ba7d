// Package repositories defines the persistence interfaces for cart state.
// These abstract the key-value substrate so the cart logic never depends
// on a concrete store; sqlite/libsql and redis implementations live in
// the infrastructure layer.
package repositories

import (
	"context"

	"github.com/drinkmate/drinkmate-go/internal/domain/entities/cart"
)

// KVStore is the pluggable storage capability carts serialize into:
// JSON arrays of line items under a per-guest or per-user key.
type KVStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) bool
	Close() error
}

// CartRepository loads and saves cart contents by storage key.
// Load tolerates absent and corrupt data: both yield an empty item list,
// corrupt data additionally surfaces ErrCorruptCart so callers can flag
// it, and neither ever blocks the in-memory cart.
type CartRepository interface {
	Load(ctx context.Context, key string) ([]cart.LineItem, error)
	Save(ctx context.Context, key string, items []cart.LineItem) error
	Delete(ctx context.Context, key string) error
	Healthy(ctx context.Context) bool
}
