// Package stores provides concrete cache store implementations
package stores

import (
	"sync"
	"time"

	"github.com/drinkmate/drinkmate-go/internal/domain/entities/cart"
	"github.com/drinkmate/drinkmate-go/internal/infrastructure/observability/logging"
	"github.com/drinkmate/drinkmate-go/pkg/config"
)

// CartsStore implements in-memory cart state operations keyed by storage
// key. It is the single source of truth for active carts; every read
// returns a snapshot copy so callers never alias internal slices.
// Memory is bounded: inserting a key beyond the cap evicts the least
// recently accessed cart, which rehydrates from persistence on next
// access.
type CartsStore struct {
	carts    map[string]*cart.Cart
	maxCarts int
	mu       sync.RWMutex
	logger   *logging.ChanneledLogger
}

// NewCartsStore creates a carts cache store capped at the configured
// maximum.
func NewCartsStore(logger *logging.ChanneledLogger) *CartsStore {
	return NewCartsStoreWithLimit(logger, config.MaxCartsInMemory)
}

// NewCartsStoreWithLimit creates a carts cache store with an explicit
// cap. A limit of zero or less disables eviction.
func NewCartsStoreWithLimit(logger *logging.ChanneledLogger, maxCarts int) *CartsStore {
	if logger != nil {
		logger.Cache().Info("Initializing carts cache store", "maxCarts", maxCarts)
	}
	return &CartsStore{
		carts:    make(map[string]*cart.Cart),
		maxCarts: maxCarts,
		logger:   logger,
	}
}

// GetCart returns a snapshot of the cart under key.
func (cs *CartsStore) GetCart(key string) (*cart.Cart, bool) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	c, exists := cs.carts[key]
	if !exists {
		return nil, false
	}
	return c.Clone(), true
}

// SetCart replaces the cart under key with the given items and returns
// a snapshot. Used when hydrating a key from persistence or from a
// remote pull.
func (cs *CartsStore) SetCart(key string, items []cart.LineItem) *cart.Cart {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if _, exists := cs.carts[key]; !exists {
		cs.evictIfFullLocked()
	}
	c := cart.NewCart(key)
	c.Items = make([]cart.LineItem, len(items))
	copy(c.Items, items)
	cs.carts[key] = c

	if cs.logger != nil {
		cs.logger.Cache().Debug("Cart hydrated", "itemCount", len(items))
	}
	return c.Clone()
}

// AddItem merges an item into the cart under key: an existing product ID
// increments its quantity by item.Quantity, otherwise the item is
// appended. Returns a snapshot of the resulting cart.
func (cs *CartsStore) AddItem(key string, item cart.LineItem) *cart.Cart {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	c := cs.getOrCreateLocked(key)
	c.LastAccessed = time.Now().UTC()

	for i := range c.Items {
		if c.Items[i].ID == item.ID {
			c.Items[i].Quantity += item.Quantity
			return c.Clone()
		}
	}
	c.Items = append(c.Items, item)
	return c.Clone()
}

// RemoveItem drops the line item with the matching product ID. Absent
// IDs are a no-op, not an error.
func (cs *CartsStore) RemoveItem(key, itemID string) *cart.Cart {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	c := cs.getOrCreateLocked(key)
	c.LastAccessed = time.Now().UTC()

	for i := range c.Items {
		if c.Items[i].ID == itemID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			break
		}
	}
	return c.Clone()
}

// UpdateQuantity sets the quantity of a line item exactly (not additive).
// A quantity of zero or less behaves exactly as RemoveItem.
func (cs *CartsStore) UpdateQuantity(key, itemID string, quantity int) *cart.Cart {
	if quantity <= 0 {
		return cs.RemoveItem(key, itemID)
	}

	cs.mu.Lock()
	defer cs.mu.Unlock()

	c := cs.getOrCreateLocked(key)
	c.LastAccessed = time.Now().UTC()

	for i := range c.Items {
		if c.Items[i].ID == itemID {
			c.Items[i].Quantity = quantity
			break
		}
	}
	return c.Clone()
}

// ClearCart empties the sequence under key.
func (cs *CartsStore) ClearCart(key string) *cart.Cart {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	c := cs.getOrCreateLocked(key)
	c.Items = []cart.LineItem{}
	c.LastAccessed = time.Now().UTC()
	return c.Clone()
}

// DeleteCart removes the cart entry entirely (eviction, not a user
// operation).
func (cs *CartsStore) DeleteCart(key string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	delete(cs.carts, key)
}

// Keys returns the storage keys with an active in-memory cart.
func (cs *CartsStore) Keys() []string {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	keys := make([]string, 0, len(cs.carts))
	for key := range cs.carts {
		keys = append(keys, key)
	}
	return keys
}

// Count returns the number of active in-memory carts.
func (cs *CartsStore) Count() int {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return len(cs.carts)
}

// CleanupExpired evicts carts idle for longer than ttl and returns the
// number evicted. Persisted copies survive eviction; an evicted key is
// re-hydrated from the repository on next access.
func (cs *CartsStore) CleanupExpired(ttl time.Duration) int {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	cutoff := time.Now().UTC().Add(-ttl)
	evicted := 0
	for key, c := range cs.carts {
		if c.LastAccessed.Before(cutoff) {
			delete(cs.carts, key)
			evicted++
		}
	}

	if evicted > 0 && cs.logger != nil {
		cs.logger.Cache().Info("Evicted idle carts", "count", evicted, "ttl", ttl)
	}
	return evicted
}

// getOrCreateLocked returns the cart under key, creating an empty one if
// absent. Caller must hold the write lock.
func (cs *CartsStore) getOrCreateLocked(key string) *cart.Cart {
	if c, exists := cs.carts[key]; exists {
		return c
	}
	cs.evictIfFullLocked()
	c := cart.NewCart(key)
	cs.carts[key] = c
	return c
}

// evictIfFullLocked drops the least recently accessed cart when the
// store is at capacity, making room for one insertion. Caller must
// hold the write lock.
func (cs *CartsStore) evictIfFullLocked() {
	if cs.maxCarts <= 0 || len(cs.carts) < cs.maxCarts {
		return
	}

	var oldestKey string
	var oldest time.Time
	for key, c := range cs.carts {
		if oldestKey == "" || c.LastAccessed.Before(oldest) {
			oldestKey = key
			oldest = c.LastAccessed
		}
	}
	delete(cs.carts, oldestKey)

	if cs.logger != nil {
		cs.logger.Cache().Warn("Cart store at capacity, evicted least recent cart", "maxCarts", cs.maxCarts)
	}
}
