// Package services provides application-level orchestration services
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/drinkmate/drinkmate-go/internal/domain/entities/cart"
	"github.com/drinkmate/drinkmate-go/internal/domain/repositories"
	"github.com/drinkmate/drinkmate-go/internal/infrastructure/backend"
	"github.com/drinkmate/drinkmate-go/internal/infrastructure/caching/interfaces"
	"github.com/drinkmate/drinkmate-go/internal/infrastructure/observability/logging"
	"github.com/drinkmate/drinkmate-go/internal/infrastructure/observability/performance"
)

// CartService orchestrates cart mutations across the in-memory store,
// durable persistence, and the best-effort remote sync client. The
// in-memory store is the source of truth for reads; persistence and
// sync failures never fail a cart operation.
type CartService struct {
	carts       interfaces.CartCache
	repo        repositories.CartRepository
	sync        *backend.SyncClient
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewCartService creates a new cart service
func NewCartService(carts interfaces.CartCache, repo repositories.CartRepository, sync *backend.SyncClient, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *CartService {
	return &CartService{
		carts:       carts,
		repo:        repo,
		sync:        sync,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// CartResult holds the outcome of a cart operation
type CartResult struct {
	Items      []cart.LineItem `json:"items"`
	TotalItems int             `json:"totalItems"`
	TotalPrice float64         `json:"totalPrice"`
	Persisted  bool            `json:"persisted"`
}

// GetCart returns the current cart for a storage key, hydrating the
// in-memory store from persistence on first access.
func (s *CartService) GetCart(ctx context.Context, key string) (*CartResult, error) {
	marker := s.perfTracker.StartOperation("cart_get")
	defer marker.Complete()

	snapshot, exists := s.carts.GetCart(key)
	if !exists {
		items, err := s.repo.Load(ctx, key)
		if err != nil {
			// Corrupt or unreadable persisted state starts a fresh cart
			// rather than blocking the storefront.
			s.logger.Cart().Warn("Discarding unreadable persisted cart", "key", key, "error", err)
			items = []cart.LineItem{}
		}
		snapshot = s.carts.SetCart(key, items)
	}

	marker.SetSuccess(true)
	return s.resultFrom(snapshot, true), nil
}

// AddItem adds a line item to the cart, merging by product ID.
func (s *CartService) AddItem(ctx context.Context, key, token string, item cart.LineItem) (*CartResult, error) {
	marker := s.perfTracker.StartOperation("cart_add_item")
	defer marker.Complete()
	start := time.Now()

	if item.ID == "" {
		marker.SetError(fmt.Errorf("missing product id"))
		return nil, fmt.Errorf("line item requires a product id")
	}
	if item.Quantity <= 0 {
		item.Quantity = 1
	}

	if _, exists := s.carts.GetCart(key); !exists {
		s.hydrate(ctx, key)
	}

	snapshot := s.carts.AddItem(key, item)
	persisted := s.persist(ctx, key, snapshot)
	s.pushAsync(key, token, snapshot)

	s.logger.LogCartOperation("add_item", key, true, time.Since(start))
	marker.SetSuccess(true)
	return s.resultFrom(snapshot, persisted), nil
}

// RemoveItem removes a line item by product ID. Removing an absent
// item is a no-op that still returns the current cart.
func (s *CartService) RemoveItem(ctx context.Context, key, token, productID string) (*CartResult, error) {
	marker := s.perfTracker.StartOperation("cart_remove_item")
	defer marker.Complete()
	start := time.Now()

	if _, exists := s.carts.GetCart(key); !exists {
		s.hydrate(ctx, key)
	}

	snapshot := s.carts.RemoveItem(key, productID)
	persisted := s.persist(ctx, key, snapshot)
	s.pushAsync(key, token, snapshot)

	s.logger.LogCartOperation("remove_item", key, true, time.Since(start))
	marker.SetSuccess(true)
	return s.resultFrom(snapshot, persisted), nil
}

// UpdateQuantity sets the quantity for a product ID. A quantity of
// zero or less removes the line.
func (s *CartService) UpdateQuantity(ctx context.Context, key, token, productID string, quantity int) (*CartResult, error) {
	marker := s.perfTracker.StartOperation("cart_update_quantity")
	defer marker.Complete()
	start := time.Now()

	if _, exists := s.carts.GetCart(key); !exists {
		s.hydrate(ctx, key)
	}

	snapshot := s.carts.UpdateQuantity(key, productID, quantity)
	persisted := s.persist(ctx, key, snapshot)
	s.pushAsync(key, token, snapshot)

	s.logger.LogCartOperation("update_quantity", key, true, time.Since(start))
	marker.SetSuccess(true)
	return s.resultFrom(snapshot, persisted), nil
}

// ClearCart empties the cart for a storage key.
func (s *CartService) ClearCart(ctx context.Context, key, token string) (*CartResult, error) {
	marker := s.perfTracker.StartOperation("cart_clear")
	defer marker.Complete()
	start := time.Now()

	snapshot := s.carts.ClearCart(key)
	persisted := s.persist(ctx, key, snapshot)
	s.pushAsync(key, token, snapshot)

	s.logger.LogCartOperation("clear_cart", key, true, time.Since(start))
	marker.SetSuccess(true)
	return s.resultFrom(snapshot, persisted), nil
}

// hydrate loads persisted items into the in-memory store. Corrupt
// persisted state hydrates as an empty cart.
func (s *CartService) hydrate(ctx context.Context, key string) {
	items, err := s.repo.Load(ctx, key)
	if err != nil {
		s.logger.Cart().Warn("Discarding unreadable persisted cart", "key", key, "error", err)
		items = []cart.LineItem{}
	}
	s.carts.SetCart(key, items)
}

// persist writes a snapshot through to the repository. Failures are
// logged and reported in the result, never returned to the caller.
func (s *CartService) persist(ctx context.Context, key string, snapshot *cart.Cart) bool {
	if err := s.repo.Save(ctx, key, snapshot.Items); err != nil {
		s.logger.Cart().Error("Cart persistence failed", "key", key, "error", err)
		return false
	}
	return true
}

// pushAsync fires a best-effort sync push for authenticated carts.
// Guest carts never leave the device boundary.
func (s *CartService) pushAsync(key, token string, snapshot *cart.Cart) {
	userID := cart.UserIDFromKey(key)
	if s.sync == nil || userID == "" {
		return
	}
	items := snapshot.Clone().Items
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.sync.Push(ctx, userID, token, items); err != nil {
			s.logger.Sync().Debug("Background cart push skipped", "key", key, "error", err)
		}
	}()
}

func (s *CartService) resultFrom(snapshot *cart.Cart, persisted bool) *CartResult {
	return &CartResult{
		Items:      snapshot.Items,
		TotalItems: snapshot.TotalItems(),
		TotalPrice: snapshot.TotalPrice(),
		Persisted:  persisted,
	}
}
