// Package cleanup provides the background eviction worker
package cleanup

import (
	"context"
	"time"

	"github.com/drinkmate/drinkmate-go/internal/infrastructure/observability/logging"
)

// Expirable is implemented by every store the worker sweeps.
type Expirable interface {
	CleanupExpired(ttl time.Duration) int
	Count() int
}

// Worker periodically evicts idle carts and stale chat history from the
// in-memory stores. Persisted cart copies survive eviction.
type Worker struct {
	carts  Expirable
	chat   Expirable
	config *Config
	logger *logging.ChanneledLogger
}

// NewWorker creates a new cleanup worker with injected configuration
func NewWorker(carts, chat Expirable, config *Config, logger *logging.ChanneledLogger) *Worker {
	return &Worker{
		carts:  carts,
		chat:   chat,
		config: config,
		logger: logger,
	}
}

// Start begins the cleanup worker routine, using the configured interval
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.config.CleanupInterval)
	defer ticker.Stop()

	w.logger.Cache().Info("Cleanup worker started",
		"interval", w.config.CleanupInterval,
		"cartTTL", w.config.CartTTL,
		"verbose", w.config.VerboseReporting)

	for {
		select {
		case <-ctx.Done():
			w.logger.Cache().Info("Cleanup worker stopping...")
			return
		case <-ticker.C:
			w.performCleanup()
		}
	}
}

func (w *Worker) performCleanup() {
	start := time.Now()

	evictedCarts := w.carts.CleanupExpired(w.config.CartTTL)
	evictedChats := 0
	if w.chat != nil {
		evictedChats = w.chat.CleanupExpired(w.config.ChatHistoryTTL)
	}

	if w.config.VerboseReporting || evictedCarts > 0 || evictedChats > 0 {
		w.logger.Cache().Info("Periodic cleanup completed",
			"evictedCarts", evictedCarts,
			"evictedConversations", evictedChats,
			"activeCarts", w.carts.Count(),
			"duration", time.Since(start))
	}
}
