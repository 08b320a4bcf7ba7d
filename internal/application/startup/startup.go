// Package startup prepares the application server
package startup

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/drinkmate/drinkmate-go/internal/application/container"
	"github.com/drinkmate/drinkmate-go/internal/domain/entities/cart"
	"github.com/drinkmate/drinkmate-go/internal/domain/repositories"
	"github.com/drinkmate/drinkmate-go/internal/infrastructure/caching/cleanup"
	"github.com/drinkmate/drinkmate-go/internal/infrastructure/caching/stores"
	"github.com/drinkmate/drinkmate-go/internal/infrastructure/email"
	"github.com/drinkmate/drinkmate-go/internal/infrastructure/observability/logging"
	"github.com/drinkmate/drinkmate-go/internal/infrastructure/observability/performance"
	cartpersistence "github.com/drinkmate/drinkmate-go/internal/infrastructure/persistence/cart"
	"github.com/drinkmate/drinkmate-go/internal/infrastructure/persistence/database"
	"github.com/drinkmate/drinkmate-go/internal/presentation/http/server"
	"github.com/drinkmate/drinkmate-go/pkg/config"
)

const maxPerfMarkers = 1000

// Initialize performs the complete startup sequence
func Initialize() error {
	start := time.Now().UTC()

	ctx, cancelBackgroundTasks := context.WithCancel(context.Background())
	defer cancelBackgroundTasks()

	log.Println("DrinkMate cart service starting...")

	// Step 1: Channeled logging
	logger, err := logging.NewChanneledLogger(logging.DefaultLoggerConfig())
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logger.Close()
	logger.Startup().Info("Channeled logging initialized")

	// Step 2: Performance tracking
	perfTracker := performance.NewTracker(maxPerfMarkers)

	// Step 3: Cart persistence backend
	startPersistTime := time.Now()
	cartRepo, closeRepo, err := buildCartRepository(ctx, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize cart persistence: %w", err)
	}
	defer closeRepo()
	logger.LogStartupPhase("cart-persistence", time.Since(startPersistTime), true)

	// Step 4: In-memory cart store
	cartStore := stores.NewCartsStore(logger)

	// Step 5: Email delivery (best-effort; the storefront runs without it)
	emailSvc, err := email.NewService()
	if err != nil {
		logger.Startup().Warn("Email delivery disabled", "reason", err.Error())
		emailSvc = nil
	}

	// Step 6: Dependency injection container
	appContainer := container.NewContainer(cartStore, cartRepo, emailSvc, logger, perfTracker)
	logger.Startup().Info("Dependency injection container created")

	// Step 7: Chat hub
	go appContainer.ChatHub.Run(ctx)
	logger.Startup().Info("Chat hub started")

	// Step 8: Free-gift catalog from the legacy backend (best-effort)
	loadGiftOptions(ctx, appContainer)

	// Step 9: Background cleanup worker
	cleanupConfig := cleanup.NewConfig()
	cleanupWorker := cleanup.NewWorker(cartStore, appContainer.ChatHistory, cleanupConfig, logger)
	go cleanupWorker.Start(ctx)
	logger.Startup().Info("Background cleanup worker started")

	// Step 10: HTTP server
	port := config.Port
	httpServer := server.New(port, appContainer)

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.System().Error("HTTP server failed", "error", err.Error())
			gracefulShutdown <- syscall.SIGTERM
		}
	}()

	logger.Startup().Info("Application startup complete",
		"totalDuration", time.Since(start),
		"port", port,
		"cartBackend", config.CartStoreBackend)

	<-gracefulShutdown
	logger.Shutdown().Info("Shutdown signal received")

	cancelBackgroundTasks()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Shutdown().Error("HTTP server shutdown failed", "error", err.Error())
		return err
	}

	logger.Shutdown().Info("Shutdown complete")
	return nil
}

// buildCartRepository selects the durable key-value substrate from
// config (embedded sqlite by default, redis when configured) and wraps
// it in the cart repository.
func buildCartRepository(ctx context.Context, logger *logging.ChanneledLogger) (repositories.CartRepository, func(), error) {
	var kv repositories.KVStore

	switch config.CartStoreBackend {
	case "redis":
		store, err := cartpersistence.NewRedisStore(ctx, config.RedisAddr, config.CartTTL, logger)
		if err != nil {
			return nil, nil, err
		}
		kv = store

	case "sqlite":
		db, err := database.NewConnectionWithLogger(config.CartDBDriver, config.CartDBPath, logger)
		if err != nil {
			return nil, nil, err
		}
		store, err := cartpersistence.NewSQLiteStore(db, logger)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		kv = store

	default:
		return nil, nil, fmt.Errorf("unknown cart store backend %q", config.CartStoreBackend)
	}

	return cartpersistence.NewRepository(kv, logger), func() { kv.Close() }, nil
}

// loadGiftOptions seeds the promotion catalog from the legacy backend.
// A failed fetch leaves the gift band active with no options, which the
// storefront renders as a plain progress bar.
func loadGiftOptions(ctx context.Context, appContainer *container.Container) {
	fetchCtx, cancel := context.WithTimeout(ctx, config.BackendRequestTimeout)
	defer cancel()

	result := appContainer.Forwarder.Forward(fetchCtx, http.MethodGet, "/api/products/gifts", nil, nil, "")
	if result.Status != http.StatusOK {
		appContainer.Logger.Startup().Warn("Free-gift catalog unavailable", "status", result.Status)
		return
	}

	var envelope struct {
		Success bool                   `json:"success"`
		Data    []cart.FreeGiftProduct `json:"data"`
	}
	if err := json.Unmarshal(result.Body, &envelope); err != nil || !envelope.Success {
		appContainer.Logger.Startup().Warn("Unreadable free-gift catalog response")
		return
	}

	appContainer.PricingService.SetGiftOptions(envelope.Data)
	appContainer.Logger.Startup().Info("Free-gift catalog loaded", "optionCount", len(envelope.Data))
}
