// Package container provides dependency injection for all singleton services
package container

import (
	"github.com/drinkmate/drinkmate-go/internal/application/services"
	"github.com/drinkmate/drinkmate-go/internal/domain/repositories"
	"github.com/drinkmate/drinkmate-go/internal/infrastructure/backend"
	"github.com/drinkmate/drinkmate-go/internal/infrastructure/caching/interfaces"
	"github.com/drinkmate/drinkmate-go/internal/infrastructure/email"
	"github.com/drinkmate/drinkmate-go/internal/infrastructure/media"
	"github.com/drinkmate/drinkmate-go/internal/infrastructure/messaging/chat"
	"github.com/drinkmate/drinkmate-go/internal/infrastructure/observability/logging"
	"github.com/drinkmate/drinkmate-go/internal/infrastructure/observability/performance"
	"github.com/drinkmate/drinkmate-go/pkg/config"
)

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Application services
	CartService        *services.CartService
	CartSessionService *services.CartSessionService
	PricingService     *services.PricingService
	AuthService        *services.AuthService

	// Infrastructure
	CartStore      interfaces.CartCache
	CartRepo       repositories.CartRepository
	Forwarder      *backend.Forwarder
	SyncClient     *backend.SyncClient
	EmailService   email.Service
	ChatHistory    *chat.HistoryStore
	ChatHub        *chat.Hub
	ImageProcessor *media.ImageProcessor

	// Observability
	Logger      *logging.ChanneledLogger
	PerfTracker *performance.Tracker
}

// NewContainer creates and wires all singleton services
func NewContainer(cartStore interfaces.CartCache, cartRepo repositories.CartRepository, emailSvc email.Service, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *Container {
	forwarder := backend.NewForwarder(config.BackendURL, config.BackendRequestTimeout, logger)
	syncClient := backend.NewSyncClient(config.BackendURL, config.BackendRequestTimeout, logger)
	history := chat.NewHistoryStore(config.MaxChatMessages)

	return &Container{
		CartService:        services.NewCartService(cartStore, cartRepo, syncClient, logger, perfTracker),
		CartSessionService: services.NewCartSessionService(cartStore, cartRepo, syncClient, logger, perfTracker),
		PricingService:     services.NewPricingService(logger, perfTracker),
		AuthService:        services.NewAuthService(forwarder, logger, perfTracker),

		CartStore:      cartStore,
		CartRepo:       cartRepo,
		Forwarder:      forwarder,
		SyncClient:     syncClient,
		EmailService:   emailSvc,
		ChatHistory:    history,
		ChatHub:        chat.NewHub(history, logger),
		ImageProcessor: media.NewImageProcessor(config.MediaDirectory),

		Logger:      logger,
		PerfTracker: perfTracker,
	}
}
