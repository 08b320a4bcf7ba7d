// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/drinkmate/drinkmate-go/internal/application/container"
	"github.com/drinkmate/drinkmate-go/internal/presentation/http/handlers"
	"github.com/drinkmate/drinkmate-go/internal/presentation/http/middleware"
	"github.com/drinkmate/drinkmate-go/pkg/config"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.SessionMiddleware())
	r.Use(middleware.AuthMiddleware(container.AuthService))

	// Serve processed product media
	r.Static("/media", config.MediaDirectory)

	// Initialize handlers
	cartHandlers := handlers.NewCartHandlers(container.CartService, container.CartSessionService, container.Logger, container.PerfTracker)
	promotionHandlers := handlers.NewPromotionHandlers(cartHandlers, container.CartService, container.PricingService, container.Logger, container.PerfTracker)
	authHandlers := handlers.NewAuthHandlers(container.AuthService, container.CartSessionService, container.Logger, container.PerfTracker)
	proxyHandlers := handlers.NewProxyHandlers(container.Forwarder, container.EmailService, container.CartService, container.Logger, container.PerfTracker)
	chatHandlers := handlers.NewChatHandlers(container.ChatHub, container.ChatHistory, container.Logger)
	mediaHandlers := handlers.NewMediaHandlers(container.ImageProcessor, container.Logger, container.PerfTracker)
	adminHandlers := handlers.NewAdminHandlers(container.CartStore, container.CartRepo, container.SyncClient, container.Logger, container.PerfTracker)

	api := r.Group("/api/v1")
	{
		api.GET("/health", adminHandlers.GetHealth)

		// Authentication
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandlers.PostLogin)
			auth.POST("/logout", authHandlers.PostLogout)
			auth.POST("/admin", authHandlers.PostAdminLogin)
			auth.GET("/profile", authHandlers.GetProfile)
		}

		// Cart state
		cart := api.Group("/cart")
		{
			cart.GET("", cartHandlers.GetCart)
			cart.DELETE("", cartHandlers.DeleteCart)
			cart.POST("/items", cartHandlers.PostAddItem)
			cart.PATCH("/items/:id", cartHandlers.PatchQuantity)
			cart.DELETE("/items/:id", cartHandlers.DeleteItem)
			cart.GET("/promotions", promotionHandlers.GetPromotions)
			cart.POST("/promotions/gift", promotionHandlers.PostSelectGift)
		}

		// Catalog passthrough to the legacy backend
		shop := api.Group("/shop")
		{
			shop.GET("/products", proxyHandlers.Passthrough("/api/products"))
			shop.GET("/products/:id", proxyHandlers.Passthrough("/api/products/:id"))
			shop.GET("/categories", proxyHandlers.Passthrough("/api/categories"))
			shop.GET("/search", proxyHandlers.Passthrough("/api/search"))
		}

		// Orders require an authenticated customer
		orders := api.Group("/orders")
		orders.Use(middleware.RequireAuth())
		{
			orders.POST("/checkout", proxyHandlers.PostCheckout)
			orders.GET("", proxyHandlers.Passthrough("/api/orders"))
			orders.GET("/:id", proxyHandlers.Passthrough("/api/orders/:id"))
		}

		// Payments passthrough, authenticated
		payments := api.Group("/payments")
		payments.Use(middleware.RequireAuth())
		{
			payments.POST("/intent", proxyHandlers.Passthrough("/api/payments/intent"))
			payments.GET("/methods", proxyHandlers.Passthrough("/api/payments/methods"))
		}

		// Customer profile passthrough, authenticated
		userGroup := api.Group("/user")
		userGroup.Use(middleware.RequireAuth())
		{
			userGroup.GET("/profile", proxyHandlers.Passthrough("/api/user/profile"))
			userGroup.PUT("/profile", proxyHandlers.Passthrough("/api/user/profile"))
			userGroup.GET("/addresses", proxyHandlers.Passthrough("/api/user/addresses"))
			userGroup.POST("/addresses", proxyHandlers.Passthrough("/api/user/addresses"))
			userGroup.DELETE("/addresses/:id", proxyHandlers.Passthrough("/api/user/addresses/:id"))
		}

		// Operations dashboard, admin only
		admin := api.Group("/admin")
		admin.Use(middleware.RequireAdmin())
		{
			admin.GET("/performance", adminHandlers.GetPerfStats)
			admin.GET("/logs/levels", adminHandlers.GetLogLevels)
			admin.POST("/logs/levels", adminHandlers.PostLogLevel)
			admin.GET("/carts", adminHandlers.GetActiveCarts)
			admin.GET("/chat/conversations", chatHandlers.GetConversations)
			admin.GET("/chat/conversations/:sessionId", chatHandlers.GetConversation)
			admin.POST("/media/products", mediaHandlers.PostProductImage)
			admin.DELETE("/media/products/:id", mediaHandlers.DeleteProductImage)
		}
	}

	// Websocket endpoints stay at top level
	r.GET("/ws/chat", chatHandlers.HandleVisitorWS)
	r.GET("/ws/chat/agent", middleware.RequireAdmin(), chatHandlers.HandleAgentWS)

	return r
}
