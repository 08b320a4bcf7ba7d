package middleware

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	appconfig "github.com/drinkmate/drinkmate-go/pkg/config"
)

// CORSMiddleware provides CORS configuration for the storefront origins
func CORSMiddleware() gin.HandlerFunc {
	config := cors.Config{
		AllowOrigins: []string{
			appconfig.StorefrontURL,
			"http://localhost:3000",
			"http://127.0.0.1:3000",
			"http://[::1]:3000", // IPv6 localhost
		},
		AllowMethods: []string{
			"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS",
		},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept", "Authorization",
			"X-Requested-With", "X-DrinkMate-Session-ID",
			"Cache-Control",
		},
		AllowCredentials: true,
		ExposeHeaders: []string{
			"Content-Type", "Cache-Control", "Connection", "X-DrinkMate-Session-ID",
		},
	}

	return cors.New(config)
}
