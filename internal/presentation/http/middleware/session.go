package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/drinkmate/drinkmate-go/internal/infrastructure/security"
)

const (
	// SessionHeader carries the browser session ID on every storefront
	// request. The middleware mints one when absent and echoes it back
	// so the client can persist it.
	SessionHeader = "X-DrinkMate-Session-ID"

	sessionIDKey = "sessionID"
)

// SessionMiddleware ensures every request carries a session ID. The ID
// scopes cart key bridging and chat conversations; it carries no auth.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader(SessionHeader)
		if sessionID == "" {
			sessionID = security.GenerateSessionID()
		}

		c.Set(sessionIDKey, sessionID)
		c.Header(SessionHeader, sessionID)
		c.Next()
	}
}

// GetSessionID retrieves the session ID set by SessionMiddleware.
func GetSessionID(c *gin.Context) string {
	if v, exists := c.Get(sessionIDKey); exists {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
