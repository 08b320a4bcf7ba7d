package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/drinkmate/drinkmate-go/internal/application/services"
	"github.com/drinkmate/drinkmate-go/internal/infrastructure/observability/logging"
	"github.com/drinkmate/drinkmate-go/internal/infrastructure/observability/performance"
	"github.com/drinkmate/drinkmate-go/internal/presentation/http/middleware"
)

// AuthHandlers contains all authentication-related HTTP handlers
type AuthHandlers struct {
	authService    *services.AuthService
	sessionService *services.CartSessionService
	logger         *logging.ChanneledLogger
	perfTracker    *performance.Tracker
}

// NewAuthHandlers creates auth handlers with injected dependencies
func NewAuthHandlers(authService *services.AuthService, sessionService *services.CartSessionService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *AuthHandlers {
	return &AuthHandlers{
		authService:    authService,
		sessionService: sessionService,
		logger:         logger,
		perfTracker:    perfTracker,
	}
}

// PostLogin handles POST /api/v1/auth/login - customer authentication
// followed by the guest-to-user cart transition
func (h *AuthHandlers) PostLogin(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("post_login_request")
	defer marker.Complete()

	var loginReq struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&loginReq); err != nil {
		h.logger.Auth().Debug("Login request binding failed", "error", err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email and password are required"})
		return
	}

	result := h.authService.Login(c.Request.Context(), loginReq.Email, loginReq.Password)
	if !result.Success {
		c.JSON(result.Status, gin.H{"success": false, "message": result.Error})
		return
	}

	// Cart key switches before the response goes out. The merged cart
	// rides along so the storefront renders it without a second fetch.
	transition, err := h.sessionService.HandleLogin(c.Request.Context(), middleware.GetSessionID(c), result.Profile.UserID, result.Token)
	if err != nil {
		h.logger.Cart().Error("Post-login cart transition failed", "error", err)
	}

	h.logger.Auth().Info("Login completed", "duration", time.Since(start))
	marker.SetSuccess(true)

	response := gin.H{
		"success": true,
		"data": gin.H{
			"token":   result.Token,
			"role":    result.Role,
			"profile": result.Profile,
		},
	}
	if transition != nil {
		response["data"].(gin.H)["cart"] = gin.H{
			"items":       transition.Items,
			"mergedItems": transition.MergedItems,
		}
	}
	c.JSON(http.StatusOK, response)
}

// PostLogout handles POST /api/v1/auth/logout - reverts the session to
// the guest cart key. Token invalidation is client-side; the server
// holds no token state.
func (h *AuthHandlers) PostLogout(c *gin.Context) {
	marker := h.perfTracker.StartOperation("post_logout_request")
	defer marker.Complete()

	transition, err := h.sessionService.HandleLogout(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"cart": gin.H{"items": transition.Items},
		},
	})
}

// PostAdminLogin handles POST /api/v1/auth/admin - dashboard login
func (h *AuthHandlers) PostAdminLogin(c *gin.Context) {
	marker := h.perfTracker.StartOperation("post_admin_login_request")
	defer marker.Complete()

	var loginReq struct {
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&loginReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Password is required"})
		return
	}

	result := h.authService.AuthenticateAdmin(loginReq.Password)
	if !result.Success {
		c.JSON(result.Status, gin.H{"success": false, "message": result.Error})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"token": result.Token, "role": result.Role}})
}

// GetProfile handles GET /api/v1/auth/profile - decodes the bearer
// token into a profile, or null for guests
func (h *AuthHandlers) GetProfile(c *gin.Context) {
	session, exists := middleware.GetUserSession(c)
	if !exists || session.IsGuest() {
		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"profile": nil}})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
		"userId": session.UserID,
		"role":   session.Role,
	}})
}
