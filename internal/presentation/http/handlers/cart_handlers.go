// Package handlers provides HTTP request handlers for the presentation layer.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/drinkmate/drinkmate-go/internal/application/services"
	"github.com/drinkmate/drinkmate-go/internal/domain/entities/cart"
	"github.com/drinkmate/drinkmate-go/internal/infrastructure/observability/logging"
	"github.com/drinkmate/drinkmate-go/internal/infrastructure/observability/performance"
	"github.com/drinkmate/drinkmate-go/internal/presentation/http/middleware"
)

// CartHandlers contains all cart-related HTTP handlers
type CartHandlers struct {
	cartService    *services.CartService
	sessionService *services.CartSessionService
	logger         *logging.ChanneledLogger
	perfTracker    *performance.Tracker
}

// NewCartHandlers creates cart handlers with injected dependencies
func NewCartHandlers(cartService *services.CartService, sessionService *services.CartSessionService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *CartHandlers {
	return &CartHandlers{
		cartService:    cartService,
		sessionService: sessionService,
		logger:         logger,
		perfTracker:    perfTracker,
	}
}

// resolveKey reconciles the session's auth state with the cart bridge
// and returns the active storage key. The bridge's transition guard
// makes repeated reconciliation for an unchanged identity a no-op.
func (h *CartHandlers) resolveKey(c *gin.Context) string {
	sessionID := middleware.GetSessionID(c)

	if session, authed := middleware.GetUserSession(c); authed && !session.IsGuest() {
		result, err := h.sessionService.HandleLogin(c.Request.Context(), sessionID, session.UserID, middleware.GetBearerToken(c))
		if err == nil {
			return result.ActiveKey
		}
		h.logger.Cart().Error("Cart key reconciliation failed", "error", err)
		return cart.UserKey(session.UserID)
	}

	result, err := h.sessionService.HandleLogout(c.Request.Context(), sessionID)
	if err == nil {
		return result.ActiveKey
	}
	return cart.GuestKey(sessionID)
}

// GetCart handles GET /api/v1/cart - returns the active cart
func (h *CartHandlers) GetCart(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("get_cart_request")
	defer marker.Complete()

	key := h.resolveKey(c)
	result, err := h.cartService.GetCart(c.Request.Context(), key)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}

	marker.SetSuccess(true)
	h.logger.Cart().Debug("Cart fetched", "itemCount", result.TotalItems, "duration", time.Since(start))
	c.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}

// PostAddItem handles POST /api/v1/cart/items - adds a line item
func (h *CartHandlers) PostAddItem(c *gin.Context) {
	marker := h.perfTracker.StartOperation("add_cart_item_request")
	defer marker.Complete()

	var item cart.LineItem
	if err := c.ShouldBindJSON(&item); err != nil {
		h.logger.Cart().Debug("Add item request binding failed", "error", err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request format"})
		return
	}
	if item.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Product ID is required"})
		return
	}

	key := h.resolveKey(c)
	result, err := h.cartService.AddItem(c.Request.Context(), key, middleware.GetBearerToken(c), item)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}

// DeleteItem handles DELETE /api/v1/cart/items/:id - removes a line item
func (h *CartHandlers) DeleteItem(c *gin.Context) {
	marker := h.perfTracker.StartOperation("remove_cart_item_request")
	defer marker.Complete()

	productID := c.Param("id")
	if productID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Product ID is required"})
		return
	}

	key := h.resolveKey(c)
	result, err := h.cartService.RemoveItem(c.Request.Context(), key, middleware.GetBearerToken(c), productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}

// PatchQuantity handles PATCH /api/v1/cart/items/:id - sets a line quantity
func (h *CartHandlers) PatchQuantity(c *gin.Context) {
	marker := h.perfTracker.StartOperation("update_cart_quantity_request")
	defer marker.Complete()

	productID := c.Param("id")

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request format"})
		return
	}

	key := h.resolveKey(c)
	result, err := h.cartService.UpdateQuantity(c.Request.Context(), key, middleware.GetBearerToken(c), productID, req.Quantity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}

// DeleteCart handles DELETE /api/v1/cart - empties the active cart
func (h *CartHandlers) DeleteCart(c *gin.Context) {
	marker := h.perfTracker.StartOperation("clear_cart_request")
	defer marker.Complete()

	key := h.resolveKey(c)
	result, err := h.cartService.ClearCart(c.Request.Context(), key, middleware.GetBearerToken(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}
