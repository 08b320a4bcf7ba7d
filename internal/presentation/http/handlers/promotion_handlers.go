package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/drinkmate/drinkmate-go/internal/application/services"
	"github.com/drinkmate/drinkmate-go/internal/infrastructure/observability/logging"
	"github.com/drinkmate/drinkmate-go/internal/infrastructure/observability/performance"
)

// PromotionHandlers exposes derived promotion state: free-shipping
// progress and the free-gift band.
type PromotionHandlers struct {
	cartHandlers   *CartHandlers
	cartService    *services.CartService
	pricingService *services.PricingService
	logger         *logging.ChanneledLogger
	perfTracker    *performance.Tracker
}

// NewPromotionHandlers creates promotion handlers with injected dependencies
func NewPromotionHandlers(cartHandlers *CartHandlers, cartService *services.CartService, pricingService *services.PricingService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *PromotionHandlers {
	return &PromotionHandlers{
		cartHandlers:   cartHandlers,
		cartService:    cartService,
		pricingService: pricingService,
		logger:         logger,
		perfTracker:    perfTracker,
	}
}

// GetPromotions handles GET /api/v1/cart/promotions - shipping progress
// plus gift state for the active cart
func (h *PromotionHandlers) GetPromotions(c *gin.Context) {
	marker := h.perfTracker.StartOperation("get_promotions_request")
	defer marker.Complete()

	key := h.cartHandlers.resolveKey(c)
	cartResult, err := h.cartService.GetCart(c.Request.Context(), key)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}

	shipping := h.pricingService.ShippingProgress(cartResult.TotalPrice)
	gift := h.pricingService.GiftState(key, cartResult.TotalPrice)

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"shipping": shipping,
			"freeGift": gift,
		},
	})
}

// PostSelectGift handles POST /api/v1/cart/promotions/gift - records the
// chosen complimentary product while the cart is inside the gift band
func (h *PromotionHandlers) PostSelectGift(c *gin.Context) {
	marker := h.perfTracker.StartOperation("select_gift_request")
	defer marker.Complete()

	var req struct {
		ProductID string `json:"productId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request format"})
		return
	}

	key := h.cartHandlers.resolveKey(c)
	cartResult, err := h.cartService.GetCart(c.Request.Context(), key)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}

	state, err := h.pricingService.SelectGift(key, req.ProductID, cartResult.TotalPrice)
	if err != nil {
		h.logger.Pricing().Debug("Gift selection rejected", "error", err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{"success": true, "data": state})
}
