package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/drinkmate/drinkmate-go/internal/infrastructure/media"
	"github.com/drinkmate/drinkmate-go/internal/infrastructure/observability/logging"
	"github.com/drinkmate/drinkmate-go/internal/infrastructure/observability/performance"
)

// MediaHandlers handles product image upload and deletion for the
// admin dashboard.
type MediaHandlers struct {
	processor   *media.ImageProcessor
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewMediaHandlers creates media handlers with injected dependencies
func NewMediaHandlers(processor *media.ImageProcessor, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *MediaHandlers {
	return &MediaHandlers{
		processor:   processor,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// PostProductImage handles POST /api/v1/admin/media/products - stores a
// base64 product image and generates thumbnails
func (h *MediaHandlers) PostProductImage(c *gin.Context) {
	marker := h.perfTracker.StartOperation("upload_product_image")
	defer marker.Complete()

	var req struct {
		ProductID string `json:"productId" binding:"required"`
		Data      string `json:"data" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Product ID and image data are required"})
		return
	}

	url, thumbs, err := h.processor.ProcessProductImage(req.Data, req.ProductID)
	if err != nil {
		h.logger.System().Error("Product image processing failed", "productId", req.ProductID, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
		"url":        url,
		"thumbnails": thumbs,
	}})
}

// DeleteProductImage handles DELETE /api/v1/admin/media/products/:id
func (h *MediaHandlers) DeleteProductImage(c *gin.Context) {
	productID := c.Param("id")
	if err := h.processor.DeleteProductImage(productID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
