package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/drinkmate/drinkmate-go/internal/domain/repositories"
	"github.com/drinkmate/drinkmate-go/internal/infrastructure/backend"
	"github.com/drinkmate/drinkmate-go/internal/infrastructure/caching/interfaces"
	"github.com/drinkmate/drinkmate-go/internal/infrastructure/observability/logging"
	"github.com/drinkmate/drinkmate-go/internal/infrastructure/observability/performance"
)

// AdminHandlers exposes operational endpoints: health, performance
// stats, and runtime log level control.
type AdminHandlers struct {
	carts       interfaces.CartCache
	repo        repositories.CartRepository
	sync        *backend.SyncClient
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewAdminHandlers creates admin handlers with injected dependencies
func NewAdminHandlers(carts interfaces.CartCache, repo repositories.CartRepository, sync *backend.SyncClient, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *AdminHandlers {
	return &AdminHandlers{
		carts:       carts,
		repo:        repo,
		sync:        sync,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// GetHealth handles GET /api/v1/health - liveness plus dependency state
func (h *AdminHandlers) GetHealth(c *gin.Context) {
	persistenceHealthy := h.repo.Healthy(c.Request.Context())
	syncHealthy := h.sync == nil || h.sync.Healthy()

	status := http.StatusOK
	overall := "ok"
	if !persistenceHealthy {
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}

	c.JSON(status, gin.H{
		"status":      overall,
		"activeCarts": h.carts.Count(),
		"persistence": persistenceHealthy,
		"sync":        syncHealthy,
	})
}

// GetPerfStats handles GET /api/v1/admin/performance
func (h *AdminHandlers) GetPerfStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": h.perfTracker.GetStats()})
}

// GetLogLevels handles GET /api/v1/admin/logs/levels
func (h *AdminHandlers) GetLogLevels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": h.logger.GetChannelLevels()})
}

// PostLogLevel handles POST /api/v1/admin/logs/levels
func (h *AdminHandlers) PostLogLevel(c *gin.Context) {
	var req struct {
		Channel string `json:"channel" binding:"required"`
		Level   string `json:"level" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Channel and level are required"})
		return
	}

	var level slog.Level
	switch strings.ToUpper(req.Level) {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Unknown log level"})
		return
	}

	if err := h.logger.SetChannelLevel(logging.Channel(req.Channel), level); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetActiveCarts handles GET /api/v1/admin/carts - storage keys with an
// in-memory cart, for the operations dashboard
func (h *AdminHandlers) GetActiveCarts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
		"keys":  h.carts.Keys(),
		"count": h.carts.Count(),
	}})
}
