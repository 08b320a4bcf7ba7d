package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/drinkmate/drinkmate-go/internal/application/services"
	"github.com/drinkmate/drinkmate-go/internal/domain/entities/cart"
	"github.com/drinkmate/drinkmate-go/internal/infrastructure/backend"
	"github.com/drinkmate/drinkmate-go/internal/infrastructure/email"
	"github.com/drinkmate/drinkmate-go/internal/infrastructure/email/templates"
	"github.com/drinkmate/drinkmate-go/internal/infrastructure/observability/logging"
	"github.com/drinkmate/drinkmate-go/internal/infrastructure/observability/performance"
	"github.com/drinkmate/drinkmate-go/internal/presentation/http/middleware"
)

// ProxyHandlers forwards storefront API calls to the legacy backend,
// mirroring upstream status codes and normalizing every response into
// the shared envelope. The checkout path additionally triggers the
// order confirmation email.
type ProxyHandlers struct {
	forwarder   *backend.Forwarder
	emailSvc    email.Service
	cartService *services.CartService
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewProxyHandlers creates proxy handlers with injected dependencies
func NewProxyHandlers(forwarder *backend.Forwarder, emailSvc email.Service, cartService *services.CartService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *ProxyHandlers {
	return &ProxyHandlers{
		forwarder:   forwarder,
		emailSvc:    emailSvc,
		cartService: cartService,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// Passthrough builds a handler that forwards the request to the given
// backend path, substituting :param segments from the route.
func (h *ProxyHandlers) Passthrough(backendPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		marker := h.perfTracker.StartOperation("proxy_request")
		defer marker.Complete()

		path := backendPath
		for _, param := range c.Params {
			path = strings.Replace(path, ":"+param.Key, param.Value, 1)
		}

		var body io.Reader
		if c.Request.Body != nil && c.Request.Method != http.MethodGet {
			raw, err := io.ReadAll(c.Request.Body)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Unreadable request body"})
				return
			}
			body = bytes.NewReader(raw)
		}

		result := h.forwarder.Forward(
			c.Request.Context(),
			c.Request.Method,
			path,
			c.Request.URL.Query(),
			body,
			c.GetHeader("Authorization"),
		)

		marker.SetSuccess(result.Status < http.StatusInternalServerError)
		c.Data(result.Status, "application/json", result.Body)
	}
}

// orderResponse is the slice of the backend's checkout response needed
// for the confirmation email.
type orderResponse struct {
	Success bool `json:"success"`
	Data    struct {
		OrderID string  `json:"orderId"`
		Total   float64 `json:"total"`
		Items   []struct {
			Name     string  `json:"name"`
			Quantity int     `json:"quantity"`
			Price    float64 `json:"price"`
		} `json:"items"`
	} `json:"data"`
}

// PostCheckout handles POST /api/v1/orders/checkout - forwards the
// order to the backend, clears the cart on success, and sends the
// confirmation email best-effort.
func (h *ProxyHandlers) PostCheckout(c *gin.Context) {
	marker := h.perfTracker.StartOperation("checkout_request")
	defer marker.Complete()

	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Unreadable request body"})
		return
	}

	result := h.forwarder.Forward(
		c.Request.Context(),
		http.MethodPost,
		"/api/orders",
		nil,
		bytes.NewReader(raw),
		c.GetHeader("Authorization"),
	)

	if result.Status != http.StatusOK && result.Status != http.StatusCreated {
		marker.SetSuccess(false)
		c.Data(result.Status, "application/json", result.Body)
		return
	}

	var order orderResponse
	if err := json.Unmarshal(result.Body, &order); err == nil && order.Success {
		if session, authed := middleware.GetUserSession(c); authed && !session.IsGuest() {
			if _, err := h.cartService.ClearCart(c.Request.Context(), cart.UserKey(session.UserID), middleware.GetBearerToken(c)); err != nil {
				h.logger.Cart().Error("Post-checkout cart clear failed", "error", err)
			}
		}
		h.sendConfirmation(c, raw, &order)
	}

	marker.SetSuccess(true)
	c.Data(result.Status, "application/json", result.Body)
}

// sendConfirmation fires the order confirmation email without blocking
// the checkout response. Email failures are logged and swallowed.
func (h *ProxyHandlers) sendConfirmation(c *gin.Context, requestBody []byte, order *orderResponse) {
	session, authed := middleware.GetUserSession(c)
	if !authed || session.IsGuest() || h.emailSvc == nil {
		return
	}

	var req struct {
		Email     string `json:"email"`
		FirstName string `json:"firstName"`
	}
	if err := json.Unmarshal(requestBody, &req); err != nil || req.Email == "" {
		return
	}

	lines := make([]templates.OrderLine, 0, len(order.Data.Items))
	for _, it := range order.Data.Items {
		lines = append(lines, templates.OrderLine{Name: it.Name, Quantity: it.Quantity, Price: it.Price})
	}

	go func() {
		if err := h.emailSvc.SendOrderConfirmation(req.Email, req.FirstName, order.Data.OrderID, lines, order.Data.Total); err != nil {
			h.logger.Email().Error("Order confirmation email failed", "orderId", order.Data.OrderID, "error", err)
		}
	}()
}
