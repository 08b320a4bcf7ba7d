package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drinkmate/drinkmate-go/internal/application/services"
	"github.com/drinkmate/drinkmate-go/internal/domain/entities/cart"
	"github.com/drinkmate/drinkmate-go/internal/infrastructure/caching/stores"
	"github.com/drinkmate/drinkmate-go/internal/infrastructure/observability/logging"
	"github.com/drinkmate/drinkmate-go/internal/infrastructure/observability/performance"
	"github.com/drinkmate/drinkmate-go/internal/presentation/http/middleware"
)

type stubRepo struct {
	data map[string][]cart.LineItem
}

func (r *stubRepo) Load(_ context.Context, key string) ([]cart.LineItem, error) {
	items := r.data[key]
	out := make([]cart.LineItem, len(items))
	copy(out, items)
	return out, nil
}

func (r *stubRepo) Save(_ context.Context, key string, items []cart.LineItem) error {
	out := make([]cart.LineItem, len(items))
	copy(out, items)
	r.data[key] = out
	return nil
}

func (r *stubRepo) Delete(_ context.Context, key string) error {
	delete(r.data, key)
	return nil
}

func (r *stubRepo) Healthy(_ context.Context) bool { return true }

func newCartRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		OutputToFile:    false,
		OutputToConsole: false,
		DefaultLevel:    slog.LevelError,
		ChannelLevels:   make(map[logging.Channel]slog.Level),
	})
	require.NoError(t, err)

	tracker := performance.NewTracker(100)
	cartStore := stores.NewCartsStore(nil)
	repo := &stubRepo{data: make(map[string][]cart.LineItem)}

	cartService := services.NewCartService(cartStore, repo, nil, logger, tracker)
	sessionService := services.NewCartSessionService(cartStore, repo, nil, logger, tracker)
	handlers := NewCartHandlers(cartService, sessionService, logger, tracker)

	r := gin.New()
	r.Use(middleware.SessionMiddleware())
	api := r.Group("/api/v1/cart")
	{
		api.GET("", handlers.GetCart)
		api.DELETE("", handlers.DeleteCart)
		api.POST("/items", handlers.PostAddItem)
		api.PATCH("/items/:id", handlers.PatchQuantity)
		api.DELETE("/items/:id", handlers.DeleteItem)
	}
	return r
}

type cartEnvelope struct {
	Success bool `json:"success"`
	Data    struct {
		Items      []cart.LineItem `json:"items"`
		TotalItems int             `json:"totalItems"`
		TotalPrice float64         `json:"totalPrice"`
	} `json:"data"`
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, payload any) (*httptest.ResponseRecorder, cartEnvelope) {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.SessionHeader, "sess-test")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var envelope cartEnvelope
	if w.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	}
	return w, envelope
}

func TestCartLifecycleOverHTTP(t *testing.T) {
	r := newCartRouter(t)

	// Empty cart on first fetch.
	w, envelope := doJSON(t, r, http.MethodGet, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, envelope.Success)
	assert.Empty(t, envelope.Data.Items)

	// Add twice: quantities merge under one line.
	item := cart.LineItem{ID: "sparkler", Name: "OmniFizz", Price: 399, Quantity: 1}
	w, _ = doJSON(t, r, http.MethodPost, "/api/v1/cart/items", item)
	require.Equal(t, http.StatusOK, w.Code)

	w, envelope = doJSON(t, r, http.MethodPost, "/api/v1/cart/items", item)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, envelope.Data.Items, 1)
	assert.Equal(t, 2, envelope.Data.Items[0].Quantity)
	assert.InDelta(t, 798, envelope.Data.TotalPrice, 0.001)

	// Quantity zero removes the line.
	w, envelope = doJSON(t, r, http.MethodPatch, "/api/v1/cart/items/sparkler", map[string]int{"quantity": 0})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, envelope.Data.Items)
}

func TestAddItemWithoutIDIsRejected(t *testing.T) {
	r := newCartRouter(t)

	w, _ := doJSON(t, r, http.MethodPost, "/api/v1/cart/items", cart.LineItem{Name: "nameless", Quantity: 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRemoveAbsentItemIsNoOp(t *testing.T) {
	r := newCartRouter(t)

	doJSON(t, r, http.MethodPost, "/api/v1/cart/items", cart.LineItem{ID: "sparkler", Quantity: 1})

	w, envelope := doJSON(t, r, http.MethodDelete, "/api/v1/cart/items/never-added", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, envelope.Data.Items, 1)
}

func TestClearCartOverHTTP(t *testing.T) {
	r := newCartRouter(t)

	doJSON(t, r, http.MethodPost, "/api/v1/cart/items", cart.LineItem{ID: "sparkler", Quantity: 3})

	w, envelope := doJSON(t, r, http.MethodDelete, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, envelope.Data.Items)
}

func TestSessionHeaderMintedWhenAbsent(t *testing.T) {
	r := newCartRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.SessionHeader))
}
