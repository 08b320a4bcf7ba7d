package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drinkmate/drinkmate-go/internal/domain/entities/cart"
)

func TestPushSendsItems(t *testing.T) {
	var received cartPayload
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/cart/sync", r.URL.Path)
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Write([]byte(`{"success": true}`))
	}))
	defer upstream.Close()

	sc := NewSyncClient(upstream.URL, 5*time.Second, testLogger(t))
	err := sc.Push(context.Background(), "u1", "tok-1", []cart.LineItem{{ID: "sparkler", Quantity: 2}})

	require.NoError(t, err)
	require.Len(t, received.Items, 1)
	assert.Equal(t, "sparkler", received.Items[0].ID)
}

func TestPullParsesEnvelope(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/cart", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": true, "data": {"items": [{"id": "co2", "quantity": 3, "price": 65.5}]}}`))
	}))
	defer upstream.Close()

	sc := NewSyncClient(upstream.URL, 5*time.Second, testLogger(t))
	items, err := sc.Pull(context.Background(), "u1", "tok-1")

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
}

func TestPullEmptyCart(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": true, "data": {}}`))
	}))
	defer upstream.Close()

	sc := NewSyncClient(upstream.URL, 5*time.Second, testLogger(t))
	items, err := sc.Pull(context.Background(), "u1", "tok-1")

	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestErrorStatusIsAnError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer upstream.Close()

	sc := NewSyncClient(upstream.URL, 5*time.Second, testLogger(t))

	assert.Error(t, sc.Push(context.Background(), "u1", "stale", nil))
	_, err := sc.Pull(context.Background(), "u1", "stale")
	assert.Error(t, err)
	assert.Error(t, sc.Merge(context.Background(), "u1", "stale", nil))
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	// Nothing listens here, so every call fails fast.
	sc := NewSyncClient("http://127.0.0.1:1", 200*time.Millisecond, testLogger(t))
	ctx := context.Background()

	assert.True(t, sc.Healthy())

	for i := 0; i < 5; i++ {
		_ = sc.Push(ctx, "u1", "tok", nil)
	}

	assert.False(t, sc.Healthy(), "breaker should open after five consecutive failures")

	// While open, calls fail immediately without touching the network.
	start := time.Now()
	err := sc.Push(ctx, "u1", "tok", nil)
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}
