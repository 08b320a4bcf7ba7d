package backend

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drinkmate/drinkmate-go/internal/infrastructure/observability/logging"
)

func testLogger(t *testing.T) *logging.ChanneledLogger {
	t.Helper()
	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		OutputToFile:    false,
		OutputToConsole: false,
		DefaultLevel:    slog.LevelError,
		ChannelLevels:   make(map[logging.Channel]slog.Level),
	})
	require.NoError(t, err)
	return logger
}

func TestForwardMirrorsBackendResponse(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products", r.URL.Path)
		assert.Equal(t, "fizzy", r.URL.Query().Get("q"))
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"success": true, "data": [{"id": "sparkler"}]}`))
	}))
	defer upstream.Close()

	f := NewForwarder(upstream.URL, 5*time.Second, testLogger(t))
	result := f.Forward(context.Background(), http.MethodGet, "/api/products", url.Values{"q": {"fizzy"}}, nil, "Bearer tok-123")

	assert.Equal(t, http.StatusOK, result.Status)
	assert.Contains(t, string(result.Body), `"success": true`)
}

func TestForwardMirrorsErrorStatuses(t *testing.T) {
	for _, status := range []int{
		http.StatusBadRequest,
		http.StatusUnauthorized,
		http.StatusForbidden,
		http.StatusNotFound,
		http.StatusConflict,
	} {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			w.Write([]byte(`{"success": false, "message": "upstream says no"}`))
		}))

		f := NewForwarder(upstream.URL, 5*time.Second, testLogger(t))
		result := f.Forward(context.Background(), http.MethodGet, "/api/orders", nil, nil, "")

		assert.Equal(t, status, result.Status)
		assert.Contains(t, string(result.Body), "upstream says no")
		upstream.Close()
	}
}

func TestForwardNetworkFailureBecomesGenericEnvelope(t *testing.T) {
	// Nothing listens here.
	f := NewForwarder("http://127.0.0.1:1", 500*time.Millisecond, testLogger(t))
	result := f.Forward(context.Background(), http.MethodGet, "/api/products", nil, nil, "")

	assert.Equal(t, http.StatusInternalServerError, result.Status)

	var envelope Envelope
	require.NoError(t, json.Unmarshal(result.Body, &envelope))
	assert.False(t, envelope.Success)
	assert.Equal(t, "Internal server error", envelope.Message)
}

func TestForwardWrapsNonJSONUpstreamBody(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>gateway error</html>"))
	}))
	defer upstream.Close()

	f := NewForwarder(upstream.URL, 5*time.Second, testLogger(t))
	result := f.Forward(context.Background(), http.MethodGet, "/api/products", nil, nil, "")

	assert.Equal(t, http.StatusBadGateway, result.Status)

	var envelope Envelope
	require.NoError(t, json.Unmarshal(result.Body, &envelope))
	assert.False(t, envelope.Success)
	assert.NotContains(t, envelope.Message, "html")
}

func TestForwardJSONSendsBody(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "user@drinkmate.sa", payload["email"])
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "application/json"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": true}`))
	}))
	defer upstream.Close()

	f := NewForwarder(upstream.URL, 5*time.Second, testLogger(t))
	result := f.ForwardJSON(context.Background(), http.MethodPost, "/api/auth/login", map[string]string{"email": "user@drinkmate.sa"}, "")

	assert.Equal(t, http.StatusOK, result.Status)
}
