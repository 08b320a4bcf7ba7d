package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/drinkmate/drinkmate-go/internal/infrastructure/observability/logging"
)

// ForwardResult carries the mirrored backend response back to a handler.
type ForwardResult struct {
	Status int
	Body   []byte // raw backend JSON, or a serialized Envelope on failure
}

// Forwarder forwards storefront requests to the legacy backend and
// reshapes failures into the shared envelope. It replaces the pile of
// near-identical per-endpoint proxy handlers with one parameterized
// pass-through: Authorization travels unchanged, JSON bodies are
// re-serialized as-is, upstream status codes are mirrored, and network
// failures surface as a generic 500 that never leaks internals.
type Forwarder struct {
	baseURL string
	client  *http.Client
	logger  *logging.ChanneledLogger
}

// NewForwarder creates a forwarder for the given backend base URL.
func NewForwarder(baseURL string, timeout time.Duration, logger *logging.ChanneledLogger) *Forwarder {
	return &Forwarder{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Forward sends the request upstream and mirrors the response.
func (f *Forwarder) Forward(ctx context.Context, method, backendPath string, query url.Values, body io.Reader, authHeader string) ForwardResult {
	start := time.Now()

	target := f.baseURL + backendPath
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		f.logger.Proxy().Error("Failed to build backend request", "method", method, "path", backendPath, "error", err.Error())
		return f.failure()
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Proxy().Error("Backend request failed", "method", method, "path", backendPath, "error", err.Error(), "duration", time.Since(start))
		return f.failure()
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		f.logger.Proxy().Error("Failed to read backend response", "method", method, "path", backendPath, "error", err.Error())
		return f.failure()
	}

	f.logger.Proxy().Debug("Backend request forwarded",
		"method", method, "path", backendPath,
		"status", resp.StatusCode, "duration", time.Since(start))

	// Non-JSON upstream bodies get wrapped so clients always see the
	// envelope convention.
	if !json.Valid(respBody) {
		wrapped, _ := json.Marshal(ErrorEnvelope(fmt.Sprintf("backend returned status %d", resp.StatusCode)))
		return ForwardResult{Status: resp.StatusCode, Body: wrapped}
	}

	return ForwardResult{Status: resp.StatusCode, Body: respBody}
}

// ForwardJSON is a convenience for callers holding an already-decoded
// JSON payload.
func (f *Forwarder) ForwardJSON(ctx context.Context, method, backendPath string, payload any, authHeader string) ForwardResult {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			f.logger.Proxy().Error("Failed to encode backend payload", "path", backendPath, "error", err.Error())
			return f.failure()
		}
		body = bytes.NewReader(data)
	}
	return f.Forward(ctx, method, backendPath, nil, body, authHeader)
}

func (f *Forwarder) failure() ForwardResult {
	body, _ := json.Marshal(ErrorEnvelope("Internal server error"))
	return ForwardResult{Status: http.StatusInternalServerError, Body: body}
}
