package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/drinkmate/drinkmate-go/internal/domain/entities/cart"
	"github.com/drinkmate/drinkmate-go/internal/infrastructure/observability/logging"
	"github.com/sony/gobreaker"
)

// SyncClient reconciles local cart state with the server-held copy for
// authenticated users. All calls are best-effort: failures are logged,
// never retried automatically, and never block local cart mutation. The
// circuit breaker turns a dead backend into fast local-only operation
// instead of a timeout on every mutation.
type SyncClient struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  *logging.ChanneledLogger
}

type cartPayload struct {
	Items []cart.LineItem `json:"items"`
}

type cartResponse struct {
	Success bool        `json:"success"`
	Data    cartPayload `json:"data"`
	Message string      `json:"message"`
}

// NewSyncClient creates a sync client for the given backend base URL.
func NewSyncClient(baseURL string, timeout time.Duration, logger *logging.ChanneledLogger) *SyncClient {
	settings := gobreaker.Settings{
		Name:    "cart-sync",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Sync().Warn("Sync circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	}

	return &SyncClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker(settings),
		logger:  logger,
	}
}

// Push replaces the server-held cart for the user with the given items.
func (sc *SyncClient) Push(ctx context.Context, userID, bearerToken string, items []cart.LineItem) error {
	_, err := sc.breaker.Execute(func() (any, error) {
		return nil, sc.post(ctx, "/api/cart/sync", bearerToken, cartPayload{Items: items})
	})
	if err != nil {
		sc.logger.LogSyncFailure("push", userID, err)
		return fmt.Errorf("cart push failed: %w", err)
	}
	return nil
}

// Pull fetches the server-held cart for the user.
func (sc *SyncClient) Pull(ctx context.Context, userID, bearerToken string) ([]cart.LineItem, error) {
	result, err := sc.breaker.Execute(func() (any, error) {
		return sc.get(ctx, "/api/cart", bearerToken)
	})
	if err != nil {
		sc.logger.LogSyncFailure("pull", userID, err)
		return nil, fmt.Errorf("cart pull failed: %w", err)
	}
	return result.([]cart.LineItem), nil
}

// Merge folds guest items into the server-held cart: union by product
// ID, summing quantities. The backend applies the same policy, so the
// merged result is identical on both sides.
func (sc *SyncClient) Merge(ctx context.Context, userID, bearerToken string, guestItems []cart.LineItem) error {
	_, err := sc.breaker.Execute(func() (any, error) {
		return nil, sc.post(ctx, "/api/cart/merge", bearerToken, cartPayload{Items: guestItems})
	})
	if err != nil {
		sc.logger.LogSyncFailure("merge", userID, err)
		return fmt.Errorf("cart merge failed: %w", err)
	}
	return nil
}

func (sc *SyncClient) post(ctx context.Context, path, bearerToken string, payload cartPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode cart payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sc.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+bearerToken)

	resp, err := sc.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("backend returned status %d", resp.StatusCode)
	}
	return nil
}

func (sc *SyncClient) get(ctx context.Context, path, bearerToken string) ([]cart.LineItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sc.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+bearerToken)

	resp, err := sc.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("backend returned status %d", resp.StatusCode)
	}

	var parsed cartResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode cart response: %w", err)
	}
	if parsed.Data.Items == nil {
		return []cart.LineItem{}, nil
	}
	return parsed.Data.Items, nil
}

// Healthy reports whether the breaker currently allows requests.
func (sc *SyncClient) Healthy() bool {
	return sc.breaker.State() != gobreaker.StateOpen
}
