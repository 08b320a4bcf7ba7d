package services

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/drinkmate/drinkmate-go/internal/domain/entities/cart"
	"github.com/drinkmate/drinkmate-go/internal/infrastructure/observability/logging"
	"github.com/drinkmate/drinkmate-go/internal/infrastructure/observability/performance"
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

func testTracker() *performance.Tracker {
	return performance.NewTracker(100)
}

// memoryRepo is an in-memory CartRepository for service tests.
type memoryRepo struct {
	data    map[string][]cart.LineItem
	loadErr error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{data: make(map[string][]cart.LineItem)}
}

func (r *memoryRepo) Load(_ context.Context, key string) ([]cart.LineItem, error) {
	if r.loadErr != nil {
		return []cart.LineItem{}, r.loadErr
	}
	items, ok := r.data[key]
	if !ok {
		return []cart.LineItem{}, nil
	}
	out := make([]cart.LineItem, len(items))
	copy(out, items)
	return out, nil
}

func (r *memoryRepo) Save(_ context.Context, key string, items []cart.LineItem) error {
	out := make([]cart.LineItem, len(items))
	copy(out, items)
	r.data[key] = out
	return nil
}

func (r *memoryRepo) Delete(_ context.Context, key string) error {
	delete(r.data, key)
	return nil
}

func (r *memoryRepo) Healthy(_ context.Context) bool { return true }
