package cart

import (
	"context"

	cartentity "github.com/drinkmate/drinkmate-go/internal/domain/entities/cart"
	"github.com/drinkmate/drinkmate-go/internal/domain/repositories"
	"github.com/drinkmate/drinkmate-go/internal/infrastructure/observability/logging"
)

// Repository implements cart persistence over any KVStore, layering the
// tolerant JSON serializer on raw values. The substrate (sqlite, libsql
// or redis) is chosen at startup and interchangeable.
type Repository struct {
	kv     repositories.KVStore
	logger *logging.ChanneledLogger
}

var _ repositories.CartRepository = (*Repository)(nil)

// NewRepository wraps a key-value substrate in cart semantics.
func NewRepository(kv repositories.KVStore, logger *logging.ChanneledLogger) *Repository {
	return &Repository{kv: kv, logger: logger}
}

// Load reads the items persisted under key. Absent keys yield an empty
// list; corrupt values yield an empty list plus ErrCorruptCart.
func (r *Repository) Load(ctx context.Context, key string) ([]cartentity.LineItem, error) {
	raw, found, err := r.kv.Get(ctx, key)
	if err != nil {
		return []cartentity.LineItem{}, err
	}
	if !found {
		return []cartentity.LineItem{}, nil
	}

	items, err := decodeItems(raw)
	if err != nil {
		r.logger.Database().Warn("Discarding corrupt cart value", "key", key, "error", err.Error())
		return []cartentity.LineItem{}, err
	}
	return items, nil
}

// Save persists the serialized items under key. Best-effort: the caller
// logs and flags failures, the in-memory cart keeps operating.
func (r *Repository) Save(ctx context.Context, key string, items []cartentity.LineItem) error {
	raw, err := encodeItems(items)
	if err != nil {
		return err
	}
	return r.kv.Set(ctx, key, raw)
}

// Delete removes the persisted cart under key.
func (r *Repository) Delete(ctx context.Context, key string) error {
	return r.kv.Delete(ctx, key)
}

// Healthy reports whether the substrate answers a ping.
func (r *Repository) Healthy(ctx context.Context) bool {
	return r.kv.Ping(ctx)
}
