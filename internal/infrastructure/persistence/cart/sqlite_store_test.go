package cart

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	entities "github.com/drinkmate/drinkmate-go/internal/domain/entities/cart"
	"github.com/drinkmate/drinkmate-go/internal/infrastructure/observability/logging"
	"github.com/drinkmate/drinkmate-go/internal/infrastructure/persistence/database"
)

func newTestRepository(t *testing.T) (*Repository, *SQLiteStore) {
	t.Helper()

	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		OutputToFile:    false,
		OutputToConsole: false,
		DefaultLevel:    slog.LevelError,
		ChannelLevels:   make(map[logging.Channel]slog.Level),
	})
	require.NoError(t, err)

	db, err := database.NewConnection("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store, err := NewSQLiteStore(db, logger)
	require.NoError(t, err)
	return NewRepository(store, logger), store
}

func TestSQLiteSaveLoadRoundTrip(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()
	key := entities.UserKey("u1")

	items := []entities.LineItem{
		{ID: "sparkler", Name: "OmniFizz", Price: 399, Quantity: 1},
		{ID: "co2", Name: "CO2 Cylinder", Price: 65.5, Quantity: 2},
	}

	require.NoError(t, repo.Save(ctx, key, items))

	loaded, err := repo.Load(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, items, loaded)
}

func TestSQLiteLoadAbsentKey(t *testing.T) {
	repo, _ := newTestRepository(t)

	loaded, err := repo.Load(context.Background(), entities.GuestKey("sess-1"))
	require.NoError(t, err)
	assert.NotNil(t, loaded)
	assert.Empty(t, loaded)
}

func TestSQLiteSaveOverwrites(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()
	key := entities.GuestKey("sess-1")

	require.NoError(t, repo.Save(ctx, key, []entities.LineItem{{ID: "a", Quantity: 1}}))
	require.NoError(t, repo.Save(ctx, key, []entities.LineItem{{ID: "b", Quantity: 5}}))

	loaded, err := repo.Load(ctx, key)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "b", loaded[0].ID)
}

func TestSQLiteCorruptRowYieldsEmptyAndError(t *testing.T) {
	repo, store := newTestRepository(t)
	ctx := context.Background()
	key := entities.GuestKey("sess-1")

	_, err := store.db.ExecContext(ctx,
		`INSERT INTO cart_store (key, items, updated_at) VALUES (?, ?, datetime('now'))`,
		key, `{"broken": tru`)
	require.NoError(t, err)

	loaded, err := repo.Load(ctx, key)
	require.ErrorIs(t, err, ErrCorruptCart)
	assert.Empty(t, loaded)

	// The next save heals the row.
	require.NoError(t, repo.Save(ctx, key, []entities.LineItem{{ID: "fresh", Quantity: 1}}))
	loaded, err = repo.Load(ctx, key)
	require.NoError(t, err)
	assert.Len(t, loaded, 1)
}

func TestSQLiteDelete(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()
	key := entities.UserKey("u1")

	require.NoError(t, repo.Save(ctx, key, []entities.LineItem{{ID: "a", Quantity: 1}}))
	require.NoError(t, repo.Delete(ctx, key))

	loaded, err := repo.Load(ctx, key)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestSQLiteHealthy(t *testing.T) {
	repo, store := newTestRepository(t)
	assert.True(t, repo.Healthy(context.Background()))
	assert.True(t, store.Ping(context.Background()))
}

func TestSQLiteGetReportsPresence(t *testing.T) {
	_, store := newTestRepository(t)
	ctx := context.Background()

	_, found, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set(ctx, "present", `[]`))
	raw, found, err := store.Get(ctx, "present")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[]`, raw)
}
