package cart

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/drinkmate/drinkmate-go/internal/domain/repositories"
	"github.com/drinkmate/drinkmate-go/internal/infrastructure/observability/logging"
	"github.com/drinkmate/drinkmate-go/internal/infrastructure/persistence/database"
)

// SQLiteStore is the key-value substrate backed by a single table.
// Works against both the sqlite3 and libsql drivers. Cart semantics
// live in Repository; this layer only moves strings.
type SQLiteStore struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

var _ repositories.KVStore = (*SQLiteStore)(nil)

// NewSQLiteStore creates the store and ensures its schema exists.
func NewSQLiteStore(db *database.DB, logger *logging.ChanneledLogger) (*SQLiteStore, error) {
	store := &SQLiteStore{db: db, logger: logger}
	if err := store.migrate(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) migrate() error {
	const schema = `CREATE TABLE IF NOT EXISTS cart_store (
		key TEXT PRIMARY KEY,
		items TEXT NOT NULL,
		updated_at DATETIME NOT NULL
	)`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create cart_store table: %w", err)
	}
	return nil
}

// Get reads the raw value under key. The second return reports whether
// the key exists.
func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	start := time.Now()

	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT items FROM cart_store WHERE key = ?`, key).Scan(&raw)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read cart row: %w", err)
	}

	s.logger.Database().Debug("Cart row read", "duration", time.Since(start))
	return raw, true, nil
}

// Set upserts the raw value under key.
func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cart_store (key, items, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET items = excluded.items, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to write cart row: %w", err)
	}
	return nil
}

// Delete removes the value under key.
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM cart_store WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete cart row: %w", err)
	}
	return nil
}

// Ping reports whether the database answers.
func (s *SQLiteStore) Ping(ctx context.Context) bool {
	return s.db.PingContext(ctx) == nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
