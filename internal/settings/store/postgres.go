package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"fairgate/pkg/platform/tx"
)

// PostgresStore keeps settings in the settings table. It joins a transaction
// carried by ctx.
type PostgresStore struct {
	db *sqlx.DB
}

func NewPostgres(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Get returns nil for a missing row and for a NULL value alike.
func (s *PostgresStore) Get(ctx context.Context, key string) (*string, error) {
	var value sql.NullString
	err := sqlx.GetContext(ctx, tx.Executor(ctx, s.db), &value,
		`SELECT value FROM settings WHERE key = $1`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select setting %s: %w", key, err)
	}
	if !value.Valid {
		return nil, nil
	}
	return &value.String, nil
}

// Set upserts key. A nil value stores NULL.
func (s *PostgresStore) Set(ctx context.Context, key string, value *string) error {
	_, err := tx.Executor(ctx, s.db).ExecContext(ctx, `
		INSERT INTO settings (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		key, value)
	if err != nil {
		return fmt.Errorf("upsert setting %s: %w", key, err)
	}
	return nil
}
