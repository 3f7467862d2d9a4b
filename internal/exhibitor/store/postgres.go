package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"fairgate/internal/exhibitor"
	"fairgate/pkg/domain"
	"fairgate/pkg/platform/sentinel"
	"fairgate/pkg/platform/tx"
)

const uniqueViolation = "23505"

// PostgresStore persists exhibitors with sqlx.
type PostgresStore struct {
	db *sqlx.DB
}

func NewPostgres(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := sqlx.GetContext(ctx, tx.Executor(ctx, s.db), &n, `SELECT count(*) FROM exhibitors`); err != nil {
		return 0, fmt.Errorf("count exhibitors: %w", err)
	}
	return n, nil
}

// List returns up to take exhibitors after skip, oldest first. The id
// tiebreak keeps pages stable when timestamps collide.
func (s *PostgresStore) List(ctx context.Context, skip, take int) ([]exhibitor.Exhibitor, error) {
	var out []exhibitor.Exhibitor
	err := sqlx.SelectContext(ctx, tx.Executor(ctx, s.db), &out, `
		SELECT id, name, industry, booth, created_at
		FROM exhibitors
		ORDER BY created_at, id
		LIMIT $1 OFFSET $2`, take, skip)
	if err != nil {
		return nil, fmt.Errorf("list exhibitors: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id domain.ExhibitorID) (*exhibitor.Exhibitor, error) {
	var e exhibitor.Exhibitor
	err := sqlx.GetContext(ctx, tx.Executor(ctx, s.db), &e, `
		SELECT id, name, industry, booth, created_at
		FROM exhibitors WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find exhibitor: %w", err)
	}
	return &e, nil
}

// Create inserts e. A name already taken (case-insensitively) is
// sentinel.ErrConflict.
func (s *PostgresStore) Create(ctx context.Context, e *exhibitor.Exhibitor) error {
	_, err := sqlx.NamedExecContext(ctx, tx.Executor(ctx, s.db), `
		INSERT INTO exhibitors (id, name, industry, booth, created_at)
		VALUES (:id, :name, :industry, :booth, :created_at)`, e)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("exhibitor %q: %w", e.Name, sentinel.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("insert exhibitor: %w", err)
	}
	return nil
}
