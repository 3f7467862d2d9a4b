package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"fairgate/internal/document"
	"fairgate/pkg/domain"
	"fairgate/pkg/platform/sentinel"
	"fairgate/pkg/platform/tx"
)

const foreignKeyViolation = "23503"

// PostgresStore keeps document content in a bytea column.
type PostgresStore struct {
	db *sqlx.DB
}

func NewPostgres(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) FindByID(ctx context.Context, id domain.DocumentID) (*document.Document, error) {
	var d document.Document
	err := sqlx.GetContext(ctx, tx.Executor(ctx, s.db), &d, `
		SELECT id, exhibitor_id, file_name, content_type, size, data, created_at
		FROM documents WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find document: %w", err)
	}
	return &d, nil
}

// Save upserts d. Referencing an exhibitor that does not exist is
// sentinel.ErrNotFound.
func (s *PostgresStore) Save(ctx context.Context, d *document.Document) error {
	_, err := sqlx.NamedExecContext(ctx, tx.Executor(ctx, s.db), `
		INSERT INTO documents (id, exhibitor_id, file_name, content_type, size, data, created_at)
		VALUES (:id, :exhibitor_id, :file_name, :content_type, :size, :data, :created_at)
		ON CONFLICT (id) DO UPDATE SET
			exhibitor_id = EXCLUDED.exhibitor_id,
			file_name = EXCLUDED.file_name,
			content_type = EXCLUDED.content_type,
			size = EXCLUDED.size,
			data = EXCLUDED.data`, d)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
		return fmt.Errorf("document exhibitor: %w", sentinel.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}
