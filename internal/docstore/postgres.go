package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"barbearia-backend/internal/db"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const documentsSchema = `
CREATE TABLE IF NOT EXISTS documents (
	collection TEXT NOT NULL,
	id         TEXT NOT NULL,
	fields     JSONB NOT NULL DEFAULT '{}'::jsonb,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (collection, id)
);
CREATE INDEX IF NOT EXISTS documents_collection_created_idx ON documents (collection, created_at, id);
`

// Postgres stores every collection in one jsonb documents table.
type Postgres struct {
	DB *db.Postgres
}

// NewPostgres ensures the documents table exists.
func NewPostgres(ctx context.Context, pg *db.Postgres) (*Postgres, error) {
	if _, err := pg.Pool.Exec(ctx, documentsSchema); err != nil {
		return nil, fmt.Errorf("create documents table: %w", err)
	}
	return &Postgres{DB: pg}, nil
}

func (s *Postgres) Add(ctx context.Context, collection string, fields map[string]any) (string, error) {
	payload, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("encode fields: %w", err)
	}
	id := uuid.NewString()
	_, err = s.DB.Pool.Exec(ctx, `
		INSERT INTO documents (collection, id, fields, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())
	`, collection, id, payload)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Postgres) List(ctx context.Context, collection string) ([]Document, error) {
	rows, err := s.DB.Pool.Query(ctx, `
		SELECT id, fields
		FROM documents
		WHERE collection=$1
		ORDER BY created_at ASC, id ASC
	`, collection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Document{}
	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}
		fields := map[string]any{}
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("decode document %s/%s: %w", collection, id, err)
		}
		items = append(items, Document{ID: id, Fields: fields})
	}
	return items, rows.Err()
}

func (s *Postgres) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	payload, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode fields: %w", err)
	}
	ct, err := s.DB.Pool.Exec(ctx, `
		UPDATE documents
		SET fields = fields || $3::jsonb, updated_at = now()
		WHERE collection=$1 AND id=$2
	`, collection, id, payload)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Postgres) Delete(ctx context.Context, collection, id string) error {
	_, err := s.DB.Pool.Exec(ctx, `DELETE FROM documents WHERE collection=$1 AND id=$2`, collection, id)
	return err
}

func (s *Postgres) Adjust(ctx context.Context, collection, id, field string, delta, floor float64) (float64, error) {
	tx, err := s.DB.Pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var raw []byte
	err = tx.QueryRow(ctx, `
		SELECT fields -> $3::text
		FROM documents
		WHERE collection=$1 AND id=$2
		FOR UPDATE
	`, collection, id, field).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}

	var current float64
	if len(raw) > 0 && string(raw) != "null" {
		if err := json.Unmarshal(raw, &current); err != nil {
			return 0, fmt.Errorf("field %q is not numeric", field)
		}
	}
	next := current + delta
	if next < floor {
		return current, ErrBelowFloor
	}

	_, err = tx.Exec(ctx, `
		UPDATE documents
		SET fields = jsonb_set(fields, ARRAY[$3::text], to_jsonb($4::float8), true), updated_at = now()
		WHERE collection=$1 AND id=$2
	`, collection, id, field, next)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return next, nil
}

func (s *Postgres) Health(ctx context.Context) error {
	return s.DB.Health(ctx)
}

func (s *Postgres) Close() error {
	s.DB.Close()
	return nil
}
