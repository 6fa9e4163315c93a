package vectorindex

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"
	_ "github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	bootstrapQuery = `
		CREATE EXTENSION IF NOT EXISTS vector;
		CREATE TABLE IF NOT EXISTS document_vectors (
			id         TEXT PRIMARY KEY,
			embedding  vector NOT NULL,
			metadata   JSONB NOT NULL DEFAULT '{}'::jsonb,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`

	upsertVectorQuery = `
		INSERT INTO document_vectors (id, embedding, metadata, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (id) DO UPDATE
		SET embedding = EXCLUDED.embedding,
			metadata = EXCLUDED.metadata,
			updated_at = now()`

	queryVectorQuery = `
		SELECT id, 1 - (embedding <=> $1) AS score, metadata
		FROM document_vectors
		WHERE vector_dims(embedding) = vector_dims($1)
		ORDER BY embedding <=> $1
		LIMIT $2`
)

type pgvectorIndex struct {
	db *sqlx.DB
}

type vectorRow struct {
	ID       string  `db:"id"`
	Score    float64 `db:"score"`
	Metadata []byte  `db:"metadata"`
}

// NewPgvector connects to Postgres and creates the vector table on first use.
func NewPgvector(ctx context.Context, databaseURL string) (IVectorIndex, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("pgvector connect: %w", err)
	}

	if _, err := db.ExecContext(ctx, bootstrapQuery); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pgvector bootstrap: %w", err)
	}

	return &pgvectorIndex{db: db}, nil
}

func (p *pgvectorIndex) Upsert(ctx context.Context, vectors []Vector) error {
	if len(vectors) == 0 {
		return nil
	}

	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("pgvector begin: %w", err)
	}

	stmt, err := tx.PreparexContext(ctx, upsertVectorQuery)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("pgvector prepare: %w", err)
	}
	defer stmt.Close()

	for _, v := range vectors {
		if len(v.Values) == 0 {
			_ = tx.Rollback()
			return ErrEmptyVector
		}

		md, err := json.Marshal(v.Metadata)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("pgvector metadata for %s: %w", v.ID, err)
		}

		if _, err := stmt.ExecContext(ctx, v.ID, pgvector.NewVector(v.Values), md); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("pgvector upsert %s: %w", v.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("pgvector commit: %w", err)
	}
	return nil
}

func (p *pgvectorIndex) Query(ctx context.Context, vector []float32, topK int) ([]Match, error) {
	if err := validate(vector, topK); err != nil {
		return nil, err
	}

	var rows []vectorRow
	if err := p.db.SelectContext(ctx, &rows, queryVectorQuery, pgvector.NewVector(vector), topK); err != nil {
		return nil, fmt.Errorf("pgvector query: %w", err)
	}

	matches := make([]Match, 0, len(rows))
	for _, r := range rows {
		md := map[string]interface{}{}
		if len(r.Metadata) > 0 {
			if err := json.Unmarshal(r.Metadata, &md); err != nil {
				return nil, fmt.Errorf("pgvector metadata for %s: %w", r.ID, err)
			}
		}
		matches = append(matches, Match{ID: r.ID, Score: float32(r.Score), Metadata: md})
	}
	return matches, nil
}

func (p *pgvectorIndex) Close() error {
	return p.db.Close()
}
