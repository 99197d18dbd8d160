// Package postgres reads documents stored as JSONB in PostgreSQL.
package postgres

import (
	"context"
	"fmt"
	"net"

	"docscope/internal/domain"
	"docscope/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DialFunc opens a network connection, for example through an SSH tunnel
type DialFunc func(ctx context.Context, network, addr string) (net.Conn, error)

// Repository implements repository.Store on a documents table with a JSONB
// column, mirroring the SQLite layout
type Repository struct {
	domain.NoScalars
	pool *pgxpool.Pool
}

var _ repository.Store = (*Repository)(nil)

// New connects to PostgreSQL and ensures the document tables exist. dial
// may be nil to use the default dialer.
func New(ctx context.Context, uri string, dial DialFunc) (*Repository, error) {
	cfg, err := pgxpool.ParseConfig(uri)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres uri: %w", err)
	}
	if dial != nil {
		cfg.ConnConfig.DialFunc = func(ctx context.Context, network, addr string) (net.Conn, error) {
			return dial(ctx, network, addr)
		}
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	repo := &Repository{pool: pool}
	if err := repo.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return repo, nil
}

func (r *Repository) migrate(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
	CREATE TABLE IF NOT EXISTS collections (
		name TEXT PRIMARY KEY,
		created_at TIMESTAMPTZ DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS documents (
		collection TEXT NOT NULL REFERENCES collections(name) ON DELETE CASCADE,
		doc_id TEXT NOT NULL,
		data JSONB NOT NULL,
		created_at TIMESTAMPTZ DEFAULT now(),
		updated_at TIMESTAMPTZ DEFAULT now(),
		PRIMARY KEY (collection, doc_id)
	);
	`)
	return err
}

// InsertDocument stores a document, replacing any document with the same _id
func (r *Repository) InsertDocument(ctx context.Context, collection string, doc domain.Document) error {
	key, data, err := repository.EncodeDocument(doc)
	if err != nil {
		return err
	}

	batch := &pgx.Batch{}
	batch.Queue(`INSERT INTO collections (name) VALUES ($1) ON CONFLICT DO NOTHING`, collection)
	batch.Queue(`
		INSERT INTO documents (collection, doc_id, data) VALUES ($1, $2, $3::jsonb)
		ON CONFLICT (collection, doc_id) DO UPDATE SET data = excluded.data, updated_at = now()
	`, collection, key, string(data))

	if err := r.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert document %s into %s: %w", key, collection, err)
	}
	return nil
}

// ListCollections returns every registered collection, sorted by name
func (r *Repository) ListCollections(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT name FROM collections ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query collections: %w", err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan collections: %w", err)
	}
	return names, nil
}

// SampleDocuments returns up to limit documents in storage order
func (r *Repository) SampleDocuments(ctx context.Context, collection string, limit int) ([]domain.Document, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT data::text FROM documents
		WHERE collection = $1
		LIMIT $2
	`, collection, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	raw, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan documents: %w", err)
	}

	docs := make([]domain.Document, 0, len(raw))
	for _, data := range raw {
		doc, err := repository.DecodeDocument([]byte(data))
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// FindIDs returns the _id of every document whose canonical key matches one of ids
func (r *Repository) FindIDs(ctx context.Context, collection string, ids []any) ([]any, error) {
	keys := repository.Keys(ids)
	if len(keys) == 0 {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT (data -> '_id')::text FROM documents
		WHERE collection = $1 AND doc_id = ANY($2)
	`, collection, keys)
	if err != nil {
		return nil, fmt.Errorf("failed to query ids: %w", err)
	}
	raw, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan ids: %w", err)
	}

	found := make([]any, 0, len(raw))
	for _, data := range raw {
		id, err := repository.DecodeValue([]byte(data))
		if err != nil {
			return nil, err
		}
		found = append(found, id)
	}
	return found, nil
}

// Close releases the connection pool
func (r *Repository) Close() error {
	r.pool.Close()
	return nil
}
