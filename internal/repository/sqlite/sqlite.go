package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"docscope/internal/domain"
	"docscope/internal/repository"

	_ "modernc.org/sqlite"
)

// Repository implements repository.Store on top of SQLite, keeping each
// document as JSON under its collection and canonical _id
type Repository struct {
	domain.NoScalars
	db *sql.DB
}

var _ repository.Store = (*Repository)(nil)

// New opens (or creates) a SQLite document store
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps :memory: databases shared and serializes writers
	db.SetMaxOpenConns(1)

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS collections (
		name TEXT PRIMARY KEY,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS documents (
		collection TEXT NOT NULL,
		doc_id TEXT NOT NULL,
		data JSON NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (collection, doc_id),
		FOREIGN KEY (collection) REFERENCES collections(name) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_documents_collection ON documents(collection);
	`

	_, err := r.db.Exec(schema)
	return err
}

// CreateCollection registers a collection, which may stay empty
func (r *Repository) CreateCollection(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("collection name is required")
	}
	if _, err := r.db.ExecContext(ctx, `INSERT OR IGNORE INTO collections (name) VALUES (?)`, name); err != nil {
		return fmt.Errorf("failed to create collection %s: %w", name, err)
	}
	return nil
}

// InsertDocument stores a document, replacing any document with the same _id
func (r *Repository) InsertDocument(ctx context.Context, collection string, doc domain.Document) error {
	if err := r.CreateCollection(ctx, collection); err != nil {
		return err
	}

	key, data, err := repository.EncodeDocument(doc)
	if err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx, upsertDocument, collection, key, string(data)); err != nil {
		return fmt.Errorf("failed to insert document %s into %s: %w", key, collection, err)
	}
	return nil
}

const upsertDocument = `
	INSERT INTO documents (collection, doc_id, data) VALUES (?, ?, ?)
	ON CONFLICT(collection, doc_id) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP
`

// ImportDocuments replaces the contents of a collection in one transaction
func (r *Repository) ImportDocuments(ctx context.Context, collection string, docs []domain.Document) error {
	if collection == "" {
		return fmt.Errorf("collection name is required")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO collections (name) VALUES (?)`, collection); err != nil {
		return fmt.Errorf("failed to create collection %s: %w", collection, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE collection = ?`, collection); err != nil {
		return fmt.Errorf("failed to clear collection %s: %w", collection, err)
	}

	stmt, err := tx.PrepareContext(ctx, upsertDocument)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i, doc := range docs {
		key, data, err := repository.EncodeDocument(doc)
		if err != nil {
			return fmt.Errorf("document %d: %w", i, err)
		}
		if _, err := stmt.ExecContext(ctx, collection, key, string(data)); err != nil {
			return fmt.Errorf("failed to insert document %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListCollections returns every registered collection, sorted by name
func (r *Repository) ListCollections(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name FROM collections ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query collections: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan collection: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating collections: %w", err)
	}
	return names, nil
}

// SampleDocuments returns the first limit documents in insertion order
func (r *Repository) SampleDocuments(ctx context.Context, collection string, limit int) ([]domain.Document, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT data FROM documents
		WHERE collection = ?
		ORDER BY rowid
		LIMIT ?
	`, collection, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		doc, err := repository.DecodeDocument([]byte(data))
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating documents: %w", err)
	}
	return docs, nil
}

// FindIDs returns the _id of every document whose canonical key matches one of ids
func (r *Repository) FindIDs(ctx context.Context, collection string, ids []any) ([]any, error) {
	var found []any
	for _, chunk := range chunkKeys(repository.Keys(ids), maxQueryParams) {
		query, args := inQuery(`
			SELECT json_extract(data, '$._id') FROM documents
			WHERE collection = ? AND doc_id IN (%s)
		`, collection, chunk)

		rows, err := r.db.QueryContext(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("failed to query ids: %w", err)
		}
		batch, err := scanIDs(rows)
		if err != nil {
			return nil, err
		}
		found = append(found, batch...)
	}
	return found, nil
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}
