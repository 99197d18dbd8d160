package introspect

import (
	"context"

	"docscope/internal/domain"
)

// Database is the storage collaborator the engine reads from
type Database interface {
	domain.ScalarClassifier

	// ListCollections returns the names of all collections
	ListCollections(ctx context.Context) ([]string, error)

	// SampleDocuments returns up to limit documents of a collection in any order
	SampleDocuments(ctx context.Context, collection string, limit int) ([]domain.Document, error)

	// FindIDs returns the _id of every document whose _id is in ids
	FindIDs(ctx context.Context, collection string, ids []any) ([]any, error)
}
