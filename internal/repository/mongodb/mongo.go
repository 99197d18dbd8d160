// Package mongodb reads documents from a live MongoDB deployment.
package mongodb

import (
	"context"
	"fmt"
	"strings"

	"docscope/internal/domain"
	"docscope/internal/repository"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Repository implements repository.Store for one MongoDB database
type Repository struct {
	Classifier
	client *mongo.Client
	db     *mongo.Database
}

var _ repository.Store = (*Repository)(nil)

// New connects to MongoDB and checks the deployment is reachable. dialer
// may be nil to use the driver's default.
func New(ctx context.Context, uri, database string, dialer options.ContextDialer) (*Repository, error) {
	if database == "" {
		return nil, fmt.Errorf("database name is required")
	}

	opts := options.Client().ApplyURI(uri)
	if dialer != nil {
		opts.SetDialer(dialer)
	}

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping: %w", err)
	}

	return &Repository{client: client, db: client.Database(database)}, nil
}

// ListCollections returns the names of regular collections, skipping views
// and system collections
func (r *Repository) ListCollections(ctx context.Context) ([]string, error) {
	names, err := r.db.ListCollectionNames(ctx, bson.D{{Key: "type", Value: "collection"}})
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}

	out := names[:0]
	for _, name := range names {
		if !strings.HasPrefix(name, "system.") {
			out = append(out, name)
		}
	}
	return out, nil
}

// SampleDocuments returns the first limit documents in natural order
func (r *Repository) SampleDocuments(ctx context.Context, collection string, limit int) ([]domain.Document, error) {
	cursor, err := r.db.Collection(collection).Find(ctx, bson.D{}, options.Find().SetLimit(int64(limit)))
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []domain.Document
	for cursor.Next(ctx) {
		var raw bson.D
		if err := cursor.Decode(&raw); err != nil {
			return nil, fmt.Errorf("failed to decode document: %w", err)
		}
		docs = append(docs, toDocument(raw))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("error iterating documents: %w", err)
	}
	return docs, nil
}

// FindIDs returns the _id of every document whose _id is in ids
func (r *Repository) FindIDs(ctx context.Context, collection string, ids []any) ([]any, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	filter := bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}}
	projection := bson.D{{Key: "_id", Value: 1}}

	cursor, err := r.db.Collection(collection).Find(ctx, filter, options.Find().SetProjection(projection))
	if err != nil {
		return nil, fmt.Errorf("failed to query ids: %w", err)
	}

	var rows []struct {
		ID any `bson:"_id"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode ids: %w", err)
	}

	found := make([]any, len(rows))
	for i, row := range rows {
		found[i] = normalize(row.ID)
	}
	return found, nil
}

// Close disconnects the client
func (r *Repository) Close() error {
	return r.client.Disconnect(context.Background())
}
