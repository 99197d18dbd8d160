package repository

import (
	"docscope/internal/introspect"
)

// Store is a document store that can be introspected and closed
type Store interface {
	introspect.Database

	// Close releases resources
	Close() error
}
