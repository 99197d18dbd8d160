// Package artifact persists serialized introspection results on the local
// filesystem or in S3-compatible object storage.
package artifact

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Store defines operations for persisting result artifacts
type Store interface {
	Put(ctx context.Context, key string, content []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
}

var ErrNotFound = errors.New("artifact not found")

const s3Scheme = "s3://"

// Location names where an artifact lives. Bucket is empty for local files.
type Location struct {
	Bucket string
	Key    string
}

// Remote reports whether the location points at object storage
func (l Location) Remote() bool {
	return l.Bucket != ""
}

func (l Location) String() string {
	if l.Remote() {
		return s3Scheme + l.Bucket + "/" + l.Key
	}
	return l.Key
}

// ParseLocation accepts a filesystem path or s3://bucket/key
func ParseLocation(raw string) (Location, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Location{}, fmt.Errorf("location is required")
	}
	if !strings.HasPrefix(raw, s3Scheme) {
		return Location{Key: raw}, nil
	}

	bucket, key, ok := strings.Cut(strings.TrimPrefix(raw, s3Scheme), "/")
	key = strings.TrimLeft(key, "/")
	if !ok || bucket == "" || key == "" {
		return Location{}, fmt.Errorf("invalid s3 location %q: want s3://bucket/key", raw)
	}
	return Location{Bucket: bucket, Key: key}, nil
}

// Open returns the store serving loc. Remote locations override the bucket
// configured in cfg.
func Open(loc Location, cfg S3Config) (Store, error) {
	if !loc.Remote() {
		return NewFileStore(""), nil
	}
	cfg.Bucket = loc.Bucket
	return NewS3Store(cfg)
}
