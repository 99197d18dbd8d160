package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"docscope/internal/artifact"
	"docscope/internal/codec"
	"docscope/internal/domain"
	"docscope/internal/introspect"
)

// IntrospectionService runs introspection and persists its results
type IntrospectionService struct {
	db       introspect.Database
	eventBus *EventBus
}

// NewIntrospectionService creates a new introspection service. eventBus may
// be nil when nobody listens.
func NewIntrospectionService(db introspect.Database, eventBus *EventBus) *IntrospectionService {
	return &IntrospectionService{
		db:       db,
		eventBus: eventBus,
	}
}

// Run introspects the database, publishing progress as events
func (s *IntrospectionService) Run(ctx context.Context, opts domain.Options) (*domain.IntrospectionResult, error) {
	result, err := introspect.NewIntrospector(s.db, s.publishProgress).Introspect(ctx, opts)
	if err != nil {
		s.eventBus.Publish(Event{
			Type:    EventIntrospectionFailed,
			Payload: map[string]any{"error": err.Error()},
		})
		return nil, err
	}
	return result, nil
}

func (s *IntrospectionService) publishProgress(p introspect.Progress) {
	switch p.Stage {
	case introspect.StageStarted:
		s.eventBus.Publish(Event{
			Type:    EventIntrospectionStarted,
			Payload: map[string]any{"collections": p.Count},
		})
	case introspect.StageCollectionSampled:
		s.eventBus.Publish(Event{
			Type:    EventCollectionSampled,
			Payload: map[string]any{"collection": p.Collection, "documents": p.Documents},
		})
	case introspect.StageCandidatesFound:
		s.eventBus.Publish(Event{
			Type:    EventCandidatesFound,
			Payload: map[string]any{"candidates": p.Count},
		})
	case introspect.StageReferencesVerified:
		s.eventBus.Publish(Event{
			Type:    EventReferencesVerified,
			Payload: map[string]any{"references": p.Count},
		})
	case introspect.StageCompleted:
		s.eventBus.Publish(Event{
			Type:    EventIntrospectionCompleted,
			Payload: map[string]any{"models": p.Count},
		})
	}
}

// Export writes result to w in the given format
func (s *IntrospectionService) Export(result *domain.IntrospectionResult, format string, w io.Writer) error {
	c, err := codec.ForFormat(format)
	if err != nil {
		return err
	}
	return c.Encode(result, w)
}

// Save encodes result and stores it under key. An empty format is inferred
// from the key's extension.
func (s *IntrospectionService) Save(ctx context.Context, store artifact.Store, key, format string, result *domain.IntrospectionResult) error {
	format = FormatForKey(key, format)

	var buf bytes.Buffer
	if err := s.Export(result, format, &buf); err != nil {
		return err
	}
	if err := store.Put(ctx, key, buf.Bytes()); err != nil {
		return fmt.Errorf("save result: %w", err)
	}

	s.eventBus.Publish(Event{
		Type:    EventResultSaved,
		Payload: map[string]any{"key": key, "format": format, "bytes": buf.Len()},
	})
	return nil
}

// Load reads a previously saved result. Results with a newer format version
// fail with *domain.FormatVersionError.
func (s *IntrospectionService) Load(ctx context.Context, store artifact.Store, key, format string) (*domain.IntrospectionResult, error) {
	c, err := codec.ForFormat(FormatForKey(key, format))
	if err != nil {
		return nil, err
	}

	data, err := store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load result: %w", err)
	}
	return c.Decode(bytes.NewReader(data))
}

// FormatForKey returns format, or the format implied by key's extension
// when format is empty
func FormatForKey(key, format string) string {
	if format != "" {
		return format
	}
	switch strings.ToLower(filepath.Ext(key)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}
