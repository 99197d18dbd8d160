package introspect

import (
	"context"

	"docscope/internal/domain"
)

// Introspector runs the full pipeline against one database
type Introspector struct {
	db       Database
	progress ProgressFunc
}

// NewIntrospector creates an introspector. progress may be nil.
func NewIntrospector(db Database, progress ProgressFunc) *Introspector {
	return &Introspector{db: db, progress: progress}
}

// Introspect samples, profiles and cross-references every collection.
// Either a complete result is returned or an error; there is no partial
// success.
func (in *Introspector) Introspect(ctx context.Context, opts domain.Options) (*domain.IntrospectionResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	collections, err := in.db.ListCollections(ctx)
	if err != nil {
		return nil, &domain.IOError{Op: "list collections", Err: err}
	}
	in.progress.report(Progress{Stage: StageStarted, Count: len(collections)})

	models, err := NewStructureAnalyzer(in.db, opts).AnalyzeAll(ctx, collections, in.progress)
	if err != nil {
		return nil, err
	}

	candidates := FindReferenceCandidates(models)
	in.progress.report(Progress{Stage: StageCandidatesFound, Count: candidates.Count()})

	verified, err := NewReferenceVerifier(in.db).Verify(ctx, candidates)
	if err != nil {
		return nil, err
	}
	refs := NewReferenceMap(verified)
	in.progress.report(Progress{Stage: StageReferencesVerified, Count: len(refs)})

	result := &domain.IntrospectionResult{
		Source:  domain.Source,
		Version: domain.FormatVersion,
		Models:  ConvertModels(models, refs, opts.MaxPropertiesPerObject),
	}
	in.progress.report(Progress{Stage: StageCompleted, Count: len(result.Models)})
	return result, nil
}
