package introspect

import (
	"context"
	"sort"

	"docscope/internal/domain"

	"golang.org/x/sync/errgroup"
)

// StructureAnalyzer builds statistical profiles from sampled documents
type StructureAnalyzer struct {
	db   Database
	opts domain.Options
}

// NewStructureAnalyzer creates an analyzer bound to a database
func NewStructureAnalyzer(db Database, opts domain.Options) *StructureAnalyzer {
	return &StructureAnalyzer{db: db, opts: opts}
}

// AnalyzeAll profiles every collection concurrently. Collections that
// yield no documents are dropped and the rest are sorted by name.
func (a *StructureAnalyzer) AnalyzeAll(ctx context.Context, collections []string, progress ProgressFunc) ([]domain.ModelProfile, error) {
	profiles := make([]*domain.ModelProfile, len(collections))

	g, gctx := errgroup.WithContext(ctx)
	for i, name := range collections {
		g.Go(func() error {
			profile, err := a.AnalyzeCollection(gctx, name)
			if err != nil {
				return err
			}
			profiles[i] = profile
			if profile != nil {
				progress.report(Progress{Stage: StageCollectionSampled, Collection: name, Documents: profile.Root.Seen})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	models := make([]domain.ModelProfile, 0, len(profiles))
	for _, p := range profiles {
		if p != nil {
			models = append(models, *p)
		}
	}
	sort.Slice(models, func(i, j int) bool { return models[i].Name < models[j].Name })
	return models, nil
}

// AnalyzeCollection profiles one collection. It returns nil when the
// collection yields no documents.
func (a *StructureAnalyzer) AnalyzeCollection(ctx context.Context, collection string) (*domain.ModelProfile, error) {
	docs, err := a.db.SampleDocuments(ctx, collection, a.opts.CollectionSampleSize)
	if err != nil {
		return nil, &domain.IOError{Op: "sample documents", Collection: collection, Err: err}
	}
	if len(docs) == 0 {
		return nil, nil
	}

	root := domain.NewNodeProfile()
	for _, doc := range docs {
		a.Observe(root, map[string]any(doc))
	}
	return &domain.ModelProfile{Name: collection, Root: root}, nil
}

// Observe folds one value into the profile at the matching tree position
func (a *StructureAnalyzer) Observe(node *domain.NodeProfile, value any) {
	obs := classify(a.db, value)
	node.Record(obs.tag)

	switch v := value.(type) {
	case []any:
		if obs.scalar == nil {
			el := node.Element()
			for _, item := range v {
				a.Observe(el, item)
			}
		}
	case map[string]any:
		if obs.scalar == nil {
			for key, item := range v {
				a.Observe(node.Child(key), item)
			}
		}
	}

	a.trackReference(node, obs, value)
}

// trackReference keeps or drops reference candidacy for the new observation
func (a *StructureAnalyzer) trackReference(node *domain.NodeProfile, obs observation, value any) {
	if !node.ReferenceCandidate {
		return
	}
	if !consistentTypes(node, obs.tag) || !obs.identifierShaped(value) {
		node.Demote()
		return
	}
	if obs.tag != domain.TypeNull {
		node.AddSample(canonicalKey(a.db, value), value, a.opts.ReferenceSampleSize)
	}
}

// consistentTypes reports whether every type seen at the node is either
// the current one or null. A null after a typed value breaks consistency.
func consistentTypes(node *domain.NodeProfile, current domain.TypeTag) bool {
	for tag, count := range node.Types {
		if count > 0 && tag != domain.TypeNull && tag != current {
			return false
		}
	}
	return true
}
