package introspect

import (
	"context"
	"sort"
	"sync"

	"docscope/internal/domain"

	"golang.org/x/sync/errgroup"
)

// ReferenceVerifier confirms reference candidates with live id lookups
type ReferenceVerifier struct {
	db Database
}

// NewReferenceVerifier creates a verifier bound to a database
func NewReferenceVerifier(db Database) *ReferenceVerifier {
	return &ReferenceVerifier{db: db}
}

// Verify keeps a candidate for a model only if every sampled value of the
// candidate exists as an _id in that model. Candidates without samples
// cannot be verified and are dropped. Models are checked concurrently.
func (v *ReferenceVerifier) Verify(ctx context.Context, candidates CandidateMap) (CandidateMap, error) {
	var mu sync.Mutex
	verified := make(CandidateMap)

	g, gctx := errgroup.WithContext(ctx)
	for model, nodes := range candidates {
		g.Go(func() error {
			kept, err := v.verifyModel(gctx, model, nodes)
			if err != nil {
				return err
			}
			if len(kept) > 0 {
				mu.Lock()
				verified[model] = kept
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return verified, nil
}

func (v *ReferenceVerifier) verifyModel(ctx context.Context, model string, nodes []*domain.NodeProfile) ([]*domain.NodeProfile, error) {
	query := make(map[string]any)
	for _, node := range nodes {
		for _, key := range node.SampleKeys() {
			if _, ok := query[key]; ok {
				continue
			}
			value, _ := node.Sample(key)
			query[key] = value
		}
	}
	if len(query) == 0 {
		return nil, nil
	}

	keys := make([]string, 0, len(query))
	for key := range query {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	ids := make([]any, len(keys))
	for i, key := range keys {
		ids[i] = query[key]
	}

	found, err := v.db.FindIDs(ctx, model, ids)
	if err != nil {
		return nil, &domain.IOError{Op: "find ids", Collection: model, Err: err}
	}
	existing := make(map[string]struct{}, len(found))
	for _, id := range found {
		existing[canonicalKey(v.db, id)] = struct{}{}
	}

	var kept []*domain.NodeProfile
	for _, node := range nodes {
		if allFound(node, existing) {
			kept = append(kept, node)
		}
	}
	return kept, nil
}

func allFound(node *domain.NodeProfile, existing map[string]struct{}) bool {
	keys := node.SampleKeys()
	if len(keys) == 0 {
		return false
	}
	for _, key := range keys {
		if _, ok := existing[key]; !ok {
			return false
		}
	}
	return true
}
