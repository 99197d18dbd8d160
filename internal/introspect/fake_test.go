package introspect

import (
	"context"
	"encoding/hex"
	"sync"

	"docscope/internal/domain"
)

// objectID stands in for a driver's wrapped identifier type
type objectID [12]byte

// blob stands in for a driver's binary type
type blob []byte

// fakeClassifier knows the two test scalar types
type fakeClassifier struct{}

func (fakeClassifier) ClassifyScalar(v any) (domain.Scalar, bool) {
	switch val := v.(type) {
	case objectID:
		return domain.Scalar{Tag: "ObjectId", Kind: domain.ScalarIdentifier, Key: hex.EncodeToString(val[:])}, true
	case blob:
		return domain.Scalar{Tag: "Binary", Kind: domain.ScalarBinary, Size: len(val), Key: hex.EncodeToString(val)}, true
	}
	return domain.Scalar{}, false
}

// fakeDB is an in-memory Database that records the calls it receives
type fakeDB struct {
	fakeClassifier

	collections map[string][]domain.Document

	listErr   error
	sampleErr map[string]error
	findErr   map[string]error

	mu      sync.Mutex
	calls   int
	queries map[string][]any
}

func newFakeDB(collections map[string][]domain.Document) *fakeDB {
	return &fakeDB{
		collections: collections,
		sampleErr:   make(map[string]error),
		findErr:     make(map[string]error),
		queries:     make(map[string][]any),
	}
}

func (f *fakeDB) called() {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
}

func (f *fakeDB) ListCollections(ctx context.Context) ([]string, error) {
	f.called()
	if f.listErr != nil {
		return nil, f.listErr
	}
	names := make([]string, 0, len(f.collections))
	for name := range f.collections {
		names = append(names, name)
	}
	return names, nil
}

func (f *fakeDB) SampleDocuments(ctx context.Context, collection string, limit int) ([]domain.Document, error) {
	f.called()
	if err := f.sampleErr[collection]; err != nil {
		return nil, err
	}
	docs := f.collections[collection]
	if len(docs) > limit {
		docs = docs[:limit]
	}
	return docs, nil
}

func (f *fakeDB) FindIDs(ctx context.Context, collection string, ids []any) ([]any, error) {
	f.called()
	if err := f.findErr[collection]; err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.queries[collection] = ids
	f.mu.Unlock()

	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[canonicalKey(f, id)] = struct{}{}
	}
	var found []any
	for _, doc := range f.collections[collection] {
		id := doc[domain.IDField]
		if _, ok := wanted[canonicalKey(f, id)]; ok {
			found = append(found, id)
		}
	}
	return found, nil
}

// profileOf analyzes documents without a database round trip
func profileOf(opts domain.Options, docs ...domain.Document) *domain.NodeProfile {
	a := NewStructureAnalyzer(newFakeDB(nil), opts)
	root := domain.NewNodeProfile()
	for _, doc := range docs {
		a.Observe(root, map[string]any(doc))
	}
	return root
}
