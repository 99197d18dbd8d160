package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"docscope/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRepo creates an in-memory SQLite repository for testing
func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
	})
	return repo
}

func TestListCollections(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	require.NoError(t, repo.CreateCollection(ctx, "empty"))
	require.NoError(t, repo.InsertDocument(ctx, "books", domain.Document{"_id": "b1"}))
	require.NoError(t, repo.InsertDocument(ctx, "authors", domain.Document{"_id": "a1"}))

	names, err := repo.ListCollections(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"authors", "books", "empty"}, names)
}

func TestCreateCollectionRequiresName(t *testing.T) {
	repo := newTestRepo(t)
	assert.Error(t, repo.CreateCollection(context.Background(), ""))
}

func TestSampleDocuments(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.InsertDocument(ctx, "items", domain.Document{
			"_id":  fmt.Sprintf("i%d", i),
			"qty":  i,
			"tags": []any{"a", nil},
			"meta": map[string]any{"ok": true},
		}))
	}

	docs, err := repo.SampleDocuments(ctx, "items", 3)
	require.NoError(t, err)
	require.Len(t, docs, 3)

	first := docs[0]
	assert.Equal(t, "i0", first["_id"])
	assert.Equal(t, json.Number("0"), first["qty"])
	assert.Equal(t, []any{"a", nil}, first["tags"])
	assert.Equal(t, map[string]any{"ok": true}, first["meta"])

	none, err := repo.SampleDocuments(ctx, "missing", 3)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestInsertDocumentReplacesSameID(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	require.NoError(t, repo.InsertDocument(ctx, "books", domain.Document{"_id": "b1", "v": 1}))
	require.NoError(t, repo.InsertDocument(ctx, "books", domain.Document{"_id": "b1", "v": 2}))

	docs, err := repo.SampleDocuments(ctx, "books", 10)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, json.Number("2"), docs[0]["v"])
}

func TestInsertDocumentRequiresID(t *testing.T) {
	repo := newTestRepo(t)
	err := repo.InsertDocument(context.Background(), "books", domain.Document{"title": "x"})
	assert.Error(t, err)
}

func TestImportDocuments(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	require.NoError(t, repo.InsertDocument(ctx, "books", domain.Document{"_id": "old"}))
	require.NoError(t, repo.ImportDocuments(ctx, "books", []domain.Document{
		{"_id": "b1"},
		{"_id": "b2"},
	}))

	docs, err := repo.SampleDocuments(ctx, "books", 10)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "b1", docs[0]["_id"])

	t.Run("rolls back on invalid document", func(t *testing.T) {
		err := repo.ImportDocuments(ctx, "books", []domain.Document{{"_id": "b3"}, {"title": "no id"}})
		require.Error(t, err)

		docs, err := repo.SampleDocuments(ctx, "books", 10)
		require.NoError(t, err)
		assert.Len(t, docs, 2)
	})
}

func TestFindIDs(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	require.NoError(t, repo.ImportDocuments(ctx, "publishers", []domain.Document{
		{"_id": "p1"}, {"_id": "p2"}, {"_id": "p3"},
	}))
	require.NoError(t, repo.ImportDocuments(ctx, "counters", []domain.Document{
		{"_id": 1}, {"_id": 2},
	}))

	found, err := repo.FindIDs(ctx, "publishers", []any{"p1", "p3", "p9", "p1"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []any{"p1", "p3"}, found)

	found, err = repo.FindIDs(ctx, "counters", []any{json.Number("2"), int64(5)})
	require.NoError(t, err)
	assert.Equal(t, []any{int64(2)}, found)

	found, err = repo.FindIDs(ctx, "publishers", nil)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestFindIDsChunksLargeQueries(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	var docs []domain.Document
	var ids []any
	for i := 0; i < maxQueryParams+10; i++ {
		id := fmt.Sprintf("k%04d", i)
		docs = append(docs, domain.Document{"_id": id})
		ids = append(ids, id)
	}
	require.NoError(t, repo.ImportDocuments(ctx, "keys", docs))

	found, err := repo.FindIDs(ctx, "keys", ids)
	require.NoError(t, err)
	assert.Len(t, found, len(ids))
}

func TestChunkKeys(t *testing.T) {
	tests := []struct {
		n, size int
		want    []int
	}{
		{0, 3, nil},
		{3, 3, []int{3}},
		{7, 3, []int{3, 3, 1}},
	}

	for _, tt := range tests {
		keys := make([]string, tt.n)
		var got []int
		for _, c := range chunkKeys(keys, tt.size) {
			got = append(got, len(c))
		}
		assert.Equal(t, tt.want, got, "n=%d size=%d", tt.n, tt.size)
	}
}

func TestInQuery(t *testing.T) {
	query, args := inQuery("SELECT 1 WHERE c = ? AND k IN (%s)", "books", []string{"a", "b"})
	assert.Equal(t, "SELECT 1 WHERE c = ? AND k IN (?,?)", query)
	assert.Equal(t, []any{"books", "a", "b"}, args)
}
