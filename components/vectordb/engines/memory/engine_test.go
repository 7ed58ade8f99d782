package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bububa/lifelog-agent/components/embedder"
	"github.com/bububa/lifelog-agent/components/vectordb"
)

func record(id, text, date string, vec ...float64) vectordb.Record {
	return vectordb.Record{
		ID: id,
		Embedding: embedder.Embedding{
			Object:    text,
			Embedding: vec,
			Meta:      map[string]string{"date": date, "log_id": id},
		},
	}
}

func TestSearchOrdersByDistance(t *testing.T) {
	ctx := context.Background()
	e := New(vectordb.WithTopK(2))
	require.NoError(t, e.Insert(ctx, "logs",
		record("a", "ran 5k", "2025-01-01", 1, 0),
		record("b", "ate pasta", "2025-01-02", 0, 1),
		record("c", "ran 10k", "2025-01-02", 0.9, 0.1),
	))
	got, err := e.Search(ctx, []float64{1, 0}, vectordb.SearchWithCollection("logs"))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "c", got[1].ID)
	assert.InDelta(t, 0, got[0].Distance, 1e-9)
	assert.LessOrEqual(t, got[0].Distance, got[1].Distance)
}

func TestSearchTopKLargerThanCollection(t *testing.T) {
	ctx := context.Background()
	e := New()
	require.NoError(t, e.Insert(ctx, "logs", record("a", "ran", "2025-01-01", 1, 0)))
	got, err := e.Search(ctx, []float64{1, 0}, vectordb.SearchWithCollection("logs"), vectordb.SearchWithTopK(5))
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestSearchFilters(t *testing.T) {
	ctx := context.Background()
	e := New()
	require.NoError(t, e.Insert(ctx, "logs",
		record("a", "ran 5k", "2025-01-01", 1, 0),
		record("b", "ran 10k", "2025-01-02", 1, 0),
	))
	got, err := e.Search(ctx, []float64{1, 0},
		vectordb.SearchWithCollection("logs"),
		vectordb.SearchWithTopK(5),
		vectordb.SearchWithMeta(map[string]string{"date": "2025-01-02"}))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)

	got, err = e.Search(ctx, []float64{1, 0},
		vectordb.SearchWithCollection("logs"),
		vectordb.SearchWithTopK(5),
		vectordb.SearchWithExclude("10k"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
}

func TestDeleteAndDrop(t *testing.T) {
	ctx := context.Background()
	e := New()
	require.NoError(t, e.Insert(ctx, "logs",
		record("a", "ran", "2025-01-01", 1, 0),
		record("b", "ate", "2025-01-02", 0, 1),
		record("c", "slept", "2025-01-02", 0, 1),
	))
	n, err := e.Delete(ctx, "logs", map[string]string{"date": "2025-01-02"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	count, err := e.Count(ctx, "logs")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	n, err = e.Delete(ctx, "logs", map[string]string{"date": "1999-01-01"})
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, e.DropCollection(ctx, "logs"))
	assert.False(t, e.HasCollection("logs"))
}

func TestInsertReplacesSameID(t *testing.T) {
	ctx := context.Background()
	e := New()
	require.NoError(t, e.Insert(ctx, "logs", record("a", "ran", "2025-01-01", 1, 0)))
	require.NoError(t, e.Insert(ctx, "logs", record("a", "walked", "2025-01-01", 1, 0)))
	count, err := e.Count(ctx, "logs")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
