package docstore

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryListEmptyCollection(t *testing.T) {
	s := NewMemory()
	docs, err := s.List(context.Background(), "products")
	require.NoError(t, err)
	assert.NotNil(t, docs)
	assert.Empty(t, docs)
}

func TestMemoryCRUD(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	id, err := s.Add(ctx, "products", map[string]any{"name": "Shampoo", "stock": 5})
	require.NoError(t, err)
	require.NotEmpty(t, id)
	second, err := s.Add(ctx, "products", map[string]any{"name": "Pomada", "stock": 2})
	require.NoError(t, err)
	assert.NotEqual(t, id, second)

	docs, err := s.List(ctx, "products")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, id, docs[0].ID)
	assert.Equal(t, "Shampoo", docs[0].Fields["name"])

	require.NoError(t, s.Update(ctx, "products", id, map[string]any{"stock": 7}))
	docs, _ = s.List(ctx, "products")
	assert.Equal(t, 7, docs[0].Fields["stock"])
	assert.Equal(t, "Shampoo", docs[0].Fields["name"], "update merges fields")

	require.NoError(t, s.Delete(ctx, "products", id))
	docs, _ = s.List(ctx, "products")
	require.Len(t, docs, 1)
	assert.Equal(t, second, docs[0].ID)
}

func TestMemoryReadsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	fields := map[string]any{"name": "Shampoo"}
	id, _ := s.Add(ctx, "products", fields)
	fields["name"] = "changed"

	docs, _ := s.List(ctx, "products")
	docs[0].Fields["name"] = "changed again"

	docs, _ = s.List(ctx, "products")
	assert.Equal(t, id, docs[0].ID)
	assert.Equal(t, "Shampoo", docs[0].Fields["name"])
}

func TestMemoryMissingDocuments(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	assert.NoError(t, s.Delete(ctx, "products", "missing"), "delete of a missing id succeeds")
	assert.ErrorIs(t, s.Update(ctx, "products", "missing", map[string]any{"stock": 1}), ErrNotFound)
	_, err := s.Adjust(ctx, "products", "missing", "stock", 1, 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryAdjustFloor(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	id, _ := s.Add(ctx, "products", map[string]any{"stock": 3})

	v, err := s.Adjust(ctx, "products", id, "stock", -2, 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)

	v, err = s.Adjust(ctx, "products", id, "stock", -2, 0)
	assert.ErrorIs(t, err, ErrBelowFloor)
	assert.Equal(t, 1.0, v)

	v, err = s.Adjust(ctx, "products", id, "credit", 2.5, NoFloor)
	require.NoError(t, err)
	assert.Equal(t, 2.5, v, "missing field counts as zero")
}

func TestMemoryHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewMemory().List(ctx, "products")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInstrumentedCountsResults(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	s := NewInstrumented(NewMemory(), reg)

	id, err := s.Add(ctx, "products", map[string]any{"stock": 1})
	require.NoError(t, err)
	_, _ = s.List(ctx, "products")
	_ = s.Update(ctx, "products", "missing", map[string]any{"stock": 1})
	_, _ = s.Adjust(ctx, "products", id, "stock", -5, 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(s.ops.WithLabelValues("products", "add", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.ops.WithLabelValues("products", "list", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.ops.WithLabelValues("products", "update", "not_found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.ops.WithLabelValues("products", "adjust", "below_floor")))
}
