package flat

import (
	"bytes"
	"context"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veracite-labs/veracite-cli/internal/core/domain"
	"github.com/veracite-labs/veracite-cli/internal/core/ports/driven"
)

func entry(id string, v ...float32) driven.VectorEntry {
	return driven.VectorEntry{ChunkID: id, Vector: v}
}

func TestIndex_AddAndSearch(t *testing.T) {
	ctx := context.Background()
	idx := New("test-model")

	err := idx.Add(ctx, []driven.VectorEntry{
		entry("a", 1, 0, 0),
		entry("b", 0, 1, 0),
		entry("c", 0.9, 0.1, 0),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, idx.Count())

	hits, err := idx.Search(ctx, []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "a", hits[0].ChunkID)
	assert.Equal(t, "c", hits[1].ChunkID)
	assert.InDelta(t, 1.0, hits[0].Similarity, 1e-6)
}

func TestIndex_VectorsAreNormalised(t *testing.T) {
	ctx := context.Background()
	idx := New("test-model")

	// Insert a deliberately unnormalised vector.
	require.NoError(t, idx.Add(ctx, []driven.VectorEntry{entry("a", 3, 4, 0)}))

	hits, err := idx.Search(ctx, []float32{3, 4, 0}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)

	var norm float64
	for _, x := range hits[0].Vector {
		norm += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-6)
	assert.InDelta(t, 1.0, hits[0].Similarity, 1e-6)
}

func TestIndex_Search_EmptyIndex(t *testing.T) {
	idx := New("test-model")
	_, err := idx.Search(context.Background(), []float32{1, 0}, 5)
	assert.ErrorIs(t, err, domain.ErrEmptyIndex)
}

func TestIndex_Search_DimensionMismatch(t *testing.T) {
	ctx := context.Background()
	idx := New("test-model")
	require.NoError(t, idx.Add(ctx, []driven.VectorEntry{entry("a", 1, 0, 0)}))

	_, err := idx.Search(ctx, []float32{1, 0}, 1)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestIndex_Add_DimensionMismatch(t *testing.T) {
	ctx := context.Background()
	idx := New("test-model")
	require.NoError(t, idx.Add(ctx, []driven.VectorEntry{entry("a", 1, 0, 0)}))

	err := idx.Add(ctx, []driven.VectorEntry{entry("b", 1, 0)})
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
	// The failed batch must not be partially visible.
	assert.Equal(t, 1, idx.Count())
}

func TestIndex_Add_BatchAtomicity(t *testing.T) {
	ctx := context.Background()
	idx := New("test-model")

	// Second entry is invalid: nothing from the batch may land.
	err := idx.Add(ctx, []driven.VectorEntry{
		entry("a", 1, 0, 0),
		entry("b", 1, 0),
	})
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
	assert.Equal(t, 0, idx.Count())
}

func TestIndex_Add_Duplicates(t *testing.T) {
	ctx := context.Background()
	idx := New("test-model")

	require.NoError(t, idx.Add(ctx, []driven.VectorEntry{entry("a", 1, 0, 0)}))
	require.NoError(t, idx.Add(ctx, []driven.VectorEntry{
		entry("a", 0, 1, 0),
		entry("b", 0, 0, 1),
	}))
	assert.Equal(t, 2, idx.Count())

	// The original vector for "a" stands.
	hits, err := idx.Search(ctx, []float32{1, 0, 0}, 1)
	require.NoError(t, err)
	assert.Equal(t, "a", hits[0].ChunkID)
	assert.InDelta(t, 1.0, hits[0].Similarity, 1e-6)
}

func TestIndex_Search_TiesByInsertionOrder(t *testing.T) {
	ctx := context.Background()
	idx := New("test-model")

	// Two identical vectors: the earlier-inserted chunk must win.
	require.NoError(t, idx.Add(ctx, []driven.VectorEntry{
		entry("first", 0, 1, 0),
		entry("second", 0, 1, 0),
	}))

	hits, err := idx.Search(ctx, []float32{0, 1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "first", hits[0].ChunkID)
	assert.Equal(t, "second", hits[1].ChunkID)
}

func TestIndex_Search_KLargerThanIndex(t *testing.T) {
	ctx := context.Background()
	idx := New("test-model")
	require.NoError(t, idx.Add(ctx, []driven.VectorEntry{entry("a", 1, 0, 0)}))

	hits, err := idx.Search(ctx, []float32{1, 0, 0}, 50)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestIndex_Wipe(t *testing.T) {
	ctx := context.Background()
	idx := New("test-model")
	require.NoError(t, idx.Add(ctx, []driven.VectorEntry{entry("a", 1, 0, 0)}))

	idx.Wipe()
	assert.Equal(t, 0, idx.Count())

	_, err := idx.Search(ctx, []float32{1, 0, 0}, 1)
	assert.ErrorIs(t, err, domain.ErrEmptyIndex)

	// A wiped index accepts a new dimensionality.
	require.NoError(t, idx.Add(ctx, []driven.VectorEntry{entry("b", 1, 0)}))
	assert.Equal(t, 1, idx.Count())
}

func TestIndex_SaveLoad_RoundTrip(t *testing.T) {
	ctx := context.Background()
	idx := New("test-model")
	require.NoError(t, idx.Add(ctx, []driven.VectorEntry{
		entry("a", 1, 0, 0),
		entry("b", 0.8, 0.2, 0),
		entry("c", 0, 1, 0),
		entry("d", 0.8, 0.2, 0), // tied with b, must stay behind it after reload
	}))

	path := filepath.Join(t.TempDir(), "chunks.vcix")
	require.NoError(t, idx.Save(path))

	loaded, err := Load(path, "test-model")
	require.NoError(t, err)
	assert.Equal(t, idx.Count(), loaded.Count())
	assert.Equal(t, "test-model", loaded.ModelName())

	query := []float32{0.7, 0.3, 0}
	before, err := idx.Search(ctx, query, 4)
	require.NoError(t, err)
	after, err := loaded.Search(ctx, query, 4)
	require.NoError(t, err)

	require.Len(t, after, len(before))
	for i := range before {
		assert.Equal(t, before[i].ChunkID, after[i].ChunkID, "rank %d", i)
		assert.Equal(t, before[i].Similarity, after[i].Similarity, "rank %d", i)
	}
}

func TestLoad_ModelMismatch(t *testing.T) {
	ctx := context.Background()
	idx := New("model-a")
	require.NoError(t, idx.Add(ctx, []driven.VectorEntry{entry("a", 1, 0)}))

	path := filepath.Join(t.TempDir(), "chunks.vcix")
	require.NoError(t, idx.Save(path))

	_, err := Load(path, "model-b")
	assert.ErrorIs(t, err, domain.ErrModelMismatch)

	// Empty configured model skips the check.
	loaded, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, "model-a", loaded.ModelName())
}

func TestLoad_CorruptLengthPrefix(t *testing.T) {
	// Valid magic and version, then a model string whose length prefix
	// claims far more bytes than any real field. Load must reject the
	// file instead of attempting the allocation.
	var file bytes.Buffer
	file.WriteString(fileMagic)
	require.NoError(t, binary.Write(&file, binary.LittleEndian, fileVersion))
	require.NoError(t, binary.Write(&file, binary.LittleEndian, uint32(2)))
	require.NoError(t, binary.Write(&file, binary.LittleEndian, uint32(1<<30)))

	path := filepath.Join(t.TempDir(), "chunks.vcix")
	require.NoError(t, os.WriteFile(path, file.Bytes(), 0600))

	_, err := Load(path, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corrupt index file")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.vcix"), "m")
	assert.Error(t, err)
}

func TestIndex_ConcurrentReaders(t *testing.T) {
	ctx := context.Background()
	idx := New("test-model")
	require.NoError(t, idx.Add(ctx, []driven.VectorEntry{
		entry("a", 1, 0, 0),
		entry("b", 0, 1, 0),
	}))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hits, err := idx.Search(ctx, []float32{1, 0, 0}, 2)
			assert.NoError(t, err)
			assert.Len(t, hits, 2)
		}()
	}
	wg.Wait()
}
