// Package flat provides an exact-search vector index adapter.
//
// Vectors are stored densely and scored by inner product; because every
// stored vector is L2-normalised at insertion, inner product equals cosine
// similarity. The index is local to one process; Save and Load are the only
// persistence boundary.
package flat

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/veracite-labs/veracite-cli/internal/core/domain"
	"github.com/veracite-labs/veracite-cli/internal/core/ports/driven"
	"github.com/veracite-labs/veracite-cli/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// normTolerance is the acceptable deviation from unit L2 norm.
const normTolerance = 1e-4

// Index is an in-memory flat cosine-similarity index with file persistence.
//
// Writers are serialised by a mutex; each Add is atomic for its whole
// batch. Queries take a read lock only, so concurrent searches against a
// stable index do not contend.
type Index struct {
	mu    sync.RWMutex
	model string
	dim   int // fixed by the first inserted batch
	ids   []string
	vecs  [][]float32
	pos   map[string]int // chunk id -> insertion position, for deduplication
}

// New creates an empty index bound to the given embedding model identifier.
// The dimensionality is fixed by the first inserted batch.
func New(model string) *Index {
	return &Index{
		model: model,
		pos:   make(map[string]int),
	}
}

// Add inserts a batch of entries. The batch is validated in full before
// any mutation, so readers observe either all of it or none of it.
// Vectors are L2-normalised copies; entries whose chunk id is already
// present are skipped (chunks are immutable, so the stored vector stands).
func (idx *Index) Add(_ context.Context, entries []driven.VectorEntry) error {
	if len(entries) == 0 {
		return nil
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	dim := idx.dim
	if dim == 0 {
		dim = len(entries[0].Vector)
	}

	// Validate the whole batch before touching index state.
	normalised := make([][]float32, 0, len(entries))
	accepted := make([]string, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if len(e.Vector) != dim {
			return fmt.Errorf("%w: entry %s has dimension %d, index has %d",
				domain.ErrDimensionMismatch, e.ChunkID, len(e.Vector), dim)
		}
		if _, dup := idx.pos[e.ChunkID]; dup {
			continue
		}
		if _, dup := seen[e.ChunkID]; dup {
			continue
		}
		v, err := normalise(e.Vector)
		if err != nil {
			return fmt.Errorf("entry %s: %w", e.ChunkID, err)
		}
		seen[e.ChunkID] = struct{}{}
		normalised = append(normalised, v)
		accepted = append(accepted, e.ChunkID)
	}

	if len(accepted) == 0 {
		logger.Debug("Vector index: batch contained only duplicates")
		return nil
	}

	idx.dim = dim
	for i, id := range accepted {
		idx.pos[id] = len(idx.ids)
		idx.ids = append(idx.ids, id)
		idx.vecs = append(idx.vecs, normalised[i])
	}

	logger.Debug("Vector index: added %d entries (total %d)", len(accepted), len(idx.ids))
	return nil
}

// Search returns the k highest-similarity entries for the query vector.
// Ties are broken by insertion order (earlier-inserted chunk wins) so
// rankings are deterministic. Querying an index with no entries returns
// domain.ErrEmptyIndex; a mismatched query dimension returns
// domain.ErrDimensionMismatch.
func (idx *Index) Search(_ context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if len(idx.ids) == 0 {
		return nil, domain.ErrEmptyIndex
	}
	if len(query) != idx.dim {
		return nil, fmt.Errorf("%w: query has dimension %d, index has %d",
			domain.ErrDimensionMismatch, len(query), idx.dim)
	}
	if k <= 0 {
		return []driven.VectorHit{}, nil
	}

	q, err := normalise(query)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	type scored struct {
		pos int
		sim float64
	}
	scores := make([]scored, len(idx.vecs))
	for i, v := range idx.vecs {
		scores[i] = scored{pos: i, sim: dot(q, v)}
	}

	sort.SliceStable(scores, func(a, b int) bool {
		if scores[a].sim != scores[b].sim {
			return scores[a].sim > scores[b].sim
		}
		return scores[a].pos < scores[b].pos
	})

	if k > len(scores) {
		k = len(scores)
	}

	hits := make([]driven.VectorHit, k)
	for i := 0; i < k; i++ {
		s := scores[i]
		hits[i] = driven.VectorHit{
			ChunkID:    idx.ids[s.pos],
			Similarity: s.sim,
			Vector:     idx.vecs[s.pos],
		}
	}
	return hits, nil
}

// Count returns the number of stored entries.
func (idx *Index) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.ids)
}

// ModelName returns the embedding model identifier the index is bound to.
func (idx *Index) ModelName() string {
	return idx.model
}

// Dimensions returns the fixed dimensionality, 0 before the first insert.
func (idx *Index) Dimensions() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.dim
}

// Wipe removes all entries. The model binding is retained.
func (idx *Index) Wipe() {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.ids = nil
	idx.vecs = nil
	idx.dim = 0
	idx.pos = make(map[string]int)
	logger.Info("Vector index wiped")
}

// normalise returns an L2-normalised copy of v. The unit-norm invariant is
// established here rather than assumed from the embedding provider.
func normalise(v []float32) ([]float32, error) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	norm := math.Sqrt(sum)
	if norm == 0 || math.IsNaN(norm) || math.IsInf(norm, 0) {
		return nil, fmt.Errorf("vector has invalid norm %g", norm)
	}

	if math.Abs(norm-1) <= normTolerance {
		out := make([]float32, len(v))
		copy(out, v)
		return out, nil
	}

	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out, nil
}

// dot computes the inner product of two equal-length vectors.
func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
