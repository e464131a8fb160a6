package driven

import "context"

// VectorIndex stores one embedding per chunk and answers nearest-neighbour
// queries by cosine similarity. All stored vectors are L2-normalised so
// inner product equals cosine similarity; implementations verify this at
// insertion rather than assuming it.
//
// Writers are serialised; each Add is atomic for its whole batch, so
// readers never observe a partially inserted batch. Queries against a
// stable index proceed concurrently.
type VectorIndex interface {
	// Add inserts a batch of (chunk id, vector) entries.
	// The whole batch becomes visible atomically or not at all.
	Add(ctx context.Context, entries []VectorEntry) error

	// Search returns the k highest-similarity entries for the query
	// vector, ties broken by insertion order. A populated index with no
	// matches returns an empty slice; an index with no entries at all
	// returns domain.ErrEmptyIndex.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Count returns the number of stored entries.
	Count() int

	// ModelName returns the embedding model identifier the index is bound to.
	ModelName() string

	// Save persists the index to the given path.
	Save(path string) error

	// Wipe removes all entries.
	Wipe()
}

// VectorEntry is a single chunk embedding to insert.
type VectorEntry struct {
	// ChunkID identifies the chunk the vector belongs to.
	ChunkID string

	// Vector is the embedding; it is L2-normalised on insertion.
	Vector []float32
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// Similarity is the cosine similarity score.
	Similarity float64

	// Vector is the stored (normalised) embedding of the hit. Retrieval
	// re-ranking needs candidate vectors to score pairwise similarity.
	Vector []float32
}
