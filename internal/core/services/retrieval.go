package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/veracite-labs/veracite-cli/internal/core/domain"
	"github.com/veracite-labs/veracite-cli/internal/core/ports/driven"
	"github.com/veracite-labs/veracite-cli/internal/core/ports/driving"
	"github.com/veracite-labs/veracite-cli/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// RetrievalService returns diverse, relevant evidence sets using Maximal
// Marginal Relevance re-ranking over an oversampled candidate pool.
type RetrievalService struct {
	vectorIndex      driven.VectorIndex
	embeddingService driven.EmbeddingService
	settings         domain.Settings
}

// NewRetrievalService creates a new retrieval service.
func NewRetrievalService(
	vectorIndex driven.VectorIndex,
	embeddingService driven.EmbeddingService,
	settings domain.Settings,
) *RetrievalService {
	return &RetrievalService{
		vectorIndex:      vectorIndex,
		embeddingService: embeddingService,
		settings:         settings,
	}
}

// Retrieve embeds the query, fetches a candidate pool from the index and
// re-ranks it with MMR. Lambda is taken from opts as-is (0 is legitimate
// pure-diversity selection); TopK and FetchK fall back to the configured
// defaults when unset. An empty index yields an empty evidence set, not
// an error: a collection with nothing indexed has nothing to retrieve.
func (s *RetrievalService) Retrieve(
	ctx context.Context, query string, opts domain.RetrievalOptions,
) (domain.EvidenceSet, error) {
	logger.Section("Retrieval")
	logger.Debug("Query: %q", query)

	if opts.Lambda < 0 || opts.Lambda > 1 {
		return nil, fmt.Errorf("%w: got %g", domain.ErrInvalidLambda, opts.Lambda)
	}

	topK := opts.TopK
	if topK <= 0 {
		topK = s.settings.TopK
	}
	fetchK := opts.FetchK
	if fetchK <= 0 {
		fetchK = topK * 4
	}
	logger.Debug("TopK: %d, Lambda: %g, FetchK: %d", topK, opts.Lambda, fetchK)

	queryVec, err := s.embeddingService.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := s.vectorIndex.Search(ctx, queryVec, fetchK)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyIndex) {
			logger.Debug("Index is empty, returning no evidence")
			return domain.EvidenceSet{}, nil
		}
		return nil, fmt.Errorf("vector search: %w", err)
	}

	evidence := rerankMMR(hits, opts.Lambda, topK)
	logger.Info("Selected %d evidence chunk(s) from %d candidate(s)", len(evidence), len(hits))
	return evidence, nil
}

// rerankMMR selects up to k candidates by Maximal Marginal Relevance:
//
//	score(c) = lambda*sim(q,c) - (1-lambda)*max_{s in selected} sim(c,s)
//
// The first pick is pure relevance since the selected set is empty.
// Ties are broken by highest raw relevance, then candidate order, which
// is the index's insertion order, so selection is deterministic.
// Terminates when k items are selected or the pool is exhausted.
func rerankMMR(candidates []driven.VectorHit, lambda float64, k int) domain.EvidenceSet {
	if len(candidates) == 0 || k <= 0 {
		return domain.EvidenceSet{}
	}

	limit := k
	if limit > len(candidates) {
		limit = len(candidates)
	}

	selected := make(domain.EvidenceSet, 0, limit)
	selectedVecs := make([][]float32, 0, limit)
	remaining := make([]int, len(candidates))
	for i := range candidates {
		remaining[i] = i
	}

	for len(selected) < k && len(remaining) > 0 {
		bestAt := -1
		var bestScore, bestRel float64

		for at, ci := range remaining {
			c := candidates[ci]
			score := c.Similarity
			if len(selectedVecs) > 0 {
				score = lambda*c.Similarity - (1-lambda)*maxSimilarity(c.Vector, selectedVecs)
			}

			if bestAt == -1 || score > bestScore ||
				(score == bestScore && c.Similarity > bestRel) {
				bestAt = at
				bestScore = score
				bestRel = c.Similarity
			}
		}

		chosen := candidates[remaining[bestAt]]
		selected = append(selected, domain.Evidence{
			ChunkID:   chosen.ChunkID,
			Relevance: chosen.Similarity,
			MMRScore:  bestScore,
		})
		selectedVecs = append(selectedVecs, chosen.Vector)
		remaining = append(remaining[:bestAt], remaining[bestAt+1:]...)
	}

	return selected
}

// maxSimilarity returns the highest inner product between v and any of
// the vectors. Stored vectors are unit-normalised, so this is cosine
// similarity.
func maxSimilarity(v []float32, vectors [][]float32) float64 {
	best := 0.0
	for i, w := range vectors {
		var sum float64
		for j := range v {
			sum += float64(v[j]) * float64(w[j])
		}
		if i == 0 || sum > best {
			best = sum
		}
	}
	return best
}
