package driving

import (
	"context"

	"github.com/veracite-labs/veracite-cli/internal/core/domain"
)

// RetrievalService returns a diverse, relevant evidence set for a query.
type RetrievalService interface {
	// Retrieve embeds the query, fetches an oversampled candidate pool
	// from the vector index and re-ranks it with Maximal Marginal
	// Relevance. Returns fewer than TopK results without error when the
	// pool is exhausted.
	Retrieve(ctx context.Context, query string, opts domain.RetrievalOptions) (domain.EvidenceSet, error)
}
