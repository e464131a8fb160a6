package driven

import (
	"context"

	"github.com/veracite-labs/veracite-cli/internal/core/domain"
)

// LiteratureSearcher queries an external bibliographic metadata provider.
// It accepts only sanitised queries: the parameter type makes it
// impossible to hand raw document text to this port.
type LiteratureSearcher interface {
	// Search returns bibliographic records for an approved safe query.
	// Only metadata is fetched, never full text.
	Search(ctx context.Context, query domain.SafeQuery, maxResults int) ([]domain.Reference, error)
}

// QueryConfirmer surfaces an outbound query to a human before it leaves
// the process boundary. It receives only sanitised keyword strings,
// never chunk text, so it cannot become an exfiltration vector.
type QueryConfirmer interface {
	// Confirm blocks until the query is approved or rejected.
	// Context cancellation or timeout resolves to GuardRejected rather
	// than leaving the pipeline stalled.
	Confirm(ctx context.Context, query domain.SafeQuery) domain.GuardDecision
}
