package services

import (
	"context"
	"fmt"

	"github.com/veracite-labs/veracite-cli/internal/core/domain"
	"github.com/veracite-labs/veracite-cli/internal/core/ports/driven"
	"github.com/veracite-labs/veracite-cli/internal/core/ports/driving"
	"github.com/veracite-labs/veracite-cli/internal/logger"
)

// Ensure LiteratureService implements the interface.
var _ driving.LiteratureService = (*LiteratureService)(nil)

// LiteratureService performs external bibliographic lookups behind two
// privacy boundaries: the sanitizer guarantees only allow-listed keywords
// leave the process, and the confirmer requires an explicit approval
// before anything is transmitted.
type LiteratureService struct {
	sanitizer *Sanitizer
	confirmer driven.QueryConfirmer
	searcher  driven.LiteratureSearcher
	refStore  driven.ReferenceStore
}

// NewLiteratureService creates a guarded literature search service.
func NewLiteratureService(
	sanitizer *Sanitizer,
	confirmer driven.QueryConfirmer,
	searcher driven.LiteratureSearcher,
	refStore driven.ReferenceStore,
) *LiteratureService {
	return &LiteratureService{
		sanitizer: sanitizer,
		confirmer: confirmer,
		searcher:  searcher,
		refStore:  refStore,
	}
}

// Search sanitises the raw query, asks for confirmation, queries the
// provider and persists the returned records so their ids resolve in
// later citation validation. A guard rejection returns an empty slice
// and no error: the pipeline continues without external evidence.
func (s *LiteratureService) Search(ctx context.Context, rawQuery string, maxResults int) ([]domain.Reference, error) {
	logger.Section("Literature Search")

	query, err := s.sanitizer.Sanitize(rawQuery)
	if err != nil {
		return nil, err
	}
	logger.Debug("Sanitised query: %q", query.String())

	if decision := s.confirmer.Confirm(ctx, query); decision != domain.GuardApproved {
		logger.Info("Outbound query rejected, continuing without external evidence")
		return []domain.Reference{}, nil
	}

	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	refs, err := s.searcher.Search(ctx, query, maxResults)
	if err != nil {
		return nil, fmt.Errorf("literature search: %w", err)
	}
	logger.Info("Found %d reference(s)", len(refs))

	if s.refStore != nil && len(refs) > 0 {
		if err := s.refStore.SaveReferences(ctx, refs); err != nil {
			return nil, fmt.Errorf("saving references: %w", err)
		}
	}
	return refs, nil
}

const defaultMaxResults = 10
