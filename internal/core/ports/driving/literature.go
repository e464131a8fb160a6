package driving

import (
	"context"

	"github.com/veracite-labs/veracite-cli/internal/core/domain"
)

// LiteratureService performs guarded external bibliographic lookups.
type LiteratureService interface {
	// Search sanitises the raw query against the keyword allow-list,
	// surfaces it for confirmation, and only then queries the external
	// provider. A guard rejection yields an empty result set and no
	// error: downstream treats it as "no external evidence available".
	Search(ctx context.Context, rawQuery string, maxResults int) ([]domain.Reference, error)
}
