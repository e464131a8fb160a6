package driving

import (
	"context"

	"github.com/veracite-labs/veracite-cli/internal/core/domain"
)

// ValidationService enforces the claim-to-source rule on generated text.
// Generator output is untrusted: the validator never assumes citation
// instructions were followed.
type ValidationService interface {
	// Validate classifies every paragraph of text as sourced or
	// unsourced against the known chunk and reference id sets. In
	// strict mode any unsourced paragraph or dangling citation fails
	// with a *domain.CoverageError carrying the full report.
	Validate(ctx context.Context, text string, strict bool) (*domain.ValidationReport, error)

	// Annotate appends the inference tag to every unsourced paragraph
	// and returns the annotated text. Content is never deleted.
	Annotate(ctx context.Context, text string) (string, error)
}
