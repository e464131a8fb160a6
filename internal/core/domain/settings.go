package domain

import "fmt"

// Default pipeline settings.
const (
	// DefaultChunkSize is the target chunk length in characters.
	DefaultChunkSize = 1000

	// DefaultOverlap is the overlap between consecutive chunks in characters.
	DefaultOverlap = 200

	// DefaultTopK is the number of evidence chunks per retrieval.
	DefaultTopK = 8

	// DefaultLambda is the MMR relevance/diversity trade-off.
	DefaultLambda = 0.6
)

// Settings holds the pipeline configuration shared across services.
type Settings struct {
	// ChunkSize is the target chunk length in characters.
	ChunkSize int

	// Overlap is the overlap between consecutive chunks in characters.
	// Must be strictly smaller than ChunkSize.
	Overlap int

	// TopK is the default evidence set size per retrieval.
	TopK int

	// Lambda is the default MMR trade-off in [0, 1].
	Lambda float64

	// Strict enables fail-fast citation validation: any unsourced
	// paragraph or dangling citation fails the whole build.
	Strict bool

	// GuardEnabled requires human confirmation for every outbound query.
	GuardEnabled bool

	// EmbeddingModel identifies the embedding model the index is bound to.
	EmbeddingModel string

	// AllowedKeywords is the outbound query vocabulary. Queries may only
	// contain tokens from this set.
	AllowedKeywords []string
}

// DefaultSettings returns settings with all defaults applied.
func DefaultSettings() Settings {
	return Settings{
		ChunkSize:    DefaultChunkSize,
		Overlap:      DefaultOverlap,
		TopK:         DefaultTopK,
		Lambda:       DefaultLambda,
		Strict:       false,
		GuardEnabled: true,
	}
}

// Validate checks the settings for internal consistency.
func (s Settings) Validate() error {
	if s.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk size must be positive, got %d", ErrInvalidConfiguration, s.ChunkSize)
	}
	if s.Overlap < 0 {
		return fmt.Errorf("%w: overlap must be non-negative, got %d", ErrInvalidConfiguration, s.Overlap)
	}
	if s.Overlap >= s.ChunkSize {
		return fmt.Errorf("%w: overlap (%d) must be smaller than chunk size (%d)",
			ErrInvalidConfiguration, s.Overlap, s.ChunkSize)
	}
	if s.Lambda < 0 || s.Lambda > 1 {
		return fmt.Errorf("%w: got %g", ErrInvalidLambda, s.Lambda)
	}
	if s.TopK <= 0 {
		return fmt.Errorf("%w: top-k must be positive, got %d", ErrInvalidConfiguration, s.TopK)
	}
	return nil
}
