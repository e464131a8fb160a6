package postprocessors

import (
	"fmt"

	"github.com/veracite-labs/veracite-cli/internal/core/ports/driven"
	"github.com/veracite-labs/veracite-cli/internal/postprocessors/chunker"
	"github.com/veracite-labs/veracite-cli/internal/sentences"
)

// Config carries stage settings as parsed from user configuration.
type Config map[string]any

// Int returns the integer value for key, or fallback when the key is
// missing or not numeric. TOML decoding may deliver integers as int64
// and JSON as float64, so both forms are accepted.
func (c Config) Int(key string, fallback int) int {
	val, ok := c[key]
	if !ok {
		return fallback
	}
	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return fallback
	}
}

// BuilderFunc constructs a processing stage from its configuration.
type BuilderFunc func(cfg Config) (driven.PostProcessor, error)

// Registry resolves stage names from configuration to builders.
type Registry struct {
	builders map[string]BuilderFunc
}

// NewRegistry creates an empty stage registry.
func NewRegistry() *Registry {
	return &Registry{builders: make(map[string]BuilderFunc)}
}

// NewDefaultRegistry returns a registry with the built-in stages
// registered. The only built-in stage is the sentence-aware chunker.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("chunker", buildChunker)
	return r
}

// Register adds a stage builder under name. A later registration with
// the same name replaces the earlier one.
func (r *Registry) Register(name string, builder BuilderFunc) {
	r.builders[name] = builder
}

// Build constructs the named stage with the given configuration.
func (r *Registry) Build(name string, cfg Config) (driven.PostProcessor, error) {
	builder, ok := r.builders[name]
	if !ok {
		return nil, fmt.Errorf("unknown processing stage: %s", name)
	}
	return builder(cfg)
}

// buildChunker creates the sentence-aware chunker. Config keys:
// chunk_size (characters per chunk) and overlap (characters shared
// between adjacent chunks). Unset keys keep the chunker defaults.
func buildChunker(cfg Config) (driven.PostProcessor, error) {
	var opts []chunker.Option
	if size := cfg.Int("chunk_size", 0); size > 0 {
		opts = append(opts, chunker.WithChunkSize(size))
	}
	if overlap := cfg.Int("overlap", -1); overlap >= 0 {
		opts = append(opts, chunker.WithOverlap(overlap))
	}
	return chunker.New(sentences.NewSplitter(), opts...)
}
