// Package postprocessors turns ingested documents into chunks through
// an ordered sequence of processing stages.
package postprocessors

import (
	"context"
	"fmt"

	"github.com/veracite-labs/veracite-cli/internal/core/domain"
	"github.com/veracite-labs/veracite-cli/internal/core/ports/driven"
)

// Ensure Pipeline implements the interface.
var _ driven.PostProcessorPipeline = (*Pipeline)(nil)

// Pipeline runs a document through its stages in order. The first stage
// receives nil chunks and creates them; later stages receive the chunks
// produced so far.
//
// After every stage the provenance invariant is enforced: each chunk
// must belong to the document being processed, span a valid region of
// its content, and keep a strictly increasing sequence. A stage that
// violates it fails the whole document rather than poisoning the index
// with untraceable chunks.
type Pipeline struct {
	stages []driven.PostProcessor
}

// NewPipeline creates a pipeline executing stages in the order given.
func NewPipeline(stages ...driven.PostProcessor) *Pipeline {
	return &Pipeline{stages: stages}
}

// Process runs the document through all stages and returns the final
// chunks. An empty pipeline returns no chunks.
func (p *Pipeline) Process(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	if doc == nil {
		return nil, fmt.Errorf("document is nil")
	}

	var chunks []domain.Chunk
	for _, stage := range p.stages {
		var err error
		chunks, err = stage.Process(ctx, doc, chunks)
		if err != nil {
			return nil, fmt.Errorf("stage %s: %w", stage.Name(), err)
		}
		if err := checkProvenance(doc, chunks); err != nil {
			return nil, fmt.Errorf("stage %s: %w", stage.Name(), err)
		}
	}
	return chunks, nil
}

// checkProvenance verifies that every chunk is traceable back to doc.
func checkProvenance(doc *domain.Document, chunks []domain.Chunk) error {
	for i, c := range chunks {
		if c.DocumentID != doc.ID {
			return fmt.Errorf("chunk %s claims document %s while processing %s",
				c.ID, c.DocumentID, doc.ID)
		}
		if c.Start < 0 || c.End < c.Start || c.End > len(doc.Content) {
			return fmt.Errorf("chunk %s spans [%d,%d) outside content of length %d",
				c.ID, c.Start, c.End, len(doc.Content))
		}
		if i > 0 && c.Seq <= chunks[i-1].Seq {
			return fmt.Errorf("chunk %s breaks sequence order after seq %d",
				c.ID, chunks[i-1].Seq)
		}
	}
	return nil
}
