// Package chunker provides a sentence-aware text chunking processor.
package chunker

import (
	"context"
	"fmt"

	"github.com/veracite-labs/veracite-cli/internal/core/domain"
	"github.com/veracite-labs/veracite-cli/internal/core/ports/driven"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// Processor splits document content into overlapping, sentence-bounded
// chunks. Chunk boundaries never split a sentence; a single sentence longer
// than the chunk size becomes its own chunk, unsplit, so no evidence text
// is ever truncated or fabricated.
//
// Chunking is deterministic for a given (content, chunk size, overlap)
// triple: re-ingesting identical input yields identical chunk ids and spans.
// It implements the PostProcessor interface.
type Processor struct {
	splitter  driven.SentenceSplitter
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
// Returns domain.ErrInvalidConfiguration when the overlap is not strictly
// smaller than the chunk size.
func New(splitter driven.SentenceSplitter, opts ...Option) (*Processor, error) {
	p := &Processor{
		splitter:  splitter,
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.splitter == nil {
		return nil, fmt.Errorf("%w: sentence splitter is required", domain.ErrInvalidConfiguration)
	}
	if p.overlap >= p.chunkSize {
		return nil, fmt.Errorf("%w: overlap (%d) must be smaller than chunk size (%d)",
			domain.ErrInvalidConfiguration, p.overlap, p.chunkSize)
	}

	return p, nil
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits the document content into sentence-bounded chunks.
// Input chunks are ignored; this processor creates new chunks from document
// content. Empty content produces zero chunks, not an error.
func (p *Processor) Process(_ context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	spans := p.splitter.Split(doc.Content)
	if len(spans) == 0 {
		return nil, nil
	}

	var chunks []domain.Chunk
	seq := 0
	start := 0 // index into spans of the first sentence of the current chunk

	for start < len(spans) {
		chunkStart := spans[start].Start

		// Greedily pack sentences while the chunk stays within size.
		// The first sentence is always included, even when it alone
		// exceeds the chunk size.
		last := start
		for last+1 < len(spans) && spans[last+1].End-chunkStart <= p.chunkSize {
			last++
		}
		chunkEnd := spans[last].End

		chunks = append(chunks, domain.Chunk{
			ID:         domain.ChunkID(doc.ID, seq),
			DocumentID: doc.ID,
			Seq:        seq,
			Start:      chunkStart,
			End:        chunkEnd,
			Content:    doc.Content[chunkStart:chunkEnd],
			Page:       doc.PageAt(chunkStart),
		})
		seq++

		if last == len(spans)-1 {
			break
		}

		// Walk back from the chunk end by the overlap length, snapped
		// forward to the next sentence start so the overlap never splits
		// a sentence.
		next := last + 1
		for i := start + 1; i <= last; i++ {
			if spans[i].Start >= chunkEnd-p.overlap {
				next = i
				break
			}
		}
		start = next
	}

	return chunks, nil
}
