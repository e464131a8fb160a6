package driving

import (
	"context"

	"github.com/veracite-labs/veracite-cli/internal/core/domain"
)

// IngestService chunks, embeds and indexes normalised document text.
type IngestService interface {
	// Ingest processes the given inputs in parallel. A failure in one
	// document aborts only that document; the others proceed. The
	// returned result lists per-document outcomes.
	Ingest(ctx context.Context, inputs []IngestInput) (*IngestResult, error)

	// Wipe destroys all indexed chunks and vectors.
	Wipe(ctx context.Context) error
}

// IngestInput is one normalised document to ingest. Format parsing
// (PDF/DOCX/OCR) happens upstream and is out of scope here.
type IngestInput struct {
	// SourcePath is the original file location; re-ingesting the same
	// path supersedes the previous document.
	SourcePath string

	// Content is the normalised plain text.
	Content string

	// PageOffsets carries page markers from the upstream parser.
	PageOffsets []domain.PageOffset
}

// IngestResult summarises an ingestion run.
type IngestResult struct {
	// Documents lists per-document outcomes in input order.
	Documents []DocumentResult

	// ChunksIndexed is the total number of chunks added to the index.
	ChunksIndexed int
}

// DocumentResult is the outcome for one ingested document.
type DocumentResult struct {
	// SourcePath identifies the input.
	SourcePath string

	// DocumentID is the assigned id, empty when ingestion failed.
	DocumentID string

	// Chunks is the number of chunks produced.
	Chunks int

	// Err is the per-document failure, nil on success.
	Err error
}
