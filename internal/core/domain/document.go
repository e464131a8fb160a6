package domain

import (
	"fmt"
	"time"
)

// Document represents an ingested document with provenance metadata.
// It is immutable once ingested; re-ingesting the same source path
// produces a new Document that supersedes the old one.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// SourcePath is the original location on disk.
	SourcePath string

	// Content is the full normalised text before chunking.
	Content string

	// PageOffsets maps character offsets to page numbers, ordered by offset.
	// Empty when the source format has no page structure.
	PageOffsets []PageOffset

	// IngestedAt is when the document entered the index.
	IngestedAt time.Time

	// SupersededBy holds the ID of the document that replaced this one
	// after re-ingestion of the same path. Empty for the live version.
	SupersededBy string
}

// PageOffset marks the character offset at which a page begins.
type PageOffset struct {
	// Offset is the character position in Content where the page starts.
	Offset int

	// Page is the 1-based page number.
	Page int
}

// PageAt returns the page number containing the given character offset,
// or 0 if the document carries no page structure.
func (d *Document) PageAt(offset int) int {
	page := 0
	for _, po := range d.PageOffsets {
		if po.Offset > offset {
			break
		}
		page = po.Page
	}
	return page
}

// Chunk represents a sentence-bounded span of a document's text.
// It is the atomic unit of retrieval and citation.
// Chunks are immutable; they are destroyed only by an explicit index wipe.
type Chunk struct {
	// ID is derived deterministically from the owning document ID and
	// the chunk's sequence index. See ChunkID.
	ID string

	// DocumentID links to the owning Document.
	DocumentID string

	// Seq is the ordinal position within the document.
	Seq int

	// Start and End delimit the chunk's character span [Start, End)
	// in the source document content.
	Start int
	End   int

	// Content is the text content of this chunk.
	Content string

	// Page is the page number the chunk starts on, 0 if unknown.
	Page int
}

// ChunkID derives the deterministic chunk identifier from a document ID
// and sequence index. Re-ingesting identical input yields identical IDs.
func ChunkID(documentID string, seq int) string {
	return fmt.Sprintf("%s:%d", documentID, seq)
}
