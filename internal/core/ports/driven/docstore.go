package driven

import (
	"context"

	"github.com/veracite-labs/veracite-cli/internal/core/domain"
)

// DocumentStore persists documents and chunks.
// Backed by SQLite for metadata storage.
type DocumentStore interface {
	// SaveDocument stores a document.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// SaveChunks stores chunks for a document.
	SaveChunks(ctx context.Context, chunks []domain.Chunk) error

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// FindByPath returns the live (non-superseded) document for a source
	// path, or domain.ErrNotFound.
	FindByPath(ctx context.Context, sourcePath string) (*domain.Document, error)

	// GetChunk retrieves a specific chunk by ID.
	GetChunk(ctx context.Context, id string) (*domain.Chunk, error)

	// GetChunks retrieves all chunks for a document, ordered by sequence.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// ChunkIDs returns the set of all known chunk ids.
	ChunkIDs(ctx context.Context) (map[string]struct{}, error)

	// MarkSuperseded records that oldID has been replaced by newID.
	MarkSuperseded(ctx context.Context, oldID, newID string) error

	// DeleteDocument removes a document and its chunks.
	DeleteDocument(ctx context.Context, id string) error

	// Wipe removes all documents and chunks.
	Wipe(ctx context.Context) error
}

// ReferenceStore persists external bibliographic records.
type ReferenceStore interface {
	// SaveReferences stores or updates bibliographic records.
	SaveReferences(ctx context.Context, refs []domain.Reference) error

	// GetReference retrieves a record by ID.
	GetReference(ctx context.Context, id string) (*domain.Reference, error)

	// ReferenceIDs returns the set of all known reference ids.
	ReferenceIDs(ctx context.Context) (map[string]struct{}, error)
}
