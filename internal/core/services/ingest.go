package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/veracite-labs/veracite-cli/internal/core/domain"
	"github.com/veracite-labs/veracite-cli/internal/core/ports/driven"
	"github.com/veracite-labs/veracite-cli/internal/core/ports/driving"
	"github.com/veracite-labs/veracite-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService runs normalised document text through the chunking
// pipeline, embeds the chunks and lands them in the document store and
// the vector index.
//
// Documents are processed in parallel: chunk ids are deterministic per
// document, so concurrent ingestion needs no cross-document
// coordination. Store and index writes go through their own locking.
type IngestService struct {
	pipeline    driven.PostProcessorPipeline
	embedder    driven.EmbeddingService
	vectorIndex driven.VectorIndex
	docStore    driven.DocumentStore
}

// NewIngestService creates a new ingestion service.
func NewIngestService(
	pipeline driven.PostProcessorPipeline,
	embedder driven.EmbeddingService,
	vectorIndex driven.VectorIndex,
	docStore driven.DocumentStore,
) *IngestService {
	return &IngestService{
		pipeline:    pipeline,
		embedder:    embedder,
		vectorIndex: vectorIndex,
		docStore:    docStore,
	}
}

// Ingest processes the given inputs concurrently. A failure in one
// document is recorded in its result and does not abort the others.
func (s *IngestService) Ingest(ctx context.Context, inputs []driving.IngestInput) (*driving.IngestResult, error) {
	if len(inputs) == 0 {
		return &driving.IngestResult{}, nil
	}
	logger.Section("Ingestion")
	logger.Info("Ingesting %d document(s)", len(inputs))

	result := &driving.IngestResult{
		Documents: make([]driving.DocumentResult, len(inputs)),
	}

	var wg sync.WaitGroup
	for i, input := range inputs {
		wg.Add(1)
		go func(i int, input driving.IngestInput) {
			defer wg.Done()
			result.Documents[i] = s.ingestOne(ctx, input)
		}(i, input)
	}
	wg.Wait()

	for _, dr := range result.Documents {
		result.ChunksIndexed += dr.Chunks
	}
	logger.Info("Indexed %d chunk(s)", result.ChunksIndexed)
	return result, nil
}

// ingestOne runs the full pipeline for a single document. Each step
// wraps its error; the per-document result isolates the failure.
func (s *IngestService) ingestOne(ctx context.Context, input driving.IngestInput) driving.DocumentResult {
	res := driving.DocumentResult{SourcePath: input.SourcePath}

	doc := &domain.Document{
		ID:          uuid.NewString(),
		SourcePath:  input.SourcePath,
		Content:     input.Content,
		PageOffsets: input.PageOffsets,
		IngestedAt:  time.Now().UTC(),
	}

	// A previous ingest of the same path gets superseded, never mutated.
	prev, err := s.docStore.FindByPath(ctx, input.SourcePath)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		res.Err = fmt.Errorf("looking up previous ingest: %w", err)
		return res
	}

	chunks, err := s.pipeline.Process(ctx, doc)
	if err != nil {
		res.Err = fmt.Errorf("chunking: %w", err)
		return res
	}
	logger.Debug("Document %s: %d chunk(s)", input.SourcePath, len(chunks))

	if err := s.docStore.SaveDocument(ctx, doc); err != nil {
		res.Err = fmt.Errorf("saving document: %w", err)
		return res
	}
	if err := s.docStore.SaveChunks(ctx, chunks); err != nil {
		res.Err = fmt.Errorf("saving chunks: %w", err)
		return res
	}

	if err := s.indexChunks(ctx, chunks); err != nil {
		res.Err = err
		return res
	}

	if prev != nil {
		if err := s.docStore.MarkSuperseded(ctx, prev.ID, doc.ID); err != nil {
			res.Err = fmt.Errorf("superseding previous ingest: %w", err)
			return res
		}
		logger.Debug("Document %s supersedes %s", doc.ID, prev.ID)
	}

	res.DocumentID = doc.ID
	res.Chunks = len(chunks)
	return res
}

// indexChunks embeds chunk contents in one batch and adds the whole
// batch to the vector index atomically.
func (s *IngestService) indexChunks(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}

	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embedding chunks: got %d vectors for %d chunks", len(vectors), len(chunks))
	}

	entries := make([]driven.VectorEntry, len(chunks))
	for i, c := range chunks {
		entries[i] = driven.VectorEntry{ChunkID: c.ID, Vector: vectors[i]}
	}
	if err := s.vectorIndex.Add(ctx, entries); err != nil {
		return fmt.Errorf("indexing chunks: %w", err)
	}
	return nil
}

// Wipe destroys all stored documents, chunks and vectors.
func (s *IngestService) Wipe(ctx context.Context) error {
	logger.Section("Wipe")
	if err := s.docStore.Wipe(ctx); err != nil {
		return fmt.Errorf("wiping document store: %w", err)
	}
	s.vectorIndex.Wipe()
	logger.Info("Index wiped")
	return nil
}
