package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/veracite-labs/veracite-cli/internal/core/domain"
	"github.com/veracite-labs/veracite-cli/internal/core/ports/driven"
)

// --- Mock implementations shared by the service tests ---

// mockEmbeddingService implements driven.EmbeddingService.
type mockEmbeddingService struct {
	mu        sync.Mutex
	embedding []float32
	embedErr  error
	dims      int
	calls     []string
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	m.mu.Lock()
	m.calls = append(m.calls, text)
	m.mu.Unlock()
	return m.embedding, nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	m.mu.Lock()
	m.calls = append(m.calls, texts...)
	m.mu.Unlock()
	result := make([][]float32, len(texts))
	for i := range texts {
		result[i] = m.embedding
	}
	return result, nil
}

func (m *mockEmbeddingService) Dimensions() int {
	if m.dims > 0 {
		return m.dims
	}
	return 3
}

func (m *mockEmbeddingService) ModelName() string { return "mock-embed" }

func (m *mockEmbeddingService) Ping(_ context.Context) error { return nil }

func (m *mockEmbeddingService) Close() error { return nil }

// mockVectorIndex implements driven.VectorIndex.
type mockVectorIndex struct {
	mu        sync.Mutex
	hits      []driven.VectorHit
	searchErr error
	addErr    error
	added     [][]driven.VectorEntry
	wiped     bool
}

func (m *mockVectorIndex) Add(_ context.Context, entries []driven.VectorEntry) error {
	if m.addErr != nil {
		return m.addErr
	}
	m.mu.Lock()
	m.added = append(m.added, entries)
	m.mu.Unlock()
	return nil
}

func (m *mockVectorIndex) Search(_ context.Context, _ []float32, k int) ([]driven.VectorHit, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if k > len(m.hits) {
		return m.hits, nil
	}
	return m.hits[:k], nil
}

func (m *mockVectorIndex) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, batch := range m.added {
		n += len(batch)
	}
	return n
}

func (m *mockVectorIndex) ModelName() string { return "mock-embed" }

func (m *mockVectorIndex) Save(_ string) error { return nil }

func (m *mockVectorIndex) Wipe() { m.wiped = true }

// mockDocumentStore implements driven.DocumentStore.
type mockDocumentStore struct {
	mu         sync.Mutex
	chunkIDs   map[string]struct{}
	chunkIDErr error

	docs       map[string]*domain.Document
	byPath     map[string]*domain.Document
	chunks     map[string][]domain.Chunk
	superseded map[string]string
	saveErr    error
	wiped      bool
}

func newMockDocumentStore() *mockDocumentStore {
	return &mockDocumentStore{
		chunkIDs:   map[string]struct{}{},
		docs:       map[string]*domain.Document{},
		byPath:     map[string]*domain.Document{},
		chunks:     map[string][]domain.Chunk{},
		superseded: map[string]string{},
	}
}

func (m *mockDocumentStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.docs[doc.ID] = doc
	m.byPath[doc.SourcePath] = doc
	return nil
}

func (m *mockDocumentStore) SaveChunks(_ context.Context, chunks []domain.Chunk) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	for _, c := range chunks {
		m.chunks[c.DocumentID] = append(m.chunks[c.DocumentID], c)
		m.chunkIDs[c.ID] = struct{}{}
	}
	return nil
}

func (m *mockDocumentStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[id]
	if !ok {
		return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	return doc, nil
}

func (m *mockDocumentStore) FindByPath(_ context.Context, sourcePath string) (*domain.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.byPath[sourcePath]
	if !ok || doc.SupersededBy != "" {
		return nil, fmt.Errorf("path %s: %w", sourcePath, domain.ErrNotFound)
	}
	return doc, nil
}

func (m *mockDocumentStore) GetChunk(_ context.Context, id string) (*domain.Chunk, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, list := range m.chunks {
		for i := range list {
			if list[i].ID == id {
				return &list[i], nil
			}
		}
	}
	return nil, fmt.Errorf("chunk %s: %w", id, domain.ErrNotFound)
}

func (m *mockDocumentStore) GetChunks(_ context.Context, documentID string) ([]domain.Chunk, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.chunks[documentID], nil
}

func (m *mockDocumentStore) ChunkIDs(_ context.Context) (map[string]struct{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.chunkIDErr != nil {
		return nil, m.chunkIDErr
	}
	return m.chunkIDs, nil
}

func (m *mockDocumentStore) MarkSuperseded(_ context.Context, oldID, newID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.superseded[oldID] = newID
	if doc, ok := m.docs[oldID]; ok {
		doc.SupersededBy = newID
	}
	return nil
}

func (m *mockDocumentStore) DeleteDocument(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, id)
	delete(m.chunks, id)
	return nil
}

func (m *mockDocumentStore) Wipe(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wiped = true
	m.docs = map[string]*domain.Document{}
	m.byPath = map[string]*domain.Document{}
	m.chunks = map[string][]domain.Chunk{}
	m.chunkIDs = map[string]struct{}{}
	return nil
}

// mockReferenceStore implements driven.ReferenceStore.
type mockReferenceStore struct {
	refIDs map[string]struct{}
	saved  []domain.Reference
}

func (m *mockReferenceStore) SaveReferences(_ context.Context, refs []domain.Reference) error {
	m.saved = append(m.saved, refs...)
	return nil
}

func (m *mockReferenceStore) GetReference(_ context.Context, id string) (*domain.Reference, error) {
	for i := range m.saved {
		if m.saved[i].ID == id {
			return &m.saved[i], nil
		}
	}
	return nil, fmt.Errorf("reference %s: %w", id, domain.ErrNotFound)
}

func (m *mockReferenceStore) ReferenceIDs(_ context.Context) (map[string]struct{}, error) {
	if m.refIDs == nil {
		return map[string]struct{}{}, nil
	}
	return m.refIDs, nil
}

// mockSearcher implements driven.LiteratureSearcher.
type mockSearcher struct {
	refs      []domain.Reference
	searchErr error
	queries   []domain.SafeQuery
}

func (m *mockSearcher) Search(_ context.Context, query domain.SafeQuery, maxResults int) ([]domain.Reference, error) {
	m.queries = append(m.queries, query)
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if maxResults < len(m.refs) {
		return m.refs[:maxResults], nil
	}
	return m.refs, nil
}

// mockConfirmer implements driven.QueryConfirmer.
type mockConfirmer struct {
	decision domain.GuardDecision
	queries  []domain.SafeQuery
}

func (m *mockConfirmer) Confirm(_ context.Context, query domain.SafeQuery) domain.GuardDecision {
	m.queries = append(m.queries, query)
	return m.decision
}

// mockPipeline implements driven.PostProcessorPipeline.
type mockPipeline struct {
	perDoc func(doc *domain.Document) ([]domain.Chunk, error)
}

func (m *mockPipeline) Process(_ context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	return m.perDoc(doc)
}
