package cli

import (
	"bytes"
	"context"
	"errors"

	"github.com/veracite-labs/veracite-cli/internal/core/domain"
	"github.com/veracite-labs/veracite-cli/internal/core/ports/driving"
)

// --- Mock services for command tests ---

type mockIngestService struct {
	result  *driving.IngestResult
	err     error
	wipeErr error
	wiped   bool
}

func (m *mockIngestService) Ingest(_ context.Context, inputs []driving.IngestInput) (*driving.IngestResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.result != nil {
		return m.result, nil
	}
	result := &driving.IngestResult{}
	for i, in := range inputs {
		result.Documents = append(result.Documents, driving.DocumentResult{
			SourcePath: in.SourcePath,
			DocumentID: domain.ChunkID("doc", i),
			Chunks:     1,
		})
		result.ChunksIndexed++
	}
	return result, nil
}

func (m *mockIngestService) Wipe(_ context.Context) error {
	m.wiped = true
	return m.wipeErr
}

type mockRetrievalService struct {
	evidence domain.EvidenceSet
	err      error
	gotOpts  domain.RetrievalOptions
}

func (m *mockRetrievalService) Retrieve(_ context.Context, _ string, opts domain.RetrievalOptions) (domain.EvidenceSet, error) {
	m.gotOpts = opts
	return m.evidence, m.err
}

type mockValidationService struct {
	report    *domain.ValidationReport
	err       error
	annotated string
}

func (m *mockValidationService) Validate(_ context.Context, _ string, strict bool) (*domain.ValidationReport, error) {
	report := m.report
	if report == nil {
		report = &domain.ValidationReport{Sourced: 1, Strict: strict}
	}
	return report, m.err
}

func (m *mockValidationService) Annotate(_ context.Context, text string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	if m.annotated != "" {
		return m.annotated, nil
	}
	return text, nil
}

type mockLiteratureService struct {
	refs []domain.Reference
	err  error
}

func (m *mockLiteratureService) Search(_ context.Context, _ string, _ int) ([]domain.Reference, error) {
	return m.refs, m.err
}

// setupTestServices installs mock services and returns a cleanup that
// restores the previous wiring.
func setupTestServices() func() {
	oldIngest := ingestService
	oldRetrieval := retrievalService
	oldValidation := validationService
	oldLiterature := literatureService
	oldSave := saveIndex
	oldReady := servicesReady

	ingestService = &mockIngestService{}
	retrievalService = &mockRetrievalService{evidence: domain.EvidenceSet{
		{ChunkID: "doc1:0", Relevance: 0.9, MMRScore: 0.9},
	}}
	validationService = &mockValidationService{}
	literatureService = &mockLiteratureService{refs: []domain.Reference{
		{ID: "10.1000/182", Title: "A Title", Year: 2019, Journal: "A Journal"},
	}}
	saveIndex = func() error { return nil }
	servicesReady = true

	return func() {
		ingestService = oldIngest
		retrievalService = oldRetrieval
		validationService = oldValidation
		literatureService = oldLiterature
		saveIndex = oldSave
		servicesReady = oldReady
	}
}

// execute runs the root command with args and captures combined output.
func execute(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

var errBoom = errors.New("boom")
