package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/veracite-labs/veracite-cli/internal/adapters/driven/confirm/terminal"
	configfile "github.com/veracite-labs/veracite-cli/internal/adapters/driven/config/file"
	"github.com/veracite-labs/veracite-cli/internal/adapters/driven/embedding/ollama"
	"github.com/veracite-labs/veracite-cli/internal/adapters/driven/literature/crossref"
	"github.com/veracite-labs/veracite-cli/internal/adapters/driven/storage/sqlite"
	"github.com/veracite-labs/veracite-cli/internal/adapters/driven/vector/flat"
	"github.com/veracite-labs/veracite-cli/internal/core/ports/driven"
	"github.com/veracite-labs/veracite-cli/internal/core/services"
	"github.com/veracite-labs/veracite-cli/internal/logger"
	"github.com/veracite-labs/veracite-cli/internal/postprocessors"
)

// wireServices builds the real adapter stack and the core services.
// Called once from the root command's PersistentPreRunE.
func wireServices() error {
	cfg, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	loadSettings(cfg)
	if err := appSettings.Validate(); err != nil {
		return fmt.Errorf("config %s: %w", cfg.Path(), err)
	}

	store, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("opening metadata store: %w", err)
	}
	docStore := store.DocumentStore()
	refStore := store.ReferenceStore()

	embedder := ollama.NewEmbeddingService(ollama.Config{
		BaseURL: cfg.GetString("embedding.base_url"),
		Model:   appSettings.EmbeddingModel,
	})

	index, indexPath, err := openVectorIndex(embedder.ModelName())
	if err != nil {
		return err
	}
	saveIndex = func() error {
		return index.Save(indexPath)
	}

	registry := postprocessors.NewDefaultRegistry()
	chunker, err := registry.Build("chunker", postprocessors.Config{
		"chunk_size": appSettings.ChunkSize,
		"overlap":    appSettings.Overlap,
	})
	if err != nil {
		return fmt.Errorf("building chunker: %w", err)
	}
	pipeline := postprocessors.NewPipeline(chunker)

	confirmOpts := []terminal.Option{}
	if autoApprove || !appSettings.GuardEnabled {
		confirmOpts = append(confirmOpts, terminal.WithAutoApprove())
	}
	confirmer := terminal.NewConfirmer(confirmOpts...)

	searcher := crossref.NewSearcher(crossref.Config{
		Mailto: cfg.GetString("literature.mailto"),
	})

	ingestService = services.NewIngestService(pipeline, embedder, index, docStore)
	retrievalService = services.NewRetrievalService(index, embedder, appSettings)
	validationService = services.NewValidationService(docStore, refStore)
	literatureService = services.NewLiteratureService(
		services.NewSanitizer(appSettings.AllowedKeywords), confirmer, searcher, refStore)

	servicesReady = true
	return nil
}

// loadSettings overlays configured values onto the defaults.
// Missing keys keep their default.
func loadSettings(cfg driven.ConfigStore) {
	if v := cfg.GetInt("chunking.chunk_size"); v > 0 {
		appSettings.ChunkSize = v
	}
	if _, ok := cfg.Get("chunking.overlap"); ok {
		appSettings.Overlap = cfg.GetInt("chunking.overlap")
	}
	if v := cfg.GetInt("retrieval.top_k"); v > 0 {
		appSettings.TopK = v
	}
	if _, ok := cfg.Get("retrieval.lambda"); ok {
		appSettings.Lambda = cfg.GetFloat("retrieval.lambda")
	}
	if _, ok := cfg.Get("validation.strict"); ok {
		appSettings.Strict = cfg.GetBool("validation.strict")
	}
	if _, ok := cfg.Get("guard.enabled"); ok {
		appSettings.GuardEnabled = cfg.GetBool("guard.enabled")
	}
	if v := cfg.GetString("embedding.model"); v != "" {
		appSettings.EmbeddingModel = v
	}
	if v := cfg.GetStringSlice("guard.allowed_keywords"); v != nil {
		appSettings.AllowedKeywords = v
	}
}

// openVectorIndex loads the persisted index or starts a fresh one.
// A model mismatch is fatal: silently mixing embeddings from two models
// would corrupt every similarity score.
func openVectorIndex(model string) (*flat.Index, string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, "", fmt.Errorf("getting home directory: %w", err)
	}
	path := filepath.Join(home, ".veracite", "data", "chunks.vcix")

	index, err := flat.Load(path, model)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Debug("No vector index at %s, starting empty", path)
			return flat.New(model), path, nil
		}
		return nil, "", fmt.Errorf("loading vector index: %w", err)
	}
	return index, path, nil
}
