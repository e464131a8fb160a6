package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/veracite-labs/veracite-cli/internal/core/domain"
	"github.com/veracite-labs/veracite-cli/internal/core/ports/driving"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file...]",
	Short: "Chunk, embed and index documents",
	Long: `Reads plain-text documents, splits them into sentence-bounded
chunks and indexes the chunk embeddings locally.

Form feed characters (\f) in the input are treated as page breaks and
recorded so retrieved chunks can cite a page number. Re-ingesting a
file supersedes its previous version under a fresh document id.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	inputs := make([]driving.IngestInput, 0, len(args))
	for _, path := range args {
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		content, offsets := splitPages(string(raw))
		inputs = append(inputs, driving.IngestInput{
			SourcePath:  path,
			Content:     content,
			PageOffsets: offsets,
		})
	}

	result, err := ingestService.Ingest(context.Background(), inputs)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	failed := 0
	for _, doc := range result.Documents {
		if doc.Err != nil {
			failed++
			cmd.PrintErrf("✗ %s: %v\n", doc.SourcePath, doc.Err)
			continue
		}
		cmd.Printf("✓ %s: %d chunk(s) (document %s)\n", doc.SourcePath, doc.Chunks, doc.DocumentID)
	}
	cmd.Printf("\nIndexed %d chunk(s) from %d document(s)\n",
		result.ChunksIndexed, len(result.Documents)-failed)

	if saveIndex != nil {
		if err := saveIndex(); err != nil {
			return fmt.Errorf("saving vector index: %w", err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d document(s) failed", failed)
	}
	return nil
}

// splitPages turns form-feed page breaks into page offset markers. The
// form feeds are replaced by newlines so they never land inside chunk
// text. Input without form feeds gets no page structure.
func splitPages(raw string) (string, []domain.PageOffset) {
	if !strings.ContainsRune(raw, '\f') {
		return raw, nil
	}

	var (
		b       strings.Builder
		offsets []domain.PageOffset
		page    = 1
	)
	offsets = append(offsets, domain.PageOffset{Offset: 0, Page: page})
	for _, r := range raw {
		if r == '\f' {
			b.WriteRune('\n')
			page++
			offsets = append(offsets, domain.PageOffset{Offset: b.Len(), Page: page})
			continue
		}
		b.WriteRune(r)
	}
	return b.String(), offsets
}
