package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var wipeForce bool

var wipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Destroy all indexed documents, chunks and vectors",
	Long: `Removes every document, chunk and stored embedding. This is the
only way indexed content is ever destroyed; ingestion always supersedes
rather than deletes. Requires --force.`,
	RunE: runWipe,
}

func init() {
	wipeCmd.Flags().BoolVar(&wipeForce, "force", false, "confirm destruction of all indexed data")
	rootCmd.AddCommand(wipeCmd)
}

func runWipe(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}
	if !wipeForce {
		return errors.New("refusing to wipe without --force")
	}

	if err := ingestService.Wipe(context.Background()); err != nil {
		return fmt.Errorf("wipe failed: %w", err)
	}

	if saveIndex != nil {
		if err := saveIndex(); err != nil {
			return fmt.Errorf("saving vector index: %w", err)
		}
	}

	cmd.Println("Index wiped.")
	return nil
}
