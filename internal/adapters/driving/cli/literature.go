package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/veracite-labs/veracite-cli/internal/core/domain"
)

var (
	literatureMax  int
	literatureJSON bool
)

var literatureCmd = &cobra.Command{
	Use:   "literature [query]",
	Short: "Search external literature metadata",
	Long: `Queries the literature metadata provider with allow-listed
keywords only.

The query is sanitised against the configured keyword allow-list and
shown for confirmation before anything leaves this machine. Only
bibliographic metadata is fetched, never full text. Returned records
are stored so [REF:<id>] markers resolve during validation.`,
	Args: cobra.ExactArgs(1),
	RunE: runLiterature,
}

func init() {
	literatureCmd.Flags().IntVarP(&literatureMax, "max", "n", 10, "maximum number of results")
	literatureCmd.Flags().BoolVar(&literatureJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(literatureCmd)
}

func runLiterature(cmd *cobra.Command, args []string) error {
	if literatureService == nil {
		return errors.New("literature service not configured")
	}

	refs, err := literatureService.Search(context.Background(), args[0], literatureMax)
	if err != nil {
		if errors.Is(err, domain.ErrDisallowedContent) {
			return fmt.Errorf("query rejected by sanitizer: %w", err)
		}
		return fmt.Errorf("literature search failed: %w", err)
	}

	if literatureJSON {
		data, err := json.MarshalIndent(refs, "", "  ")
		if err != nil {
			return fmt.Errorf("marshalling references: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(refs) == 0 {
		cmd.Println("No references found.")
		return nil
	}

	cmd.Println("References:")
	for _, ref := range refs {
		cmd.Printf("  [REF:%s]\n", ref.ID)
		cmd.Printf("    %s", ref.Title)
		if ref.Year > 0 {
			cmd.Printf(" (%d)", ref.Year)
		}
		cmd.Println()
		if ref.Journal != "" {
			cmd.Printf("    %s\n", ref.Journal)
		}
	}
	return nil
}
