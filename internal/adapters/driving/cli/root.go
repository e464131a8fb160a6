// Package cli implements the veracite command line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/veracite-labs/veracite-cli/internal/core/domain"
	"github.com/veracite-labs/veracite-cli/internal/core/ports/driving"
	"github.com/veracite-labs/veracite-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Persistent flags.
var (
	verbose     bool
	autoApprove bool
)

// Services are wired once on first command execution. Tests inject
// mocks and mark the wiring done.
var (
	ingestService     driving.IngestService
	retrievalService  driving.RetrievalService
	validationService driving.ValidationService
	literatureService driving.LiteratureService

	appSettings = domain.DefaultSettings()

	// saveIndex persists the vector index; set during wiring and
	// called after every mutating command.
	saveIndex func() error

	servicesReady bool
)

var rootCmd = &cobra.Command{
	Use:   "veracite",
	Short: "Retrieval and citation enforcement pipeline",
	Long: `Veracite ingests documents into a local vector index, retrieves
diverse evidence for queries, and enforces that generated text cites
its sources paragraph by paragraph.

All document content stays on this machine. The only outbound traffic
is the literature metadata search, which transmits nothing but
allow-listed keywords after explicit confirmation.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		if servicesReady || cmd.Name() == "version" {
			return nil
		}
		return wireServices()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&autoApprove, "yes", false, "approve outbound queries without prompting")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
