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
	retrieveTopK   int
	retrieveLambda float64
	retrieveFetchK int
	retrieveJSON   bool
)

var retrieveCmd = &cobra.Command{
	Use:   "retrieve [query]",
	Short: "Retrieve evidence chunks for a query",
	Long: `Embeds the query and selects a diverse evidence set from the
local vector index using Maximal Marginal Relevance re-ranking.

Lambda steers the relevance/diversity trade-off: 1 is pure relevance,
0 is maximal diversity after the first pick.`,
	Args: cobra.ExactArgs(1),
	RunE: runRetrieve,
}

func init() {
	retrieveCmd.Flags().IntVarP(&retrieveTopK, "top-k", "k", 0, "number of evidence chunks (default from config)")
	retrieveCmd.Flags().Float64Var(&retrieveLambda, "lambda", -1, "MMR trade-off in [0,1] (default from config)")
	retrieveCmd.Flags().IntVar(&retrieveFetchK, "fetch-k", 0, "candidate pool size (default 4*top-k)")
	retrieveCmd.Flags().BoolVar(&retrieveJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(retrieveCmd)
}

func runRetrieve(cmd *cobra.Command, args []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	lambda := retrieveLambda
	if !cmd.Flags().Changed("lambda") {
		lambda = appSettings.Lambda
	}

	evidence, err := retrievalService.Retrieve(context.Background(), args[0], domain.RetrievalOptions{
		TopK:   retrieveTopK,
		Lambda: lambda,
		FetchK: retrieveFetchK,
	})
	if err != nil {
		return fmt.Errorf("retrieval failed: %w", err)
	}

	if retrieveJSON {
		data, err := json.MarshalIndent(evidence, "", "  ")
		if err != nil {
			return fmt.Errorf("marshalling evidence: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(evidence) == 0 {
		cmd.Println("No evidence found.")
		return nil
	}

	cmd.Println("Evidence:")
	for i, e := range evidence {
		cmd.Printf("  [%d] %s  relevance=%.4f  mmr=%.4f\n", i+1, e.ChunkID, e.Relevance, e.MMRScore)
	}
	return nil
}
