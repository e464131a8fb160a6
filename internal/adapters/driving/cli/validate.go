package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/veracite-labs/veracite-cli/internal/core/domain"
)

var (
	validateStrict   bool
	validateAnnotate bool
	validateOutput   string
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check citation coverage of generated text",
	Long: `Classifies every paragraph of the given text as sourced or
unsourced against the indexed chunks and stored references.

A paragraph is sourced when at least one [SRC:<chunk_id>] or
[REF:<ref_id>] marker resolves to a known id. Markers referencing
unknown ids are reported as dangling. With --strict any unsourced
paragraph or dangling citation fails the command; with --annotate the
unsourced paragraphs are tagged in place instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "fail on any unsourced paragraph or dangling citation")
	validateCmd.Flags().BoolVar(&validateAnnotate, "annotate", false, "write annotated text with inference tags")
	validateCmd.Flags().StringVarP(&validateOutput, "output", "o", "", "write annotated text to this file (default stdout)")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	if validationService == nil {
		return errors.New("validation service not configured")
	}

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}
	text := string(raw)
	ctx := context.Background()

	if validateAnnotate {
		annotated, err := validationService.Annotate(ctx, text)
		if err != nil {
			return fmt.Errorf("annotation failed: %w", err)
		}
		if validateOutput != "" {
			if err := os.WriteFile(validateOutput, []byte(annotated), 0600); err != nil {
				return fmt.Errorf("writing %s: %w", validateOutput, err)
			}
			cmd.Printf("Annotated text written to %s\n", validateOutput)
			return nil
		}
		cmd.Println(annotated)
		return nil
	}

	strict := validateStrict || appSettings.Strict
	report, err := validationService.Validate(ctx, text, strict)
	if report != nil {
		printReport(cmd, report)
	}
	if err != nil {
		var covErr *domain.CoverageError
		if errors.As(err, &covErr) {
			return fmt.Errorf("citation coverage check failed: %d unsourced, %d dangling",
				covErr.Report.Unsourced, len(covErr.Report.Dangling))
		}
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

func printReport(cmd *cobra.Command, report *domain.ValidationReport) {
	cmd.Println(report.Summary())

	for i, v := range report.Verdicts {
		if v.Class == domain.ClassSourced {
			continue
		}
		cmd.Printf("  paragraph %d unsourced: %s\n", i+1, snippet(v.Text, 60))
	}
	for _, d := range report.Dangling {
		cmd.Printf("  dangling %s in paragraph %d\n", d.Marker, d.Paragraph+1)
	}
}

// snippet truncates s for single-line display.
func snippet(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
