// Package cli implements the repomap command-line surface.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	rootDir string
	quiet   bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "repomap",
	Short: "Generate a ranked map of a code repository",
	Long: `Repomap builds a compact, relevance-ranked textual map of a repository.

It extracts symbol definitions and references per file, ranks files by
cross-file importance using a personalized random walk, and renders the
top-ranked signatures within a token budget.`,
	RunE:          runMap,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// ExecuteContext adds all child commands to the root command and runs it.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootDir, "root", "r", ".", "repository root directory")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress progress output")
}
