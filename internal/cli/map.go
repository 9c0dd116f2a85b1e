package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/repomap/internal/config"
	"github.com/mvp-joe/repomap/internal/repomap"
)

var (
	focusFiles     []string
	mentionIdents  []string
	mentionFiles   []string
	tokenBudget    int
	outputPath     string
	noCache        bool
	estimateTokens bool
)

func init() {
	rootCmd.Flags().StringSliceVarP(&focusFiles, "focus", "f", nil, "focus files, always fully included (repeatable)")
	rootCmd.Flags().StringSliceVarP(&mentionIdents, "mention", "m", nil, "identifiers to boost in ranking (repeatable)")
	rootCmd.Flags().StringSliceVar(&mentionFiles, "mention-file", nil, "files to boost in ranking without forcing inclusion (repeatable)")
	rootCmd.Flags().IntVarP(&tokenBudget, "tokens", "t", 0, "token budget per part (default from config)")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "write map to file instead of stdout")
	rootCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the persistent tag cache")
	rootCmd.Flags().BoolVar(&estimateTokens, "estimate", false, "use the fast approximate token counter")
}

func runMap(cmd *cobra.Command, args []string) error {
	cfg, err := config.NewLoader(rootDir).Load()
	if err != nil {
		return err
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if estimateTokens {
		cfg.Map.Estimate = true
	}

	rm, err := repomap.New(rootDir, cfg)
	if err != nil {
		return err
	}
	defer rm.Close()

	reporter := newProgressReporter(quiet)
	plan, err := rm.Generate(cmd.Context(), repomap.Request{
		Focus:           focusFiles,
		MentionedIdents: mentionIdents,
		MentionedFiles:  mentionFiles,
		TokenBudget:     tokenBudget,
		Progress:        reporter.onFile,
	})
	reporter.finish()
	if err != nil {
		return err
	}

	var b strings.Builder
	for i, part := range plan.Parts {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(part.Text)
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, []byte(b.String()), 0o644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if !quiet {
			fmt.Fprintf(os.Stderr, "Wrote %d part(s), %d tag(s) to %s\n", len(plan.Parts), plan.IncludedTags, outputPath)
		}
		return nil
	}

	fmt.Print(b.String())
	return nil
}
