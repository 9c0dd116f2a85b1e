package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/repomap/internal/config"
	"github.com/mvp-joe/repomap/internal/repomap"
)

var clearCache bool

// cacheCmd inspects and manages the persistent tag cache.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the tag cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.NewLoader(rootDir).Load()
		if err != nil {
			return err
		}
		cfg.Cache.Enabled = true

		rm, err := repomap.New(rootDir, cfg)
		if err != nil {
			return err
		}
		defer rm.Close()

		if clearCache {
			if err := rm.ClearCache(); err != nil {
				return err
			}
			fmt.Println("Cache cleared")
			return nil
		}

		entries, sizeBytes, err := rm.CacheStats()
		if err != nil {
			return err
		}
		fmt.Printf("Entries: %d\n", entries)
		fmt.Printf("Size: %.1f KB\n", float64(sizeBytes)/1024)
		return nil
	},
}

func init() {
	cacheCmd.Flags().BoolVar(&clearCache, "clear", false, "remove all cached entries")
	rootCmd.AddCommand(cacheCmd)
}
