package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dotpages/clrdoc/internal/xmldoc"
)

var clearCacheCmd = &cobra.Command{
	Use:   "clear-cache",
	Short: "Remove cached documentation files and the member index",
	Run:   runClearCache,
}

func init() {
	rootCmd.AddCommand(clearCacheCmd)
}

func runClearCache(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	if err := xmldoc.ClearDocCache(); err != nil {
		slog.Error("failed to clear doc cache", "error", err)
		os.Exit(1)
	}
	if err := os.Remove(cfg.Index.Path); err != nil && !os.IsNotExist(err) {
		slog.Error("failed to remove index", "error", err)
		os.Exit(1)
	}
	fmt.Println("cache cleared")
}
