package cmd

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/dotpages/clrdoc/internal/config"
	"github.com/dotpages/clrdoc/internal/resolve"
	"github.com/dotpages/clrdoc/internal/workspace"
)

var rootCmd = &cobra.Command{
	Use:   "clrdoc",
	Short: "Browse, search and serve .NET XML documentation",
	Long: `clrdoc loads .NET XML documentation files, resolves canonical
doc-comment identifiers (T:, M:, P:, F:, E:) to documentation fragments,
and serves them from the command line or over MCP.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("command failed: %v", err)
	}
}

func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func openWorkspace(cfg *config.Config, report resolve.ReportFunc) *workspace.Workspace {
	ws, err := workspace.Open(cfg, report)
	if err != nil {
		log.Fatalf("failed to open workspace: %v", err)
	}
	return ws
}
