package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/dotpages/clrdoc/internal/index"
	"github.com/dotpages/clrdoc/internal/workspace"
)

var addCmd = &cobra.Command{
	Use:   "add <file.xml>...",
	Short: "Validate, cache and index documentation files",
	Example: `  clrdoc add ./bin/Release/Acme.Widgets.xml
  clrdoc add docs/*.xml`,
	Args: cobra.MinimumNArgs(1),
	Run:  runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	db, err := index.Open(cfg.Index.Path)
	if err != nil {
		log.Fatalf("failed to open index: %v", err)
	}
	defer db.Close()

	results, err := workspace.AddFiles(cmd.Context(), db, args)
	if err != nil {
		log.Fatalf("add failed: %v", err)
	}

	for _, r := range results {
		fmt.Printf("added %s (%d members) from %s\n", r.Assembly, r.Members, r.Path)
	}
}
