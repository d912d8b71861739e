package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/dotpages/clrdoc/internal/index"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search indexed members by identifier, name or summary",
	Example: `  clrdoc search Widget
  clrdoc search "display name" --limit 5`,
	Args: cobra.ExactArgs(1),
	Run:  runSearch,
}

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", 20, "maximum number of results")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	db, err := index.Open(cfg.Index.Path)
	if err != nil {
		log.Fatalf("failed to open index: %v", err)
	}
	defer db.Close()

	results, err := db.Search(args[0], searchLimit)
	if err != nil {
		log.Fatalf("search failed: %v", err)
	}
	if len(results) == 0 {
		fmt.Println("no matches")
		return
	}

	for _, r := range results {
		fmt.Printf("%s  (%s, %s)\n", r.DocID, r.Kind, r.Assembly)
		if r.Summary != "" {
			fmt.Printf("    %s\n", r.Summary)
		}
	}
}
