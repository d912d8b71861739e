package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/dotpages/clrdoc/internal/index"
	"github.com/dotpages/clrdoc/internal/xmldoc"
)

var assembliesCmd = &cobra.Command{
	Use:   "assemblies",
	Short: "List added assemblies",
	Run:   runAssemblies,
}

func init() {
	rootCmd.AddCommand(assembliesCmd)
}

func runAssemblies(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	db, err := index.Open(cfg.Index.Path)
	if err != nil {
		log.Fatalf("failed to open index: %v", err)
	}
	defer db.Close()

	assemblies, err := db.Assemblies()
	if err != nil {
		log.Fatalf("failed to list assemblies: %v", err)
	}
	if len(assemblies) == 0 {
		fmt.Println("no assemblies added; run `clrdoc add <file.xml>` first")
		return
	}

	for _, a := range assemblies {
		status := ""
		if !xmldoc.HasDocCache(a.Name) {
			status = "  (cache missing, re-add the file)"
		}
		fmt.Printf("%s  %d members  added %s%s\n",
			a.Name, a.MemberCount, a.AddedAt.Format("2006-01-02"), status)
	}
}
