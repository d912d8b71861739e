package cmd

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dotpages/clrdoc/internal/render"
	"github.com/dotpages/clrdoc/internal/resolve"
)

var (
	lookupFormat      string
	lookupWarnMissing bool
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <identifier>",
	Short: "Resolve an identifier and print its documentation",
	Example: `  clrdoc lookup T:System.String
  clrdoc lookup "M:System.String.Substring(System.Int32)"
  clrdoc lookup P:Acme.Widgets.Widget.Name --format text`,
	Args: cobra.ExactArgs(1),
	Run:  runLookup,
}

func init() {
	lookupCmd.Flags().StringVar(&lookupFormat, "format", "markdown", "output format: markdown, text, xml, or html")
	lookupCmd.Flags().BoolVar(&lookupWarnMissing, "warn-missing", false, "log a warning when documentation is missing")
	rootCmd.AddCommand(lookupCmd)
}

func runLookup(cmd *cobra.Command, args []string) {
	id := args[0]
	cfg := loadConfig()

	var report resolve.ReportFunc
	if lookupWarnMissing || cfg.Lookup.WarnMissing {
		report = func(t resolve.Target) {
			slog.Warn("no documentation found", "subject", t.Subject, "identifier", t.ID)
		}
	}

	ws := openWorkspace(cfg, report)
	defer ws.Close()

	frag, err := ws.Comments(id, id)
	if err != nil {
		log.Fatalf("lookup failed: %v", err)
	}
	if frag == nil {
		fmt.Fprintf(os.Stderr, "no documentation for %s\n", id)
		os.Exit(1)
	}

	switch lookupFormat {
	case "markdown":
		fmt.Print(render.Markdown(frag))
	case "text":
		fmt.Println(render.Text(frag))
	case "xml":
		xml, err := render.XML(frag)
		if err != nil {
			log.Fatalf("serializing fragment: %v", err)
		}
		fmt.Print(xml)
	case "html":
		fmt.Print(render.HTML(frag))
	default:
		log.Fatalf("unknown format %q", lookupFormat)
	}
}
