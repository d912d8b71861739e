package workspace

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/dotpages/clrdoc/internal/config"
	"github.com/dotpages/clrdoc/internal/index"
	"github.com/dotpages/clrdoc/internal/render"
	"github.com/dotpages/clrdoc/internal/resolve"
)

const widgetsDoc = `<?xml version="1.0"?>
<doc>
  <assembly><name>Acme.Widgets</name></assembly>
  <members>
    <member name="T:Acme.Widgets.GetWidgetCommand">
      <summary>Retrieves widgets. Pairs with <see cref="T:Acme.Widgets.Widget"/>.</summary>
    </member>
    <member name="T:Acme.Widgets.Widget">
      <summary>A widget, produced by <see cref="T:Acme.Widgets.GetWidgetCommand"/>.</summary>
    </member>
  </members>
</doc>`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Index: config.IndexConfig{Path: filepath.Join(t.TempDir(), "index.db")},
		Lookup: config.LookupConfig{
			CacheSize: 64,
		},
		Commands: map[string]string{
			"T:Acme.Widgets.GetWidgetCommand": "Get-Widget",
		},
	}
}

func writeDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.xml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestAddFilesAndLookup(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	cfg := testConfig(t)

	db, err := index.Open(cfg.Index.Path)
	if err != nil {
		t.Fatalf("index.Open: %v", err)
	}
	results, err := AddFiles(context.Background(), db, []string{writeDoc(t, widgetsDoc)})
	if err != nil {
		t.Fatalf("AddFiles: %v", err)
	}
	db.Close()

	if len(results) != 1 || results[0].Assembly != "Acme.Widgets" || results[0].Members != 2 {
		t.Fatalf("unexpected results: %+v", results)
	}

	var (
		mu      sync.Mutex
		missing []resolve.Target
	)
	ws, err := Open(cfg, func(target resolve.Target) {
		mu.Lock()
		missing = append(missing, target)
		mu.Unlock()
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer ws.Close()

	if got := ws.Assemblies(); len(got) != 1 || got[0] != "Acme.Widgets" {
		t.Fatalf("Assemblies() = %v", got)
	}

	// Cross-reference to a configured command renders as Verb-Noun.
	frag, err := ws.Comments("T:Acme.Widgets.Widget", "type Widget")
	if err != nil {
		t.Fatalf("Comments: %v", err)
	}
	if frag == nil {
		t.Fatal("expected a fragment")
	}
	text := render.Text(frag.SelectElement("summary"))
	if want := "A widget, produced by Get-Widget."; text != want {
		t.Errorf("got %q, want %q", text, want)
	}

	// Cross-reference to a plain type renders as its simple name.
	frag, err = ws.Comments("T:Acme.Widgets.GetWidgetCommand", "command Get-Widget")
	if err != nil {
		t.Fatalf("Comments: %v", err)
	}
	text = render.Text(frag.SelectElement("summary"))
	if want := "Retrieves widgets. Pairs with Widget."; text != want {
		t.Errorf("got %q, want %q", text, want)
	}

	// Missing member reports once.
	for i := 0; i < 3; i++ {
		frag, err := ws.Comments("T:Acme.Widgets.Nope", "type Nope")
		if err != nil || frag != nil {
			t.Fatalf("Comments(missing) = %v, %v", frag, err)
		}
	}
	mu.Lock()
	defer mu.Unlock()
	if len(missing) != 1 || missing[0].ID != "T:Acme.Widgets.Nope" {
		t.Errorf("unexpected missing reports: %+v", missing)
	}
}

func TestAddFilesRejectsMalformed(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	cfg := testConfig(t)

	db, err := index.Open(cfg.Index.Path)
	if err != nil {
		t.Fatalf("index.Open: %v", err)
	}
	defer db.Close()

	bad := writeDoc(t, `<doc><assembly><name>A</name></assembly><members><member><summary>no name</summary></member></members></doc>`)
	_, err = AddFiles(context.Background(), db, []string{bad})
	if err == nil {
		t.Fatal("AddFiles accepted a member without a name attribute")
	}
	if !strings.Contains(err.Error(), "name attribute") {
		t.Errorf("unexpected error: %v", err)
	}
}
