// Package workspace wires the loaded documentation stores, the resolution
// pipeline and the member index together for one run of the tool.
package workspace

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/beevik/etree"
	"golang.org/x/sync/errgroup"

	"github.com/dotpages/clrdoc/internal/config"
	"github.com/dotpages/clrdoc/internal/index"
	"github.com/dotpages/clrdoc/internal/render"
	"github.com/dotpages/clrdoc/internal/resolve"
	"github.com/dotpages/clrdoc/internal/xmldoc"
)

// Workspace holds every cached assembly's documentation store plus the
// lookup pipeline and search index over them. Build one per run.
type Workspace struct {
	Config *config.Config
	DB     *index.DB

	assemblies []string
	stores     map[string]*xmldoc.Store
	lookup     resolve.Lookup
}

// Open loads every cached assembly and composes the lookup pipeline. report
// may be nil to disable missing-documentation diagnostics.
func Open(cfg *config.Config, report resolve.ReportFunc) (*Workspace, error) {
	db, err := index.Open(cfg.Index.Path)
	if err != nil {
		return nil, fmt.Errorf("opening index: %w", err)
	}

	names, err := xmldoc.CachedAssemblies()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("listing cached assemblies: %w", err)
	}

	stores := make(map[string]*xmldoc.Store, len(names))
	ordered := make([]*xmldoc.Store, 0, len(names))
	for _, name := range names {
		store, err := xmldoc.LoadDocCache(name)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("loading cached assembly %s: %w", name, err)
		}
		stores[name] = store
		ordered = append(ordered, store)
	}

	resolver := resolve.NewTableResolver(cfg.Commands, ordered...)
	lookup := resolve.NewPipeline(
		resolve.StoreSetLookup{Stores: ordered},
		resolver,
		cfg.Lookup.CacheSize,
		report,
	)

	return &Workspace{
		Config:     cfg,
		DB:         db,
		assemblies: names,
		stores:     stores,
		lookup:     lookup,
	}, nil
}

func (w *Workspace) Close() error {
	return w.DB.Close()
}

// Assemblies returns the names of the loaded assemblies, sorted.
func (w *Workspace) Assemblies() []string { return w.assemblies }

// Store returns the documentation store for one assembly.
func (w *Workspace) Store(assembly string) (*xmldoc.Store, bool) {
	s, ok := w.stores[assembly]
	return s, ok
}

// Comments resolves an identifier through the full pipeline.
func (w *Workspace) Comments(id, subject string) (*etree.Element, error) {
	return w.lookup.Comments(resolve.Target{ID: id, Subject: subject})
}

// AddResult describes one documentation file added to the workspace.
type AddResult struct {
	Path     string
	Assembly string
	Members  int
}

// AddFiles validates, caches and indexes documentation files. Files are
// processed concurrently; the first failure aborts the batch.
func AddFiles(ctx context.Context, db *index.DB, paths []string) ([]AddResult, error) {
	results := make([]AddResult, len(paths))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := addFile(db, path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			mu.Lock()
			results[i] = res
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func addFile(db *index.DB, path string) (AddResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return AddResult{}, fmt.Errorf("reading file: %w", err)
	}

	store, err := xmldoc.Parse(data)
	if err != nil {
		return AddResult{}, err
	}

	if err := xmldoc.SaveDocCache(data, store.Assembly()); err != nil {
		return AddResult{}, err
	}

	members := make([]index.Member, 0, store.Len())
	for _, id := range store.Identifiers() {
		summary := ""
		if frag, ok := store.Get(id); ok {
			if s := frag.SelectElement("summary"); s != nil {
				summary = render.Text(s)
			}
		}
		members = append(members, index.NewMember(id, summary))
	}

	if err := db.ReplaceAssembly(store.Assembly(), members); err != nil {
		return AddResult{}, err
	}

	return AddResult{Path: path, Assembly: store.Assembly(), Members: len(members)}, nil
}
