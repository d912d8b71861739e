package xmldoc

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dotpages/clrdoc/internal/config"
	"github.com/klauspost/compress/zstd"
)

const cacheExt = ".xml.zst"

func docCachePath(assembly string) string {
	return filepath.Join(config.DocCacheDir(), assembly+cacheExt)
}

// SaveDocCache compresses and saves raw documentation XML to disk so later
// runs can resolve against the assembly without the original file.
func SaveDocCache(data []byte, assembly string) error {
	dir := config.DocCacheDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating doc cache dir: %w", err)
	}

	f, err := os.Create(docCachePath(assembly))
	if err != nil {
		return fmt.Errorf("creating cache file: %w", err)
	}
	defer f.Close()

	w, err := zstd.NewWriter(f)
	if err != nil {
		return fmt.Errorf("creating zstd writer: %w", err)
	}

	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("writing compressed data: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing zstd writer: %w", err)
	}
	return nil
}

// LoadDocCache loads, decompresses and parses cached documentation XML.
func LoadDocCache(assembly string) (*Store, error) {
	f, err := os.Open(docCachePath(assembly))
	if err != nil {
		return nil, fmt.Errorf("opening cache file: %w", err)
	}
	defer f.Close()

	r, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("creating zstd reader: %w", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("decompressing cached documentation: %w", err)
	}
	return Parse(data)
}

// HasDocCache checks whether a cached documentation file exists on disk.
func HasDocCache(assembly string) bool {
	_, err := os.Stat(docCachePath(assembly))
	return err == nil
}

// CachedAssemblies lists the assemblies with a cached documentation file.
func CachedAssemblies() ([]string, error) {
	entries, err := os.ReadDir(config.DocCacheDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading doc cache dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), cacheExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), cacheExt))
	}
	sort.Strings(names)
	return names, nil
}

// ClearDocCache removes every cached documentation file.
func ClearDocCache() error {
	if err := os.RemoveAll(config.DocCacheDir()); err != nil {
		return fmt.Errorf("removing doc cache dir: %w", err)
	}
	return nil
}
