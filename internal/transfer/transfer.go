// Package transfer moves the whole catalog to and from a CSV file.
package transfer

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	applog "github.com/mesh-intelligence/livraria/internal/log"
	"github.com/mesh-intelligence/livraria/pkg/types"
)

// Catalog is the subset of the repository that bulk transfer needs.
type Catalog interface {
	List(ctx context.Context) ([]types.Book, error)
	AddMany(ctx context.Context, books []types.Book) ([]int64, error)
}

// Transfer exports to and imports from a single fixed-path CSV file.
type Transfer struct {
	catalog Catalog
	path    string
	log     *slog.Logger
}

// New creates a Transfer that exports to and imports from the CSV file at
// path. The parent directory is created on export.
func New(catalog Catalog, path string) *Transfer {
	return &Transfer{
		catalog: catalog,
		path:    path,
		log:     applog.WithComponent("transfer"),
	}
}

// Path returns the export file path.
func (t *Transfer) Path() string { return t.path }

// Export writes every book to the export file, replacing any previous
// export, and returns the number of rows written.
func (t *Transfer) Export(ctx context.Context) (int, error) {
	books, err := t.catalog.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("export: %w", err)
	}
	if err := writeFileAtomic(t.path, books); err != nil {
		return 0, fmt.Errorf("%w: export: %v", types.ErrIO, err)
	}
	t.log.Info("catalog exported", slog.String("path", t.path), slog.Int("rows", len(books)))
	return len(books), nil
}

// Import appends every row of the export file as a new book and returns the
// number of rows inserted. Original ids are discarded. The whole file is
// decoded before anything is written, and rows are inserted in a single
// transaction, so a malformed row leaves the catalog unchanged.
func (t *Transfer) Import(ctx context.Context) (int, error) {
	f, err := os.Open(t.path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, fmt.Errorf("%w: import file %s", types.ErrNotFound, t.path)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: import: %v", types.ErrIO, err)
	}
	defer f.Close()

	books, err := ReadCSV(bufio.NewReader(f))
	if err != nil {
		return 0, fmt.Errorf("import %s: %w", t.path, err)
	}
	ids, err := t.catalog.AddMany(ctx, books)
	if err != nil {
		return 0, fmt.Errorf("import: %w", err)
	}
	t.log.Info("catalog imported", slog.String("path", t.path), slog.Int("rows", len(ids)))
	return len(ids), nil
}

// writeFileAtomic writes the CSV to a temp file in the target directory,
// syncs it, and renames it over path.
func writeFileAtomic(path string, books []types.Book) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating export dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".export-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	w := bufio.NewWriter(tmp)
	if err := WriteCSV(w, books); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing rows: %w", err)
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
