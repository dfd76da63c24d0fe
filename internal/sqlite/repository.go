// Package sqlite implements the catalog store on a local SQLite file.
// Every Repository call opens its own connection and closes it before
// returning; no connection outlives an operation.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	applog "github.com/mesh-intelligence/livraria/internal/log"
)

// Hook runs after a mutating operation has committed.
type Hook func(ctx context.Context) error

// Repository performs catalog operations against the SQLite file at path.
type Repository struct {
	path       string
	afterWrite Hook
	log        *slog.Logger
}

// Option configures a Repository.
type Option func(*Repository)

// WithAfterWrite installs h to run after every committed add, price update,
// delete, and batch insert.
func WithAfterWrite(h Hook) Option {
	return func(r *Repository) { r.afterWrite = h }
}

// NewRepository creates a Repository for the store file at path. The file is
// not touched until the first call.
func NewRepository(path string, opts ...Option) *Repository {
	r := &Repository{
		path: path,
		log:  applog.WithComponent("sqlite"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Path returns the store file path.
func (r *Repository) Path() string { return r.path }

// EnsureSchema creates the store directory and the livros table if absent.
// Safe to call on every startup.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	return r.withDB(ctx, func(db *sql.DB) error {
		for _, ddl := range schemaDDL {
			if _, err := db.ExecContext(ctx, ddl); err != nil {
				return fmt.Errorf("apply schema: %w", err)
			}
		}
		return nil
	})
}

// withDB opens the store, runs fn, and closes the store. A close error is
// reported only when fn succeeded.
func (r *Repository) withDB(ctx context.Context, fn func(db *sql.DB) error) (err error) {
	db, err := sql.Open("sqlite", storeDSN(r.path))
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	db.SetMaxOpenConns(1)
	defer func() {
		if cerr := db.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close store: %w", cerr)
		}
	}()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	return fn(db)
}

// storeDSN returns the file: URI for path with the path escaped, so '?' and
// '#' in directory names stay part of the path.
func storeDSN(path string) string {
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	u := url.URL{Scheme: "file", Path: p, RawQuery: "_pragma=busy_timeout(5000)"}
	return u.String()
}

// committed runs the after-write hook, if any.
func (r *Repository) committed(ctx context.Context, op string) error {
	if r.afterWrite == nil {
		return nil
	}
	if err := r.afterWrite(ctx); err != nil {
		r.log.Error("after-write hook failed", slog.String("op", op), slog.Any("err", err))
		return fmt.Errorf("%s: after write: %w", op, err)
	}
	return nil
}
