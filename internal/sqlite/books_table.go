package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/mesh-intelligence/livraria/pkg/types"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner) (types.Book, error) {
	var (
		b     types.Book
		year  sql.NullInt64
		price sql.NullFloat64
	)
	if err := row.Scan(&b.ID, &b.Title, &b.Author, &year, &price); err != nil {
		return types.Book{}, fmt.Errorf("scanning book: %w", err)
	}
	if year.Valid {
		y := int(year.Int64)
		b.PublicationYear = &y
	}
	if price.Valid {
		p := price.Float64
		b.Price = &p
	}
	return b, nil
}

// bookArgs returns the INSERT arguments for b, mapping absent fields to NULL.
func bookArgs(b types.Book) []any {
	var year, price any
	if b.PublicationYear != nil {
		year = *b.PublicationYear
	}
	if b.Price != nil {
		price = *b.Price
	}
	return []any{b.Title, b.Author, year, price}
}

// Add inserts b and returns the id the store assigned. Title and author are
// required. b.ID is ignored.
func (r *Repository) Add(ctx context.Context, b types.Book) (int64, error) {
	if err := b.Validate(); err != nil {
		return 0, err
	}
	var id int64
	err := r.withDB(ctx, func(db *sql.DB) error {
		res, err := db.ExecContext(ctx, insertBookSQL, bookArgs(b)...)
		if err != nil {
			return fmt.Errorf("insert book: %w", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("insert book: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	r.log.Debug("book added", slog.Int64("id", id))
	return id, r.committed(ctx, "add book")
}

// AddMany validates every book, then inserts them all in one transaction.
// Either every row is committed or none is. The after-write hook runs once.
func (r *Repository) AddMany(ctx context.Context, books []types.Book) ([]int64, error) {
	for i, b := range books {
		if err := b.Validate(); err != nil {
			return nil, fmt.Errorf("book %d: %w", i+1, err)
		}
	}
	ids := make([]int64, 0, len(books))
	err := r.withDB(ctx, func(db *sql.DB) error {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin batch insert: %w", err)
		}
		defer tx.Rollback()

		stmt, err := tx.PrepareContext(ctx, insertBookSQL)
		if err != nil {
			return fmt.Errorf("prepare batch insert: %w", err)
		}
		defer stmt.Close()

		for i, b := range books {
			res, err := stmt.ExecContext(ctx, bookArgs(b)...)
			if err != nil {
				return fmt.Errorf("insert book %d: %w", i+1, err)
			}
			id, err := res.LastInsertId()
			if err != nil {
				return fmt.Errorf("insert book %d: %w", i+1, err)
			}
			ids = append(ids, id)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit batch insert: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	r.log.Debug("books added", slog.Int("count", len(ids)))
	return ids, r.committed(ctx, "add books")
}

// List returns every book in id order. The result is never nil.
func (r *Repository) List(ctx context.Context) ([]types.Book, error) {
	return r.query(ctx, selectBooksSQL)
}

// SearchByAuthor returns books whose author contains substring, using the
// store's LIKE semantics (ASCII case-insensitive; % and _ are wildcards).
func (r *Repository) SearchByAuthor(ctx context.Context, substring string) ([]types.Book, error) {
	return r.query(ctx, searchAuthorSQL, "%"+substring+"%")
}

func (r *Repository) query(ctx context.Context, q string, args ...any) ([]types.Book, error) {
	books := []types.Book{}
	err := r.withDB(ctx, func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, q, args...)
		if err != nil {
			return fmt.Errorf("query books: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			b, err := scanBook(rows)
			if err != nil {
				return err
			}
			books = append(books, b)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return books, nil
}

// UpdatePrice sets the price of book id. A missing id is not an error.
func (r *Repository) UpdatePrice(ctx context.Context, id int64, price float64) error {
	err := r.withDB(ctx, func(db *sql.DB) error {
		res, err := db.ExecContext(ctx, updatePriceSQL, price, id)
		if err != nil {
			return fmt.Errorf("update price: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			r.log.Debug("update price matched no rows", slog.Int64("id", id))
		}
		return nil
	})
	if err != nil {
		return err
	}
	return r.committed(ctx, "update price")
}

// Delete removes book id. A missing id is not an error.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	err := r.withDB(ctx, func(db *sql.DB) error {
		res, err := db.ExecContext(ctx, deleteBookSQL, id)
		if err != nil {
			return fmt.Errorf("delete book: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			r.log.Debug("delete matched no rows", slog.Int64("id", id))
		}
		return nil
	})
	if err != nil {
		return err
	}
	return r.committed(ctx, "delete book")
}

// Count returns the number of books in the store.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.withDB(ctx, func(db *sql.DB) error {
		if err := db.QueryRowContext(ctx, countBooksSQL).Scan(&n); err != nil {
			return fmt.Errorf("count books: %w", err)
		}
		return nil
	})
	return n, err
}
