package transfer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/livraria/pkg/types"
)

// header is the first line of every export file.
var header = []string{"ID", "Título", "Autor", "Ano de Publicação", "Preço"}

// CSV column positions.
const (
	colID = iota
	colTitle
	colAuthor
	colYear
	colPrice
	numColumns
)

// ParseError reports a row that could not be decoded. Line is the 1-based
// record number with the header as record 1; Column is 1-based (0 when the
// whole row is malformed).
type ParseError struct {
	Line   int
	Column int
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Column == 0 {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d, column %d (%q): %v", e.Line, e.Column, e.Value, e.Err)
}

// Unwrap lets errors.Is match both ErrParse and the underlying cause.
func (e *ParseError) Unwrap() []error { return []error{types.ErrParse, e.Err} }

// WriteCSV writes the header and one row per book. Absent year or price is
// written as an empty field.
func WriteCSV(w io.Writer, books []types.Book) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, b := range books {
		row := make([]string, numColumns)
		row[colID] = strconv.FormatInt(b.ID, 10)
		row[colTitle] = b.Title
		row[colAuthor] = b.Author
		if b.PublicationYear != nil {
			row[colYear] = strconv.Itoa(*b.PublicationYear)
		}
		if b.Price != nil {
			row[colPrice] = strconv.FormatFloat(*b.Price, 'f', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV skips the first line and decodes every following row. The id
// column is read but discarded; returned books carry ID 0. Any malformed
// row aborts decoding with a *ParseError.
func ReadCSV(r io.Reader) ([]types.Book, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	books := []types.Book{}
	line := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return books, nil
		}
		line++
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				return nil, &ParseError{Line: perr.Line, Err: perr.Err}
			}
			return nil, fmt.Errorf("%w: read csv: %v", types.ErrIO, err)
		}
		if line == 1 {
			continue
		}
		b, err := decodeRow(line, rec)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
}

func decodeRow(line int, rec []string) (types.Book, error) {
	if len(rec) != numColumns {
		return types.Book{}, &ParseError{
			Line: line,
			Err:  fmt.Errorf("expected %d columns, got %d", numColumns, len(rec)),
		}
	}
	b := types.Book{Title: rec[colTitle], Author: rec[colAuthor]}

	if v := strings.TrimSpace(rec[colYear]); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return types.Book{}, &ParseError{Line: line, Column: colYear + 1, Value: rec[colYear], Err: errors.New("year is not an integer")}
		}
		b.PublicationYear = types.IntPtr(year)
	}
	if v := strings.TrimSpace(rec[colPrice]); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return types.Book{}, &ParseError{Line: line, Column: colPrice + 1, Value: rec[colPrice], Err: errors.New("price is not a number")}
		}
		b.Price = types.FloatPtr(price)
	}
	return b, nil
}
