package types

import (
	"fmt"
	"strconv"
	"strings"
)

// Book is a single catalog record.
type Book struct {
	ID              int64    `json:"id"`
	Title           string   `json:"title"`
	Author          string   `json:"author"`
	PublicationYear *int     `json:"publication_year,omitempty"`
	Price           *float64 `json:"price,omitempty"`
}

// Validate reports ErrValidation when a required field is blank.
func (b Book) Validate() error {
	if strings.TrimSpace(b.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if strings.TrimSpace(b.Author) == "" {
		return fmt.Errorf("%w: author is required", ErrValidation)
	}
	return nil
}

// String renders the one-line listing used by the interactive menu.
func (b Book) String() string {
	return fmt.Sprintf("ID: %d, Título: %s, Autor: %s, Ano: %s, Preço: R$%s",
		b.ID, b.Title, b.Author, b.YearString(), b.PriceString())
}

// YearString formats the publication year, or "-" when absent.
func (b Book) YearString() string {
	if b.PublicationYear == nil {
		return "-"
	}
	return strconv.Itoa(*b.PublicationYear)
}

// PriceString formats the price with two decimals, or "-" when absent.
func (b Book) PriceString() string {
	if b.Price == nil {
		return "-"
	}
	return strconv.FormatFloat(*b.Price, 'f', 2, 64)
}

// IntPtr and FloatPtr build optional field values.
func IntPtr(v int) *int { return &v }

func FloatPtr(v float64) *float64 { return &v }
