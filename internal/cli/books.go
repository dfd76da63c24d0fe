package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/livraria/pkg/types"
)

func (a *app) newAddCmd() *cobra.Command {
	var (
		title, author string
		year          int
		price         float64
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a book to the catalog",
		Long: `Add inserts a book and prints the id the store assigned. Year and price
are optional.

Example:
  livraria add --title Dune --author "Frank Herbert" --year 1965 --price 29.90`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			b := types.Book{Title: title, Author: author}
			if cmd.Flags().Changed("year") {
				b.PublicationYear = types.IntPtr(year)
			}
			if cmd.Flags().Changed("price") {
				b.Price = types.FloatPtr(price)
			}

			svc, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			id, err := svc.repo.Add(cmd.Context(), b)
			if err != nil {
				return fmt.Errorf("add book: %w", err)
			}
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), map[string]int64{"id": id})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Livro adicionado com ID %d.\n", id)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "book title (required)")
	cmd.Flags().StringVar(&author, "author", "", "book author (required)")
	cmd.Flags().IntVar(&year, "year", 0, "publication year")
	cmd.Flags().Float64Var(&price, "price", 0, "price")
	return cmd
}

func (a *app) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every book in id order",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			books, err := svc.repo.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("list books: %w", err)
			}
			total, err := svc.repo.Count(cmd.Context())
			if err != nil {
				return fmt.Errorf("list books: %w", err)
			}

			out := cmd.OutOrStdout()
			if a.flags.jsonMode {
				return writeJSON(out, listResult{Books: books, Total: total})
			}
			if err := a.writeBooks(out, books); err != nil {
				return err
			}
			_, err = fmt.Fprintf(out, "Total: %d\n", total)
			return err
		},
	}
}

// listResult is the JSON shape of list output.
type listResult struct {
	Books []types.Book `json:"books"`
	Total int          `json:"total"`
}

func (a *app) newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <author>",
		Short: "List books whose author contains a substring",
		Long: `Search matches the author with a case-insensitive substring match for
ASCII letters.

Example:
  livraria search herbert`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			books, err := svc.repo.SearchByAuthor(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("search books: %w", err)
			}
			return a.writeBooks(cmd.OutOrStdout(), books)
		},
	}
}

func (a *app) newUpdatePriceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update-price <id> <price>",
		Short: "Set the price of a book",
		Long:  "Update-price sets the price of the book with the given id. An unknown id changes nothing.",
		Args:  usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			price, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("%w: invalid price %q", types.ErrParse, args[1])
			}

			svc, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			if err := svc.repo.UpdatePrice(cmd.Context(), id, price); err != nil {
				return fmt.Errorf("update price: %w", err)
			}
			if !a.flags.jsonMode {
				fmt.Fprintf(cmd.OutOrStdout(), "Preço do livro %d atualizado.\n", id)
			}
			return nil
		},
	}
}

func (a *app) newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a book by id",
		Long:  "Delete removes the book with the given id. An unknown id changes nothing.",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			svc, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			if err := svc.repo.Delete(cmd.Context(), id); err != nil {
				return fmt.Errorf("delete book: %w", err)
			}
			if !a.flags.jsonMode {
				fmt.Fprintf(cmd.OutOrStdout(), "Livro %d removido.\n", id)
			}
			return nil
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid id %q", types.ErrParse, s)
	}
	return id, nil
}
