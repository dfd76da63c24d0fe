// Package menu implements the numbered interactive menu over the catalog,
// bulk transfer and backups.
package menu

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	applog "github.com/mesh-intelligence/livraria/internal/log"
	"github.com/mesh-intelligence/livraria/pkg/types"
)

// Catalog is the store surface the menu drives.
type Catalog interface {
	Add(ctx context.Context, b types.Book) (int64, error)
	List(ctx context.Context) ([]types.Book, error)
	UpdatePrice(ctx context.Context, id int64, price float64) error
	Delete(ctx context.Context, id int64) error
	SearchByAuthor(ctx context.Context, substring string) ([]types.Book, error)
}

// Transfer exports and imports the catalog.
type Transfer interface {
	Export(ctx context.Context) (int, error)
	Import(ctx context.Context) (int, error)
}

// Backups takes on-demand snapshots.
type Backups interface {
	Backup(ctx context.Context) (types.Snapshot, error)
}

const header = "----- Sistema de Gerenciamento de Livraria -----"

var options = []string{
	"Adicionar novo livro",
	"Exibir todos os livros",
	"Atualizar preço de um livro",
	"Remover um livro",
	"Buscar livros por autor",
	"Exportar dados para CSV",
	"Importar dados de CSV",
	"Fazer backup do banco de dados",
	"Sair",
}

// Driver reads choices from in and writes prompts and results to out.
type Driver struct {
	catalog  Catalog
	transfer Transfer
	backups  Backups
	in       *bufio.Scanner
	out      io.Writer
	log      *slog.Logger
}

// New creates a Driver.
func New(catalog Catalog, transfer Transfer, backups Backups, in io.Reader, out io.Writer) *Driver {
	return &Driver{
		catalog:  catalog,
		transfer: transfer,
		backups:  backups,
		in:       bufio.NewScanner(in),
		out:      out,
		log:      applog.WithComponent("menu"),
	}
}

// Run shows the menu until the user picks Sair, input ends, or ctx is
// canceled. Operation errors are printed and the loop continues.
func (d *Driver) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		d.printMenu()
		choice, err := d.prompt("Escolha uma opção: ")
		if err != nil {
			return d.finish(err)
		}

		if strings.TrimSpace(choice) == "9" {
			fmt.Fprintln(d.out, "Saindo do sistema.")
			return nil
		}
		if err := d.dispatch(ctx, strings.TrimSpace(choice)); err != nil {
			if errors.Is(err, io.EOF) {
				return d.finish(err)
			}
			d.log.Debug("menu operation failed", slog.String("choice", choice), slog.Any("error", err))
			fmt.Fprintf(d.out, "Erro: %v\n", err)
		}
	}
}

// finish treats end of input like Sair.
func (d *Driver) finish(err error) error {
	if errors.Is(err, io.EOF) {
		fmt.Fprintln(d.out)
		return nil
	}
	return err
}

func (d *Driver) printMenu() {
	fmt.Fprintln(d.out)
	fmt.Fprintln(d.out, header)
	for i, opt := range options {
		fmt.Fprintf(d.out, "%d. %s\n", i+1, opt)
	}
}

func (d *Driver) dispatch(ctx context.Context, choice string) error {
	switch choice {
	case "1":
		return d.addBook(ctx)
	case "2":
		books, err := d.catalog.List(ctx)
		if err != nil {
			return err
		}
		d.printBooks(books)
	case "3":
		return d.updatePrice(ctx)
	case "4":
		id, err := d.promptID("ID do livro a ser removido: ")
		if err != nil {
			return err
		}
		return d.catalog.Delete(ctx, id)
	case "5":
		author, err := d.prompt("Nome do autor: ")
		if err != nil {
			return err
		}
		books, err := d.catalog.SearchByAuthor(ctx, author)
		if err != nil {
			return err
		}
		d.printBooks(books)
	case "6":
		if _, err := d.transfer.Export(ctx); err != nil {
			return err
		}
		fmt.Fprintln(d.out, "Dados exportados com sucesso")
	case "7":
		if _, err := d.transfer.Import(ctx); err != nil {
			return err
		}
		fmt.Fprintln(d.out, "Dados importados com sucesso.")
	case "8":
		if _, err := d.backups.Backup(ctx); err != nil {
			return err
		}
		fmt.Fprintln(d.out, "Backup realizado com sucesso.")
	default:
		fmt.Fprintln(d.out, "Opção inválida. Tente novamente.")
	}
	return nil
}

func (d *Driver) addBook(ctx context.Context) error {
	title, err := d.prompt("Título do livro: ")
	if err != nil {
		return err
	}
	author, err := d.prompt("Autor do livro: ")
	if err != nil {
		return err
	}
	yearText, err := d.prompt("Ano de publicação: ")
	if err != nil {
		return err
	}
	priceText, err := d.prompt("Preço do livro: ")
	if err != nil {
		return err
	}

	b := types.Book{Title: title, Author: author}
	if s := strings.TrimSpace(yearText); s != "" {
		year, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("%w: ano de publicação inválido %q", types.ErrParse, s)
		}
		b.PublicationYear = types.IntPtr(year)
	}
	if s := strings.TrimSpace(priceText); s != "" {
		price, err := parsePrice(s)
		if err != nil {
			return err
		}
		b.Price = types.FloatPtr(price)
	}
	_, err = d.catalog.Add(ctx, b)
	return err
}

func (d *Driver) updatePrice(ctx context.Context) error {
	id, err := d.promptID("ID do livro: ")
	if err != nil {
		return err
	}
	text, err := d.prompt("Novo preço: ")
	if err != nil {
		return err
	}
	price, err := parsePrice(strings.TrimSpace(text))
	if err != nil {
		return err
	}
	return d.catalog.UpdatePrice(ctx, id, price)
}

func (d *Driver) printBooks(books []types.Book) {
	for _, b := range books {
		fmt.Fprintln(d.out, b.String())
	}
}

// prompt writes label and returns the next input line without its newline.
func (d *Driver) prompt(label string) (string, error) {
	fmt.Fprint(d.out, label)
	if !d.in.Scan() {
		if err := d.in.Err(); err != nil {
			return "", fmt.Errorf("%w: reading input: %v", types.ErrIO, err)
		}
		return "", io.EOF
	}
	return strings.TrimRight(d.in.Text(), "\r"), nil
}

func (d *Driver) promptID(label string) (int64, error) {
	text, err := d.prompt(label)
	if err != nil {
		return 0, err
	}
	s := strings.TrimSpace(text)
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: id inválido %q", types.ErrParse, s)
	}
	return id, nil
}

func parsePrice(s string) (float64, error) {
	price, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: preço inválido %q", types.ErrParse, s)
	}
	return price, nil
}
