package menu

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/livraria/internal/backup"
	"github.com/mesh-intelligence/livraria/internal/sqlite"
	"github.com/mesh-intelligence/livraria/internal/transfer"
	"github.com/mesh-intelligence/livraria/pkg/types"
)

type stubTransfer struct {
	exports, imports int
	err              error
}

func (s *stubTransfer) Export(context.Context) (int, error) {
	s.exports++
	return 0, s.err
}

func (s *stubTransfer) Import(context.Context) (int, error) {
	s.imports++
	return 0, s.err
}

type stubBackups struct {
	calls int
	err   error
}

func (s *stubBackups) Backup(context.Context) (types.Snapshot, error) {
	s.calls++
	return types.Snapshot{}, s.err
}

type env struct {
	repo    *sqlite.Repository
	backups *backup.Manager
	export  *transfer.Transfer
	dir     string
}

func setupEnv(t *testing.T) *env {
	t.Helper()
	dir := t.TempDir()
	store := filepath.Join(dir, "data", types.StoreFileName)
	mgr := backup.NewManager(store, filepath.Join(dir, "backups"))
	repo := sqlite.NewRepository(store, sqlite.WithAfterWrite(func(ctx context.Context) error {
		_, err := mgr.Backup(ctx)
		return err
	}))
	require.NoError(t, repo.EnsureSchema(context.Background()))
	return &env{repo: repo, backups: mgr, export: transfer.New(repo, filepath.Join(dir, "exports", types.ExportFileName)), dir: dir}
}

func (e *env) run(t *testing.T, input string) string {
	t.Helper()
	var out bytes.Buffer
	d := New(e.repo, e.export, e.backups, strings.NewReader(input), &out)
	require.NoError(t, d.Run(context.Background()))
	return out.String()
}

func TestRunShowsMenuAndExits(t *testing.T) {
	e := setupEnv(t)
	out := e.run(t, "9\n")

	assert.Contains(t, out, "----- Sistema de Gerenciamento de Livraria -----\n1. Adicionar novo livro\n")
	assert.Contains(t, out, "8. Fazer backup do banco de dados\n9. Sair\nEscolha uma opção: ")
	assert.True(t, strings.HasSuffix(out, "Saindo do sistema.\n"))
}

func TestRunAddAndList(t *testing.T) {
	e := setupEnv(t)
	out := e.run(t, "1\nDune\nHerbert\n1965\n29.90\n1\nEmma\nAusten\n\n\n2\n9\n")

	assert.Contains(t, out, "Título do livro: Autor do livro: Ano de publicação: Preço do livro: ")
	assert.Contains(t, out, "ID: 1, Título: Dune, Autor: Herbert, Ano: 1965, Preço: R$29.90\n")
	assert.Contains(t, out, "ID: 2, Título: Emma, Autor: Austen, Ano: -, Preço: R$-\n")

	snaps, err := e.backups.List()
	require.NoError(t, err)
	assert.NotEmpty(t, snaps)
}

func TestRunUpdateDeleteSearch(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()
	_, err := e.repo.AddMany(ctx, []types.Book{
		{Title: "Dune", Author: "Frank Herbert", Price: types.FloatPtr(29.9)},
		{Title: "Emma", Author: "Jane Austen", Price: types.FloatPtr(12.5)},
	})
	require.NoError(t, err)

	out := e.run(t, "3\n1\n19.90\n4\n2\n5\nherb\n9\n")

	assert.Contains(t, out, "ID do livro: Novo preço: ")
	assert.Contains(t, out, "ID do livro a ser removido: ")
	assert.Contains(t, out, "Nome do autor: ID: 1, Título: Dune, Autor: Frank Herbert, Ano: -, Preço: R$19.90\n")

	books, err := e.repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Dune", books[0].Title)
}

func TestRunExportImportBackup(t *testing.T) {
	e := setupEnv(t)
	_, err := e.repo.Add(context.Background(), types.Book{Title: "Dune", Author: "Herbert"})
	require.NoError(t, err)

	out := e.run(t, "6\n7\n8\n9\n")
	assert.Contains(t, out, "Dados exportados com sucesso\n")
	assert.Contains(t, out, "Dados importados com sucesso.\n")
	assert.Contains(t, out, "Backup realizado com sucesso.\n")

	n, err := e.repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestRunInvalidOption(t *testing.T) {
	e := setupEnv(t)
	out := e.run(t, "0\nabc\n9\n")
	assert.Equal(t, 2, strings.Count(out, "Opção inválida. Tente novamente.\n"))
}

func TestRunErrorsContinue(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "non-numeric year", input: "1\nDune\nHerbert\nsoon\n10\n", want: "Erro: parse error: ano de publicação inválido"},
		{name: "non-numeric price", input: "1\nDune\nHerbert\n1965\ncheap\n", want: "Erro: parse error: preço inválido"},
		{name: "non-numeric id", input: "4\none\n", want: "Erro: parse error: id inválido"},
		{name: "blank title", input: "1\n\nHerbert\n\n\n", want: "Erro: validation failed: title is required"},
		{name: "missing import file", input: "7\n", want: "Erro: not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := setupEnv(t)
			out := e.run(t, tt.input+"9\n")
			assert.Contains(t, out, tt.want)
			assert.True(t, strings.HasSuffix(out, "Saindo do sistema.\n"))

			n, err := e.repo.Count(context.Background())
			require.NoError(t, err)
			assert.Equal(t, 0, n)
		})
	}
}

func TestRunEndOfInput(t *testing.T) {
	e := setupEnv(t)
	out := e.run(t, "2\n")
	assert.NotContains(t, out, "Saindo do sistema.")

	out = e.run(t, "1\nDune\n")
	n, err := e.repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.NotContains(t, out, "Erro:")
}

func TestRunStubs(t *testing.T) {
	tr := &stubTransfer{err: errors.New("disk full")}
	bk := &stubBackups{}
	e := setupEnv(t)

	var out bytes.Buffer
	d := New(e.repo, tr, bk, strings.NewReader("6\n7\n8\n9\n"), &out)
	require.NoError(t, d.Run(context.Background()))

	assert.Equal(t, 1, tr.exports)
	assert.Equal(t, 1, tr.imports)
	assert.Equal(t, 1, bk.calls)
	assert.Equal(t, 2, strings.Count(out.String(), "Erro: disk full\n"))
	assert.NotContains(t, out.String(), "Dados exportados")
	assert.Contains(t, out.String(), "Backup realizado com sucesso.\n")
}

func TestRunCanceled(t *testing.T) {
	e := setupEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := New(e.repo, e.export, e.backups, strings.NewReader("9\n"), &out).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out.String())
}
