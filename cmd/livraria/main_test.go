package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	// livrariaBin is the path to the binary built by TestMain.
	livrariaBin string
	buildErr    error
)

// TestMain builds the livraria binary once before running tests.
func TestMain(m *testing.M) {
	tmpDir, err := os.MkdirTemp("", "livraria-test-*")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	livrariaBin = filepath.Join(tmpDir, "livraria")

	cmd := exec.Command("go", "build", "-o", livrariaBin, ".")
	if output, err := cmd.CombinedOutput(); err != nil {
		buildErr = fmt.Errorf("%w: %s", err, output)
	}

	code := m.Run()
	os.RemoveAll(tmpDir)
	os.Exit(code)
}

type cmdResult struct {
	stdout   string
	stderr   string
	exitCode int
}

// runLivraria executes the binary against an isolated config and home
// directory under dir.
func runLivraria(t *testing.T, dir, stdin string, args ...string) cmdResult {
	t.Helper()
	require.NoError(t, buildErr, "building livraria")

	all := append([]string{
		"--config-dir", filepath.Join(dir, "config"),
		"--home", filepath.Join(dir, "home"),
	}, args...)
	cmd := exec.Command(livrariaBin, all...)
	cmd.Stdin = strings.NewReader(stdin)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	exitCode := 0
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		require.True(t, errors.As(err, &exitErr), "running livraria: %v", err)
		exitCode = exitErr.ExitCode()
	}
	return cmdResult{stdout: stdout.String(), stderr: stderr.String(), exitCode: exitCode}
}

func TestExitCodes(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{name: "version", args: []string{"version"}, want: 0},
		{name: "list", args: []string{"list"}, want: 0},
		{name: "validation", args: []string{"add", "--title", "Dune"}, want: 1},
		{name: "bad argument", args: []string{"delete", "x"}, want: 1},
		{name: "missing import file", args: []string{"import"}, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := runLivraria(t, t.TempDir(), "", tt.args...)
			assert.Equal(t, tt.want, r.exitCode, "stderr: %s", r.stderr)
			if tt.want != 0 {
				assert.True(t, strings.HasPrefix(r.stderr, "livraria: "), r.stderr)
			}
		})
	}
}

func TestMenuSession(t *testing.T) {
	dir := t.TempDir()
	input := "1\nDune\nHerbert\n1965\n29.90\n3\n1\n19.90\n6\n9\n"
	r := runLivraria(t, dir, input)
	require.Equal(t, 0, r.exitCode, r.stderr)
	assert.Contains(t, r.stdout, "Dados exportados com sucesso\n")

	data, err := os.ReadFile(filepath.Join(dir, "home", "exports", "livros_exportados.csv"))
	require.NoError(t, err)
	assert.Equal(t, "ID,Título,Autor,Ano de Publicação,Preço\n1,Dune,Herbert,1965,19.9\n", string(data))

	snaps, err := filepath.Glob(filepath.Join(dir, "home", "backups", "backup_livraria_*.db"))
	require.NoError(t, err)
	assert.NotEmpty(t, snaps)
}
