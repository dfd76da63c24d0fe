package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/livraria/internal/backup"
	applog "github.com/mesh-intelligence/livraria/internal/log"
	"github.com/mesh-intelligence/livraria/internal/paths"
	"github.com/mesh-intelligence/livraria/internal/sqlite"
	"github.com/mesh-intelligence/livraria/internal/transfer"
	"github.com/mesh-intelligence/livraria/pkg/types"
)

// setup resolves directories, loads configuration, and initializes logging.
// The version and help commands need none of it.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == "version" || cmd.Name() == "help" {
		return nil
	}
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	// .env may set LIVRARIA_HOME, so it loads before the home directory
	// is resolved.
	if err := loadEnvFile(configDir); err != nil {
		return err
	}
	home, err := paths.ResolveHomeDir(a.flags.home)
	if err != nil {
		return fmt.Errorf("resolve home dir: %w", err)
	}
	cfg, err := loadConfig(configDir, home)
	if err != nil {
		return err
	}

	opts := applog.FromConfig(cfg.Log)
	opts.Console = cmd.ErrOrStderr()
	applog.Init(opts)

	a.configDir = configDir
	a.cfg = cfg
	applog.L().Debug("config loaded",
		"config_dir", configDir,
		"data_dir", cfg.DataDir,
		"backup_dir", cfg.BackupDir,
		"export_dir", cfg.ExportDir)
	return nil
}

// services are the components every data command works with. The
// repository snapshots the store through the backup manager after each
// committed write.
type services struct {
	repo     *sqlite.Repository
	backups  *backup.Manager
	transfer *transfer.Transfer
}

// open wires the components for the loaded config and ensures the schema.
func (a *app) open(ctx context.Context) (*services, error) {
	store := a.cfg.StorePath()
	mgr := backup.NewManager(store, a.cfg.BackupDir)
	repo := sqlite.NewRepository(store, sqlite.WithAfterWrite(func(ctx context.Context) error {
		_, err := mgr.Backup(ctx)
		return err
	}))
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	return &services{
		repo:     repo,
		backups:  mgr,
		transfer: transfer.New(repo, a.cfg.ExportPath()),
	}, nil
}

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// writeBooks prints books as JSON or as an aligned table.
func (a *app) writeBooks(w io.Writer, books []types.Book) error {
	if a.flags.jsonMode {
		return writeJSON(w, books)
	}
	if len(books) == 0 {
		_, err := fmt.Fprintln(w, "Nenhum livro encontrado.")
		return err
	}

	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTÍTULO\tAUTOR\tANO\tPREÇO")
	for _, b := range books {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", b.ID, b.Title, b.Author, b.YearString(), b.PriceString())
	}
	tw.Flush()

	// Trim trailing whitespace from each line.
	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}
