package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/livraria/internal/paths"
)

func (a *app) newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize livraria storage",
		Long:  "Create the configuration, data, backup and export directories, then create the catalog table.",
		Args:  usageArgs(cobra.NoArgs),
		RunE:  a.runInit,
	}
}

func (a *app) runInit(cmd *cobra.Command, args []string) error {
	if err := paths.EnsureDirs(a.cfg.DataDir, a.cfg.BackupDir, a.cfg.ExportDir); err != nil {
		return fmt.Errorf("init: %w", err)
	}
	if _, err := a.open(cmd.Context()); err != nil {
		return fmt.Errorf("init: %w", err)
	}

	if a.flags.jsonMode {
		return writeJSON(cmd.OutOrStdout(), map[string]string{
			"config_dir": a.configDir,
			"data_dir":   a.cfg.DataDir,
			"backup_dir": a.cfg.BackupDir,
			"export_dir": a.cfg.ExportDir,
		})
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Livraria initialized successfully")
	fmt.Fprintln(out, "  config: ", a.configDir)
	fmt.Fprintln(out, "  data:   ", a.cfg.DataDir)
	fmt.Fprintln(out, "  backups:", a.cfg.BackupDir)
	fmt.Fprintln(out, "  exports:", a.cfg.ExportDir)
	return nil
}
