package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/livraria/internal/backup"
)

func (a *app) newBackupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Snapshot the catalog store now",
		Long:  fmt.Sprintf("Backup copies the store into the backup directory and keeps the %d most recent snapshots.", backup.RetentionCount),
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			snap, err := svc.backups.Backup(cmd.Context())
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), snap)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Backup realizado com sucesso: %s\n", snap.Path)
			return nil
		},
	}
}

func (a *app) newBackupsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backups",
		Short: "List snapshots, most recent first",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			snaps, err := backup.NewManager(a.cfg.StorePath(), a.cfg.BackupDir).List()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if a.flags.jsonMode {
				return writeJSON(out, snaps)
			}
			if len(snaps) == 0 {
				fmt.Fprintln(out, "Nenhum backup encontrado.")
				return nil
			}

			var sb strings.Builder
			tw := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tCREATED\tSIZE")
			for _, s := range snaps {
				fmt.Fprintf(tw, "%s\t%s\t%d\n", s.Name, s.CreatedAt.Format("2006-01-02 15:04:05"), s.Size)
			}
			tw.Flush()
			fmt.Fprint(out, sb.String())
			return nil
		},
	}
}
