package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// transferResult is the JSON shape of export and import output.
type transferResult struct {
	Path string `json:"path"`
	Rows int    `json:"rows"`
}

func (a *app) newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write the whole catalog to the CSV export file",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			n, err := svc.transfer.Export(cmd.Context())
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), transferResult{Path: svc.transfer.Path(), Rows: n})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Dados exportados com sucesso (%d livros em %s)\n", n, svc.transfer.Path())
			return nil
		},
	}
}

func (a *app) newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Append every row of the CSV export file as new books",
		Long: `Import reads the CSV export file and inserts each row as a new book with a
fresh id. A malformed row aborts the import and nothing is added.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			n, err := svc.transfer.Import(cmd.Context())
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), transferResult{Path: svc.transfer.Path(), Rows: n})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Dados importados com sucesso (%d livros).\n", n)
			return nil
		},
	}
}
