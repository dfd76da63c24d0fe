package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/livraria/internal/menu"
)

// runMenu opens the catalog and hands stdin and stdout to the interactive
// menu.
func (a *app) runMenu(cmd *cobra.Command, args []string) error {
	svc, err := a.open(cmd.Context())
	if err != nil {
		return err
	}
	return menu.New(svc.repo, svc.transfer, svc.backups, cmd.InOrStdin(), cmd.OutOrStdout()).Run(cmd.Context())
}
