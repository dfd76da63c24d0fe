package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/livraria/pkg/livraria"
)

const modulePath = "github.com/mesh-intelligence/livraria"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the livraria version",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "livraria v%s\nmodule: %s\n", livraria.Version, modulePath)
			return nil
		},
	}
}
