package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/funfair/pkg/funfair"
)

const modulePath = "github.com/mesh-intelligence/funfair"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the funfair version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "funfair v%s\nmodule: %s\n", funfair.Version, modulePath)
			return nil
		},
	}
}
