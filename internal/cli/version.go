package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the gwen2d release, overridden at build time with
// -ldflags "-X github.com/mesh-intelligence/gwen2d/internal/cli.Version=...".
var Version = "dev"

const modulePath = "github.com/mesh-intelligence/gwen2d"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the gwen2d version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "gwen2d %s\nmodule: %s\n", Version, modulePath)
			return nil
		},
	}
}
