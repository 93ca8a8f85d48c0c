package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

const modulePath = "github.com/BakaI9/excalidraw"

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the boardctl version",
		Args:  userArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(a.out, "boardctl v%s\nmodule: %s\n", Version, modulePath)
			return nil
		},
	}
}
