package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the specbook release version.
const Version = "0.1.0"

const modulePath = "github.com/mesh-intelligence/specbook"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print the specbook version",
		Annotations: map[string]string{skipConfig: "true"},
		Args:        checkArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "specbook v%s\nmodule: %s\n", Version, modulePath)
			return nil
		},
	}
}
