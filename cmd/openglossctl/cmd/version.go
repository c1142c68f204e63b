package cmd

import (
	"github.com/spf13/cobra"

	"github.com/opengloss/opengloss/pkg/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.Println(version.Full())
			return nil
		},
	}
}
