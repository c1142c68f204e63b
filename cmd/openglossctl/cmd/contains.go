package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newContainsCmd() *cobra.Command {
	var dataDir string
	var limit int

	cmd := &cobra.Command{
		Use:   "contains <q>",
		Short: "List surface forms containing q as a case-folded substring",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ix, err := openIndex(dataDir)
			if err != nil {
				return err
			}
			defer ix.Close()

			hits, err := ix.SearchContains(args[0], limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, h := range hits {
				fmt.Fprintf(out, "%d\t%s\n", h.ID, h.Surface)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dataDir, "data-dir", defaultDataDir, "Directory containing lexemes.fst and opengloss_data.archive.zst")
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of results")
	return cmd
}
