package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGetCmd() *cobra.Command {
	var dataDir string

	cmd := &cobra.Command{
		Use:   "get <word>",
		Short: "Exact, case-insensitive lookup of a surface form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ix, err := openIndex(dataDir)
			if err != nil {
				return err
			}
			defer ix.Close()

			ids, err := ix.Get(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(ids) == 0 {
				fmt.Fprintf(out, "no match for %q\n", args[0])
				return nil
			}
			for _, id := range ids {
				entry, err := ix.EntryByID(id)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%d\t%s\t%v\n", id, entry.Word, entry.POS)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dataDir, "data-dir", defaultDataDir, "Directory containing lexemes.fst and opengloss_data.archive.zst")
	return cmd
}
