package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opengloss/opengloss/internal/config"
	"github.com/opengloss/opengloss/pkg/version"
)

func newInfoCmd() *cobra.Command {
	var dataDir string

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Print corpus size and the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ix, err := openIndex(dataDir)
			if err != nil {
				return err
			}
			defer ix.Close()

			cfg, err := config.Load(dataDir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "lexemes:               %d\n", ix.Len())
			fmt.Fprintf(out, "archive version:       %d\n", ix.ArchiveVersion())
			fmt.Fprintf(out, "binary archive version: %d\n", version.ArchiveVersion)
			if ix.ArchiveVersion() != uint32(version.ArchiveVersion) {
				fmt.Fprintf(out, "WARNING: archive version mismatch, rebuild the corpus\n")
			}
			fmt.Fprintf(out, "config version:        %d\n", cfg.Version)
			fmt.Fprintf(out, "zstd level:            %d\n", cfg.Build.ZstdLevel)
			fmt.Fprintf(out, "arena frame size:      %d\n", cfg.Build.ArenaFrameSize)
			fmt.Fprintf(out, "arena cache bytes:     %d\n", cfg.Cache.ArenaCacheBytes)
			fmt.Fprintf(out, "chunk cache bytes:     %d\n", cfg.Cache.ChunkCacheBytes)
			fmt.Fprintf(out, "scanner cache entries: %d\n", cfg.Cache.ScannerCacheEntries)
			fmt.Fprintf(out, "ranker cache entries:  %d\n", cfg.Cache.RankerCacheEntries)
			fmt.Fprintf(out, "ranker min score:      %g\n", cfg.Ranker.MinScore)
			fmt.Fprintf(out, "ranker default limit:  %d\n", cfg.Ranker.DefaultLimit)
			return nil
		},
	}

	cmd.Flags().StringVar(&dataDir, "data-dir", defaultDataDir, "Directory containing lexemes.fst and opengloss_data.archive.zst")
	return cmd
}
