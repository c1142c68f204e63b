package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opengloss/opengloss/internal/corpusbuild"
	"github.com/opengloss/opengloss/internal/output"
)

type buildOptions struct {
	entries    string
	lexemes    string
	outDir     string
	zstdLevel  int
	frameBytes int
}

func newBuildCmd() *cobra.Command {
	var opts buildOptions

	cmd := &cobra.Command{
		Use:   "build --entries entries.jsonl [--lexemes lexemes.tsv] --out data/",
		Short: "Run the offline build pipeline over a source corpus",
		Long: `build streams entries.jsonl (and, if given, lexemes.tsv) and emits the
two embedded artifacts a release binary ships: lexemes.fst and
opengloss_data.archive.zst, written into --out.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.entries, "entries", "", "Path to entries.jsonl (required)")
	cmd.Flags().StringVar(&opts.lexemes, "lexemes", "", "Path to lexemes.tsv (optional; alias surface forms)")
	cmd.Flags().StringVar(&opts.outDir, "out", "data", "Output directory for the built artifacts")
	cmd.Flags().IntVar(&opts.zstdLevel, "zstd-level", 19, "Zstd compression level for arena/chunk/archive frames")
	cmd.Flags().IntVar(&opts.frameBytes, "arena-frame-size", 64*1024, "Target uncompressed size of each string-arena frame")
	_ = cmd.MarkFlagRequired("entries")

	return cmd
}

func runBuild(cmd *cobra.Command, opts buildOptions) error {
	buildOpts := corpusbuild.DefaultOptions()
	buildOpts.ZstdLevel = opts.zstdLevel
	buildOpts.ArenaFrameSize = opts.frameBytes

	w := output.New(cmd.OutOrStdout())
	w.Statusf("", "building from %s into %s", opts.entries, opts.outDir)
	logger.Info("build starting", "entries", opts.entries, "lexemes", opts.lexemes, "out", opts.outDir, "zstd_level", opts.zstdLevel)

	report, err := corpusbuild.Build(opts.entries, opts.lexemes, opts.outDir, buildOpts)
	if err != nil {
		logger.Error("build failed", "error", err)
		w.Errorf("build failed: %v", err)
		return err
	}

	logger.Info("build finished",
		"lexemes", report.Lexemes,
		"surface_forms", report.SurfaceForms,
		"edges_resolved", report.EdgesResolved,
		"edges_dropped", report.EdgesDropped,
		"archive_bytes", report.ArchiveBytes)
	if report.EdgeLossWarning {
		logger.Warn("edge loss exceeds configured threshold", "fraction", report.EdgeLossFraction)
	}

	w.Successf("%d lexemes, %d surface forms (%d collisions dropped)", report.Lexemes, report.SurfaceForms, report.SurfaceCollisions)
	w.Statusf("", fmt.Sprintf("relation edges: %d resolved, %d dropped (%.4f%% loss)",
		report.EdgesResolved, report.EdgesDropped, report.EdgeLossFraction*100))
	if report.EdgeLossWarning {
		w.Warning("edge loss exceeds the configured threshold; check lexemes.tsv for stale aliases")
	}
	w.Statusf("", fmt.Sprintf("fst bytes: %d, archive bytes: %d (raw %d)", report.FSTBytes, report.ArchiveBytes, report.ArchiveBytesRaw))
	return nil
}
