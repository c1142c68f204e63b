package cmd

import (
	"path/filepath"

	"github.com/opengloss/opengloss/internal/config"
	"github.com/opengloss/opengloss/pkg/opengloss"
)

const defaultDataDir = "."

// openIndex loads the FST and archive blobs from dataDir (the directory a
// prior `openglossctl build` wrote into) and constructs an Index.
func openIndex(dataDir string) (*opengloss.Index, error) {
	cfg, err := config.Load(dataDir)
	if err != nil {
		return nil, err
	}
	logger.Debug("opening index", "data_dir", dataDir)
	ix, err := opengloss.Open(opengloss.OpenOptions{
		FSTPath:     filepath.Join(dataDir, "lexemes.fst"),
		ArchivePath: filepath.Join(dataDir, "opengloss_data.archive.zst"),
		Config:      cfg,
	})
	if err != nil {
		logger.Error("failed to open index", "data_dir", dataDir, "error", err)
		return nil, err
	}
	logger.Debug("index opened", "lexemes", ix.Len())
	return ix, nil
}
