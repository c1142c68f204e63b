package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, CurrentVersion, cfg.Version)
	assert.Equal(t, 0.15, cfg.Ranker.MinScore)
}

func TestLoad_NoFile_ReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, Default().Ranker.DefaultLimit, cfg.Ranker.DefaultLimit)
}

func TestLoad_ProjectFile_OverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	contents := "ranker:\n  min_score: 0.4\n  default_limit: 5\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".opengloss.yaml"), []byte(contents), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 0.4, cfg.Ranker.MinScore)
	assert.Equal(t, 5, cfg.Ranker.DefaultLimit)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	contents := "ranker:\n  min_score: 0.4\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".opengloss.yaml"), []byte(contents), 0o644))

	t.Setenv("OPENGLOSS_MIN_SCORE", "0.9")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 0.9, cfg.Ranker.MinScore)
}

func TestValidate_RejectsOutOfRangeMinScore(t *testing.T) {
	cfg := Default()
	cfg.Ranker.MinScore = 1.5
	assert.Error(t, cfg.Validate())
}

func TestValidate_RejectsBadZstdLevel(t *testing.T) {
	cfg := Default()
	cfg.Build.ZstdLevel = 0
	assert.Error(t, cfg.Validate())
}
