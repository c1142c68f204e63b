// Package config loads opengloss configuration from layered sources:
// hardcoded defaults, a project file (.opengloss.yaml), and environment
// variable overrides, in that order of increasing precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the complete opengloss configuration.
type Config struct {
	Version int          `yaml:"version" json:"version"`
	Build   BuildConfig  `yaml:"build" json:"build"`
	Cache   CacheConfig  `yaml:"cache" json:"cache"`
	Ranker  RankerConfig `yaml:"ranker" json:"ranker"`
}

// BuildConfig holds build-pipeline settings. The `build` command does not
// read them: it takes corpusbuild.DefaultOptions plus its own flags.
// ZstdLevel and EdgeLossWarnThreshold are only reported by `info`;
// ArenaFrameSize is used by opengloss.Open to size the arena frame cache.
type BuildConfig struct {
	// ZstdLevel is the compression level for arena frames, chunk frames,
	// and the archive (recommended ~19 for release builds).
	ZstdLevel int `yaml:"zstd_level" json:"zstd_level"`

	// ArenaFrameSize is the target uncompressed size of each string-arena
	// frame, in bytes.
	ArenaFrameSize int `yaml:"arena_frame_size" json:"arena_frame_size"`

	// EdgeLossWarnThreshold is the fraction (0-1) of unresolved relation
	// targets above which a build is considered lossy.
	EdgeLossWarnThreshold float64 `yaml:"edge_loss_warn_threshold" json:"edge_loss_warn_threshold"`
}

// CacheConfig configures the bounded LRU caches fronting the compressed
// arena and chunk store.
type CacheConfig struct {
	// ArenaCacheBytes bounds the inflated-frame cache for the string arena
	// (recommended default: >= 16 MiB).
	ArenaCacheBytes int64 `yaml:"arena_cache_bytes" json:"arena_cache_bytes"`

	// ChunkCacheBytes bounds the inflated-chunk cache (recommended
	// default: >= 32 MiB).
	ChunkCacheBytes int64 `yaml:"chunk_cache_bytes" json:"chunk_cache_bytes"`

	// ScannerCacheEntries bounds the substring-scanner query cache. Zero
	// disables caching (the scanner must still function correctly).
	ScannerCacheEntries int `yaml:"scanner_cache_entries" json:"scanner_cache_entries"`

	// RankerCacheEntries bounds the fuzzy-ranker query cache.
	RankerCacheEntries int `yaml:"ranker_cache_entries" json:"ranker_cache_entries"`
}

// RankerConfig holds default fuzzy-ranker tuning.
type RankerConfig struct {
	MinScore      float64 `yaml:"min_score" json:"min_score"`
	DefaultLimit  int     `yaml:"default_limit" json:"default_limit"`
	WeightWord    float64 `yaml:"weight_word" json:"weight_word"`
	WeightDefs    float64 `yaml:"weight_definitions" json:"weight_definitions"`
	WeightSyn     float64 `yaml:"weight_synonyms" json:"weight_synonyms"`
	WeightEntry   float64 `yaml:"weight_entry_text" json:"weight_entry_text"`
	WeightEncyclo float64 `yaml:"weight_encyclopedia" json:"weight_encyclopedia"`
}

// CurrentVersion is the current configuration schema version.
const CurrentVersion = 1

const (
	defaultMiB = 1024 * 1024

	envPrefix = "OPENGLOSS_"
)

// Default returns the built-in configuration defaults.
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		Build: BuildConfig{
			ZstdLevel:             19,
			ArenaFrameSize:        64 * 1024,
			EdgeLossWarnThreshold: 0.001,
		},
		Cache: CacheConfig{
			ArenaCacheBytes:     16 * defaultMiB,
			ChunkCacheBytes:     32 * defaultMiB,
			ScannerCacheEntries: 256,
			RankerCacheEntries:  256,
		},
		Ranker: RankerConfig{
			MinScore:      0.15,
			DefaultLimit:  25,
			WeightWord:    1.0,
			WeightDefs:    0.6,
			WeightSyn:     0.8,
			WeightEntry:   0.3,
			WeightEncyclo: 0.2,
		},
	}
}

// Load reads configuration starting from defaults, merging in
// `.opengloss.yaml` (or `.yml`) found in dir if present, then applying
// OPENGLOSS_* environment variable overrides. The result is validated
// before being returned.
func Load(dir string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFromFile(dir); err != nil {
		return nil, err
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadFromFile(dir string) error {
	for _, name := range []string{".opengloss.yaml", ".opengloss.yml"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return c.loadYAML(path)
	}
	return nil
}

func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var parsed Config
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	c.mergeWith(&parsed)
	return nil
}

// mergeWith overlays non-zero fields from other onto c.
func (c *Config) mergeWith(other *Config) {
	if other.Version != 0 {
		c.Version = other.Version
	}
	if other.Build.ZstdLevel != 0 {
		c.Build.ZstdLevel = other.Build.ZstdLevel
	}
	if other.Build.ArenaFrameSize != 0 {
		c.Build.ArenaFrameSize = other.Build.ArenaFrameSize
	}
	if other.Build.EdgeLossWarnThreshold != 0 {
		c.Build.EdgeLossWarnThreshold = other.Build.EdgeLossWarnThreshold
	}
	if other.Cache.ArenaCacheBytes != 0 {
		c.Cache.ArenaCacheBytes = other.Cache.ArenaCacheBytes
	}
	if other.Cache.ChunkCacheBytes != 0 {
		c.Cache.ChunkCacheBytes = other.Cache.ChunkCacheBytes
	}
	if other.Cache.ScannerCacheEntries != 0 {
		c.Cache.ScannerCacheEntries = other.Cache.ScannerCacheEntries
	}
	if other.Cache.RankerCacheEntries != 0 {
		c.Cache.RankerCacheEntries = other.Cache.RankerCacheEntries
	}
	if other.Ranker.MinScore != 0 {
		c.Ranker.MinScore = other.Ranker.MinScore
	}
	if other.Ranker.DefaultLimit != 0 {
		c.Ranker.DefaultLimit = other.Ranker.DefaultLimit
	}
	if other.Ranker.WeightWord != 0 {
		c.Ranker.WeightWord = other.Ranker.WeightWord
	}
	if other.Ranker.WeightDefs != 0 {
		c.Ranker.WeightDefs = other.Ranker.WeightDefs
	}
	if other.Ranker.WeightSyn != 0 {
		c.Ranker.WeightSyn = other.Ranker.WeightSyn
	}
	if other.Ranker.WeightEntry != 0 {
		c.Ranker.WeightEntry = other.Ranker.WeightEntry
	}
	if other.Ranker.WeightEncyclo != 0 {
		c.Ranker.WeightEncyclo = other.Ranker.WeightEncyclo
	}
}

// applyEnvOverrides layers OPENGLOSS_* environment variables on top of the
// config, the way Aman-CERP's config package applies its AMANMCP_* vars.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(envPrefix + "ZSTD_LEVEL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Build.ZstdLevel = n
		}
	}
	if v := os.Getenv(envPrefix + "MIN_SCORE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Ranker.MinScore = f
		}
	}
	if v := os.Getenv(envPrefix + "ARENA_CACHE_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Cache.ArenaCacheBytes = n
		}
	}
	if v := os.Getenv(envPrefix + "CHUNK_CACHE_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Cache.ChunkCacheBytes = n
		}
	}
}

// Validate checks the configuration for internally inconsistent values.
func (c *Config) Validate() error {
	if c.Build.ZstdLevel < 1 || c.Build.ZstdLevel > 22 {
		return fmt.Errorf("build.zstd_level must be in [1,22], got %d", c.Build.ZstdLevel)
	}
	if c.Ranker.MinScore < 0 || c.Ranker.MinScore > 1 {
		return fmt.Errorf("ranker.min_score must be in [0,1], got %f", c.Ranker.MinScore)
	}
	if c.Ranker.DefaultLimit <= 0 {
		return fmt.Errorf("ranker.default_limit must be positive, got %d", c.Ranker.DefaultLimit)
	}
	if c.Cache.ArenaCacheBytes < 0 || c.Cache.ChunkCacheBytes < 0 {
		return fmt.Errorf("cache byte bounds must be non-negative")
	}
	if c.Cache.ScannerCacheEntries < 0 || c.Cache.RankerCacheEntries < 0 {
		return fmt.Errorf("cache entry bounds must be non-negative")
	}
	return nil
}
