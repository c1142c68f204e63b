// Package opengloss is the public contract of the embedded lexical
// explorer: one handle, Index, whose construction triggers the one-time
// archive inflate, after which every operation (exact, prefix, substring,
// fuzzy, graph) runs in memory with no further I/O.
//
// Grounded on Aman-CERP-amanmcp's pkg/indexer and pkg/searcher: narrow
// public interfaces sitting on top of richer internal/ implementations, so
// callers depend on a small, stable surface while the query engine's
// internals (arena, chunk store, FST, ranker, graph walker) stay free to
// change.
package opengloss

import (
	"os"

	"github.com/klauspost/compress/zstd"

	"github.com/opengloss/opengloss/internal/config"
	"github.com/opengloss/opengloss/internal/errorsx"
	"github.com/opengloss/opengloss/internal/fstmap"
	"github.com/opengloss/opengloss/internal/graphwalk"
	"github.com/opengloss/opengloss/internal/lexarchive"
	"github.com/opengloss/opengloss/internal/ranker"
	"github.com/opengloss/opengloss/internal/scanner"
)

// LexemeID identifies a lexeme. Dense, assigned in insertion order at build
// time, in [0, N).
type LexemeID = lexarchive.LexemeID

// OpenOptions configures one Index construction. Exactly one source must
// be given for the FST and for the archive: either the in-memory bytes
// (for a //go:embed'd release binary) or a path to the blob on disk (for
// the build/test loop).
type OpenOptions struct {
	FSTPath      string
	FSTBytes     []byte
	ArchivePath  string
	ArchiveBytes []byte

	// Config overrides cache sizes and ranker defaults. Nil uses
	// config.Default().
	Config *config.Config
}

// Index is the one logical handle the query engine exposes. It is safe
// for concurrent use by multiple goroutines once Open returns; the only
// mutable state behind it (the arena and chunk-store frame caches and the
// scanner and ranker query caches) is guarded internally.
type Index struct {
	fst     *fstmap.Reader
	archive *lexarchive.Archive
	scanner *scanner.Scanner
	ranker  *ranker.Ranker
	cfg     *config.Config
}

// Open constructs an Index from the sources in opts, inflating the
// embedded archive exactly once. It is safe, if wasteful, to construct
// more than one Index per process; each call inflates its own copy.
func Open(opts OpenOptions) (*Index, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	fstBytes, err := loadBytes(opts.FSTBytes, opts.FSTPath, "opengloss.Open", "FST")
	if err != nil {
		return nil, err
	}
	archiveCompressed, err := loadBytes(opts.ArchiveBytes, opts.ArchivePath, "opengloss.Open", "archive")
	if err != nil {
		return nil, err
	}

	archiveRaw, err := decompressZstd(archiveCompressed)
	if err != nil {
		return nil, errorsx.New(errorsx.CorpusCorrupt, "opengloss.Open", "failed to inflate archive", err)
	}

	fst, err := fstmap.Open(fstBytes)
	if err != nil {
		return nil, err
	}

	archive, err := lexarchive.Open(archiveRaw, cfg.Cache.ArenaCacheBytes, cfg.Cache.ChunkCacheBytes, cfg.Build.ArenaFrameSize, 0)
	if err != nil {
		return nil, err
	}

	sc, err := scanner.New(fst, cfg.Cache.ScannerCacheEntries)
	if err != nil {
		return nil, err
	}

	rk, err := ranker.New(archive, cfg.Cache.RankerCacheEntries)
	if err != nil {
		return nil, err
	}

	return &Index{fst: fst, archive: archive, scanner: sc, ranker: rk, cfg: cfg}, nil
}

// Close releases resources held by the Index's FST reader (e.g. a backing
// mmap, if the FST was loaded from a file rather than held in memory).
func (ix *Index) Close() error {
	return ix.fst.Close()
}

// Len returns the number of lexemes in the corpus.
func (ix *Index) Len() int {
	return ix.archive.Len()
}

// ArchiveVersion returns the lexarchive format version recorded in the
// loaded archive's header, so callers can compare it against the binary's
// own pkg/version.ArchiveVersion before relying on a possibly stale corpus.
func (ix *Index) ArchiveVersion() uint32 {
	return ix.archive.Version()
}

func loadBytes(inline []byte, path, op, what string) ([]byte, error) {
	if inline != nil {
		return inline, nil
	}
	if path == "" {
		return nil, errorsx.New(errorsx.InvalidArgument, op, what+" source not provided: pass bytes or a path", nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errorsx.New(errorsx.CorpusCorrupt, op, "failed to read "+what+" file", err)
	}
	return data, nil
}

func decompressZstd(compressed []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(compressed, nil)
}

// GraphConfig re-exports graphwalk.Config so callers of TraverseGraph do
// not need to import internal/graphwalk directly.
type GraphConfig = graphwalk.Config

// GraphResult re-exports graphwalk.Result.
type GraphResult = graphwalk.Result

// RelationKind re-exports lexarchive.RelationKind.
type RelationKind = lexarchive.RelationKind
