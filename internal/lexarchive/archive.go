package lexarchive

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"

	"github.com/opengloss/opengloss/internal/arena"
	"github.com/opengloss/opengloss/internal/chunkstore"
	"github.com/opengloss/opengloss/internal/errorsx"
)

// magic identifies an opengloss archive blob.
var magic = [8]byte{'O', 'G', 'L', 'S', 0, 0, 0, 1}

// CurrentVersion is the archive format version this build writes and reads.
const CurrentVersion uint32 = 1

// header is the fixed-size prefix of a decompressed archive blob.
type header struct {
	Magic              [8]byte
	Version            uint32
	NLexemes           uint32
	OffsetsTableOffset uint64
	ArenaOffset        uint64
	ChunkOffset        uint64
}

const headerSize = 8 + 4 + 4 + 8 + 8 + 8

// Archive is the read-only, O(1)-addressable Entry Archive: a decoded
// offsets table over lexeme records plus the String Arena and Chunk Store
// readers those records point into.
type Archive struct {
	version uint32
	offsets []uint64 // byte offset of lexeme i's gob record, within records region
	records []byte   // the records region itself, sliced out of the decompressed blob

	Arena  *arena.Reader
	Chunks *chunkstore.Reader
}

// Version returns the archive format version recorded in the blob's header,
// so a caller (e.g. `openglossctl info`) can surface it against the
// binary's own CurrentVersion before a mismatch causes a load failure.
func (a *Archive) Version() uint32 { return a.version }

// Open parses a fully-decompressed archive blob (the outer Zstd frame has
// already been removed by the caller; the arena and chunk regions remain
// independently, internally compressed).
func Open(blob []byte, arenaCacheBytes, chunkCacheBytes int64, arenaFrameSize, avgChunkSize int) (*Archive, error) {
	if len(blob) < headerSize {
		return nil, errorsx.New(errorsx.CorpusCorrupt, "lexarchive.Open",
			fmt.Sprintf("blob too short for header (%d bytes)", len(blob)), nil)
	}

	var h header
	r := bytes.NewReader(blob[:headerSize])
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, errorsx.New(errorsx.CorpusCorrupt, "lexarchive.Open", "malformed header", err)
	}
	if h.Magic != magic {
		return nil, errorsx.New(errorsx.CorpusCorrupt, "lexarchive.Open", "bad magic bytes", nil)
	}
	if h.Version != CurrentVersion {
		return nil, errorsx.New(errorsx.CorpusCorrupt, "lexarchive.Open",
			fmt.Sprintf("unsupported archive version %d (want %d)", h.Version, CurrentVersion), nil)
	}
	if h.ArenaOffset > uint64(len(blob)) || h.ChunkOffset > uint64(len(blob)) || h.OffsetsTableOffset > uint64(len(blob)) {
		return nil, errorsx.New(errorsx.CorpusCorrupt, "lexarchive.Open", "region offset beyond blob length", nil)
	}

	records := blob[headerSize:h.OffsetsTableOffset]

	offsetsRaw := blob[h.OffsetsTableOffset:h.ArenaOffset]
	offsets := make([]uint64, h.NLexemes)
	or := bytes.NewReader(offsetsRaw)
	for i := range offsets {
		if err := binary.Read(or, binary.LittleEndian, &offsets[i]); err != nil {
			return nil, errorsx.New(errorsx.CorpusCorrupt, "lexarchive.Open",
				fmt.Sprintf("malformed offsets table at lexeme %d", i), err)
		}
	}

	arenaRegion := blob[h.ArenaOffset:h.ChunkOffset]
	arenaReader, err := arena.Open(arenaRegion, arenaCacheBytes, arenaFrameSize)
	if err != nil {
		return nil, errorsx.New(errorsx.CorpusCorrupt, "lexarchive.Open", "failed to open arena region", err)
	}

	chunkRegion := blob[h.ChunkOffset:]
	chunkReader, err := chunkstore.Open(chunkRegion, chunkCacheBytes, avgChunkSize)
	if err != nil {
		return nil, errorsx.New(errorsx.CorpusCorrupt, "lexarchive.Open", "failed to open chunk region", err)
	}

	return &Archive{
		version: h.Version,
		offsets: offsets,
		records: records,
		Arena:   arenaReader,
		Chunks:  chunkReader,
	}, nil
}

// Len returns the number of lexemes in the archive.
func (a *Archive) Len() int { return len(a.offsets) }

// Get decodes and returns the lexeme record for id. Each call re-decodes
// from the records region; callers that need repeated access to the same
// id (rankers, graph walker) should cache the *Lexeme themselves.
func (a *Archive) Get(id LexemeID) (*Lexeme, error) {
	if int(id) >= len(a.offsets) {
		return nil, errorsx.New(errorsx.NotFound, "lexarchive.Get",
			fmt.Sprintf("LexemeId %d out of range (have %d)", id, len(a.offsets)), nil)
	}

	start := a.offsets[id]
	var end uint64
	if int(id)+1 < len(a.offsets) {
		end = a.offsets[id+1]
	} else {
		end = uint64(len(a.records))
	}
	if start > end || end > uint64(len(a.records)) {
		return nil, errorsx.New(errorsx.CorpusCorrupt, "lexarchive.Get",
			fmt.Sprintf("lexeme %d has invalid record bounds [%d,%d)", id, start, end), nil)
	}

	var lex Lexeme
	dec := gob.NewDecoder(bytes.NewReader(a.records[start:end]))
	if err := dec.Decode(&lex); err != nil {
		return nil, errorsx.New(errorsx.CorpusCorrupt, "lexarchive.Get",
			fmt.Sprintf("failed to decode lexeme %d", id), err)
	}
	return &lex, nil
}
