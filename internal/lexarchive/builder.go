package lexarchive

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
)

// Builder assembles the full archive blob: header, lexeme records region,
// offsets table, arena region, chunk region. The arena and chunk region
// bytes are supplied pre-frozen (already internally Zstd-compressed) by
// arena.Builder.Freeze and chunkstore.Builder.Freeze; this builder only
// concatenates and prefixes them with a header, it does not compress
// anything itself. The caller (internal/corpusbuild) Zstd-compresses the
// whole returned blob as the single outer archive frame.
type Builder struct {
	lexemes []Lexeme
}

// NewBuilder creates an empty archive builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Add appends a lexeme record. Lexemes must be added in ascending LexemeId
// order; Add panics if lex.ID does not equal the next expected index, since
// a gap would desync the offsets table from the record stream.
func (b *Builder) Add(lex Lexeme) {
	if int(lex.ID) != len(b.lexemes) {
		panic(fmt.Sprintf("lexarchive: lexeme added out of order: got id %d, want %d", lex.ID, len(b.lexemes)))
	}
	b.lexemes = append(b.lexemes, lex)
}

// Len returns the number of lexemes added so far.
func (b *Builder) Len() int { return len(b.lexemes) }

// Freeze serializes the full archive blob. arenaRegion and chunkRegion are
// the output of arena.Builder.Freeze and chunkstore.Builder.Freeze.
func (b *Builder) Freeze(arenaRegion, chunkRegion []byte) ([]byte, error) {
	var records bytes.Buffer
	offsets := make([]uint64, len(b.lexemes))
	for i, lex := range b.lexemes {
		offsets[i] = uint64(records.Len())
		enc := gob.NewEncoder(&records)
		if err := enc.Encode(lex); err != nil {
			return nil, fmt.Errorf("lexarchive: encode lexeme %d: %w", i, err)
		}
	}

	var offsetsTable bytes.Buffer
	for _, off := range offsets {
		_ = binary.Write(&offsetsTable, binary.LittleEndian, off)
	}

	offsetsTableOffset := uint64(headerSize + records.Len())
	arenaOffset := offsetsTableOffset + uint64(offsetsTable.Len())
	chunkOffset := arenaOffset + uint64(len(arenaRegion))

	h := header{
		Magic:              magic,
		Version:            CurrentVersion,
		NLexemes:           uint32(len(b.lexemes)),
		OffsetsTableOffset: offsetsTableOffset,
		ArenaOffset:        arenaOffset,
		ChunkOffset:        chunkOffset,
	}

	var out bytes.Buffer
	out.Grow(int(chunkOffset) + len(chunkRegion))
	if err := binary.Write(&out, binary.LittleEndian, h); err != nil {
		return nil, fmt.Errorf("lexarchive: write header: %w", err)
	}
	out.Write(records.Bytes())
	out.Write(offsetsTable.Bytes())
	out.Write(arenaRegion)
	out.Write(chunkRegion)

	return out.Bytes(), nil
}
