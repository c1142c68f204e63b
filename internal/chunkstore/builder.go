package chunkstore

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// Builder accumulates chunk text during the build's first pass and emits
// one independent compressed frame per chunk once Freeze is called.
type Builder struct {
	chunks [][]byte // slot 0 reserved for NoChunk, always empty
}

// NewBuilder creates an empty chunk store builder. Slot 0 is pre-reserved
// as the NoChunk sentinel so the first real Put returns ChunkID(1).
func NewBuilder() *Builder {
	return &Builder{chunks: [][]byte{nil}}
}

// Put stores content as a new chunk and returns its id. Unlike the arena,
// chunk content is not deduplicated: entry bodies and encyclopedia articles
// are large and distinct per lexeme, so interning would rarely pay off.
func (b *Builder) Put(content string) ChunkID {
	id := ChunkID(len(b.chunks))
	b.chunks = append(b.chunks, []byte(content))
	return id
}

// Len returns the number of real chunks stored so far (excluding the
// NoChunk sentinel).
func (b *Builder) Len() int { return len(b.chunks) - 1 }

// Freeze compresses each chunk into its own Zstd frame and serializes the
// descriptor table plus frame pool in the format Open expects. level is the
// Zstd compression level.
func (b *Builder) Freeze(level int) ([]byte, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
	if err != nil {
		return nil, fmt.Errorf("chunkstore: create encoder: %w", err)
	}
	defer enc.Close()

	descriptors := make([]chunkDescriptor, len(b.chunks))
	var pool bytes.Buffer
	for i, c := range b.chunks {
		if i == 0 {
			descriptors[0] = chunkDescriptor{}
			continue
		}
		compressed := enc.EncodeAll(c, nil)
		descriptors[i] = chunkDescriptor{
			offset:       uint64(pool.Len()),
			compressed:   uint32(len(compressed)),
			uncompressed: uint32(len(c)),
		}
		pool.Write(compressed)
	}

	var out bytes.Buffer
	_ = binary.Write(&out, binary.LittleEndian, uint32(len(descriptors)))
	for _, d := range descriptors {
		_ = binary.Write(&out, binary.LittleEndian, d.offset)
		_ = binary.Write(&out, binary.LittleEndian, d.compressed)
		_ = binary.Write(&out, binary.LittleEndian, d.uncompressed)
	}
	out.Write(pool.Bytes())

	return out.Bytes(), nil
}
