package arena

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// Builder hash-interns strings during the build's first pass and emits
// compressed frames once Freeze is called.
type Builder struct {
	frameSize int
	seen      map[string]StrID
	locations []stringLocation // index == StrID
	cur       bytes.Buffer
	frames    [][]byte // closed, uncompressed frame payloads
}

// NewBuilder creates an arena builder that closes a frame once its
// accumulated uncompressed size would exceed frameSize bytes.
func NewBuilder(frameSize int) *Builder {
	if frameSize <= 0 {
		frameSize = 64 * 1024
	}
	return &Builder{
		frameSize: frameSize,
		seen:      make(map[string]StrID),
	}
}

// Intern returns the StrID for s, assigning a new one if s has not been
// seen before. Interning is idempotent: the same string always yields the
// same id within one Builder.
func (b *Builder) Intern(s string) StrID {
	if id, ok := b.seen[s]; ok {
		return id
	}

	if b.cur.Len() > 0 && b.cur.Len()+len(s) > b.frameSize {
		b.closeFrame()
	}

	id := StrID(len(b.locations))
	b.locations = append(b.locations, stringLocation{
		frame:  uint32(len(b.frames)),
		offset: uint32(b.cur.Len()),
		length: uint32(len(s)),
	})
	b.seen[s] = id
	b.cur.WriteString(s)

	return id
}

func (b *Builder) closeFrame() {
	if b.cur.Len() == 0 {
		return
	}
	b.frames = append(b.frames, append([]byte(nil), b.cur.Bytes()...))
	b.cur.Reset()
}

// Freeze compresses all accumulated frames and serializes the full arena
// region (location table + frame descriptor table + frame bytes) in the
// format Open expects. level is the Zstd compression level (~19 for
// release builds).
func (b *Builder) Freeze(level int) ([]byte, error) {
	b.closeFrame()

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
	if err != nil {
		return nil, fmt.Errorf("arena: create encoder: %w", err)
	}
	defer enc.Close()

	var framePool bytes.Buffer
	descriptors := make([]frameDescriptor, len(b.frames))
	for i, f := range b.frames {
		compressed := enc.EncodeAll(f, nil)
		descriptors[i] = frameDescriptor{
			offset:       uint64(framePool.Len()),
			compressed:   uint32(len(compressed)),
			uncompressed: uint32(len(f)),
		}
		framePool.Write(compressed)
	}

	var out bytes.Buffer
	_ = binary.Write(&out, binary.LittleEndian, uint32(len(b.locations)))
	for _, loc := range b.locations {
		_ = binary.Write(&out, binary.LittleEndian, loc.frame)
		_ = binary.Write(&out, binary.LittleEndian, loc.offset)
		_ = binary.Write(&out, binary.LittleEndian, loc.length)
	}
	_ = binary.Write(&out, binary.LittleEndian, uint32(len(descriptors)))
	for _, d := range descriptors {
		_ = binary.Write(&out, binary.LittleEndian, d.offset)
		_ = binary.Write(&out, binary.LittleEndian, d.compressed)
		_ = binary.Write(&out, binary.LittleEndian, d.uncompressed)
	}
	out.Write(framePool.Bytes())

	return out.Bytes(), nil
}

// Len returns the number of interned strings so far.
func (b *Builder) Len() int { return len(b.locations) }
