// Package arena interns every short string (surface form, relation label,
// part-of-speech tag) into one blob, compressed in fixed-size frames so any
// frame can be inflated independently, and resolved back through an opaque
// StrId.
//
// Grounded on Aman-CERP-amanmcp's internal/store/hnsw.go and bm25.go, which
// guard a single mutable index behind a sync.RWMutex and treat persistence
// as "decompress once, serve from memory after". The frame cache here plays
// the same role those LRU-backed stores play: the only mutable state
// behind an otherwise read-only component.
package arena

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/klauspost/compress/zstd"

	lru "github.com/hashicorp/golang-lru/v2"
)

// StrID is an opaque index into the String Arena, interpreted only here.
type StrID uint32

// frameDescriptor locates one compressed frame within the region's frame
// byte pool.
type frameDescriptor struct {
	offset       uint64
	compressed   uint32
	uncompressed uint32
}

// stringLocation is where one interned string lives: which frame, its
// intra-frame byte offset once that frame is inflated, and its length.
type stringLocation struct {
	frame  uint32
	offset uint32
	length uint32
}

// Reader serves string lookups out of inflated frames over a frozen arena
// region; each lookup returns a copy. It is safe for concurrent use.
type Reader struct {
	locations []stringLocation
	frames    []frameDescriptor
	framePool []byte // concatenated compressed frame bytes

	cache   *lru.Cache[uint32, []byte]
	decoder *zstd.Decoder
}

// Open parses a frozen arena region (as produced by Builder.Freeze) and
// wires it to a bounded LRU cache of inflated frames. cacheBytes bounds how
// many decompressed bytes may be held at once; the cache stores whole
// frames, not individual strings, so actual memory use is a small multiple
// of the arena's frame size.
func Open(raw []byte, cacheBytes int64, frameSize int) (*Reader, error) {
	if len(raw) < 8 {
		return nil, fmt.Errorf("arena: region too short (%d bytes)", len(raw))
	}
	r := bytes.NewReader(raw)

	var stringCount uint32
	if err := binary.Read(r, binary.LittleEndian, &stringCount); err != nil {
		return nil, fmt.Errorf("arena: read string count: %w", err)
	}
	locations := make([]stringLocation, stringCount)
	for i := range locations {
		var frame, off, length uint32
		if err := binary.Read(r, binary.LittleEndian, &frame); err != nil {
			return nil, fmt.Errorf("arena: read location %d: %w", i, err)
		}
		if err := binary.Read(r, binary.LittleEndian, &off); err != nil {
			return nil, fmt.Errorf("arena: read location %d: %w", i, err)
		}
		if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
			return nil, fmt.Errorf("arena: read location %d: %w", i, err)
		}
		locations[i] = stringLocation{frame: frame, offset: off, length: length}
	}

	var frameCount uint32
	if err := binary.Read(r, binary.LittleEndian, &frameCount); err != nil {
		return nil, fmt.Errorf("arena: read frame count: %w", err)
	}
	frames := make([]frameDescriptor, frameCount)
	for i := range frames {
		var off uint64
		var comp, uncomp uint32
		if err := binary.Read(r, binary.LittleEndian, &off); err != nil {
			return nil, fmt.Errorf("arena: read frame %d: %w", i, err)
		}
		if err := binary.Read(r, binary.LittleEndian, &comp); err != nil {
			return nil, fmt.Errorf("arena: read frame %d: %w", i, err)
		}
		if err := binary.Read(r, binary.LittleEndian, &uncomp); err != nil {
			return nil, fmt.Errorf("arena: read frame %d: %w", i, err)
		}
		frames[i] = frameDescriptor{offset: off, compressed: comp, uncompressed: uncomp}
	}

	poolStart := len(raw) - r.Len()
	framePool := raw[poolStart:]

	if cacheBytes <= 0 {
		cacheBytes = 1 // a cache of size zero must still function correctly
	}
	avgFrame := int64(frameSize)
	if avgFrame <= 0 {
		avgFrame = 64 * 1024
	}
	maxEntries := int(cacheBytes / avgFrame)
	if maxEntries < 1 {
		maxEntries = 1
	}
	cache, err := lru.New[uint32, []byte](maxEntries)
	if err != nil {
		return nil, fmt.Errorf("arena: create cache: %w", err)
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("arena: create decoder: %w", err)
	}

	return &Reader{
		locations: locations,
		frames:    frames,
		framePool: framePool,
		cache:     cache,
		decoder:   dec,
	}, nil
}

// Resolve returns the interned string for id. The returned string is a copy
// out of an inflated frame; callers do not need to worry about the frame
// being evicted from the underlying cache mid-use, since Go strings are
// immutable copies here rather than slices into cache-owned buffers.
func (r *Reader) Resolve(id StrID) (string, error) {
	idx := uint32(id)
	if int(idx) >= len(r.locations) {
		return "", fmt.Errorf("arena: StrId %d out of range (have %d)", idx, len(r.locations))
	}
	loc := r.locations[idx]

	frameBytes, err := r.inflateFrame(loc.frame)
	if err != nil {
		return "", err
	}
	end := int(loc.offset) + int(loc.length)
	if end > len(frameBytes) {
		return "", fmt.Errorf("arena: string %d exceeds inflated frame bounds", idx)
	}
	return string(frameBytes[loc.offset:end]), nil
}

// Len returns the number of interned strings.
func (r *Reader) Len() int { return len(r.locations) }

func (r *Reader) inflateFrame(frameIdx uint32) ([]byte, error) {
	if cached, ok := r.cache.Get(frameIdx); ok {
		return cached, nil
	}
	if int(frameIdx) >= len(r.frames) {
		return nil, fmt.Errorf("arena: frame %d out of range", frameIdx)
	}
	d := r.frames[frameIdx]
	compressed := r.framePool[d.offset : d.offset+uint64(d.compressed)]

	out := make([]byte, 0, d.uncompressed)
	out, err := r.decoder.DecodeAll(compressed, out)
	if err != nil {
		return nil, fmt.Errorf("arena: inflate frame %d: %w", frameIdx, err)
	}
	r.cache.Add(frameIdx, out)
	return out, nil
}
