// Package chunkstore stores long prose (entry bodies, encyclopedia
// articles) as independently compressed frames, one per chunk, addressed
// by a sorted ChunkId -> (offset, length) table and served through a
// bounded LRU of inflated chunks.
//
// Grounded the same way as internal/arena: a single mutable cache behind a
// read-only store, following Aman-CERP-amanmcp's HNSWStore/BleveBM25Index
// pattern of "decompress/build once, guard the hot cache with a lock".
package chunkstore

import (
	"bytes"
	"encoding/binary"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/klauspost/compress/zstd"
)

// ChunkID is an opaque index into the Chunk Store. Zero means "no chunk".
type ChunkID uint32

type chunkDescriptor struct {
	offset       uint64
	compressed   uint32
	uncompressed uint32
}

// Reader serves inflate-on-demand chunk lookups. Safe for concurrent use.
type Reader struct {
	descriptors []chunkDescriptor // index 0 is the NoChunk sentinel, always empty
	pool        []byte

	cache   *lru.Cache[ChunkID, string]
	decoder *zstd.Decoder
}

// Open parses a frozen chunk region (as produced by Builder.Freeze).
// cacheBytes bounds decompressed bytes held in the LRU at once; the cache
// must function correctly even when cacheBytes makes room for only a
// single chunk.
func Open(raw []byte, cacheBytes int64, avgChunkSize int) (*Reader, error) {
	r := bytes.NewReader(raw)

	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("chunkstore: read count: %w", err)
	}
	descriptors := make([]chunkDescriptor, count)
	for i := range descriptors {
		var off uint64
		var comp, uncomp uint32
		if err := binary.Read(r, binary.LittleEndian, &off); err != nil {
			return nil, fmt.Errorf("chunkstore: read descriptor %d: %w", i, err)
		}
		if err := binary.Read(r, binary.LittleEndian, &comp); err != nil {
			return nil, fmt.Errorf("chunkstore: read descriptor %d: %w", i, err)
		}
		if err := binary.Read(r, binary.LittleEndian, &uncomp); err != nil {
			return nil, fmt.Errorf("chunkstore: read descriptor %d: %w", i, err)
		}
		descriptors[i] = chunkDescriptor{offset: off, compressed: comp, uncompressed: uncomp}
	}

	poolStart := len(raw) - r.Len()
	pool := raw[poolStart:]

	if avgChunkSize <= 0 {
		avgChunkSize = 4096
	}
	maxEntries := int(cacheBytes / int64(avgChunkSize))
	if maxEntries < 1 {
		maxEntries = 1
	}
	cache, err := lru.New[ChunkID, string](maxEntries)
	if err != nil {
		return nil, fmt.Errorf("chunkstore: create cache: %w", err)
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("chunkstore: create decoder: %w", err)
	}

	return &Reader{descriptors: descriptors, pool: pool, cache: cache, decoder: dec}, nil
}

// Get inflates (or serves from cache) the chunk text for id. id 0 (the
// NoChunk sentinel) is never valid input; callers are expected to check
// against chunkstore.NoChunk before calling.
func (r *Reader) Get(id ChunkID) (string, error) {
	if id == NoChunk {
		return "", fmt.Errorf("chunkstore: NoChunk has no content")
	}
	if int(id) >= len(r.descriptors) {
		return "", fmt.Errorf("chunkstore: ChunkId %d out of range (have %d)", id, len(r.descriptors))
	}

	if cached, ok := r.cache.Get(id); ok {
		return cached, nil
	}

	d := r.descriptors[id]
	compressed := r.pool[d.offset : d.offset+uint64(d.compressed)]
	out := make([]byte, 0, d.uncompressed)
	out, err := r.decoder.DecodeAll(compressed, out)
	if err != nil {
		return "", fmt.Errorf("chunkstore: inflate chunk %d: %w", id, err)
	}

	text := string(out)
	r.cache.Add(id, text)
	return text, nil
}

// Contains reports whether id addresses a real chunk.
func (r *Reader) Contains(id ChunkID) bool {
	return id != NoChunk && int(id) < len(r.descriptors)
}

// NoChunk is the sentinel ChunkID meaning "no chunk attached".
const NoChunk ChunkID = 0

// Len returns the number of real chunks (excluding the sentinel slot).
func (r *Reader) Len() int {
	if len(r.descriptors) == 0 {
		return 0
	}
	return len(r.descriptors) - 1
}
