package chunkstore

import (
	"fmt"
	"strings"
	"testing"
)

func buildBenchStore(b *testing.B, n int) (*Reader, []ChunkID) {
	b.Helper()

	bld := NewBuilder()
	ids := make([]ChunkID, n)
	for i := 0; i < n; i++ {
		ids[i] = bld.Put(fmt.Sprintf("encyclopedia article %d. ", i) + strings.Repeat("filler prose. ", 50))
	}

	raw, err := bld.Freeze(3)
	if err != nil {
		b.Fatalf("freeze: %v", err)
	}

	reader, err := Open(raw, 1<<20, 4096)
	if err != nil {
		b.Fatalf("open: %v", err)
	}
	return reader, ids
}

// BenchmarkGet_WarmCache measures repeated inflation of a small, cache-resident
// chunk set, the steady state once a corpus's hot entries are loaded.
func BenchmarkGet_WarmCache(b *testing.B) {
	reader, ids := buildBenchStore(b, 200)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := reader.Get(ids[i%len(ids)]); err != nil {
			b.Fatalf("get: %v", err)
		}
	}
}

// BenchmarkGet_ColdRotation measures inflation cost when the access pattern
// cycles through more chunks than the cache can hold.
func BenchmarkGet_ColdRotation(b *testing.B) {
	reader, ids := buildBenchStore(b, 5000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := reader.Get(ids[(i*53)%len(ids)]); err != nil {
			b.Fatalf("get: %v", err)
		}
	}
}
