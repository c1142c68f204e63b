package arena

import (
	"fmt"
	"testing"
)

func buildBenchArena(b *testing.B, n int, frameSize int) (*Reader, []StrID) {
	b.Helper()

	bld := NewBuilder(frameSize)
	ids := make([]StrID, n)
	for i := 0; i < n; i++ {
		ids[i] = bld.Intern(fmt.Sprintf("surface-form-%d-with-some-trailing-text", i))
	}

	raw, err := bld.Freeze(3)
	if err != nil {
		b.Fatalf("freeze: %v", err)
	}

	reader, err := Open(raw, 1<<20, frameSize)
	if err != nil {
		b.Fatalf("open: %v", err)
	}
	return reader, ids
}

// BenchmarkResolve_WarmCache measures repeated resolves of the same small
// set of strings, so every call after the first hits an already-inflated
// frame.
func BenchmarkResolve_WarmCache(b *testing.B) {
	reader, ids := buildBenchArena(b, 2000, 64*1024)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := reader.Resolve(ids[i%len(ids)]); err != nil {
			b.Fatalf("resolve: %v", err)
		}
	}
}

// BenchmarkResolve_ColdFrames measures resolves scattered across many small
// frames, so the LRU is forced to inflate a different frame on most calls.
func BenchmarkResolve_ColdFrames(b *testing.B) {
	reader, ids := buildBenchArena(b, 5000, 256)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := reader.Resolve(ids[(i*37)%len(ids)]); err != nil {
			b.Fatalf("resolve: %v", err)
		}
	}
}
