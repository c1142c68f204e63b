package chunkstore

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip_MultipleChunks(t *testing.T) {
	b := NewBuilder()
	id1 := b.Put("a short entry body")
	id2 := b.Put(strings.Repeat("a long encyclopedia article. ", 200))
	assert.Equal(t, 2, b.Len())

	raw, err := b.Freeze(3)
	require.NoError(t, err)

	r, err := Open(raw, 1<<20, 4096)
	require.NoError(t, err)
	require.Equal(t, 2, r.Len())

	got1, err := r.Get(id1)
	require.NoError(t, err)
	assert.Equal(t, "a short entry body", got1)

	got2, err := r.Get(id2)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got2, "a long encyclopedia article."))
}

func TestGet_NoChunkIsRejected(t *testing.T) {
	b := NewBuilder()
	b.Put("content")
	raw, err := b.Freeze(1)
	require.NoError(t, err)

	r, err := Open(raw, 1024, 4096)
	require.NoError(t, err)

	_, err = r.Get(NoChunk)
	assert.Error(t, err)
	assert.False(t, r.Contains(NoChunk))
}

func TestGet_OutOfRange(t *testing.T) {
	b := NewBuilder()
	b.Put("only")
	raw, err := b.Freeze(1)
	require.NoError(t, err)

	r, err := Open(raw, 1024, 4096)
	require.NoError(t, err)

	_, err = r.Get(ChunkID(99))
	assert.Error(t, err)
	assert.False(t, r.Contains(ChunkID(99)))
}

func TestOpen_ZeroSizeCacheStillFunctions(t *testing.T) {
	b := NewBuilder()
	id := b.Put("content")
	raw, err := b.Freeze(1)
	require.NoError(t, err)

	r, err := Open(raw, 0, 4096)
	require.NoError(t, err)

	got, err := r.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "content", got)
}

func TestGet_RepeatedAccessHitsCache(t *testing.T) {
	b := NewBuilder()
	id := b.Put("repeated chunk")
	raw, err := b.Freeze(3)
	require.NoError(t, err)

	r, err := Open(raw, 1<<20, 4096)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		got, err := r.Get(id)
		require.NoError(t, err)
		assert.Equal(t, "repeated chunk", got)
	}
}
