package fstmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestFST(t *testing.T) []byte {
	t.Helper()
	b, err := NewBuilder()
	require.NoError(t, err)

	words := []struct {
		key string
		id  LexemeID
	}{
		{"cat", 1},
		{"catalog", 2},
		{"dog", 3},
		{"doghouse", 4},
		{"zebra", 5},
	}
	for _, w := range words {
		require.NoError(t, b.Insert(w.key, w.id))
	}

	raw, err := b.Freeze()
	require.NoError(t, err)
	return raw
}

func TestInsert_RejectsOutOfOrderKeys(t *testing.T) {
	b, err := NewBuilder()
	require.NoError(t, err)
	require.NoError(t, b.Insert("bravo", 1))

	err = b.Insert("alpha", 2)
	assert.Error(t, err)
}

func TestInsert_RejectsDuplicateKeys(t *testing.T) {
	b, err := NewBuilder()
	require.NoError(t, err)
	require.NoError(t, b.Insert("bravo", 1))

	err = b.Insert("bravo", 2)
	assert.Error(t, err)
}

func TestGet_ExactMatch(t *testing.T) {
	raw := buildTestFST(t)
	r, err := Open(raw)
	require.NoError(t, err)
	defer r.Close()

	id, ok, err := r.Get("dog")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, LexemeID(3), id)

	_, ok, err = r.Get("nonexistent")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPrefixRange_ReturnsOnlyMatchingKeys(t *testing.T) {
	raw := buildTestFST(t)
	r, err := Open(raw)
	require.NoError(t, err)
	defer r.Close()

	var got []string
	err = r.PrefixRange("dog", func(e Entry) bool {
		got = append(got, e.Key)
		return true
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"dog", "doghouse"}, got)
}

func TestAll_VisitsEveryKeyInOrder(t *testing.T) {
	raw := buildTestFST(t)
	r, err := Open(raw)
	require.NoError(t, err)
	defer r.Close()

	var got []string
	err = r.All(func(e Entry) bool {
		got = append(got, e.Key)
		return true
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"cat", "catalog", "dog", "doghouse", "zebra"}, got)
}

func TestAll_StopsEarlyWhenFnReturnsFalse(t *testing.T) {
	raw := buildTestFST(t)
	r, err := Open(raw)
	require.NoError(t, err)
	defer r.Close()

	var got []string
	err = r.All(func(e Entry) bool {
		got = append(got, e.Key)
		return len(got) < 2
	})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
