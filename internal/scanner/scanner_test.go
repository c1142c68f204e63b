package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opengloss/opengloss/internal/fstmap"
)

func buildTestScanner(t *testing.T) *Scanner {
	t.Helper()
	b, err := fstmap.NewBuilder()
	require.NoError(t, err)

	words := []struct {
		key string
		id  fstmap.LexemeID
	}{
		{"catalog", 1},
		{"category", 2},
		{"dog", 3},
		{"doghouse", 4},
		{"underdog", 5},
	}
	for _, w := range words {
		require.NoError(t, b.Insert(w.key, w.id))
	}
	raw, err := b.Freeze()
	require.NoError(t, err)

	fst, err := fstmap.Open(raw)
	require.NoError(t, err)
	t.Cleanup(func() { fst.Close() })

	s, err := New(fst, 16)
	require.NoError(t, err)
	return s
}

func TestContains_FindsMidWordMatches(t *testing.T) {
	s := buildTestScanner(t)

	hits, err := s.Contains("dog", 10)
	require.NoError(t, err)

	var keys []string
	for _, h := range hits {
		keys = append(keys, h.Key)
	}
	assert.ElementsMatch(t, []string{"dog", "doghouse", "underdog"}, keys)
}

func TestContains_IsCaseInsensitive(t *testing.T) {
	s := buildTestScanner(t)

	hits, err := s.Contains("DOG", 10)
	require.NoError(t, err)
	assert.Len(t, hits, 3)
}

func TestContains_OrdersByLexemeIDAndTruncates(t *testing.T) {
	s := buildTestScanner(t)

	hits, err := s.Contains("cat", 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, fstmap.LexemeID(1), hits[0].ID)
}

func TestContains_RejectsEmptyQuery(t *testing.T) {
	s := buildTestScanner(t)
	_, err := s.Contains("", 10)
	assert.Error(t, err)
}

func TestContains_CachesRepeatedQueries(t *testing.T) {
	s := buildTestScanner(t)

	first, err := s.Contains("dog", 10)
	require.NoError(t, err)

	second, err := s.Contains("dog", 10)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
