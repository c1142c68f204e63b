package opengloss

import (
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opengloss/opengloss/internal/arena"
	"github.com/opengloss/opengloss/internal/chunkstore"
	"github.com/opengloss/opengloss/internal/fstmap"
	"github.com/opengloss/opengloss/internal/lexarchive"
)

// buildTestIndex assembles a tiny three-lexeme corpus (cat, catalog, dog)
// entirely in memory and opens an Index over it, exercising the same wiring
// the build pipeline and Open use at runtime.
func buildTestIndex(t *testing.T) *Index {
	t.Helper()

	ab := arena.NewBuilder(4096)
	cb := chunkstore.NewBuilder()

	wordCat := ab.Intern("cat")
	defCat := ab.Intern("a small domesticated carnivorous mammal")
	wordCatalog := ab.Intern("catalog")
	defCatalog := ab.Intern("a complete list of items")
	wordDog := ab.Intern("dog")
	defDog := ab.Intern("a domesticated carnivorous mammal that barks")

	entryCat := cb.Put("Cats have been domesticated for thousands of years and are popular pets worldwide.")

	lb := lexarchive.NewBuilder()
	lb.Add(lexarchive.Lexeme{
		ID:           0,
		Word:         wordCat,
		SurfaceForms: []lexarchive.StrID{wordCat},
		POS:          []lexarchive.PartOfSpeech{lexarchive.POSNoun},
		Senses:       []lexarchive.Sense{{Definition: defCat, POS: lexarchive.POSNoun}},
		Edges:        []lexarchive.RelationEdge{{Kind: lexarchive.RelationHyponym, Target: 1}},
		EntryBody:    entryCat,
	})
	lb.Add(lexarchive.Lexeme{
		ID:           1,
		Word:         wordCatalog,
		SurfaceForms: []lexarchive.StrID{wordCatalog},
		POS:          []lexarchive.PartOfSpeech{lexarchive.POSNoun},
		Senses:       []lexarchive.Sense{{Definition: defCatalog, POS: lexarchive.POSNoun}},
	})
	lb.Add(lexarchive.Lexeme{
		ID:           2,
		Word:         wordDog,
		SurfaceForms: []lexarchive.StrID{wordDog},
		POS:          []lexarchive.PartOfSpeech{lexarchive.POSNoun},
		Senses:       []lexarchive.Sense{{Definition: defDog, POS: lexarchive.POSNoun}},
	})

	arenaRegion, err := ab.Freeze(3)
	require.NoError(t, err)
	chunkRegion, err := cb.Freeze(3)
	require.NoError(t, err)
	archiveRaw, err := lb.Freeze(arenaRegion, chunkRegion)
	require.NoError(t, err)

	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	archiveCompressed := enc.EncodeAll(archiveRaw, nil)
	require.NoError(t, enc.Close())

	fb, err := fstmap.NewBuilder()
	require.NoError(t, err)
	require.NoError(t, fb.Insert("cat", fstmap.LexemeID(0)))
	require.NoError(t, fb.Insert("catalog", fstmap.LexemeID(1)))
	require.NoError(t, fb.Insert("dog", fstmap.LexemeID(2)))
	fstBytes, err := fb.Freeze()
	require.NoError(t, err)

	ix, err := Open(OpenOptions{FSTBytes: fstBytes, ArchiveBytes: archiveCompressed})
	require.NoError(t, err)
	t.Cleanup(func() { ix.Close() })
	return ix
}

func TestGet_ExactMatch(t *testing.T) {
	ix := buildTestIndex(t)

	ids, err := ix.Get("cat")
	require.NoError(t, err)
	require.Len(t, ids, 1)
	assert.Equal(t, LexemeID(0), ids[0])
}

func TestGet_NoMatchReturnsEmptyNotError(t *testing.T) {
	ix := buildTestIndex(t)

	ids, err := ix.Get("nonexistent")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestGet_RejectsEmptyWord(t *testing.T) {
	ix := buildTestIndex(t)
	_, err := ix.Get("")
	assert.Error(t, err)
}

func TestPrefix_ReturnsMatchingSurfaceForms(t *testing.T) {
	ix := buildTestIndex(t)

	hits, err := ix.Prefix("cat", 10)
	require.NoError(t, err)

	var words []string
	for _, h := range hits {
		words = append(words, h.Surface)
	}
	assert.Equal(t, []string{"cat", "catalog"}, words)
}

func TestSearchContains_FindsMidWordMatches(t *testing.T) {
	ix := buildTestIndex(t)

	hits, err := ix.SearchContains("alo", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "catalog", hits[0].Surface)
}

func TestEntryByWord_ResolvesFullRecord(t *testing.T) {
	ix := buildTestIndex(t)

	entry, err := ix.EntryByWord("cat")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "cat", entry.Word)
	assert.Contains(t, entry.EntryText, "domesticated")
	assert.Len(t, entry.Senses, 1)
}

func TestEntryByWord_NoMatchReturnsNil(t *testing.T) {
	ix := buildTestIndex(t)

	entry, err := ix.EntryByWord("nonexistent")
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestTraverseGraph_FollowsResolvedEdges(t *testing.T) {
	ix := buildTestIndex(t)

	result, err := ix.TraverseGraph(0, GraphConfig{Depth: 1, MaxNodes: 10, MaxEdges: 10})
	require.NoError(t, err)

	var words []string
	for _, n := range result.Nodes {
		words = append(words, n.Word)
	}
	assert.ElementsMatch(t, []string{"cat", "catalog"}, words)
}

func TestTypeahead_TopsUpWithSubstringMatches(t *testing.T) {
	ix := buildTestIndex(t)

	hits, err := ix.Typeahead("alo", 10)
	require.NoError(t, err)

	var words []string
	for _, h := range hits {
		words = append(words, h.Surface)
	}
	assert.Contains(t, words, "catalog")
}

func TestTypeahead_ShortQueryWithoutWordBoundarySkipsTopUp(t *testing.T) {
	ix := buildTestIndex(t)

	// "al" is a substring of "catalog" but a prefix of no surface form, so
	// any hit here would have come from substring top-up.
	hits, err := ix.Typeahead("al", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestDefaultFuzzyConfig_SeedsWeightsFromConfig(t *testing.T) {
	ix := buildTestIndex(t)

	cfg := ix.DefaultFuzzyConfig()
	assert.Greater(t, cfg.Weights["word"], 0.0)
	assert.Greater(t, cfg.Limit, 0)
}

func TestSearchFuzzy_FindsTypoedWord(t *testing.T) {
	ix := buildTestIndex(t)

	cfg := ix.DefaultFuzzyConfig()
	hits, err := ix.SearchFuzzy("catt", cfg)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, "cat", hits[0].Word)
}

func TestLen_ReturnsLexemeCount(t *testing.T) {
	ix := buildTestIndex(t)
	assert.Equal(t, 3, ix.Len())
}
