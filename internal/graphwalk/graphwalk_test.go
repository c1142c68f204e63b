package graphwalk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opengloss/opengloss/internal/arena"
	"github.com/opengloss/opengloss/internal/chunkstore"
	"github.com/opengloss/opengloss/internal/lexarchive"
)

// buildStarArchive builds a tiny 4-lexeme archive: happy(0) --synonym--> glad(1),
// happy(0) --antonym--> sad(2), glad(1) --hypernym--> emotion(3).
func buildStarArchive(t *testing.T) *lexarchive.Archive {
	t.Helper()

	ab := arena.NewBuilder(256)
	cb := chunkstore.NewBuilder()

	words := []string{"happy", "glad", "sad", "emotion"}
	ids := make([]lexarchive.StrID, len(words))
	for i, w := range words {
		ids[i] = ab.Intern(w)
	}

	lb := lexarchive.NewBuilder()
	lb.Add(lexarchive.Lexeme{
		ID:           0,
		Word:         ids[0],
		SurfaceForms: []lexarchive.StrID{ids[0]},
		POS:          []lexarchive.PartOfSpeech{lexarchive.POSAdjective},
		Edges: []lexarchive.RelationEdge{
			{Kind: lexarchive.RelationSynonym, Target: 1},
			{Kind: lexarchive.RelationAntonym, Target: 2},
		},
		Synonyms: []lexarchive.LexemeID{1},
		Antonyms: []lexarchive.LexemeID{2},
	})
	lb.Add(lexarchive.Lexeme{
		ID:           1,
		Word:         ids[1],
		SurfaceForms: []lexarchive.StrID{ids[1]},
		POS:          []lexarchive.PartOfSpeech{lexarchive.POSAdjective},
		Edges: []lexarchive.RelationEdge{
			{Kind: lexarchive.RelationHypernym, Target: 3},
		},
	})
	lb.Add(lexarchive.Lexeme{
		ID:           2,
		Word:         ids[2],
		SurfaceForms: []lexarchive.StrID{ids[2]},
		POS:          []lexarchive.PartOfSpeech{lexarchive.POSAdjective},
	})
	lb.Add(lexarchive.Lexeme{
		ID:           3,
		Word:         ids[3],
		SurfaceForms: []lexarchive.StrID{ids[3]},
		POS:          []lexarchive.PartOfSpeech{lexarchive.POSNoun},
	})

	arenaRegion, err := ab.Freeze(3)
	require.NoError(t, err)
	chunkRegion, err := cb.Freeze(3)
	require.NoError(t, err)

	blob, err := lb.Freeze(arenaRegion, chunkRegion)
	require.NoError(t, err)

	arc, err := lexarchive.Open(blob, 1<<20, 1<<20, 256, 4096)
	require.NoError(t, err)
	return arc
}

func TestTraverse_DepthZeroReturnsStartOnly(t *testing.T) {
	arc := buildStarArchive(t)

	result, err := Traverse(arc, 0, Config{Depth: 0, MaxNodes: 10, MaxEdges: 10})
	require.NoError(t, err)
	assert.Len(t, result.Nodes, 1)
	assert.Equal(t, "happy", result.Nodes[0].Word)
	assert.Empty(t, result.Edges)
	assert.False(t, result.Truncated)
}

func TestTraverse_ExpandsToDepth(t *testing.T) {
	arc := buildStarArchive(t)

	result, err := Traverse(arc, 0, Config{Depth: 1, MaxNodes: 10, MaxEdges: 10})
	require.NoError(t, err)

	var words []string
	for _, n := range result.Nodes {
		words = append(words, n.Word)
	}
	assert.ElementsMatch(t, []string{"happy", "glad", "sad"}, words)
	assert.Len(t, result.Edges, 2)
}

func TestTraverse_RelationFilter(t *testing.T) {
	arc := buildStarArchive(t)

	result, err := Traverse(arc, 0, Config{
		Depth:     1,
		MaxNodes:  10,
		MaxEdges:  10,
		Relations: map[lexarchive.RelationKind]bool{lexarchive.RelationSynonym: true},
	})
	require.NoError(t, err)

	var words []string
	for _, n := range result.Nodes {
		words = append(words, n.Word)
	}
	assert.ElementsMatch(t, []string{"happy", "glad"}, words)
}

func TestTraverse_NounOnlyFiltersNonNounTargets(t *testing.T) {
	arc := buildStarArchive(t)

	result, err := Traverse(arc, 1, Config{Depth: 2, MaxNodes: 10, MaxEdges: 10, NounOnly: true})
	require.NoError(t, err)

	var words []string
	for _, n := range result.Nodes {
		words = append(words, n.Word)
	}
	assert.ElementsMatch(t, []string{"glad", "emotion"}, words)
}

func TestTraverse_MaxNodesTruncatesAndSkipsDanglingEdges(t *testing.T) {
	arc := buildStarArchive(t)

	result, err := Traverse(arc, 0, Config{Depth: 2, MaxNodes: 2, MaxEdges: 10})
	require.NoError(t, err)

	assert.True(t, result.Truncated)
	assert.LessOrEqual(t, len(result.Nodes), 2)

	known := make(map[lexarchive.LexemeID]bool)
	for _, n := range result.Nodes {
		known[n.ID] = true
	}
	for _, e := range result.Edges {
		assert.True(t, known[e.To], "edge target %d must be in Nodes", e.To)
		assert.True(t, known[e.From], "edge source %d must be in Nodes", e.From)
	}
}

func TestTraverse_MaxEdgesTruncates(t *testing.T) {
	arc := buildStarArchive(t)

	result, err := Traverse(arc, 0, Config{Depth: 2, MaxNodes: 10, MaxEdges: 1})
	require.NoError(t, err)

	assert.True(t, result.Truncated)
	assert.Len(t, result.Edges, 1)
}

func TestConfig_Validate_RejectsOutOfRange(t *testing.T) {
	assert.Error(t, Config{Depth: -1, MaxNodes: 1, MaxEdges: 1}.Validate())
	assert.Error(t, Config{Depth: MaxDepth + 1, MaxNodes: 1, MaxEdges: 1}.Validate())
	assert.Error(t, Config{Depth: 1, MaxNodes: 0, MaxEdges: 1}.Validate())
	assert.Error(t, Config{Depth: 1, MaxNodes: 1, MaxEdges: 0}.Validate())
	assert.NoError(t, Config{Depth: 1, MaxNodes: 1, MaxEdges: 1}.Validate())
}
