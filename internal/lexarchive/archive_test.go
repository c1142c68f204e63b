package lexarchive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opengloss/opengloss/internal/arena"
	"github.com/opengloss/opengloss/internal/chunkstore"
	"github.com/opengloss/opengloss/internal/errorsx"
)

func buildTinyArchive(t *testing.T) []byte {
	t.Helper()

	ab := arena.NewBuilder(256)
	cb := chunkstore.NewBuilder()

	wordID := ab.Intern("hound")
	defID := ab.Intern("a dog bred or used for hunting")
	entryChunk := cb.Put("The hound is among the oldest dog types, bred for scent or sight hunting.")

	lb := NewBuilder()
	lb.Add(Lexeme{
		ID:           0,
		Word:         wordID,
		SurfaceForms: []StrID{wordID},
		POS:          []PartOfSpeech{POSNoun},
		Senses: []Sense{
			{Definition: defID, POS: POSNoun},
		},
		Encyclopedia: NoChunk,
		EntryBody:    entryChunk,
	})

	arenaRegion, err := ab.Freeze(3)
	require.NoError(t, err)
	chunkRegion, err := cb.Freeze(3)
	require.NoError(t, err)

	blob, err := lb.Freeze(arenaRegion, chunkRegion)
	require.NoError(t, err)
	return blob
}

func TestArchive_RoundTrip(t *testing.T) {
	blob := buildTinyArchive(t)

	a, err := Open(blob, 1<<20, 1<<20, 256, 4096)
	require.NoError(t, err)
	require.Equal(t, 1, a.Len())

	lex, err := a.Get(0)
	require.NoError(t, err)
	assert.True(t, lex.HasPOS(POSNoun))
	assert.False(t, lex.HasPOS(POSVerb))

	word, err := a.Arena.Resolve(lex.Word)
	require.NoError(t, err)
	assert.Equal(t, "hound", word)

	def, err := a.Arena.Resolve(lex.Senses[0].Definition)
	require.NoError(t, err)
	assert.Equal(t, "a dog bred or used for hunting", def)

	body, err := a.Chunks.Get(lex.EntryBody)
	require.NoError(t, err)
	assert.Contains(t, body, "scent or sight hunting")
}

func TestArchive_Get_OutOfRange(t *testing.T) {
	blob := buildTinyArchive(t)
	a, err := Open(blob, 1<<20, 1<<20, 256, 4096)
	require.NoError(t, err)

	_, err = a.Get(LexemeID(99))
	assert.Error(t, err)
	assert.True(t, errorsx.IsKind(err, errorsx.NotFound))
}

func TestOpen_RejectsBadMagic(t *testing.T) {
	blob := buildTinyArchive(t)
	corrupted := append([]byte(nil), blob...)
	corrupted[0] = 'X'

	_, err := Open(corrupted, 1<<20, 1<<20, 256, 4096)
	assert.Error(t, err)
	assert.True(t, errorsx.IsKind(err, errorsx.CorpusCorrupt))
}

func TestOpen_RejectsTruncatedHeader(t *testing.T) {
	_, err := Open([]byte{1, 2, 3}, 1<<20, 1<<20, 256, 4096)
	assert.Error(t, err)
	assert.True(t, errorsx.IsKind(err, errorsx.CorpusCorrupt))
}

func TestBuilder_Add_PanicsOutOfOrder(t *testing.T) {
	lb := NewBuilder()
	assert.Panics(t, func() {
		lb.Add(Lexeme{ID: 5})
	})
}
