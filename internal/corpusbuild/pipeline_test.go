package corpusbuild

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opengloss/opengloss/pkg/opengloss"
)

const testEntries = `{"id":1,"word":"happy","pos":["adjective"],"senses":[{"definition":"feeling or showing pleasure","pos":"adjective","synonyms":["glad"]}],"entry_text":"Happiness is a positive emotional state.","relations":{"synonyms":["glad"],"antonyms":["sad"]}}
{"id":2,"word":"glad","pos":["adjective"],"senses":[{"definition":"pleased and delighted","pos":"adjective"}],"relations":{"synonyms":["happy"]}}
{"id":3,"word":"sad","pos":["adjective"],"senses":[{"definition":"feeling or showing sorrow","pos":"adjective"}],"relations":{"antonyms":["happy"]}}
`

const testLexemes = "1\tcontent\n2\tpleased\n"

func writeTestCorpus(t *testing.T) (entriesPath, lexemesPath string) {
	t.Helper()
	dir := t.TempDir()
	entriesPath = filepath.Join(dir, "entries.jsonl")
	lexemesPath = filepath.Join(dir, "lexemes.tsv")
	require.NoError(t, os.WriteFile(entriesPath, []byte(testEntries), 0o644))
	require.NoError(t, os.WriteFile(lexemesPath, []byte(testLexemes), 0o644))
	return entriesPath, lexemesPath
}

func TestBuild_ProducesLoadableArtifacts(t *testing.T) {
	entriesPath, lexemesPath := writeTestCorpus(t)
	outDir := t.TempDir()

	report, err := Build(entriesPath, lexemesPath, outDir, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 3, report.Lexemes)
	assert.Greater(t, report.SurfaceForms, 0)
	assert.Equal(t, 0, report.SurfaceCollisions)
	assert.Greater(t, report.EdgesResolved, 0)
	assert.Equal(t, 0, report.EdgesDropped)
	assert.False(t, report.EdgeLossWarning)

	ix, err := opengloss.Open(opengloss.OpenOptions{
		FSTPath:     filepath.Join(outDir, "lexemes.fst"),
		ArchivePath: filepath.Join(outDir, "opengloss_data.archive.zst"),
	})
	require.NoError(t, err)
	defer ix.Close()

	assert.Equal(t, 3, ix.Len())

	ids, err := ix.Get("happy")
	require.NoError(t, err)
	require.Len(t, ids, 1)

	ids, err = ix.Get("content")
	require.NoError(t, err)
	require.Len(t, ids, 1, "alias from lexemes.tsv should resolve to its entry")

	entry, err := ix.EntryByID(ids[0])
	require.NoError(t, err)
	assert.Equal(t, "happy", entry.Word)
}

func TestBuild_DropsUnresolvedRelationTargets(t *testing.T) {
	dir := t.TempDir()
	entriesPath := filepath.Join(dir, "entries.jsonl")
	body := `{"id":1,"word":"orphan","pos":["noun"],"senses":[{"definition":"has no match","pos":"noun"}],"relations":{"synonyms":["nonexistent"]}}
`
	require.NoError(t, os.WriteFile(entriesPath, []byte(body), 0o644))
	outDir := t.TempDir()

	report, err := Build(entriesPath, "", outDir, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 0, report.EdgesResolved)
	assert.Equal(t, 1, report.EdgesDropped)
	assert.Greater(t, report.EdgeLossFraction, 0.0)
}

func TestBuild_IsDeterministic(t *testing.T) {
	entriesPath, lexemesPath := writeTestCorpus(t)

	outA := t.TempDir()
	reportA, err := Build(entriesPath, lexemesPath, outA, DefaultOptions())
	require.NoError(t, err)

	outB := t.TempDir()
	reportB, err := Build(entriesPath, lexemesPath, outB, DefaultOptions())
	require.NoError(t, err)

	fstA, err := os.ReadFile(filepath.Join(outA, "lexemes.fst"))
	require.NoError(t, err)
	fstB, err := os.ReadFile(filepath.Join(outB, "lexemes.fst"))
	require.NoError(t, err)
	assert.Equal(t, fstA, fstB)

	archiveA, err := os.ReadFile(filepath.Join(outA, "opengloss_data.archive.zst"))
	require.NoError(t, err)
	archiveB, err := os.ReadFile(filepath.Join(outB, "opengloss_data.archive.zst"))
	require.NoError(t, err)
	assert.Equal(t, archiveA, archiveB)

	assert.Equal(t, reportA, reportB)
}

func TestBuild_MissingEntriesFileErrors(t *testing.T) {
	outDir := t.TempDir()
	_, err := Build(filepath.Join(outDir, "does-not-exist.jsonl"), "", outDir, DefaultOptions())
	assert.Error(t, err)
}
