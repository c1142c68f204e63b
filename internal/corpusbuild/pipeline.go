package corpusbuild

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/sync/errgroup"

	"github.com/opengloss/opengloss/internal/arena"
	"github.com/opengloss/opengloss/internal/chunkstore"
	"github.com/opengloss/opengloss/internal/fstmap"
	"github.com/opengloss/opengloss/internal/lexarchive"
	"github.com/opengloss/opengloss/internal/textnorm"
)

// surfaceKey is one (normalized surface form, target lexeme) pair awaiting
// sort before FST insertion.
type surfaceKey struct {
	key    string
	id     lexarchive.LexemeID
	origin int // insertion order, used to break ties deterministically
}

// Build runs the full eight-step pipeline: it streams entriesPath and
// lexemesPath, and writes lexemes.fst and opengloss_data.archive.zst into
// outDir.
func Build(entriesPath, lexemesPath, outDir string, opts Options) (*Report, error) {
	entries, origToInternal, canonicalIndex, err := streamEntries(entriesPath)
	if err != nil {
		return nil, fmt.Errorf("corpusbuild: step 1 (stream entries): %w", err)
	}

	surfaces, err := collectSurfaceForms(entries, origToInternal, lexemesPath)
	if err != nil {
		return nil, fmt.Errorf("corpusbuild: step 1/2 (collect surface forms): %w", err)
	}

	sort.Slice(surfaces, func(i, j int) bool {
		if surfaces[i].key != surfaces[j].key {
			return surfaces[i].key < surfaces[j].key
		}
		return surfaces[i].origin < surfaces[j].origin
	})

	deduped, collisions := dedupeSurfaces(surfaces)

	fstBytes, surfaceFormsByID, err := buildFST(deduped)
	if err != nil {
		return nil, fmt.Errorf("corpusbuild: step 3 (build FST): %w", err)
	}

	arenaBuilder := arena.NewBuilder(opts.ArenaFrameSize)
	chunkBuilder := chunkstore.NewBuilder()

	lexemes, edgesResolved, edgesDropped, err := buildLexemes(entries, canonicalIndex, surfaceFormsByID, arenaBuilder, chunkBuilder)
	if err != nil {
		return nil, fmt.Errorf("corpusbuild: steps 4-6 (intern/resolve): %w", err)
	}

	archiveBuilder := lexarchive.NewBuilder()
	for _, lex := range lexemes {
		archiveBuilder.Add(lex)
	}

	var arenaRegion, chunkRegion []byte
	g := new(errgroup.Group)
	g.Go(func() error {
		var err error
		arenaRegion, err = arenaBuilder.Freeze(opts.ZstdLevel)
		return err
	})
	g.Go(func() error {
		var err error
		chunkRegion, err = chunkBuilder.Freeze(opts.ZstdLevel)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("corpusbuild: step 5/7 (freeze arena/chunk regions): %w", err)
	}

	rawArchive, err := archiveBuilder.Freeze(arenaRegion, chunkRegion)
	if err != nil {
		return nil, fmt.Errorf("corpusbuild: step 7 (freeze archive): %w", err)
	}

	compressedArchive, err := compressArchive(rawArchive, opts.ZstdLevel)
	if err != nil {
		return nil, fmt.Errorf("corpusbuild: step 7 (compress archive): %w", err)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("corpusbuild: create output dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outDir, "lexemes.fst"), fstBytes, 0o644); err != nil {
		return nil, fmt.Errorf("corpusbuild: write lexemes.fst: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outDir, "opengloss_data.archive.zst"), compressedArchive, 0o644); err != nil {
		return nil, fmt.Errorf("corpusbuild: write archive: %w", err)
	}

	report := &Report{
		Lexemes:           len(lexemes),
		SurfaceForms:      len(deduped),
		SurfaceCollisions: collisions,
		EdgesResolved:     edgesResolved,
		EdgesDropped:      edgesDropped,
		FSTBytes:          len(fstBytes),
		ArchiveBytes:      len(compressedArchive),
		ArchiveBytesRaw:   len(rawArchive),
	}
	if total := edgesResolved + edgesDropped; total > 0 {
		report.EdgeLossFraction = float64(edgesDropped) / float64(total)
		report.EdgeLossWarning = report.EdgeLossFraction > opts.EdgeLossWarnThreshold
	}
	return report, nil
}

// streamEntries reads entries.jsonl (step 1), assigning each entry a dense
// internal LexemeId in the order it is first seen, regardless of its
// source "id" field. It returns the parsed entries in internal-id order,
// a map from source id to internal id (needed to cross-reference
// lexemes.tsv), and a map from normalized canonical word to internal id
// (needed to resolve relation targets in step 6).
func streamEntries(path string) ([]SourceEntry, map[int]lexarchive.LexemeID, map[string]lexarchive.LexemeID, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, nil, err
	}
	defer f.Close()

	var entries []SourceEntry
	origToInternal := make(map[int]lexarchive.LexemeID)
	canonicalIndex := make(map[string]lexarchive.LexemeID)

	scan := bufio.NewScanner(f)
	scan.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scan.Scan() {
		line := strings.TrimSpace(scan.Text())
		if line == "" {
			continue
		}
		var e SourceEntry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			return nil, nil, nil, fmt.Errorf("malformed entry at line %d: %w", len(entries)+1, err)
		}

		internalID := lexarchive.LexemeID(len(entries))
		entries = append(entries, e)
		origToInternal[e.ID] = internalID
		canonicalIndex[textnorm.Normalize(e.Word)] = internalID
	}
	if err := scan.Err(); err != nil {
		return nil, nil, nil, err
	}
	return entries, origToInternal, canonicalIndex, nil
}

// collectSurfaceForms gathers every (surface, id) pair: each entry's
// canonical word, plus every alias row in lexemes.tsv whose source id
// resolves to a known entry.
func collectSurfaceForms(entries []SourceEntry, origToInternal map[int]lexarchive.LexemeID, lexemesPath string) ([]surfaceKey, error) {
	var out []surfaceKey
	origin := 0

	for _, e := range entries {
		id := origToInternal[e.ID]
		out = append(out, surfaceKey{key: textnorm.Normalize(e.Word), id: id, origin: origin})
		origin++
	}

	if lexemesPath == "" {
		return out, nil
	}

	f, err := os.Open(lexemesPath)
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return nil, err
	}
	defer f.Close()

	scan := bufio.NewScanner(f)
	lineNo := 0
	for scan.Scan() {
		lineNo++
		line := strings.TrimRight(scan.Text(), "\r\n")
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "\t", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("lexemes.tsv line %d: expected 2 tab-separated columns", lineNo)
		}
		origID, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, fmt.Errorf("lexemes.tsv line %d: malformed lexeme_id %q: %w", lineNo, parts[0], err)
		}
		internalID, ok := origToInternal[origID]
		if !ok {
			// Alias referring to an id with no entries.jsonl row: skip,
			// there is nothing for it to attach to.
			continue
		}
		out = append(out, surfaceKey{key: textnorm.Normalize(parts[1]), id: internalID, origin: origin})
		origin++
	}
	if err := scan.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// dedupeSurfaces collapses adjacent (sorted) duplicate keys down to one
// entry, keeping the earliest-inserted winner (canonical words, which are
// collected before aliases in collectSurfaceForms, win ties against
// aliases that happen to normalize identically). Returns the deduped,
// still-sorted slice and the number of collisions dropped.
func dedupeSurfaces(sorted []surfaceKey) ([]surfaceKey, int) {
	if len(sorted) == 0 {
		return nil, 0
	}
	out := make([]surfaceKey, 0, len(sorted))
	collisions := 0
	out = append(out, sorted[0])
	for _, s := range sorted[1:] {
		last := out[len(out)-1]
		if s.key == last.key {
			if s.origin < last.origin {
				out[len(out)-1] = s
			}
			collisions++
			continue
		}
		out = append(out, s)
	}
	return out, collisions
}

// buildFST inserts the deduped, sorted surface forms into an FST (step 3)
// and returns the frozen blob along with the set of surface forms mapping
// to each lexeme (needed to populate Lexeme.SurfaceForms in step 7).
func buildFST(sorted []surfaceKey) ([]byte, map[lexarchive.LexemeID][]string, error) {
	b, err := fstmap.NewBuilder()
	if err != nil {
		return nil, nil, err
	}

	byID := make(map[lexarchive.LexemeID][]string)
	for _, s := range sorted {
		if err := b.Insert(s.key, fstmap.LexemeID(s.id)); err != nil {
			return nil, nil, err
		}
		byID[s.id] = append(byID[s.id], s.key)
	}

	blob, err := b.Freeze()
	if err != nil {
		return nil, nil, err
	}
	return blob, byID, nil
}

// buildLexemes interns strings and chunks (steps 4-5) and resolves
// relation targets (step 6), returning archive-ready Lexeme records in
// ascending internal-id order.
func buildLexemes(
	entries []SourceEntry,
	canonicalIndex map[string]lexarchive.LexemeID,
	surfaceFormsByID map[lexarchive.LexemeID][]string,
	arenaBuilder *arena.Builder,
	chunkBuilder *chunkstore.Builder,
) ([]lexarchive.Lexeme, int, int, error) {
	lexemes := make([]lexarchive.Lexeme, len(entries))
	var resolved, dropped int

	resolve := func(surface string) (lexarchive.LexemeID, bool) {
		id, ok := canonicalIndex[textnorm.Normalize(surface)]
		return id, ok
	}

	resolveAll := func(surfaces []string) []lexarchive.LexemeID {
		var ids []lexarchive.LexemeID
		for _, s := range surfaces {
			if id, ok := resolve(s); ok {
				ids = append(ids, id)
				resolved++
			} else {
				dropped++
			}
		}
		return ids
	}

	for i, e := range entries {
		id := lexarchive.LexemeID(i)

		pos := make([]lexarchive.PartOfSpeech, 0, len(e.POS))
		for _, p := range e.POS {
			pos = append(pos, lexarchive.PartOfSpeech(p))
		}

		senses := make([]lexarchive.Sense, 0, len(e.Senses))
		for _, s := range e.Senses {
			examples := make([]arena.StrID, 0, len(s.Examples))
			for _, ex := range s.Examples {
				examples = append(examples, arenaBuilder.Intern(ex))
			}
			senses = append(senses, lexarchive.Sense{
				Definition: arenaBuilder.Intern(s.Definition),
				Examples:   examples,
				POS:        lexarchive.PartOfSpeech(s.POS),
				Synonyms:   resolveAll(s.Synonyms),
				Antonyms:   resolveAll(s.Antonyms),
			})
		}

		var edges []lexarchive.RelationEdge
		for _, target := range resolveAll(e.Relations.Synonyms) {
			edges = append(edges, lexarchive.RelationEdge{Kind: lexarchive.RelationSynonym, Target: target})
		}
		for _, target := range resolveAll(e.Relations.Antonyms) {
			edges = append(edges, lexarchive.RelationEdge{Kind: lexarchive.RelationAntonym, Target: target})
		}
		for _, target := range resolveAll(e.Relations.Hypernyms) {
			edges = append(edges, lexarchive.RelationEdge{Kind: lexarchive.RelationHypernym, Target: target})
		}
		for _, target := range resolveAll(e.Relations.Hyponyms) {
			edges = append(edges, lexarchive.RelationEdge{Kind: lexarchive.RelationHyponym, Target: target})
		}

		surfaceIDs := make([]arena.StrID, 0, len(surfaceFormsByID[id]))
		for _, s := range surfaceFormsByID[id] {
			surfaceIDs = append(surfaceIDs, arenaBuilder.Intern(s))
		}

		var entryBody, encyclopedia lexarchive.ChunkID
		if e.EntryText != "" {
			entryBody = chunkBuilder.Put(e.EntryText)
		}
		if e.Encyclopedia != "" {
			encyclopedia = chunkBuilder.Put(e.Encyclopedia)
		}

		var aggSyn, aggAnt []lexarchive.LexemeID
		for _, edge := range edges {
			switch edge.Kind {
			case lexarchive.RelationSynonym:
				aggSyn = append(aggSyn, edge.Target)
			case lexarchive.RelationAntonym:
				aggAnt = append(aggAnt, edge.Target)
			}
		}

		lexemes[i] = lexarchive.Lexeme{
			ID:           id,
			Word:         arenaBuilder.Intern(textnorm.Normalize(e.Word)),
			SurfaceForms: surfaceIDs,
			POS:          pos,
			Senses:       senses,
			Synonyms:     aggSyn,
			Antonyms:     aggAnt,
			Edges:        edges,
			Encyclopedia: encyclopedia,
			EntryBody:    entryBody,
		}
	}

	return lexemes, resolved, dropped, nil
}

// compressArchive wraps the outer archive blob in a single Zstd frame
// (step 7's final compression, applied after lexarchive.Builder.Freeze has
// already concatenated the header, records, offsets table, and the
// independently-framed arena/chunk regions).
func compressArchive(raw []byte, level int) ([]byte, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(raw, make([]byte, 0, len(raw)/2)), nil
}

// DecompressArchive reverses compressArchive; used by the runtime loader.
func DecompressArchive(compressed []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(compressed, nil)
}
