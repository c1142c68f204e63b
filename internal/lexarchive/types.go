// Package lexarchive implements the Entry Archive: a packed, O(1)
// addressable record store. Each lexeme's part-of-speech list, senses,
// aggregate synonyms/antonyms, encyclopedia chunk handle, and outgoing
// relation edges are reachable by LexemeId: the archive is inflated once at
// load, and an offsets table locates each lexeme's gob-encoded record in
// O(1). Records are not decoded up front; every lookup gob-decodes the one
// record it reads, so each query pays a per-record deserialization.
//
// Grounded on Aman-CERP-amanmcp's internal/store/types.go: that package
// defines the domain records (Chunk, File, Symbol) once and hands every
// store implementation the same plain structs. This package plays the same
// role for a read-only, build-once corpus.
package lexarchive

import (
	"github.com/opengloss/opengloss/internal/arena"
	"github.com/opengloss/opengloss/internal/chunkstore"
)

// LexemeID is a dense, build-time-assigned identifier in [0, N).
type LexemeID uint32

// StrID is an opaque handle into the String Arena. Aliased rather than
// redeclared so values resolved by an *arena.Reader need no conversion.
type StrID = arena.StrID

// ChunkID is an opaque handle into the Chunk Store. The zero value means
// "no chunk" (lexemes and senses treat 0 as absent; build code reserves
// slot 0 for this purpose).
type ChunkID = chunkstore.ChunkID

// NoChunk is the sentinel ChunkID meaning "no encyclopedia/entry-body
// chunk attached".
const NoChunk ChunkID = chunkstore.NoChunk

// SenseIdx is a zero-based position within a lexeme's sense list.
type SenseIdx int

// PartOfSpeech tags a lexeme or sense with its grammatical category.
type PartOfSpeech string

const (
	POSNoun         PartOfSpeech = "noun"
	POSVerb         PartOfSpeech = "verb"
	POSAdjective    PartOfSpeech = "adjective"
	POSAdverb       PartOfSpeech = "adverb"
	POSPronoun      PartOfSpeech = "pronoun"
	POSPreposition  PartOfSpeech = "preposition"
	POSConjunction  PartOfSpeech = "conjunction"
	POSInterjection PartOfSpeech = "interjection"
)

// RelationKind is the closed, tagged variant of relation edges: four
// values, known at build time; adding a kind requires an archive version
// bump.
type RelationKind uint8

const (
	RelationSynonym RelationKind = iota
	RelationAntonym
	RelationHypernym
	RelationHyponym
)

// String renders a RelationKind for diagnostics and DOT/JSON output.
func (k RelationKind) String() string {
	switch k {
	case RelationSynonym:
		return "synonym"
	case RelationAntonym:
		return "antonym"
	case RelationHypernym:
		return "hypernym"
	case RelationHyponym:
		return "hyponym"
	default:
		return "unknown"
	}
}

// ParseRelationKind parses a relation kind from its source JSON field name.
func ParseRelationKind(s string) (RelationKind, bool) {
	switch s {
	case "synonym", "synonyms":
		return RelationSynonym, true
	case "antonym", "antonyms":
		return RelationAntonym, true
	case "hypernym", "hypernyms":
		return RelationHypernym, true
	case "hyponym", "hyponyms":
		return RelationHyponym, true
	default:
		return 0, false
	}
}

// RelationEdge is a directional, non-symmetrized edge from one lexeme to
// another: a synonym edge A->B does not imply B->A unless both appear in
// the source data.
type RelationEdge struct {
	Kind   RelationKind
	Target LexemeID
}

// Sense is one distinct meaning of a lexeme.
type Sense struct {
	Definition StrID
	Examples   []StrID
	POS        PartOfSpeech // empty means "use the lexeme's POS list"
	Synonyms   []LexemeID
	Antonyms   []LexemeID
}

// Lexeme is the immutable, build-time-only-constructed unit of lookup and
// storage.
type Lexeme struct {
	ID             LexemeID
	Word           StrID    // canonical surface form
	SurfaceForms   []StrID  // every FST key resolving to this id, canonical included
	POS            []PartOfSpeech
	Senses         []Sense
	Synonyms       []LexemeID // aggregate, lexeme-level (distinct from per-sense)
	Antonyms       []LexemeID
	Edges          []RelationEdge
	Encyclopedia   ChunkID // 0 = NoChunk
	EntryBody      ChunkID // 0 = NoChunk
}

// HasPOS reports whether the lexeme's part-of-speech set contains want.
func (l *Lexeme) HasPOS(want PartOfSpeech) bool {
	for _, p := range l.POS {
		if p == want {
			return true
		}
	}
	return false
}
