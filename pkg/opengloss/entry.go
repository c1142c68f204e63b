package opengloss

import (
	"github.com/opengloss/opengloss/internal/errorsx"
	"github.com/opengloss/opengloss/internal/lexarchive"
)

// Sense is one fully-resolved meaning of a lexeme: every StrId/LexemeId
// field of lexarchive.Sense has been resolved to plain strings, so callers
// outside the engine never see an opaque handle.
type Sense struct {
	Definition string
	Examples   []string
	POS        string
	Synonyms   []string
	Antonyms   []string
}

// Entry is the fully-resolved record returned by EntryByWord/EntryByID.
type Entry struct {
	ID           LexemeID
	Word         string
	SurfaceForms []string
	POS          []string
	Senses       []Sense
	Synonyms     []string
	Antonyms     []string
	EntryText    string // "" if the lexeme carries no entry body
	Encyclopedia string // "" if the lexeme carries no encyclopedia article
}

func (ix *Index) resolveEntry(lex *lexarchive.Lexeme) (*Entry, error) {
	word, err := ix.archive.Arena.Resolve(lex.Word)
	if err != nil {
		return nil, errorsx.New(errorsx.CorpusCorrupt, "opengloss.resolveEntry", "failed to resolve word", err)
	}

	surfaceForms := make([]string, 0, len(lex.SurfaceForms))
	for _, id := range lex.SurfaceForms {
		s, err := ix.archive.Arena.Resolve(id)
		if err != nil {
			return nil, errorsx.New(errorsx.CorpusCorrupt, "opengloss.resolveEntry", "failed to resolve surface form", err)
		}
		surfaceForms = append(surfaceForms, s)
	}

	pos := make([]string, 0, len(lex.POS))
	for _, p := range lex.POS {
		pos = append(pos, string(p))
	}

	senses := make([]Sense, 0, len(lex.Senses))
	for _, s := range lex.Senses {
		sense, err := ix.resolveSense(s)
		if err != nil {
			return nil, err
		}
		senses = append(senses, sense)
	}

	synonyms, err := ix.resolveWords(lex.Synonyms)
	if err != nil {
		return nil, err
	}
	antonyms, err := ix.resolveWords(lex.Antonyms)
	if err != nil {
		return nil, err
	}

	var entryText, encyclopedia string
	if lex.EntryBody != lexarchive.NoChunk {
		entryText, err = ix.archive.Chunks.Get(lex.EntryBody)
		if err != nil {
			return nil, errorsx.New(errorsx.CorpusCorrupt, "opengloss.resolveEntry", "failed to inflate entry body", err)
		}
	}
	if lex.Encyclopedia != lexarchive.NoChunk {
		encyclopedia, err = ix.archive.Chunks.Get(lex.Encyclopedia)
		if err != nil {
			return nil, errorsx.New(errorsx.CorpusCorrupt, "opengloss.resolveEntry", "failed to inflate encyclopedia", err)
		}
	}

	return &Entry{
		ID:           lex.ID,
		Word:         word,
		SurfaceForms: surfaceForms,
		POS:          pos,
		Senses:       senses,
		Synonyms:     synonyms,
		Antonyms:     antonyms,
		EntryText:    entryText,
		Encyclopedia: encyclopedia,
	}, nil
}

func (ix *Index) resolveSense(s lexarchive.Sense) (Sense, error) {
	definition, err := ix.archive.Arena.Resolve(s.Definition)
	if err != nil {
		return Sense{}, errorsx.New(errorsx.CorpusCorrupt, "opengloss.resolveSense", "failed to resolve definition", err)
	}

	examples := make([]string, 0, len(s.Examples))
	for _, id := range s.Examples {
		ex, err := ix.archive.Arena.Resolve(id)
		if err != nil {
			return Sense{}, errorsx.New(errorsx.CorpusCorrupt, "opengloss.resolveSense", "failed to resolve example", err)
		}
		examples = append(examples, ex)
	}

	synonyms, err := ix.resolveWords(s.Synonyms)
	if err != nil {
		return Sense{}, err
	}
	antonyms, err := ix.resolveWords(s.Antonyms)
	if err != nil {
		return Sense{}, err
	}

	return Sense{
		Definition: definition,
		Examples:   examples,
		POS:        string(s.POS),
		Synonyms:   synonyms,
		Antonyms:   antonyms,
	}, nil
}

func (ix *Index) resolveWords(ids []LexemeID) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	words := make([]string, 0, len(ids))
	for _, id := range ids {
		lex, err := ix.archive.Get(id)
		if err != nil {
			continue // dangling targets never reach here, but stay defensive
		}
		word, err := ix.archive.Arena.Resolve(lex.Word)
		if err != nil {
			return nil, errorsx.New(errorsx.CorpusCorrupt, "opengloss.resolveWords", "failed to resolve word", err)
		}
		words = append(words, word)
	}
	return words, nil
}
