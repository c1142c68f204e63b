package opengloss

import (
	"github.com/opengloss/opengloss/internal/errorsx"
	"github.com/opengloss/opengloss/internal/fstmap"
	"github.com/opengloss/opengloss/internal/graphwalk"
	"github.com/opengloss/opengloss/internal/ranker"
	"github.com/opengloss/opengloss/internal/textnorm"
)

// Default result limits, used whenever a caller passes limit <= 0, and the
// default fuzzy min_score.
const (
	DefaultPrefixLimit   = 10
	DefaultContainsLimit = 10
	DefaultFuzzyLimit    = 25
	DefaultMinScore      = 0.15
)

// PrefixHit is one surface form matched by Prefix, SearchContains, or
// Typeahead.
type PrefixHit struct {
	Surface string
	ID      LexemeID
}

// Get performs an exact, case-insensitive lookup. Returns an empty slice,
// not an error, when word has no canonical match: not-found is a value,
// not a failure.
func (ix *Index) Get(word string) ([]LexemeID, error) {
	if word == "" {
		return nil, errorsx.New(errorsx.InvalidArgument, "opengloss.Get", "word must not be empty", nil)
	}
	norm := textnorm.Normalize(word)
	id, ok, err := ix.fst.Get(norm)
	if err != nil {
		return nil, errorsx.New(errorsx.CorpusCorrupt, "opengloss.Get", "FST lookup failed", err)
	}
	if !ok {
		return nil, nil
	}
	return []LexemeID{LexemeID(id)}, nil
}

// Prefix returns every surface form with prefix p, in FST byte order,
// truncated to limit (default 10 when limit <= 0).
func (ix *Index) Prefix(p string, limit int) ([]PrefixHit, error) {
	if p == "" {
		return nil, errorsx.New(errorsx.InvalidArgument, "opengloss.Prefix", "prefix must not be empty", nil)
	}
	if limit <= 0 {
		limit = DefaultPrefixLimit
	}

	norm := textnorm.Normalize(p)
	var hits []PrefixHit
	err := ix.fst.PrefixRange(norm, func(e fstmap.Entry) bool {
		hits = append(hits, PrefixHit{Surface: e.Key, ID: LexemeID(e.ID)})
		return len(hits) < limit
	})
	if err != nil {
		return nil, errorsx.New(errorsx.CorpusCorrupt, "opengloss.Prefix", "FST range scan failed", err)
	}
	return hits, nil
}

// SearchContains returns every surface form containing q as a case-folded
// substring, truncated to limit (default 10).
func (ix *Index) SearchContains(q string, limit int) ([]PrefixHit, error) {
	if limit <= 0 {
		limit = DefaultContainsLimit
	}
	rawHits, err := ix.scanner.Contains(q, limit)
	if err != nil {
		return nil, err
	}
	hits := make([]PrefixHit, len(rawHits))
	for i, h := range rawHits {
		hits[i] = PrefixHit{Surface: h.Key, ID: LexemeID(h.ID)}
	}
	return hits, nil
}

// DefaultFuzzyConfig returns a ranker.Config seeded from the Index's
// configured field weights, min_score, and limit (internal/config's
// RankerConfig), ready to be tweaked by a caller before SearchFuzzy.
func (ix *Index) DefaultFuzzyConfig() ranker.Config {
	rc := ix.cfg.Ranker
	return ranker.Config{
		Weights: map[ranker.Field]float64{
			ranker.FieldWord:         rc.WeightWord,
			ranker.FieldDefinitions:  rc.WeightDefs,
			ranker.FieldSynonyms:     rc.WeightSyn,
			ranker.FieldEntryText:    rc.WeightEntry,
			ranker.FieldEncyclopedia: rc.WeightEncyclo,
		},
		MinScore: rc.MinScore,
		Limit:    rc.DefaultLimit,
	}
}

// SearchFuzzy runs the weighted multi-field fuzzy ranker and returns hits
// in descending score order, LexemeId tiebreak.
func (ix *Index) SearchFuzzy(q string, cfg ranker.Config) ([]ranker.ScoredHit, error) {
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultFuzzyLimit
	}
	return ix.ranker.Search(q, cfg)
}

// SearchFuzzyWithStats runs SearchFuzzy and additionally reports whether
// this call was served from the result cache, how many candidates were
// scanned, and how many encyclopedia chunks were inflated. Per-field
// contributions are carried on the hits when cfg.Explain is set.
func (ix *Index) SearchFuzzyWithStats(q string, cfg ranker.Config) ([]ranker.ScoredHit, ranker.Stats, error) {
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultFuzzyLimit
	}
	return ix.ranker.SearchWithStats(q, cfg)
}

// EntryByWord resolves w to its canonical entry, or nil if there is no
// match (not-found as a value, not an error).
func (ix *Index) EntryByWord(w string) (*Entry, error) {
	ids, err := ix.Get(w)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return ix.EntryByID(ids[0])
}

// EntryByID resolves id to its full record, or nil if id is out of range.
func (ix *Index) EntryByID(id LexemeID) (*Entry, error) {
	lex, err := ix.archive.Get(id)
	if err != nil {
		if errorsx.IsKind(err, errorsx.NotFound) {
			return nil, nil
		}
		return nil, err
	}
	return ix.resolveEntry(lex)
}

// TraverseGraph runs a bounded BFS over id's relation edges.
func (ix *Index) TraverseGraph(id LexemeID, cfg GraphConfig) (*GraphResult, error) {
	return graphwalk.Traverse(ix.archive, id, cfg)
}

// Typeahead implements an external UI's typeahead contract: prefix match
// first; if q has finished a word (length >= 3, or ends in a
// non-letter/digit rune) and prefix matching came up short of limit, the
// result is topped up with substring matches not already present.
func (ix *Index) Typeahead(q string, limit int) ([]PrefixHit, error) {
	if q == "" {
		return nil, errorsx.New(errorsx.InvalidArgument, "opengloss.Typeahead", "query must not be empty", nil)
	}
	if limit <= 0 {
		limit = DefaultPrefixLimit
	}

	hits, err := ix.Prefix(q, limit)
	if err != nil {
		return nil, err
	}
	if len(hits) >= limit {
		return hits, nil
	}
	if len(q) < 3 && !textnorm.EndsInWordBoundary(q) {
		return hits, nil
	}

	seen := make(map[LexemeID]bool, len(hits))
	for _, h := range hits {
		seen[h.ID] = true
	}

	contains, err := ix.SearchContains(q, limit)
	if err != nil {
		return nil, err
	}
	for _, c := range contains {
		if len(hits) >= limit {
			break
		}
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		hits = append(hits, c)
	}
	return hits, nil
}
