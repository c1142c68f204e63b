// Package scanner implements a linear pass over every FST surface form
// testing case-folded containment, for queries the prefix-only FST cannot
// answer (the match occurs mid-word).
//
// Grounded on Aman-CERP-amanmcp's internal/store/bm25.go, which wraps a
// golang.org/x/text-backed tokenizer with a bounded result cache guarded by
// a sync.RWMutex; the scanner reuses that shape for a much simpler
// operation (containment, not token scoring).
package scanner

import (
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/cases"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/opengloss/opengloss/internal/errorsx"
	"github.com/opengloss/opengloss/internal/fstmap"
)

// Hit is one surface form that contains the queried substring.
type Hit struct {
	Key string
	ID  fstmap.LexemeID
}

var folder = cases.Fold()

// fold case-folds s for comparison. Pure-ASCII input takes a fast path
// through strings.ToLower; anything with a byte >= 0x80 goes through
// golang.org/x/text/cases for correct Unicode case folding rather than an
// ASCII-only lowercase comparison.
func fold(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return folder.String(s)
		}
	}
	return strings.ToLower(s)
}

type cacheKey struct {
	query string
	limit int
}

// Scanner answers substring-containment queries over an FST's full key
// set. Safe for concurrent use.
type Scanner struct {
	fst   *fstmap.Reader
	mu    sync.RWMutex
	cache *lru.Cache[cacheKey, []Hit]
}

// New wraps fst with a bounded query-result cache. cacheEntries may be 0;
// the scanner still functions correctly, it simply never caches.
func New(fst *fstmap.Reader, cacheEntries int) (*Scanner, error) {
	s := &Scanner{fst: fst}
	if cacheEntries > 0 {
		c, err := lru.New[cacheKey, []Hit](cacheEntries)
		if err != nil {
			return nil, errorsx.New(errorsx.InvalidArgument, "scanner.New", "failed to create cache", err)
		}
		s.cache = c
	}
	return s, nil
}

// Contains returns every surface form containing query as a case-folded
// substring, ordered by ascending LexemeId, truncated to limit.
func (s *Scanner) Contains(query string, limit int) ([]Hit, error) {
	if query == "" {
		return nil, errorsx.New(errorsx.InvalidArgument, "scanner.Contains", "query must not be empty", nil)
	}
	if limit <= 0 {
		return nil, errorsx.New(errorsx.InvalidArgument, "scanner.Contains", "limit must be positive", nil)
	}

	folded := fold(query)
	key := cacheKey{query: folded, limit: limit}

	if s.cache != nil {
		s.mu.RLock()
		if hits, ok := s.cache.Get(key); ok {
			s.mu.RUnlock()
			return hits, nil
		}
		s.mu.RUnlock()
	}

	var hits []Hit
	err := s.fst.All(func(e fstmap.Entry) bool {
		if strings.Contains(fold(e.Key), folded) {
			hits = append(hits, Hit{Key: e.Key, ID: e.ID})
		}
		return true
	})
	if err != nil {
		return nil, errorsx.New(errorsx.CorpusCorrupt, "scanner.Contains", "failed to scan FST", err)
	}

	// Truncate by ascending LexemeID after the full scan, not FST iteration
	// order: deterministic across runs and cheap, since Contains already
	// has to walk every entry regardless of where the limit falls.
	sort.Slice(hits, func(i, j int) bool { return hits[i].ID < hits[j].ID })
	if len(hits) > limit {
		hits = hits[:limit]
	}

	if s.cache != nil {
		s.mu.Lock()
		s.cache.Add(key, hits)
		s.mu.Unlock()
	}

	return hits, nil
}
