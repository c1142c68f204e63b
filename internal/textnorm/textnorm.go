// Package textnorm centralizes the one normalization rule every FST key and
// every incoming query must share: Unicode NFC followed by simple
// lowercasing. Both the offline build pipeline (which writes FST keys) and
// the runtime Index (which normalizes queries before looking them up)
// import this package so the two sides can never drift apart.
package textnorm

import (
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var lowerer = cases.Lower(cases.NoLang)

// Normalize returns s as NFC-normalized, Unicode-lowercased text, suitable
// as an FST key or a lookup query.
func Normalize(s string) string {
	return lowerer.String(norm.NFC.String(s))
}

// EndsInWordBoundary reports whether s ends in a rune that is not a letter
// or digit — the trigger a typeahead caller uses to decide the query has
// finished a word and substring top-up is worth the extra scan. An empty
// string does not end in a word boundary.
func EndsInWordBoundary(s string) bool {
	if s == "" {
		return false
	}
	r := []rune(s)
	last := r[len(r)-1]
	return !isWordRune(last)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
