//go:build ignore

// Package main generates a synthetic lexicon corpus for benchmarking the
// build pipeline and the query engine against a realistic number of
// entries, without depending on a licensed dictionary dump.
// Usage: go run scripts/generate-test-corpus.go -entries 20000 -output testdata/bench
package main

import (
	"bufio"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
)

var (
	numEntries = flag.Int("entries", 20000, "Number of lexicon entries to generate")
	outputDir  = flag.String("output", "testdata/bench", "Output directory")
	seed       = flag.Int64("seed", 42, "Random seed for reproducibility")
	aliasRatio = flag.Float64("alias-ratio", 0.1, "Fraction of entries that also get a lexemes.tsv alias")
)

var (
	prefixes = []string{
		"un", "re", "pre", "dis", "over", "under", "mis", "out", "super", "semi",
		"anti", "auto", "co", "de", "inter", "micro", "mini", "multi", "non", "post",
	}
	roots = []string{
		"act", "build", "cast", "chart", "claim", "close", "count", "cover", "draw", "fold",
		"form", "grade", "guard", "lead", "light", "link", "load", "mark", "mount", "pack",
		"place", "plant", "point", "port", "press", "print", "rank", "read", "ring", "road",
		"scale", "scope", "sense", "set", "side", "sign", "size", "sort", "stand", "state",
		"step", "stock", "stone", "store", "stream", "strike", "style", "tone", "track", "turn",
	}
	suffixes = []string{
		"", "ed", "er", "ing", "ion", "ive", "ly", "ment", "ness", "able",
	}
	posPool = []string{"noun", "verb", "adjective", "adverb"}
)

type senseSeed struct {
	definition string
	pos        string
}

func randomWord(pool []string, r *rand.Rand) string {
	return pool[r.Intn(len(pool))]
}

// coinedWord deterministically composes a plausible headword out of a
// prefix/root/suffix so runs with the same seed reproduce the same corpus.
func coinedWord(r *rand.Rand) string {
	var b strings.Builder
	if r.Intn(3) == 0 {
		b.WriteString(randomWord(prefixes, r))
	}
	b.WriteString(randomWord(roots, r))
	if suf := randomWord(suffixes, r); suf != "" {
		b.WriteString(suf)
	}
	return b.String()
}

func coinedSense(word, pos string, r *rand.Rand) senseSeed {
	templates := []string{
		"relating to the act or process of %s",
		"a person or thing that performs %s",
		"the state or quality of being %s",
		"to perform or carry out %s in a deliberate manner",
		"characteristic of %s, especially in a formal sense",
	}
	def := fmt.Sprintf(randomWord(templates, r), word)
	return senseSeed{definition: def, pos: pos}
}

func writeJSONEntry(w *bufio.Writer, id int, word string, pos []string, senses []senseSeed, synonyms, antonyms []string) error {
	var b strings.Builder
	fmt.Fprintf(&b, `{"id":%d,"word":%q,"pos":[`, id, word)
	for i, p := range pos {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%q", p)
	}
	b.WriteString(`],"senses":[`)
	for i, s := range senses {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, `{"definition":%q,"pos":%q}`, s.definition, s.pos)
	}
	b.WriteString(`],"entry_text":`)
	fmt.Fprintf(&b, "%q", fmt.Sprintf("%s is a headword with %d recorded sense(s).", word, len(senses)))
	if len(synonyms) > 0 || len(antonyms) > 0 {
		b.WriteString(`,"relations":{`)
		wrote := false
		if len(synonyms) > 0 {
			b.WriteString(`"synonyms":[`)
			for i, s := range synonyms {
				if i > 0 {
					b.WriteByte(',')
				}
				fmt.Fprintf(&b, "%q", s)
			}
			b.WriteByte(']')
			wrote = true
		}
		if len(antonyms) > 0 {
			if wrote {
				b.WriteByte(',')
			}
			b.WriteString(`"antonyms":[`)
			for i, a := range antonyms {
				if i > 0 {
					b.WriteByte(',')
				}
				fmt.Fprintf(&b, "%q", a)
			}
			b.WriteByte(']')
		}
		b.WriteByte('}')
	}
	b.WriteString("}\n")
	_, err := w.WriteString(b.String())
	return err
}

func main() {
	flag.Parse()
	r := rand.New(rand.NewSource(*seed))

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "error creating output directory: %v\n", err)
		os.Exit(1)
	}

	entriesPath := filepath.Join(*outputDir, "entries.jsonl")
	lexemesPath := filepath.Join(*outputDir, "lexemes.tsv")

	entriesFile, err := os.Create(entriesPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error creating %s: %v\n", entriesPath, err)
		os.Exit(1)
	}
	defer entriesFile.Close()
	lexemesFile, err := os.Create(lexemesPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error creating %s: %v\n", lexemesPath, err)
		os.Exit(1)
	}
	defer lexemesFile.Close()

	ew := bufio.NewWriter(entriesFile)
	defer ew.Flush()
	lw := bufio.NewWriter(lexemesFile)
	defer lw.Flush()

	words := make([]string, 0, *numEntries)
	seen := make(map[string]bool, *numEntries)
	for len(words) < *numEntries {
		w := coinedWord(r)
		if seen[w] {
			continue
		}
		seen[w] = true
		words = append(words, w)
	}

	fmt.Printf("generating %d entries into %s...\n", len(words), *outputDir)

	for i, word := range words {
		id := i + 1
		numPOS := 1
		if r.Intn(5) == 0 {
			numPOS = 2
		}
		pos := make([]string, 0, numPOS)
		for p := 0; p < numPOS; p++ {
			pos = append(pos, randomWord(posPool, r))
		}

		numSenses := 1 + r.Intn(2)
		senses := make([]senseSeed, 0, numSenses)
		for s := 0; s < numSenses; s++ {
			senses = append(senses, coinedSense(word, pos[s%len(pos)], r))
		}

		var synonyms, antonyms []string
		if len(words) > 10 {
			if r.Intn(4) == 0 {
				synonyms = append(synonyms, words[r.Intn(len(words))])
			}
			if r.Intn(6) == 0 {
				antonyms = append(antonyms, words[r.Intn(len(words))])
			}
		}

		if err := writeJSONEntry(ew, id, word, pos, senses, synonyms, antonyms); err != nil {
			fmt.Fprintf(os.Stderr, "error writing entry %d: %v\n", id, err)
			os.Exit(1)
		}

		if r.Float64() < *aliasRatio {
			alias := word + "s"
			fmt.Fprintf(lw, "%d\t%s\n", id, alias)
		}
	}

	fmt.Printf("wrote %s and %s\n", entriesPath, lexemesPath)
}
