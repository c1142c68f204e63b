// Package corpusbuild implements the offline build pipeline: it streams
// entries.jsonl and lexemes.tsv, assigns dense LexemeIds, sorts surface
// forms for the FST builder, resolves relation targets, and emits the two
// embedded artifacts (lexemes.fst and opengloss_data.archive.zst).
//
// Grounded on Aman-CERP-amanmcp's internal/chunk/parser.go (streaming,
// line-oriented ingestion that assigns dense ids as it goes) and
// internal/search/multi_query.go (the errgroup-bounded parallel-stage
// pattern, reused here for the independent arena/chunk-store freeze
// stages).
package corpusbuild

// SourceSense mirrors one element of an entries.jsonl "senses" array.
type SourceSense struct {
	Definition string   `json:"definition"`
	Examples   []string `json:"examples"`
	POS        string   `json:"pos"`
	Synonyms   []string `json:"synonyms"`
	Antonyms   []string `json:"antonyms"`
}

// SourceRelations mirrors the "relations" object of one entries.jsonl row.
// Every entry is a surface form, resolved to a LexemeId during step 6.
type SourceRelations struct {
	Synonyms  []string `json:"synonyms"`
	Antonyms  []string `json:"antonyms"`
	Hypernyms []string `json:"hypernyms"`
	Hyponyms  []string `json:"hyponyms"`
}

// SourceEntry mirrors one line of entries.jsonl.
type SourceEntry struct {
	ID           int             `json:"id"`
	Word         string          `json:"word"`
	POS          []string        `json:"pos"`
	Senses       []SourceSense   `json:"senses"`
	EntryText    string          `json:"entry_text"`
	Encyclopedia string          `json:"encyclopedia"`
	Relations    SourceRelations `json:"relations"`
}

// Report summarizes one build run: counts that matter for diagnosing a
// corpus, and anything dropped along the way (surface-form collisions,
// unresolved relation targets).
type Report struct {
	Lexemes             int
	SurfaceForms        int
	SurfaceCollisions   int // surface keys (canonical or alias) that collided with an earlier key and were dropped
	EdgesResolved       int
	EdgesDropped        int
	EdgeLossFraction    float64
	EdgeLossWarning     bool
	FSTBytes            int
	ArchiveBytes        int
	ArchiveBytesRaw     int
}

// Options configures one build run.
type Options struct {
	// ZstdLevel is the compression level for arena frames, chunk frames,
	// and the outer archive frame (~19 is a good default for release
	// builds).
	ZstdLevel int

	// ArenaFrameSize bounds each string-arena frame's uncompressed size
	// before it is closed and compressed.
	ArenaFrameSize int

	// EdgeLossWarnThreshold is the fraction (0-1) of unresolved relation
	// targets that triggers Report.EdgeLossWarning.
	EdgeLossWarnThreshold float64
}

// DefaultOptions returns the recommended build defaults.
func DefaultOptions() Options {
	return Options{
		ZstdLevel:             19,
		ArenaFrameSize:        64 * 1024,
		EdgeLossWarnThreshold: 0.001,
	}
}
