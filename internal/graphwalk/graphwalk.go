// Package graphwalk implements a bounded breadth-first traversal over a
// lexeme's pre-resolved relation edges, capped by depth, node count, and
// edge count, with an optional part-of-speech filter.
//
// Grounded on Aman-CERP-amanmcp's internal/search/expander.go (a bounded
// BFS-shaped query expansion over a small relation graph) for the walk
// shape, and on the RoaringBitmap library already pulled in transitively
// by vellum (github.com/RoaringBitmap/roaring/v2) for a compact O(N)
// visited set, reset per call — reused here directly instead of a plain
// map[LexemeId]bool.
package graphwalk

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/opengloss/opengloss/internal/errorsx"
	"github.com/opengloss/opengloss/internal/lexarchive"
)

// MaxDepth is the hard ceiling on Config.Depth.
const MaxDepth = 8

// Config bounds one graph traversal.
type Config struct {
	// Depth is the maximum BFS depth, in [0,8]. 0 returns a start-only,
	// non-truncated result.
	Depth int

	// MaxNodes bounds the number of distinct nodes visited, in [1,10000].
	MaxNodes int

	// MaxEdges bounds the number of edges emitted, in [1,100000].
	MaxEdges int

	// Relations restricts traversal to these edge kinds. An empty set
	// means all four kinds are eligible.
	Relations map[lexarchive.RelationKind]bool

	// NounOnly additionally requires a target's part-of-speech set to
	// contain "noun" before the edge is followed.
	NounOnly bool
}

func (c Config) relationAllowed(k lexarchive.RelationKind) bool {
	if len(c.Relations) == 0 {
		return true
	}
	return c.Relations[k]
}

// NodeInfo is one node in a traversal result.
type NodeInfo struct {
	ID   lexarchive.LexemeID
	Word string
	POS  []lexarchive.PartOfSpeech
}

// Edge is one emitted edge in a traversal result.
type Edge struct {
	From lexarchive.LexemeID
	To   lexarchive.LexemeID
	Kind lexarchive.RelationKind
}

// Result is the output of one traversal.
type Result struct {
	Nodes     []NodeInfo
	Edges     []Edge
	Truncated bool
}

// Validate checks cfg against its declared ranges, without needing an
// archive.
func (c Config) Validate() error {
	if c.Depth < 0 || c.Depth > MaxDepth {
		return errorsx.New(errorsx.InvalidArgument, "graphwalk.Validate",
			fmt.Sprintf("depth %d out of range [0,%d]", c.Depth, MaxDepth), nil)
	}
	if c.MaxNodes < 1 || c.MaxNodes > 10_000 {
		return errorsx.New(errorsx.InvalidArgument, "graphwalk.Validate",
			fmt.Sprintf("max_nodes %d out of range [1,10000]", c.MaxNodes), nil)
	}
	if c.MaxEdges < 1 || c.MaxEdges > 100_000 {
		return errorsx.New(errorsx.InvalidArgument, "graphwalk.Validate",
			fmt.Sprintf("max_edges %d out of range [1,100000]", c.MaxEdges), nil)
	}
	return nil
}

type frontierItem struct {
	id    lexarchive.LexemeID
	depth int
}

// Traverse runs a bounded BFS from start over arc's relation edges.
func Traverse(arc *lexarchive.Archive, start lexarchive.LexemeID, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	startLex, err := arc.Get(start)
	if err != nil {
		return nil, err
	}

	visited := roaring.New()
	visited.Add(uint32(start))

	nodeOf := func(id lexarchive.LexemeID) (NodeInfo, error) {
		lex, err := arc.Get(id)
		if err != nil {
			return NodeInfo{}, err
		}
		word, err := arc.Arena.Resolve(lex.Word)
		if err != nil {
			return NodeInfo{}, errorsx.New(errorsx.CorpusCorrupt, "graphwalk.Traverse", "failed to resolve word", err)
		}
		return NodeInfo{ID: id, Word: word, POS: lex.POS}, nil
	}

	startNode, err := nodeOf(start)
	if err != nil {
		return nil, err
	}

	result := &Result{Nodes: []NodeInfo{startNode}}
	if cfg.Depth == 0 {
		return result, nil
	}

	frontier := []frontierItem{{id: start, depth: 0}}
	lexCache := map[lexarchive.LexemeID]*lexarchive.Lexeme{start: startLex}

	for len(frontier) > 0 {
		cur := frontier[0]
		frontier = frontier[1:]

		if cur.depth >= cfg.Depth {
			continue
		}

		lex := lexCache[cur.id]
		if lex == nil {
			lex, err = arc.Get(cur.id)
			if err != nil {
				return nil, err
			}
			lexCache[cur.id] = lex
		}

		for _, edge := range lex.Edges {
			if !cfg.relationAllowed(edge.Kind) {
				continue
			}

			if cfg.NounOnly {
				target, err := arc.Get(edge.Target)
				if err != nil {
					return nil, err
				}
				if !target.HasPOS(lexarchive.POSNoun) {
					continue
				}
				lexCache[edge.Target] = target
			}

			newNode := !visited.Contains(uint32(edge.Target))
			if newNode && visited.GetCardinality() >= uint64(cfg.MaxNodes) {
				result.Truncated = true
				continue
			}
			if len(result.Edges) >= cfg.MaxEdges {
				result.Truncated = true
				return result, nil
			}
			result.Edges = append(result.Edges, Edge{From: cur.id, To: edge.Target, Kind: edge.Kind})

			if newNode {
				visited.Add(uint32(edge.Target))

				node, err := nodeOf(edge.Target)
				if err != nil {
					return nil, err
				}
				result.Nodes = append(result.Nodes, node)
				frontier = append(frontier, frontierItem{id: edge.Target, depth: cur.depth + 1})
			}
		}
	}

	return result, nil
}
