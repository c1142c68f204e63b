package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opengloss/opengloss/internal/lexarchive"
	"github.com/opengloss/opengloss/pkg/opengloss"
)

func newGraphCmd() *cobra.Command {
	var dataDir string
	var depth, maxNodes, maxEdges int
	var relations string
	var nounOnly bool
	var format string

	cmd := &cobra.Command{
		Use:   "graph <word>",
		Short: "Walk the relation graph outward from a word",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ix, err := openIndex(dataDir)
			if err != nil {
				return err
			}
			defer ix.Close()

			ids, err := ix.Get(args[0])
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				return fmt.Errorf("no match for %q", args[0])
			}

			cfg := opengloss.GraphConfig{
				Depth:    depth,
				MaxNodes: maxNodes,
				MaxEdges: maxEdges,
				NounOnly: nounOnly,
			}
			if relations != "" {
				cfg.Relations = make(map[lexarchive.RelationKind]bool)
				for _, part := range strings.Split(relations, ",") {
					k, ok := lexarchive.ParseRelationKind(strings.TrimSpace(part))
					if !ok {
						return fmt.Errorf("unknown relation kind %q", part)
					}
					cfg.Relations[k] = true
				}
			}

			result, err := ix.TraverseGraph(ids[0], cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch format {
			case "dot":
				writeGraphDOT(out, result)
			case "json":
				writeGraphJSON(out, result)
			default:
				writeGraphTree(out, result)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dataDir, "data-dir", defaultDataDir, "Directory containing lexemes.fst and opengloss_data.archive.zst")
	cmd.Flags().IntVar(&depth, "depth", 2, "Maximum BFS depth (0-8)")
	cmd.Flags().IntVar(&maxNodes, "max-nodes", 200, "Maximum distinct nodes visited")
	cmd.Flags().IntVar(&maxEdges, "max-edges", 1000, "Maximum edges emitted")
	cmd.Flags().StringVar(&relations, "relations", "", "Comma-separated relation kinds (default: all)")
	cmd.Flags().BoolVar(&nounOnly, "noun-only", false, "Only follow edges to noun targets")
	cmd.Flags().StringVar(&format, "format", "tree", "Output format: tree, dot, or json")
	return cmd
}

func writeGraphTree(out interface{ Write([]byte) (int, error) }, r *opengloss.GraphResult) {
	for _, n := range r.Nodes {
		fmt.Fprintf(out, "%d\t%s\n", n.ID, n.Word)
	}
	for _, e := range r.Edges {
		fmt.Fprintf(out, "  %d --%s--> %d\n", e.From, e.Kind, e.To)
	}
	if r.Truncated {
		fmt.Fprintln(out, "(truncated)")
	}
}

func writeGraphDOT(out interface{ Write([]byte) (int, error) }, r *opengloss.GraphResult) {
	fmt.Fprintln(out, "digraph opengloss {")
	for _, n := range r.Nodes {
		fmt.Fprintf(out, "  %d [label=%q];\n", n.ID, n.Word)
	}
	for _, e := range r.Edges {
		fmt.Fprintf(out, "  %d -> %d [label=%q];\n", e.From, e.To, e.Kind.String())
	}
	fmt.Fprintln(out, "}")
}

func writeGraphJSON(out interface{ Write([]byte) (int, error) }, r *opengloss.GraphResult) {
	fmt.Fprint(out, `{"nodes":[`)
	for i, n := range r.Nodes {
		if i > 0 {
			fmt.Fprint(out, ",")
		}
		fmt.Fprintf(out, `{"id":%d,"word":%q}`, n.ID, n.Word)
	}
	fmt.Fprint(out, `],"edges":[`)
	for i, e := range r.Edges {
		if i > 0 {
			fmt.Fprint(out, ",")
		}
		fmt.Fprintf(out, `{"from":%d,"to":%d,"kind":%q}`, e.From, e.To, e.Kind.String())
	}
	fmt.Fprintf(out, `],"truncated":%t}`+"\n", r.Truncated)
}
