package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opengloss/opengloss/internal/ranker"
)

func newFuzzyCmd() *cobra.Command {
	var dataDir string
	var limit int
	var minScore float64
	var explain bool
	var stats bool
	var wWord, wDefs, wSyn, wEntry, wEncyclo float64

	cmd := &cobra.Command{
		Use:   "fuzzy <q>",
		Short: "Rank lexemes by weighted multi-field similarity to q",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ix, err := openIndex(dataDir)
			if err != nil {
				return err
			}
			defer ix.Close()

			cfg := ix.DefaultFuzzyConfig()
			if cmd.Flags().Changed("limit") {
				cfg.Limit = limit
			}
			if cmd.Flags().Changed("min-score") {
				cfg.MinScore = minScore
			}
			cfg.Explain = explain
			if cmd.Flags().Changed("weight-word") {
				cfg.Weights[ranker.FieldWord] = wWord
			}
			if cmd.Flags().Changed("weight-definitions") {
				cfg.Weights[ranker.FieldDefinitions] = wDefs
			}
			if cmd.Flags().Changed("weight-synonyms") {
				cfg.Weights[ranker.FieldSynonyms] = wSyn
			}
			if cmd.Flags().Changed("weight-entry-text") {
				cfg.Weights[ranker.FieldEntryText] = wEntry
			}
			if cmd.Flags().Changed("weight-encyclopedia") {
				cfg.Weights[ranker.FieldEncyclopedia] = wEncyclo
			}

			out := cmd.OutOrStdout()
			if stats {
				hits, st, err := ix.SearchFuzzyWithStats(args[0], cfg)
				if err != nil {
					return err
				}
				printFuzzyHits(out, hits, explain)
				fmt.Fprintf(out, "-- cache_hit=%t candidates_seen=%d chunks_inflated=%d\n",
					st.CacheHit, st.CandidatesSeen, st.ChunksInflated)
				return nil
			}

			hits, err := ix.SearchFuzzy(args[0], cfg)
			if err != nil {
				return err
			}
			printFuzzyHits(out, hits, explain)
			return nil
		},
	}

	cmd.Flags().StringVar(&dataDir, "data-dir", defaultDataDir, "Directory containing lexemes.fst and opengloss_data.archive.zst")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of results (default from config)")
	cmd.Flags().Float64Var(&minScore, "min-score", 0, "Minimum combined score (default from config)")
	cmd.Flags().BoolVar(&explain, "explain", false, "Report per-field score contributions")
	cmd.Flags().BoolVar(&stats, "stats", false, "Report cache and chunk-inflation statistics")
	cmd.Flags().Float64Var(&wWord, "weight-word", 0, "Override the word-field weight")
	cmd.Flags().Float64Var(&wDefs, "weight-definitions", 0, "Override the definitions-field weight")
	cmd.Flags().Float64Var(&wSyn, "weight-synonyms", 0, "Override the synonyms-field weight")
	cmd.Flags().Float64Var(&wEntry, "weight-entry-text", 0, "Override the entry-text-field weight")
	cmd.Flags().Float64Var(&wEncyclo, "weight-encyclopedia", 0, "Override the encyclopedia-field weight")
	return cmd
}

func printFuzzyHits(out interface{ Write([]byte) (int, error) }, hits []ranker.ScoredHit, explain bool) {
	for _, h := range hits {
		fmt.Fprintf(out, "%.4f\t%d\t%s", h.Combined, h.ID, h.Word)
		if explain {
			for _, f := range []ranker.Field{ranker.FieldWord, ranker.FieldSynonyms, ranker.FieldDefinitions, ranker.FieldEntryText, ranker.FieldEncyclopedia} {
				if v, ok := h.PerField[f]; ok {
					fmt.Fprintf(out, "\t%s=%.4f", f, v)
				}
			}
		}
		fmt.Fprintln(out)
	}
}
