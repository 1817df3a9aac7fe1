package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/quadsync"
	"github.com/Aman-CERP/quadsync/internal/quad"
	"github.com/Aman-CERP/quadsync/internal/search"
	"github.com/Aman-CERP/quadsync/internal/store"
)

// newSearchCmd creates the search command. It loads an N-Quads file, runs a
// single query against the resulting index, and prints the hits.
func newSearchCmd() *cobra.Command {
	var (
		filePath     string
		mode         string
		field        string
		minSim       float64
		limit        int
		textWeight   float64
		vectorWeight float64
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search a loaded fact collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			// Flags the user left untouched fall back to the configured
			// search defaults.
			if !cmd.Flags().Changed("min-similarity") {
				minSim = cfg.Search.MinSimilarity
			}
			if !cmd.Flags().Changed("limit") {
				limit = cfg.Search.MaxResults
			}
			if !cmd.Flags().Changed("text-weight") {
				textWeight = cfg.Search.TextWeight
			}
			if !cmd.Flags().Changed("vector-weight") {
				vectorWeight = cfg.Search.VectorWeight
			}

			sys, err := quadsync.Open(cfg)
			if err != nil {
				return err
			}
			defer sys.Close()

			file, err := os.Open(filePath)
			if err != nil {
				return fmt.Errorf("open %s: %w", filePath, err)
			}
			defer file.Close()

			facts, err := quad.ReadAll(file)
			if err != nil {
				return fmt.Errorf("parse %s: %w", filePath, err)
			}
			if err := sys.Facts.AddMany(cmd.Context(), facts); err != nil {
				return fmt.Errorf("index facts: %w", err)
			}

			query := search.Query{
				Mode:          search.Mode(mode),
				Text:          args[0],
				Field:         store.VectorField(field),
				MinSimilarity: minSim,
				Limit:         limit,
				Weights:       search.Weights{Text: textWeight, Vector: vectorWeight},
			}
			if query.Mode != search.ModeText {
				vec, err := sys.Embedder().Embed(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("embed query: %w", err)
				}
				query.Vector = vec
			}

			results, err := sys.Searcher.Search(cmd.Context(), query)
			if err != nil {
				return err
			}

			if len(results) == 0 {
				fmt.Println("No results")
				return nil
			}
			for i, r := range results {
				d := r.Document
				fmt.Printf("%2d. [%.4f] %s %s %s", i+1, r.Score, d.Subject, d.Predicate, d.Object)
				if d.Graph != "" {
					fmt.Printf(" (graph %s)", d.Graph)
				}
				fmt.Println()
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&filePath, "file", "f", "", "N-Quads file to load (required)")
	cmd.Flags().StringVar(&mode, "mode", string(search.ModeHybrid), "Search mode: text, vector, or hybrid")
	cmd.Flags().StringVar(&field, "field", string(store.FieldCombined), "Vector field: subject, predicate, object, or combined")
	cmd.Flags().Float64Var(&minSim, "min-similarity", 0, "Minimum cosine similarity for vector hits [0,1]")
	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of results")
	cmd.Flags().Float64Var(&textWeight, "text-weight", search.DefaultWeights.Text, "Text score weight for hybrid mode")
	cmd.Flags().Float64Var(&vectorWeight, "vector-weight", search.DefaultWeights.Vector, "Vector score weight for hybrid mode")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
