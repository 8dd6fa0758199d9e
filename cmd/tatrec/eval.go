package main

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/viant/tatrec/index"
	"github.com/viant/tatrec/indexstore"
	"github.com/viant/tatrec/vector"
)

func NewEvalCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Measure index recall against an exact SQL ranking",
		Long: `Query the persisted index with catalog entries and compare each result list
with the exact nearest neighbours computed in SQL over the whole catalog.`,
		Args: cobra.NoArgs,
		RunE: makeEvalRunner(a),
	}
	cmd.Flags().Int("samples", 100, "Number of catalog entries used as queries")
	cmd.Flags().Int("k", 5, "Result list length compared")
	cmd.Flags().String("distance", "true_euclidean", "Distance used for both rankings (euclidean, true_euclidean, cosine, l1norm)")
	cmd.Flags().Bool("json", false, "Output in JSON format")
	return cmd
}

type evalReport struct {
	Samples  int     `json:"samples"`
	K        int     `json:"k"`
	Distance string  `json:"distance"`
	Recall   float64 `json:"recall"`
	Empty    int     `json:"emptyResults"`
}

func makeEvalRunner(a *app) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		samples, _ := cmd.Flags().GetInt("samples")
		k, _ := cmd.Flags().GetInt("k")
		name, _ := cmd.Flags().GetString("distance")
		asJSON, _ := cmd.Flags().GetBool("json")
		if k <= 0 {
			return fmt.Errorf("k must be positive, got %d", k)
		}
		d, err := vector.ParseDistance(name)
		if err != nil {
			return err
		}

		s, err := a.openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		idx, err := indexstore.Open(ctx, s.indexes, a.cfg.Index.Name)
		if err != nil {
			return fmt.Errorf("load index %s: %w", a.cfg.Index.Name, err)
		}
		entries, err := s.catalog.Entries(ctx)
		if err != nil {
			return err
		}
		queries := sample(entries, samples)

		report := evalReport{Samples: len(queries), K: k, Distance: d.String()}
		var hits, total int
		for _, q := range queries {
			exact, err := s.catalog.Nearest(ctx, q.Vector, k, d)
			if err != nil {
				return err
			}
			approx, err := idx.Query(q.Vector, k, d)
			if err != nil {
				return err
			}
			if len(approx) == 0 {
				report.Empty++
			}
			hits += overlap(exact, approx)
			total += len(exact)
		}
		if total > 0 {
			report.Recall = float64(hits) / float64(total)
		}

		if asJSON {
			data, err := json.Marshal(report)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "recall@%d (%s) over %d queries: %.3f (%d empty)\n", k, d, report.Samples, report.Recall, report.Empty)
		return nil
	}
}

// sample picks up to n entries spread evenly over the catalog.
func sample(entries []vector.Entry, n int) []vector.Entry {
	if n <= 0 || n >= len(entries) {
		return entries
	}
	out := make([]vector.Entry, 0, n)
	step := float64(len(entries)) / float64(n)
	for i := 0; i < n; i++ {
		out = append(out, entries[int(float64(i)*step)])
	}
	return out
}

// overlap counts exact labels also present in approx, respecting multiplicity.
func overlap(exact []vector.Entry, approx []index.Match) int {
	counts := make(map[string]int, len(approx))
	for _, m := range approx {
		counts[m.Entry.Label]++
	}
	n := 0
	for _, e := range exact {
		if counts[e.Label] > 0 {
			counts[e.Label]--
			n++
		}
	}
	return n
}
