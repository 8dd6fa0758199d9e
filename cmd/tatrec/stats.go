package main

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/viant/tatrec/index/lsh"
	"github.com/viant/tatrec/indexstore"
)

func NewStatsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show catalog and index statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			asJSON, _ := cmd.Flags().GetBool("json")

			s, err := a.openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			count, err := s.catalog.Count(ctx)
			if err != nil {
				return err
			}
			idx, err := indexstore.Open(ctx, s.indexes, a.cfg.Index.Name)
			if err != nil {
				return fmt.Errorf("load index %s: %w", a.cfg.Index.Name, err)
			}

			out := statsOutput{Catalog: count, Index: a.cfg.Index.Name, Kind: "brute", Entries: idx.Len()}
			if l, ok := idx.(*lsh.Index); ok {
				st := l.Stats()
				out.Kind = "lsh"
				out.LSH = &st
			}
			if asJSON {
				data, err := json.MarshalIndent(out, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "catalog entries: %d\n", out.Catalog)
			fmt.Fprintf(w, "index %s (%s): %d entries\n", out.Index, out.Kind, out.Entries)
			if out.LSH != nil {
				fmt.Fprintf(w, "  dim=%d k=%d L=%d probe=%d buckets=%d largest=%d\n",
					out.LSH.Dim, out.LSH.HashSize, out.LSH.Tables, out.LSH.ProbeRadius, out.LSH.Buckets, out.LSH.LargestBucket)
			}
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "Output in JSON format")
	return cmd
}

type statsOutput struct {
	Catalog int        `json:"catalog"`
	Index   string     `json:"index"`
	Kind    string     `json:"kind"`
	Entries int        `json:"entries"`
	LSH     *lsh.Stats `json:"lsh,omitempty"`
}
