package main

import (
	"context"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/viant/tatrec/indexstore"
	"github.com/viant/tatrec/recommend"
	"github.com/viant/tatrec/vector"
)

func NewRecommendCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recommend <image>",
		Short: "Recommend catalog images similar to an image",
		Args:  cobra.ExactArgs(1),
		RunE:  makeRecommendRunner(a),
	}
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Int("items", 0, "Number of recommendations (default from config)")
	cmd.Flags().String("distance", "", "Distance function (default from config)")
	return cmd
}

type recommendOutput struct {
	Image           string   `json:"image"`
	Distance        string   `json:"distance"`
	Recommendations []string `json:"recommendations"`
}

func makeRecommendRunner(a *app) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		items, _ := cmd.Flags().GetInt("items")
		distance, _ := cmd.Flags().GetString("distance")

		s, err := a.openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		r, d, err := a.recommender(cmd.Context(), s, items, distance)
		if err != nil {
			return err
		}
		paths, err := r.Recommend(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return writeRecommendations(cmd.OutOrStdout(), args[0], d, paths, asJSON)
	}
}

// recommender loads the persisted index and assembles a Recommender.
// Non-zero items and a non-empty distance override the configuration.
func (a *app) recommender(ctx context.Context, s *session, items int, distance string) (*recommend.Recommender, vector.Distance, error) {
	d, err := a.cfg.Distance()
	if err != nil {
		return nil, 0, err
	}
	if distance != "" {
		if d, err = vector.ParseDistance(distance); err != nil {
			return nil, 0, err
		}
	}
	if items <= 0 {
		items = a.cfg.Recommend.Items
	}
	idx, err := indexstore.Open(ctx, s.indexes, a.cfg.Index.Name)
	if err != nil {
		return nil, 0, fmt.Errorf("load index %s: %w", a.cfg.Index.Name, err)
	}
	model, loader, err := a.model()
	if err != nil {
		return nil, 0, err
	}
	r, err := recommend.New(model, loader, idx,
		recommend.WithLayer(a.cfg.Model.Layer),
		recommend.WithItems(items),
		recommend.WithDistance(d),
		recommend.WithTransientPrefix(a.cfg.Recommend.TransientPrefix),
		recommend.WithResolver(a.cfg.Resolver()),
	)
	return r, d, err
}

func writeRecommendations(w io.Writer, image string, d vector.Distance, paths []string, asJSON bool) error {
	if asJSON {
		if paths == nil {
			paths = []string{}
		}
		data, err := json.MarshalIndent(recommendOutput{Image: image, Distance: d.String(), Recommendations: paths}, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
	for _, p := range paths {
		if _, err := fmt.Fprintln(w, p); err != nil {
			return err
		}
	}
	return nil
}
