package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/viant/tatrec/catalog"
	"github.com/viant/tatrec/indexstore"
	"github.com/viant/tatrec/logging"
	"github.com/viant/tatrec/metrics"
)

func NewBuildCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build <dir>",
		Short: "Add the images under a directory to the catalog and index",
		Long: `Scan a directory for images, extract an embedding for each image not yet
catalogued, append them to the catalog and persist an index covering the whole
catalog.`,
		Args: cobra.ExactArgs(1),
		RunE: makeBuildRunner(a),
	}
	cmd.Flags().Bool("relative", true, "Store labels relative to the scanned directory")
	return cmd
}

func makeBuildRunner(a *app) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		dir := args[0]
		relative, _ := cmd.Flags().GetBool("relative")

		paths, err := catalog.Scan(dir, a.cfg.Catalog.Extensions)
		if err != nil {
			return fmt.Errorf("scan %s: %w", dir, err)
		}
		if len(paths) == 0 {
			return fmt.Errorf("no images found under %s", dir)
		}

		s, err := a.openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		model, loader, err := a.model()
		if err != nil {
			return err
		}
		dim, err := a.embeddingDim(ctx, model)
		if err != nil {
			return err
		}
		idx, err := a.newIndex(dim)
		if err != nil {
			return err
		}
		existing, err := indexstore.Fill(ctx, s.catalog, idx)
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		labels, err := s.catalog.Labels(ctx)
		if err != nil {
			return fmt.Errorf("load catalog labels: %w", err)
		}
		known := make(map[string]bool, len(labels))
		for _, l := range labels {
			known[l] = true
		}

		builder := &catalog.Builder{
			Model:     model,
			Loader:    loader,
			Layer:     a.cfg.Model.Layer,
			Store:     s.catalog,
			Index:     idx,
			BatchSize: a.cfg.Catalog.BatchSize,
			Exists:    func(label string) bool { return known[label] },
		}
		if relative {
			builder.Label = func(p string) string {
				if rel, err := filepath.Rel(dir, p); err == nil {
					return filepath.ToSlash(rel)
				}
				return p
			}
		}
		added, err := builder.Build(ctx, paths)
		metrics.RecordCatalogBuild(added)
		if err != nil {
			return err
		}
		if err := indexstore.Persist(ctx, s.indexes, a.cfg.Index.Name, idx); err != nil {
			return err
		}
		logging.Ctx(ctx).Info().Int("added", added).Int("existing", existing).Str("index", a.cfg.Index.Name).Msg("catalog built")
		fmt.Fprintf(cmd.OutOrStdout(), "indexed %d images (%d total)\n", added, idx.Len())
		return nil
	}
}

func NewReindexCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the persisted index from the catalog",
		Long:  `Rebuild the configured index from every catalog entry, e.g. after changing the hash size or table count.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			s, err := a.openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			model, _, err := a.model()
			if err != nil {
				return err
			}
			dim, err := a.embeddingDim(ctx, model)
			if err != nil {
				return err
			}
			idx, err := a.newIndex(dim)
			if err != nil {
				return err
			}
			n, err := indexstore.Reindex(ctx, s.catalog, idx, s.indexes, a.cfg.Index.Name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "reindexed:%d\n", n)
			return nil
		},
	}
}
