package main

import (
	"github.com/spf13/cobra"

	"github.com/viant/tatrec/logging"
	"github.com/viant/tatrec/metrics"
)

func NewRootCmd(version string) *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:           "tatrec",
		Short:         "Image similarity recommendations over an LSH index",
		Long:          `Build a catalog of image embeddings, index it with random hyperplane LSH and recommend similar catalog images for an upload.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("config")
			if err := a.load(path); err != nil {
				return err
			}
			cmd.SetContext(logging.WithCorrelationID(cmd.Context()))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("metrics-file")
			if path == "" {
				return nil
			}
			return metrics.WriteFile(path)
		},
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().String("metrics-file", "", "Write Prometheus metrics to this file on exit")

	rootCmd.AddCommand(
		NewBuildCmd(a),
		NewReindexCmd(a),
		NewRecommendCmd(a),
		NewWatchCmd(a),
		NewEvalCmd(a),
		NewStatsCmd(a),
	)
	return rootCmd
}
