package main

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/viant/tatrec/catalog"
	"github.com/viant/tatrec/logging"
)

func NewWatchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Recommend for every image dropped into a directory",
		Long:  `Watch an upload directory and print recommendations whenever an image is created or rewritten there.`,
		Args:  cobra.ExactArgs(1),
		RunE:  makeWatchRunner(a),
	}
	cmd.Flags().Duration("debounce", 500*time.Millisecond, "Wait for writes to settle before recommending")
	cmd.Flags().Bool("json", false, "Output in JSON format")
	return cmd
}

func makeWatchRunner(a *app) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		dir := args[0]
		debounce, _ := cmd.Flags().GetDuration("debounce")
		asJSON, _ := cmd.Flags().GetBool("json")

		s, err := a.openSession()
		if err != nil {
			return err
		}
		defer s.Close()
		r, d, err := a.recommender(ctx, s, 0, "")
		if err != nil {
			return err
		}

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("create watcher: %w", err)
		}
		defer watcher.Close()
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s for images...\n", dir)

		timer := time.NewTimer(0)
		if !timer.Stop() {
			<-timer.C
		}
		pending := map[string]bool{}
		isImage := catalog.ExtensionMatcher(a.cfg.Catalog.Extensions)

		for {
			select {
			case <-ctx.Done():
				return nil
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if !isImageEvent(event, isImage) {
					continue
				}
				pending[event.Name] = true
				timer.Reset(debounce)
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				logging.Ctx(ctx).Warn().Err(err).Msg("watch error")
			case <-timer.C:
				for path := range pending {
					reqCtx := logging.WithCorrelationID(ctx)
					paths, err := r.Recommend(reqCtx, path)
					if err != nil {
						logging.Ctx(reqCtx).Warn().Err(err).Str("image", path).Msg("recommend failed")
						continue
					}
					if err := writeRecommendations(cmd.OutOrStdout(), path, d, paths, asJSON); err != nil {
						return err
					}
				}
				pending = map[string]bool{}
			}
		}
	}
}

func isImageEvent(event fsnotify.Event, isImage func(path string) bool) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return false
	}
	return isImage(event.Name)
}
