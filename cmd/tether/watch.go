package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tether/internal/observability"
)

func newWatchCmd() *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "watch <scene>",
		Short: "Re-render a scene whenever its file changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFrom(cmd)
			path := args[0]
			out := filepath.Join(outDir, pngName(path))
			logger := observability.GetLogger().Named("watch")

			rerender := func() {
				if err := renderScene(cmd.Context(), path, out, cfg.Render(), cfg.Position()); err != nil {
					logger.Warn("Render failed.", zap.String("scene", path), zap.Error(err))
					return
				}
				cmd.Printf("%s -> %s\n", path, out)
			}
			rerender()

			w := &sceneWatcher{path: path, debounce: cfg.Watch().Debounce, onChange: rerender, log: logger}
			return w.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory")
	return cmd
}

// sceneWatcher calls onChange after writes to path settle for debounce.
// It watches the parent directory so editors that replace the file on save
// are still seen.
type sceneWatcher struct {
	path     string
	debounce time.Duration
	onChange func()
	log      *zap.Logger
}

// Run blocks until ctx is done. onChange runs on Run's goroutine.
func (w *sceneWatcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	target, err := filepath.Abs(w.path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.path, err)
	}
	w.log.Info("Watching scene.", zap.String("path", target), zap.Duration("debounce", w.debounce))

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.log.Debug("Scene changed.", zap.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("Watcher error.", zap.Error(err))
		case <-fire:
			fire = nil
			w.onChange()
		}
	}
}
