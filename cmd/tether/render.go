package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"tether/internal/config"
	"tether/internal/observability"
	"tether/pkg/js"
	"tether/pkg/render"
	"tether/pkg/scene"
)

func newRenderCmd() *cobra.Command {
	var (
		outDir        string
		width, height int
		noOverlay     bool
	)
	cmd := &cobra.Command{
		Use:   "render <scene>...",
		Short: "Position each scene and paint it to a PNG",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFrom(cmd)
			if cmd.Flags().Changed("width") || cmd.Flags().Changed("height") {
				w, h := cfg.Render().Width, cfg.Render().Height
				if cmd.Flags().Changed("width") {
					w = width
				}
				if cmd.Flags().Changed("height") {
					h = height
				}
				cfg.SetRenderSize(w, h)
			}
			rc := cfg.Render()
			if noOverlay {
				rc.Overlay = false
			}
			if err := os.MkdirAll(outDir, 0755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}

			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(rc.Concurrency)
			for _, path := range args {
				path := path
				out := filepath.Join(outDir, pngName(path))
				g.Go(func() error {
					if err := ctx.Err(); err != nil {
						return err
					}
					if err := renderScene(ctx, path, out, rc, cfg.Position()); err != nil {
						return fmt.Errorf("render %s: %w", path, err)
					}
					cmd.Printf("%s -> %s\n", path, out)
					return nil
				})
			}
			return g.Wait()
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory")
	cmd.Flags().IntVar(&width, "width", 0, "image width (default from render.width)")
	cmd.Flags().IntVar(&height, "height", 0, "image height (default from render.height)")
	cmd.Flags().BoolVar(&noOverlay, "no-overlay", false, "do not outline the reference and floating elements")
	return cmd
}

func pngName(scenePath string) string {
	base := filepath.Base(scenePath)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".png"
}

// renderScene builds the scene, runs its script, places the floating
// element and writes the PNG.
func renderScene(ctx context.Context, path, out string, rc config.RenderConfig, pc config.PositionConfig) error {
	logger := observability.GetLogger().Named("render").With(zap.String("scene", path))
	st, err := loadStage(path, pc)
	if err != nil {
		return err
	}
	engine, err := js.RunScene(st, js.WithLogger(logger))
	if err != nil {
		return err
	}
	defer engine.Close()

	opts := []render.Option{render.WithColors(rc.Background, rc.Reference, rc.Floating)}
	if !rc.Overlay {
		opts = append(opts, render.WithoutOverlay())
	}
	r := render.NewRenderer(rc.Width, rc.Height, opts...)

	pos, err := st.Compute()
	switch {
	case errors.Is(err, scene.ErrNoPosition):
		logger.Debug("Scene has no position request; painting as is.")
		if err := r.Render(st, nil); err != nil {
			return err
		}
	case err != nil:
		return err
	default:
		if err := st.Apply(pos); err != nil {
			return err
		}
		if err := r.Render(st, &pos); err != nil {
			return err
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.SavePNG(out)
}
