package main

import (
	"github.com/spf13/cobra"

	"tether/internal/observability"
	"tether/pkg/js"
)

// frameInterval is the timestamp step between ticks, in milliseconds.
const frameInterval = 16

func newRunCmd() *cobra.Command {
	var frames int
	cmd := &cobra.Command{
		Use:   "run <scene>",
		Short: "Run a scene's script, tick animation frames and print every element's box",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFrom(cmd)
			st, err := loadStage(args[0], cfg.Position())
			if err != nil {
				return err
			}
			engine, err := js.RunScene(st, js.WithLogger(observability.GetLogger().Named("script")))
			if err != nil {
				return err
			}
			defer engine.Close()

			for i := 1; i <= frames; i++ {
				if err := cmd.Context().Err(); err != nil {
					return err
				}
				st.Window.Tick(float64(i * frameInterval))
			}

			for _, id := range st.IDs() {
				el, err := st.Element(id)
				if err != nil {
					return err
				}
				r := el.BoundingClientRect()
				cmd.Printf("%s: x=%g y=%g w=%g h=%g\n", id, r.X, r.Y, r.Width, r.Height)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&frames, "frames", "f", 1, "animation frames to run after the script")
	return cmd
}
