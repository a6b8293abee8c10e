package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tether/internal/observability"
	"tether/pkg/snapshot"
)

func newCaptureCmd() *cobra.Command {
	var (
		out, reference, floatingSel string
		headed                      bool
	)
	cmd := &cobra.Command{
		Use:   "capture <url>",
		Short: "Record a live page into a scene file using Chrome",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFrom(cmd)
			if headed {
				cfg.SetCaptureHeadless(false)
			}
			cc := cfg.Capture()
			opts := []snapshot.Option{
				snapshot.WithViewport(cfg.Render().Width, cfg.Render().Height),
				snapshot.WithHeadless(cc.Headless),
				snapshot.WithTimeout(cc.Timeout),
				snapshot.WithWaitSelector(cc.WaitSelector),
				snapshot.WithSelector(cc.Selector),
				snapshot.WithPlacement(cfg.Position().Placement, cfg.Position().Strategy),
				snapshot.WithUserAgent(cfg.Quirks().UserAgent),
				snapshot.WithLogger(observability.GetLogger().Named("capture")),
			}
			if reference != "" || floatingSel != "" {
				if reference == "" || floatingSel == "" {
					return fmt.Errorf("--reference and --floating must be given together")
				}
				opts = append(opts, snapshot.WithPair(reference, floatingSel))
			}

			s, err := snapshot.Capture(cmd.Context(), args[0], opts...)
			if err != nil {
				return err
			}
			if out == "" {
				return s.Encode(cmd.OutOrStdout())
			}
			if err := s.Save(out); err != nil {
				return err
			}
			cmd.Printf("%s -> %s (%d elements)\n", args[0], out, len(s.Elements))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "scene file to write (default stdout)")
	cmd.Flags().StringVar(&reference, "reference", "", "selector of the reference element")
	cmd.Flags().StringVar(&floatingSel, "floating", "", "selector of the floating element")
	cmd.Flags().BoolVar(&headed, "headed", false, "show the browser window")
	return cmd
}
