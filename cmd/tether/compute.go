package main

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tether/internal/observability"
	"tether/pkg/floating"
	"tether/pkg/geom"
	"tether/pkg/placement"
)

// computeResult is the JSON printed for one scene.
type computeResult struct {
	Scene     string    `json:"scene"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Placement string    `json:"placement"`
	Strategy  string    `json:"strategy"`
	Reference geom.Rect `json:"reference"`
	Floating  geom.Rect `json:"floating"`
}

func newComputeCmd() *cobra.Command {
	var placementFlag, strategyFlag string
	cmd := &cobra.Command{
		Use:   "compute <scene>...",
		Short: "Print the computed position of each scene as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFrom(cmd)
			logger := observability.GetLogger().Named("compute")

			var opts []floating.PositionOption
			if placementFlag != "" {
				p, err := placement.Parse(placementFlag)
				if err != nil {
					return err
				}
				opts = append(opts, floating.WithPlacement(p))
			}
			if strategyFlag != "" {
				s, err := floating.ParseStrategy(strategyFlag)
				if err != nil {
					return err
				}
				opts = append(opts, floating.WithStrategy(s))
			}

			enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			for _, path := range args {
				st, err := loadStage(path, cfg.Position())
				if err != nil {
					return err
				}
				req, err := st.Request()
				if err != nil {
					return err
				}
				pos := floating.ComputePosition(req.Reference, req.Floating, append([]floating.PositionOption{
					floating.WithPlacement(req.Placement),
					floating.WithStrategy(req.Strategy),
				}, opts...)...)
				logger.Debug("Computed position.", zap.String("scene", path), zap.Float64("x", pos.X), zap.Float64("y", pos.Y))

				if err := enc.Encode(computeResult{
					Scene:     path,
					X:         pos.X,
					Y:         pos.Y,
					Placement: pos.Placement.String(),
					Strategy:  string(pos.Strategy),
					Reference: pos.Rects.Reference,
					Floating:  pos.Rects.Floating,
				}); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&placementFlag, "placement", "p", "", "override the scene placement")
	cmd.Flags().StringVarP(&strategyFlag, "strategy", "s", "", "override the scene strategy")
	return cmd
}
