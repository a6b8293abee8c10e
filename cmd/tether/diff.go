package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tether/internal/observability"
	"tether/pkg/render"
)

var errImagesDiffer = errors.New("images differ")

func newDiffCmd() *cobra.Command {
	opts := render.DefaultCompareOptions
	var out string
	cmd := &cobra.Command{
		Use:   "diff <actual.png> <expected.png>",
		Short: "Compare two renders pixel by pixel",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := observability.GetLogger().Named("diff")
			actual, err := render.LoadPNG(args[0])
			if err != nil {
				return err
			}
			expected, err := render.LoadPNG(args[1])
			if err != nil {
				return err
			}
			res, err := render.Compare(actual, expected, opts)
			if err != nil {
				return err
			}
			logger.Debug("Compared images.",
				zap.Int("different", res.DifferentPixels),
				zap.Int("max_difference", res.MaxDifference))

			fmt.Fprintf(cmd.OutOrStdout(), "%d/%d pixels differ (%.2f%%), max channel difference %d\n",
				res.DifferentPixels, res.TotalPixels, res.DifferentPercent(), res.MaxDifference)
			if out != "" {
				if err := render.SavePNG(res.Diff, out); err != nil {
					return err
				}
			}
			if !res.Match {
				return errImagesDiffer
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&opts.Tolerance, "tolerance", "t", opts.Tolerance, "largest per-channel difference still counted as equal")
	cmd.Flags().IntVar(&opts.FuzzyRadius, "fuzzy", 0, "match pixels against neighbours within this radius")
	cmd.Flags().Float64Var(&opts.MaxDifferentPercent, "max-percent", 0, "accept up to this percentage of differing pixels")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write a diff image highlighting differences")
	return cmd
}
