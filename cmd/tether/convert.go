package main

import (
	"github.com/spf13/cobra"

	"tether/pkg/scene"
)

func newConvertCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "convert <scene.html>",
		Short: "Expand a markup scene into TOML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := scene.Load(args[0])
			if err != nil {
				return err
			}
			if out != "" {
				return s.Save(out)
			}
			return s.Encode(cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the TOML scene to a file instead of stdout")
	return cmd
}
