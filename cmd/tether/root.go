package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"tether/internal/config"
	"tether/internal/observability"
	"tether/pkg/quirks"
	"tether/pkg/scene"
)

type contextKey string

const configKey contextKey = "config"

func newRootCmd() *cobra.Command {
	var cfgFile string
	cmd := &cobra.Command{
		Use:           "tether",
		Short:         "Tether positions floating elements against their references.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			config.SetDefaults(v)
			if err := initializeConfig(v, cfgFile); err != nil {
				return err
			}
			cfg, err := config.NewConfigFromViper(v)
			if err != nil {
				return fmt.Errorf("failed to load or validate config: %w", err)
			}
			observability.InitializeLogger(cfg.Logger())
			if ua := cfg.Quirks().UserAgent; ua != "" {
				quirks.SetProcessUserAgent(ua)
			}
			observability.GetLogger().Debug("Starting tether", zap.String("version", Version), zap.String("command", cmd.Name()))

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(context.WithValue(ctx, configKey, cfg))
			return nil
		},
	}
	cmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./tether.yaml)")
	cmd.SetVersionTemplate("tether version {{.Version}}\n")

	cmd.AddCommand(
		newComputeCmd(),
		newRenderCmd(),
		newRunCmd(),
		newWatchCmd(),
		newCaptureCmd(),
		newDiffCmd(),
		newConvertCmd(),
		newVersionCmd(),
	)
	return cmd
}

// initializeConfig reads the config file, if any, and TETHER_* variables.
func initializeConfig(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("tether")
		v.SetConfigType("yaml")
	}
	config.BindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}

func configFrom(cmd *cobra.Command) *config.Config {
	if cfg, ok := cmd.Context().Value(configKey).(*config.Config); ok {
		return cfg
	}
	return config.NewDefaultConfig()
}

// loadStage loads and builds a scene, filling an unset placement or
// strategy from the configuration.
func loadStage(path string, pos config.PositionConfig) (*scene.Stage, error) {
	s, err := scene.Load(path)
	if err != nil {
		return nil, err
	}
	if p := s.Position; p != nil {
		if p.Placement == "" {
			p.Placement = pos.Placement
		}
		if p.Strategy == "" {
			p.Strategy = pos.Strategy
		}
	}
	st, err := s.Build()
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", path, err)
	}
	return st, nil
}
