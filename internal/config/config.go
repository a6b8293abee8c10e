// File: internal/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"tether/pkg/floating"
	"tether/pkg/placement"
)

// EnvPrefix is prepended to every environment override, e.g.
// TETHER_RENDER_WIDTH.
const EnvPrefix = "TETHER"

// Interface defines the contract for accessing application configuration.
type Interface interface {
	Logger() LoggerConfig
	Render() RenderConfig
	Position() PositionConfig
	Quirks() QuirksConfig
	Capture() CaptureConfig
	Watch() WatchConfig

	SetRenderSize(width, height int)
	SetCaptureHeadless(bool)
}

// Config holds the entire application configuration.
type Config struct {
	LoggerCfg   LoggerConfig   `mapstructure:"logger" yaml:"logger"`
	RenderCfg   RenderConfig   `mapstructure:"render" yaml:"render"`
	PositionCfg PositionConfig `mapstructure:"position" yaml:"position"`
	QuirksCfg   QuirksConfig   `mapstructure:"quirks" yaml:"quirks"`
	CaptureCfg  CaptureConfig  `mapstructure:"capture" yaml:"capture"`
	WatchCfg    WatchConfig    `mapstructure:"watch" yaml:"watch"`
}

func (c *Config) Logger() LoggerConfig     { return c.LoggerCfg }
func (c *Config) Render() RenderConfig     { return c.RenderCfg }
func (c *Config) Position() PositionConfig { return c.PositionCfg }
func (c *Config) Quirks() QuirksConfig     { return c.QuirksCfg }
func (c *Config) Capture() CaptureConfig   { return c.CaptureCfg }
func (c *Config) Watch() WatchConfig       { return c.WatchCfg }

func (c *Config) SetRenderSize(width, height int) {
	c.RenderCfg.Width = width
	c.RenderCfg.Height = height
}
func (c *Config) SetCaptureHeadless(b bool) { c.CaptureCfg.Headless = b }

// LoggerConfig configures the global zap logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig names the console colour of each log level.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// RenderConfig sizes and colours PNG output.
type RenderConfig struct {
	Width      int    `mapstructure:"width" yaml:"width"`
	Height     int    `mapstructure:"height" yaml:"height"`
	Background string `mapstructure:"background" yaml:"background"`
	Reference  string `mapstructure:"reference" yaml:"reference"`
	Floating   string `mapstructure:"floating" yaml:"floating"`
	Overlay    bool   `mapstructure:"overlay" yaml:"overlay"`
	// Concurrency bounds how many scenes render at once.
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency"`
}

// PositionConfig fills in what a scene's position section leaves out.
type PositionConfig struct {
	Placement string `mapstructure:"placement" yaml:"placement"`
	Strategy  string `mapstructure:"strategy" yaml:"strategy"`
}

// QuirksConfig overrides engine detection.
type QuirksConfig struct {
	UserAgent string `mapstructure:"user_agent" yaml:"user_agent"`
}

// CaptureConfig drives the browser used by snapshot capture.
type CaptureConfig struct {
	Headless     bool          `mapstructure:"headless" yaml:"headless"`
	Timeout      time.Duration `mapstructure:"timeout" yaml:"timeout"`
	WaitSelector string        `mapstructure:"wait_selector" yaml:"wait_selector"`
	// Selector picks the elements recorded into the scene.
	Selector string `mapstructure:"selector" yaml:"selector"`
}

// WatchConfig tunes the scene file watcher.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce"`
}

// NewDefaultConfig creates a new configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for various configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "tether")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 7)
	v.SetDefault("logger.compress", false)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")

	// -- Render --
	v.SetDefault("render.width", 800)
	v.SetDefault("render.height", 600)
	v.SetDefault("render.background", "#ffffff")
	v.SetDefault("render.reference", "#1e90ff")
	v.SetDefault("render.floating", "#ff8c00")
	v.SetDefault("render.overlay", true)
	v.SetDefault("render.concurrency", 4)

	// -- Position --
	v.SetDefault("position.placement", "bottom")
	v.SetDefault("position.strategy", "absolute")

	// -- Quirks --
	v.SetDefault("quirks.user_agent", "")

	// -- Capture --
	v.SetDefault("capture.headless", true)
	v.SetDefault("capture.timeout", "30s")
	v.SetDefault("capture.wait_selector", "body")
	v.SetDefault("capture.selector", "body *")

	// -- Watch --
	v.SetDefault("watch.debounce", "150ms")
}

// BindEnv makes every key overridable from TETHER_* environment variables.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for sane values.
func (c *Config) Validate() error {
	if c.RenderCfg.Width <= 0 || c.RenderCfg.Height <= 0 {
		return fmt.Errorf("render.width and render.height must be positive integers")
	}
	if c.RenderCfg.Concurrency <= 0 {
		return fmt.Errorf("render.concurrency must be a positive integer")
	}
	if err := c.PositionCfg.Validate(); err != nil {
		return fmt.Errorf("position configuration invalid: %w", err)
	}
	if c.CaptureCfg.Timeout <= 0 {
		return fmt.Errorf("capture.timeout must be a positive duration")
	}
	if c.WatchCfg.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	return nil
}

// Validate checks that the defaults parse.
func (p *PositionConfig) Validate() error {
	if _, err := placement.Parse(p.Placement); err != nil {
		return err
	}
	if _, err := floating.ParseStrategy(p.Strategy); err != nil {
		return err
	}
	return nil
}
