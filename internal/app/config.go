package app

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/vk/pipecanvas/internal/placement"
)

// EnvPrefix is the prefix for environment overrides, e.g. PIPECANVAS_LISTEN_PORT.
const EnvPrefix = "PIPECANVAS"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	CatalogPaths []string `mapstructure:"catalog_paths" validate:"dive,required"`
	SkipBuiltin  bool     `mapstructure:"skip_builtin"`

	ListenPort int    `mapstructure:"listen_port" validate:"gte=0,lte=65535"`
	LogLevel   string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	LogFormat  string `mapstructure:"log_format" validate:"oneof=text json"`

	NodeWidth     float64       `mapstructure:"node_width" validate:"gt=0"`
	NodeHeight    float64       `mapstructure:"node_height" validate:"gt=0"`
	ClickDistance float64       `mapstructure:"click_distance" validate:"gt=0"`
	ClickDuration time.Duration `mapstructure:"click_duration" validate:"gt=0"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// flagKeys binds command-line flags to config keys.
var flagKeys = map[string]string{
	"catalog":        "catalog_paths",
	"skip-builtin":   "skip_builtin",
	"port":           "listen_port",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"node-width":     "node_width",
	"node-height":    "node_height",
	"click-distance": "click_distance",
	"click-duration": "click_duration",
}

// DefaultConfig returns the configuration used when nothing overrides it.
func DefaultConfig() Config {
	return Config{
		ListenPort:    8080,
		LogLevel:      "info",
		LogFormat:     "text",
		NodeWidth:     placement.DefaultNodeSize.Width,
		NodeHeight:    placement.DefaultNodeSize.Height,
		ClickDistance: placement.DefaultThresholds.Distance,
		ClickDuration: placement.DefaultThresholds.Duration,
	}
}

// RegisterFlags defines every configuration flag on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	def := DefaultConfig()
	RegisterCatalogFlags(fs)
	fs.Int("port", def.ListenPort, "Port for the HTTP server (health, metrics, socket.io). 0 is disabled.")
	fs.Float64("node-width", def.NodeWidth, "Rendered node width used to center placements.")
	fs.Float64("node-height", def.NodeHeight, "Rendered node height used to center placements.")
	fs.Float64("click-distance", def.ClickDistance, "Maximum pointer travel, in pixels, for a click.")
	fs.Duration("click-duration", def.ClickDuration, "Maximum press duration for a click.")
}

// RegisterCatalogFlags defines the flags needed to load the catalog and log.
func RegisterCatalogFlags(fs *pflag.FlagSet) {
	def := DefaultConfig()
	fs.StringSlice("catalog", nil, "Manifest file or directory to load (repeatable).")
	fs.Bool("skip-builtin", false, "Do not load the builtin module palette.")
	fs.String("log-level", def.LogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	fs.String("log-format", def.LogFormat, "Log output format. Options: 'text' or 'json'.")
}

// LoadConfig resolves the configuration from, in increasing precedence,
// defaults, the optional config file, PIPECANVAS_* environment variables and
// flags explicitly set on fs. fs may be nil.
func LoadConfig(file string, fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	def := DefaultConfig()
	v.SetDefault("catalog_paths", def.CatalogPaths)
	v.SetDefault("skip_builtin", def.SkipBuiltin)
	v.SetDefault("listen_port", def.ListenPort)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("log_format", def.LogFormat)
	v.SetDefault("node_width", def.NodeWidth)
	v.SetDefault("node_height", def.NodeHeight)
	v.SetDefault("click_distance", def.ClickDistance)
	v.SetDefault("click_duration", def.ClickDuration)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for name, key := range flagKeys {
			if pf := fs.Lookup(name); pf != nil {
				if err := v.BindPFlag(key, pf); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return NewConfig(cfg)
}

// NewConfig normalizes and validates cfg.
func NewConfig(cfg Config) (*Config, error) {
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.SkipBuiltin && len(cfg.CatalogPaths) == 0 {
		return nil, errors.New("invalid configuration: skip_builtin requires at least one catalog path")
	}
	return &cfg, nil
}

// Logger returns a logger writing to w at the configured level and format.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	return newLogger(c.LogLevel, c.LogFormat, w)
}

// NodeSize returns the configured rendered node size.
func (c *Config) NodeSize() placement.Size {
	return placement.Size{Width: c.NodeWidth, Height: c.NodeHeight}
}

// Thresholds returns the configured click thresholds.
func (c *Config) Thresholds() placement.Thresholds {
	return placement.Thresholds{Distance: c.ClickDistance, Duration: c.ClickDuration}
}
