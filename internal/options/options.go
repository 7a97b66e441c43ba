package options

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// STDPARSER_LOG_LEVEL.
const EnvPrefix = "STDPARSER"

// Options is the resolved CLI configuration.
type Options struct {
	IncludeSpec     bool    `mapstructure:"spec"`
	MaxCoords       int     `mapstructure:"max"`
	Limit           int     `mapstructure:"limit"`
	Format          string  `mapstructure:"format"`
	MetricsTextfile string  `mapstructure:"metrics-textfile"`
	Log             Logging `mapstructure:",squash"`
}

// Logging configures the logrus output.
type Logging struct {
	Level      string `mapstructure:"log-level"`
	File       string `mapstructure:"log-file"`
	MaxSizeMB  int    `mapstructure:"log-max-size"`
	MaxBackups int    `mapstructure:"log-max-backups"`
}

// NewViper returns a viper instance with defaults and env overrides wired.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("log-level", "info")
	v.SetDefault("log-max-size", 50)
	v.SetDefault("log-max-backups", 3)
	v.SetDefault("format", "json")
	v.SetDefault("limit", 5)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the optional config file and unmarshals every source into
// Options. Flags must already be bound to v.
func Load(v *viper.Viper, path string) (Options, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Options{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	var opts Options
	if err := v.Unmarshal(&opts); err != nil {
		return Options{}, fmt.Errorf("decode config: %w", err)
	}
	if opts.MaxCoords < 0 {
		return Options{}, fmt.Errorf("max must be >= 0, got %d", opts.MaxCoords)
	}
	switch opts.Format {
	case "json", "yaml":
	default:
		return Options{}, fmt.Errorf("unsupported format %q (want json or yaml)", opts.Format)
	}
	return opts, nil
}

type contextKey struct{}

// WithOptions stores opts inside the context.
func WithOptions(ctx context.Context, opts Options) context.Context {
	return context.WithValue(ctx, contextKey{}, opts)
}

// FromContext retrieves Options from ctx, or the zero value.
func FromContext(ctx context.Context) Options {
	if v := ctx.Value(contextKey{}); v != nil {
		if opts, ok := v.(Options); ok {
			return opts
		}
	}
	return Options{}
}
