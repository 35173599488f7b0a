package cmd

import (
	"fmt"
	"io"
	"strings"

	"cosmossdk.io/log"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds CLI settings loaded from flags, POOLSIM_ environment variables or a config
// file.
type Config struct {
	ChainID     string
	LogLevel    string
	LogFormat   string
	Output      string
	MetricsAddr string
}

// LoadConfig merges the config file, environment and flags into Config.
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("POOLSIM")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("chain-id", "")
	v.SetDefault("log-level", "info")
	v.SetDefault("log-format", "plain")
	v.SetDefault("output", "text")
	v.SetDefault("metrics-addr", "")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		ChainID:     v.GetString("chain-id"),
		LogLevel:    v.GetString("log-level"),
		LogFormat:   strings.ToLower(v.GetString("log-format")),
		Output:      strings.ToLower(v.GetString("output")),
		MetricsAddr: v.GetString("metrics-addr"),
	}
	return cfg, cfg.Validate()
}

// Validate checks the enumerated settings.
func (c Config) Validate() error {
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log-level: %w", err)
	}
	switch c.LogFormat {
	case "plain", "json":
	default:
		return fmt.Errorf("log-format must be plain or json, got %q", c.LogFormat)
	}
	switch c.Output {
	case "text", "json":
	default:
		return fmt.Errorf("output must be text or json, got %q", c.Output)
	}
	return nil
}

// NewLogger builds the process logger writing to w.
func (c Config) NewLogger(w io.Writer) (log.Logger, error) {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("log-level: %w", err)
	}
	opts := []log.Option{log.LevelOption(level)}
	if c.LogFormat == "json" {
		opts = append(opts, log.OutputJSONOption())
	} else {
		opts = append(opts, log.ColorOption(false))
	}
	return log.NewLogger(w, opts...), nil
}
