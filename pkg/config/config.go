// Package config provides configuration loading and validation for the itree tool.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrInvalidFormat    = errors.New("invalid output format")
	ErrInvalidCodec     = errors.New("invalid persistence codec")
	ErrInvalidShards    = errors.New("shard count must be positive")
	ErrInvalidThreshold = errors.New("hibernation threshold must not be negative")
)

// Default configuration values.
const (
	DefaultFormat               = "table"
	DefaultCodec                = "json"
	DefaultStateBasename        = "ranges"
	DefaultShards               = 4
	DefaultHibernationThreshold = 100000
	DefaultPlotWidth            = "900px"
	DefaultPlotHeight           = "500px"
)

var (
	knownFormats = []string{"table", "json", "csv"}
	knownCodecs  = []string{"json", "gob", "yaml"}
)

// Config holds all configuration for the itree tool.
type Config struct {
	Output  OutputConfig  `mapstructure:"output"`
	Persist PersistConfig `mapstructure:"persist"`
	Tree    TreeConfig    `mapstructure:"tree"`
	Plot    PlotConfig    `mapstructure:"plot"`
}

// OutputConfig holds report rendering configuration.
type OutputConfig struct {
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}

// PersistConfig holds state persistence configuration.
type PersistConfig struct {
	Codec     string `mapstructure:"codec"`
	Directory string `mapstructure:"directory"`
	Basename  string `mapstructure:"basename"`
}

// TreeConfig holds allocator tuning for the arena-backed trees.
type TreeConfig struct {
	Shards               int `mapstructure:"shards"`
	HibernationThreshold int `mapstructure:"hibernation_threshold"`
}

// PlotConfig holds chart rendering configuration.
type PlotConfig struct {
	Width  string `mapstructure:"width"`
	Height string `mapstructure:"height"`
}

// Load reads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName("itree")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")
	}

	viperCfg.SetEnvPrefix("ITREE")
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := validate(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

func setDefaults(viperCfg *viper.Viper) {
	// Output defaults.
	viperCfg.SetDefault("output.format", DefaultFormat)
	viperCfg.SetDefault("output.color", true)

	// Persistence defaults.
	viperCfg.SetDefault("persist.codec", DefaultCodec)
	viperCfg.SetDefault("persist.directory", ".")
	viperCfg.SetDefault("persist.basename", DefaultStateBasename)

	// Tree defaults.
	viperCfg.SetDefault("tree.shards", DefaultShards)
	viperCfg.SetDefault("tree.hibernation_threshold", DefaultHibernationThreshold)

	// Plot defaults.
	viperCfg.SetDefault("plot.width", DefaultPlotWidth)
	viperCfg.SetDefault("plot.height", DefaultPlotHeight)
}

func validate(config *Config) error {
	if !slices.Contains(knownFormats, config.Output.Format) {
		return fmt.Errorf("%w: %q", ErrInvalidFormat, config.Output.Format)
	}

	if !slices.Contains(knownCodecs, config.Persist.Codec) {
		return fmt.Errorf("%w: %q", ErrInvalidCodec, config.Persist.Codec)
	}

	if config.Tree.Shards <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidShards, config.Tree.Shards)
	}

	if config.Tree.HibernationThreshold < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidThreshold, config.Tree.HibernationThreshold)
	}

	return nil
}
