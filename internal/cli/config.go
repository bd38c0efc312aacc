package cli

import (
	"fmt"
	"strings"

	"github.com/RyanBlaney/sonido-wbp/wbp/config"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes the environment variables read by the CLI, e.g. WBP_LOG_LEVEL
const EnvPrefix = "WBP"

// Config is the CLI configuration, read from the config file, the environment and the flags
type Config struct {
	LogLevel    string                   `mapstructure:"log_level"`
	NoColor     bool                     `mapstructure:"no_color"`
	Corpus      []string                 `mapstructure:"corpus"`
	Extraction  config.ExtractionConfig  `mapstructure:"extraction"`
	Consistency config.ConsistencyConfig `mapstructure:"consistency"`
}

// newViper creates a viper instance with the defaults and env binding of the CLI
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "warn")
	v.SetDefault("no_color", false)
	v.SetDefault("corpus", []string{})

	ext := config.DefaultExtractionConfig()
	v.SetDefault("extraction.disallow_non_root_start_note", ext.DisallowNonRootStartNote)
	v.SetDefault("extraction.disallow_non_chord_tone_last_note", ext.DisallowNonChordToneLastNote)
	v.SetDefault("extraction.min_bar_size", ext.MinBarSize)
	v.SetDefault("extraction.max_bar_size", ext.MaxBarSize)
	v.SetDefault("extraction.velocity_target", ext.VelocityTarget)
	v.SetDefault("extraction.velocity_sigma", ext.VelocitySigma)

	cons := config.DefaultConsistencyConfig()
	v.SetDefault("consistency.style", cons.Style)
	v.SetDefault("consistency.two_chord_qualities", cons.TwoChordQualities)
	v.SetDefault("consistency.min_onset_gap", cons.MinOnsetGap)
	v.SetDefault("consistency.min_note_duration", cons.MinNoteDuration)
}

// readConfigFile reads path into v, doing nothing if path is empty
func readConfigFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return nil
}

// LoadConfig decodes the configuration held by v
func LoadConfig(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode configuration: %w", err)
	}
	if cfg.Extraction.MinBarSize < 1 || cfg.Extraction.MaxBarSize < cfg.Extraction.MinBarSize {
		return nil, fmt.Errorf("invalid extraction bar sizes %d..%d", cfg.Extraction.MinBarSize, cfg.Extraction.MaxBarSize)
	}
	return cfg, nil
}
