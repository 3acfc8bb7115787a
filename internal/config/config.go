package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Dictionary is a path to a YAML code dictionary; empty means the
	// built-in dictionary.
	Dictionary string `mapstructure:"dictionary" yaml:"dictionary"`

	// NullRatioThreshold drops columns whose missing fraction reaches it.
	NullRatioThreshold float64 `mapstructure:"null_ratio_threshold" yaml:"null_ratio_threshold"`

	// ICUDayCutoff removes rows whose ICU stay exceeds it, in days.
	ICUDayCutoff int `mapstructure:"icu_day_cutoff" yaml:"icu_day_cutoff"`

	// ChunkSize processes large inputs in row chunks; 0 disables chunking.
	ChunkSize int `mapstructure:"chunk_size" yaml:"chunk_size"`

	// PGTable is the default destination table for the load command.
	PGTable string `mapstructure:"pg_table" yaml:"pg_table"`
}

// Save writes the given configuration to the cfgFile path. If cfgFile is
// empty, it writes to ~/.sragpipe/config.yaml, creating the directory if
// necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".sragpipe")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (applied by the caller) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("SRAGPIPE")
	v.AutomaticEnv()

	v.SetDefault("dictionary", "")
	v.SetDefault("null_ratio_threshold", 0.95)
	v.SetDefault("icu_day_cutoff", 160)
	v.SetDefault("chunk_size", 0)
	v.SetDefault("pg_table", "srag_processed")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		v.AddConfigPath(filepath.Join(home, ".sragpipe"))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
