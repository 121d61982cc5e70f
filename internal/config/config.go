// Package config loads connection definitions and UI settings from the
// layered YAML sources: the user config directory, a per-project
// dotfile, the LAZYDBM_CONFIG environment variable, and an explicit
// --config path. Connection lists from every source are concatenated in
// that order; scalar settings are last-one-wins.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/rebeliceyang/lazydbm/internal/models"
)

const sampleConfig = `conn:
  - type: postgres
    name: local
    user: postgres
    host: localhost
    port: 5432
    database: postgres
  - type: mysql
    user: root
    host: localhost
    port: 3306
  - type: sqlite
    path: ~/app.db
`

// UIConfig holds layout settings.
type UIConfig struct {
	TreeWidthPercent int `mapstructure:"tree_width_percent"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Config is the merged result of every source.
type Config struct {
	Conns []models.Connection `mapstructure:"conn"`
	UI    UIConfig            `mapstructure:"ui"`
	Log   LogConfig           `mapstructure:"log"`
}

// Default returns the settings used before any file is read.
func Default() Config {
	return Config{
		UI:  UIConfig{TreeWidthPercent: 15},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads and merges every configured source. flagPath is the value
// of the --config flag, empty when unset. Sources that do not exist are
// skipped; a source that exists but fails to parse is an error, and the
// message carries a sample so a first-run user can copy it.
func Load(flagPath string) (Config, error) {
	cfg := Default()
	for _, path := range sources(flagPath) {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := mergeFile(&cfg, path); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w\n\nsample config:\n%s", path, err, sampleConfig)
		}
	}
	if cfg.UI.TreeWidthPercent <= 0 || cfg.UI.TreeWidthPercent >= 100 {
		cfg.UI.TreeWidthPercent = 15
	}
	return cfg, nil
}

// DefaultPath returns the primary config file location, used in help
// text and as the directory for the log file.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "lazydbm", "config.yaml")
}

func sources(flagPath string) []string {
	return []string{
		DefaultPath(),
		".lazydbm.yaml",
		os.Getenv("LAZYDBM_CONFIG"),
		flagPath,
	}
}

func mergeFile(cfg *Config, path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return err
	}
	var part Config
	if err := v.Unmarshal(&part); err != nil {
		return err
	}
	cfg.Conns = append(cfg.Conns, part.Conns...)
	if v.IsSet("ui.tree_width_percent") {
		cfg.UI.TreeWidthPercent = part.UI.TreeWidthPercent
	}
	if v.IsSet("log.level") {
		cfg.Log.Level = part.Log.Level
	}
	return nil
}
