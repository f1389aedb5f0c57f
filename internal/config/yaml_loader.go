package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// YamlConfigLoader loads explicitly named configuration files (--config)
// via viper, which also accepts JSON and TOML by extension.
type YamlConfigLoader struct{}

// NewYamlConfigLoader creates a new viper-backed configuration loader
func NewYamlConfigLoader() *YamlConfigLoader {
	return &YamlConfigLoader{}
}

// LoadConfigFile reads the file at path over defaults.
func (l *YamlConfigLoader) LoadConfigFile(path string) (*DedupConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var fileCfg DedupConfig
	if err := v.Unmarshal(&fileCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg := DefaultDedupConfig()
	cfg.merge(&fileCfg)
	return cfg, nil
}

// SaveConfigFile writes the configuration to path in a format chosen by the
// file extension.
func (l *YamlConfigLoader) SaveConfigFile(cfg *DedupConfig, path string) error {
	v := viper.New()
	v.SetConfigFile(path)

	v.Set("input", cfg.Input)
	v.Set("sketch", cfg.Sketch)
	v.Set("output", map[string]interface{}{
		"format":       cfg.Output.Format,
		"show_details": cfg.Output.ShowDetails,
		"sort_by":      cfg.Output.SortBy,
	})

	return v.WriteConfig()
}
