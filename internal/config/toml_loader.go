package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// ConfigFileName is the dedicated configuration file discovered near the
// scanned paths.
const ConfigFileName = ".dupescan.toml"

// TomlConfigLoader handles TOML configuration loading
type TomlConfigLoader struct{}

// NewTomlConfigLoader creates a new TOML configuration loader
func NewTomlConfigLoader() *TomlConfigLoader {
	return &TomlConfigLoader{}
}

// LoadConfig loads configuration with the following priority:
// 1. .dupescan.toml in startDir or the nearest ancestor directory
// 2. defaults
func (l *TomlConfigLoader) LoadConfig(startDir string) (*DedupConfig, error) {
	cfg := DefaultDedupConfig()

	path, found := l.findConfigFile(startDir)
	if !found {
		return cfg, nil
	}

	fileCfg, err := l.loadFile(path)
	if err != nil {
		return nil, err
	}

	cfg.merge(fileCfg)
	return cfg, nil
}

// LoadConfigFile loads a specific TOML configuration file over defaults.
func (l *TomlConfigLoader) LoadConfigFile(path string) (*DedupConfig, error) {
	fileCfg, err := l.loadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultDedupConfig()
	cfg.merge(fileCfg)
	return cfg, nil
}

// findConfigFile walks from startDir toward the filesystem root looking for
// the dedicated config file.
func (l *TomlConfigLoader) findConfigFile(startDir string) (string, bool) {
	dir := startDir
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		dir = filepath.Dir(dir)
	}

	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func (l *TomlConfigLoader) loadFile(path string) (*DedupConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg DedupConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SaveConfig writes the configuration as TOML, used by the init command to
// seed a project-local config file.
func (l *TomlConfigLoader) SaveConfig(cfg *DedupConfig, path string) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}
