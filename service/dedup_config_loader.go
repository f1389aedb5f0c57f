package service

import (
	"path/filepath"
	"strings"

	"github.com/dupescan/dupescan/domain"
	"github.com/dupescan/dupescan/internal/config"
)

// DedupConfigurationLoaderImpl implements the domain.DedupConfigurationLoader
// interface on top of the internal config package.
type DedupConfigurationLoaderImpl struct {
	tomlLoader *config.TomlConfigLoader
	yamlLoader *config.YamlConfigLoader
}

// NewDedupConfigurationLoader creates a new configuration loader service
func NewDedupConfigurationLoader() *DedupConfigurationLoaderImpl {
	return &DedupConfigurationLoaderImpl{
		tomlLoader: config.NewTomlConfigLoader(),
		yamlLoader: config.NewYamlConfigLoader(),
	}
}

// LoadDedupConfig loads scan configuration from file. An empty path means
// discovery: walk up from the working directory looking for .dupescan.toml.
func (l *DedupConfigurationLoaderImpl) LoadDedupConfig(configPath string) (*domain.DedupRequest, error) {
	var cfg *config.DedupConfig
	var err error

	if configPath == "" {
		cfg, err = l.tomlLoader.LoadConfig(".")
	} else if isTomlPath(configPath) {
		cfg, err = l.tomlLoader.LoadConfigFile(configPath)
	} else {
		cfg, err = l.yamlLoader.LoadConfigFile(configPath)
	}
	if err != nil {
		return nil, domain.NewConfigError("failed to load configuration", err)
	}

	return configToRequest(cfg), nil
}

// SaveDedupConfig saves scan configuration to file
func (l *DedupConfigurationLoaderImpl) SaveDedupConfig(req *domain.DedupRequest, configPath string) error {
	cfg := requestToConfig(req)

	var err error
	if isTomlPath(configPath) {
		err = l.tomlLoader.SaveConfig(cfg, configPath)
	} else {
		err = l.yamlLoader.SaveConfigFile(cfg, configPath)
	}
	if err != nil {
		return domain.NewConfigError("failed to save configuration", err)
	}
	return nil
}

// GetDefaultDedupConfig returns default scan configuration
func (l *DedupConfigurationLoaderImpl) GetDefaultDedupConfig() *domain.DedupRequest {
	return configToRequest(config.DefaultDedupConfig())
}

// isTomlPath reports whether path names a TOML file. The discovery file name
// has no extension requirement, so dotfile names ending in .toml count too.
func isTomlPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// configToRequest converts a file configuration into a scan request.
func configToRequest(cfg *config.DedupConfig) *domain.DedupRequest {
	req := &domain.DedupRequest{
		Paths:           cfg.Input.Paths,
		IncludePatterns: cfg.Input.IncludePatterns,
		ExcludePatterns: cfg.Input.ExcludePatterns,

		SimilarityThreshold: cfg.Sketch.SimilarityThreshold,
		ShingleTokens:       cfg.Sketch.ShingleTokens,
		NumHashFunctions:    cfg.Sketch.NumHashFunctions,
		Bands:               cfg.Sketch.Bands,
		Rows:                cfg.Sketch.Rows,
		Seed:                cfg.Sketch.Seed,

		OutputFormat: domain.OutputFormat(cfg.Output.Format),
		SortBy:       domain.SortCriteria(cfg.Output.SortBy),
	}

	if cfg.Input.Recursive != nil {
		req.Recursive = *cfg.Input.Recursive
	}
	if cfg.Output.ShowDetails != nil {
		req.ShowDetails = *cfg.Output.ShowDetails
	}

	return req
}

// requestToConfig converts a scan request into a file configuration.
func requestToConfig(req *domain.DedupRequest) *config.DedupConfig {
	recursive := req.Recursive
	showDetails := req.ShowDetails

	return &config.DedupConfig{
		Input: config.InputConfig{
			Paths:           req.Paths,
			Recursive:       &recursive,
			IncludePatterns: req.IncludePatterns,
			ExcludePatterns: req.ExcludePatterns,
		},
		Sketch: config.SketchConfig{
			SimilarityThreshold: req.SimilarityThreshold,
			ShingleTokens:       req.ShingleTokens,
			NumHashFunctions:    req.NumHashFunctions,
			Bands:               req.Bands,
			Rows:                req.Rows,
			Seed:                req.Seed,
		},
		Output: config.OutputConfig{
			Format:      string(req.OutputFormat),
			ShowDetails: &showDetails,
			SortBy:      string(req.SortBy),
		},
	}
}
