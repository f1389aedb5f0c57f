package mcp

import (
	"github.com/dupescan/dupescan/app"
	"github.com/dupescan/dupescan/domain"
	"github.com/dupescan/dupescan/internal/config"
	"github.com/dupescan/dupescan/service"
)

// Dependencies aggregates the shared services required by MCP handlers.
type Dependencies struct {
	fileReader domain.FileReader
	config     *config.DedupConfig
	configPath string
}

// NewDependencies constructs the dependency set with sane defaults.
func NewDependencies(cfg *config.DedupConfig, configPath string) *Dependencies {
	if cfg == nil {
		cfg = config.DefaultDedupConfig()
	}

	return &Dependencies{
		fileReader: service.NewFileReader(),
		config:     cfg,
		configPath: configPath,
	}
}

// Config exposes the loaded configuration snapshot.
func (d *Dependencies) Config() *config.DedupConfig {
	return d.config
}

// ConfigPath returns the configured config file path (may be empty to trigger discovery).
func (d *Dependencies) ConfigPath() string {
	return d.configPath
}

// BuildDedupUseCase assembles a fresh DedupUseCase with injected dependencies.
func (d *Dependencies) BuildDedupUseCase() (*app.DedupUseCase, error) {
	return app.NewDedupUseCaseBuilder().
		WithService(service.NewDedupService(d.fileReader)).
		WithFileReader(d.fileReader).
		WithFormatter(service.NewDedupFormatter()).
		WithConfigLoader(service.NewDedupConfigurationLoader()).
		Build()
}
