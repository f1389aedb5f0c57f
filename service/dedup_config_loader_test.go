package service

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dupescan/dupescan/domain"
)

func TestGetDefaultDedupConfig(t *testing.T) {
	req := NewDedupConfigurationLoader().GetDefaultDedupConfig()

	assert.Equal(t, 0.9, req.SimilarityThreshold)
	assert.Equal(t, 5, req.ShingleTokens)
	assert.Equal(t, 400, req.NumHashFunctions)
	assert.True(t, req.Recursive)
	assert.Equal(t, domain.OutputFormatText, req.OutputFormat)
	assert.Equal(t, domain.SortBySimilarity, req.SortBy)
	require.NoError(t, req.Validate())
}

func TestLoadDedupConfig_Toml(t *testing.T) {
	path := writeTestFile(t, t.TempDir(), "scan.toml", `
[input]
paths = ["corpus/"]

[sketch]
similarity_threshold = 0.8
num_hash_functions = 128
bands = 32
rows = 4
seed = 11
`)

	req, err := NewDedupConfigurationLoader().LoadDedupConfig(path)

	require.NoError(t, err)
	assert.Equal(t, []string{"corpus/"}, req.Paths)
	assert.Equal(t, 0.8, req.SimilarityThreshold)
	assert.Equal(t, 128, req.NumHashFunctions)
	assert.Equal(t, int64(11), req.Seed)
	// Defaults fill whatever the file omits.
	assert.Equal(t, 5, req.ShingleTokens)
}

func TestLoadDedupConfig_Yaml(t *testing.T) {
	path := writeTestFile(t, t.TempDir(), "scan.yaml", `
sketch:
  similarity_threshold: 0.7
output:
  format: json
`)

	req, err := NewDedupConfigurationLoader().LoadDedupConfig(path)

	require.NoError(t, err)
	assert.Equal(t, 0.7, req.SimilarityThreshold)
	assert.Equal(t, domain.OutputFormatJSON, req.OutputFormat)
}

func TestLoadDedupConfig_MissingFile(t *testing.T) {
	_, err := NewDedupConfigurationLoader().LoadDedupConfig(filepath.Join(t.TempDir(), "nope.toml"))

	require.Error(t, err)
	var domainErr domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeConfigError, domainErr.Code)
}

func TestSaveDedupConfig_RoundTrip(t *testing.T) {
	loader := NewDedupConfigurationLoader()
	path := filepath.Join(t.TempDir(), "saved.toml")

	original := loader.GetDefaultDedupConfig()
	original.SimilarityThreshold = 0.85
	original.Seed = 77
	require.NoError(t, loader.SaveDedupConfig(original, path))

	loaded, err := loader.LoadDedupConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 0.85, loaded.SimilarityThreshold)
	assert.Equal(t, int64(77), loaded.Seed)
	assert.Equal(t, original.NumHashFunctions, loaded.NumHashFunctions)
}
