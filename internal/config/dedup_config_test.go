package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultDedupConfig(t *testing.T) {
	cfg := DefaultDedupConfig()

	assert.Equal(t, 0.9, cfg.Sketch.SimilarityThreshold)
	assert.Equal(t, 5, cfg.Sketch.ShingleTokens)
	assert.Equal(t, 400, cfg.Sketch.NumHashFunctions)
	assert.Equal(t, cfg.Sketch.NumHashFunctions, cfg.Sketch.Bands*cfg.Sketch.Rows)
	require.NotNil(t, cfg.Input.Recursive)
	assert.True(t, *cfg.Input.Recursive)
	assert.Equal(t, "text", cfg.Output.Format)
}

func TestMerge_PartialOverlay(t *testing.T) {
	cfg := DefaultDedupConfig()
	recursive := false
	cfg.merge(&DedupConfig{
		Input: InputConfig{
			Paths:     []string{"corpus/"},
			Recursive: &recursive,
		},
		Sketch: SketchConfig{
			SimilarityThreshold: 0.8,
			Seed:                42,
		},
	})

	assert.Equal(t, []string{"corpus/"}, cfg.Input.Paths)
	assert.False(t, *cfg.Input.Recursive)
	assert.Equal(t, 0.8, cfg.Sketch.SimilarityThreshold)
	assert.Equal(t, int64(42), cfg.Sketch.Seed)
	// Untouched fields keep their defaults.
	assert.Equal(t, 400, cfg.Sketch.NumHashFunctions)
	assert.Equal(t, "text", cfg.Output.Format)
}

func TestTomlConfigLoader_MissingFileUsesDefaults(t *testing.T) {
	loader := NewTomlConfigLoader()

	cfg, err := loader.LoadConfig(t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, DefaultDedupConfig().Sketch, cfg.Sketch)
}

func TestTomlConfigLoader_LoadConfig(t *testing.T) {
	dir := t.TempDir()
	content := `
[input]
paths = ["articles/"]
include_patterns = ["**/*.txt"]

[sketch]
similarity_threshold = 0.85
shingle_tokens = 3
num_hash_functions = 100
bands = 25
rows = 4

[output]
format = "json"
sort_by = "location"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o644))

	cfg, err := NewTomlConfigLoader().LoadConfig(dir)

	require.NoError(t, err)
	assert.Equal(t, []string{"articles/"}, cfg.Input.Paths)
	assert.Equal(t, 0.85, cfg.Sketch.SimilarityThreshold)
	assert.Equal(t, 3, cfg.Sketch.ShingleTokens)
	assert.Equal(t, 100, cfg.Sketch.NumHashFunctions)
	assert.Equal(t, 25, cfg.Sketch.Bands)
	assert.Equal(t, 4, cfg.Sketch.Rows)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, "location", cfg.Output.SortBy)
}

func TestTomlConfigLoader_FindsConfigInAncestor(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFileName), []byte("[sketch]\nseed = 7\n"), 0o644))

	cfg, err := NewTomlConfigLoader().LoadConfig(nested)

	require.NoError(t, err)
	assert.Equal(t, int64(7), cfg.Sketch.Seed)
}

func TestTomlConfigLoader_SaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	loader := NewTomlConfigLoader()

	original := DefaultDedupConfig()
	original.Sketch.Seed = 99
	require.NoError(t, loader.SaveConfig(original, path))

	loaded, err := loader.LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, original.Sketch, loaded.Sketch)
	assert.Equal(t, original.Input.Paths, loaded.Input.Paths)
}

func TestTomlConfigLoader_InvalidToml(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("[sketch\nbroken"), 0o644))

	_, err := NewTomlConfigLoader().LoadConfig(dir)

	assert.Error(t, err)
}

func TestYamlConfigLoader_LoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dupescan.yaml")
	content := `
input:
  paths:
    - notes/
sketch:
  similarity_threshold: 0.75
  num_hash_functions: 200
  bands: 50
  rows: 4
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := NewYamlConfigLoader().LoadConfigFile(path)

	require.NoError(t, err)
	assert.Equal(t, []string{"notes/"}, cfg.Input.Paths)
	assert.Equal(t, 0.75, cfg.Sketch.SimilarityThreshold)
	assert.Equal(t, 200, cfg.Sketch.NumHashFunctions)
	// Defaults fill whatever the file omits.
	assert.Equal(t, 5, cfg.Sketch.ShingleTokens)
}

func TestYamlConfigLoader_MissingFile(t *testing.T) {
	_, err := NewYamlConfigLoader().LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))

	assert.Error(t, err)
}
