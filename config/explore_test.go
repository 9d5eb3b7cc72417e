package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadExploreConfigDefaults(t *testing.T) {
	t.Setenv("EXPLORE_CONFIG", "")

	cfg := LoadExploreConfig()
	assert.NotEmpty(t, cfg.Trends)
	assert.NotEmpty(t, cfg.Topics)
}

func TestLoadExploreConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "explore.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"trends": [{"id": "t1", "title": "Custom Trend", "mentions": 10, "growth": 5, "category": "tech"}],
		"topics": [{"id": "c1", "name": "Custom Topic", "postCount": 3, "category": "tech"}]
	}`), 0644))
	t.Setenv("EXPLORE_CONFIG", path)

	cfg := LoadExploreConfig()
	require.Len(t, cfg.Trends, 1)
	assert.Equal(t, "Custom Trend", cfg.Trends[0].Title)
	require.Len(t, cfg.Topics, 1)
	assert.Equal(t, "Custom Topic", cfg.Topics[0].Name)
}

func TestLoadExploreConfigBadJSONFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "explore.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))
	t.Setenv("EXPLORE_CONFIG", path)

	cfg := LoadExploreConfig()
	assert.NotEmpty(t, cfg.Trends)
	assert.NotEmpty(t, cfg.Topics)
}

func TestLoadExploreConfigMissingFileFallsBack(t *testing.T) {
	t.Setenv("EXPLORE_CONFIG", filepath.Join(t.TempDir(), "missing.json"))

	cfg := LoadExploreConfig()
	assert.NotEmpty(t, cfg.Trends)
	assert.NotEmpty(t, cfg.Topics)
}
