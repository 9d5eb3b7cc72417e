// config/explore.go
package config

import (
	"encoding/json"
	"log"
	"os"

	"github.com/nexora-app/nexora_backend/models"
)

// defaultExploreConfig backs /api/explore when no EXPLORE_CONFIG file is
// provided. Curated editorial data, not computed.
var defaultExploreConfig = models.ExploreConfig{
	Trends: []models.Trend{
		{ID: "trend-1", Title: "Artificial Intelligence", Description: "Latest developments in AI and machine learning", Mentions: 15000, Growth: 45, Category: "technology"},
		{ID: "trend-2", Title: "Web Development", Description: "Modern tooling and techniques for the web", Mentions: 12000, Growth: 32, Category: "technology"},
		{ID: "trend-3", Title: "Digital Marketing", Description: "Effective online marketing strategies", Mentions: 10000, Growth: 28, Category: "marketing"},
		{ID: "trend-4", Title: "Art & Creativity", Description: "Fresh artwork and creative design", Mentions: 8500, Growth: 22, Category: "creative"},
		{ID: "trend-5", Title: "Online Education", Description: "Modern learning platforms and tools", Mentions: 7200, Growth: 18, Category: "education"},
	},
	Topics: []models.Topic{
		{ID: "topic-1", Name: "Technology", PostCount: 15420, Category: "technology"},
		{ID: "topic-2", Name: "Photography", PostCount: 12850, Category: "creative"},
		{ID: "topic-3", Name: "Travel", PostCount: 11200, Category: "lifestyle"},
		{ID: "topic-4", Name: "Food", PostCount: 9800, Category: "lifestyle"},
		{ID: "topic-5", Name: "Music", PostCount: 8600, Category: "creative"},
		{ID: "topic-6", Name: "Fitness", PostCount: 7400, Category: "health"},
	},
}

// LoadExploreConfig reads the explore dataset from the file named by
// EXPLORE_CONFIG, falling back to the built-in defaults when the variable is
// unset or the file cannot be parsed.
func LoadExploreConfig() models.ExploreConfig {
	path := os.Getenv("EXPLORE_CONFIG")
	if path == "" {
		return defaultExploreConfig
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Warning: failed to read explore config %s: %v", path, err)
		return defaultExploreConfig
	}

	var cfg models.ExploreConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		log.Printf("Warning: failed to parse explore config %s: %v", path, err)
		return defaultExploreConfig
	}

	if len(cfg.Trends) == 0 {
		cfg.Trends = defaultExploreConfig.Trends
	}
	if len(cfg.Topics) == 0 {
		cfg.Topics = defaultExploreConfig.Topics
	}

	return cfg
}
