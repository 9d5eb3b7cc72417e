// models/explore.go
package models

// Trend is a curated trending topic shown on the explore page. Trends come
// from static configuration, not from a ranking pipeline.
type Trend struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Mentions    int    `json:"mentions"`
	Growth      int    `json:"growth"`
	Category    string `json:"category"`
}

// Topic is a browsable explore category.
type Topic struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	PostCount int    `json:"postCount"`
	Category  string `json:"category"`
}

// ExploreConfig is the static dataset backing /api/explore/trends and
// /api/explore/topics, loaded from EXPLORE_CONFIG at startup.
type ExploreConfig struct {
	Trends []Trend `json:"trends"`
	Topics []Topic `json:"topics"`
}
