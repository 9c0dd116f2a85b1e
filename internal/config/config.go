package config

// Config represents the complete repomap configuration.
// It can be loaded from .repomap/config.yml with environment variable overrides.
type Config struct {
	Map     MapConfig     `yaml:"map" mapstructure:"map"`
	Ranking RankingConfig `yaml:"ranking" mapstructure:"ranking"`
	Cache   CacheConfig   `yaml:"cache" mapstructure:"cache"`
	Paths   PathsConfig   `yaml:"paths" mapstructure:"paths"`
}

// MapConfig controls the rendered output.
type MapConfig struct {
	TokenBudget int    `yaml:"token_budget" mapstructure:"token_budget"` // max tokens per rendered part
	Encoding    string `yaml:"encoding" mapstructure:"encoding"`         // tiktoken encoding name
	Estimate    bool   `yaml:"estimate" mapstructure:"estimate"`         // use the fast byte-based counter
}

// RankingConfig holds the heuristic tuning constants of the centrality
// computation. The defaults are reasonable for most repositories.
type RankingConfig struct {
	Damping         float64 `yaml:"damping" mapstructure:"damping"`                   // random-walk damping factor
	Epsilon         float64 `yaml:"epsilon" mapstructure:"epsilon"`                   // convergence threshold
	MaxIterations   int     `yaml:"max_iterations" mapstructure:"max_iterations"`     // power iteration cap
	FocusBoost      float64 `yaml:"focus_boost" mapstructure:"focus_boost"`           // personalization multiplier for focus files
	MentionBoost    float64 `yaml:"mention_boost" mapstructure:"mention_boost"`       // edge boost for user-mentioned identifiers
	CommonThreshold int     `yaml:"common_threshold" mapstructure:"common_threshold"` // definer count marking a symbol as generic
	CommonFactor    float64 `yaml:"common_factor" mapstructure:"common_factor"`       // edge damping for generic symbols
}

// CacheConfig controls the persistent tag cache.
type CacheConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
}

// PathsConfig defines which files the map covers.
type PathsConfig struct {
	Ignore []string `yaml:"ignore" mapstructure:"ignore"` // glob patterns to ignore
}

// MinTokenBudget is the smallest budget worth rendering; below it the
// output degrades to headers and elision markers.
const MinTokenBudget = 1024

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Map: MapConfig{
			TokenBudget: 4096,
			Encoding:    "cl100k_base",
		},
		Ranking: RankingConfig{
			Damping:         0.85,
			Epsilon:         1e-6,
			MaxIterations:   100,
			FocusBoost:      100,
			MentionBoost:    10,
			CommonThreshold: 5,
			CommonFactor:    0.1,
		},
		Cache: CacheConfig{
			Enabled: true,
		},
		Paths: PathsConfig{
			Ignore: []string{},
		},
	}
}
