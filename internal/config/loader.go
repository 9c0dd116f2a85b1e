package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir string
}

// NewLoader creates a new configuration loader for the given root directory.
func NewLoader(rootDir string) Loader {
	return &loader{
		rootDir: rootDir,
	}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (REPOMAP_*)
// 2. Config file (.repomap/config.yml or .repomap/config.yaml)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	configDir := filepath.Join(l.rootDir, ".repomap")
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	v.SetEnvPrefix("REPOMAP")
	v.AutomaticEnv()
	// Replace . with _ in env var names (e.g., REPOMAP_MAP_TOKEN_BUDGET)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("map.token_budget")
	v.BindEnv("map.encoding")
	v.BindEnv("map.estimate")

	v.BindEnv("ranking.damping")
	v.BindEnv("ranking.epsilon")
	v.BindEnv("ranking.max_iterations")
	v.BindEnv("ranking.focus_boost")
	v.BindEnv("ranking.mention_boost")
	v.BindEnv("ranking.common_threshold")
	v.BindEnv("ranking.common_factor")

	v.BindEnv("cache.enabled")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is acceptable - we'll use defaults + env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults registers the Default() values with viper so partial config
// files inherit the rest.
func setDefaults(v *viper.Viper) {
	def := Default()

	v.SetDefault("map.token_budget", def.Map.TokenBudget)
	v.SetDefault("map.encoding", def.Map.Encoding)
	v.SetDefault("map.estimate", def.Map.Estimate)

	v.SetDefault("ranking.damping", def.Ranking.Damping)
	v.SetDefault("ranking.epsilon", def.Ranking.Epsilon)
	v.SetDefault("ranking.max_iterations", def.Ranking.MaxIterations)
	v.SetDefault("ranking.focus_boost", def.Ranking.FocusBoost)
	v.SetDefault("ranking.mention_boost", def.Ranking.MentionBoost)
	v.SetDefault("ranking.common_threshold", def.Ranking.CommonThreshold)
	v.SetDefault("ranking.common_factor", def.Ranking.CommonFactor)

	v.SetDefault("cache.enabled", def.Cache.Enabled)

	v.SetDefault("paths.ignore", def.Paths.Ignore)
}
