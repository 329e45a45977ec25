// Package config loads the layered application configuration:
// compiled-in defaults, an optional TOML file under
// $XDG_CONFIG_HOME/aurelia, and environment variable overrides,
// via spf13/viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Enrichment holds the optional network-enrichment settings.
type Enrichment struct {
	Enabled        bool   `mapstructure:"enabled"`
	LastfmAPIKey   string `mapstructure:"lastfm_api_key"`
	LyricsEndpoint string `mapstructure:"lyrics_endpoint"`
}

// AppConfig is the fully resolved configuration.
type AppConfig struct {
	MusicRoots     []string   `mapstructure:"music_roots"`
	DataDir        string     `mapstructure:"data_dir"`
	CacheDir       string     `mapstructure:"cache_dir"`
	LyricsCacheDir string     `mapstructure:"lyrics_cache_dir"`
	OutputDevice   string     `mapstructure:"output_device"`
	LogLevel       string     `mapstructure:"log_level"`
	Enrichment     Enrichment `mapstructure:"enrichment"`
	WorkerPoolSize int        `mapstructure:"worker_pool_size"`
}

func defaults(v *viper.Viper) {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	dataDir := filepath.Join(home, ".local", "share", "aurelia")
	cacheDir := filepath.Join(os.TempDir(), "aurelia")

	v.SetDefault("music_roots", []string{filepath.Join(home, "Music")})
	v.SetDefault("data_dir", dataDir)
	v.SetDefault("cache_dir", cacheDir)
	v.SetDefault("lyrics_cache_dir", filepath.Join(dataDir, "lyrics"))
	v.SetDefault("output_device", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("enrichment.enabled", true)
	v.SetDefault("enrichment.lastfm_api_key", "")
	v.SetDefault("enrichment.lyrics_endpoint", "")
	v.SetDefault("worker_pool_size", 4)
}

// Load builds the layered configuration: defaults, then
// $XDG_CONFIG_HOME/aurelia/config.toml (or ~/.config/aurelia on
// platforms without XDG_CONFIG_HOME set), then AURELIA_-prefixed
// environment variables.
func Load() (AppConfig, error) {
	v := viper.New()
	defaults(v)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir())

	v.SetEnvPrefix("AURELIA")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return AppConfig{}, fmt.Errorf("config: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return AppConfig{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	return cfg, nil
}

func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "aurelia")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/aurelia"
	}
	return filepath.Join(home, ".config", "aurelia")
}
