// Package config handles configuration loading for NewsBrief.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	News    NewsConfig    `mapstructure:"news"    yaml:"news"`
	Cache   CacheConfig   `mapstructure:"cache"   yaml:"cache"`
	TTS     TTSConfig     `mapstructure:"tts"     yaml:"tts"`
	API     APIConfig     `mapstructure:"api"     yaml:"api"`
	Web     WebConfig     `mapstructure:"web"     yaml:"web"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// NewsConfig holds news fetching settings.
type NewsConfig struct {
	NewsAPIKey     string `mapstructure:"newsapi_key"     yaml:"newsapi_key"`
	MaxArticles    int    `mapstructure:"max_articles"    yaml:"max_articles"`
	ExtractContent bool   `mapstructure:"extract_content" yaml:"extract_content"`
	ExtractTimeout int    `mapstructure:"extract_timeout" yaml:"extract_timeout"` // seconds
}

// CacheConfig holds article cache settings.
type CacheConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
	TTL int    `mapstructure:"ttl" yaml:"ttl"` // seconds
}

// TTSConfig holds text-to-speech settings.
type TTSConfig struct {
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// WebConfig holds dashboard frontend configuration.
type WebConfig struct {
	URL string `mapstructure:"url" yaml:"url"` // e.g., "http://localhost:3000"
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.newsbrief/config.yaml (home directory)
//  3. /etc/newsbrief/config.yaml (system)
//
// Environment variables override config file values.
// Format: NEWSBRIEF_<SECTION>_<KEY>, e.g., NEWSBRIEF_NEWS_NEWSAPI_KEY
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Config file settings
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".newsbrief"))
	v.AddConfigPath("/etc/newsbrief")

	// Environment variable settings
	v.SetEnvPrefix("NEWSBRIEF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required to exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found — that's fine, use defaults + env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Override sensitive values from environment
	overrideFromEnv(&cfg)

	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("NEWSBRIEF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// News defaults
	v.SetDefault("news.max_articles", 10)
	v.SetDefault("news.extract_content", false)
	v.SetDefault("news.extract_timeout", 10)

	// Cache defaults
	v.SetDefault("cache.dir", filepath.Join(homeDir(), ".newsbrief", "cache"))
	v.SetDefault("cache.ttl", 3600) // 1 hour

	// TTS defaults
	v.SetDefault("tts.output_dir", filepath.Join(homeDir(), ".newsbrief", "audio"))

	// API defaults
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"http://localhost:3000"})

	// Web defaults
	v.SetDefault("web.url", "http://localhost:3000")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// overrideFromEnv explicitly reads sensitive keys from environment variables.
func overrideFromEnv(cfg *Config) {
	if key := os.Getenv("NEWSBRIEF_NEWS_NEWSAPI_KEY"); key != "" {
		cfg.News.NewsAPIKey = key
	}
	// The bare NEWS_API_KEY name is also honored for compatibility with
	// hosted deployments.
	if key := os.Getenv("NEWS_API_KEY"); key != "" && cfg.News.NewsAPIKey == "" {
		cfg.News.NewsAPIKey = key
	}
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
