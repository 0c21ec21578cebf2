package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Recommend RecommendConfig `yaml:"recommendation"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Cache     CacheConfig     `yaml:"cache"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn"`
	Driver                 string `yaml:"driver"` // "sqlite" or "postgres"
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// RecommendConfig holds the tunables of the recommendation engine.
type RecommendConfig struct {
	MaxAlternatives   int `yaml:"max_alternatives"`
	BusinessStartHour int `yaml:"business_start_hour"`
	BusinessEndHour   int `yaml:"business_end_hour"`
	NextDaySearchDays int `yaml:"next_day_search_days"`
	ProactiveDays     int `yaml:"proactive_window_days"`
	UtilizationDays   int `yaml:"utilization_window_days"`
}

// OpenAIConfig holds credentials and limits for the enrichment scorers.
// An empty APIKey disables both the ML and LLM components.
type OpenAIConfig struct {
	APIKey          string        `yaml:"api_key"`
	ChatModel       string        `yaml:"chat_model"`
	EmbeddingModel  string        `yaml:"embedding_model"`
	RateLimitPerSec float64       `yaml:"rate_limit_per_sec"`
	Burst           int           `yaml:"burst"`
	TimeoutSeconds  int           `yaml:"timeout_seconds"`
	Timeout         time.Duration `yaml:"-"` // Ignored by YAML parser
}

// CacheConfig holds the room-name cache settings.
type CacheConfig struct {
	RoomTTLSeconds int `yaml:"room_ttl_seconds"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// Default returns a configuration with all defaults applied, for callers
// that embed the engine without a config file.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.MaxOpenConns <= 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns <= 0 {
		cfg.Database.MaxIdleConns = 2
	}
	if cfg.Database.ConnMaxLifetimeMinutes <= 0 {
		cfg.Database.ConnMaxLifetimeMinutes = 30
	}

	if cfg.Recommend.MaxAlternatives <= 0 {
		cfg.Recommend.MaxAlternatives = 8
	}
	if cfg.Recommend.BusinessStartHour <= 0 {
		cfg.Recommend.BusinessStartHour = 9
	}
	if cfg.Recommend.BusinessEndHour <= 0 {
		cfg.Recommend.BusinessEndHour = 17
	}
	if cfg.Recommend.NextDaySearchDays <= 0 {
		cfg.Recommend.NextDaySearchDays = 5
	}
	if cfg.Recommend.ProactiveDays <= 0 {
		cfg.Recommend.ProactiveDays = 90
	}
	if cfg.Recommend.UtilizationDays <= 0 {
		cfg.Recommend.UtilizationDays = 30
	}

	if cfg.OpenAI.ChatModel == "" {
		cfg.OpenAI.ChatModel = "gpt-4o"
	}
	if cfg.OpenAI.EmbeddingModel == "" {
		cfg.OpenAI.EmbeddingModel = "text-embedding-3-small"
	}
	if cfg.OpenAI.RateLimitPerSec <= 0 {
		cfg.OpenAI.RateLimitPerSec = 3
	}
	if cfg.OpenAI.Burst <= 0 {
		cfg.OpenAI.Burst = 5
	}
	if cfg.OpenAI.TimeoutSeconds <= 0 {
		log.Printf("openai.timeout_seconds is not set or invalid; defaulting to 60")
		cfg.OpenAI.TimeoutSeconds = 60
	}
	cfg.OpenAI.Timeout = time.Duration(cfg.OpenAI.TimeoutSeconds) * time.Second

	if cfg.Cache.RoomTTLSeconds <= 0 {
		cfg.Cache.RoomTTLSeconds = 300
	}
}
