package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StoreFirestore = "firestore"
	StoreMemory    = "memory"
)

type Config struct {
	ServerPort          string   `mapstructure:"SERVER_PORT"`
	Environment         string   `mapstructure:"ENVIRONMENT"`
	LogLevel            string   `mapstructure:"LOG_LEVEL"`
	FirebaseProject     string   `mapstructure:"FIREBASE_PROJECT_ID"`
	ServiceAccountPath  string   `mapstructure:"FIREBASE_SERVICE_ACCOUNT_PATH"`
	ServiceAccountJSON  string   `mapstructure:"FIREBASE_SERVICE_ACCOUNT_JSON"`
	StorageBucket       string   `mapstructure:"STORAGE_BUCKET"`
	StoreDriver         string   `mapstructure:"STORE_DRIVER"`
	CORSOrigins         []string `mapstructure:"CORS_ORIGINS"`
	MatchWatcherEnabled bool     `mapstructure:"MATCH_WATCHER_ENABLED"`
	PageSizeMax         int      `mapstructure:"PAGE_SIZE_MAX"`
}

var keys = []string{
	"SERVER_PORT",
	"ENVIRONMENT",
	"LOG_LEVEL",
	"FIREBASE_PROJECT_ID",
	"FIREBASE_SERVICE_ACCOUNT_PATH",
	"FIREBASE_SERVICE_ACCOUNT_JSON",
	"STORAGE_BUCKET",
	"STORE_DRIVER",
	"CORS_ORIGINS",
	"MATCH_WATCHER_ENABLED",
	"PAGE_SIZE_MAX",
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORE_DRIVER", StoreFirestore)
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("MATCH_WATCHER_ENABLED", true)
	v.SetDefault("PAGE_SIZE_MAX", 50)

	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	cfg.CORSOrigins = splitList(strings.Join(cfg.CORSOrigins, ","))

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case StoreFirestore:
		if c.FirebaseProject == "" {
			return fmt.Errorf("FIREBASE_PROJECT_ID is required when STORE_DRIVER=%s", StoreFirestore)
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.PageSizeMax <= 0 {
		return fmt.Errorf("PAGE_SIZE_MAX must be positive")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
