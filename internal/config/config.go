package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/phorde/freefleet/internal/core/domain"
)

type Config struct {
	Server    ServerConfig            `mapstructure:"server"`
	Fleet     domain.DelegationConfig `mapstructure:"fleet"`
	Providers []domain.ProviderConfig `mapstructure:"providers"`
	Discovery DiscoveryConfig         `mapstructure:"discovery"`
	Oracle    OracleConfig            `mapstructure:"oracle"`
	Redis     RedisConfig             `mapstructure:"redis"`
	Store     StoreConfig             `mapstructure:"store"`
	Logging   LoggingConfig           `mapstructure:"logging"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Env  string `mapstructure:"env"`
}

// DiscoveryConfig tunes the provider sweep.
type DiscoveryConfig struct {
	// CategoryFallbacks maps a category to "provider/model" ids raced when
	// the category's own pool is exhausted.
	CategoryFallbacks map[string][]string `mapstructure:"category_fallbacks"`
	// AuthBridges marks host credentials tied to paid provider families.
	AuthBridges         map[string]bool `mapstructure:"auth_bridges"`
	AllowPaidProviders  bool            `mapstructure:"allow_paid_providers"`
	BreakerThreshold    int             `mapstructure:"breaker_threshold" validate:"min=0"`
	BreakerResetSeconds int             `mapstructure:"breaker_reset_seconds" validate:"min=0"`
}

// OracleConfig controls free-tier verification sources.
type OracleConfig struct {
	// CacheBackend is one of "file", "redis", or "memory".
	CacheBackend  string `mapstructure:"cache_backend" validate:"oneof=file redis memory"`
	CachePath     string `mapstructure:"cache_path"`
	PolicyPath    string `mapstructure:"policy_path"`
	CommunityURL  string `mapstructure:"community_url"`
	AllowlistSeed string `mapstructure:"allowlist_seed"`
	ModelDBURL    string `mapstructure:"modeldb_url"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Enabled  bool   `mapstructure:"enabled"`
}

// StoreConfig locates the on-disk usage and audit records.
type StoreConfig struct {
	MetricsPath string `mapstructure:"metrics_path"`
	AuditPath   string `mapstructure:"audit_path"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format" validate:"omitempty,oneof=json console"`
	FilePath   string `mapstructure:"file_path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig() (*Config, error) {
	// Load .env file if present
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./internal/config")

	// Default Values
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("fleet.mode", string(domain.ModeBalanced))
	v.SetDefault("fleet.race_count", 3)
	v.SetDefault("fleet.fallback_depth", 2)
	v.SetDefault("discovery.breaker_threshold", 3)
	v.SetDefault("discovery.breaker_reset_seconds", 30)
	v.SetDefault("oracle.cache_backend", "file")
	v.SetDefault("oracle.cache_path", "data/verdicts.json")
	v.SetDefault("oracle.policy_path", "data/policies.json")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("store.metrics_path", "data/metrics.json")
	v.SetDefault("store.audit_path", "data/audit.jsonl")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.max_size_mb", 50)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age_days", 14)

	// Environment Variables
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	// Resolve API Keys
	for i, p := range cfg.Providers {
		if strings.HasPrefix(p.APIKey, "ENV:") {
			envVar := strings.TrimPrefix(p.APIKey, "ENV:")
			// Check process environment first (explicit override)
			val := os.Getenv(envVar)
			if val == "" {
				val = v.GetString(envVar)
			}
			cfg.Providers[i].APIKey = val
		}
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
