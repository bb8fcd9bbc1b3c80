// Package config loads engine configuration from config.yaml and the
// environment. Environment variables always override YAML values; secrets
// (database password, JWT secret, API keys, the credential encryption key)
// are env-only and never read from YAML.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for sqlscout-engine.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8460"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Metadata store (PostgreSQL)
	Database DatabaseConfig `yaml:"database"`

	// Authentication
	Auth AuthConfig `yaml:"auth"`

	// Generation service
	LLM LLMConfig `yaml:"llm"`

	// Pipeline policy knobs
	Pipeline PipelineConfig `yaml:"pipeline"`

	// Encryption key for connection credentials. Base64 32-byte key
	// (openssl rand -base64 32) or a passphrase. Server refuses to start
	// without it.
	CredentialsKey string `yaml:"-" env:"CONNECTION_CREDENTIALS_KEY"`
}

// DatabaseConfig holds PostgreSQL configuration for the metadata store.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"sqlscout"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"sqlscout_engine"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
	MigrationsPath string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"migrations"`
}

// URL returns a PostgreSQL connection URL for pgx and migrate.
func (c *DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode)
}

// AuthConfig holds bearer-token authentication settings.
type AuthConfig struct {
	// EnableVerification controls whether bearer tokens are validated.
	// Set to false for local development only; requests then run as the
	// development user.
	EnableVerification bool `yaml:"enable_verification" env:"AUTH_ENABLE_VERIFICATION" env-default:"true"`

	// JWTSecret signs and verifies session tokens (HMAC).
	JWTSecret string `yaml:"-" env:"JWT_SECRET"`
}

// LLMConfig holds settings for the external generation service.
type LLMConfig struct {
	// Provider selects the client implementation: "openai" (any
	// OpenAI-compatible endpoint) or "anthropic".
	Provider string `yaml:"provider" env:"LLM_PROVIDER" env-default:"openai"`

	// Endpoint is the base URL for OpenAI-compatible providers.
	Endpoint string `yaml:"endpoint" env:"LLM_ENDPOINT" env-default:"https://api.openai.com/v1"`

	// Model is the model name, e.g. "gpt-4o" or "claude-sonnet-4-20250514".
	Model string `yaml:"model" env:"LLM_MODEL"`

	APIKey string `yaml:"-" env:"LLM_API_KEY"` // Secret - not in YAML

	// Temperature for SQL generation. Low by default for determinism.
	Temperature float64 `yaml:"temperature" env:"LLM_TEMPERATURE" env-default:"0.1"`

	// TimeoutSeconds bounds one generation call.
	TimeoutSeconds int `yaml:"timeout_seconds" env:"LLM_TIMEOUT_SECONDS" env-default:"60"`
}

// Timeout returns the per-call generation timeout.
func (c *LLMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// PipelineConfig holds policy knobs for the generate-and-validate pipeline.
type PipelineConfig struct {
	// PromptBudgetBytes caps the assembled prompt size. Schema objects
	// beyond the budget are dropped in reverse list order; the pipeline
	// degrades rather than fails on oversized schemas.
	PromptBudgetBytes int `yaml:"prompt_budget_bytes" env:"PROMPT_BUDGET_BYTES" env-default:"16384"`

	// DryRunTimeoutSeconds bounds one warehouse dry-run call.
	DryRunTimeoutSeconds int `yaml:"dry_run_timeout_seconds" env:"DRY_RUN_TIMEOUT_SECONDS" env-default:"30"`
}

// DryRunTimeout returns the per-call dry-run timeout.
func (c *PipelineConfig) DryRunTimeout() time.Duration {
	return time.Duration(c.DryRunTimeoutSeconds) * time.Second
}

// Load reads configuration from config.yaml with environment variable
// overrides. If config.yaml does not exist, configuration comes from the
// environment alone. The version parameter is injected at build time.
func Load(version string) (*Config, error) {
	cfg := &Config{Version: version}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.CredentialsKey == "" {
		return fmt.Errorf("CONNECTION_CREDENTIALS_KEY is required")
	}
	if c.Auth.EnableVerification && c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required when auth verification is enabled")
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("LLM_MODEL is required")
	}
	if c.Pipeline.PromptBudgetBytes <= 0 {
		return fmt.Errorf("prompt_budget_bytes must be positive")
	}
	return nil
}
