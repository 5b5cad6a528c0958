// Package config loads runtime settings from TASKER_* environment variables
// and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/alexanderramin/tasker/internal/db"
	"github.com/alexanderramin/tasker/internal/domain"
	"github.com/alexanderramin/tasker/internal/identity"
	"github.com/alexanderramin/tasker/internal/llm"
	"github.com/alexanderramin/tasker/internal/logging"
)

// EnvPrefix is prepended to every environment variable, e.g. TASKER_DB_DSN.
const EnvPrefix = "TASKER"

// Revocation store kinds.
const (
	RevocationSQL   = "sql"
	RevocationRedis = "redis"
)

// Suggestion backend kinds.
const (
	SuggestLLM      = "llm"
	SuggestFunction = "function"
)

type Config struct {
	DB      DBConfig      `mapstructure:"db"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Redis   RedisConfig   `mapstructure:"redis"`
	LLM     LLMConfig     `mapstructure:"llm"`
	Suggest SuggestConfig `mapstructure:"suggest"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Log     LogConfig     `mapstructure:"log"`
}

type DBConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type AuthConfig struct {
	JWTSecret  string                         `mapstructure:"jwt_secret"`
	Issuer     string                         `mapstructure:"issuer"`
	AccessTTL  time.Duration                  `mapstructure:"access_ttl"`
	ResetTTL   time.Duration                  `mapstructure:"reset_ttl"`
	BcryptCost int                            `mapstructure:"bcrypt_cost"`
	Revocation string                         `mapstructure:"revocation"`
	OAuth      map[string]OAuthProviderConfig `mapstructure:"oauth"`
}

type OAuthProviderConfig struct {
	Issuer       string `mapstructure:"issuer"`
	Audience     string `mapstructure:"audience"`
	PublicKeyPEM string `mapstructure:"public_key_pem"`
	Secret       string `mapstructure:"secret"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type LLMConfig struct {
	Provider   string `mapstructure:"provider"`
	Endpoint   string `mapstructure:"endpoint"`
	Model      string `mapstructure:"model"`
	APIKey     string `mapstructure:"api_key"`
	TimeoutMs  int    `mapstructure:"timeout_ms"`
	MaxRetries int    `mapstructure:"max_retries"`
	LogCalls   bool   `mapstructure:"log_calls"`
}

type SuggestConfig struct {
	Backend     string `mapstructure:"backend"`
	FunctionURL string `mapstructure:"function_url"`
	FunctionKey string `mapstructure:"function_key"`
}

type HTTPConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// Load reads configuration. An explicit path must exist; otherwise
// tasker.yaml is looked up in the working directory and ~/.tasker, and a
// missing file is not an error. Environment variables override the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("tasker")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".tasker"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if cfg.DB.DSN == "" && db.Driver(cfg.DB.Driver) == db.DriverSQLite {
		dsn, err := defaultSQLitePath()
		if err != nil {
			return nil, err
		}
		cfg.DB.DSN = dsn
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	idDefaults := identity.DefaultConfig()
	llmDefaults := llm.DefaultConfig()

	v.SetDefault("db.driver", string(db.DriverSQLite))
	v.SetDefault("db.dsn", "")

	v.SetDefault("auth.jwt_secret", idDefaults.JWTSecret)
	v.SetDefault("auth.issuer", idDefaults.Issuer)
	v.SetDefault("auth.access_ttl", idDefaults.AccessTTL)
	v.SetDefault("auth.reset_ttl", idDefaults.ResetTTL)
	v.SetDefault("auth.bcrypt_cost", 0)
	v.SetDefault("auth.revocation", RevocationSQL)
	// Register provider keys so env-only settings are visible to Unmarshal.
	for _, p := range []domain.IdentityProvider{domain.ProviderApple, domain.ProviderGoogle} {
		for _, k := range []string{"issuer", "audience", "public_key_pem", "secret"} {
			v.SetDefault(fmt.Sprintf("auth.oauth.%s.%s", p, k), "")
		}
	}

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("llm.provider", string(llmDefaults.Provider))
	v.SetDefault("llm.endpoint", llmDefaults.Endpoint)
	v.SetDefault("llm.model", llmDefaults.Model)
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.timeout_ms", llmDefaults.TimeoutMs)
	v.SetDefault("llm.max_retries", llmDefaults.MaxRetries)
	v.SetDefault("llm.log_calls", true)

	v.SetDefault("suggest.backend", SuggestLLM)
	v.SetDefault("suggest.function_url", "")
	v.SetDefault("suggest.function_key", "")

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.shutdown_timeout", 10*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
}

func defaultSQLitePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".tasker", "tasker.db"), nil
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch db.Driver(c.DB.Driver) {
	case db.DriverSQLite:
	case db.DriverPostgres:
		if c.DB.DSN == "" {
			return fmt.Errorf("db.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown db.driver %q", c.DB.Driver)
	}
	switch c.Auth.Revocation {
	case RevocationSQL, RevocationRedis:
	default:
		return fmt.Errorf("unknown auth.revocation %q", c.Auth.Revocation)
	}
	switch c.Suggest.Backend {
	case SuggestLLM:
	case SuggestFunction:
		if c.Suggest.FunctionURL == "" {
			return fmt.Errorf("suggest.function_url is required for the function backend")
		}
	default:
		return fmt.Errorf("unknown suggest.backend %q", c.Suggest.Backend)
	}
	switch llm.Provider(c.LLM.Provider) {
	case llm.ProviderOllama, llm.ProviderOpenAI:
	default:
		return fmt.Errorf("unknown llm.provider %q", c.LLM.Provider)
	}
	if c.LLM.MaxRetries != 0 {
		return fmt.Errorf("llm.max_retries must be 0: subtask suggestions are never retried")
	}
	return nil
}

// Identity returns the identity boundary settings. Providers with neither a
// key nor a secret are skipped.
func (c *Config) Identity() identity.Config {
	out := identity.Config{
		JWTSecret:  c.Auth.JWTSecret,
		Issuer:     c.Auth.Issuer,
		AccessTTL:  c.Auth.AccessTTL,
		ResetTTL:   c.Auth.ResetTTL,
		BcryptCost: c.Auth.BcryptCost,
		Providers:  map[domain.IdentityProvider]identity.ProviderConfig{},
	}
	for name, p := range c.Auth.OAuth {
		if p.PublicKeyPEM == "" && p.Secret == "" {
			continue
		}
		out.Providers[domain.IdentityProvider(strings.ToLower(name))] = identity.ProviderConfig{
			Issuer:       p.Issuer,
			Audience:     p.Audience,
			PublicKeyPEM: p.PublicKeyPEM,
			Secret:       p.Secret,
		}
	}
	return out
}

// LLMClient returns the LLM client settings, keeping per-task defaults.
func (c *Config) LLMClient() llm.LLMConfig {
	out := llm.DefaultConfig()
	out.Provider = llm.Provider(c.LLM.Provider)
	out.Endpoint = c.LLM.Endpoint
	out.Model = c.LLM.Model
	out.APIKey = c.LLM.APIKey
	out.TimeoutMs = c.LLM.TimeoutMs
	out.MaxRetries = c.LLM.MaxRetries
	return out
}

// Logging returns the logger settings.
func (c *Config) Logging() logging.Config {
	return logging.Config{Level: c.Log.Level, File: c.Log.File}
}
