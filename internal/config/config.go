// Package config loads server settings from the environment and an optional
// config file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"github.com/terraincognita07/myritu/internal/llm"
)

const MinSecretKeyLength = 32

var ErrInvalidConfig = errors.New("invalid configuration")

var insecureSecretPlaceholders = []string{
	"change_me_in_production",
	"replace_with_at_least_32_random_characters",
}

type Config struct {
	Port         int       `mapstructure:"port" validate:"gt=0,lt=65536"`
	DBPath       string    `mapstructure:"db_path" validate:"required"`
	SecretKey    string    `mapstructure:"secret_key" validate:"required,min=32,not_placeholder"`
	TZ           string    `mapstructure:"tz"`
	LogLevel     string    `mapstructure:"log_level"`
	CookieSecure bool      `mapstructure:"cookie_secure"`
	LLM          LLMConfig `mapstructure:"llm"`
}

type LLMConfig struct {
	Provider          string `mapstructure:"provider" validate:"oneof=none huggingface gemini"`
	APIToken          string `mapstructure:"api_token" validate:"required_unless=Provider none"`
	Model             string `mapstructure:"model"`
	Endpoint          string `mapstructure:"endpoint" validate:"omitempty,url"`
	MaxRetries        int    `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	RetryDelaySeconds int    `mapstructure:"retry_delay_seconds" validate:"gte=0"`
	TimeoutSeconds    int    `mapstructure:"timeout_seconds" validate:"gt=0"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 8080)
	v.SetDefault("db_path", filepath.Join("data", "myritu.db"))
	v.SetDefault("tz", "UTC")
	v.SetDefault("log_level", "info")
	v.SetDefault("cookie_secure", false)
	v.SetDefault("llm.provider", llm.ProviderNone)
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.endpoint", "")
	v.SetDefault("llm.max_retries", 2)
	v.SetDefault("llm.retry_delay_seconds", 2)
	v.SetDefault("llm.timeout_seconds", 60)
}

// Load reads configFile when given, then lets environment variables
// (PORT, DB_PATH, SECRET_KEY, LLM_PROVIDER, ...) override it.
func Load(configFile string) (*Config, error) {
	cfg, err := Read(configFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read is Load without validation, for maintenance commands that only need
// part of the configuration.
func Read(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", configFile, err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindEnvs := []struct {
		key     string
		envVars []string
	}{
		{key: "secret_key", envVars: []string{"SECRET_KEY"}},
		{key: "llm.api_token", envVars: []string{"LLM_API_TOKEN", "HF_API_TOKEN"}},
	}
	for _, bind := range bindEnvs {
		if err := v.BindEnv(append([]string{bind.key}, bind.envVars...)...); err != nil {
			return nil, fmt.Errorf("bind environment variable for %s: %w", bind.key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}
	cfg.SecretKey = strings.TrimSpace(cfg.SecretKey)
	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = llm.ProviderNone
	}
	return &cfg, nil
}

func (cfg *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	_ = validate.RegisterValidation("not_placeholder", func(field validator.FieldLevel) bool {
		return !isPlaceholderSecret(field.Field().String())
	})

	if err := validate.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			fields := make([]string, 0, len(validationErrors))
			for _, fieldError := range validationErrors {
				fields = append(fields, fmt.Sprintf("%s (%s)", fieldError.Namespace(), fieldError.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

func isPlaceholderSecret(secret string) bool {
	normalized := strings.ToLower(strings.TrimSpace(secret))
	for _, placeholder := range insecureSecretPlaceholders {
		if normalized == placeholder {
			return true
		}
	}
	return false
}

// Location resolves TZ, falling back to UTC for unknown zone names.
func (cfg *Config) Location() *time.Location {
	location, err := time.LoadLocation(cfg.TZ)
	if err != nil || cfg.TZ == "" {
		if cfg.TZ != "" {
			slog.Warn("invalid TZ, falling back to UTC", "tz", cfg.TZ)
		}
		return time.UTC
	}
	return location
}

func (cfg *Config) Addr() string {
	return fmt.Sprintf(":%d", cfg.Port)
}

// LLMClientConfig converts the settings into the form llm.New expects.
func (cfg *Config) LLMClientConfig() llm.Config {
	return llm.Config{
		Provider:   cfg.LLM.Provider,
		APIToken:   cfg.LLM.APIToken,
		Model:      cfg.LLM.Model,
		Endpoint:   cfg.LLM.Endpoint,
		MaxRetries: cfg.LLM.MaxRetries,
		RetryDelay: time.Duration(cfg.LLM.RetryDelaySeconds) * time.Second,
		Timeout:    time.Duration(cfg.LLM.TimeoutSeconds) * time.Second,
	}
}
