// Package config loads the process configuration once at startup.
//
// Values come from the environment (optionally seeded from a .env file). The resulting
// Config is validated before anything is served and then handed to the components that
// need it; nothing else reads the environment.
package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	AppEnv              string   `mapstructure:"app_env" validate:"oneof=development production test"`
	Port                int      `mapstructure:"port" validate:"gt=0,lt=65536"`
	LogLevel            string   `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	ReadTimeoutSeconds  int      `mapstructure:"read_timeout_seconds" validate:"gt=0"`
	WriteTimeoutSeconds int      `mapstructure:"write_timeout_seconds" validate:"gt=0"`
	IdleTimeoutSeconds  int      `mapstructure:"idle_timeout_seconds" validate:"gt=0"`
	CORSOrigins         []string `mapstructure:"cors_origins" validate:"dive,required"`
	BodyLimitBytes      int64    `mapstructure:"body_limit_bytes" validate:"gt=0"`
}

// DatabaseConfig selects the driver and connection strings.
type DatabaseConfig struct {
	DBType      string   `mapstructure:"db_type" validate:"oneof=postgres sqlite"`
	DatabaseURL string   `mapstructure:"database_url" validate:"required,notplaceholder"`
	ReplicaURLs []string `mapstructure:"database_replica_urls" validate:"dive,required"`
}

// AuthConfig holds token signing settings.
type AuthConfig struct {
	JWTSecret             string        `mapstructure:"jwt_secret" validate:"required,min=32,notplaceholder"`
	JWTExpiresIn          time.Duration `mapstructure:"jwt_expires_in" validate:"gt=0"`
	JWTSecretSSMParameter string        `mapstructure:"jwt_secret_ssm_parameter"`
}

// StorageConfig points at an S3-compatible bucket.
type StorageConfig struct {
	StorageEndpoint        string `mapstructure:"storage_endpoint" validate:"omitempty,url"`
	StorageRegion          string `mapstructure:"storage_region" validate:"required"`
	StorageAccessKeyID     string `mapstructure:"storage_access_key_id" validate:"required,notplaceholder"`
	StorageSecretAccessKey string `mapstructure:"storage_secret_access_key" validate:"required,notplaceholder"`
	StorageBucket          string `mapstructure:"storage_bucket" validate:"required,notplaceholder"`
	StoragePublicURL       string `mapstructure:"storage_public_url" validate:"omitempty,url"`
}

type Config struct {
	ServerConfig   `mapstructure:",squash"`
	DatabaseConfig `mapstructure:",squash"`
	AuthConfig     `mapstructure:",squash"`
	StorageConfig  `mapstructure:",squash"`
}

var defaults = map[string]any{
	"app_env":               EnvDevelopment,
	"port":                  8080,
	"log_level":             "info",
	"read_timeout_seconds":  15,
	"write_timeout_seconds": 30,
	"idle_timeout_seconds":  60,
	"body_limit_bytes":      1 << 20,
	"db_type":               "postgres",
	"jwt_expires_in":        "24h",
	"storage_region":        "auto",
}

// keys without a default still need binding so AutomaticEnv picks them up on Unmarshal
var boundKeys = []string{
	"cors_origins",
	"database_url",
	"database_replica_urls",
	"jwt_secret",
	"jwt_secret_ssm_parameter",
	"storage_endpoint",
	"storage_access_key_id",
	"storage_secret_access_key",
	"storage_bucket",
	"storage_public_url",
}

// Load reads the environment, resolves the JWT secret from SSM when a parameter name is
// configured, and validates the result.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	cfg, err := fromEnv()
	if err != nil {
		return nil, err
	}

	if cfg.JWTSecretSSMParameter != "" {
		client, err := newSSMClient(ctx)
		if err != nil {
			return nil, err
		}
		secret, err := fetchParameter(ctx, client, cfg.JWTSecretSSMParameter)
		if err != nil {
			return nil, err
		}
		cfg.JWTSecret = secret
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromEnv() (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	for _, key := range boundKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", strings.ToUpper(key), err)
		}
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}

	cfg.AppEnv = strings.ToLower(strings.TrimSpace(cfg.AppEnv))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.DBType = strings.ToLower(strings.TrimSpace(cfg.DBType))
	cfg.CORSOrigins = cleanList(cfg.CORSOrigins)
	cfg.ReplicaURLs = cleanList(cfg.ReplicaURLs)
	return &cfg, nil
}

// Validate reports every missing, malformed or placeholder value at once.
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.RegisterValidation("notplaceholder", notPlaceholder); err != nil {
		return err
	}

	if err := validate.Struct(c); err != nil {
		var problems []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				problems = append(problems, describe(fe))
			}
		} else {
			problems = append(problems, err.Error())
		}
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == EnvProduction
}

func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}

func (c *Config) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutSeconds) * time.Second
}

func (c *Config) IdleTimeout() time.Duration {
	return time.Duration(c.IdleTimeoutSeconds) * time.Second
}

var placeholders = map[string]struct{}{
	"changeme":        {},
	"change-me":       {},
	"change_me":       {},
	"replace-me":      {},
	"replaceme":       {},
	"your-secret-key": {},
	"your_secret_key": {},
	"secret":          {},
	"placeholder":     {},
	"todo":            {},
	"xxx":             {},
}

func notPlaceholder(fl validator.FieldLevel) bool {
	value := strings.ToLower(strings.TrimSpace(fl.Field().String()))
	if _, ok := placeholders[value]; ok {
		return false
	}
	if strings.HasPrefix(value, "your-") || strings.HasPrefix(value, "your_") {
		return false
	}
	return !(strings.HasPrefix(value, "<") && strings.HasSuffix(value, ">"))
}

// describe names the environment variable rather than the Go field.
func describe(fe validator.FieldError) string {
	env := strings.ToUpper(envName(fe.StructField()))
	switch fe.Tag() {
	case "required":
		return env + " is required"
	case "notplaceholder":
		return env + " still holds a placeholder value"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", env, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", env, fe.Param())
	default:
		return fmt.Sprintf("%s failed %q validation", env, fe.Tag())
	}
}

func envName(field string) string {
	switch field {
	case "CORSOrigins":
		return "cors_origins"
	case "ReplicaURLs":
		return "database_replica_urls"
	case "JWTSecret":
		return "jwt_secret"
	case "JWTExpiresIn":
		return "jwt_expires_in"
	case "StorageAccessKeyID":
		return "storage_access_key_id"
	case "StoragePublicURL":
		return "storage_public_url"
	case "DBType":
		return "db_type"
	case "DatabaseURL":
		return "database_url"
	}

	var b strings.Builder
	for i, r := range field {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte('_')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func cleanList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
