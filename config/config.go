package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// AppConfig holds the application configuration
type AppConfig struct {
	Env              string
	Port             string
	DBURL            string
	RedisAddress     string
	BearerToken      string
	SymmetricKey     string
	SessionTTL       time.Duration
	CORSOrigins      []string
	RateLimitRPS     float64
	RateLimitBurst   int
	TransitionPolicy string
	RabbitMQURL      string
	LogLevel         string
	SMTP             SMTPConfig
}

// SMTPConfig is used by the password reset mailer.
type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
}

// GetBearerToken returns the BearerToken from the config
func (c *AppConfig) GetBearerToken() string {
	return c.BearerToken
}

func (c *AppConfig) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads a .env file when present and builds the configuration from the
// process environment.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	cfg := &AppConfig{
		Env:              GetEnv("ENV", "production"),
		Port:             GetEnv("PORT", "8930"),
		DBURL:            os.Getenv("DB_URL"),
		RedisAddress:     os.Getenv("REDIS_URL"),
		BearerToken:      os.Getenv("BEARER_TOKEN"),
		SymmetricKey:     os.Getenv("SYMMETRIC_KEY"),
		SessionTTL:       GetEnvAsDuration("SESSION_TTL", 24*time.Hour),
		CORSOrigins:      splitList(GetEnv("CORS_ORIGINS", "http://localhost:3000")),
		RateLimitRPS:     GetEnvAsFloat("RATE_LIMIT_RPS", 15),
		RateLimitBurst:   GetEnvAsInt("RATE_LIMIT_BURST", 30),
		TransitionPolicy: GetEnv("APPOINTMENT_TRANSITION_POLICY", "open"),
		RabbitMQURL:      os.Getenv("RABBITMQ_URL"),
		LogLevel:         GetEnv("LOG_LEVEL", "info"),
		SMTP: SMTPConfig{
			Host: os.Getenv("SMTP_HOST"),
			Port: GetEnvAsInt("SMTP_PORT", 587),
			User: os.Getenv("SMTP_USER"),
			Pass: os.Getenv("SMTP_PASS"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first missing or malformed required setting.
func (c *AppConfig) Validate() error {
	if c.DBURL == "" {
		return errors.New("missing DB_URL environment variable")
	}
	if c.RedisAddress == "" {
		return errors.New("missing REDIS_URL environment variable")
	}
	if c.BearerToken == "" {
		return errors.New("missing BEARER_TOKEN environment variable")
	}
	if len(c.SymmetricKey) != 32 {
		return fmt.Errorf("SYMMETRIC_KEY must be 32 bytes long, got %d", len(c.SymmetricKey))
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	return nil
}

func GetEnv(name, defaultValue string) string {
	if value, exists := os.LookupEnv(name); exists && value != "" {
		return value
	}
	return defaultValue
}

func GetEnvAsInt(name string, defaultValue int) int {
	if value, exists := os.LookupEnv(name); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		log.Warn().Str("key", name).Int("default", defaultValue).Msg("invalid integer value, using default")
	}
	return defaultValue
}

func GetEnvAsFloat(name string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(name); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
		log.Warn().Str("key", name).Float64("default", defaultValue).Msg("invalid float value, using default")
	}
	return defaultValue
}

func GetEnvAsDuration(name string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(name); exists {
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
		log.Warn().Str("key", name).Dur("default", defaultValue).Msg("invalid duration value, using default")
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
