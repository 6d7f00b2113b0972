package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Environment string
	Name        string
	Version     string
	HTTP        HTTPConfig
	Postgres    PostgresConfig
	JWT         JWTConfig
}

type HTTPConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MaxHeaderMB  int
}

type PostgresConfig struct {
	Host               string
	Port               string
	Username           string
	Password           string
	DBName             string
	SSLMode            string
	MaxConnections     int
	MaxIdleConnections int
	MaxLifetime        time.Duration
}

type JWTConfig struct {
	SigningKey      string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// NewConfig читает конфигурацию из переменных окружения. Для всех
// значений есть разумные умолчания под локальную разработку.
func NewConfig() (*Config, error) {
	cfg := &Config{
		Environment: envString("APP_ENV", "development"),
		Name:        envString("APP_NAME", "psychologist"),
		Version:     envString("APP_VERSION", "1.0.0"),
		HTTP: HTTPConfig{
			Port:        envString("HTTP_PORT", "8080"),
			MaxHeaderMB: envInt("HTTP_MAX_HEADER_MB", 1),
		},
		Postgres: PostgresConfig{
			Host:               envString("POSTGRES_HOST", "localhost"),
			Port:               envString("POSTGRES_PORT", "5432"),
			Username:           envString("POSTGRES_USER", "postgres"),
			Password:           envString("POSTGRES_PASSWORD", "postgres"),
			DBName:             envString("POSTGRES_DB", "psychologist"),
			SSLMode:            envString("POSTGRES_SSL_MODE", "disable"),
			MaxConnections:     envInt("POSTGRES_MAX_CONNECTIONS", 10),
			MaxIdleConnections: envInt("POSTGRES_MAX_IDLE_CONNECTIONS", 5),
		},
		JWT: JWTConfig{
			SigningKey: envString("JWT_SIGNING_KEY", "your_secret_key"),
		},
	}

	durations := []struct {
		dst *time.Duration
		key string
		def string
	}{
		{&cfg.HTTP.ReadTimeout, "HTTP_READ_TIMEOUT", "10s"},
		{&cfg.HTTP.WriteTimeout, "HTTP_WRITE_TIMEOUT", "10s"},
		{&cfg.Postgres.MaxLifetime, "POSTGRES_MAX_LIFETIME", "5m"},
		{&cfg.JWT.AccessTokenTTL, "JWT_ACCESS_TOKEN_TTL", "15m"},
		{&cfg.JWT.RefreshTokenTTL, "JWT_REFRESH_TOKEN_TTL", "24h"},
	}
	for _, d := range durations {
		value, err := time.ParseDuration(envString(d.key, d.def))
		if err != nil {
			return nil, fmt.Errorf("некорректное значение %s: %w", d.key, err)
		}
		*d.dst = value
	}

	return cfg, nil
}

func envString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
