package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Redis    RedisConfig
	Tracking TrackingConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type ServerConfig struct {
	Port        string
	CORSOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig signs access tokens with SecretKey and refresh tokens with
// RefreshSecretKey; the two must differ.
type JWTConfig struct {
	SecretKey        string
	RefreshSecretKey string
	AccessTTL        time.Duration
	RefreshTTL       time.Duration
}

type RedisConfig struct {
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
}

// TrackingConfig tunes the public tracking endpoints used by the client snippet.
type TrackingConfig struct {
	RateLimitPerSecond float64
	ExposureTTL        time.Duration
	MaxBatchSize       int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, errors.New("invalid redis database")
	}

	rateLimit, err := strconv.ParseFloat(getEnv("TRACKING_RATE_LIMIT", "1000"), 64)
	if err != nil || rateLimit <= 0 {
		return nil, errors.New("invalid tracking rate limit")
	}

	exposureTTL, err := time.ParseDuration(getEnv("TRACKING_EXPOSURE_TTL", "48h"))
	if err != nil {
		return nil, fmt.Errorf("invalid tracking exposure ttl: %w", err)
	}

	accessTTL, err := time.ParseDuration(getEnv("JWT_EXPIRE", "15m"))
	if err != nil || accessTTL <= 0 {
		return nil, errors.New("invalid jwt expiry")
	}

	refreshTTL, err := time.ParseDuration(getEnv("JWT_REFRESH_EXPIRE", "720h"))
	if err != nil || refreshTTL <= 0 {
		return nil, errors.New("invalid jwt refresh expiry")
	}

	maxBatch, err := strconv.Atoi(getEnv("TRACKING_MAX_BATCH_SIZE", "500"))
	if err != nil || maxBatch <= 0 {
		return nil, errors.New("invalid tracking max batch size")
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "BehaviorOpt API"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port:        getEnv("PORT", "4000"),
			CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "behavior_opt"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		JWT: JWTConfig{
			SecretKey:        getEnv("JWT_SECRET", ""),
			RefreshSecretKey: getEnv("JWT_REFRESH_SECRET", ""),
			AccessTTL:        accessTTL,
			RefreshTTL:       refreshTTL,
		},
		Redis: RedisConfig{
			RedisHost:     getEnv("REDIS_HOST", "localhost"),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       redisDB,
		},
		Tracking: TrackingConfig{
			RateLimitPerSecond: rateLimit,
			ExposureTTL:        exposureTTL,
			MaxBatchSize:       maxBatch,
		},
	}

	if cfg.JWT.SecretKey == "" {
		return nil, errors.New("missing jwt secret")
	}

	if cfg.JWT.RefreshSecretKey == "" {
		return nil, errors.New("missing jwt refresh secret")
	}

	if cfg.JWT.RefreshSecretKey == cfg.JWT.SecretKey {
		return nil, errors.New("jwt refresh secret must differ from jwt secret")
	}

	if cfg.Database.Password == "" {
		return nil, errors.New("missing database password")
	}

	return cfg, nil
}

// DSN builds the postgres connection string for gorm.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
