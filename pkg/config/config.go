package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Media backends
const (
	MediaGridFS = "gridfs"
	MediaMinio  = "minio"
)

type Config struct {
	Port                    string        `yaml:"port"`
	Env                     string        `yaml:"env"`
	LogLevel                string        `yaml:"logLevel"`
	PostgresConnStr         string        `yaml:"postgresConnStr"`
	MongoURI                string        `yaml:"mongoURI"`
	MongoDatabase           string        `yaml:"mongoDatabase"`
	JWTSecret               string        `yaml:"jwtSecret"`
	JWTTTL                  time.Duration `yaml:"jwtTTL"`
	FirebaseCredentialsPath string        `yaml:"firebaseCredentialsPath"`
	RedisAddr               string        `yaml:"redisAddr"`
	RedisPassword           string        `yaml:"redisPassword"`
	AuthRateLimitPerMinute  int           `yaml:"authRateLimitPerMinute"`
	MediaBackend            string        `yaml:"mediaBackend"`
	MinioEndpoint           string        `yaml:"minioEndpoint"`
	MinioAccessKey          string        `yaml:"minioAccessKey"`
	MinioSecretKey          string        `yaml:"minioSecretKey"`
	MinioBucket             string        `yaml:"minioBucket"`
	MinioUseSSL             bool          `yaml:"minioUseSSL"`
	MediaMaxUploadBytes     int64         `yaml:"mediaMaxUploadBytes"`
}

func defaults() Config {
	return Config{
		Port:                   "8080",
		Env:                    "development",
		LogLevel:               "info",
		MongoDatabase:          "socialmedia",
		JWTTTL:                 72 * time.Hour,
		AuthRateLimitPerMinute: 20,
		MediaBackend:           MediaGridFS,
		MinioBucket:            "media",
		MediaMaxUploadBytes:    50 << 20,
	}
}

// Load builds the configuration from an optional YAML file, then .env, then
// environment variables, and validates the result.
func Load(path string) (*Config, error) {
	cfg := defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using process environment")
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.Env = getEnv("ENV", cfg.Env)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.PostgresConnStr = getEnv("POSTGRES_CONN_STR", cfg.PostgresConnStr)
	cfg.MongoURI = getEnv("MONGO_URI", cfg.MongoURI)
	cfg.MongoDatabase = getEnv("MONGO_DATABASE", cfg.MongoDatabase)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.FirebaseCredentialsPath = getEnv("FIREBASE_CREDENTIALS_PATH", cfg.FirebaseCredentialsPath)
	cfg.RedisAddr = getEnv("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", cfg.RedisPassword)
	cfg.MediaBackend = strings.ToLower(getEnv("MEDIA_BACKEND", cfg.MediaBackend))
	cfg.MinioEndpoint = getEnv("MINIO_ENDPOINT", cfg.MinioEndpoint)
	cfg.MinioAccessKey = getEnv("MINIO_ACCESS_KEY", cfg.MinioAccessKey)
	cfg.MinioSecretKey = getEnv("MINIO_SECRET_KEY", cfg.MinioSecretKey)
	cfg.MinioBucket = getEnv("MINIO_BUCKET", cfg.MinioBucket)
	if v := os.Getenv("MINIO_USE_SSL"); v != "" {
		cfg.MinioUseSSL = v == "true"
	}
	if v := os.Getenv("JWT_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("config: JWT_TTL: %w", err)
		}
		cfg.JWTTTL = d
	}
	if v := os.Getenv("AUTH_RATE_LIMIT_PER_MINUTE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("config: AUTH_RATE_LIMIT_PER_MINUTE: %w", err)
		}
		cfg.AuthRateLimitPerMinute = n
	}
	if v := os.Getenv("MEDIA_MAX_UPLOAD_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("config: MEDIA_MAX_UPLOAD_BYTES: %w", err)
		}
		cfg.MediaMaxUploadBytes = n
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.Port == "" {
		return errors.New("config: port is required")
	}
	if cfg.PostgresConnStr == "" {
		return errors.New("config: POSTGRES_CONN_STR is required")
	}
	if cfg.JWTSecret == "" {
		return errors.New("config: JWT_SECRET is required")
	}
	if cfg.JWTTTL <= 0 {
		return errors.New("config: JWT_TTL must be positive")
	}
	if cfg.AuthRateLimitPerMinute < 0 {
		return errors.New("config: AUTH_RATE_LIMIT_PER_MINUTE must not be negative")
	}
	if cfg.MediaMaxUploadBytes <= 0 {
		return errors.New("config: MEDIA_MAX_UPLOAD_BYTES must be positive")
	}
	switch cfg.MediaBackend {
	case MediaGridFS:
		if cfg.MongoURI == "" {
			return errors.New("config: MONGO_URI is required for the gridfs media backend")
		}
	case MediaMinio:
		if cfg.MinioEndpoint == "" || cfg.MinioAccessKey == "" || cfg.MinioSecretKey == "" || cfg.MinioBucket == "" {
			return errors.New("config: MINIO_ENDPOINT, MINIO_ACCESS_KEY, MINIO_SECRET_KEY and MINIO_BUCKET are required for the minio media backend")
		}
	default:
		return fmt.Errorf("config: unknown media backend %q", cfg.MediaBackend)
	}
	return nil
}

// IsProduction reports whether the service runs with ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
