package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port        string
	LogMode     string
	CORSOrigins string

	// Database configuration
	DBType               string // mysql, postgres, sqlite, sqlserver, etc.
	DBHost               string
	DBPort               string
	DBAppDatabase        string
	DBAppUser            string // writer pool
	DBAppPassword        string
	DBAppConnectionLimit int
	DBUser               string // reader pool
	DBPassword           string
	DBConnectionLimit    int
	DBQueryTimeout       time.Duration

	// Authorizer configuration
	AuthzURL      string
	AuthzClientID string

	// Catalog page cache, disabled when RedisAddr is empty
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	// Media store
	MediaBucket         string
	MediaFolder         string
	MediaCDNDomain      string
	MediaPublicBaseURL  string
	StorageEmulatorHost string
	MaxUploadBytes      int64
	UploadTimeout       time.Duration
	MaxGalleryUploads   int
	RequireThumbnail    bool
}

// Load loads configuration from environment variables, after ENV_FILE if one is named.
func Load() (*Config, error) {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	cfg := &Config{
		Port:                 getEnv("PORT", "3000"),
		LogMode:              getEnv("LOG_MODE", "development"),
		CORSOrigins:          getEnv("CORS_ORIGINS", "*"),
		DBType:               getEnv("DB_TYPE", "mysql"),
		DBHost:               getEnv("DB_HOST", "localhost"),
		DBPort:               getEnv("DB_PORT", "3306"),
		DBAppDatabase:        getEnv("DB_APP_DATABASE", ""),
		DBAppUser:            getEnv("DB_APP_USER", ""),
		DBAppPassword:        getEnv("DB_APP_PASSWORD", ""),
		DBAppConnectionLimit: getEnvAsInt("DB_APP_CONNECTION_LIMIT", 5),
		DBUser:               getEnv("DB_USER", ""),
		DBPassword:           getEnv("DB_PASSWORD", ""),
		DBConnectionLimit:    getEnvAsInt("DB_CONNECTION_LIMIT", 10),
		DBQueryTimeout:       getEnvAsDuration("DB_QUERY_TIMEOUT", 5*time.Second),
		AuthzURL:             getEnv("AUTHZ_URL", ""),
		AuthzClientID:        getEnv("AUTHZ_CLIENT_ID", ""),
		RedisAddr:            getEnv("REDIS_ADDR", ""),
		RedisPassword:        getEnv("REDIS_PASSWORD", ""),
		RedisDB:              getEnvAsInt("REDIS_DB", 0),
		CacheTTL:             getEnvAsDuration("CACHE_TTL", 5*time.Minute),
		MediaBucket:          getEnv("MEDIA_BUCKET", ""),
		MediaFolder:          getEnv("MEDIA_FOLDER", "srisai-projects"),
		MediaCDNDomain:       getEnv("MEDIA_CDN_DOMAIN", ""),
		MediaPublicBaseURL:   getEnv("MEDIA_PUBLIC_BASE_URL", ""),
		StorageEmulatorHost:  getEnv("STORAGE_EMULATOR_HOST", ""),
		MaxUploadBytes:       int64(getEnvAsInt("MEDIA_MAX_UPLOAD_BYTES", 5*1024*1024)),
		UploadTimeout:        getEnvAsDuration("MEDIA_UPLOAD_TIMEOUT", 60*time.Second),
		MaxGalleryUploads:    getEnvAsInt("MEDIA_MAX_GALLERY_UPLOADS", 10),
		RequireThumbnail:     getEnvAsBool("REQUIRE_THUMBNAIL", true),
	}

	// Validate required fields
	if cfg.DBAppDatabase == "" {
		return nil, fmt.Errorf("DB_APP_DATABASE is required")
	}
	if cfg.DBType != "sqlite" {
		if cfg.DBAppUser == "" {
			return nil, fmt.Errorf("DB_APP_USER is required")
		}
		if cfg.DBUser == "" {
			return nil, fmt.Errorf("DB_USER is required")
		}
	}
	if cfg.AuthzURL == "" {
		return nil, fmt.Errorf("AUTHZ_URL is required")
	}
	if cfg.AuthzClientID == "" {
		return nil, fmt.Errorf("AUTHZ_CLIENT_ID is required")
	}
	if cfg.MediaBucket == "" {
		return nil, fmt.Errorf("MEDIA_BUCKET is required")
	}
	if cfg.MaxUploadBytes <= 0 {
		return nil, fmt.Errorf("MEDIA_MAX_UPLOAD_BYTES must be positive")
	}
	if cfg.UploadTimeout <= 0 {
		return nil, fmt.Errorf("MEDIA_UPLOAD_TIMEOUT must be positive")
	}

	return cfg, nil
}

// AllowedOrigins splits CORS_ORIGINS into a clean comma-separated list.
func (c *Config) AllowedOrigins() string {
	parts := strings.Split(c.CORSOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ",")
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsBool gets an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration accepts Go durations ("90s") or bare seconds ("90")
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(valueStr); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
