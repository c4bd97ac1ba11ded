package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultImportMaxBytes = 5 * 1024 * 1024
	defaultImportMaxRows  = 5000
)

type Config struct {
	Port               string
	DBUrl              string
	JWTSecret          string
	JWTTTLHours        int
	AppEnv             string
	LogLevel           string
	LogFormat          string
	EnableDocs         bool
	EnableMetrics      bool
	CORSAllowOrigins   string
	SupabaseURL        string
	SupabaseBucket     string
	SupabaseServiceKey string
	ImportMaxBytes     int
	ImportMaxRows      int
	ImportTimezone     string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	jwtSecret, exists := os.LookupEnv("JWT_SECRET")
	if !exists || jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return &Config{
		Port:               getEnv("PORT", "8080"),
		DBUrl:              getEnv("DB_URL", ""),
		JWTSecret:          jwtSecret,
		JWTTTLHours:        getEnvInt("JWT_TTL_HOURS", 24),
		AppEnv:             normalizeEnv(getEnv("APP_ENV", "production")),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "json"),
		EnableDocs:         getEnvBool("ENABLE_API_DOCS", false),
		EnableMetrics:      getEnvBool("ENABLE_METRICS", true),
		CORSAllowOrigins:   getEnv("CORS_ALLOW_ORIGINS", "*"),
		SupabaseURL:        getEnv("SUPABASE_URL", ""),
		SupabaseBucket:     getEnv("SUPABASE_BUCKET", ""),
		SupabaseServiceKey: getEnv("SUPABASE_SERVICE_KEY", ""),
		ImportMaxBytes:     getEnvInt("IMPORT_MAX_BYTES", defaultImportMaxBytes),
		ImportMaxRows:      getEnvInt("IMPORT_MAX_ROWS", defaultImportMaxRows),
		ImportTimezone:     getEnv("IMPORT_TIMEZONE", "UTC"),
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}

	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func normalizeEnv(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "dev", "develop", "development", "local":
		return "development"
	case "prod", "production":
		return "production"
	case "stage", "staging":
		return "staging"
	case "test", "testing":
		return "test"
	default:
		return strings.ToLower(strings.TrimSpace(value))
	}
}

func (c *Config) DocsEnabled() bool {
	return c != nil && c.EnableDocs && c.AppEnv == "development"
}

func (c *Config) StorageEnabled() bool {
	return c != nil && c.SupabaseURL != "" && c.SupabaseBucket != "" && c.SupabaseServiceKey != ""
}

// ImportLocation is the zone CSV session dates and times are read in.
func (c *Config) ImportLocation() (*time.Location, error) {
	if c == nil || strings.TrimSpace(c.ImportTimezone) == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(strings.TrimSpace(c.ImportTimezone))
	if err != nil {
		return nil, fmt.Errorf("invalid IMPORT_TIMEZONE: %w", err)
	}
	return loc, nil
}
