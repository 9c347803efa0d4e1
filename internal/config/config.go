package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const AppVersion = "1.2.0"

type Config struct {
	Port     string
	LogLevel string

	// Completion endpoint (any OpenAI-compatible API)
	APIKey         string
	BaseURL        string
	Model          string
	MaxRetries     int
	MaxTokens      int
	AttemptTimeout time.Duration

	// Embedded datastore. Empty disables persistence: sharing is
	// unavailable and history stays memory-only.
	DatabaseFile   string
	MigrationsPath string

	// Share links
	ShareBaseURL string
	ShareTTL     time.Duration

	HistoryLimit int

	// S3 archival of uploaded source documents (optional)
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3BucketName      string
	S3UseSSL          bool

	// Upload limits
	MaxFileSize int64
	MaxPDFPages int
}

func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		APIKey:            getEnv("GROQ_API_KEY", ""),
		BaseURL:           getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		Model:             getEnv("GROQ_MODEL", "llama-3.3-70b-versatile"),
		MaxRetries:        getEnvInt("MAX_RETRIES", 3),
		MaxTokens:         getEnvInt("MAX_OUTPUT_TOKENS", 4096),
		AttemptTimeout:    time.Duration(getEnvInt("ATTEMPT_TIMEOUT_SECONDS", 60)) * time.Second,
		DatabaseFile:      getEnv("DATABASE_FILE", "data/globalmatch.db"),
		MigrationsPath:    getEnv("MIGRATIONS_PATH", "internal/db/migrations"),
		ShareBaseURL:      getEnv("SHARE_BASE_URL", "http://localhost:8080"),
		ShareTTL:          time.Duration(getEnvInt("SHARE_TTL_HOURS", 72)) * time.Hour,
		HistoryLimit:      getEnvInt("HISTORY_LIMIT", 200),
		S3Endpoint:        getEnv("S3_ENDPOINT", ""),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		S3BucketName:      getEnv("S3_BUCKET_NAME", "globalmatch-uploads"),
		S3UseSSL:          getEnv("S3_USE_SSL", "false") == "true",
		MaxFileSize:       10 * 1024 * 1024,
		MaxPDFPages:       getEnvInt("MAX_PDF_PAGES", 20),
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GROQ_API_KEY is required")
	}

	return cfg, nil
}

// S3Enabled reports whether upload archival is configured.
func (c *Config) S3Enabled() bool {
	return c.S3Endpoint != "" && c.S3AccessKeyID != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
