package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage backends
const (
	StorageLocal  = "local"
	StorageS3     = "s3"
	StorageMemory = "memory" // metadata only; bytes still go to the local store
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	CORSOrigins []string
	TablePrefix string

	// Auth: JWKSURL wins when set, otherwise tokens are HMAC-signed with JWTSecret
	JWTSecret string
	JWKSURL   string

	// Object storage
	StorageBackend   string
	UploadDir        string
	PublicUploadPath string
	S3               S3Config

	MaxUploadBytes int64
	StorageTimeout time.Duration

	// Logging
	LogDir      string
	LogMaxFiles int
}

// S3Config configures an S3-compatible bucket (AWS S3 or Cloudflare R2)
type S3Config struct {
	Endpoint        string // empty = AWS default endpoint
	AccountID       string // R2 account; builds the endpoint when Endpoint is empty
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Region          string
	PublicBaseURL   string // when set, locators are public URLs instead of object keys
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:        getEnv("PORT", "5000"),
		Environment: env,
		DatabaseURL: getEnv("DATABASE_URL", ""),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		TablePrefix: getTablePrefix(env),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWKSURL:   getEnv("JWKS_URL", ""),

		StorageBackend:   getEnv("STORAGE_BACKEND", StorageLocal),
		UploadDir:        getEnv("UPLOAD_DIR", "uploads"),
		PublicUploadPath: getEnv("PUBLIC_UPLOAD_PATH", "/uploads"),
		S3: S3Config{
			Endpoint:        getEnv("S3_ENDPOINT", ""),
			AccountID:       getEnv("R2_ACCOUNT_ID", ""),
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
			BucketName:      getEnv("S3_BUCKET_NAME", ""),
			Region:          getEnv("S3_REGION", "auto"),
			PublicBaseURL:   getEnv("S3_PUBLIC_BASE_URL", ""),
		},

		MaxUploadBytes: getInt64("MAX_UPLOAD_BYTES", DefaultMaxUploadBytes),
		StorageTimeout: getDuration("STORAGE_TIMEOUT", DefaultStorageTimeout),

		LogDir:      getEnv("LOG_DIR", ""),
		LogMaxFiles: int(getInt64("LOG_MAX_FILES", 10)),
	}
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	if prefix, ok := os.LookupEnv("TABLE_PREFIX"); ok {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt64(key string, defaultValue int64) int64 {
	value, err := strconv.ParseInt(os.Getenv(key), 10, 64)
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
