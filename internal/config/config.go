package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName    string
	AppEnv     string
	Port       string
	CORSOrigin string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Observability (optional)
	SentryDSN string

	// Storage (S3-compatible: MinIO, AWS S3, Cloudflare R2, DigitalOcean Spaces, etc.)
	S3Region                string
	S3Bucket                string
	S3AccessKey             string
	S3SecretKey             string
	S3Endpoint              string // Optional: for S3-compatible services
	S3PresignExpiryUpload   time.Duration
	S3PresignExpiryDownload time.Duration
	S3UploadMaxBytes        int64
	S3AllowedMIME           []string // empty = allow everything

	// Notification bus (optional; empty topic = silent event mode)
	SNSTopicARN string
	SNSEndpoint string
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName:    envString("APP_NAME", "taskforge-backend"),
		AppEnv:     envRequired("APP_ENV"), // Required: 'development' or 'production'
		Port:       envString("PORT", "3000"),
		CORSOrigin: envString("CORS_ORIGIN", ""),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/taskforge.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),

		// Storage
		S3Region:                envRequired("S3_REGION"),
		S3Bucket:                envRequired("S3_BUCKET"),
		S3AccessKey:             envString("S3_ACCESS_KEY", ""),
		S3SecretKey:             envString("S3_SECRET_KEY", ""),
		S3Endpoint:              envString("S3_ENDPOINT", ""), // Optional: for non-AWS providers
		S3PresignExpiryUpload:   envDuration("S3_PRESIGN_EXPIRY_UPLOAD", 5*time.Minute),
		S3PresignExpiryDownload: envDuration("S3_PRESIGN_EXPIRY_DOWNLOAD", 2*time.Minute),
		S3UploadMaxBytes:        envInt64("S3_UPLOAD_MAX_BYTES", 5242880), // 5 MiB
		S3AllowedMIME:           splitCSV(envString("S3_ALLOWED_MIME", "")),

		// Notification bus
		SNSTopicARN: envString("SNS_TOPIC_ARN", ""),
		SNSEndpoint: envString("SNS_ENDPOINT", ""),
	}

	return cfg
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envInt64(key string, def int64) int64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

// splitCSV parses a comma-separated list, dropping empty entries so an unset
// variable yields nil rather than [""].
func splitCSV(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
