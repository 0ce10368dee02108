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
	AppName string
	AppEnv  string
	AppURL  string
	Port    string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Security
	BcryptCost     int
	TokenExpiry    time.Duration // session tokens older than this are treated as absent
	AuthRateLimit  int
	AuthRateWindow time.Duration
	TrustedProxies []string // networks whose forwarding headers are believed

	// Background sweeps
	TokenSweepInterval      time.Duration
	AttachmentRetention     time.Duration // unassociated attachments older than this are reclaimed
	AttachmentSweepInterval time.Duration

	// Email
	EmailFrom    string
	ResendAPIKey string

	// Observability (optional)
	SentryDSN string

	// Storage
	StorageDriver string // "local" or "s3"
	UploadDir     string

	// Storage - S3-compatible (MinIO, AWS S3, Cloudflare R2, etc.)
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName: envString("APP_NAME", "Hoaxify"),
		AppEnv:  envRequired("APP_ENV"), // Required: 'development' or 'production'
		AppURL:  envRequired("APP_URL"), // Required: base URL for email links
		Port:    envString("PORT", "8090"),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/hoaxify.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"),

		// Security
		BcryptCost:     envInt("BCRYPT_COST", 10),
		TokenExpiry:    envDuration("TOKEN_EXPIRY", 168*time.Hour), // 7 days
		AuthRateLimit:  envInt("AUTH_RATE_LIMIT", 10),
		AuthRateWindow: envDuration("AUTH_RATE_WINDOW", 15*time.Minute),
		TrustedProxies: envList("TRUSTED_PROXIES"), // e.g. "10.0.0.0/8,127.0.0.1"

		// Background sweeps
		TokenSweepInterval:      envDuration("TOKEN_SWEEP_INTERVAL", time.Hour),
		AttachmentRetention:     envDuration("ATTACHMENT_RETENTION", 24*time.Hour),
		AttachmentSweepInterval: envDuration("ATTACHMENT_SWEEP_INTERVAL", time.Hour),

		// Email (RESEND_API_KEY optional in development, required in production)
		EmailFrom:    envString("EMAIL_FROM", "noreply@example.com"),
		ResendAPIKey: envString("RESEND_API_KEY", ""),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),

		// Storage
		StorageDriver: envString("STORAGE_DRIVER", "local"),
		UploadDir:     envString("UPLOAD_DIR", "./data/uploads"),
		S3Region:      envString("S3_REGION", ""),
		S3Bucket:      envString("S3_BUCKET", ""),
		S3AccessKey:   envString("S3_ACCESS_KEY", ""),
		S3SecretKey:   envString("S3_SECRET_KEY", ""),
		S3Endpoint:    envString("S3_ENDPOINT", ""), // Optional: for non-AWS providers
	}

	if cfg.StorageDriver == "s3" {
		validateS3(cfg)
	}

	// Production: validate required services
	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction ensures all required services are configured for production deployments.
// Development falls back to logging emails instead of sending them.
func validateProduction(cfg *Config) {
	if cfg.ResendAPIKey == "" {
		slog.Error("production deployment requires RESEND_API_KEY",
			"hint", "set APP_ENV=development for local testing with email log mode")
		os.Exit(1)
	}
}

func validateS3(cfg *Config) {
	for key, value := range map[string]string{
		"S3_REGION":     cfg.S3Region,
		"S3_BUCKET":     cfg.S3Bucket,
		"S3_ACCESS_KEY": cfg.S3AccessKey,
		"S3_SECRET_KEY": cfg.S3SecretKey,
	} {
		if value == "" {
			slog.Error("config required env var missing for s3 storage", "key", key)
			os.Exit(1)
		}
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return i
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

func envList(key string) []string {
	var list []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			list = append(list, item)
		}
	}
	return list
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
