// config.go - Handles configuration for the library backend

package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds every runtime setting. Values come from the environment
// (optionally seeded from a .env file in main) with sane local defaults.
type Config struct {
	Port    string // HTTP listen port
	GinMode string // debug, release or test

	DBDriver    string // "sqlite" or "postgres"
	DBPath      string // Path to the SQLite database file
	DatabaseURL string // Postgres DSN when DBDriver is postgres
	DBLogLevel  string // gorm logger level

	JWTSecret    string        // Secret key for session tokens
	SessionTTL   time.Duration // How long a login stays valid
	SecureCookie bool          // Mark the session cookie Secure

	FinePerDay float64       // Fine charged per whole day overdue
	LoanPeriod time.Duration // Issue date + LoanPeriod = due date
	Currency   string        // Prefix used when printing amounts

	UploadDir         string   // Where cover images are written
	AllowedExtensions []string // Lower-case, no dot
	MaxUploadMB       int64

	TemplatesGlob string

	SweepOnRequest bool          // Run the due/overdue sweep inline with requests
	SweepInterval  time.Duration // Background sweep period, 0 disables

	MQTTBroker      string // Empty disables event publishing
	MQTTTopicPrefix string

	CreateAdmin    bool
	AdminEmail     string
	AdminPassword  string
	SeedSampleData bool
}

// Load reads config from environment variables or uses defaults
func Load() *Config {
	return &Config{
		Port:    getEnv("PORT", "8080"),
		GinMode: getEnv("GIN_MODE", "debug"),

		DBDriver:    strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DBPath:      getEnv("DB_PATH", "library.db"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		DBLogLevel:  getEnv("DB_LOG_LEVEL", "warn"),

		JWTSecret:    getEnv("JWT_SECRET", "supersecret"),
		SessionTTL:   time.Duration(getEnvInt("SESSION_HOURS", 24)) * time.Hour,
		SecureCookie: getEnvBool("SECURE_COOKIE", false),

		FinePerDay: getEnvFloat("FINE_PER_DAY", 10),
		LoanPeriod: time.Duration(getEnvInt("LOAN_PERIOD_DAYS", 10)) * 24 * time.Hour,
		Currency:   getEnv("CURRENCY", "₹"),

		UploadDir:         getEnv("UPLOAD_DIR", "static/uploads"),
		AllowedExtensions: splitList(getEnv("ALLOWED_EXTENSIONS", "png,jpg,jpeg,gif")),
		MaxUploadMB:       int64(getEnvInt("MAX_UPLOAD_MB", 16)),

		TemplatesGlob: getEnv("TEMPLATES_GLOB", "templates/*.html"),

		SweepOnRequest: getEnvBool("SWEEP_ON_REQUEST", true),
		SweepInterval:  getEnvDuration("SWEEP_INTERVAL", 0),

		MQTTBroker:      getEnv("MQTT_BROKER", ""),
		MQTTTopicPrefix: getEnv("MQTT_TOPIC_PREFIX", "library"),

		CreateAdmin:    getEnvBool("CREATE_ADMIN", true),
		AdminEmail:     getEnv("ADMIN_EMAIL", "admin@library.com"),
		AdminPassword:  getEnv("ADMIN_PASSWORD", "admin123"),
		SeedSampleData: getEnvBool("SEED_SAMPLE_DATA", true),
	}
}

func getEnv(key, fallback string) string { // Helper to get env var or fallback
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if f, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return f
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return fallback
}

// getEnvDuration accepts Go durations ("90m", "1h") or a bare number of minutes.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Minute
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		part = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(part), ".")))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
