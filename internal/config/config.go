package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port               string
	Env                string
	LogLevel           string
	CORSAllowedOrigins []string

	DatabaseURL string

	RedisAddr       string
	RedisPassword   string
	RedisTLS        bool
	ProjectCacheTTL time.Duration

	// Google Sheets system of record
	GoogleSheetID      string
	GoogleSheetTab     string
	GoogleSAEmail      string
	GoogleSAPrivateKey string
	SheetsTimeout      time.Duration

	// Bitrix CRM webhook
	BitrixWebhookURL string
	BitrixTimeout    time.Duration

	// SendGrid lead notifications
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	LeadNotifyEmail   string
	LeadNotifyName    string

	AdminJWTSecret string

	LeadRateLimit float64
	LeadRateBurst int
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", nil),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisTLS:        getEnvAsBool("REDIS_TLS", false),
		ProjectCacheTTL: getEnvAsDuration("PROJECT_CACHE_TTL", 5*time.Minute),

		GoogleSheetID:      getEnv("GOOGLE_SHEET_ID", ""),
		GoogleSheetTab:     getEnv("GOOGLE_SHEET_TAB", "Sheet1"),
		GoogleSAEmail:      getEnv("GOOGLE_SA_EMAIL", ""),
		GoogleSAPrivateKey: getEnv("GOOGLE_SA_PRIVATE_KEY", ""),
		SheetsTimeout:      getEnvAsDuration("SHEETS_TIMEOUT", 20*time.Second),

		BitrixWebhookURL: getEnv("BITRIX_WEBHOOK_URL", ""),
		BitrixTimeout:    getEnvAsDuration("BITRIX_TIMEOUT", 12*time.Second),

		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "Crescent View Properties"),
		LeadNotifyEmail:   getEnv("LEAD_NOTIFY_EMAIL", ""),
		LeadNotifyName:    getEnv("LEAD_NOTIFY_NAME", "Sales Team"),

		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),

		LeadRateLimit: getEnvAsFloat("LEAD_RATE_LIMIT", 2),
		LeadRateBurst: getEnvAsInt("LEAD_RATE_BURST", 10),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsFloat retrieves an environment variable as a float or returns a default value
func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated environment variable, dropping empty items.
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
