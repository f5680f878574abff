package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// SuppressionRefresh bounds how stale the cached opt-out index may get.
	SuppressionRefresh time.Duration

	// DispatchMode is "dry-run" or "live" for the whole process.
	DispatchMode    string
	BuyersJSON      string
	BuyerTimeout    time.Duration
	DefaultVertical string

	// RequireConsent rejects submissions without an explicit consent flag.
	RequireConsent bool

	// PhoneNationalDigits is the significant-digit count used when trimming
	// a leading country code from submitted phone numbers.
	PhoneNationalDigits int

	OpsNotifyEmail    string
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string

	CORSAllowedOrigins []string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		SuppressionRefresh: getEnvAsDuration("SUPPRESSION_REFRESH_INTERVAL", 30*time.Second),

		DispatchMode:    strings.ToLower(strings.TrimSpace(getEnv("DISPATCH_MODE", "dry-run"))),
		BuyersJSON:      getEnv("BUYERS_JSON", ""),
		BuyerTimeout:    getEnvAsDuration("BUYER_TIMEOUT", 10*time.Second),
		DefaultVertical: strings.ToLower(strings.TrimSpace(getEnv("DEFAULT_VERTICAL", "auto"))),

		RequireConsent: getEnvAsBool("REQUIRE_CONSENT", false),

		PhoneNationalDigits: getEnvAsInt("PHONE_NATIONAL_DIGITS", 10),

		OpsNotifyEmail:    getEnv("OPS_NOTIFY_EMAIL", ""),
		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "SearchNRate Leads"),

		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", nil),
	}
}

// LiveDispatch reports whether buyer calls go over the network.
func (c *Config) LiveDispatch() bool {
	return c.DispatchMode == "live"
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

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsSlice retrieves a comma-separated environment variable as a slice
func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
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
