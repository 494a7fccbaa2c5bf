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

	// Email provider selection: resend, sendgrid, ses, stub or auto.
	EmailProvider    string
	EmailSendTimeout time.Duration
	ResendAPIKey     string
	SendGridAPIKey   string

	// Contact notification addressing
	ContactFromEmail     string
	ContactFromName      string
	ContactToEmail       string
	ContactSubjectPrefix string
	ContactMaxBodyBytes  int

	CORSAllowedOrigins []string
	MetricsEnabled     bool

	// AWS (SES) Configuration
	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		EmailProvider:    strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", "auto"))),
		EmailSendTimeout: getEnvAsDuration("EMAIL_SEND_TIMEOUT", 10*time.Second),
		ResendAPIKey:     getEnv("RESEND_API_KEY", ""),
		SendGridAPIKey:   getEnv("SENDGRID_API_KEY", ""),

		ContactFromEmail:     getEnv("CONTACT_FROM_EMAIL", "noreply@yourdomain.com"),
		ContactFromName:      getEnv("CONTACT_FROM_NAME", "Portfolio Contact"),
		ContactToEmail:       getEnv("CONTACT_TO_EMAIL", "your-email@example.com"),
		ContactSubjectPrefix: getEnvRaw("CONTACT_SUBJECT_PREFIX", "Portfolio Contact: "),
		ContactMaxBodyBytes:  getEnvAsInt("CONTACT_MAX_BODY_BYTES", 64<<10),

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", nil),
		MetricsEnabled:     getEnvAsBool("METRICS_ENABLED", true),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),
	}
}

// IsProduction reports whether ENV names a production deployment.
func (c *Config) IsProduction() bool {
	switch strings.ToLower(c.Env) {
	case "production", "prod":
		return true
	}
	return false
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// getEnvRaw is getEnv without trimming, for values where trailing spaces matter.
func getEnvRaw(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
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

// getEnvAsList splits a comma separated variable, dropping empty entries.
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
