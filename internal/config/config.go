package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	// BaseURL is the public origin used to build confirmation links.
	BaseURL string

	// TokenSecret signs every JWT. Rotating it invalidates all
	// outstanding tokens.
	TokenSecret     string
	TokenExpiryDays int

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string

	DynamoTableUsers string

	SESRegion string
	EmailFrom string

	// LowercaseEmails folds emails to lower case before storing and
	// looking them up.
	LowercaseEmails bool

	AllowedOrigins []string // CORS allowed origins
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		BaseURL: getEnv("BASE_URL", "https://localhost:3000"),

		TokenSecret:     getEnv("TOKEN_SECRET", ""),
		TokenExpiryDays: getEnvInt("TOKEN_EXPIRY_DAYS", 7),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),

		DynamoTableUsers: getEnv("DYNAMO_TABLE_USERS", "users"),

		SESRegion: getEnv("SES_REGION", "us-east-1"),
		EmailFrom: getEnv("EMAIL_FROM", "hello@andreanaya.com"),

		LowercaseEmails: getEnvBool("LOWERCASE_EMAILS", false),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

// Production reports whether rate limits and secure cookie flags are
// enforced.
func (c *Config) Production() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
