package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Lead store backends.
const (
	LeadStoreMemory   = "memory"
	LeadStorePostgres = "postgres"
	LeadStoreDynamoDB = "dynamodb"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// Lead record store
	LeadStore    string
	DatabaseURL  string
	LeadsTable   string
	StoreTimeout time.Duration

	// AWS (DynamoDB store)
	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string

	// Relays
	RelayTimeout         time.Duration
	AutomationWebhookURL string
	LeadSource           string
	SpreadsheetRelayURL  string
	SheetsSpreadsheetID  string
	SheetsRange          string
	SheetsCredentials    string
	SpreadsheetTimezone  string

	// HTTP surface
	CORSAllowedOrigins []string
	RateLimitPerMinute int
	RateLimitBurst     int

	// Redis (shared rate limiting)
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		LeadStore:    strings.ToLower(strings.TrimSpace(getEnv("LEAD_STORE", ""))),
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		LeadsTable:   getEnv("LEADS_TABLE", "leads"),
		StoreTimeout: getEnvAsDuration("STORE_TIMEOUT", 10*time.Second),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),

		RelayTimeout:         getEnvAsDuration("RELAY_TIMEOUT", 10*time.Second),
		AutomationWebhookURL: strings.TrimSpace(getEnv("AUTOMATION_WEBHOOK_URL", "")),
		LeadSource:           getEnv("LEAD_SOURCE", "green-card-landing"),
		SpreadsheetRelayURL:  strings.TrimSpace(getEnv("SPREADSHEET_RELAY_URL", "")),
		SheetsSpreadsheetID:  strings.TrimSpace(getEnv("GOOGLE_SHEETS_SPREADSHEET_ID", "")),
		SheetsRange:          getEnv("GOOGLE_SHEETS_RANGE", "Leads!A:F"),
		SheetsCredentials:    strings.TrimSpace(getEnv("GOOGLE_SHEETS_CREDENTIALS_FILE", "")),
		SpreadsheetTimezone:  getEnv("SPREADSHEET_TIMEZONE", "America/Sao_Paulo"),

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 0),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 5),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),
	}
}

// ResolvedLeadStore returns the store backend to use. An unset LEAD_STORE
// selects postgres when DATABASE_URL is present and memory otherwise.
func (c *Config) ResolvedLeadStore() string {
	switch c.LeadStore {
	case LeadStoreMemory, LeadStorePostgres, LeadStoreDynamoDB:
		return c.LeadStore
	}
	if strings.TrimSpace(c.DatabaseURL) != "" {
		return LeadStorePostgres
	}
	return LeadStoreMemory
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

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil && value > 0 {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma separated variable, dropping blank entries.
func getEnvAsList(key string, defaultValue []string) []string {
	raw := strings.TrimSpace(getEnv(key, ""))
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
