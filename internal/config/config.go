package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values
type Config struct {
	// Server configuration
	Port        int    `json:"port"`
	Environment string `json:"environment"`

	// MongoDB configuration
	MongoURI          string `json:"mongo_uri"`
	MongoDatabase     string `json:"mongo_database"`
	ConsentCollection string `json:"mongo_consent_collection"`

	// Redis configuration
	RedisURI        string        `json:"redis_uri"`
	RedisPassword   string        `json:"redis_password"`
	RedisDB         int           `json:"redis_db"`
	ConsentCacheTTL time.Duration `json:"consent_cache_ttl"`

	// Twilio configuration
	TwilioAccountSID string `json:"twilio_account_sid"`
	TwilioAuthToken  string `json:"-"`
	TwilioFromNumber string `json:"twilio_from_number"`
	TwilioBaseURL    string `json:"twilio_base_url"`

	// Geolocation configuration
	GeoIPBaseURL string `json:"geoip_base_url"`

	// Promotional message sent by /send-discount
	DiscountMessage string `json:"discount_message"`

	// Timezone used for consent timestamps
	ConsentTimezone string `json:"consent_timezone"`

	// Tracing configuration
	TracingEnabled  bool   `json:"tracing_enabled"`
	TracingEndpoint string `json:"tracing_endpoint"`
}

var (
	AppConfig *Config
)

// LoadConfig loads configuration from environment variables
func LoadConfig() error {
	port, err := strconv.Atoi(getEnvOrDefault("PORT", "8080"))
	if err != nil {
		return fmt.Errorf("invalid PORT: %w", err)
	}

	redisDB, err := strconv.Atoi(getEnvOrDefault("REDIS_DB", "0"))
	if err != nil {
		return fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	consentCacheTTL, err := time.ParseDuration(getEnvOrDefault("CONSENT_CACHE_TTL", "10m"))
	if err != nil {
		return fmt.Errorf("invalid CONSENT_CACHE_TTL: %w", err)
	}

	// Twilio credentials have no sane defaults
	accountSID := os.Getenv("TWILIO_ACCOUNT_SID")
	if accountSID == "" {
		return fmt.Errorf("TWILIO_ACCOUNT_SID environment variable is required")
	}
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")
	if authToken == "" {
		return fmt.Errorf("TWILIO_AUTH_TOKEN environment variable is required")
	}
	fromNumber := os.Getenv("TWILIO_FROM_NUMBER")
	if fromNumber == "" {
		return fmt.Errorf("TWILIO_FROM_NUMBER environment variable is required")
	}

	AppConfig = &Config{
		// Server configuration
		Port:        port,
		Environment: getEnvOrDefault("ENVIRONMENT", "development"),

		// MongoDB configuration
		MongoURI:          getEnvOrDefault("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase:     getEnvOrDefault("MONGODB_DATABASE", "consent"),
		ConsentCollection: getEnvOrDefault("MONGODB_CONSENT_COLLECTION", "tcpa_consents"),

		// Redis configuration
		RedisURI:        getEnvOrDefault("REDIS_URI", "localhost:6379"),
		RedisPassword:   getEnvOrDefault("REDIS_PASSWORD", ""),
		RedisDB:         redisDB,
		ConsentCacheTTL: consentCacheTTL,

		// Twilio configuration
		TwilioAccountSID: accountSID,
		TwilioAuthToken:  authToken,
		TwilioFromNumber: fromNumber,
		TwilioBaseURL:    getEnvOrDefault("TWILIO_BASE_URL", "https://api.twilio.com"),

		// Geolocation configuration
		GeoIPBaseURL: getEnvOrDefault("GEOIP_BASE_URL", "https://ipapi.co"),

		DiscountMessage: getEnvOrDefault("DISCOUNT_MESSAGE",
			"Here's your 10% off coupon: VIP10. Use it at checkout!"),

		ConsentTimezone: getEnvOrDefault("CONSENT_TIMEZONE", "America/New_York"),

		// Tracing configuration
		TracingEnabled:  getEnvOrDefault("TRACING_ENABLED", "false") == "true",
		TracingEndpoint: getEnvOrDefault("TRACING_ENDPOINT", "localhost:4317"),
	}

	return nil
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
