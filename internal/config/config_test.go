package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("TWILIO_ACCOUNT_SID", "ACtest")
	t.Setenv("TWILIO_AUTH_TOKEN", "secret")
	t.Setenv("TWILIO_FROM_NUMBER", "+15550001111")
}

func TestLoadConfig_Defaults(t *testing.T) {
	setRequiredEnv(t)

	require.NoError(t, LoadConfig())

	assert.Equal(t, 8080, AppConfig.Port)
	assert.Equal(t, "development", AppConfig.Environment)
	assert.Equal(t, "mongodb://localhost:27017", AppConfig.MongoURI)
	assert.Equal(t, "tcpa_consents", AppConfig.ConsentCollection)
	assert.Equal(t, 10*time.Minute, AppConfig.ConsentCacheTTL)
	assert.Equal(t, "https://api.twilio.com", AppConfig.TwilioBaseURL)
	assert.Equal(t, "https://ipapi.co", AppConfig.GeoIPBaseURL)
	assert.Equal(t, "America/New_York", AppConfig.ConsentTimezone)
	assert.Contains(t, AppConfig.DiscountMessage, "VIP10")
	assert.False(t, AppConfig.TracingEnabled)
}

func TestLoadConfig_MissingTwilioCredentials(t *testing.T) {
	t.Setenv("TWILIO_ACCOUNT_SID", "")
	t.Setenv("TWILIO_AUTH_TOKEN", "")
	t.Setenv("TWILIO_FROM_NUMBER", "")

	err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TWILIO_ACCOUNT_SID")
}

func TestLoadConfig_InvalidPort(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "not-a-port")

	err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PORT")
}

func TestLoadConfig_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("MONGODB_CONSENT_COLLECTION", "consents_test")
	t.Setenv("CONSENT_CACHE_TTL", "30s")
	t.Setenv("TRACING_ENABLED", "true")

	require.NoError(t, LoadConfig())

	assert.Equal(t, 9090, AppConfig.Port)
	assert.Equal(t, "consents_test", AppConfig.ConsentCollection)
	assert.Equal(t, 30*time.Second, AppConfig.ConsentCacheTTL)
	assert.True(t, AppConfig.TracingEnabled)
}
