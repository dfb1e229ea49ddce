package services

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/vipoffers/consent-api/internal/config"
	"github.com/vipoffers/consent-api/internal/geoip"
	"github.com/vipoffers/consent-api/internal/logging"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var setupOnce sync.Once

// setupTestEnvironment connects to a local MongoDB for integration-style
// tests. Tests are skipped when no instance is reachable.
func setupTestEnvironment() {
	setupOnce.Do(func() {
		_ = logging.InitLogger()

		uri := os.Getenv("MONGODB_URI")
		if uri == "" {
			uri = "mongodb://localhost:27017"
		}

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
		if err != nil {
			return
		}
		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			return
		}

		config.AppConfig = &config.Config{
			MongoURI:          uri,
			MongoDatabase:     "consent_test",
			ConsentCollection: "test_tcpa_consents",
			ConsentCacheTTL:   time.Minute,
			ConsentTimezone:   "America/New_York",
			DiscountMessage:   "Here's your 10% off coupon: VIP10. Use it at checkout!",
		}
		config.MongoDB = client.Database(config.AppConfig.MongoDatabase)
	})
}

// setupConsentServiceTest prepares a clean consent collection and
// returns a service wired with the given resolver.
func setupConsentServiceTest(t *testing.T, resolver LocationResolver) (*ConsentService, func()) {
	setupTestEnvironment()

	if config.MongoDB == nil {
		t.Skip("Skipping consent service tests: MongoDB not available")
	}

	ctx := context.Background()

	// Start from an empty collection with fresh indexes
	_ = config.MongoDB.Collection(config.AppConfig.ConsentCollection).Drop(ctx)
	if err := config.EnsureConsentIndexes(ctx); err != nil {
		t.Fatalf("failed to ensure consent indexes: %v", err)
	}

	service := NewConsentService(resolver, logging.Logger)

	return service, func() {
		_ = config.MongoDB.Collection(config.AppConfig.ConsentCollection).Drop(ctx)
	}
}

// fakeResolver is a LocationResolver test double
type fakeResolver struct {
	location *geoip.Location
	err      error
	calls    int
}

func (f *fakeResolver) Lookup(ctx context.Context, ipAddress string) (*geoip.Location, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.location, nil
}
