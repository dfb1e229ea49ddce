package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vipoffers/consent-api/internal/config"
	"github.com/vipoffers/consent-api/internal/geoip"
	"github.com/vipoffers/consent-api/internal/logging"
	"github.com/vipoffers/consent-api/internal/models"
	"github.com/vipoffers/consent-api/internal/observability"
	"github.com/vipoffers/consent-api/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// LocationResolver resolves an IP address to a city and country
type LocationResolver interface {
	Lookup(ctx context.Context, ipAddress string) (*geoip.Location, error)
}

// ConsentService owns the consent record lifecycle: create, read and
// opt-in toggling. Records are keyed by phone_number for uniqueness and
// customer_id for lookup.
type ConsentService struct {
	resolver LocationResolver
	logger   *logging.SafeLogger
	timezone *time.Location
}

// NewConsentService creates a consent service. The timestamp timezone
// comes from configuration and falls back to US Eastern.
func NewConsentService(resolver LocationResolver, logger *logging.SafeLogger) *ConsentService {
	tzName := "America/New_York"
	if config.AppConfig != nil && config.AppConfig.ConsentTimezone != "" {
		tzName = config.AppConfig.ConsentTimezone
	}
	tz, err := time.LoadLocation(tzName)
	if err != nil {
		logger.Warn("failed to load consent timezone, using UTC",
			zap.String("timezone", tzName), zap.Error(err))
		tz = time.UTC
	}

	return &ConsentService{
		resolver: resolver,
		logger:   logger,
		timezone: tz,
	}
}

func (s *ConsentService) collection() *mongo.Collection {
	return config.MongoDB.Collection(config.AppConfig.ConsentCollection)
}

func consentCacheKey(customerID string) string {
	return "consent:cache:" + customerID
}

// SaveConsent creates a consent record for the given request. The phone
// number is normalized to E.164 before insertion; uniqueness is enforced
// by the store's unique index, so a concurrent duplicate save loses the
// race inside MongoDB rather than in application code. Location
// enrichment is best-effort: a failed lookup degrades to the Unknown
// sentinels instead of aborting the save.
func (s *ConsentService) SaveConsent(ctx context.Context, req *models.SaveConsentRequest) (*models.ConsentRecord, error) {
	logger := s.logger.With(zap.String("customer_id", req.CustomerID))

	phone, err := utils.NormalizePhoneNumber(req.PhoneNumber)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", models.ErrInvalidPhone, req.PhoneNumber)
	}

	city, country := geoip.UnknownCity, geoip.UnknownCountry
	location, err := s.resolver.Lookup(ctx, req.IPAddress)
	if err != nil {
		observability.LocationLookups.WithLabelValues("failure").Inc()
		logger.Warn("location lookup failed, saving with unknown location",
			zap.String("ip_address", req.IPAddress),
			zap.Error(err))
	} else {
		observability.LocationLookups.WithLabelValues("success").Inc()
		city, country = location.City, location.Country
	}

	// An omitted opt_in_status arrives as the zero value; stored records
	// only ever hold the canonical strings.
	status := req.OptInStatus
	if status == "" {
		status = models.OptInNo
	}

	record := &models.ConsentRecord{
		CustomerID:  req.CustomerID,
		FirstName:   req.FirstName,
		PhoneNumber: phone,
		OptInStatus: status,
		Timestamp:   time.Now().In(s.timezone).Format(time.RFC3339),
		IPAddress:   req.IPAddress,
		City:        city,
		Country:     country,
	}

	result, err := utils.InsertOneWithTimeout(ctx, s.collection(), record, utils.DefaultQueryTimeout)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			observability.ConsentWrites.WithLabelValues("duplicate").Inc()
			return nil, models.ErrDuplicatePhone
		}
		observability.ConsentWrites.WithLabelValues("error").Inc()
		logger.Error("failed to insert consent record", zap.Error(err))
		return nil, fmt.Errorf("failed to save consent: %w", err)
	}
	observability.ConsentWrites.WithLabelValues("success").Inc()

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		record.ID = oid
	}
	logger.Info("consent record saved",
		zap.String("id", record.ID.Hex()),
		zap.String("phone_number", observability.MaskPhone(phone)),
		zap.String("city", city),
		zap.String("country", country))

	s.invalidateCache(ctx, req.CustomerID)

	return record, nil
}

// GetConsent returns the consent records for a customer, at most one.
// A customer with no record yields an empty slice, not an error. Reads
// go through the Redis cache first.
func (s *ConsentService) GetConsent(ctx context.Context, customerID string) ([]models.ConsentRecord, error) {
	logger := s.logger.With(zap.String("customer_id", customerID))

	if config.Redis != nil {
		if cached, err := config.Redis.Get(ctx, consentCacheKey(customerID)).Result(); err == nil {
			var records []models.ConsentRecord
			if err := json.Unmarshal([]byte(cached), &records); err == nil {
				observability.CacheHits.WithLabelValues("get_consent").Inc()
				return records, nil
			}
		} else if err != redis.Nil {
			logger.Warn("consent cache read failed", zap.Error(err))
		}
	}

	// First matching row in natural order; customer_id has no
	// uniqueness guarantee.
	cursor, err := utils.FindWithLimitAndTimeout(ctx, s.collection(),
		bson.M{"customer_id": customerID}, 1, utils.DefaultQueryTimeout)
	if err != nil {
		observability.DatabaseOperations.WithLabelValues("get_consent", "error").Inc()
		logger.Error("failed to query consent records", zap.Error(err))
		return nil, fmt.Errorf("failed to fetch consent: %w", err)
	}
	defer cursor.Close(ctx)

	records := []models.ConsentRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		observability.DatabaseOperations.WithLabelValues("get_consent", "error").Inc()
		logger.Error("failed to decode consent records", zap.Error(err))
		return nil, fmt.Errorf("failed to fetch consent: %w", err)
	}
	observability.DatabaseOperations.WithLabelValues("get_consent", "success").Inc()

	s.cacheRecords(ctx, customerID, records)

	return records, nil
}

// ToggleOptIn flips the customer's opt-in status and returns the new
// value. Only opt_in_status is written; every other field is immutable
// after creation.
func (s *ConsentService) ToggleOptIn(ctx context.Context, customerID string) (models.OptInStatus, error) {
	logger := s.logger.With(zap.String("customer_id", customerID))

	var record models.ConsentRecord
	err := utils.FindOneWithTimeout(ctx, s.collection(),
		bson.M{"customer_id": customerID}, &record, utils.DefaultQueryTimeout)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return "", models.ErrConsentNotFound
		}
		observability.DatabaseOperations.WithLabelValues("toggle_opt_in", "error").Inc()
		logger.Error("failed to read consent record", zap.Error(err))
		return "", fmt.Errorf("failed to fetch consent: %w", err)
	}

	newStatus := record.OptInStatus.Toggle()

	result, err := utils.UpdateOneWithTimeout(ctx, s.collection(),
		bson.M{"_id": record.ID},
		bson.M{"$set": bson.M{"opt_in_status": newStatus}},
		utils.DefaultQueryTimeout)
	if err != nil {
		observability.DatabaseOperations.WithLabelValues("toggle_opt_in", "error").Inc()
		logger.Error("failed to update consent record", zap.Error(err))
		return "", fmt.Errorf("failed to update consent: %w", err)
	}
	if result.MatchedCount == 0 {
		return "", models.ErrConsentNotFound
	}
	observability.DatabaseOperations.WithLabelValues("toggle_opt_in", "success").Inc()

	logger.Info("consent opt-in status toggled",
		zap.String("new_status", string(newStatus)))

	s.invalidateCache(ctx, customerID)

	return newStatus, nil
}

func (s *ConsentService) cacheRecords(ctx context.Context, customerID string, records []models.ConsentRecord) {
	if config.Redis == nil {
		return
	}
	data, err := json.Marshal(records)
	if err != nil {
		return
	}
	ttl := 10 * time.Minute
	if config.AppConfig != nil {
		ttl = config.AppConfig.ConsentCacheTTL
	}
	if err := config.Redis.Set(ctx, consentCacheKey(customerID), data, ttl).Err(); err != nil {
		s.logger.Warn("failed to cache consent records",
			zap.String("customer_id", customerID), zap.Error(err))
	}
}

func (s *ConsentService) invalidateCache(ctx context.Context, customerID string) {
	if config.Redis == nil {
		return
	}
	if err := config.Redis.Del(ctx, consentCacheKey(customerID)).Err(); err != nil {
		s.logger.Warn("failed to invalidate consent cache",
			zap.String("customer_id", customerID), zap.Error(err))
	}
}
