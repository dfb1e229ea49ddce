package config

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vipoffers/consent-api/internal/logging"
	"github.com/vipoffers/consent-api/internal/redisclient"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.opentelemetry.io/contrib/instrumentation/go.mongodb.org/mongo-driver/mongo/otelmongo"
	"go.uber.org/zap"
)

var (
	// MongoDB client
	MongoDB *mongo.Database
	// Redis client
	Redis *redisclient.Client
)

// InitMongoDB initializes the MongoDB connection
func InitMongoDB() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Client().
		ApplyURI(AppConfig.MongoURI).
		SetMonitor(otelmongo.NewMonitor()).
		SetMaxPoolSize(100).
		SetMinPoolSize(10).
		SetMaxConnIdleTime(5 * time.Minute).
		SetRetryWrites(true).
		SetRetryReads(true)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		log.Fatal(err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		log.Fatal(err)
	}

	MongoDB = client.Database(AppConfig.MongoDatabase)

	if err := EnsureConsentIndexes(context.Background()); err != nil {
		logging.Logger.Error("failed to ensure indexes on startup", zap.Error(err))
	}

	logging.Logger.Info("connected to MongoDB",
		zap.String("uri", maskMongoURI(AppConfig.MongoURI)),
		zap.String("database", AppConfig.MongoDatabase),
	)
}

// InitRedis initializes the Redis connection
func InitRedis() {
	redisClient := redis.NewClient(&redis.Options{
		Addr:         AppConfig.RedisURI,
		Password:     AppConfig.RedisPassword,
		DB:           AppConfig.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	Redis = redisclient.NewClient(redisClient)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := Redis.Ping(ctx).Err(); err != nil {
		logging.Logger.Error("failed to connect to Redis",
			zap.String("uri", AppConfig.RedisURI),
			zap.Error(err))
		return
	}

	logging.Logger.Info("connected to Redis",
		zap.String("uri", AppConfig.RedisURI))
}

// maskMongoURI masks credentials in a MongoDB URI
func maskMongoURI(uri string) string {
	at := strings.LastIndex(uri, "@")
	if at == -1 {
		return uri
	}
	return "mongodb://****:****@" + uri[at+1:]
}

// EnsureConsentIndexes creates the required indexes for the consent
// collection. The unique index on phone_number is what makes concurrent
// saves for the same number safe: the insert that loses the race fails
// with a duplicate key error instead of producing a second record.
func EnsureConsentIndexes(ctx context.Context) error {
	logger := zap.L().Named("database")

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	collection := MongoDB.Collection(AppConfig.ConsentCollection)

	cursor, err := collection.Indexes().List(ctx)
	if err != nil {
		logger.Error("failed to list indexes", zap.Error(err))
		return err
	}
	defer cursor.Close(ctx)

	existingIndexes := make(map[string]bool)
	for cursor.Next(ctx) {
		var index bson.M
		if err := cursor.Decode(&index); err != nil {
			continue
		}
		if name, ok := index["name"].(string); ok {
			existingIndexes[name] = true
		}
	}

	indexesToCreate := []mongo.IndexModel{}

	// Unique index on phone_number: one consent record per phone number.
	if !existingIndexes["phone_number_1"] {
		indexesToCreate = append(indexesToCreate, mongo.IndexModel{
			Keys: bson.D{{Key: "phone_number", Value: 1}},
			Options: options.Index().
				SetName("phone_number_1").
				SetUnique(true),
		})
	}

	// Non-unique index on customer_id for get/update lookups.
	if !existingIndexes["customer_id_1"] {
		indexesToCreate = append(indexesToCreate, mongo.IndexModel{
			Keys: bson.D{{Key: "customer_id", Value: 1}},
			Options: options.Index().
				SetName("customer_id_1"),
		})
	}

	for _, indexModel := range indexesToCreate {
		if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
			// Another instance may have created it concurrently
			if mongo.IsDuplicateKeyError(err) {
				logger.Info("consent index already exists (created by another instance)",
					zap.String("collection", AppConfig.ConsentCollection))
				continue
			}
			logger.Error("failed to create consent index",
				zap.String("collection", AppConfig.ConsentCollection),
				zap.Error(err))
			return err
		}
	}

	if len(indexesToCreate) > 0 {
		logger.Info("created consent collection indexes",
			zap.String("collection", AppConfig.ConsentCollection),
			zap.Int("count", len(indexesToCreate)))
	}

	return nil
}
