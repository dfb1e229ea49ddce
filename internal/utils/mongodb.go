package utils

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultQueryTimeout is the default timeout for MongoDB queries
const DefaultQueryTimeout = 10 * time.Second

// FindOneWithTimeout performs a MongoDB FindOne operation with timeout
func FindOneWithTimeout(ctx context.Context, collection *mongo.Collection, filter bson.M, result interface{}, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return collection.FindOne(ctx, filter).Decode(result)
}

// FindWithLimitAndTimeout performs a MongoDB Find operation with limit and timeout
func FindWithLimitAndTimeout(ctx context.Context, collection *mongo.Collection, filter bson.M, limit int64, timeout time.Duration) (*mongo.Cursor, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := options.Find().SetLimit(limit)
	return collection.Find(ctx, filter, opts)
}

// InsertOneWithTimeout performs a MongoDB InsertOne operation with timeout
func InsertOneWithTimeout(ctx context.Context, collection *mongo.Collection, document interface{}, timeout time.Duration) (*mongo.InsertOneResult, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return collection.InsertOne(ctx, document)
}

// UpdateOneWithTimeout performs a MongoDB UpdateOne operation with timeout
func UpdateOneWithTimeout(ctx context.Context, collection *mongo.Collection, filter bson.M, update bson.M, timeout time.Duration) (*mongo.UpdateResult, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return collection.UpdateOne(ctx, filter, update)
}
