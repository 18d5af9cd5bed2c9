package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"trahy/pkg/logger"
)

// ensureIndexes creates indexes on startup. Failures are logged and ignored;
// the index may already exist with different options.
func ensureIndexes(collection *mongo.Collection, models ...mongo.IndexModel) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, model := range models {
		if _, err := collection.Indexes().CreateOne(ctx, model); err != nil {
			logger.Warn().
				Err(err).
				Str("collection", collection.Name()).
				Msg("Failed to create index")
		}
	}
}
