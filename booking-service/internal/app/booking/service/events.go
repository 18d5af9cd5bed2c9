package service

import (
	"context"
	"encoding/json"

	"trahy/booking-service/internal/app/booking/infrastructure"
	"trahy/pkg/logger"
)

// publishEvent serialises event and sends it keyed by key. The state change it
// describes is already persisted, so failures are logged and dropped.
func publishEvent(ctx context.Context, publisher infrastructure.MessagePublisher, key string, eventType string, event interface{}) {
	if publisher == nil {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Ctx(ctx).Error().Err(err).Str("event_type", eventType).Msg("Failed to marshal event")
		return
	}

	if err := publisher.PublishMessage(ctx, key, data); err != nil {
		logger.Ctx(ctx).Warn().
			Err(err).
			Str("event_type", eventType).
			Str("key", key).
			Msg("Failed to publish event")
	}
}
