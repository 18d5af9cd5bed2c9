package infrastructure

import "context"

// MessagePublisher sends lifecycle events to the message bus (Kafka).
type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
	Close() error
}

// SlugCache remembers slug -> canonical property id mappings. Slugs are
// immutable once published, so entries never need invalidation.
type SlugCache interface {
	GetPropertyID(ctx context.Context, slug string) (string, bool, error)
	SetPropertyID(ctx context.Context, slug, propertyID string) error
}
