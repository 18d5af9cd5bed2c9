package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"trahy/booking-service/internal/app/booking/entity"
	"trahy/pkg/metrics"
)

const propertiesCollection = "properties"

type propertyRepository struct {
	collection *mongo.Collection
}

// NewPropertyRepository creates the repository and its slug and owner indexes.
func NewPropertyRepository(db *mongo.Database) PropertyRepository {
	collection := db.Collection(propertiesCollection)

	ensureIndexes(collection,
		mongo.IndexModel{
			Keys: bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().
				SetName("slug_unique_idx").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"slug": bson.M{"$type": "string"}}),
		},
		mongo.IndexModel{
			Keys:    bson.D{{Key: "ownerId", Value: 1}},
			Options: options.Index().SetName("owner_idx"),
		},
	)

	return &propertyRepository{collection: collection}
}

func (r *propertyRepository) Create(ctx context.Context, property *entity.Property) error {
	if property.ID == "" {
		property.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	property.CreatedAt = now
	property.UpdatedAt = now
	if property.Status == "" {
		property.Status = entity.PropertyStatusPending
	}

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, propertiesCollection)
	_, err := r.collection.InsertOne(ctx, property)
	timer.Done(err)
	if err != nil {
		return fmt.Errorf("failed to create property: %w", err)
	}

	return nil
}

func (r *propertyRepository) GetByID(ctx context.Context, id string) (*entity.Property, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *propertyRepository) FindIDBySlug(ctx context.Context, slug string) (string, error) {
	opts := options.FindOne().SetProjection(bson.M{"_id": 1})

	var doc struct {
		ID string `bson:"_id"`
	}

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpFind, propertiesCollection)
	err := r.collection.FindOne(ctx, bson.M{"slug": slug}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		timer.Done(nil)
		return "", ErrPropertyNotFound
	}
	timer.Done(err)
	if err != nil {
		return "", fmt.Errorf("failed to find property by slug: %w", err)
	}

	return doc.ID, nil
}

func (r *propertyRepository) FindByOwner(ctx context.Context, ownerID string) (*entity.Property, error) {
	return r.findOne(ctx, bson.M{"ownerId": ownerID}, options.FindOne().SetSort(bson.D{{Key: "_id", Value: 1}}))
}

func (r *propertyRepository) UpdateRating(ctx context.Context, id string, summary entity.RatingSummary) error {
	return r.updateOne(ctx, id, bson.M{
		"rating":      summary.AverageRating,
		"reviewCount": summary.ReviewCount,
	})
}

func (r *propertyRepository) UpdateStatus(ctx context.Context, id string, status entity.PropertyStatus) error {
	return r.updateOne(ctx, id, bson.M{"status": status})
}

func (r *propertyRepository) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*entity.Property, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpFind, propertiesCollection)

	var property entity.Property
	err := r.collection.FindOne(ctx, filter, opts...).Decode(&property)
	if errors.Is(err, mongo.ErrNoDocuments) {
		timer.Done(nil)
		return nil, ErrPropertyNotFound
	}
	timer.Done(err)
	if err != nil {
		return nil, fmt.Errorf("failed to get property: %w", err)
	}

	return &property, nil
}

func (r *propertyRepository) updateOne(ctx context.Context, id string, fields bson.M) error {
	fields["updatedAt"] = time.Now().UTC()

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, propertiesCollection)
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	timer.Done(err)
	if err != nil {
		return fmt.Errorf("failed to update property: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrPropertyNotFound
	}

	return nil
}
