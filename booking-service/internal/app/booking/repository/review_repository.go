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

const reviewsCollection = "reviews"

type reviewRepository struct {
	collection *mongo.Collection
}

// NewReviewRepository creates the repository with an index on propertyId,
// which every aggregation reads through.
func NewReviewRepository(db *mongo.Database) ReviewRepository {
	collection := db.Collection(reviewsCollection)

	ensureIndexes(collection, mongo.IndexModel{
		Keys:    bson.D{{Key: "propertyId", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("property_created_idx"),
	})

	return &reviewRepository{collection: collection}
}

func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	if review.ID == "" {
		review.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	review.CreatedAt = now
	review.UpdatedAt = now

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, reviewsCollection)
	_, err := r.collection.InsertOne(ctx, review)
	timer.Done(err)
	if err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}

	return nil
}

func (r *reviewRepository) GetByID(ctx context.Context, propertyID, reviewID string) (*entity.Review, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpFind, reviewsCollection)

	var review entity.Review
	err := r.collection.FindOne(ctx, bson.M{"_id": reviewID, "propertyId": propertyID}).Decode(&review)
	if errors.Is(err, mongo.ErrNoDocuments) {
		timer.Done(nil)
		return nil, ErrReviewNotFound
	}
	timer.Done(err)
	if err != nil {
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	return &review, nil
}

func (r *reviewRepository) ListByProperty(ctx context.Context, propertyID string) ([]entity.Review, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpFind, reviewsCollection)
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"propertyId": propertyID}, opts)
	if err != nil {
		timer.Done(err)
		return nil, fmt.Errorf("failed to find reviews: %w", err)
	}
	defer cursor.Close(ctx)

	reviews := make([]entity.Review, 0)
	err = cursor.All(ctx, &reviews)
	timer.Done(err)
	if err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}

	return reviews, nil
}

func (r *reviewRepository) Update(ctx context.Context, propertyID, reviewID, text string, rating float64) error {
	update := bson.M{
		"$set": bson.M{
			"text":      text,
			"rating":    rating,
			"updatedAt": time.Now().UTC(),
		},
	}

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, reviewsCollection)
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": reviewID, "propertyId": propertyID}, update)
	timer.Done(err)
	if err != nil {
		return fmt.Errorf("failed to update review: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrReviewNotFound
	}

	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, propertyID, reviewID string) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpDelete, reviewsCollection)
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": reviewID, "propertyId": propertyID})
	timer.Done(err)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrReviewNotFound
	}

	return nil
}
