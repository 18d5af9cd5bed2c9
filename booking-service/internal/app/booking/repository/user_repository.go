package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"trahy/booking-service/internal/app/booking/entity"
	"trahy/pkg/metrics"
)

const usersCollection = "users"

type userRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database) UserRepository {
	return &userRepository{collection: db.Collection(usersCollection)}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	user.UpdatedAt = time.Now().UTC()
	if user.VerificationStatus == "" {
		user.VerificationStatus = entity.VerificationStatusUnverified
	}

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, usersCollection)
	_, err := r.collection.InsertOne(ctx, user)
	timer.Done(err)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpFind, usersCollection)

	var user entity.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		timer.Done(nil)
		return nil, ErrUserNotFound
	}
	timer.Done(err)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

func (r *userRepository) UpdateVerification(ctx context.Context, id string, status entity.VerificationStatus, isVerified bool, remark string) error {
	update := bson.M{"$set": bson.M{
		"isVerified":         isVerified,
		"verificationStatus": status,
		"verificationRemark": remark,
		"updatedAt":          time.Now().UTC(),
	}}

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, usersCollection)
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	timer.Done(err)
	if err != nil {
		return fmt.Errorf("failed to update user verification: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrUserNotFound
	}

	return nil
}
