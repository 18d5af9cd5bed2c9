package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"trahy/booking-service/internal/app/booking/entity"
	"trahy/pkg/metrics"
)

const roomsCollection = "rooms"

type roomRepository struct {
	collection *mongo.Collection
}

func NewRoomRepository(db *mongo.Database) RoomRepository {
	collection := db.Collection(roomsCollection)

	ensureIndexes(collection, mongo.IndexModel{
		Keys:    bson.D{{Key: "propertyId", Value: 1}},
		Options: options.Index().SetName("property_idx"),
	})

	return &roomRepository{collection: collection}
}

func (r *roomRepository) ListByProperty(ctx context.Context, propertyID string) ([]entity.Room, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpFind, roomsCollection)
	opts := options.Find().SetSort(bson.D{{Key: "price", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"propertyId": propertyID}, opts)
	if err != nil {
		timer.Done(err)
		return nil, fmt.Errorf("failed to find rooms: %w", err)
	}
	defer cursor.Close(ctx)

	rooms := make([]entity.Room, 0)
	err = cursor.All(ctx, &rooms)
	timer.Done(err)
	if err != nil {
		return nil, fmt.Errorf("failed to decode rooms: %w", err)
	}

	return rooms, nil
}
