package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"trahy/booking-service/internal/app/booking/entity"
	"trahy/pkg/metrics"
)

const (
	stayBookingsCollection    = "bookings"
	vehicleBookingsCollection = "vehicle_bookings"
)

type bookingRepository struct {
	stays    *mongo.Collection
	vehicles *mongo.Collection
}

// NewBookingRepository creates the repository over both booking collections.
func NewBookingRepository(db *mongo.Database) BookingRepository {
	r := &bookingRepository{
		stays:    db.Collection(stayBookingsCollection),
		vehicles: db.Collection(vehicleBookingsCollection),
	}

	for _, collection := range r.collections() {
		ensureIndexes(collection,
			mongo.IndexModel{
				Keys:    bson.D{{Key: "guestId", Value: 1}, {Key: "createdAt", Value: -1}},
				Options: options.Index().SetName("guest_created_idx"),
			},
			mongo.IndexModel{
				Keys:    bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: 1}},
				Options: options.Index().SetName("status_created_idx"),
			},
			mongo.IndexModel{
				Keys:    bson.D{{Key: "hasOpenTicket", Value: 1}},
				Options: options.Index().SetName("open_ticket_idx").SetPartialFilterExpression(bson.M{"hasOpenTicket": true}),
			},
		)
	}

	return r
}

func (r *bookingRepository) collections() []*mongo.Collection {
	return []*mongo.Collection{r.stays, r.vehicles}
}

func (r *bookingRepository) collectionFor(kind entity.BookingKind) *mongo.Collection {
	if kind == entity.BookingKindVehicle {
		return r.vehicles
	}
	return r.stays
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	if booking.AdminReplies == nil {
		booking.AdminReplies = []entity.AdminReply{}
	}

	collection := r.collectionFor(booking.Kind)
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, collection.Name())
	_, err := collection.InsertOne(ctx, booking)
	timer.Done(err)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	return nil
}

// GetByID looks in the stay collection first, then in the vehicle collection.
func (r *bookingRepository) GetByID(ctx context.Context, id string) (*entity.Booking, error) {
	for _, collection := range r.collections() {
		timer := metrics.NewDbTimer(serviceName, metrics.DbOpFind, collection.Name())

		var booking entity.Booking
		err := collection.FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
		if errors.Is(err, mongo.ErrNoDocuments) {
			timer.Done(nil)
			continue
		}
		timer.Done(err)
		if err != nil {
			return nil, fmt.Errorf("failed to get booking: %w", err)
		}

		return &booking, nil
	}

	return nil, ErrBookingNotFound
}

func (r *bookingRepository) ListByGuest(ctx context.Context, guestID string) ([]entity.Booking, error) {
	bookings, err := r.findAll(ctx, bson.M{"guestId": guestID})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(bookings, func(i, j int) bool {
		return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
	})
	return bookings, nil
}

func (r *bookingRepository) ListOpenTickets(ctx context.Context) ([]entity.Booking, error) {
	bookings, err := r.findAll(ctx, bson.M{"hasOpenTicket": true})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(bookings, func(i, j int) bool {
		return bookings[i].UpdatedAt.Before(bookings[j].UpdatedAt)
	})
	return bookings, nil
}

func (r *bookingRepository) ListPendingCreatedBefore(ctx context.Context, before time.Time) ([]entity.Booking, error) {
	return r.findAll(ctx, bson.M{
		"status":    entity.BookingStatusPendingPayment,
		"createdAt": bson.M{"$lt": before},
	})
}

func (r *bookingRepository) Cancel(ctx context.Context, id string, at time.Time) error {
	filter := bson.M{"_id": id, "status": bson.M{"$ne": entity.BookingStatusCancelled}}
	update := bson.M{"$set": bson.M{
		"status":    entity.BookingStatusCancelled,
		"updatedAt": at,
	}}

	matched, err := r.updateAny(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to cancel booking: %w", err)
	}
	if matched {
		return nil
	}

	// Nothing matched: either the booking is gone or it was already cancelled.
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return ErrBookingAlreadyCancelled
}

func (r *bookingRepository) ExpireUnpaid(ctx context.Context, id string, at time.Time) error {
	filter := bson.M{
		"_id":           id,
		"status":        entity.BookingStatusPendingPayment,
		"paymentStatus": bson.M{"$ne": entity.PaymentStatusPaid},
	}
	update := bson.M{"$set": bson.M{
		"status":    entity.BookingStatusCancelled,
		"updatedAt": at,
	}}

	matched, err := r.updateAny(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to expire booking: %w", err)
	}
	if matched {
		return nil
	}

	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return ErrBookingNotPending
}

func (r *bookingRepository) ConfirmPayment(ctx context.Context, id string, at time.Time) error {
	update := bson.M{"$set": bson.M{
		"status":        entity.BookingStatusConfirmed,
		"paymentStatus": entity.PaymentStatusPaid,
		"updatedAt":     at,
	}}

	return r.updateByID(ctx, id, update, "confirm payment")
}

func (r *bookingRepository) AppendReply(ctx context.Context, id string, reply entity.AdminReply) error {
	update := bson.M{
		"$push": bson.M{"adminReplies": reply},
		"$set": bson.M{
			"hasOpenTicket": false,
			"updatedAt":     reply.CreatedAt,
		},
	}

	return r.updateByID(ctx, id, update, "append reply")
}

func (r *bookingRepository) AmendDates(ctx context.Context, id, checkIn, checkOut string, reply entity.AdminReply) error {
	update := bson.M{
		"$push": bson.M{"adminReplies": reply},
		"$set": bson.M{
			"checkIn":       checkIn,
			"checkOut":      checkOut,
			"hasOpenTicket": false,
			"updatedAt":     reply.CreatedAt,
		},
	}

	return r.updateByID(ctx, id, update, "amend dates")
}

func (r *bookingRepository) OpenTicket(ctx context.Context, id, message string, at time.Time) error {
	update := bson.M{"$set": bson.M{
		"hasOpenTicket": true,
		"ticketMessage": message,
		"updatedAt":     at,
	}}

	return r.updateByID(ctx, id, update, "open ticket")
}

func (r *bookingRepository) updateByID(ctx context.Context, id string, update bson.M, action string) error {
	matched, err := r.updateAny(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", action, err)
	}
	if !matched {
		return ErrBookingNotFound
	}
	return nil
}

// updateAny applies update to the first collection holding a matching
// document. Booking ids are unique across both collections.
func (r *bookingRepository) updateAny(ctx context.Context, filter bson.M, update bson.M) (bool, error) {
	for _, collection := range r.collections() {
		timer := metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, collection.Name())
		result, err := collection.UpdateOne(ctx, filter, update)
		timer.Done(err)
		if err != nil {
			return false, err
		}
		if result.MatchedCount > 0 {
			return true, nil
		}
	}
	return false, nil
}

func (r *bookingRepository) findAll(ctx context.Context, filter bson.M) ([]entity.Booking, error) {
	bookings := make([]entity.Booking, 0)

	for _, collection := range r.collections() {
		timer := metrics.NewDbTimer(serviceName, metrics.DbOpFind, collection.Name())

		cursor, err := collection.Find(ctx, filter)
		if err != nil {
			timer.Done(err)
			return nil, fmt.Errorf("failed to find bookings: %w", err)
		}

		var batch []entity.Booking
		err = cursor.All(ctx, &batch)
		cursor.Close(ctx)
		timer.Done(err)
		if err != nil {
			return nil, fmt.Errorf("failed to decode bookings: %w", err)
		}

		bookings = append(bookings, batch...)
	}

	return bookings, nil
}
