package repository

import (
	"context"
	"errors"
	"time"

	"trahy/booking-service/internal/app/booking/entity"
)

var (
	ErrPropertyNotFound        = errors.New("property not found")
	ErrReviewNotFound          = errors.New("review not found")
	ErrBookingNotFound         = errors.New("booking not found")
	ErrBookingAlreadyCancelled = errors.New("booking already cancelled")
	ErrBookingNotPending       = errors.New("booking is no longer awaiting payment")
	ErrUserNotFound            = errors.New("user not found")
)

const serviceName = "booking-service"

// PropertyRepository works with the properties collection.
type PropertyRepository interface {
	Create(ctx context.Context, property *entity.Property) error
	GetByID(ctx context.Context, id string) (*entity.Property, error)
	// FindIDBySlug returns the id of the first property carrying slug.
	FindIDBySlug(ctx context.Context, slug string) (string, error)
	// FindByOwner returns the first property owned by ownerID in _id order.
	FindByOwner(ctx context.Context, ownerID string) (*entity.Property, error)
	UpdateRating(ctx context.Context, id string, summary entity.RatingSummary) error
	UpdateStatus(ctx context.Context, id string, status entity.PropertyStatus) error
}

type RoomRepository interface {
	ListByProperty(ctx context.Context, propertyID string) ([]entity.Room, error)
}

// ReviewRepository scopes every lookup by the parent property.
type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	GetByID(ctx context.Context, propertyID, reviewID string) (*entity.Review, error)
	ListByProperty(ctx context.Context, propertyID string) ([]entity.Review, error)
	Update(ctx context.Context, propertyID, reviewID, text string, rating float64) error
	Delete(ctx context.Context, propertyID, reviewID string) error
}

// BookingRepository spans the stay and vehicle booking collections. Writes
// that touch the reply thread use $push so concurrent replies are not lost.
type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	GetByID(ctx context.Context, id string) (*entity.Booking, error)
	ListByGuest(ctx context.Context, guestID string) ([]entity.Booking, error)
	ListOpenTickets(ctx context.Context) ([]entity.Booking, error)
	ListPendingCreatedBefore(ctx context.Context, before time.Time) ([]entity.Booking, error)
	// Cancel returns ErrBookingAlreadyCancelled without writing when the
	// booking is already cancelled.
	Cancel(ctx context.Context, id string, at time.Time) error
	// ExpireUnpaid cancels the booking only while it is still pending_payment
	// and unpaid. Otherwise it returns ErrBookingNotPending without writing.
	ExpireUnpaid(ctx context.Context, id string, at time.Time) error
	ConfirmPayment(ctx context.Context, id string, at time.Time) error
	AppendReply(ctx context.Context, id string, reply entity.AdminReply) error
	AmendDates(ctx context.Context, id, checkIn, checkOut string, reply entity.AdminReply) error
	OpenTicket(ctx context.Context, id, message string, at time.Time) error
}

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	UpdateVerification(ctx context.Context, id string, status entity.VerificationStatus, isVerified bool, remark string) error
}

// Transactor runs fn as one unit of work. Repositories called with the ctx
// handed to fn take part in the transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
