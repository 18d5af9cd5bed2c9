package service

import (
	"context"
	"time"

	"trahy/booking-service/internal/app/booking/entity"
)

// PropertyServiceInterface serves property reads addressed by id or slug.
type PropertyServiceInterface interface {
	GetProperty(ctx context.Context, identifier string) (*entity.Property, error)
	// ListRooms returns the canonical property id together with its rooms
	ListRooms(ctx context.Context, identifier string) (string, []entity.Room, error)
}

// ReviewServiceInterface covers review writes and rating aggregation.
type ReviewServiceInterface interface {
	ListReviews(ctx context.Context, identifier string) ([]entity.Review, entity.RatingSummary, error)
	CreateReview(ctx context.Context, identifier, guestID string, req *entity.CreateReviewRequest) (*entity.Review, *entity.RatingSummary, error)
	EditReview(ctx context.Context, identifier, reviewID, newText string, newRating float64) (*entity.RatingSummary, error)
	DeleteReview(ctx context.Context, identifier, reviewID string) (*entity.RatingSummary, error)
	Recompute(ctx context.Context, identifier string) (*entity.RatingSummary, error)
}

// BookingServiceInterface covers the booking lifecycle.
type BookingServiceInterface interface {
	Create(ctx context.Context, guestID string, req *entity.CreateBookingRequest) (*entity.Booking, error)
	Get(ctx context.Context, bookingID string) (*entity.Booking, error)
	ListByGuest(ctx context.Context, guestID string) ([]entity.Booking, error)
	ListOpenTickets(ctx context.Context) ([]entity.Booking, error)
	ListUnpaidCreatedBefore(ctx context.Context, cutoff time.Time) ([]entity.Booking, error)
	Cancel(ctx context.Context, bookingID string) (*entity.Booking, error)
	// ExpireUnpaid cancels only while the booking is still awaiting payment
	ExpireUnpaid(ctx context.Context, bookingID string) (*entity.Booking, error)
	// ConfirmPayment is called from the payment gateway callback
	ConfirmPayment(ctx context.Context, bookingID string) error
	Reply(ctx context.Context, bookingID, message, author string) (*entity.AdminReply, error)
	AmendDates(ctx context.Context, bookingID, checkIn, checkOut string) (*entity.AdminReply, error)
	OpenTicket(ctx context.Context, bookingID, message string) error
}

// VerificationServiceInterface applies partner verification decisions.
type VerificationServiceInterface interface {
	Decide(ctx context.Context, userID string, action entity.VerificationAction, remark string) (*entity.VerificationResult, error)
}

var (
	_ PropertyServiceInterface     = (*PropertyService)(nil)
	_ ReviewServiceInterface       = (*ReviewService)(nil)
	_ BookingServiceInterface      = (*BookingService)(nil)
	_ VerificationServiceInterface = (*VerificationService)(nil)
)
