package mocks

import (
	"context"
	"time"

	"trahy/booking-service/internal/app/booking/entity"

	"github.com/stretchr/testify/mock"
)

// MockPropertyService is a testify mock for service.PropertyServiceInterface.
type MockPropertyService struct {
	mock.Mock
}

func (m *MockPropertyService) GetProperty(ctx context.Context, identifier string) (*entity.Property, error) {
	args := m.Called(ctx, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Property), args.Error(1)
}

func (m *MockPropertyService) ListRooms(ctx context.Context, identifier string) (string, []entity.Room, error) {
	args := m.Called(ctx, identifier)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).([]entity.Room), args.Error(2)
}

// MockReviewService is a testify mock for service.ReviewServiceInterface.
type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) ListReviews(ctx context.Context, identifier string) ([]entity.Review, entity.RatingSummary, error) {
	args := m.Called(ctx, identifier)
	if args.Get(0) == nil {
		return nil, args.Get(1).(entity.RatingSummary), args.Error(2)
	}
	return args.Get(0).([]entity.Review), args.Get(1).(entity.RatingSummary), args.Error(2)
}

func (m *MockReviewService) CreateReview(ctx context.Context, identifier, guestID string, req *entity.CreateReviewRequest) (*entity.Review, *entity.RatingSummary, error) {
	args := m.Called(ctx, identifier, guestID, req)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*entity.Review), args.Get(1).(*entity.RatingSummary), args.Error(2)
}

func (m *MockReviewService) EditReview(ctx context.Context, identifier, reviewID, newText string, newRating float64) (*entity.RatingSummary, error) {
	args := m.Called(ctx, identifier, reviewID, newText, newRating)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RatingSummary), args.Error(1)
}

func (m *MockReviewService) DeleteReview(ctx context.Context, identifier, reviewID string) (*entity.RatingSummary, error) {
	args := m.Called(ctx, identifier, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RatingSummary), args.Error(1)
}

func (m *MockReviewService) Recompute(ctx context.Context, identifier string) (*entity.RatingSummary, error) {
	args := m.Called(ctx, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RatingSummary), args.Error(1)
}

// MockBookingService is a testify mock for service.BookingServiceInterface.
type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) Create(ctx context.Context, guestID string, req *entity.CreateBookingRequest) (*entity.Booking, error) {
	args := m.Called(ctx, guestID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Booking), args.Error(1)
}

func (m *MockBookingService) Get(ctx context.Context, bookingID string) (*entity.Booking, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Booking), args.Error(1)
}

func (m *MockBookingService) ListByGuest(ctx context.Context, guestID string) ([]entity.Booking, error) {
	args := m.Called(ctx, guestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Booking), args.Error(1)
}

func (m *MockBookingService) ListOpenTickets(ctx context.Context) ([]entity.Booking, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Booking), args.Error(1)
}

func (m *MockBookingService) ListUnpaidCreatedBefore(ctx context.Context, cutoff time.Time) ([]entity.Booking, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Booking), args.Error(1)
}

func (m *MockBookingService) Cancel(ctx context.Context, bookingID string) (*entity.Booking, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Booking), args.Error(1)
}

func (m *MockBookingService) ExpireUnpaid(ctx context.Context, bookingID string) (*entity.Booking, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Booking), args.Error(1)
}

func (m *MockBookingService) ConfirmPayment(ctx context.Context, bookingID string) error {
	args := m.Called(ctx, bookingID)
	return args.Error(0)
}

func (m *MockBookingService) Reply(ctx context.Context, bookingID, message, author string) (*entity.AdminReply, error) {
	args := m.Called(ctx, bookingID, message, author)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AdminReply), args.Error(1)
}

func (m *MockBookingService) AmendDates(ctx context.Context, bookingID, checkIn, checkOut string) (*entity.AdminReply, error) {
	args := m.Called(ctx, bookingID, checkIn, checkOut)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AdminReply), args.Error(1)
}

func (m *MockBookingService) OpenTicket(ctx context.Context, bookingID, message string) error {
	args := m.Called(ctx, bookingID, message)
	return args.Error(0)
}

// MockVerificationService is a testify mock for service.VerificationServiceInterface.
type MockVerificationService struct {
	mock.Mock
}

func (m *MockVerificationService) Decide(ctx context.Context, userID string, action entity.VerificationAction, remark string) (*entity.VerificationResult, error) {
	args := m.Called(ctx, userID, action, remark)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.VerificationResult), args.Error(1)
}
