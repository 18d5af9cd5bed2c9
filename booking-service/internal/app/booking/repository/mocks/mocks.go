package mocks

import (
	"context"
	"time"

	"trahy/booking-service/internal/app/booking/entity"

	"github.com/stretchr/testify/mock"
)

// MockPropertyRepository is a testify mock for repository.PropertyRepository.
type MockPropertyRepository struct {
	mock.Mock
}

func (m *MockPropertyRepository) Create(ctx context.Context, property *entity.Property) error {
	args := m.Called(ctx, property)
	return args.Error(0)
}

func (m *MockPropertyRepository) GetByID(ctx context.Context, id string) (*entity.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Property), args.Error(1)
}

func (m *MockPropertyRepository) FindIDBySlug(ctx context.Context, slug string) (string, error) {
	args := m.Called(ctx, slug)
	return args.String(0), args.Error(1)
}

func (m *MockPropertyRepository) FindByOwner(ctx context.Context, ownerID string) (*entity.Property, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Property), args.Error(1)
}

func (m *MockPropertyRepository) UpdateRating(ctx context.Context, id string, summary entity.RatingSummary) error {
	args := m.Called(ctx, id, summary)
	return args.Error(0)
}

func (m *MockPropertyRepository) UpdateStatus(ctx context.Context, id string, status entity.PropertyStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// MockRoomRepository is a testify mock for repository.RoomRepository.
type MockRoomRepository struct {
	mock.Mock
}

func (m *MockRoomRepository) ListByProperty(ctx context.Context, propertyID string) ([]entity.Room, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Room), args.Error(1)
}

// MockReviewRepository is a testify mock for repository.ReviewRepository.
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, review *entity.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) GetByID(ctx context.Context, propertyID, reviewID string) (*entity.Review, error) {
	args := m.Called(ctx, propertyID, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Review), args.Error(1)
}

func (m *MockReviewRepository) ListByProperty(ctx context.Context, propertyID string) ([]entity.Review, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Review), args.Error(1)
}

func (m *MockReviewRepository) Update(ctx context.Context, propertyID, reviewID, text string, rating float64) error {
	args := m.Called(ctx, propertyID, reviewID, text, rating)
	return args.Error(0)
}

func (m *MockReviewRepository) Delete(ctx context.Context, propertyID, reviewID string) error {
	args := m.Called(ctx, propertyID, reviewID)
	return args.Error(0)
}

// MockBookingRepository is a testify mock for repository.BookingRepository.
type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*entity.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByGuest(ctx context.Context, guestID string) ([]entity.Booking, error) {
	args := m.Called(ctx, guestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListOpenTickets(ctx context.Context) ([]entity.Booking, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListPendingCreatedBefore(ctx context.Context, before time.Time) ([]entity.Booking, error) {
	args := m.Called(ctx, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Booking), args.Error(1)
}

func (m *MockBookingRepository) Cancel(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockBookingRepository) ExpireUnpaid(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockBookingRepository) ConfirmPayment(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockBookingRepository) AppendReply(ctx context.Context, id string, reply entity.AdminReply) error {
	args := m.Called(ctx, id, reply)
	return args.Error(0)
}

func (m *MockBookingRepository) AmendDates(ctx context.Context, id, checkIn, checkOut string, reply entity.AdminReply) error {
	args := m.Called(ctx, id, checkIn, checkOut, reply)
	return args.Error(0)
}

func (m *MockBookingRepository) OpenTicket(ctx context.Context, id, message string, at time.Time) error {
	args := m.Called(ctx, id, message, at)
	return args.Error(0)
}

// MockUserRepository is a testify mock for repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) UpdateVerification(ctx context.Context, id string, status entity.VerificationStatus, isVerified bool, remark string) error {
	args := m.Called(ctx, id, status, isVerified, remark)
	return args.Error(0)
}

// MockTransactor records that a unit of work was opened and runs fn inline.
type MockTransactor struct {
	mock.Mock
}

func (m *MockTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx)
}

// MockSlugCache is a testify mock for infrastructure.SlugCache.
type MockSlugCache struct {
	mock.Mock
}

func (m *MockSlugCache) GetPropertyID(ctx context.Context, slug string) (string, bool, error) {
	args := m.Called(ctx, slug)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockSlugCache) SetPropertyID(ctx context.Context, slug, propertyID string) error {
	args := m.Called(ctx, slug, propertyID)
	return args.Error(0)
}

// MockMessagePublisher is a testify mock for infrastructure.MessagePublisher.
type MockMessagePublisher struct {
	mock.Mock
	Messages [][]byte
}

func (m *MockMessagePublisher) PublishMessage(ctx context.Context, key string, value []byte) error {
	m.Messages = append(m.Messages, value)
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockMessagePublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}
