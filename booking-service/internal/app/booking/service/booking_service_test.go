package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"trahy/booking-service/internal/app/booking/entity"
	"trahy/booking-service/internal/app/booking/repository"
	"trahy/booking-service/internal/app/booking/repository/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newBookingFixture() (*BookingService, *mocks.MemoryBookingRepository, *mocks.MockPropertyRepository, *mocks.MockMessagePublisher) {
	bookingRepo := mocks.NewMemoryBookingRepository()
	propertyRepo := new(mocks.MockPropertyRepository)
	publisher := &mocks.MockMessagePublisher{Messages: make([][]byte, 0)}
	publisher.On("PublishMessage", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	propertyRepo.On("GetByID", mock.Anything, "prop-1").Return(&entity.Property{ID: "prop-1"}, nil)
	propertyRepo.On("GetByID", mock.Anything, "sunny-villa").Return(nil, repository.ErrPropertyNotFound)
	propertyRepo.On("FindIDBySlug", mock.Anything, "sunny-villa").Return("prop-1", nil)

	service := NewBookingService(bookingRepo, NewPropertyResolver(propertyRepo, nil), publisher)
	return service, bookingRepo, propertyRepo, publisher
}

func seedBooking(t *testing.T, repo *mocks.MemoryBookingRepository, status entity.BookingStatus) string {
	t.Helper()
	past := time.Now().UTC().Add(-time.Hour)
	booking := &entity.Booking{
		ID:            uuid.NewString(),
		Kind:          entity.BookingKindStay,
		PropertyID:    "prop-1",
		GuestID:       "guest-1",
		Status:        status,
		PaymentStatus: entity.PaymentStatusUnpaid,
		AdminReplies:  []entity.AdminReply{},
		CreatedAt:     past,
		UpdatedAt:     past,
	}
	require.NoError(t, repo.Create(context.Background(), booking))
	return booking.ID
}

func TestCreateBooking_StayBySlug(t *testing.T) {
	service, repo, _, publisher := newBookingFixture()
	ctx := context.Background()

	booking, err := service.Create(ctx, "guest-1", &entity.CreateBookingRequest{
		PropertyID: "sunny-villa",
		CheckIn:    "2026-07-01",
		CheckOut:   "2026-07-05",
		Guests:     2,
	})

	require.NoError(t, err)
	assert.Equal(t, entity.BookingKindStay, booking.Kind)
	assert.Equal(t, "prop-1", booking.PropertyID)
	assert.Equal(t, entity.BookingStatusPendingPayment, booking.Status)
	assert.Equal(t, entity.PaymentStatusUnpaid, booking.PaymentStatus)
	assert.NotNil(t, booking.AdminReplies)
	assert.False(t, booking.CreatedAt.IsZero())

	stored, err := repo.GetByID(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, "prop-1", stored.PropertyID)

	require.Len(t, publisher.Messages, 1)
	var event entity.BookingEvent
	require.NoError(t, json.Unmarshal(publisher.Messages[0], &event))
	assert.Equal(t, entity.EventBookingCreated, event.EventType)
}

func TestCreateBooking_Vehicle(t *testing.T) {
	service, _, propertyRepo, _ := newBookingFixture()

	booking, err := service.Create(context.Background(), "guest-1", &entity.CreateBookingRequest{
		VehicleID: "car-7",
		CheckIn:   "2026-07-01",
		CheckOut:  "2026-07-02",
	})

	require.NoError(t, err)
	assert.Equal(t, entity.BookingKindVehicle, booking.Kind)
	assert.Equal(t, "car-7", booking.VehicleID)
	assert.Empty(t, booking.PropertyID)
	propertyRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestCreateBooking_CallerStatus(t *testing.T) {
	service, _, _, _ := newBookingFixture()

	booking, err := service.Create(context.Background(), "guest-1", &entity.CreateBookingRequest{
		PropertyID: "prop-1",
		CheckIn:    "2026-07-01",
		CheckOut:   "2026-07-02",
		Status:     "confirmed",
	})

	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusConfirmed, booking.Status)
}

func TestCreateBooking_InvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		guestID string
		req     *entity.CreateBookingRequest
	}{
		{"no reference", "guest-1", &entity.CreateBookingRequest{CheckIn: "2026-07-01", CheckOut: "2026-07-02"}},
		{"no guest", "", &entity.CreateBookingRequest{PropertyID: "prop-1"}},
		{"unknown status", "guest-1", &entity.CreateBookingRequest{PropertyID: "prop-1", Status: "archived"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _, _, _ := newBookingFixture()
			_, err := service.Create(context.Background(), tt.guestID, tt.req)
			assert.ErrorIs(t, err, ErrMissingInput)
		})
	}
}

func TestCreateBooking_UnknownProperty(t *testing.T) {
	service, _, propertyRepo, _ := newBookingFixture()
	propertyRepo.On("GetByID", mock.Anything, "ghost").Return(nil, repository.ErrPropertyNotFound)
	propertyRepo.On("FindIDBySlug", mock.Anything, "ghost").Return("", repository.ErrPropertyNotFound)

	_, err := service.Create(context.Background(), "guest-1", &entity.CreateBookingRequest{PropertyID: "ghost"})

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCancelBooking_Twice(t *testing.T) {
	service, repo, _, _ := newBookingFixture()
	ctx := context.Background()
	id := seedBooking(t, repo, entity.BookingStatusPendingPayment)

	cancelled, err := service.Cancel(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusCancelled, cancelled.Status)

	first, err := repo.GetByID(ctx, id)
	require.NoError(t, err)

	_, err = service.Cancel(ctx, id)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.ErrorIs(t, err, ErrAlreadyCancelled)

	second, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, first.UpdatedAt, second.UpdatedAt)
}

func TestCancelBooking_Confirmed(t *testing.T) {
	service, repo, _, _ := newBookingFixture()
	id := seedBooking(t, repo, entity.BookingStatusConfirmed)

	booking, err := service.Cancel(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusCancelled, booking.Status)
}

func TestCancelBooking_NotFound(t *testing.T) {
	service, _, _, _ := newBookingFixture()

	_, err := service.Cancel(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCancelBooking_LostRace(t *testing.T) {
	bookingRepo := new(mocks.MockBookingRepository)
	service := NewBookingService(bookingRepo, nil, nil)
	ctx := context.Background()

	bookingRepo.On("GetByID", ctx, "b1").Return(&entity.Booking{ID: "b1", Status: entity.BookingStatusPendingPayment}, nil)
	bookingRepo.On("Cancel", ctx, "b1", mock.AnythingOfType("time.Time")).Return(repository.ErrBookingAlreadyCancelled)

	_, err := service.Cancel(ctx, "b1")

	assert.ErrorIs(t, err, ErrAlreadyCancelled)
}

func TestConfirmPayment_OverridesCancelled(t *testing.T) {
	service, repo, _, _ := newBookingFixture()
	ctx := context.Background()
	id := seedBooking(t, repo, entity.BookingStatusCancelled)

	require.NoError(t, service.ConfirmPayment(ctx, id))

	booking, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusConfirmed, booking.Status)
	assert.Equal(t, entity.PaymentStatusPaid, booking.PaymentStatus)
}

func TestConfirmPayment_Errors(t *testing.T) {
	service, _, _, _ := newBookingFixture()

	assert.ErrorIs(t, service.ConfirmPayment(context.Background(), ""), ErrMissingInput)
	assert.ErrorIs(t, service.ConfirmPayment(context.Background(), "missing"), ErrNotFound)
}

func TestConfirmPayment_StoreError(t *testing.T) {
	bookingRepo := new(mocks.MockBookingRepository)
	service := NewBookingService(bookingRepo, nil, nil)
	ctx := context.Background()

	bookingRepo.On("ConfirmPayment", ctx, "b1", mock.Anything).Return(errors.New("write concern"))

	assert.ErrorIs(t, service.ConfirmPayment(ctx, "b1"), ErrPersistence)
}

func TestReply_AppendsInOrder(t *testing.T) {
	service, repo, _, _ := newBookingFixture()
	ctx := context.Background()
	id := seedBooking(t, repo, entity.BookingStatusConfirmed)
	require.NoError(t, service.OpenTicket(ctx, id, "Can we arrive a day later?"))

	_, err := service.Reply(ctx, id, "Let me check.", "Alice")
	require.NoError(t, err)
	_, err = service.Reply(ctx, id, "Done.", "")
	require.NoError(t, err)

	booking, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	require.Len(t, booking.AdminReplies, 2)
	assert.Equal(t, "Let me check.", booking.AdminReplies[0].Message)
	assert.Equal(t, "Alice", booking.AdminReplies[0].AdminName)
	assert.Equal(t, "Done.", booking.AdminReplies[1].Message)
	assert.Equal(t, DefaultReplyAuthor, booking.AdminReplies[1].AdminName)
	assert.False(t, booking.HasOpenTicket)
}

func TestReply_Errors(t *testing.T) {
	service, repo, _, _ := newBookingFixture()
	id := seedBooking(t, repo, entity.BookingStatusConfirmed)

	_, err := service.Reply(context.Background(), id, "  ", "Alice")
	assert.ErrorIs(t, err, ErrMissingInput)

	_, err = service.Reply(context.Background(), "missing", "Hello", "Alice")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAmendDates_AppendsSystemReply(t *testing.T) {
	service, repo, _, _ := newBookingFixture()
	ctx := context.Background()
	id := seedBooking(t, repo, entity.BookingStatusConfirmed)
	require.NoError(t, service.OpenTicket(ctx, id, "Shift by one day please"))

	reply, err := service.AmendDates(ctx, id, "2026-07-02", "2026-07-06")
	require.NoError(t, err)
	assert.Equal(t, SystemReplyAuthor, reply.AdminName)

	booking, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "2026-07-02", booking.CheckIn)
	assert.Equal(t, "2026-07-06", booking.CheckOut)
	assert.False(t, booking.HasOpenTicket)
	require.Len(t, booking.AdminReplies, 1)
	assert.Contains(t, booking.AdminReplies[0].Message, "2026-07-02")
	assert.Equal(t, SystemReplyAuthor, booking.AdminReplies[0].AdminName)
}

func TestOpenTicket_ListedForAdmins(t *testing.T) {
	service, repo, _, _ := newBookingFixture()
	ctx := context.Background()
	id := seedBooking(t, repo, entity.BookingStatusConfirmed)
	seedBooking(t, repo, entity.BookingStatusConfirmed)

	require.NoError(t, service.OpenTicket(ctx, id, "Need a crib"))

	tickets, err := service.ListOpenTickets(ctx)
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, id, tickets[0].ID)
	assert.Equal(t, "Need a crib", tickets[0].TicketMessage)
}

func TestListUnpaidCreatedBefore(t *testing.T) {
	service, repo, _, _ := newBookingFixture()
	ctx := context.Background()
	pending := seedBooking(t, repo, entity.BookingStatusPendingPayment)
	seedBooking(t, repo, entity.BookingStatusConfirmed)

	bookings, err := service.ListUnpaidCreatedBefore(ctx, time.Now().UTC())

	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, pending, bookings[0].ID)
}

func TestBookingLifecycle_CreateConfirmCancel(t *testing.T) {
	service, repo, _, publisher := newBookingFixture()
	ctx := context.Background()

	created, err := service.Create(ctx, "guest-1", &entity.CreateBookingRequest{
		PropertyID: "prop-1",
		CheckIn:    "2026-08-10",
		CheckOut:   "2026-08-12",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusPendingPayment, created.Status)

	require.NoError(t, service.ConfirmPayment(ctx, created.ID))
	confirmed, err := service.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusConfirmed, confirmed.Status)
	assert.Equal(t, entity.PaymentStatusPaid, confirmed.PaymentStatus)

	cancelled, err := service.Cancel(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusCancelled, cancelled.Status)

	stored, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusCancelled, stored.Status)
	assert.Equal(t, entity.PaymentStatusPaid, stored.PaymentStatus)

	mine, err := service.ListByGuest(ctx, "guest-1")
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	assert.Len(t, publisher.Messages, 3)
}

func TestExpireUnpaid_CancelsPendingBooking(t *testing.T) {
	service, repo, _, publisher := newBookingFixture()
	ctx := context.Background()
	id := seedBooking(t, repo, entity.BookingStatusPendingPayment)

	booking, err := service.ExpireUnpaid(ctx, id)

	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusCancelled, booking.Status)

	require.Len(t, publisher.Messages, 1)
	var event entity.BookingEvent
	require.NoError(t, json.Unmarshal(publisher.Messages[0], &event))
	assert.Equal(t, entity.EventBookingExpired, event.EventType)
	assert.Equal(t, "guest-1", event.GuestID)
}

func TestExpireUnpaid_LeavesPaidBookingAlone(t *testing.T) {
	service, repo, _, publisher := newBookingFixture()
	ctx := context.Background()
	id := seedBooking(t, repo, entity.BookingStatusPendingPayment)
	require.NoError(t, service.ConfirmPayment(ctx, id))

	_, err := service.ExpireUnpaid(ctx, id)

	assert.ErrorIs(t, err, ErrInvalidTransition)
	stored, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusConfirmed, stored.Status)
	assert.Equal(t, entity.PaymentStatusPaid, stored.PaymentStatus)
	assert.Len(t, publisher.Messages, 1)
}

func TestExpireUnpaid_Errors(t *testing.T) {
	service, repo, _, _ := newBookingFixture()
	ctx := context.Background()
	cancelled := seedBooking(t, repo, entity.BookingStatusCancelled)

	_, err := service.ExpireUnpaid(ctx, "")
	assert.ErrorIs(t, err, ErrMissingInput)

	_, err = service.ExpireUnpaid(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = service.ExpireUnpaid(ctx, cancelled)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestBookingEvents_CarryStoredBooking(t *testing.T) {
	service, repo, _, publisher := newBookingFixture()
	ctx := context.Background()
	id := seedBooking(t, repo, entity.BookingStatusPendingPayment)

	require.NoError(t, service.ConfirmPayment(ctx, id))
	require.NoError(t, service.OpenTicket(ctx, id, "Late arrival"))
	_, err := service.Reply(ctx, id, "Noted.", "Alice")
	require.NoError(t, err)
	_, err = service.AmendDates(ctx, id, "2026-09-01", "2026-09-03")
	require.NoError(t, err)

	expected := []string{
		entity.EventPaymentConfirmed,
		entity.EventTicketOpened,
		entity.EventBookingReplied,
		entity.EventBookingDatesAmended,
	}
	require.Len(t, publisher.Messages, len(expected))
	for i, message := range publisher.Messages {
		var event entity.BookingEvent
		require.NoError(t, json.Unmarshal(message, &event))
		assert.Equal(t, expected[i], event.EventType)
		assert.Equal(t, id, event.BookingID)
		assert.Equal(t, entity.BookingKindStay, event.Kind)
		assert.Equal(t, "prop-1", event.PropertyID)
		assert.Equal(t, "guest-1", event.GuestID)
		assert.Equal(t, entity.PaymentStatusPaid, event.PaymentStatus)
	}
}

func TestBookingEvents_ReloadFailureStillPublishes(t *testing.T) {
	bookingRepo := new(mocks.MockBookingRepository)
	publisher := &mocks.MockMessagePublisher{Messages: make([][]byte, 0)}
	publisher.On("PublishMessage", mock.Anything, "b1", mock.Anything).Return(nil)
	service := NewBookingService(bookingRepo, nil, publisher)
	ctx := context.Background()

	bookingRepo.On("OpenTicket", ctx, "b1", "Help", mock.AnythingOfType("time.Time")).Return(nil)
	bookingRepo.On("GetByID", ctx, "b1").Return(nil, errors.New("read timeout"))

	require.NoError(t, service.OpenTicket(ctx, "b1", "Help"))

	require.Len(t, publisher.Messages, 1)
	var event entity.BookingEvent
	require.NoError(t, json.Unmarshal(publisher.Messages[0], &event))
	assert.Equal(t, "b1", event.BookingID)
	assert.Equal(t, entity.EventTicketOpened, event.EventType)
}
