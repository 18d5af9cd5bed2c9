package mocks

import (
	"context"
	"sync"
	"time"

	"trahy/booking-service/internal/app/booking/entity"
	"trahy/booking-service/internal/app/booking/repository"

	"github.com/google/uuid"
)

// MemoryBookingRepository keeps bookings in memory with the same conditional
// update rules as the Mongo implementation.
type MemoryBookingRepository struct {
	mu       sync.Mutex
	bookings map[string]*entity.Booking
}

var _ repository.BookingRepository = (*MemoryBookingRepository)(nil)

// NewMemoryBookingRepository returns an empty in-memory store.
func NewMemoryBookingRepository() *MemoryBookingRepository {
	return &MemoryBookingRepository{bookings: make(map[string]*entity.Booking)}
}

func (r *MemoryBookingRepository) Create(_ context.Context, booking *entity.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	stored := *booking
	r.bookings[booking.ID] = &stored
	return nil
}

func (r *MemoryBookingRepository) GetByID(_ context.Context, id string) (*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	copied := *booking
	copied.AdminReplies = append([]entity.AdminReply(nil), booking.AdminReplies...)
	return &copied, nil
}

func (r *MemoryBookingRepository) ListByGuest(_ context.Context, guestID string) ([]entity.Booking, error) {
	return r.filter(func(b *entity.Booking) bool { return b.GuestID == guestID }), nil
}

func (r *MemoryBookingRepository) ListOpenTickets(_ context.Context) ([]entity.Booking, error) {
	return r.filter(func(b *entity.Booking) bool { return b.HasOpenTicket }), nil
}

func (r *MemoryBookingRepository) ListPendingCreatedBefore(_ context.Context, before time.Time) ([]entity.Booking, error) {
	return r.filter(func(b *entity.Booking) bool {
		return b.Status == entity.BookingStatusPendingPayment && b.CreatedAt.Before(before)
	}), nil
}

func (r *MemoryBookingRepository) Cancel(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok {
		return repository.ErrBookingNotFound
	}
	if booking.Status == entity.BookingStatusCancelled {
		return repository.ErrBookingAlreadyCancelled
	}
	booking.Status = entity.BookingStatusCancelled
	booking.UpdatedAt = at
	return nil
}

func (r *MemoryBookingRepository) ExpireUnpaid(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok {
		return repository.ErrBookingNotFound
	}
	if booking.Status != entity.BookingStatusPendingPayment || booking.PaymentStatus == entity.PaymentStatusPaid {
		return repository.ErrBookingNotPending
	}
	booking.Status = entity.BookingStatusCancelled
	booking.UpdatedAt = at
	return nil
}

func (r *MemoryBookingRepository) ConfirmPayment(_ context.Context, id string, at time.Time) error {
	return r.update(id, func(b *entity.Booking) {
		b.Status = entity.BookingStatusConfirmed
		b.PaymentStatus = entity.PaymentStatusPaid
		b.UpdatedAt = at
	})
}

func (r *MemoryBookingRepository) AppendReply(_ context.Context, id string, reply entity.AdminReply) error {
	return r.update(id, func(b *entity.Booking) {
		b.AdminReplies = append(b.AdminReplies, reply)
		b.HasOpenTicket = false
		b.UpdatedAt = reply.CreatedAt
	})
}

func (r *MemoryBookingRepository) AmendDates(_ context.Context, id, checkIn, checkOut string, reply entity.AdminReply) error {
	return r.update(id, func(b *entity.Booking) {
		b.CheckIn = checkIn
		b.CheckOut = checkOut
		b.AdminReplies = append(b.AdminReplies, reply)
		b.HasOpenTicket = false
		b.UpdatedAt = reply.CreatedAt
	})
}

func (r *MemoryBookingRepository) OpenTicket(_ context.Context, id, message string, at time.Time) error {
	return r.update(id, func(b *entity.Booking) {
		b.HasOpenTicket = true
		b.TicketMessage = message
		b.UpdatedAt = at
	})
}

func (r *MemoryBookingRepository) update(id string, apply func(b *entity.Booking)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok {
		return repository.ErrBookingNotFound
	}
	apply(booking)
	return nil
}

func (r *MemoryBookingRepository) filter(keep func(b *entity.Booking) bool) []entity.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]entity.Booking, 0)
	for _, booking := range r.bookings {
		if keep(booking) {
			result = append(result, *booking)
		}
	}
	return result
}
