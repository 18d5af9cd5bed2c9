package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"trahy/booking-service/internal/app/booking/entity"
	"trahy/booking-service/internal/app/booking/infrastructure"
	"trahy/booking-service/internal/app/booking/repository"
	"trahy/pkg/logger"
	"trahy/pkg/metrics"
)

const (
	DefaultReplyAuthor = "Admin"
	SystemReplyAuthor  = "System"
)

// BookingService owns booking state transitions and the support thread.
type BookingService struct {
	bookingRepo repository.BookingRepository
	resolver    *PropertyResolver
	publisher   infrastructure.MessagePublisher
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	resolver *PropertyResolver,
	publisher infrastructure.MessagePublisher,
) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		resolver:    resolver,
		publisher:   publisher,
	}
}

// Create stores a new booking. A vehicle reference without a property
// reference makes a vehicle booking; a property reference (id or slug) makes a
// stay booking. Dates are stored as given.
func (s *BookingService) Create(ctx context.Context, guestID string, req *entity.CreateBookingRequest) (*entity.Booking, error) {
	if strings.TrimSpace(guestID) == "" {
		return nil, missing("guest id")
	}

	propertyRef := strings.TrimSpace(req.PropertyID)
	vehicleRef := strings.TrimSpace(req.VehicleID)

	now := time.Now().UTC()
	booking := &entity.Booking{
		GuestID:       guestID,
		Status:        entity.BookingStatusPendingPayment,
		PaymentStatus: entity.PaymentStatusUnpaid,
		CheckIn:       req.CheckIn,
		CheckOut:      req.CheckOut,
		Guests:        req.Guests,
		TotalPrice:    req.TotalPrice,
		AdminReplies:  []entity.AdminReply{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	switch {
	case propertyRef != "":
		propertyID, err := s.resolver.Resolve(ctx, propertyRef)
		if err != nil {
			return nil, err
		}
		booking.Kind = entity.BookingKindStay
		booking.PropertyID = propertyID
	case vehicleRef != "":
		booking.Kind = entity.BookingKindVehicle
		booking.VehicleID = vehicleRef
	default:
		return nil, missing("property or vehicle reference")
	}

	if req.Status != "" {
		status, err := entity.ParseBookingStatus(req.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMissingInput, err)
		}
		booking.Status = status
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, translate(err, "create booking")
	}

	metrics.BookingsCreated.WithLabelValues(string(booking.Kind)).Inc()
	s.publishBookingEvent(ctx, entity.EventBookingCreated, booking)

	return booking, nil
}

func (s *BookingService) Get(ctx context.Context, bookingID string) (*entity.Booking, error) {
	if strings.TrimSpace(bookingID) == "" {
		return nil, missing("booking id")
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, translate(err, "get booking")
	}

	return booking, nil
}

func (s *BookingService) ListByGuest(ctx context.Context, guestID string) ([]entity.Booking, error) {
	if strings.TrimSpace(guestID) == "" {
		return nil, missing("guest id")
	}

	bookings, err := s.bookingRepo.ListByGuest(ctx, guestID)
	if err != nil {
		return nil, translate(err, "list bookings")
	}

	return bookings, nil
}

// ListOpenTickets returns bookings waiting for an admin answer, oldest first.
func (s *BookingService) ListOpenTickets(ctx context.Context) ([]entity.Booking, error) {
	bookings, err := s.bookingRepo.ListOpenTickets(ctx)
	if err != nil {
		return nil, translate(err, "list open tickets")
	}

	return bookings, nil
}

// ListUnpaidCreatedBefore returns bookings still awaiting payment that were
// created before cutoff.
func (s *BookingService) ListUnpaidCreatedBefore(ctx context.Context, cutoff time.Time) ([]entity.Booking, error) {
	bookings, err := s.bookingRepo.ListPendingCreatedBefore(ctx, cutoff)
	if err != nil {
		return nil, translate(err, "list unpaid bookings")
	}

	return bookings, nil
}

// Cancel moves a booking to cancelled. Cancelling twice is reported as
// ErrAlreadyCancelled and leaves the document untouched.
func (s *BookingService) Cancel(ctx context.Context, bookingID string) (*entity.Booking, error) {
	booking, err := s.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.Status == entity.BookingStatusCancelled {
		metrics.BookingTransitions.WithLabelValues(string(entity.BookingStatusCancelled), "rejected").Inc()
		return nil, ErrAlreadyCancelled
	}
	if !booking.Status.CanTransitionTo(entity.BookingStatusCancelled) {
		metrics.BookingTransitions.WithLabelValues(string(entity.BookingStatusCancelled), "rejected").Inc()
		return nil, fmt.Errorf("%w: cannot cancel booking in status %q", ErrInvalidTransition, booking.Status)
	}

	now := time.Now().UTC()
	if err := s.bookingRepo.Cancel(ctx, bookingID, now); err != nil {
		err = translate(err, "cancel booking")
		metrics.BookingTransitions.WithLabelValues(string(entity.BookingStatusCancelled), transitionResult(err)).Inc()
		return nil, err
	}

	booking.Status = entity.BookingStatusCancelled
	booking.UpdatedAt = now

	metrics.BookingTransitions.WithLabelValues(string(entity.BookingStatusCancelled), "success").Inc()
	s.publishBookingEvent(ctx, entity.EventBookingCancelled, booking)

	return booking, nil
}

// ExpireUnpaid cancels a booking that is still pending_payment and unpaid.
// The store re-checks both conditions in the same update, so a payment
// confirmed after the booking was listed wins and ErrInvalidTransition is
// returned.
func (s *BookingService) ExpireUnpaid(ctx context.Context, bookingID string) (*entity.Booking, error) {
	if strings.TrimSpace(bookingID) == "" {
		return nil, missing("booking id")
	}

	if err := s.bookingRepo.ExpireUnpaid(ctx, bookingID, time.Now().UTC()); err != nil {
		err = translate(err, "expire booking")
		metrics.BookingTransitions.WithLabelValues(string(entity.BookingStatusCancelled), transitionResult(err)).Inc()
		return nil, err
	}

	metrics.BookingTransitions.WithLabelValues(string(entity.BookingStatusCancelled), "success").Inc()

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("booking_id", bookingID).Msg("Failed to reload expired booking")
		booking = &entity.Booking{ID: bookingID, Status: entity.BookingStatusCancelled}
	}
	s.publishBookingEvent(ctx, entity.EventBookingExpired, booking)

	return booking, nil
}

// ConfirmPayment marks a booking confirmed and paid whatever its current
// status, including cancelled. The gateway has already taken the money.
func (s *BookingService) ConfirmPayment(ctx context.Context, bookingID string) error {
	if strings.TrimSpace(bookingID) == "" {
		metrics.PaymentCallbacks.WithLabelValues("failed").Inc()
		return missing("booking id")
	}

	now := time.Now().UTC()
	if err := s.bookingRepo.ConfirmPayment(ctx, bookingID, now); err != nil {
		metrics.PaymentCallbacks.WithLabelValues("failed").Inc()
		return translate(err, "confirm payment")
	}

	metrics.PaymentCallbacks.WithLabelValues("success").Inc()
	s.publishCurrent(ctx, entity.EventPaymentConfirmed, bookingID)

	return nil
}

// Reply appends an admin message to the booking's thread and closes its
// ticket. The append is a single atomic store update.
func (s *BookingService) Reply(ctx context.Context, bookingID, message, author string) (*entity.AdminReply, error) {
	if strings.TrimSpace(bookingID) == "" {
		return nil, missing("booking id")
	}
	if strings.TrimSpace(message) == "" {
		return nil, missing("reply message")
	}
	if strings.TrimSpace(author) == "" {
		author = DefaultReplyAuthor
	}

	reply := entity.AdminReply{
		Message:   message,
		CreatedAt: time.Now().UTC(),
		AdminName: author,
	}

	if err := s.bookingRepo.AppendReply(ctx, bookingID, reply); err != nil {
		return nil, translate(err, "append reply")
	}

	metrics.BookingReplies.WithLabelValues("admin").Inc()
	s.publishCurrent(ctx, entity.EventBookingReplied, bookingID)

	return &reply, nil
}

// AmendDates overwrites the stay dates, closes the ticket and records a
// system reply describing the change, all in one update.
func (s *BookingService) AmendDates(ctx context.Context, bookingID, checkIn, checkOut string) (*entity.AdminReply, error) {
	if strings.TrimSpace(bookingID) == "" {
		return nil, missing("booking id")
	}
	if strings.TrimSpace(checkIn) == "" || strings.TrimSpace(checkOut) == "" {
		return nil, missing("check-in and check-out dates")
	}

	reply := entity.AdminReply{
		Message:   fmt.Sprintf("Booking dates changed: check-in %s, check-out %s.", checkIn, checkOut),
		CreatedAt: time.Now().UTC(),
		AdminName: SystemReplyAuthor,
	}

	if err := s.bookingRepo.AmendDates(ctx, bookingID, checkIn, checkOut, reply); err != nil {
		return nil, translate(err, "amend booking dates")
	}

	metrics.BookingReplies.WithLabelValues("system").Inc()
	s.publishCurrent(ctx, entity.EventBookingDatesAmended, bookingID)

	return &reply, nil
}

// OpenTicket flags a booking as waiting for an admin, e.g. for a date change.
func (s *BookingService) OpenTicket(ctx context.Context, bookingID, message string) error {
	if strings.TrimSpace(bookingID) == "" {
		return missing("booking id")
	}
	if strings.TrimSpace(message) == "" {
		return missing("ticket message")
	}

	if err := s.bookingRepo.OpenTicket(ctx, bookingID, message, time.Now().UTC()); err != nil {
		return translate(err, "open ticket")
	}

	s.publishCurrent(ctx, entity.EventTicketOpened, bookingID)
	return nil
}

func (s *BookingService) publishBookingEvent(ctx context.Context, eventType string, booking *entity.Booking) {
	event := entity.BookingEvent{
		EventType:     eventType,
		BookingID:     booking.ID,
		Kind:          booking.Kind,
		PropertyID:    booking.PropertyID,
		VehicleID:     booking.VehicleID,
		GuestID:       booking.GuestID,
		Status:        booking.Status,
		PaymentStatus: booking.PaymentStatus,
		Timestamp:     time.Now().UTC(),
	}

	publishEvent(ctx, s.publisher, booking.ID, eventType, event)
}

// publishCurrent reads the booking back after an update so the event carries
// the full document. A failed read still publishes the id alone.
func (s *BookingService) publishCurrent(ctx context.Context, eventType, bookingID string) {
	if s.publisher == nil {
		return
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("booking_id", bookingID).Str("event_type", eventType).Msg("Failed to reload booking for event")
		booking = &entity.Booking{ID: bookingID}
	}

	s.publishBookingEvent(ctx, eventType, booking)
}

func transitionResult(err error) string {
	if errors.Is(err, ErrInvalidTransition) {
		return "rejected"
	}
	return metrics.Result(err)
}
