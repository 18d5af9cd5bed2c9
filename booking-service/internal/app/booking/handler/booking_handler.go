package handler

import (
	"net/http"

	"trahy/booking-service/internal/app/booking/entity"
	"trahy/booking-service/internal/app/booking/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type BookingHandler struct {
	bookingService service.BookingServiceInterface
	validator      *validator.Validate
}

func NewBookingHandler(bookingService service.BookingServiceInterface) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		validator:      validator.New(),
	}
}

func (h *BookingHandler) CreateBooking(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req entity.CreateBookingRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	booking, err := h.bookingService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err, "Failed to create booking")
		return
	}

	c.JSON(http.StatusCreated, booking)
}

func (h *BookingHandler) ListMyBookings(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	bookings, err := h.bookingService.ListByGuest(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to list bookings")
		return
	}

	respondBookings(c, bookings)
}

func (h *BookingHandler) GetBooking(c *gin.Context) {
	booking, ok := h.loadOwned(c, true)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, booking)
}

func (h *BookingHandler) CancelBooking(c *gin.Context) {
	if _, ok := h.loadOwned(c, true); !ok {
		return
	}

	booking, err := h.bookingService.Cancel(c.Request.Context(), c.Param("booking_id"))
	if err != nil {
		respondError(c, err, "Failed to cancel booking")
		return
	}

	c.JSON(http.StatusOK, booking)
}

// OpenTicket lets the guest ask support about a booking, e.g. to move dates.
func (h *BookingHandler) OpenTicket(c *gin.Context) {
	var req entity.OpenTicketRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	if _, ok := h.loadOwned(c, false); !ok {
		return
	}

	if err := h.bookingService.OpenTicket(c.Request.Context(), c.Param("booking_id"), req.Message); err != nil {
		respondError(c, err, "Failed to open ticket")
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Ticket opened"})
}

func (h *BookingHandler) Reply(c *gin.Context) {
	var req entity.ReplyRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	reply, err := h.bookingService.Reply(c.Request.Context(), c.Param("booking_id"), req.Message, c.GetString("name"))
	if err != nil {
		respondError(c, err, "Failed to send reply")
		return
	}

	c.JSON(http.StatusCreated, reply)
}

func (h *BookingHandler) AmendDates(c *gin.Context) {
	var req entity.AmendDatesRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	reply, err := h.bookingService.AmendDates(c.Request.Context(), c.Param("booking_id"), req.CheckIn, req.CheckOut)
	if err != nil {
		respondError(c, err, "Failed to change booking dates")
		return
	}

	c.JSON(http.StatusOK, reply)
}

func (h *BookingHandler) ListOpenTickets(c *gin.Context) {
	bookings, err := h.bookingService.ListOpenTickets(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list tickets")
		return
	}

	respondBookings(c, bookings)
}

// loadOwned fetches the booking in the path and checks that the caller owns
// it. Admins pass when allowAdmin is set.
func (h *BookingHandler) loadOwned(c *gin.Context, allowAdmin bool) (*entity.Booking, bool) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil, false
	}

	booking, err := h.bookingService.Get(c.Request.Context(), c.Param("booking_id"))
	if err != nil {
		respondError(c, err, "Failed to get booking")
		return nil, false
	}

	if booking.GuestID != userID && !(allowAdmin && isAdmin(c)) {
		respondError(c, service.ErrForbidden, "Access denied")
		return nil, false
	}

	return booking, true
}

func respondBookings(c *gin.Context, bookings []entity.Booking) {
	if bookings == nil {
		bookings = []entity.Booking{}
	}

	c.JSON(http.StatusOK, entity.BookingListResponse{
		Bookings: bookings,
		Total:    len(bookings),
	})
}
