package handler

import (
	"net/http"
	"net/url"

	"trahy/booking-service/internal/app/booking/service"
	"trahy/pkg/logger"

	"github.com/gin-gonic/gin"
)

// PaymentHandler receives the payment gateway's browser redirect. The user
// always lands on the booking status page; failures only add error=true.
type PaymentHandler struct {
	bookingService service.BookingServiceInterface
	successURL     string
}

func NewPaymentHandler(bookingService service.BookingServiceInterface, successURL string) *PaymentHandler {
	return &PaymentHandler{
		bookingService: bookingService,
		successURL:     successURL,
	}
}

func (h *PaymentHandler) Callback(c *gin.Context) {
	bookingID := c.Query("bookingId")

	err := h.bookingService.ConfirmPayment(c.Request.Context(), bookingID)
	if err != nil {
		logger.Ctx(c.Request.Context()).Warn().
			Err(err).
			Str("booking_id", bookingID).
			Msg("Payment confirmation failed")
	}

	c.Redirect(http.StatusFound, h.redirectURL(bookingID, err != nil))
}

func (h *PaymentHandler) redirectURL(bookingID string, failed bool) string {
	query := url.Values{}
	query.Set("bookingId", bookingID)
	if failed {
		query.Set("error", "true")
	}

	target, err := url.Parse(h.successURL)
	if err != nil {
		return h.successURL + "?" + query.Encode()
	}

	existing := target.Query()
	for key, values := range query {
		existing[key] = values
	}
	target.RawQuery = existing.Encode()

	return target.String()
}
