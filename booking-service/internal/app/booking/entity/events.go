package entity

import "time"

const (
	EventBookingCreated      = "BOOKING_CREATED"
	EventBookingCancelled    = "BOOKING_CANCELLED"
	EventBookingExpired      = "BOOKING_EXPIRED"
	EventPaymentConfirmed    = "PAYMENT_CONFIRMED"
	EventBookingReplied      = "BOOKING_REPLIED"
	EventBookingDatesAmended = "BOOKING_DATES_AMENDED"
	EventTicketOpened        = "BOOKING_TICKET_OPENED"

	EventReviewCreated = "REVIEW_CREATED"
	EventReviewUpdated = "REVIEW_UPDATED"
	EventReviewDeleted = "REVIEW_DELETED"

	EventPartnerVerified = "PARTNER_VERIFIED"
	EventPartnerRejected = "PARTNER_REJECTED"
)

type BookingEvent struct {
	EventType     string        `json:"event_type"`
	BookingID     string        `json:"booking_id"`
	Kind          BookingKind   `json:"kind,omitempty"`
	PropertyID    string        `json:"property_id,omitempty"`
	VehicleID     string        `json:"vehicle_id,omitempty"`
	GuestID       string        `json:"guest_id,omitempty"`
	Status        BookingStatus `json:"status,omitempty"`
	PaymentStatus PaymentStatus `json:"payment_status,omitempty"`
	Timestamp     time.Time     `json:"timestamp"`
}

type ReviewEvent struct {
	EventType     string    `json:"event_type"`
	ReviewID      string    `json:"review_id"`
	PropertyID    string    `json:"property_id"`
	AverageRating float64   `json:"average_rating"`
	ReviewCount   int       `json:"review_count"`
	Timestamp     time.Time `json:"timestamp"`
}

type VerificationEvent struct {
	EventType      string         `json:"event_type"`
	UserID         string         `json:"user_id"`
	Remark         string         `json:"remark,omitempty"`
	PropertyID     string         `json:"property_id,omitempty"`
	PropertyStatus PropertyStatus `json:"property_status,omitempty"`
	Timestamp      time.Time      `json:"timestamp"`
}
