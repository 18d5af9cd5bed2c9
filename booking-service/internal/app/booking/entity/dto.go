package entity

// CreateBookingRequest is the checkout payload. Exactly one of PropertyID and
// VehicleID is expected; PropertyID may be a slug.
type CreateBookingRequest struct {
	PropertyID string  `json:"propertyId"`
	VehicleID  string  `json:"vehicleId"`
	CheckIn    string  `json:"checkIn" validate:"required"`
	CheckOut   string  `json:"checkOut" validate:"required"`
	Guests     int     `json:"guests" validate:"omitempty,min=1"`
	TotalPrice float64 `json:"totalPrice" validate:"omitempty,min=0"`
	Status     string  `json:"status" validate:"omitempty,oneof=pending_payment confirmed cancelled"`
}

type OpenTicketRequest struct {
	Message string `json:"message" validate:"required,max=2000"`
}

type ReplyRequest struct {
	Message string `json:"message" validate:"required,max=2000"`
}

type AmendDatesRequest struct {
	CheckIn  string `json:"checkIn" validate:"required"`
	CheckOut string `json:"checkOut" validate:"required"`
}

type CreateReviewRequest struct {
	Rating float64 `json:"rating" validate:"required,min=1,max=5"`
	Text   string  `json:"text" validate:"required,max=2000"`
}

type EditReviewRequest struct {
	Rating float64 `json:"rating" validate:"required,min=1,max=5"`
	Text   string  `json:"text" validate:"required,max=2000"`
}

type VerificationDecisionRequest struct {
	Action string `json:"action" validate:"required,oneof=approve reject"`
	Remark string `json:"remark" validate:"max=1000"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type BookingListResponse struct {
	Bookings []Booking `json:"bookings"`
	Total    int       `json:"total"`
}

type ReviewListResponse struct {
	Reviews []Review      `json:"reviews"`
	Summary RatingSummary `json:"summary"`
}

type RoomListResponse struct {
	PropertyID string `json:"propertyId"`
	Rooms      []Room `json:"rooms"`
}
