package entity

import "fmt"

type BookingStatus string

const (
	BookingStatusPendingPayment BookingStatus = "pending_payment"
	BookingStatusConfirmed      BookingStatus = "confirmed"
	BookingStatusCancelled      BookingStatus = "cancelled"
)

// bookingTransitions is the guarded state machine. Payment confirmation from a
// gateway callback bypasses it on purpose, see BookingService.ConfirmPayment.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPendingPayment: {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed:      {BookingStatusCancelled},
	BookingStatusCancelled:      {},
}

func (s BookingStatus) IsValid() bool {
	_, ok := bookingTransitions[s]
	return ok
}

func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

func (s BookingStatus) IsTerminal() bool {
	return len(bookingTransitions[s]) == 0
}

func (s BookingStatus) String() string {
	return string(s)
}

func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid booking status: %s", s)
	}
	return status, nil
}

// Outcome maps a verification action to the user and property states it sets.
func (a VerificationAction) Outcome() (VerificationStatus, PropertyStatus, bool) {
	switch a {
	case VerificationApprove:
		return VerificationStatusVerified, PropertyStatusApproved, true
	case VerificationReject:
		return VerificationStatusRejected, PropertyStatusRejected, true
	default:
		return "", "", false
	}
}
