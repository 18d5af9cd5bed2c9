package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingStatus_Transitions(t *testing.T) {
	tests := []struct {
		from, to BookingStatus
		allowed  bool
	}{
		{BookingStatusPendingPayment, BookingStatusConfirmed, true},
		{BookingStatusPendingPayment, BookingStatusCancelled, true},
		{BookingStatusConfirmed, BookingStatusCancelled, true},
		{BookingStatusConfirmed, BookingStatusPendingPayment, false},
		{BookingStatusCancelled, BookingStatusConfirmed, false},
		{BookingStatusCancelled, BookingStatusCancelled, false},
		{BookingStatus("unknown"), BookingStatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestBookingStatus_IsTerminal(t *testing.T) {
	assert.True(t, BookingStatusCancelled.IsTerminal())
	assert.False(t, BookingStatusPendingPayment.IsTerminal())
	assert.False(t, BookingStatusConfirmed.IsTerminal())
}

func TestParseBookingStatus(t *testing.T) {
	status, err := ParseBookingStatus("confirmed")
	assert.NoError(t, err)
	assert.Equal(t, BookingStatusConfirmed, status)

	_, err = ParseBookingStatus("refunded")
	assert.Error(t, err)
}

func TestVerificationAction_Outcome(t *testing.T) {
	user, property, ok := VerificationApprove.Outcome()
	assert.True(t, ok)
	assert.Equal(t, VerificationStatusVerified, user)
	assert.Equal(t, PropertyStatusApproved, property)

	user, property, ok = VerificationReject.Outcome()
	assert.True(t, ok)
	assert.Equal(t, VerificationStatusRejected, user)
	assert.Equal(t, PropertyStatusRejected, property)

	_, _, ok = VerificationAction("suspend").Outcome()
	assert.False(t, ok)
}

func TestReview_RatingValue(t *testing.T) {
	four := 4.0
	assert.Equal(t, 4.0, Review{Rating: &four}.RatingValue())
	assert.Equal(t, 0.0, Review{}.RatingValue())
}
