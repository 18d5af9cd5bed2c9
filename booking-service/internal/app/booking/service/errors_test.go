package service

import (
	"errors"
	"fmt"
	"testing"

	"trahy/booking-service/internal/app/booking/repository"

	"github.com/stretchr/testify/assert"
)

func TestTranslate(t *testing.T) {
	storeErr := errors.New("server selection timeout")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"property not found", repository.ErrPropertyNotFound, ErrNotFound},
		{"review not found", repository.ErrReviewNotFound, ErrNotFound},
		{"booking not found", fmt.Errorf("wrapped: %w", repository.ErrBookingNotFound), ErrNotFound},
		{"user not found", repository.ErrUserNotFound, ErrNotFound},
		{"already cancelled", repository.ErrBookingAlreadyCancelled, ErrAlreadyCancelled},
		{"no longer pending", repository.ErrBookingNotPending, ErrInvalidTransition},
		{"store failure", storeErr, ErrPersistence},
		{"taxonomy passes through", ErrMissingInput, ErrMissingInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, translate(tt.err, "do something"), tt.want)
		})
	}
}

func TestTranslate_KeepsCause(t *testing.T) {
	storeErr := errors.New("server selection timeout")

	err := translate(storeErr, "cancel booking")

	assert.ErrorIs(t, err, storeErr)
	assert.Contains(t, err.Error(), "failed to cancel booking")
	assert.Nil(t, translate(nil, "noop"))
}

func TestAlreadyCancelledIsInvalidTransition(t *testing.T) {
	assert.ErrorIs(t, ErrAlreadyCancelled, ErrInvalidTransition)
}
