package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
)

func Test_statusFor(t *testing.T) {
	testCases := []struct {
		err  error
		want int
	}{
		{err: core.ErrNotFound, want: http.StatusNotFound},
		{err: core.ErrForbidden, want: http.StatusForbidden},
		{err: core.ErrInvalidState, want: http.StatusConflict},
		{err: core.ErrAlreadyReturned, want: http.StatusConflict},
		{err: core.ErrNoCopiesAvailable, want: http.StatusConflict},
		{err: core.ErrBookAvailable, want: http.StatusConflict},
		{err: core.ErrDuplicateReservation, want: http.StatusConflict},
		{err: core.ErrValidation, want: http.StatusBadRequest},
		{err: core.ErrTimeout, want: http.StatusServiceUnavailable},
		{err: fmt.Errorf("%w: %w", core.ErrInvariantViolation, core.ErrNotFound), want: http.StatusInternalServerError},
		{err: errors.New("disk on fire"), want: http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			assert.Equal(t, tc.want, statusFor(fmt.Errorf("wrapped: %w", tc.err)))
		})
	}
}
