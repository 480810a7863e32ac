package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"shared_pockets/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"unauthenticated", domain.ErrUnauthenticated, http.StatusUnauthorized, "Please sign in to continue."},
		{"unauthorized", domain.ErrUnauthorized, http.StatusForbidden, "You are not allowed to do that."},
		{"not found", domain.ErrNotFound, http.StatusNotFound, "We couldn't find that."},
		{"invalid code wrapped", fmt.Errorf("service.RedeemInviteCode: %w", domain.ErrInvalidCode), http.StatusBadRequest, "That code is invalid or has already been used."},
		{"self pairing", domain.ErrSelfPairing, http.StatusBadRequest, "You cannot connect with your own code."},
		{"already exists", domain.ErrAlreadyExists, http.StatusConflict, "You are already connected to this partner."},
		{"already paired", domain.ErrAlreadyPaired, http.StatusConflict, "You are already connected to a partner."},
		{"generation failed", domain.ErrCodeGenerationFailed, http.StatusServiceUnavailable, "Could not generate a code. Please try again."},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError, fallbackMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _, message := classify(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.message, message)
		})
	}
}

func TestClassifyKeepsSentinelText(t *testing.T) {
	_, raw, _ := classify(fmt.Errorf("service.RedeemInviteCode: %w", domain.ErrInvalidCode))
	assert.Equal(t, domain.ErrInvalidCode.Error(), raw)

	invalid := fmt.Errorf("%w: label is required", domain.ErrInvalidInput)
	status, raw, message := classify(invalid)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, invalid.Error(), raw)
	assert.Equal(t, invalid.Error(), message)
}
