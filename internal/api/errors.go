package api

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes

	"shared_pockets/internal/domain" // Error taxonomy

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging
)

// fallbackMessage is shown for anything the table below does not know
const fallbackMessage = "Something went wrong. Please try again."

// errorMapping ties a domain error to its status and user-facing sentence
type errorMapping struct {
	err     error  // Sentinel from internal/domain
	status  int    // HTTP status
	message string // Friendly message; empty means use the error text
}

// errorTable is checked in order with errors.Is
var errorTable = []errorMapping{
	{domain.ErrUnauthenticated, http.StatusUnauthorized, "Please sign in to continue."},
	{domain.ErrUnauthorized, http.StatusForbidden, "You are not allowed to do that."},
	{domain.ErrNotFound, http.StatusNotFound, "We couldn't find that."},
	{domain.ErrInvalidCode, http.StatusBadRequest, "That code is invalid or has already been used."},
	{domain.ErrSelfPairing, http.StatusBadRequest, "You cannot connect with your own code."},
	{domain.ErrAlreadyExists, http.StatusConflict, "You are already connected to this partner."},
	{domain.ErrAlreadyPaired, http.StatusConflict, "You are already connected to a partner."},
	{domain.ErrCodeGenerationFailed, http.StatusServiceUnavailable, "Could not generate a code. Please try again."},
	{domain.ErrInvalidInput, http.StatusBadRequest, ""},
}

// classify returns the status, raw error text and friendly message for err
func classify(err error) (int, string, string) {
	for _, m := range errorTable {
		if !errors.Is(err, m.err) {
			continue
		}
		if m.message == "" {
			return m.status, err.Error(), err.Error() // Validation detail is already readable
		}
		return m.status, m.err.Error(), m.message
	}
	return http.StatusInternalServerError, "Internal server error", fallbackMessage
}

// respondError writes err as JSON; unexpected errors are logged
func respondError(c *gin.Context, err error) {
	status, raw, message := classify(err)
	if status == http.StatusInternalServerError {
		logrus.WithFields(logrus.Fields{
			"path":  c.FullPath(), // Route
			"error": err.Error(),  // Error message
		}).Error("Request failed")
	}
	c.JSON(status, gin.H{"error": raw, "message": message})
}

// badRequest rejects malformed input before it reaches the service
func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg, "message": msg})
}
