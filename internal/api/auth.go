package api

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"shared_pockets/internal/service" // Business operations

	"github.com/gin-gonic/gin" // Gin web framework
)

// Identity provider event types
const (
	EventUserCreated = "user.created"
	EventUserUpdated = "user.updated"
	EventUserDeleted = "user.deleted"
)

// IdentityEvent is the webhook payload. Only the fields read below are bound.
type IdentityEvent struct {
	Type string            `json:"type" binding:"required,oneof=user.created user.updated user.deleted"` // Event type
	Data IdentityEventData `json:"data"`                                                                 // Affected user
}

// IdentityEventData is the user part of an identity event
type IdentityEventData struct {
	ID             string         `json:"id" binding:"required"` // External identity
	Username       string         `json:"username"`              // Optional username
	FirstName      string         `json:"first_name"`            // Given name
	LastName       string         `json:"last_name"`             // Family name
	EmailAddresses []EmailAddress `json:"email_addresses"`       // First one is primary
}

// EmailAddress is one entry of IdentityEventData.EmailAddresses
type EmailAddress struct {
	EmailAddress string `json:"email_address"` // Address
}

// Attributes narrows the event to what the user directory stores
func (d IdentityEventData) Attributes() service.IdentityAttributes {
	attrs := service.IdentityAttributes{
		ExternalID: d.ID,
		Username:   d.Username,
		Name:       strings.TrimSpace(d.FirstName + " " + d.LastName),
	}
	if len(d.EmailAddresses) > 0 {
		attrs.Email = d.EmailAddresses[0].EmailAddress // Primary email
	}
	return attrs
}

// IdentityWebhookHandler applies user lifecycle events from the identity provider
func IdentityWebhookHandler(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var event IdentityEvent // Bind JSON request to struct
		if err := c.ShouldBindJSON(&event); err != nil {
			// If binding fails, return bad request
			badRequest(c, "Invalid event")
			return
		}
		ctx := c.Request.Context()
		// Deletions only need the id
		if event.Type == EventUserDeleted {
			if err := svc.DeleteFromIdentityEvent(ctx, event.Data.ID); err != nil {
				respondError(c, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
			return
		}
		user, err := svc.UpsertFromIdentityEvent(ctx, event.Data.Attributes())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "User upserted", "user": user})
	}
}

// CurrentUserHandler returns the caller's user record, or null if none exists yet
func CurrentUserHandler(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := svc.ResolveCurrentUser(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user}) // null when no record
	}
}

// UpdateAddressRequest represents an address change
type UpdateAddressRequest struct {
	Address string `json:"address" binding:"required"` // New address
}

// UpdateAddressHandler sets the caller's postal address
func UpdateAddressHandler(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateAddressRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request")
			return
		}
		user, err := svc.UpdateAddress(c.Request.Context(), req.Address)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user})
	}
}
