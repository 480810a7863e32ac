package api

import (
	"net/http" // HTTP status codes

	"shared_pockets/internal/domain"  // Importing domain models
	"shared_pockets/internal/service" // Business operations

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/shopspring/decimal" // Exact amounts
)

// CreatePocketRequest represents a new shared pocket
type CreatePocketRequest struct {
	Label       string           `json:"label" binding:"required"`                  // Display label
	Description string           `json:"description"`                               // Optional description
	Target      *decimal.Decimal `json:"target"`                                    // Optional target
	Value       *decimal.Decimal `json:"value"`                                     // Starting value, zero if omitted
	MemberIDs   []uint           `json:"member_ids" binding:"required,min=1,max=2"` // Members, caller included
}

// CreatePocketHandler creates a pocket for the caller and optionally their partner
func CreatePocketHandler(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreatePocketRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request")
			return
		}
		pocket, err := svc.CreatePocket(c.Request.Context(), service.PocketInput{
			Label:       req.Label,
			Description: req.Description,
			Target:      req.Target,
			Value:       req.Value,
			MemberIDs:   req.MemberIDs,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Pocket created", "pocket": pocket})
	}
}

// ListPocketsHandler returns pockets shared with any user_id in the query, or
// with the caller and their partner when none is given
func ListPocketsHandler(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDs, ok := uintQueryList(c, "user_id") // Repeated user_id parameters
		if !ok {
			badRequest(c, "Invalid user id")
			return
		}
		ctx := c.Request.Context()
		var (
			pockets []domain.Pocket
			err     error
		)
		if len(userIDs) == 0 {
			pockets, err = svc.ListMyPockets(ctx) // Caller plus partner
		} else {
			pockets, err = svc.ListPocketsForUsers(ctx, userIDs)
		}
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"pockets": pockets})
	}
}

// UpdatePocketHandler changes the label, description, target or value of a pocket
func UpdatePocketHandler(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		pocketID, ok := uintParam(c, "id") // Parse pocket id from path
		if !ok {
			badRequest(c, "Invalid pocket id")
			return
		}
		var update domain.PocketUpdate // Bind JSON request to struct
		if err := c.ShouldBindJSON(&update); err != nil {
			badRequest(c, "Invalid request")
			return
		}
		pocket, err := svc.UpdatePocket(c.Request.Context(), pocketID, update)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Pocket updated", "pocket": pocket})
	}
}

// DeletePocketHandler removes a pocket the caller belongs to
func DeletePocketHandler(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		pocketID, ok := uintParam(c, "id") // Parse pocket id from path
		if !ok {
			badRequest(c, "Invalid pocket id")
			return
		}
		if err := svc.DeletePocket(c.Request.Context(), pocketID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Pocket deleted", "pocket_id": pocketID})
	}
}
