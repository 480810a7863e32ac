package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes

	"shared_pockets/internal/domain"  // Importing domain models
	"shared_pockets/internal/service" // Business operations
	"shared_pockets/internal/utils"   // Cache helpers

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// CreateCoupleRequest represents a direct pairing request
type CreateCoupleRequest struct {
	UserAID uint `json:"user_a_id" binding:"required"` // Inviting user
	UserBID uint `json:"user_b_id" binding:"required"` // Invited user
}

// GetCoupleHandler returns the couple a user belongs to, or null
func GetCoupleHandler(svc *service.Service, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := uintParam(c, "userId") // Parse user id from path
		if !ok {
			badRequest(c, "Invalid user id")
			return
		}
		ctx := c.Request.Context()
		cacheKey := utils.CoupleKey(userID) // Cache key for the lookup
		var cached domain.Couple
		// If found in cache, return it
		if found, err := cache.Get(ctx, cacheKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, gin.H{"couple": cached, "cached": true})
			return
		}
		version, verErr := cache.Version(ctx, cacheKey) // Taken before the read it guards
		couple, err := svc.FindCoupleForUser(ctx, userID)
		if err != nil {
			respondError(c, err)
			return
		}
		// Couples are immutable, so only a hit is worth caching
		if couple != nil && verErr == nil {
			_, _ = cache.SetIfVersion(ctx, cacheKey, version, couple)
		}
		c.JSON(http.StatusOK, gin.H{"couple": couple, "cached": false})
	}
}

// CreateCoupleHandler pairs two users directly; the caller must be one of them
func CreateCoupleHandler(svc *service.Service, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateCoupleRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request")
			return
		}
		couple, err := svc.CreateCouple(c.Request.Context(), req.UserAID, req.UserBID)
		if err != nil {
			respondError(c, err)
			return
		}
		invalidatePairing(c.Request.Context(), cache, couple)
		c.JSON(http.StatusCreated, gin.H{"message": "Couple created", "couple": couple})
	}
}

// invalidatePairing drops every cached lookup a new couple makes stale
func invalidatePairing(ctx context.Context, cache *utils.Cache, couple *domain.Couple) {
	err := cache.Delete(ctx,
		utils.CoupleKey(couple.UserAID),       // Inviter's couple lookup
		utils.CoupleKey(couple.UserBID),       // Redeemer's couple lookup
		utils.ActiveInviteKey(couple.UserAID), // Inviter's code is no longer active
	)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"couple_id": couple.ID,
			"error":     err.Error(),
		}).Warn("Failed to invalidate pairing cache")
	}
}
