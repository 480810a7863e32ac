package api

import (
	"net/http" // HTTP status codes

	"shared_pockets/internal/domain"  // Importing domain models
	"shared_pockets/internal/service" // Business operations
	"shared_pockets/internal/utils"   // Cache helpers

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// GenerateInviteRequest asks for a new invite code
type GenerateInviteRequest struct {
	UserID uint `json:"user_id" binding:"required"` // Owner, must be the caller
}

// RedeemInviteRequest redeems a code on behalf of the caller
type RedeemInviteRequest struct {
	Code   string `json:"code" binding:"required"`    // Code as typed by the user
	UserID uint   `json:"user_id" binding:"required"` // Redeemer, must be the caller
}

// GenerateInviteHandler issues a new invite code for the caller
func GenerateInviteHandler(svc *service.Service, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req GenerateInviteRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request")
			return
		}
		ctx := c.Request.Context()
		code, err := svc.GenerateInviteCode(ctx, req.UserID)
		if err != nil {
			respondError(c, err)
			return
		}
		// The newest code becomes the active one
		if err := cache.Delete(ctx, utils.ActiveInviteKey(req.UserID)); err != nil {
			logrus.WithField("error", err.Error()).Warn("Failed to invalidate invite cache")
		}
		c.JSON(http.StatusCreated, gin.H{"code": code.Code, "invite": code})
	}
}

// GetActiveInviteHandler returns the owner's active invite code, or null
func GetActiveInviteHandler(svc *service.Service, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := uintParam(c, "userId") // Parse owner id from path
		if !ok {
			badRequest(c, "Invalid user id")
			return
		}
		ctx := c.Request.Context()
		cacheKey := utils.ActiveInviteKey(userID) // Cache key for the owner
		var cached domain.InviteCode
		// If found in cache, return it
		if found, err := cache.Get(ctx, cacheKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, gin.H{"invite": cached, "cached": true})
			return
		}
		version, verErr := cache.Version(ctx, cacheKey) // Taken before the read it guards
		code, err := svc.GetActiveInviteCode(ctx, userID)
		if err != nil {
			respondError(c, err)
			return
		}
		// Skipped if generate or redeem invalidated the key since the version read
		if code != nil && verErr == nil {
			_, _ = cache.SetIfVersion(ctx, cacheKey, version, code)
		}
		c.JSON(http.StatusOK, gin.H{"invite": code, "cached": false})
	}
}

// RedeemInviteHandler consumes a code and pairs the caller with its owner
func RedeemInviteHandler(svc *service.Service, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RedeemInviteRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request")
			return
		}
		couple, err := svc.RedeemInviteCode(c.Request.Context(), req.Code, req.UserID)
		if err != nil {
			respondError(c, err)
			return
		}
		invalidatePairing(c.Request.Context(), cache, couple)
		// Clients re-query the couple lookup to observe the pairing
		c.JSON(http.StatusOK, gin.H{"success": true, "couple": couple})
	}
}
