package api

import (
	"shared_pockets/internal/middleware" // Auth, admin and logging middleware
	"shared_pockets/internal/service"    // Business operations
	"shared_pockets/internal/store"      // Storage interface
	"shared_pockets/internal/utils"      // Cache helpers

	"github.com/gin-gonic/gin" // Gin web framework
)

// RouterConfig carries the secrets the routes are guarded with
type RouterConfig struct {
	JWTSecret         string // Bearer token secret
	WebhookSecretHash string // Bcrypt hash of the webhook secret
}

// NewRouter registers every route on a fresh gin engine
func NewRouter(svc *service.Service, st store.Store, cache *utils.Cache, cfg RouterConfig) *gin.Engine {
	r := gin.New()                                    // Gin router instance
	r.Use(gin.Recovery(), middleware.RequestLogger()) // Recover panics and log requests

	// Identity provider webhook (shared secret)
	r.POST("/webhooks/identity", middleware.WebhookSecretMiddleware(cfg.WebhookSecretHash), IdentityWebhookHandler(svc))

	// Authenticated routes
	authed := r.Group("")
	authed.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	authed.GET("/me", CurrentUserHandler(svc))           // Current user
	authed.PUT("/me/address", UpdateAddressHandler(svc)) // Address change

	authed.GET("/couples/user/:userId", GetCoupleHandler(svc, cache)) // Couple lookup
	authed.POST("/couples", CreateCoupleHandler(svc, cache))          // Direct pairing

	authed.POST("/invites", GenerateInviteHandler(svc, cache))                // Generate code
	authed.GET("/invites/active/:userId", GetActiveInviteHandler(svc, cache)) // Active code
	authed.POST("/invites/redeem", RedeemInviteHandler(svc, cache))           // Redeem code

	authed.POST("/pockets", CreatePocketHandler(svc))       // Create pocket
	authed.GET("/pockets", ListPocketsHandler(svc))         // List pockets
	authed.PATCH("/pockets/:id", UpdatePocketHandler(svc))  // Update pocket
	authed.DELETE("/pockets/:id", DeletePocketHandler(svc)) // Delete pocket

	// Admin routes (protected, admin only)
	admin := r.Group("/admin")
	admin.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret), middleware.AdminOnlyMiddleware(st))
	admin.GET("/couples", ListCouplesHandler(svc)) // List couples endpoint

	return r
}
