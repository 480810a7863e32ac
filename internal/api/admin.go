package api

import (
	"net/http" // HTTP status codes

	"shared_pockets/internal/service" // Business operations

	"github.com/gin-gonic/gin" // Gin web framework
)

// ListCouplesHandler returns every couple, for admins
func ListCouplesHandler(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		couples, err := svc.ListAllCouples(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"couples": couples, "total": len(couples)})
	}
}
