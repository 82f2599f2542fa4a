package middleware

import (
	"github.com/gin-gonic/gin"

	"taskboard/internal/service"
)

// ClientIdentity attaches the calling-client identity to the request
// context so the service's rate limiter can key on it. The X-Client-ID
// header wins; the remote IP is the fallback. The tracked-identity
// ceiling in the limiter bounds abuse of spoofed header values.
func ClientIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Client-ID")
		if id == "" {
			id = c.ClientIP()
		}
		ctx := service.WithClient(c.Request.Context(), id)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
