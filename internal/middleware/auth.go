package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIKeyAuth guards admin endpoints with a shared key. Player identity is
// supplied by the transport and trusted, so there is no user auth here.
func APIKeyAuth(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("X-API-Key")
		if key == "" || key != apiKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid API key"})
			return
		}
		c.Next()
	}
}
