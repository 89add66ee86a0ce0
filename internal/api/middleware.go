package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RequireIdentity rejects requests that carry no valid caller identity.
// Identity arrives as a bearer token which must match the configured
// admin token; the service trusts the caller beyond that check.
func RequireIdentity(adminToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" || token != adminToken {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "caller identity required",
			})
			return
		}
		c.Next()
	}
}
