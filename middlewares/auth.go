package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"seminarhub/utils"
)

// Authenticate rejects requests without a valid token and stores the caller's
// userId in the gin context for the handlers.
func Authenticate(c *gin.Context) {
	token := c.Request.Header.Get("Authorization")
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"message": "Not authorized.", "severity": utils.SeverityError,
		})
		return
	}

	userId, err := utils.VerifyToken(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"message": "Not authorized.", "severity": utils.SeverityError,
		})
		return
	}

	c.Set("userId", userId)
	c.Next()
}

// OptionalAuth stores the caller's userId when a valid token is present and
// lets the request through either way. Search uses it so anonymous callers
// still get page/event/comment results while booking results stay scoped to
// the authenticated owner.
func OptionalAuth(c *gin.Context) {
	if token := c.Request.Header.Get("Authorization"); token != "" {
		if userId, err := utils.VerifyToken(token); err == nil {
			c.Set("userId", userId)
		}
	}
	c.Next()
}
