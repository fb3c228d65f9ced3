package middleware

import (
	"github.com/gin-gonic/gin"

	"tutor-service/internal/utils"
)

// AuthRequired resolves the caller's user ID from the JWT token, falling
// back to the X-User-ID header set by the gateway. Requests with neither
// are rejected.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := utils.GetUserIDFromToken(c)
		if err != nil {
			utils.UnauthorizedResponse(c, "Invalid or missing token")
			c.Abort()
			return
		}

		if userID == "" {
			userID = c.GetHeader("X-User-ID")
		}

		if userID == "" {
			utils.UnauthorizedResponse(c, "Token is required for this endpoint")
			c.Abort()
			return
		}

		c.Set("userID", userID)
		c.Next()
	}
}

// UserID returns the authenticated user ID stored by AuthRequired.
func UserID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
