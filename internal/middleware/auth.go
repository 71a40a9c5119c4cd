package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/restaurant-reviews/backend/internal/auth"
)

// AuthMiddleware resolves the caller identity from the Authorization header
// ("Bearer <token>" or "JWT <token>") and attaches it to the request context.
// Handlers thread it into the engine as an explicit parameter.
func AuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
		if len(parts) != 2 || parts[1] == "" {
			c.String(http.StatusUnauthorized, "Access Denied")
			c.Abort()
			return
		}

		userID, err := auth.Parse(parts[1], secret)
		if err != nil {
			c.String(http.StatusUnauthorized, "Access Denied")
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}
