package middleware

import (
	"net/http"

	"sdgconnect/internal/repository"

	"github.com/gin-gonic/gin"
)

// AdminRequired re-reads the user so that demotion or disabling takes effect
// immediately, rather than trusting the is_admin claim for the token lifetime.
// Must run after AuthRequired.
func AdminRequired(userRepo *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := GetUserID(c)
		if userID == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No token provided"})
			return
		}
		u, err := userRepo.GetByID(userID)
		if err != nil || u == nil || !u.IsAdmin || u.IsDisabled {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.Set("admin_user", u)
		c.Next()
	}
}
