package middleware

import (
	"net/http"
	"strings"

	"sdgconnect/config"
	"sdgconnect/internal/auth"

	"github.com/gin-gonic/gin"
)

// AuthRequired validates the bearer JWT and sets UserID, Email and IsAdmin in
// the request context.
func AuthRequired(cfg *config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := claimsFromHeader(cfg, c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No token provided"})
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuth sets identity fields when a valid token is present and proceeds
// anonymously otherwise. Used by endpoints that attach a user when one is
// logged in (public project list, offers, donations).
func OptionalAuth(cfg *config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, err := claimsFromHeader(cfg, c); err == nil {
			setClaims(c, claims)
		}
		c.Next()
	}
}

func claimsFromHeader(cfg *config.JWTConfig, c *gin.Context) (*auth.Claims, error) {
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, auth.ErrInvalidToken
	}
	return auth.ParseAccessToken(cfg, parts[1])
}

func setClaims(c *gin.Context, claims *auth.Claims) {
	c.Set("user_id", claims.UserID)
	c.Set("email", claims.Email)
	c.Set("is_admin", claims.IsAdmin)
	c.Set("claims", claims)
}

// GetUserID returns the authenticated user ID, or 0 when anonymous.
func GetUserID(c *gin.Context) uint {
	v, _ := c.Get("user_id")
	if v == nil {
		return 0
	}
	return v.(uint)
}

// GetUserIDPtr returns the authenticated user ID as a pointer, nil when
// anonymous. Used for optional ownership columns.
func GetUserIDPtr(c *gin.Context) *uint {
	if id := GetUserID(c); id != 0 {
		return &id
	}
	return nil
}
