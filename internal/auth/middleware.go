package auth

import (
	"net/http"
	"strings"

	"gachaactu/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// SessionCookie carries the token for browser clients.
const SessionCookie = "gacha_session"

// Context keys set by the auth middlewares.
const (
	ContextUserID = "userID"
	ContextRole   = "role"
)

// tokenFromRequest reads a bearer token, falling back to the session cookie.
func tokenFromRequest(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie
	}
	return ""
}

// Authenticate validates the request token and stores the user id and role in
// the context. It reports whether a valid token was found.
func Authenticate(c *gin.Context) bool {
	tokenString := tokenFromRequest(c)
	if tokenString == "" {
		return false
	}

	claims, err := jwt.ParseToken(tokenString)
	if err != nil {
		return false
	}
	userID, err := claims.UserID()
	if err != nil {
		return false
	}

	c.Set(ContextUserID, userID)
	c.Set(ContextRole, claims.Role)
	return true
}

// AuthMiddleware rejects requests without a valid token.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !Authenticate(c) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated user id, or 0.
func UserID(c *gin.Context) uint {
	return c.GetUint(ContextUserID)
}
