package auth

import "github.com/gin-gonic/gin"

// OptionalAuthMiddleware inspects for a token and sets the userID if present and valid,
// but does not fail if the token is missing or invalid.
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		Authenticate(c)
		c.Next()
	}
}
