package auth

import (
	"errors"
	"net/http"

	"gachaactu/backend/internal/database"
	"gachaactu/backend/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RequireRole creates a gin middleware that only lets users holding one of roles through.
// It must be used AFTER the standard AuthMiddleware. The role is read from the
// database so a demotion takes effect before the token expires.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := UserID(c)
		if userID == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		var user models.User
		if err := database.DB.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authenticated user not found"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
			return
		}

		for _, role := range roles {
			if user.Role == role {
				c.Set(ContextRole, user.Role)
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
	}
}

// EditorMiddleware admits editors and admins.
func EditorMiddleware() gin.HandlerFunc {
	return RequireRole(models.RoleEditor, models.RoleAdmin)
}

// AdminMiddleware admits admins only.
func AdminMiddleware() gin.HandlerFunc {
	return RequireRole(models.RoleAdmin)
}
