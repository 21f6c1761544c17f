package auth

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"gachaactu/backend/internal/config"
	"gachaactu/backend/internal/database"
	"gachaactu/backend/internal/models"
	"gachaactu/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	prev := config.AppConfig
	config.AppConfig = &config.Config{JWTSecret: "test-secret", JWTTTL: time.Hour}
	t.Cleanup(func() { config.AppConfig = prev })

	database.OpenTest(t)

	r := gin.New()
	r.GET("/optional", OptionalAuthMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": UserID(c)})
	})
	admin := r.Group("/admin", AuthMiddleware(), EditorMiddleware())
	admin.GET("/content", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	admin.GET("/users", AdminMiddleware(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func createUser(t *testing.T, role string) (models.User, string) {
	t.Helper()
	user := models.User{Name: role + "-user", Email: role + "@example.com", PasswordHash: "x", Role: role}
	require.NoError(t, database.DB.Create(&user).Error)
	token, err := jwt.GenerateToken(user.ID, user.Role)
	require.NoError(t, err)
	return user, token
}

func do(r *gin.Engine, path string, mutate func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if mutate != nil {
		mutate(req)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func bearer(token string) func(*http.Request) {
	return func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+token) }
}

func TestAuthMiddleware(t *testing.T) {
	r := setup(t)
	_, editorToken := createUser(t, models.RoleEditor)
	_, adminToken := createUser(t, models.RoleAdmin)
	_, userToken := createUser(t, models.RoleUser)

	t.Run("MissingToken", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, do(r, "/admin/content", nil).Code)
	})

	t.Run("MalformedHeader", func(t *testing.T) {
		w := do(r, "/admin/content", func(req *http.Request) { req.Header.Set("Authorization", "Token abc") })
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("PlainUserForbidden", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, do(r, "/admin/content", bearer(userToken)).Code)
	})

	t.Run("EditorAllowedOnContent", func(t *testing.T) {
		assert.Equal(t, http.StatusNoContent, do(r, "/admin/content", bearer(editorToken)).Code)
	})

	t.Run("EditorForbiddenOnUsers", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, do(r, "/admin/users", bearer(editorToken)).Code)
	})

	t.Run("AdminAllowedEverywhere", func(t *testing.T) {
		assert.Equal(t, http.StatusNoContent, do(r, "/admin/users", bearer(adminToken)).Code)
	})

	t.Run("SessionCookie", func(t *testing.T) {
		w := do(r, "/admin/content", func(req *http.Request) {
			req.AddCookie(&http.Cookie{Name: SessionCookie, Value: adminToken})
		})
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("DeletedUser", func(t *testing.T) {
		ghost, token := createUser(t, models.RoleAdmin+"2")
		require.NoError(t, database.DB.Unscoped().Delete(&ghost).Error)
		assert.Equal(t, http.StatusUnauthorized, do(r, "/admin/content", bearer(token)).Code)
	})
}

func TestOptionalAuthMiddleware(t *testing.T) {
	r := setup(t)
	user, token := createUser(t, models.RoleUser)

	w := do(r, "/optional", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":0}`, w.Body.String())

	w = do(r, "/optional", bearer("garbage"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":0}`, w.Body.String())

	w = do(r, "/optional", bearer(token))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":`+strconv.FormatUint(uint64(user.ID), 10)+`}`, w.Body.String())
}
