package maintenance

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gachaactu/backend/internal/cache"
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
	cache.Default.Flush()
	t.Cleanup(cache.Default.Flush)

	r := gin.New()
	r.Use(Middleware())
	r.GET(NoticePath, NoticePage)
	r.GET("/api/articles", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"data": []string{}}) })
	r.GET("/api/admin/articles", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/games/genshin", func(c *gin.Context) { c.String(http.StatusOK, "page") })
	return r
}

func get(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLoadCreatesDisabledSingleton(t *testing.T) {
	setup(t)

	settings, err := Load()
	require.NoError(t, err)
	assert.False(t, settings.Enabled)
	assert.Equal(t, uint(models.MaintenanceSettingsID), settings.ID)

	var count int64
	database.DB.Model(&models.MaintenanceSettings{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestSaveUpsertsAndRevalidates(t *testing.T) {
	setup(t)

	_, err := Load()
	require.NoError(t, err)

	saved, err := Save(true, "Back at 18:00", 7)
	require.NoError(t, err)
	require.NotNil(t, saved.UpdatedByID)

	settings, err := Load()
	require.NoError(t, err)
	assert.True(t, settings.Enabled)
	assert.Equal(t, "Back at 18:00", settings.Message)

	_, err = Save(false, "", 0)
	require.NoError(t, err)
	settings, err = Load()
	require.NoError(t, err)
	assert.False(t, settings.Enabled)

	var count int64
	database.DB.Model(&models.MaintenanceSettings{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestMiddleware(t *testing.T) {
	r := setup(t)

	t.Run("DisabledPassesThrough", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, get(r, "/api/articles", "").Code)
		assert.Equal(t, http.StatusOK, get(r, "/games/genshin", "").Code)
	})

	_, err := Save(true, "", 0)
	require.NoError(t, err)

	t.Run("APIGets503", func(t *testing.T) {
		w := get(r, "/api/articles", "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.JSONEq(t, `{"error":"Service under maintenance","message":"`+DefaultMessage+`","maintenance":true}`, w.Body.String())
	})

	t.Run("PagesRedirect", func(t *testing.T) {
		w := get(r, "/games/genshin", "")
		assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
		assert.Equal(t, NoticePath, w.Header().Get("Location"))
	})

	t.Run("NoticeServed", func(t *testing.T) {
		w := get(r, NoticePath, "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "undergoing maintenance")
	})

	t.Run("AdminRoutesExempt", func(t *testing.T) {
		assert.Equal(t, http.StatusNoContent, get(r, "/api/admin/articles", "").Code)
	})

	t.Run("EditorsBypass", func(t *testing.T) {
		token, err := jwt.GenerateToken(1, models.RoleEditor)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, get(r, "/api/articles", token).Code)

		token, err = jwt.GenerateToken(2, models.RoleUser)
		require.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, get(r, "/api/articles", token).Code)
	})
}

func TestExempt(t *testing.T) {
	assert.True(t, exempt("/api/admin"))
	assert.True(t, exempt("/api/auth/login"))
	assert.True(t, exempt("/swagger/index.html"))
	assert.False(t, exempt("/api/administrators"))
	assert.False(t, exempt("/api/articles"))
}
