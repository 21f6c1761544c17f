package handler

import (
	"net/http"
	"testing"

	"gachaactu/backend/internal/cache"
	"gachaactu/backend/internal/maintenance"
	"gachaactu/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaintenanceMode(t *testing.T) {
	s := setupServer(t)
	_, adminToken := s.createUser("admin", models.RoleAdmin)
	_, editorToken := s.createUser("editor", models.RoleEditor)
	_, readerToken := s.createUser("reader", models.RoleUser)

	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/articles", "", nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodPut, "/api/admin/maintenance", editorToken, MaintenanceInput{Enabled: ptr(true)}).Code)

	w := s.do(http.MethodPut, "/api/admin/maintenance", adminToken, MaintenanceInput{Enabled: ptr(true), Message: "Patch day"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, decode[MaintenanceResponse](t, w).Enabled)

	t.Run("PublicAPIUnavailable", func(t *testing.T) {
		w := s.do(http.MethodGet, "/api/articles", "", nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.JSONEq(t, `{"error":"Service under maintenance","message":"Patch day","maintenance":true}`, w.Body.String())

		assert.Equal(t, http.StatusServiceUnavailable, s.do(http.MethodGet, "/api/articles", readerToken, nil).Code)
	})

	t.Run("PagesRedirect", func(t *testing.T) {
		w := s.do(http.MethodGet, "/games/genshin-impact", "", nil)
		assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
		assert.Equal(t, maintenance.NoticePath, w.Header().Get("Location"))
	})

	t.Run("StaffBypass", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/articles", editorToken, nil).Code)
		assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/admin/articles", editorToken, nil).Code)
	})

	t.Run("ExemptPaths", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/ping", "", nil).Code)
		assert.Equal(t, http.StatusServiceUnavailable, s.do(http.MethodGet, "/maintenance", "", nil).Code)

		w := s.do(http.MethodGet, "/api/maintenance", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"enabled":true,"message":"Patch day"}`, w.Body.String())
	})

	w = s.do(http.MethodPut, "/api/admin/maintenance", adminToken, MaintenanceInput{Enabled: ptr(false)})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/articles", "", nil).Code)

	t.Run("EnabledRequired", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPut, "/api/admin/maintenance", adminToken, MaintenanceInput{}).Code)
	})
}

func TestRevalidate(t *testing.T) {
	s := setupServer(t)
	_, adminToken := s.createUser("admin", models.RoleAdmin)
	_, editorToken := s.createUser("editor", models.RoleEditor)

	s.do(http.MethodGet, "/api/tags", "", nil)
	s.do(http.MethodGet, "/api/videos", "", nil)
	assert.Equal(t, "HIT", s.do(http.MethodGet, "/api/tags", "", nil).Header().Get(cache.HeaderCache))

	input := RevalidateInput{Tags: []string{cache.TagTags}}
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodPost, "/api/admin/revalidate", editorToken, input).Code)

	w := s.do(http.MethodPost, "/api/admin/revalidate", adminToken, input)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 1, decode[RevalidateResponse](t, w).Entries)

	assert.Equal(t, "MISS", s.do(http.MethodGet, "/api/tags", "", nil).Header().Get(cache.HeaderCache))
	assert.Equal(t, "HIT", s.do(http.MethodGet, "/api/videos", "", nil).Header().Get(cache.HeaderCache))

	w = s.do(http.MethodPost, "/api/admin/revalidate", adminToken, RevalidateInput{Tags: []string{"everything"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
