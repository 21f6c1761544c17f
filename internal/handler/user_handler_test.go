package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"gachaactu/backend/internal/auth"
	"gachaactu/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.SessionCookie {
			return c
		}
	}
	return nil
}

func TestRegisterAndLogin(t *testing.T) {
	s := setupServer(t)

	w := s.do(http.MethodPost, "/api/auth/register", "", RegisterInput{
		Name: "paimon", Email: "Paimon@Example.com", Password: "emergency-food",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	registered := decode[TokenResponse](t, w)
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, models.RoleUser, registered.User.Role)
	assert.Equal(t, "paimon@example.com", registered.User.Email)

	t.Run("Duplicate", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/auth/register", "", RegisterInput{
			Name: "other", Email: "paimon@example.com", Password: "emergency-food",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("LoginByNameOrEmail", func(t *testing.T) {
		for _, login := range []string{"paimon", "PAIMON@example.com"} {
			w := s.do(http.MethodPost, "/api/auth/login", "", LoginInput{Login: login, Password: "emergency-food"})
			require.Equal(t, http.StatusOK, w.Code, login)
			cookie := sessionCookie(w)
			require.NotNil(t, cookie)
			assert.True(t, cookie.HttpOnly)
			assert.Equal(t, decode[TokenResponse](t, w).Token, cookie.Value)
		}
	})

	t.Run("EmailLoginIgnoresNames", func(t *testing.T) {
		// Created first so a name match would win on id order.
		s.createUser("zhongli@example.com", models.RoleUser)
		s.createUser("zhongli", models.RoleUser)

		w := s.do(http.MethodPost, "/api/auth/login", "", LoginInput{Login: "zhongli@example.com", Password: testPassword})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "zhongli", decode[TokenResponse](t, w).User.Name)
	})

	t.Run("NameWithAtSign", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/auth/register", "", RegisterInput{
			Name: "venti@mondstadt", Email: "venti@example.com", Password: "emergency-food",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("BadCredentials", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/auth/login", "", LoginInput{Login: "paimon", Password: "wrong-password"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		w = s.do(http.MethodPost, "/api/auth/login", "", LoginInput{Login: "nobody", Password: "wrong-password"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Me", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/auth/me", "", nil).Code)

		w := s.do(http.MethodGet, "/api/auth/me", registered.Token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "paimon", decode[UserResponse](t, w).Name)
	})

	t.Run("Logout", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/auth/logout", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		cookie := sessionCookie(w)
		require.NotNil(t, cookie)
		assert.Empty(t, cookie.Value)
		assert.Negative(t, cookie.MaxAge)
	})
}

func TestUserAdministration(t *testing.T) {
	s := setupServer(t)
	admin, adminToken := s.createUser("admin", models.RoleAdmin)
	_, editorToken := s.createUser("editor", models.RoleEditor)
	reader, readerToken := s.createUser("reader", models.RoleUser)

	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/api/admin/users", editorToken, nil).Code)

	list := decode[PaginatedResponse[UserResponse]](t, s.do(http.MethodGet, "/api/admin/users?role=user", adminToken, nil))
	require.Len(t, list.Data, 1)
	assert.Equal(t, "reader", list.Data[0].Name)

	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/api/admin/articles", readerToken, nil).Code)

	w := s.do(http.MethodPut, "/api/admin/users/"+itoa(reader.ID)+"/role", adminToken, RoleInput{Role: models.RoleEditor})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, models.RoleEditor, decode[UserResponse](t, w).Role)

	// The role is read from the database, so the old token now works.
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/admin/articles", readerToken, nil).Code)

	t.Run("CannotDemoteSelf", func(t *testing.T) {
		w := s.do(http.MethodPut, "/api/admin/users/"+itoa(admin.ID)+"/role", adminToken, RoleInput{Role: models.RoleUser})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("UnknownRole", func(t *testing.T) {
		w := s.do(http.MethodPut, "/api/admin/users/"+itoa(reader.ID)+"/role", adminToken, RoleInput{Role: "owner"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		w := s.do(http.MethodPut, "/api/admin/users/999/role", adminToken, RoleInput{Role: models.RoleEditor})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
