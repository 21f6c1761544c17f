package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"gachaactu/backend/internal/cache"
	"gachaactu/backend/internal/config"
	"gachaactu/backend/internal/database"
	"gachaactu/backend/internal/models"
	"gachaactu/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "password123"

type testServer struct {
	t      *testing.T
	router *gin.Engine
}

func setupServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	prev := config.AppConfig
	config.AppConfig = &config.Config{JWTSecret: "test-secret", JWTTTL: time.Hour}
	t.Cleanup(func() { config.AppConfig = prev })

	database.OpenTest(t)
	cache.Default.Flush()
	t.Cleanup(cache.Default.Flush)
	require.NoError(t, RegisterValidators())

	r := gin.New()
	RegisterRoutes(r, time.Minute)
	return &testServer{t: t, router: r}
}

// createUser stores a user with role and returns a token for it.
func (s *testServer) createUser(name, role string) (models.User, string) {
	s.t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(s.t, err)

	user := models.User{Name: name, Email: name + "@example.com", PasswordHash: string(hash), Role: role}
	require.NoError(s.t, database.DB.Create(&user).Error)

	token, err := jwt.GenerateToken(user.ID, user.Role)
	require.NoError(s.t, err)
	return user, token
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func ptr[T any](v T) *T {
	return &v
}

func (s *testServer) createGame(token, name string, platforms ...string) GameResponse {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/admin/games", token, GameInput{Name: name, Genre: "RPG", Platforms: platforms})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[GameResponse](s.t, w)
}

func (s *testServer) createTag(token, name string) TagResponse {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/admin/tags", token, TagInput{Name: name})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[TagResponse](s.t, w)
}

func (s *testServer) createArticle(token string, input ArticleInput) ArticleResponse {
	s.t.Helper()
	if input.Category == "" {
		input.Category = "news"
	}
	if input.Content == "" {
		input.Content = "<p>Banner details for the next patch.</p>"
	}
	w := s.do(http.MethodPost, "/api/admin/articles", token, input)
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[ArticleResponse](s.t, w)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
