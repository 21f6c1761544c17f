package handler

import (
	"bytes"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"gachaactu/backend/internal/database"
	"gachaactu/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGames(t *testing.T) {
	s := setupServer(t)
	_, token := s.createUser("editor", models.RoleEditor)

	genshin := s.createGame(token, "Genshin Impact", "PC", "Android", "android")
	require.Len(t, genshin.Platforms, 2)
	assert.Equal(t, "genshin-impact", genshin.Slug)

	w := s.do(http.MethodPost, "/api/admin/games", token, GameInput{
		Name:        "Wuthering Waves",
		Genre:       "Action RPG",
		Platforms:   []string{"PC", "iOS"},
		ReleaseDate: ptr(time.Date(2024, 5, 22, 0, 0, 0, 0, time.UTC)),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var platforms int64
	require.NoError(t, database.DB.Model(&models.Platform{}).Count(&platforms).Error)
	assert.Equal(t, int64(3), platforms, "PC is shared between both games")

	names := func(path string) []string {
		t.Helper()
		resp := decode[PaginatedResponse[GameResponse]](t, s.do(http.MethodGet, path, "", nil))
		out := []string{}
		for _, g := range resp.Data {
			out = append(out, g.Name)
		}
		return out
	}

	assert.Equal(t, []string{"Genshin Impact", "Wuthering Waves"}, names("/api/games"))
	assert.Equal(t, []string{"Wuthering Waves"}, names("/api/games?platform=ios"))
	assert.Equal(t, []string{"Wuthering Waves"}, names("/api/games?genre=action%20rpg"))
	assert.Equal(t, []string{"Genshin Impact"}, names("/api/games?q=genshin"))
	assert.Equal(t, []string{"Wuthering Waves", "Genshin Impact"}, names("/api/games?sort=newest"), "unknown release dates last")

	t.Run("DuplicateSlug", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/admin/games", token, GameInput{Name: "Genshin  Impact"})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("CountsPublishedContent", func(t *testing.T) {
		s.createArticle(token, ArticleInput{Title: "Genshin news", GameID: &genshin.ID})
		s.createArticle(token, ArticleInput{Title: "Genshin later", GameID: &genshin.ID, PublishedAt: ptr(time.Now().Add(time.Hour))})

		w := s.do(http.MethodGet, "/api/games/genshin-impact", "", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		game := decode[GameResponse](t, w)
		require.NotNil(t, game.ArticleCount)
		assert.Equal(t, int64(1), *game.ArticleCount)
		assert.Equal(t, int64(0), *game.GuideCount)
	})

	t.Run("DeleteDetachesContent", func(t *testing.T) {
		require.Equal(t, http.StatusOK, s.do(http.MethodDelete, "/api/admin/games/"+itoa(genshin.ID), token, nil).Code)
		assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/games/genshin-impact", "", nil).Code)

		var article models.Article
		require.NoError(t, database.DB.Where("slug = ?", "genshin-news").First(&article).Error)
		assert.Nil(t, article.GameID)
	})
}

func TestGamesCountFailureIsLogged(t *testing.T) {
	s := setupServer(t)

	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logs, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	require.NoError(t, database.DB.Migrator().DropTable(&models.GamePlatform{}))

	w := s.do(http.MethodGet, "/api/games?platform=pc", "", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to count games")
	assert.Contains(t, logs.String(), "Failed to count games")
}
