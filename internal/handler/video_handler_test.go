package handler

import (
	"net/http"
	"testing"
	"time"

	"gachaactu/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVideos(t *testing.T) {
	s := setupServer(t)
	_, token := s.createUser("editor", models.RoleEditor)
	game := s.createGame(token, "Zenless Zone Zero")

	w := s.do(http.MethodPost, "/api/admin/videos", token, VideoInput{
		Title:  "Launch trailer",
		URL:    "https://youtu.be/dQw4w9WgXcQ?t=42",
		GameID: &game.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	video := decode[VideoResponse](t, w)
	assert.Equal(t, "dQw4w9WgXcQ", video.VideoID)
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", video.URL)
	assert.Equal(t, "https://www.youtube-nocookie.com/embed/dQw4w9WgXcQ", video.EmbedURL)

	t.Run("SameVideoDifferentURL", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/admin/videos", token, VideoInput{
			Title: "Again", URL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ&list=x",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("InvalidURL", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/admin/videos", token, VideoInput{Title: "Nope", URL: "https://vimeo.com/123"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("ScheduledHiddenPublicly", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/admin/videos", token, VideoInput{
			Title: "Teaser", URL: "aqz-KE-bpKQ", PublishedAt: ptr(time.Now().Add(time.Hour)),
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		public := decode[PaginatedResponse[VideoResponse]](t, s.do(http.MethodGet, "/api/videos", "", nil))
		require.Len(t, public.Data, 1)
		assert.Equal(t, "dQw4w9WgXcQ", public.Data[0].VideoID)

		admin := decode[PaginatedResponse[VideoResponse]](t, s.do(http.MethodGet, "/api/admin/videos", token, nil))
		assert.Len(t, admin.Data, 2)
	})

	t.Run("GameFilter", func(t *testing.T) {
		resp := decode[PaginatedResponse[VideoResponse]](t, s.do(http.MethodGet, "/api/videos?game=zenless-zone-zero", "", nil))
		require.Len(t, resp.Data, 1)
		require.NotNil(t, resp.Data[0].Game)
		assert.Equal(t, "zenless-zone-zero", resp.Data[0].Game.Slug)

		resp = decode[PaginatedResponse[VideoResponse]](t, s.do(http.MethodGet, "/api/videos?game=unknown", "", nil))
		assert.Empty(t, resp.Data)
	})

	t.Run("Delete", func(t *testing.T) {
		require.Equal(t, http.StatusOK, s.do(http.MethodDelete, "/api/admin/videos/"+itoa(video.ID), token, nil).Code)
		assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, "/api/admin/videos/"+itoa(video.ID), token, nil).Code)
	})
}
