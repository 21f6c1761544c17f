package handler

import (
	"fmt"
	"net/http"
	"time"

	"gachaactu/backend/internal/cache"
	"gachaactu/backend/internal/content"
	"gachaactu/backend/internal/database"
	"gachaactu/backend/internal/models"
	"gachaactu/backend/internal/sanitize"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type VideoInput struct {
	Title       string     `json:"title" binding:"required,max=255" example:"Genshin Impact 5.0 trailer"`
	URL         string     `json:"url" binding:"required" example:"https://www.youtube.com/watch?v=dQw4w9WgXcQ"`
	Description string     `json:"description" binding:"max=2000"`
	GameID      *uint      `json:"game_id"`
	PublishedAt *time.Time `json:"published_at"`
}

type VideoResponse struct {
	ID          uint         `json:"id"`
	Title       string       `json:"title"`
	VideoID     string       `json:"video_id"`
	URL         string       `json:"url"`
	EmbedURL    string       `json:"embed_url"`
	Description string       `json:"description"`
	Game        *GameSummary `json:"game,omitempty"`
	PublishedAt time.Time    `json:"published_at"`
}

func newVideoResponse(v models.YouTubeVideo) VideoResponse {
	return VideoResponse{
		ID:          v.ID,
		Title:       v.Title,
		VideoID:     v.VideoID,
		URL:         v.URL(),
		EmbedURL:    v.EmbedURL(),
		Description: v.Description,
		Game:        newGameSummary(v.Game),
		PublishedAt: v.PublishedAt,
	}
}

func listVideos(c *gin.Context, scopes ...func(*gorm.DB) *gorm.DB) {
	page, limit, offset := pageParams(c)

	base := func() *gorm.DB {
		db := database.DB.Model(&models.YouTubeVideo{}).Scopes(scopes...)
		db = search(db, c.Query("q"), "youtube_videos.title")
		return gameSlugFilter(db, "youtube_videos", c.Query("game"))
	}

	var totalItems int64
	if err := base().Count(&totalItems).Error; err != nil {
		internalError(c, err, "Failed to count videos")
		return
	}

	var videos []models.YouTubeVideo
	err := base().Preload("Game").
		Order("youtube_videos.published_at DESC, youtube_videos.id DESC").
		Offset(offset).Limit(limit).
		Find(&videos).Error
	if err != nil {
		internalError(c, err, "Failed to retrieve videos")
		return
	}

	response := make([]VideoResponse, 0, len(videos))
	for _, v := range videos {
		response = append(response, newVideoResponse(v))
	}
	c.JSON(http.StatusOK, NewPaginatedResponse(response, totalItems, page, limit))
}

// GetVideos godoc
// @Summary      List published YouTube videos
// @Tags         videos
// @Produce      json
// @Param        q     query string false "Search in title"
// @Param        game  query string false "Game slug"
// @Param        page  query int    false "Page number" default(1)
// @Param        limit query int    false "Items per page" default(12)
// @Success      200 {object} PaginatedResponse[VideoResponse]
// @Router       /videos [get]
func GetVideos(c *gin.Context) {
	listVideos(c, publishedBefore("youtube_videos", time.Now()))
}

// AdminGetVideos godoc
// @Summary      List all YouTube videos
// @Tags         admin-videos
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} PaginatedResponse[VideoResponse]
// @Router       /admin/videos [get]
func AdminGetVideos(c *gin.Context) {
	listVideos(c)
}

func saveVideo(video *models.YouTubeVideo, input VideoInput) error {
	title, err := requiredText("title", input.Title)
	if err != nil {
		return err
	}
	videoID, err := content.YouTubeID(input.URL)
	if err != nil {
		return errInvalidVideo
	}

	return database.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Unscoped().Model(&models.YouTubeVideo{}).
			Where("video_id = ? AND id <> ?", videoID, video.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: %s", errVideoTaken, videoID)
		}
		if err := ensureGame(tx, input.GameID); err != nil {
			return err
		}

		video.Title = title
		video.VideoID = videoID
		video.Description = sanitize.Text(input.Description)
		video.GameID = input.GameID
		video.PublishedAt = publishTime(input.PublishedAt)
		return tx.Omit("Game").Save(video).Error
	})
}

// CreateVideo godoc
// @Summary      Register a YouTube video
// @Description  Accepts a watch, short, embed or youtu.be URL, or a bare video id.
// @Tags         admin-videos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body VideoInput true "Video"
// @Success      201 {object} VideoResponse
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse "Video already registered"
// @Router       /admin/videos [post]
func CreateVideo(c *gin.Context) {
	var input VideoInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var video models.YouTubeVideo
	if err := saveVideo(&video, input); err != nil {
		writeError(c, err, "create video")
		return
	}

	revalidate(cache.TagVideos)
	respondVideo(c, http.StatusCreated, video.ID)
}

// UpdateVideo godoc
// @Summary      Update a YouTube video
// @Tags         admin-videos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int        true "Video ID"
// @Param        input body VideoInput true "Video"
// @Success      200 {object} VideoResponse
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Video not found"
// @Failure      409 {object} ErrorResponse "Video already registered"
// @Router       /admin/videos/{id} [put]
func UpdateVideo(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var video models.YouTubeVideo
	if err := database.DB.First(&video, id).Error; err != nil {
		lookupError(c, err, "Video not found")
		return
	}

	var input VideoInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := saveVideo(&video, input); err != nil {
		writeError(c, err, "update video")
		return
	}

	revalidate(cache.TagVideos)
	respondVideo(c, http.StatusOK, video.ID)
}

// DeleteVideo godoc
// @Summary      Delete a YouTube video
// @Tags         admin-videos
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Video ID"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse "Video not found"
// @Router       /admin/videos/{id} [delete]
func DeleteVideo(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	result := database.DB.Delete(&models.YouTubeVideo{}, id)
	if result.Error != nil {
		internalError(c, result.Error, "Failed to delete video")
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
		return
	}

	revalidate(cache.TagVideos)
	c.JSON(http.StatusOK, gin.H{"message": "Video deleted"})
}

func respondVideo(c *gin.Context, status int, id uint) {
	var video models.YouTubeVideo
	if err := database.DB.Preload("Game").First(&video, id).Error; err != nil {
		internalError(c, err, "Failed to reload video")
		return
	}
	c.JSON(status, newVideoResponse(video))
}
