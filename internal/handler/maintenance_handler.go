package handler

import (
	"net/http"
	"time"

	"gachaactu/backend/internal/auth"
	"gachaactu/backend/internal/cache"
	"gachaactu/backend/internal/logging"
	"gachaactu/backend/internal/maintenance"
	"gachaactu/backend/internal/models"
	"gachaactu/backend/internal/sanitize"

	"github.com/gin-gonic/gin"
)

type MaintenanceInput struct {
	Enabled *bool  `json:"enabled" binding:"required"`
	Message string `json:"message" binding:"max=1000" example:"Back at 18:00 UTC"`
}

type MaintenanceResponse struct {
	Enabled     bool      `json:"enabled"`
	Message     string    `json:"message"`
	UpdatedByID *uint     `json:"updated_by_id,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newMaintenanceResponse(s models.MaintenanceSettings) MaintenanceResponse {
	return MaintenanceResponse{
		Enabled:     s.Enabled,
		Message:     maintenance.NoticeMessage(s),
		UpdatedByID: s.UpdatedByID,
		UpdatedAt:   s.UpdatedAt,
	}
}

// GetMaintenanceStatus godoc
// @Summary      Maintenance status
// @Tags         maintenance
// @Produce      json
// @Success      200 {object} MaintenanceResponse
// @Router       /maintenance [get]
func GetMaintenanceStatus(c *gin.Context) {
	settings, err := maintenance.Load()
	if err != nil {
		internalError(c, err, "Failed to load maintenance settings")
		return
	}

	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, gin.H{
		"enabled": settings.Enabled,
		"message": maintenance.NoticeMessage(settings),
	})
}

// AdminGetMaintenance godoc
// @Summary      Read maintenance settings
// @Tags         admin-maintenance
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} MaintenanceResponse
// @Router       /admin/maintenance [get]
func AdminGetMaintenance(c *gin.Context) {
	settings, err := maintenance.Load()
	if err != nil {
		internalError(c, err, "Failed to load maintenance settings")
		return
	}
	c.JSON(http.StatusOK, newMaintenanceResponse(settings))
}

// UpdateMaintenance godoc
// @Summary      Toggle maintenance mode
// @Tags         admin-maintenance
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body MaintenanceInput true "Maintenance settings"
// @Success      200 {object} MaintenanceResponse
// @Failure      400 {object} ErrorResponse
// @Router       /admin/maintenance [put]
func UpdateMaintenance(c *gin.Context) {
	var input MaintenanceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	settings, err := maintenance.Save(*input.Enabled, sanitize.Text(input.Message), auth.UserID(c))
	if err != nil {
		internalError(c, err, "Failed to save maintenance settings")
		return
	}

	logging.FromContext(c).Info("maintenance mode updated", "enabled", settings.Enabled, "user_id", auth.UserID(c))
	c.JSON(http.StatusOK, newMaintenanceResponse(settings))
}

type RevalidateInput struct {
	Tags []string `json:"tags" binding:"required,min=1" example:"articles,guides"`
}

type RevalidateResponse struct {
	Tags    []string `json:"tags"`
	Entries int      `json:"entries"`
}

// Revalidate godoc
// @Summary      Revalidate cached pages
// @Description  Drops every cached response carrying one of the given tags.
// @Tags         admin-cache
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body RevalidateInput true "Tags"
// @Success      200 {object} RevalidateResponse
// @Failure      400 {object} ErrorResponse "Unknown tag"
// @Router       /admin/revalidate [post]
func Revalidate(c *gin.Context) {
	var input RevalidateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	for _, tag := range input.Tags {
		if !cache.IsTag(tag) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown tag: " + tag})
			return
		}
	}

	n := cache.Default.Revalidate(input.Tags...)
	c.JSON(http.StatusOK, RevalidateResponse{Tags: input.Tags, Entries: n})
}
