package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"gachaactu/backend/internal/cache"
	"gachaactu/backend/internal/database"
	"gachaactu/backend/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TagInput struct {
	Name string `json:"name" binding:"required,max=100" example:"Reroll"`
	Slug string `json:"slug" binding:"omitempty,max=100" example:"reroll"`
}

type TagResponse struct {
	ID        uint      `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
}

func newTagResponse(tag models.Tag) TagResponse {
	return TagResponse{
		ID:        tag.ID,
		CreatedAt: tag.CreatedAt,
		UpdatedAt: tag.UpdatedAt,
		Name:      tag.Name,
		Slug:      tag.Slug,
	}
}

func newTagResponses(tags []*models.Tag) []TagResponse {
	out := make([]TagResponse, 0, len(tags))
	for _, tag := range tags {
		if tag != nil {
			out = append(out, newTagResponse(*tag))
		}
	}
	return out
}

func saveTag(tag *models.Tag, input TagInput) error {
	name, err := requiredText("name", input.Name)
	if err != nil {
		return err
	}
	slug, err := resolveSlug(input.Slug, name)
	if err != nil {
		return err
	}

	return database.DB.Transaction(func(tx *gorm.DB) error {
		if err := ensureSlugFree[models.Tag](tx, slug, tag.ID); err != nil {
			return err
		}
		var count int64
		if err := tx.Unscoped().Model(&models.Tag{}).Where("name = ? AND id <> ?", name, tag.ID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: %s", errNameTaken, name)
		}

		tag.Name = name
		tag.Slug = slug
		return tx.Save(tag).Error
	})
}

// CreateTag godoc
// @Summary      Create a new tag
// @Description  Creates a new tag for articles and guides.
// @Tags         admin-tags
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body TagInput true "Tag Info"
// @Success      201  {object}  TagResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Admin access required"
// @Failure      409  {object}  ErrorResponse "Tag already exists"
// @Router       /admin/tags [post]
func CreateTag(c *gin.Context) {
	var input TagInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var tag models.Tag
	if err := saveTag(&tag, input); err != nil {
		writeError(c, err, "save tag")
		return
	}

	revalidate(cache.TagTags)
	c.JSON(http.StatusCreated, newTagResponse(tag))
}

// GetTags godoc
// @Summary      Get all tags
// @Description  Retrieves a list of all available tags, ordered by name.
// @Tags         tags
// @Produce      json
// @Success      200  {array}   TagResponse
// @Router       /tags [get]
func GetTags(c *gin.Context) {
	var tags []models.Tag
	if err := database.DB.Order("name").Find(&tags).Error; err != nil {
		internalError(c, err, "Failed to retrieve tags")
		return
	}

	response := make([]TagResponse, 0, len(tags))
	for _, tag := range tags {
		response = append(response, newTagResponse(tag))
	}
	c.JSON(http.StatusOK, response)
}

// UpdateTag godoc
// @Summary      Update a tag
// @Description  Updates the name and slug of an existing tag.
// @Tags         admin-tags
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int      true  "Tag ID"
// @Param        input body TagInput true "New Tag Info"
// @Success      200  {object}  TagResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Admin access required"
// @Failure      404  {object}  ErrorResponse "Tag not found"
// @Failure      409  {object}  ErrorResponse "Tag already exists"
// @Router       /admin/tags/{id} [put]
func UpdateTag(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var input TagInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var tag models.Tag
	if err := database.DB.First(&tag, id).Error; err != nil {
		lookupError(c, err, "Tag not found")
		return
	}

	if err := saveTag(&tag, input); err != nil {
		writeError(c, err, "save tag")
		return
	}

	revalidate(cache.TagTags, cache.TagArticles, cache.TagGuides)
	c.JSON(http.StatusOK, newTagResponse(tag))
}

// DeleteTag godoc
// @Summary      Delete a tag
// @Description  Deletes an existing tag and detaches it from articles and guides.
// @Tags         admin-tags
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Tag ID"
// @Success      200  {object}  MessageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Admin access required"
// @Failure      404  {object}  ErrorResponse "Tag not found"
// @Router       /admin/tags/{id} [delete]
func DeleteTag(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var tag models.Tag
		if err := tx.First(&tag, id).Error; err != nil {
			return err
		}
		if err := tx.Where("tag_id = ?", id).Delete(&models.ArticleTag{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM guide_tags WHERE tag_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&tag).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Tag not found"})
			return
		}
		internalError(c, err, "Failed to delete tag")
		return
	}

	revalidate(cache.TagTags, cache.TagArticles, cache.TagGuides)
	c.JSON(http.StatusOK, gin.H{"message": "Tag deleted"})
}
