package handler

import (
	"net/http"
	"strings"

	"gachaactu/backend/internal/cache"
	"gachaactu/backend/internal/database"
	"gachaactu/backend/internal/models"
	"gachaactu/backend/internal/sanitize"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type SeoKeywordInput struct {
	Keyword string `json:"keyword" binding:"required,max=150" example:"genshin impact banner"`
}

type SeoKeywordResponse struct {
	ID      uint   `json:"id"`
	Keyword string `json:"keyword"`
}

// GetSeoKeywords godoc
// @Summary      List SEO keywords
// @Tags         admin-seo-keywords
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} SeoKeywordResponse
// @Router       /admin/seo-keywords [get]
func GetSeoKeywords(c *gin.Context) {
	var keywords []models.SeoKeyword
	if err := database.DB.Order("keyword ASC").Find(&keywords).Error; err != nil {
		internalError(c, err, "Failed to retrieve keywords")
		return
	}

	response := make([]SeoKeywordResponse, 0, len(keywords))
	for _, k := range keywords {
		response = append(response, SeoKeywordResponse{ID: k.ID, Keyword: k.Keyword})
	}
	c.JSON(http.StatusOK, response)
}

// CreateSeoKeyword godoc
// @Summary      Create an SEO keyword
// @Tags         admin-seo-keywords
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body SeoKeywordInput true "Keyword"
// @Success      201 {object} SeoKeywordResponse
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse "Keyword already exists"
// @Router       /admin/seo-keywords [post]
func CreateSeoKeyword(c *gin.Context) {
	var input SeoKeywordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	keyword := strings.ToLower(sanitize.Text(input.Keyword))
	if keyword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Keyword is empty"})
		return
	}

	var count int64
	if err := database.DB.Model(&models.SeoKeyword{}).Where("keyword = ?", keyword).Count(&count).Error; err != nil {
		internalError(c, err, "Failed to create keyword")
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Keyword already exists"})
		return
	}

	k := models.SeoKeyword{Keyword: keyword}
	if err := database.DB.Create(&k).Error; err != nil {
		writeError(c, err, "create keyword")
		return
	}
	c.JSON(http.StatusCreated, SeoKeywordResponse{ID: k.ID, Keyword: k.Keyword})
}

// DeleteSeoKeyword godoc
// @Summary      Delete an SEO keyword
// @Description  Detaches the keyword from every article before deleting it.
// @Tags         admin-seo-keywords
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Keyword ID"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse "Keyword not found"
// @Router       /admin/seo-keywords/{id} [delete]
func DeleteSeoKeyword(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var k models.SeoKeyword
		if err := tx.First(&k, id).Error; err != nil {
			return err
		}
		if err := tx.Where("seo_keyword_id = ?", id).Delete(&models.ArticleSeoKeyword{}).Error; err != nil {
			return err
		}
		// Hard delete so the keyword can be created again.
		return tx.Unscoped().Delete(&k).Error
	})
	if err != nil {
		lookupError(c, err, "Keyword not found")
		return
	}

	revalidate(cache.TagArticles)
	c.JSON(http.StatusOK, gin.H{"message": "Keyword deleted"})
}
