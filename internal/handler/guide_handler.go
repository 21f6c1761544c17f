package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"gachaactu/backend/internal/auth"
	"gachaactu/backend/internal/cache"
	"gachaactu/backend/internal/content"
	"gachaactu/backend/internal/database"
	"gachaactu/backend/internal/models"
	"gachaactu/backend/internal/sanitize"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// region --- DTOs ---

type GuideSectionInput struct {
	Title   string `json:"title" binding:"required,max=255" example:"Best teams"`
	Content string `json:"content"`
}

type GuideInput struct {
	Title       string              `json:"title" binding:"required,max=255" example:"Reroll guide for beginners"`
	Slug        string              `json:"slug" binding:"omitempty,max=255"`
	Summary     string              `json:"summary" binding:"max=1000"`
	Difficulty  string              `json:"difficulty" binding:"required,oneof=beginner intermediate advanced" example:"beginner"`
	Type        string              `json:"type" binding:"required,oneof=beginner character team farming event reroll" example:"reroll"`
	ImageURL    string              `json:"image_url" binding:"omitempty,url,max=512"`
	PublishedAt *time.Time          `json:"published_at"`
	GameID      *uint               `json:"game_id"`
	TagIDs      []uint              `json:"tag_ids"`
	Sections    []GuideSectionInput `json:"sections" binding:"required,min=1,dive"`
}

type GuideSectionResponse struct {
	Position int    `json:"position"`
	Title    string `json:"title"`
	Content  string `json:"content"`
}

type GuideResponse struct {
	ID          uint                   `json:"id"`
	Title       string                 `json:"title"`
	Slug        string                 `json:"slug"`
	Summary     string                 `json:"summary"`
	Difficulty  string                 `json:"difficulty"`
	Type        string                 `json:"type"`
	ImageURL    string                 `json:"image_url"`
	PublishedAt time.Time              `json:"published_at"`
	ReadingTime int                    `json:"reading_time"`
	Author      *AuthorResponse        `json:"author,omitempty"`
	Game        *GameSummary           `json:"game,omitempty"`
	Tags        []TagResponse          `json:"tags"`
	Sections    []GuideSectionResponse `json:"sections,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

func newGuideResponse(g models.Guide, withSections bool) GuideResponse {
	resp := GuideResponse{
		ID:          g.ID,
		Title:       g.Title,
		Slug:        g.Slug,
		Summary:     g.Summary,
		Difficulty:  string(g.Difficulty),
		Type:        string(g.Type),
		ImageURL:    g.ImageURL,
		PublishedAt: g.PublishedAt,
		Author:      newAuthorResponse(g.Author),
		Game:        newGameSummary(g.Game),
		Tags:        newTagResponses(g.Tags),
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}

	var body strings.Builder
	for _, s := range g.Sections {
		body.WriteString(s.Content)
		body.WriteString(" ")
		if withSections {
			resp.Sections = append(resp.Sections, GuideSectionResponse{
				Position: s.Position,
				Title:    s.Title,
				Content:  s.Content,
			})
		}
	}
	resp.ReadingTime = content.ReadingTime(body.String())
	return resp
}

// endregion

type guideFilter struct {
	Query      string
	Game       string
	Difficulty string
	Type       string
	Tags       []string
}

func (f guideFilter) apply(db *gorm.DB) *gorm.DB {
	db = search(db, f.Query, "guides.title", "guides.summary")
	if f.Difficulty != "" {
		db = db.Where("guides.difficulty = ?", f.Difficulty)
	}
	if f.Type != "" {
		db = db.Where("guides.type = ?", f.Type)
	}
	db = gameSlugFilter(db, "guides", f.Game)
	return tagSlugFilter(db, "guides", "guide_tags", "guide_id", f.Tags)
}

var guideSorts = map[string]string{
	"newest": "guides.published_at DESC, guides.id DESC",
	"oldest": "guides.published_at ASC, guides.id ASC",
	"title":  "guides.title ASC, guides.id ASC",
}

func orderedSections(db *gorm.DB) *gorm.DB {
	return db.Order("guide_sections.position ASC")
}

func listGuides(c *gin.Context, scopes ...func(*gorm.DB) *gorm.DB) {
	page, limit, offset := pageParams(c)
	order, ok := guideSorts[c.DefaultQuery("sort", "newest")]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sort"})
		return
	}
	filter := guideFilter{
		Query:      c.Query("q"),
		Game:       c.Query("game"),
		Difficulty: c.Query("difficulty"),
		Type:       c.Query("type"),
		Tags:       splitCommaSeparated(c.Query("tag")),
	}

	var totalItems int64
	if err := filter.apply(database.DB.Model(&models.Guide{}).Scopes(scopes...)).Count(&totalItems).Error; err != nil {
		internalError(c, err, "Failed to count guides")
		return
	}

	var guides []models.Guide
	err := filter.apply(database.DB.Model(&models.Guide{}).Scopes(scopes...)).
		Preload("Tags").Preload("Game").Preload("Author").
		Preload("Sections", orderedSections).
		Order(order).
		Offset(offset).Limit(limit).
		Find(&guides).Error
	if err != nil {
		internalError(c, err, "Failed to retrieve guides")
		return
	}

	response := make([]GuideResponse, 0, len(guides))
	for _, g := range guides {
		response = append(response, newGuideResponse(g, false))
	}
	c.JSON(http.StatusOK, NewPaginatedResponse(response, totalItems, page, limit))
}

func preloadGuide(db *gorm.DB) *gorm.DB {
	return db.Preload("Tags").Preload("Game").Preload("Author").Preload("Sections", orderedSections)
}

// GetGuides godoc
// @Summary      List published guides
// @Tags         guides
// @Produce      json
// @Param        q          query string false "Search in title and summary"
// @Param        game       query string false "Game slug"
// @Param        difficulty query string false "beginner, intermediate or advanced"
// @Param        type       query string false "beginner, character, team, farming, event or reroll"
// @Param        tag        query string false "Comma-separated tag slugs (any of)"
// @Param        sort       query string false "newest (default), oldest or title"
// @Param        page       query int    false "Page number" default(1)
// @Param        limit      query int    false "Items per page" default(12)
// @Success      200 {object} PaginatedResponse[GuideResponse]
// @Router       /guides [get]
func GetGuides(c *gin.Context) {
	listGuides(c, publishedBefore("guides", time.Now()))
}

// GetGuideBySlug godoc
// @Summary      Get a published guide with its sections
// @Tags         guides
// @Produce      json
// @Param        slug path string true "Guide slug"
// @Param        preview query bool false "Editors only: include scheduled content"
// @Success      200 {object} GuideResponse
// @Failure      404 {object} ErrorResponse "Guide not found"
// @Router       /guides/{slug} [get]
func GetGuideBySlug(c *gin.Context) {
	var guide models.Guide
	err := preloadGuide(database.DB).
		Scopes(visibleScope(c, "guides")).
		Where("guides.slug = ?", c.Param("slug")).
		First(&guide).Error
	if err != nil {
		lookupError(c, err, "Guide not found")
		return
	}
	c.JSON(http.StatusOK, newGuideResponse(guide, true))
}

// AdminGetGuides godoc
// @Summary      List all guides, scheduled ones included
// @Tags         admin-guides
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} PaginatedResponse[GuideResponse]
// @Router       /admin/guides [get]
func AdminGetGuides(c *gin.Context) {
	listGuides(c)
}

// AdminGetGuide godoc
// @Summary      Get a guide by ID
// @Tags         admin-guides
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Guide ID"
// @Success      200 {object} GuideResponse
// @Failure      404 {object} ErrorResponse "Guide not found"
// @Router       /admin/guides/{id} [get]
func AdminGetGuide(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var guide models.Guide
	if err := preloadGuide(database.DB).First(&guide, id).Error; err != nil {
		lookupError(c, err, "Guide not found")
		return
	}
	c.JSON(http.StatusOK, newGuideResponse(guide, true))
}

func saveGuide(guide *models.Guide, input GuideInput) error {
	title, err := requiredText("title", input.Title)
	if err != nil {
		return err
	}
	slug, err := resolveSlug(input.Slug, title)
	if err != nil {
		return err
	}

	sections := make([]models.GuideSection, 0, len(input.Sections))
	var body strings.Builder
	for i, s := range input.Sections {
		sectionTitle, err := requiredText(fmt.Sprintf("sections[%d].title", i), s.Title)
		if err != nil {
			return err
		}
		section := models.GuideSection{
			Position: i,
			Title:    sectionTitle,
			Content:  sanitize.HTML(s.Content),
		}
		sections = append(sections, section)
		body.WriteString(section.Content)
		body.WriteString(" ")
	}

	summary := sanitize.Text(input.Summary)
	if summary == "" {
		summary = content.Excerpt(body.String(), summaryLength)
	}

	return database.DB.Transaction(func(tx *gorm.DB) error {
		if err := ensureSlugFree[models.Guide](tx, slug, guide.ID); err != nil {
			return err
		}
		if err := ensureGame(tx, input.GameID); err != nil {
			return err
		}
		tags, err := findTags(tx, input.TagIDs)
		if err != nil {
			return err
		}

		guide.Title = title
		guide.Slug = slug
		guide.Summary = summary
		guide.Difficulty = models.GuideDifficulty(input.Difficulty)
		guide.Type = models.GuideType(input.Type)
		guide.ImageURL = strings.TrimSpace(input.ImageURL)
		guide.PublishedAt = publishTime(input.PublishedAt)
		guide.GameID = input.GameID

		if err := tx.Omit(clause.Associations).Save(guide).Error; err != nil {
			return err
		}
		if err := tx.Model(guide).Association("Tags").Replace(tags); err != nil {
			return err
		}

		// Sections are rewritten wholesale so positions stay dense.
		if err := tx.Where("guide_id = ?", guide.ID).Delete(&models.GuideSection{}).Error; err != nil {
			return err
		}
		for i := range sections {
			sections[i].GuideID = guide.ID
		}
		return tx.Create(&sections).Error
	})
}

// CreateGuide godoc
// @Summary      Create a guide
// @Tags         admin-guides
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body GuideInput true "Guide"
// @Success      201 {object} GuideResponse
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse "Slug already in use"
// @Router       /admin/guides [post]
func CreateGuide(c *gin.Context) {
	var input GuideInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	guide := models.Guide{AuthorID: auth.UserID(c)}
	if err := saveGuide(&guide, input); err != nil {
		writeError(c, err, "create guide")
		return
	}

	revalidate(cache.TagGuides, cache.TagGames)
	respondGuide(c, http.StatusCreated, guide.ID)
}

// UpdateGuide godoc
// @Summary      Update a guide
// @Description  Replaces the guide's fields, tags and every section.
// @Tags         admin-guides
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int        true "Guide ID"
// @Param        input body GuideInput true "Guide"
// @Success      200 {object} GuideResponse
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Guide not found"
// @Failure      409 {object} ErrorResponse "Slug already in use"
// @Router       /admin/guides/{id} [put]
func UpdateGuide(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var guide models.Guide
	if err := database.DB.First(&guide, id).Error; err != nil {
		lookupError(c, err, "Guide not found")
		return
	}

	var input GuideInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := saveGuide(&guide, input); err != nil {
		writeError(c, err, "update guide")
		return
	}

	revalidate(cache.TagGuides, cache.TagGames)
	respondGuide(c, http.StatusOK, guide.ID)
}

// DeleteGuide godoc
// @Summary      Delete a guide
// @Tags         admin-guides
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Guide ID"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse "Guide not found"
// @Router       /admin/guides/{id} [delete]
func DeleteGuide(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var guide models.Guide
		if err := tx.First(&guide, id).Error; err != nil {
			return err
		}
		if err := tx.Where("guide_id = ?", guide.ID).Delete(&models.GuideSection{}).Error; err != nil {
			return err
		}
		return tx.Select("Tags").Delete(&guide).Error
	})
	if err != nil {
		lookupError(c, err, "Guide not found")
		return
	}

	revalidate(cache.TagGuides, cache.TagGames)
	c.JSON(http.StatusOK, gin.H{"message": "Guide deleted"})
}

func respondGuide(c *gin.Context, status int, id uint) {
	var guide models.Guide
	if err := preloadGuide(database.DB).First(&guide, id).Error; err != nil {
		internalError(c, err, "Failed to reload guide")
		return
	}
	c.JSON(status, newGuideResponse(guide, true))
}
