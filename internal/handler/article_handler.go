package handler

import (
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

// summaryLength caps derived summaries, in runes.
const summaryLength = 200

// region --- DTOs ---

type ArticleInput struct {
	Title       string     `json:"title" binding:"required,max=255" example:"Version 2.3 banners revealed"`
	Slug        string     `json:"slug" binding:"omitempty,max=255"`
	Summary     string     `json:"summary" binding:"max=1000"`
	Content     string     `json:"content" binding:"required"`
	Category    string     `json:"category" binding:"required,oneof=news event update review banner" example:"news"`
	ImageURL    string     `json:"image_url" binding:"omitempty,url,max=512"`
	PublishedAt *time.Time `json:"published_at"`
	GameID      *uint      `json:"game_id"`
	TagIDs      []uint     `json:"tag_ids"`
	SeoKeywords []string   `json:"seo_keywords"`
}

type AuthorResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type ArticleResponse struct {
	ID          uint            `json:"id"`
	Title       string          `json:"title"`
	Slug        string          `json:"slug"`
	Summary     string          `json:"summary"`
	Content     string          `json:"content,omitempty"`
	Category    string          `json:"category"`
	ImageURL    string          `json:"image_url"`
	PublishedAt time.Time       `json:"published_at"`
	ReadingTime int             `json:"reading_time"`
	Author      *AuthorResponse `json:"author,omitempty"`
	Game        *GameSummary    `json:"game,omitempty"`
	Tags        []TagResponse   `json:"tags"`
	SeoKeywords []string        `json:"seo_keywords,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func newAuthorResponse(u models.User) *AuthorResponse {
	if u.ID == 0 {
		return nil
	}
	return &AuthorResponse{ID: u.ID, Name: u.Name}
}

func newArticleResponse(a models.Article, withContent bool) ArticleResponse {
	resp := ArticleResponse{
		ID:          a.ID,
		Title:       a.Title,
		Slug:        a.Slug,
		Summary:     a.Summary,
		Category:    string(a.Category),
		ImageURL:    a.ImageURL,
		PublishedAt: a.PublishedAt,
		ReadingTime: a.ReadingTime,
		Author:      newAuthorResponse(a.Author),
		Game:        newGameSummary(a.Game),
		Tags:        newTagResponses(a.Tags),
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
	if withContent {
		resp.Content = a.Content
		for _, kw := range a.SeoKeywords {
			if kw != nil {
				resp.SeoKeywords = append(resp.SeoKeywords, kw.Keyword)
			}
		}
	}
	return resp
}

// endregion

// region --- Filters ---

type articleFilter struct {
	Query    string
	Category string
	Game     string
	Tags     []string
}

func newArticleFilter(c *gin.Context) articleFilter {
	return articleFilter{
		Query:    c.Query("q"),
		Category: c.Query("category"),
		Game:     c.Query("game"),
		Tags:     splitCommaSeparated(c.Query("tag")),
	}
}

func (f articleFilter) apply(db *gorm.DB) *gorm.DB {
	db = search(db, f.Query, "articles.title", "articles.summary")
	if f.Category != "" {
		db = db.Where("articles.category = ?", f.Category)
	}
	db = gameSlugFilter(db, "articles", f.Game)
	return tagSlugFilter(db, "articles", "article_tags", "article_id", f.Tags)
}

var articleSorts = map[string]string{
	"newest": "articles.published_at DESC, articles.id DESC",
	"oldest": "articles.published_at ASC, articles.id ASC",
	"title":  "articles.title ASC, articles.id ASC",
}

// listArticles answers a paginated, filtered list. scopes narrow the base query.
func listArticles(c *gin.Context, scopes ...func(*gorm.DB) *gorm.DB) {
	page, limit, offset := pageParams(c)
	order, ok := articleSorts[c.DefaultQuery("sort", "newest")]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sort"})
		return
	}
	filter := newArticleFilter(c)

	var totalItems int64
	if err := filter.apply(database.DB.Model(&models.Article{}).Scopes(scopes...)).Count(&totalItems).Error; err != nil {
		internalError(c, err, "Failed to count articles")
		return
	}

	var articles []models.Article
	err := filter.apply(database.DB.Model(&models.Article{}).Scopes(scopes...)).
		Preload("Tags").Preload("Game").Preload("Author").
		Order(order).
		Offset(offset).Limit(limit).
		Find(&articles).Error
	if err != nil {
		internalError(c, err, "Failed to retrieve articles")
		return
	}

	response := make([]ArticleResponse, 0, len(articles))
	for _, a := range articles {
		response = append(response, newArticleResponse(a, false))
	}
	c.JSON(http.StatusOK, NewPaginatedResponse(response, totalItems, page, limit))
}

func preloadArticle(db *gorm.DB) *gorm.DB {
	return db.Preload("Tags").Preload("SeoKeywords").Preload("Game").Preload("Author")
}

// endregion

// region --- Public Handlers ---

// GetArticles godoc
// @Summary      List published articles
// @Description  Paginated list of published articles with optional search, category, game and tag filters.
// @Tags         articles
// @Produce      json
// @Param        q        query  string  false  "Search in title and summary"
// @Param        category query  string  false  "news, event, update, review or banner"
// @Param        game     query  string  false  "Game slug"
// @Param        tag      query  string  false  "Comma-separated tag slugs (any of)"
// @Param        sort     query  string  false  "newest (default), oldest or title"
// @Param        page     query  int     false  "Page number" default(1)
// @Param        limit    query  int     false  "Items per page" default(12)
// @Success      200 {object} PaginatedResponse[ArticleResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /articles [get]
func GetArticles(c *gin.Context) {
	listArticles(c, publishedBefore("articles", time.Now()))
}

// GetArticleBySlug godoc
// @Summary      Get a published article
// @Tags         articles
// @Produce      json
// @Param        slug path string true "Article slug"
// @Param        preview query bool false "Editors only: include scheduled content"
// @Success      200 {object} ArticleResponse
// @Failure      404 {object} ErrorResponse "Article not found"
// @Router       /articles/{slug} [get]
func GetArticleBySlug(c *gin.Context) {
	var article models.Article
	err := preloadArticle(database.DB).
		Scopes(visibleScope(c, "articles")).
		Where("articles.slug = ?", c.Param("slug")).
		First(&article).Error
	if err != nil {
		lookupError(c, err, "Article not found")
		return
	}

	c.JSON(http.StatusOK, newArticleResponse(article, true))
}

// endregion

// region --- Admin Handlers ---

// AdminGetArticles godoc
// @Summary      List all articles
// @Description  Same filters as the public list, scheduled articles included.
// @Tags         admin-articles
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} PaginatedResponse[ArticleResponse]
// @Router       /admin/articles [get]
func AdminGetArticles(c *gin.Context) {
	listArticles(c)
}

// AdminGetArticle godoc
// @Summary      Get an article by ID
// @Tags         admin-articles
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Article ID"
// @Success      200 {object} ArticleResponse
// @Failure      404 {object} ErrorResponse "Article not found"
// @Router       /admin/articles/{id} [get]
func AdminGetArticle(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var article models.Article
	if err := preloadArticle(database.DB).First(&article, id).Error; err != nil {
		lookupError(c, err, "Article not found")
		return
	}
	c.JSON(http.StatusOK, newArticleResponse(article, true))
}

func saveArticle(article *models.Article, input ArticleInput) error {
	title, err := requiredText("title", input.Title)
	if err != nil {
		return err
	}
	slug, err := resolveSlug(input.Slug, title)
	if err != nil {
		return err
	}

	body := sanitize.HTML(input.Content)
	summary := sanitize.Text(input.Summary)
	if summary == "" {
		summary = content.Excerpt(body, summaryLength)
	}

	return database.DB.Transaction(func(tx *gorm.DB) error {
		if err := ensureSlugFree[models.Article](tx, slug, article.ID); err != nil {
			return err
		}
		if err := ensureGame(tx, input.GameID); err != nil {
			return err
		}
		tags, err := findTags(tx, input.TagIDs)
		if err != nil {
			return err
		}
		keywords, err := findOrCreateKeywords(tx, input.SeoKeywords)
		if err != nil {
			return err
		}

		article.Title = title
		article.Slug = slug
		article.Summary = summary
		article.Content = body
		article.Category = models.ArticleCategory(input.Category)
		article.ImageURL = strings.TrimSpace(input.ImageURL)
		article.PublishedAt = publishTime(input.PublishedAt)
		article.ReadingTime = content.ReadingTime(body)
		article.GameID = input.GameID

		if err := tx.Omit(clause.Associations).Save(article).Error; err != nil {
			return err
		}
		if err := tx.Model(article).Association("Tags").Replace(tags); err != nil {
			return err
		}
		return tx.Model(article).Association("SeoKeywords").Replace(keywords)
	})
}

// CreateArticle godoc
// @Summary      Create an article
// @Description  Sanitizes the input, derives slug, summary and reading time, and stores the article with its tags and SEO keywords.
// @Tags         admin-articles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body ArticleInput true "Article"
// @Success      201 {object} ArticleResponse
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse "Slug already in use"
// @Router       /admin/articles [post]
func CreateArticle(c *gin.Context) {
	var input ArticleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	article := models.Article{AuthorID: auth.UserID(c)}
	if err := saveArticle(&article, input); err != nil {
		writeError(c, err, "create article")
		return
	}

	revalidate(cache.TagArticles, cache.TagGames)
	respondArticle(c, http.StatusCreated, article.ID)
}

// UpdateArticle godoc
// @Summary      Update an article
// @Description  Replaces the article's fields, tags and SEO keywords.
// @Tags         admin-articles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int          true "Article ID"
// @Param        input body ArticleInput true "Article"
// @Success      200 {object} ArticleResponse
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Article not found"
// @Failure      409 {object} ErrorResponse "Slug already in use"
// @Router       /admin/articles/{id} [put]
func UpdateArticle(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var article models.Article
	if err := database.DB.First(&article, id).Error; err != nil {
		lookupError(c, err, "Article not found")
		return
	}

	var input ArticleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := saveArticle(&article, input); err != nil {
		writeError(c, err, "update article")
		return
	}

	revalidate(cache.TagArticles, cache.TagGames)
	respondArticle(c, http.StatusOK, article.ID)
}

// DeleteArticle godoc
// @Summary      Delete an article
// @Tags         admin-articles
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Article ID"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse "Article not found"
// @Router       /admin/articles/{id} [delete]
func DeleteArticle(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var article models.Article
		if err := tx.First(&article, id).Error; err != nil {
			return err
		}
		return tx.Select("Tags", "SeoKeywords").Delete(&article).Error
	})
	if err != nil {
		lookupError(c, err, "Article not found")
		return
	}

	revalidate(cache.TagArticles, cache.TagGames)
	c.JSON(http.StatusOK, gin.H{"message": "Article deleted"})
}

func respondArticle(c *gin.Context, status int, id uint) {
	var article models.Article
	if err := preloadArticle(database.DB).First(&article, id).Error; err != nil {
		internalError(c, err, "Failed to reload article")
		return
	}
	c.JSON(status, newArticleResponse(article, true))
}

// endregion
