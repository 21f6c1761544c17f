package handler

import (
	"net/http"
	"strings"
	"time"

	"gachaactu/backend/internal/cache"
	"gachaactu/backend/internal/database"
	"gachaactu/backend/internal/models"
	"gachaactu/backend/internal/sanitize"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// region --- DTOs ---

type GameInput struct {
	Name        string     `json:"name" binding:"required,max=255" example:"Honkai: Star Rail"`
	Slug        string     `json:"slug" binding:"omitempty,max=255"`
	Genre       string     `json:"genre" binding:"max=100" example:"Turn-based RPG"`
	Developer   string     `json:"developer" binding:"max=255" example:"HoYoverse"`
	Description string     `json:"description"`
	ImageURL    string     `json:"image_url" binding:"omitempty,url,max=512"`
	ReleaseDate *time.Time `json:"release_date"`
	Platforms   []string   `json:"platforms" example:"iOS,Android,PC"`
}

type PlatformResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// GameSummary is the short form of a game embedded in other resources.
type GameSummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type GameResponse struct {
	ID           uint               `json:"id"`
	Name         string             `json:"name"`
	Slug         string             `json:"slug"`
	Genre        string             `json:"genre"`
	Developer    string             `json:"developer"`
	Description  string             `json:"description"`
	ImageURL     string             `json:"image_url"`
	ReleaseDate  *time.Time         `json:"release_date"`
	Platforms    []PlatformResponse `json:"platforms"`
	ArticleCount *int64             `json:"article_count,omitempty"`
	GuideCount   *int64             `json:"guide_count,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

func newPlatformResponse(p models.Platform) PlatformResponse {
	return PlatformResponse{ID: p.ID, Name: p.Name, Slug: p.Slug}
}

func newGameSummary(game *models.Game) *GameSummary {
	if game == nil || game.ID == 0 {
		return nil
	}
	return &GameSummary{ID: game.ID, Name: game.Name, Slug: game.Slug}
}

func newGameResponse(game models.Game) GameResponse {
	platforms := make([]PlatformResponse, 0, len(game.Platforms))
	for _, p := range game.Platforms {
		if p != nil {
			platforms = append(platforms, newPlatformResponse(*p))
		}
	}

	return GameResponse{
		ID:          game.ID,
		Name:        game.Name,
		Slug:        game.Slug,
		Genre:       game.Genre,
		Developer:   game.Developer,
		Description: game.Description,
		ImageURL:    game.ImageURL,
		ReleaseDate: game.ReleaseDate,
		Platforms:   platforms,
		CreatedAt:   game.CreatedAt,
		UpdatedAt:   game.UpdatedAt,
	}
}

// endregion

// region --- Admin Handlers ---

func saveGame(game *models.Game, input GameInput) error {
	name, err := requiredText("name", input.Name)
	if err != nil {
		return err
	}
	slug, err := resolveSlug(input.Slug, name)
	if err != nil {
		return err
	}

	return database.DB.Transaction(func(tx *gorm.DB) error {
		if err := ensureSlugFree[models.Game](tx, slug, game.ID); err != nil {
			return err
		}

		platforms, err := findOrCreatePlatforms(tx, input.Platforms)
		if err != nil {
			return err
		}

		game.Name = name
		game.Slug = slug
		game.Genre = sanitize.Text(input.Genre)
		game.Developer = sanitize.Text(input.Developer)
		game.Description = sanitize.Text(input.Description)
		game.ImageURL = strings.TrimSpace(input.ImageURL)
		game.ReleaseDate = input.ReleaseDate

		if err := tx.Omit("Platforms").Save(game).Error; err != nil {
			return err
		}
		if err := tx.Model(game).Association("Platforms").Replace(platforms); err != nil {
			return err
		}
		game.Platforms = platforms
		return nil
	})
}

// CreateGame godoc
// @Summary      Create a new game
// @Description  Creates a new game. Platforms are given by name and created on demand.
// @Tags         admin-games
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body GameInput true "Game Info"
// @Success      201  {object}  GameResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Admin access required"
// @Failure      409  {object}  ErrorResponse "Slug already in use"
// @Router       /admin/games [post]
func CreateGame(c *gin.Context) {
	var input GameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var game models.Game
	if err := saveGame(&game, input); err != nil {
		writeError(c, err, "create game")
		return
	}

	revalidate(cache.TagGames)
	c.JSON(http.StatusCreated, newGameResponse(game))
}

// UpdateGame godoc
// @Summary      Update a game
// @Description  Updates a game's details and replaces its platforms.
// @Tags         admin-games
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int       true  "Game ID"
// @Param        input body      GameInput true  "New Game Info"
// @Success      200   {object}  GameResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse "Admin access required"
// @Failure      404   {object}  ErrorResponse "Game not found"
// @Failure      409   {object}  ErrorResponse "Slug already in use"
// @Router       /admin/games/{id} [put]
func UpdateGame(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var game models.Game
	if err := database.DB.First(&game, id).Error; err != nil {
		lookupError(c, err, "Game not found")
		return
	}

	var input GameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := saveGame(&game, input); err != nil {
		writeError(c, err, "update game")
		return
	}

	// Games are embedded in every other public resource.
	revalidate(cache.TagGames, cache.TagArticles, cache.TagGuides, cache.TagVideos, cache.TagTierLists)
	c.JSON(http.StatusOK, newGameResponse(game))
}

// DeleteGame godoc
// @Summary      Delete a game
// @Description  Deletes an existing game and detaches the content that referenced it.
// @Tags         admin-games
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Game ID"
// @Success      200 {object} MessageResponse
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse "Admin access required"
// @Failure      404 {object} ErrorResponse "Game not found"
// @Router       /admin/games/{id} [delete]
func DeleteGame(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var game models.Game
		if err := tx.First(&game, id).Error; err != nil {
			return err
		}
		for _, model := range []interface{}{&models.Article{}, &models.Guide{}, &models.YouTubeVideo{}, &models.TierList{}} {
			if err := tx.Unscoped().Model(model).Where("game_id = ?", id).Update("game_id", nil).Error; err != nil {
				return err
			}
		}
		return tx.Select("Platforms").Delete(&game).Error
	})
	if err != nil {
		lookupError(c, err, "Game not found")
		return
	}

	revalidate(cache.TagGames, cache.TagArticles, cache.TagGuides, cache.TagVideos, cache.TagTierLists)
	c.JSON(http.StatusOK, gin.H{"message": "Game deleted"})
}

// endregion

// region --- Public Handlers ---

// GetGameBySlug godoc
// @Summary      Get a single game by slug
// @Description  Retrieves a game with its platforms and the number of published articles and guides.
// @Tags         games
// @Produce      json
// @Param        slug path string true "Game slug"
// @Success      200 {object} GameResponse
// @Failure      404 {object} ErrorResponse "Game not found"
// @Router       /games/{slug} [get]
func GetGameBySlug(c *gin.Context) {
	var game models.Game
	if err := database.DB.Preload("Platforms").Where("slug = ?", c.Param("slug")).First(&game).Error; err != nil {
		lookupError(c, err, "Game not found")
		return
	}

	now := time.Now()
	var articleCount, guideCount int64
	if err := database.DB.Model(&models.Article{}).Scopes(publishedBefore("articles", now)).
		Where("game_id = ?", game.ID).Count(&articleCount).Error; err != nil {
		internalError(c, err, "Failed to count articles")
		return
	}
	if err := database.DB.Model(&models.Guide{}).Scopes(publishedBefore("guides", now)).
		Where("game_id = ?", game.ID).Count(&guideCount).Error; err != nil {
		internalError(c, err, "Failed to count guides")
		return
	}

	response := newGameResponse(game)
	response.ArticleCount = &articleCount
	response.GuideCount = &guideCount
	c.JSON(http.StatusOK, response)
}

type gameFilter struct {
	Query    string
	Genre    string
	Platform string
}

func (f gameFilter) apply(db *gorm.DB) *gorm.DB {
	db = search(db, f.Query, "games.name", "games.developer")
	if f.Genre != "" {
		db = db.Where("LOWER(games.genre) = ?", strings.ToLower(f.Genre))
	}
	if f.Platform != "" {
		sub := db.Session(&gorm.Session{NewDB: true}).
			Model(&models.GamePlatform{}).
			Select("game_platforms.game_id").
			Joins("JOIN platforms ON platforms.id = game_platforms.platform_id").
			Where("platforms.slug = ?", f.Platform)
		db = db.Where("games.id IN (?)", sub)
	}
	return db
}

var gameSorts = map[string]string{
	"name":   "games.name ASC, games.id ASC",
	"newest": "games.release_date IS NULL, games.release_date DESC, games.id DESC",
}

// GetGames godoc
// @Summary      Get a list of games
// @Description  Retrieves a paginated list of games, filtered by name, genre or platform.
// @Tags         games
// @Produce      json
// @Param        q        query     string  false  "Search in name and developer"
// @Param        genre    query     string  false  "Exact genre (case-insensitive)"
// @Param        platform query     string  false  "Platform slug"
// @Param        sort     query     string  false  "name (default) or newest"
// @Param        page     query     int     false  "Page number" default(1)
// @Param        limit    query     int     false  "Items per page" default(12)
// @Success      200 {object} PaginatedResponse[GameResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /games [get]
func GetGames(c *gin.Context) {
	page, limit, offset := pageParams(c)
	order, ok := gameSorts[c.DefaultQuery("sort", "name")]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sort"})
		return
	}

	filter := gameFilter{
		Query:    c.Query("q"),
		Genre:    c.Query("genre"),
		Platform: c.Query("platform"),
	}

	var totalItems int64
	if err := filter.apply(database.DB.Model(&models.Game{})).Count(&totalItems).Error; err != nil {
		internalError(c, err, "Failed to count games")
		return
	}

	var games []models.Game
	err := filter.apply(database.DB.Model(&models.Game{})).
		Preload("Platforms").
		Order(order).
		Offset(offset).Limit(limit).
		Find(&games).Error
	if err != nil {
		internalError(c, err, "Failed to retrieve games")
		return
	}

	response := make([]GameResponse, 0, len(games))
	for _, game := range games {
		response = append(response, newGameResponse(game))
	}

	c.JSON(http.StatusOK, NewPaginatedResponse(response, totalItems, page, limit))
}

// GetPlatforms godoc
// @Summary      Get all platforms
// @Tags         games
// @Produce      json
// @Success      200 {array} PlatformResponse
// @Router       /platforms [get]
func GetPlatforms(c *gin.Context) {
	var platforms []models.Platform
	if err := database.DB.Order("name").Find(&platforms).Error; err != nil {
		internalError(c, err, "Failed to retrieve platforms")
		return
	}

	response := make([]PlatformResponse, 0, len(platforms))
	for _, p := range platforms {
		response = append(response, newPlatformResponse(p))
	}
	c.JSON(http.StatusOK, response)
}

// endregion
