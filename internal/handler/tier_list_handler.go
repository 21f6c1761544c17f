package handler

import (
	"fmt"
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"

	"gachaactu/backend/internal/cache"
	"gachaactu/backend/internal/database"
	"gachaactu/backend/internal/models"
	"gachaactu/backend/internal/sanitize"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TierEntryInput struct {
	Name     string `json:"name" binding:"required,max=100" example:"Kafka"`
	Tier     string `json:"tier" binding:"required,oneof=SS S A B C D" example:"S"`
	Role     string `json:"role" binding:"max=50" example:"DPS"`
	ImageURL string `json:"image_url" binding:"omitempty,url,max=512"`
}

type TierListInput struct {
	Title       string           `json:"title" binding:"required,max=255" example:"Honkai: Star Rail tier list"`
	Slug        string           `json:"slug" binding:"omitempty,max=255"`
	Description string           `json:"description" binding:"max=2000"`
	GameID      *uint            `json:"game_id"`
	Entries     []TierEntryInput `json:"entries" binding:"dive"`
}

// TierRow groups the entries sharing a rank.
type TierRow struct {
	Tier    string             `json:"tier"`
	Entries []models.TierEntry `json:"entries"`
}

type TierListResponse struct {
	ID          uint         `json:"id"`
	Title       string       `json:"title"`
	Slug        string       `json:"slug"`
	Description string       `json:"description"`
	Game        *GameSummary `json:"game,omitempty"`
	EntryCount  int          `json:"entry_count"`
	Rows        []TierRow    `json:"rows,omitempty"`
}

// tierRows groups entries by tier, best first. Empty tiers are left out. Entries
// keep their input order unless shuffle is given.
func tierRows(entries []models.TierEntry, shuffle func(n int, swap func(i, j int))) []TierRow {
	byTier := make(map[string][]models.TierEntry, len(models.Tiers))
	for _, e := range entries {
		byTier[e.Tier] = append(byTier[e.Tier], e)
	}

	rows := []TierRow{}
	for _, tier := range models.Tiers {
		group := byTier[tier]
		if len(group) == 0 {
			continue
		}
		if shuffle != nil {
			shuffle(len(group), func(i, j int) { group[i], group[j] = group[j], group[i] })
		}
		rows = append(rows, TierRow{Tier: tier, Entries: group})
	}
	return rows
}

func newTierListResponse(tl models.TierList, rows []TierRow) TierListResponse {
	return TierListResponse{
		ID:          tl.ID,
		Title:       tl.Title,
		Slug:        tl.Slug,
		Description: tl.Description,
		Game:        newGameSummary(tl.Game),
		EntryCount:  len(tl.Entries),
		Rows:        rows,
	}
}

// GetTierLists godoc
// @Summary      List tier lists
// @Tags         tier-lists
// @Produce      json
// @Param        game query string false "Game slug"
// @Success      200 {array} TierListResponse
// @Router       /tier-lists [get]
func GetTierLists(c *gin.Context) {
	db := gameSlugFilter(database.DB.Model(&models.TierList{}), "tier_lists", c.Query("game"))

	var lists []models.TierList
	if err := db.Preload("Game").Order("tier_lists.updated_at DESC").Find(&lists).Error; err != nil {
		internalError(c, err, "Failed to retrieve tier lists")
		return
	}

	response := make([]TierListResponse, 0, len(lists))
	for _, tl := range lists {
		response = append(response, newTierListResponse(tl, nil))
	}
	c.JSON(http.StatusOK, response)
}

// GetTierListBySlug godoc
// @Summary      Get a tier list grouped by tier
// @Description  Rows are ordered SS, S, A, B, C, D. shuffle=true randomizes the order inside each row.
// @Tags         tier-lists
// @Produce      json
// @Param        slug    path  string true  "Tier list slug"
// @Param        shuffle query bool   false "Shuffle entries within each tier"
// @Success      200 {object} TierListResponse
// @Failure      404 {object} ErrorResponse "Tier list not found"
// @Router       /tier-lists/{slug} [get]
func GetTierListBySlug(c *gin.Context) {
	var tl models.TierList
	if err := database.DB.Preload("Game").Where("slug = ?", c.Param("slug")).First(&tl).Error; err != nil {
		lookupError(c, err, "Tier list not found")
		return
	}

	var shuffle func(int, func(int, int))
	if ok, _ := strconv.ParseBool(c.Query("shuffle")); ok {
		shuffle = rand.Shuffle
		c.Header("Cache-Control", "no-store")
	}

	c.JSON(http.StatusOK, newTierListResponse(tl, tierRows(tl.Entries, shuffle)))
}

// AdminGetTierList godoc
// @Summary      Get a tier list by ID
// @Tags         admin-tier-lists
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Tier list ID"
// @Success      200 {object} TierListResponse
// @Failure      404 {object} ErrorResponse "Tier list not found"
// @Router       /admin/tier-lists/{id} [get]
func AdminGetTierList(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var tl models.TierList
	if err := database.DB.Preload("Game").First(&tl, id).Error; err != nil {
		lookupError(c, err, "Tier list not found")
		return
	}
	c.JSON(http.StatusOK, newTierListResponse(tl, tierRows(tl.Entries, nil)))
}

func saveTierList(tl *models.TierList, input TierListInput) error {
	title, err := requiredText("title", input.Title)
	if err != nil {
		return err
	}
	slug, err := resolveSlug(input.Slug, title)
	if err != nil {
		return err
	}

	entries := make([]models.TierEntry, 0, len(input.Entries))
	for i, e := range input.Entries {
		name, err := requiredText(fmt.Sprintf("entries[%d].name", i), e.Name)
		if err != nil {
			return err
		}
		entries = append(entries, models.TierEntry{
			Name:     name,
			Tier:     e.Tier,
			Role:     sanitize.Text(e.Role),
			ImageURL: strings.TrimSpace(e.ImageURL),
		})
	}

	return database.DB.Transaction(func(tx *gorm.DB) error {
		if err := ensureSlugFree[models.TierList](tx, slug, tl.ID); err != nil {
			return err
		}
		if err := ensureGame(tx, input.GameID); err != nil {
			return err
		}

		tl.Title = title
		tl.Slug = slug
		tl.Description = sanitize.Text(input.Description)
		tl.GameID = input.GameID
		tl.Entries = entries
		return tx.Omit("Game").Save(tl).Error
	})
}

// CreateTierList godoc
// @Summary      Create a tier list
// @Tags         admin-tier-lists
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body TierListInput true "Tier list"
// @Success      201 {object} TierListResponse
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse "Slug already in use"
// @Router       /admin/tier-lists [post]
func CreateTierList(c *gin.Context) {
	var input TierListInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var tl models.TierList
	if err := saveTierList(&tl, input); err != nil {
		writeError(c, err, "create tier list")
		return
	}

	revalidate(cache.TagTierLists)
	respondTierList(c, http.StatusCreated, tl.ID)
}

// UpdateTierList godoc
// @Summary      Update a tier list
// @Tags         admin-tier-lists
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int           true "Tier list ID"
// @Param        input body TierListInput true "Tier list"
// @Success      200 {object} TierListResponse
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Tier list not found"
// @Failure      409 {object} ErrorResponse "Slug already in use"
// @Router       /admin/tier-lists/{id} [put]
func UpdateTierList(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var tl models.TierList
	if err := database.DB.First(&tl, id).Error; err != nil {
		lookupError(c, err, "Tier list not found")
		return
	}

	var input TierListInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := saveTierList(&tl, input); err != nil {
		writeError(c, err, "update tier list")
		return
	}

	revalidate(cache.TagTierLists)
	respondTierList(c, http.StatusOK, tl.ID)
}

// DeleteTierList godoc
// @Summary      Delete a tier list
// @Tags         admin-tier-lists
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Tier list ID"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse "Tier list not found"
// @Router       /admin/tier-lists/{id} [delete]
func DeleteTierList(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	result := database.DB.Delete(&models.TierList{}, id)
	if result.Error != nil {
		internalError(c, result.Error, "Failed to delete tier list")
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Tier list not found"})
		return
	}

	revalidate(cache.TagTierLists)
	c.JSON(http.StatusOK, gin.H{"message": "Tier list deleted"})
}

func respondTierList(c *gin.Context, status int, id uint) {
	var tl models.TierList
	if err := database.DB.Preload("Game").First(&tl, id).Error; err != nil {
		internalError(c, err, "Failed to reload tier list")
		return
	}
	c.JSON(status, newTierListResponse(tl, tierRows(tl.Entries, nil)))
}
