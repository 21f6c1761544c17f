package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gachaactu/backend/internal/auth"
	"gachaactu/backend/internal/cache"
	"gachaactu/backend/internal/models"
	"gachaactu/backend/internal/sanitize"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// RegisterValidators adds the custom binding tags used by the input DTOs.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	return v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return sanitize.IsSlug(fl.Field().String())
	})
}

// parseID reads the :id path parameter, answering 400 when it is not a positive integer.
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return 0, false
	}
	return uint(id), true
}

// requiredText sanitizes a mandatory plain-text field and fails when nothing is
// left of it.
func requiredText(field, raw string) (string, error) {
	s := sanitize.Text(raw)
	if s == "" {
		return "", fmt.Errorf("%s %w", field, errEmptyField)
	}
	return s, nil
}

// resolveSlug normalizes an explicit slug or derives one from the title.
func resolveSlug(explicit, title string) (string, error) {
	source := explicit
	if strings.TrimSpace(source) == "" {
		source = title
	}
	s := sanitize.Slug(source)
	if s == "" {
		return "", errEmptySlug
	}
	return s, nil
}

// ensureSlugFree fails with errSlugTaken when another row of T (soft-deleted
// ones included) already uses slug.
func ensureSlugFree[T any](tx *gorm.DB, slug string, excludeID uint) error {
	var count int64
	q := tx.Unscoped().Model(new(T)).Where("slug = ?", slug)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return errSlugTaken
	}
	return nil
}

// ensureGame checks an optional game reference.
func ensureGame(tx *gorm.DB, gameID *uint) error {
	if gameID == nil {
		return nil
	}
	var count int64
	if err := tx.Model(&models.Game{}).Where("id = ?", *gameID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errUnknownGame
	}
	return nil
}

// findTags loads the tags with the given ids, failing when any is missing.
func findTags(tx *gorm.DB, ids []uint) ([]*models.Tag, error) {
	tags := []*models.Tag{}
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return tags, nil
	}
	if err := tx.Find(&tags, ids).Error; err != nil {
		return nil, err
	}
	if len(tags) != len(ids) {
		return nil, errUnknownTag
	}
	return tags, nil
}

// findOrCreateKeywords returns a keyword row per name, creating missing ones.
func findOrCreateKeywords(tx *gorm.DB, names []string) ([]*models.SeoKeyword, error) {
	keywords := []*models.SeoKeyword{}
	for _, name := range sanitize.Strings(names) {
		kw := models.SeoKeyword{}
		if err := tx.Where(models.SeoKeyword{Keyword: strings.ToLower(name)}).FirstOrCreate(&kw).Error; err != nil {
			return nil, err
		}
		keywords = append(keywords, &kw)
	}
	return keywords, nil
}

// findOrCreatePlatforms returns a platform row per name, creating missing ones.
func findOrCreatePlatforms(tx *gorm.DB, names []string) ([]*models.Platform, error) {
	platforms := []*models.Platform{}
	for _, name := range sanitize.Strings(names) {
		slug := sanitize.Slug(name)
		if slug == "" {
			continue
		}
		p := models.Platform{}
		if err := tx.Where(models.Platform{Slug: slug}).Attrs(models.Platform{Name: name}).FirstOrCreate(&p).Error; err != nil {
			return nil, err
		}
		platforms = append(platforms, &p)
	}
	return platforms, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// publishedBefore restricts table to rows whose published_at has passed.
func publishedBefore(table string, now time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(table+".published_at <= ?", now.UTC())
	}
}

// visibleScope is the publication filter of a detail endpoint. Editors and
// admins sending preview=true also see scheduled content, and those responses
// are marked no-store.
func visibleScope(c *gin.Context, table string) func(*gorm.DB) *gorm.DB {
	if preview, _ := strconv.ParseBool(c.Query("preview")); preview {
		if models.CanEdit(c.GetString(auth.ContextRole)) {
			c.Header("Cache-Control", "no-store")
			return func(db *gorm.DB) *gorm.DB { return db }
		}
	}
	return publishedBefore(table, time.Now())
}

// search adds a case-insensitive LIKE over columns.
func search(db *gorm.DB, q string, columns ...string) *gorm.DB {
	q = strings.TrimSpace(q)
	if q == "" {
		return db
	}
	pattern := "%" + strings.ToLower(q) + "%"
	clauses := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i, col := range columns {
		clauses[i] = "LOWER(" + col + ") LIKE ?"
		args[i] = pattern
	}
	return db.Where("("+strings.Join(clauses, " OR ")+")", args...)
}

// gameSlugFilter restricts table.game_id to the game with the given slug.
func gameSlugFilter(db *gorm.DB, table, gameSlug string) *gorm.DB {
	if gameSlug == "" {
		return db
	}
	sub := db.Session(&gorm.Session{NewDB: true}).Model(&models.Game{}).Select("id").Where("slug = ?", gameSlug)
	return db.Where(table+".game_id IN (?)", sub)
}

// tagSlugFilter restricts table rows to those carrying any of tagSlugs through joinTable.
func tagSlugFilter(db *gorm.DB, table, joinTable, fk string, tagSlugs []string) *gorm.DB {
	if len(tagSlugs) == 0 {
		return db
	}
	sub := db.Session(&gorm.Session{NewDB: true}).
		Table(joinTable).
		Select(joinTable+"."+fk).
		Joins("JOIN tags ON tags.id = "+joinTable+".tag_id").
		Where("tags.slug IN ? AND tags.deleted_at IS NULL", tagSlugs)
	return db.Where(table+".id IN (?)", sub)
}

// revalidate drops cached public responses for tags.
func revalidate(tags ...string) {
	cache.Default.Revalidate(tags...)
}

// publishTime defaults a missing publication date to now and stores it in UTC.
func publishTime(t *time.Time) time.Time {
	if t == nil || t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}

// splitCommaSeparated splits a comma-separated query value.
func splitCommaSeparated(s string) []string {
	var result []string
	parts := strings.Split(s, ",")
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
