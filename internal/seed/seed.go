// Package seed loads reference data (platforms, games, tags and tier lists)
// from a YAML file and creates the first admin account.
package seed

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gachaactu/backend/internal/models"
	"gachaactu/backend/internal/sanitize"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// File is the layout of a seed file.
type File struct {
	Platforms []Platform `yaml:"platforms"`
	Games     []Game     `yaml:"games"`
	Tags      []Tag      `yaml:"tags"`
	TierLists []TierList `yaml:"tier_lists"`
}

type Platform struct {
	Name string `yaml:"name"`
	Slug string `yaml:"slug"`
}

type Game struct {
	Name        string   `yaml:"name"`
	Slug        string   `yaml:"slug"`
	Genre       string   `yaml:"genre"`
	Developer   string   `yaml:"developer"`
	Description string   `yaml:"description"`
	ImageURL    string   `yaml:"image_url"`
	ReleaseDate string   `yaml:"release_date"` // YYYY-MM-DD
	Platforms   []string `yaml:"platforms"`
}

type Tag struct {
	Name string `yaml:"name"`
	Slug string `yaml:"slug"`
}

type TierList struct {
	Title       string             `yaml:"title"`
	Slug        string             `yaml:"slug"`
	Game        string             `yaml:"game"` // game slug
	Description string             `yaml:"description"`
	Entries     []models.TierEntry `yaml:"entries"`
}

// Result counts the rows written by Apply.
type Result struct {
	Platforms int
	Games     int
	Tags      int
	TierLists int
}

// Load reads and parses the seed file at path.
func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes a seed file. Unknown keys are rejected.
func Parse(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var file File
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse seed yaml: %w", err)
	}
	return &file, nil
}

// Apply upserts the content of file by slug in a single transaction. Running
// it twice leaves the database unchanged. Soft-deleted rows are restored.
func Apply(db *gorm.DB, file *File) (Result, error) {
	var res Result
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, p := range file.Platforms {
			if _, err := upsertPlatform(tx, p.Name, p.Slug); err != nil {
				return err
			}
			res.Platforms++
		}
		for _, t := range file.Tags {
			if err := upsertTag(tx, t); err != nil {
				return err
			}
			res.Tags++
		}
		for _, g := range file.Games {
			if err := upsertGame(tx, g); err != nil {
				return err
			}
			res.Games++
		}
		for _, tl := range file.TierLists {
			if err := upsertTierList(tx, tl); err != nil {
				return err
			}
			res.TierLists++
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

func resolveSlug(explicit, name string) (string, error) {
	source := explicit
	if source == "" {
		source = name
	}
	slug := sanitize.Slug(source)
	if slug == "" {
		return "", fmt.Errorf("cannot derive a slug for %q", name)
	}
	return slug, nil
}

// findBySlug loads the row of T with slug, soft-deleted ones included. A
// missing row is not an error.
func findBySlug[T any](tx *gorm.DB, slug string, dest *T) error {
	err := tx.Unscoped().Where("slug = ?", slug).First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}

func upsertPlatform(tx *gorm.DB, name, explicitSlug string) (*models.Platform, error) {
	name = sanitize.Text(name)
	slug, err := resolveSlug(explicitSlug, name)
	if err != nil {
		return nil, fmt.Errorf("platform: %w", err)
	}

	var p models.Platform
	if err := findBySlug(tx, slug, &p); err != nil {
		return nil, fmt.Errorf("find platform %s: %w", slug, err)
	}
	p.Name = name
	p.Slug = slug
	p.DeletedAt = gorm.DeletedAt{}
	if err := tx.Unscoped().Save(&p).Error; err != nil {
		return nil, fmt.Errorf("save platform %s: %w", slug, err)
	}
	return &p, nil
}

func upsertTag(tx *gorm.DB, t Tag) error {
	name := sanitize.Text(t.Name)
	slug, err := resolveSlug(t.Slug, name)
	if err != nil {
		return fmt.Errorf("tag: %w", err)
	}

	var tag models.Tag
	if err := findBySlug(tx, slug, &tag); err != nil {
		return fmt.Errorf("find tag %s: %w", slug, err)
	}
	tag.Name = name
	tag.Slug = slug
	tag.DeletedAt = gorm.DeletedAt{}
	if err := tx.Unscoped().Save(&tag).Error; err != nil {
		return fmt.Errorf("save tag %s: %w", slug, err)
	}
	return nil
}

func upsertGame(tx *gorm.DB, g Game) error {
	name := sanitize.Text(g.Name)
	slug, err := resolveSlug(g.Slug, name)
	if err != nil {
		return fmt.Errorf("game: %w", err)
	}

	var releaseDate *time.Time
	if g.ReleaseDate != "" {
		d, err := time.Parse(time.DateOnly, g.ReleaseDate)
		if err != nil {
			return fmt.Errorf("game %s: release_date: %w", slug, err)
		}
		releaseDate = &d
	}

	platforms := make([]*models.Platform, 0, len(g.Platforms))
	for _, name := range sanitize.Strings(g.Platforms) {
		p, err := upsertPlatform(tx, name, "")
		if err != nil {
			return err
		}
		platforms = append(platforms, p)
	}

	var game models.Game
	if err := findBySlug(tx, slug, &game); err != nil {
		return fmt.Errorf("find game %s: %w", slug, err)
	}
	game.Name = name
	game.Slug = slug
	game.Genre = sanitize.Text(g.Genre)
	game.Developer = sanitize.Text(g.Developer)
	game.Description = sanitize.Text(g.Description)
	game.ImageURL = strings.TrimSpace(g.ImageURL)
	game.ReleaseDate = releaseDate
	game.DeletedAt = gorm.DeletedAt{}

	if err := tx.Unscoped().Omit("Platforms").Save(&game).Error; err != nil {
		return fmt.Errorf("save game %s: %w", slug, err)
	}
	if err := tx.Model(&game).Association("Platforms").Replace(platforms); err != nil {
		return fmt.Errorf("link platforms of %s: %w", slug, err)
	}
	return nil
}

func upsertTierList(tx *gorm.DB, tl TierList) error {
	title := sanitize.Text(tl.Title)
	slug, err := resolveSlug(tl.Slug, title)
	if err != nil {
		return fmt.Errorf("tier list: %w", err)
	}

	entries := make([]models.TierEntry, 0, len(tl.Entries))
	for _, e := range tl.Entries {
		e.Name = sanitize.Text(e.Name)
		e.Tier = strings.ToUpper(strings.TrimSpace(e.Tier))
		e.Role = sanitize.Text(e.Role)
		if e.Name == "" {
			return fmt.Errorf("tier list %s: entry without a name", slug)
		}
		if !models.IsTier(e.Tier) {
			return fmt.Errorf("tier list %s: unknown tier %q for %s", slug, e.Tier, e.Name)
		}
		entries = append(entries, e)
	}

	var gameID *uint
	if tl.Game != "" {
		var game models.Game
		if err := tx.Where("slug = ?", tl.Game).First(&game).Error; err != nil {
			return fmt.Errorf("tier list %s: game %s: %w", slug, tl.Game, err)
		}
		gameID = &game.ID
	}

	var list models.TierList
	if err := findBySlug(tx, slug, &list); err != nil {
		return fmt.Errorf("find tier list %s: %w", slug, err)
	}
	list.Title = title
	list.Slug = slug
	list.Description = sanitize.Text(tl.Description)
	list.GameID = gameID
	list.Entries = entries
	list.DeletedAt = gorm.DeletedAt{}

	if err := tx.Unscoped().Omit("Game").Save(&list).Error; err != nil {
		return fmt.Errorf("save tier list %s: %w", slug, err)
	}
	return nil
}

// EnsureAdmin creates an admin account, or promotes and resets the password of
// the account already using name or email. It reports whether a user was created.
func EnsureAdmin(db *gorm.DB, name, email, password string) (models.User, bool, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" {
		return models.User{}, false, errors.New("name and email are required")
	}
	if len(password) < 8 {
		return models.User{}, false, errors.New("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, false, fmt.Errorf("hash password: %w", err)
	}

	var user models.User
	err = db.Where("name = ? OR email = ?", name, email).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{Name: name, Email: email, PasswordHash: string(hash), Role: models.RoleAdmin}
		if err := db.Create(&user).Error; err != nil {
			return models.User{}, false, fmt.Errorf("create admin: %w", err)
		}
		return user, true, nil
	case err != nil:
		return models.User{}, false, fmt.Errorf("find user: %w", err)
	}

	user.Role = models.RoleAdmin
	user.PasswordHash = string(hash)
	if err := db.Save(&user).Error; err != nil {
		return models.User{}, false, fmt.Errorf("promote admin: %w", err)
	}
	return user, false, nil
}
