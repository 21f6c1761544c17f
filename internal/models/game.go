package models

import (
	"time"

	"gorm.io/gorm"
)

// Game represents a gacha title in the catalog.
type Game struct {
	gorm.Model
	Name        string `gorm:"size:255;not null"`
	Slug        string `gorm:"size:255;uniqueIndex;not null"`
	Genre       string `gorm:"size:100;index"`
	Developer   string `gorm:"size:255"`
	Description string
	ImageURL    string `gorm:"size:512"`
	ReleaseDate *time.Time
	Platforms   []*Platform `gorm:"many2many:game_platforms;"`
}

// Platform is a device family a game ships on (iOS, Android, PC...).
type Platform struct {
	gorm.Model
	Name string `gorm:"size:100;unique;not null"`
	Slug string `gorm:"size:100;uniqueIndex;not null"`
}

// GamePlatform is the join row between games and platforms.
type GamePlatform struct {
	GameID     uint `gorm:"primaryKey"`
	PlatformID uint `gorm:"primaryKey"`
}
