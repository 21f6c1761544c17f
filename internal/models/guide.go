package models

import (
	"time"

	"gorm.io/gorm"
)

type GuideDifficulty string

const (
	DifficultyBeginner     GuideDifficulty = "beginner"
	DifficultyIntermediate GuideDifficulty = "intermediate"
	DifficultyAdvanced     GuideDifficulty = "advanced"
)

type GuideType string

const (
	GuideTypeBeginner  GuideType = "beginner"
	GuideTypeCharacter GuideType = "character"
	GuideTypeTeam      GuideType = "team"
	GuideTypeFarming   GuideType = "farming"
	GuideTypeEvent     GuideType = "event"
	GuideTypeReroll    GuideType = "reroll"
)

// Guide is a long-form walkthrough split into ordered sections.
type Guide struct {
	gorm.Model
	Title       string          `gorm:"size:255;not null"`
	Slug        string          `gorm:"size:255;uniqueIndex;not null"`
	Summary     string          `gorm:"size:1000"`
	AuthorID    uint            `gorm:"not null;index"`
	GameID      *uint           `gorm:"index"`
	Difficulty  GuideDifficulty `gorm:"size:50;not null;default:'beginner';index"`
	Type        GuideType       `gorm:"size:50;not null;index"`
	ImageURL    string          `gorm:"size:512"`
	PublishedAt time.Time       `gorm:"not null;index"`

	Author   User           `gorm:"foreignKey:AuthorID"`
	Game     *Game          `gorm:"foreignKey:GameID"`
	Tags     []*Tag         `gorm:"many2many:guide_tags;"`
	Sections []GuideSection `gorm:"foreignKey:GuideID;constraint:OnDelete:CASCADE;"`
}

// GuideSection is one chapter of a guide. Position is zero-based and dense.
type GuideSection struct {
	ID       uint   `gorm:"primaryKey"`
	GuideID  uint   `gorm:"not null;index"`
	Position int    `gorm:"not null"`
	Title    string `gorm:"size:255;not null"`
	Content  string `gorm:"type:text"`
}
