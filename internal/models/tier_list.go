package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Tiers lists the ranks from best to worst.
var Tiers = []string{"SS", "S", "A", "B", "C", "D"}

// IsTier reports whether t is a known rank.
func IsTier(t string) bool {
	for _, tier := range Tiers {
		if tier == t {
			return true
		}
	}
	return false
}

// TierEntry is a ranked character.
type TierEntry struct {
	Name     string `json:"name" yaml:"name"`
	Tier     string `json:"tier" yaml:"tier"`
	Role     string `json:"role,omitempty" yaml:"role,omitempty"`
	ImageURL string `json:"image_url,omitempty" yaml:"image_url,omitempty"`
}

// TierList ranks the characters of a game.
type TierList struct {
	gorm.Model
	Title       string `gorm:"size:255;not null"`
	Slug        string `gorm:"size:255;uniqueIndex;not null"`
	Description string `gorm:"size:2000"`
	GameID      *uint  `gorm:"index"`
	Entries     datatypes.JSONSlice[TierEntry]

	Game *Game `gorm:"foreignKey:GameID"`
}
