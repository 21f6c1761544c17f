package models

import "gorm.io/gorm"

// Tag labels articles and guides (e.g., "Reroll", "Banner", "F2P").
type Tag struct {
	gorm.Model
	Name string `gorm:"size:100;unique;not null"`
	Slug string `gorm:"size:100;uniqueIndex;not null"`
}

// SeoKeyword is a search keyword attached to articles.
type SeoKeyword struct {
	gorm.Model
	Keyword string `gorm:"size:150;unique;not null"`
}
