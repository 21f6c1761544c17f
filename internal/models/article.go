package models

import (
	"time"

	"gorm.io/gorm"
)

// ArticleCategory classifies news articles.
type ArticleCategory string

const (
	CategoryNews   ArticleCategory = "news"
	CategoryEvent  ArticleCategory = "event"
	CategoryUpdate ArticleCategory = "update"
	CategoryReview ArticleCategory = "review"
	CategoryBanner ArticleCategory = "banner"
)

// Article is a news post. It is public once PublishedAt is in the past.
type Article struct {
	gorm.Model
	Title       string          `gorm:"size:255;not null"`
	Slug        string          `gorm:"size:255;uniqueIndex;not null"`
	Summary     string          `gorm:"size:1000"`
	Content     string          `gorm:"type:text;not null"`
	AuthorID    uint            `gorm:"not null;index"`
	Category    ArticleCategory `gorm:"size:50;not null;default:'news';index"`
	ImageURL    string          `gorm:"size:512"`
	PublishedAt time.Time       `gorm:"not null;index"`
	ReadingTime int             `gorm:"not null;default:1"`
	GameID      *uint           `gorm:"index"`

	Author      User          `gorm:"foreignKey:AuthorID"`
	Game        *Game         `gorm:"foreignKey:GameID"`
	Tags        []*Tag        `gorm:"many2many:article_tags;"`
	SeoKeywords []*SeoKeyword `gorm:"many2many:article_seo_keywords;"`
}

// ArticleTag is the join row between articles and tags.
type ArticleTag struct {
	ArticleID uint `gorm:"primaryKey"`
	TagID     uint `gorm:"primaryKey"`
}

// ArticleSeoKeyword is the join row between articles and SEO keywords.
type ArticleSeoKeyword struct {
	ArticleID    uint `gorm:"primaryKey"`
	SeoKeywordID uint `gorm:"primaryKey"`
}
