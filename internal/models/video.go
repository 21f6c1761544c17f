package models

import (
	"time"

	"gorm.io/gorm"
)

// YouTubeVideo is an embedded video featured on the site.
type YouTubeVideo struct {
	gorm.Model
	Title       string    `gorm:"size:255;not null"`
	VideoID     string    `gorm:"size:11;uniqueIndex;not null"`
	Description string    `gorm:"size:2000"`
	GameID      *uint     `gorm:"index"`
	PublishedAt time.Time `gorm:"not null;index"`

	Game *Game `gorm:"foreignKey:GameID"`
}

func (YouTubeVideo) TableName() string {
	return "youtube_videos"
}

// URL returns the canonical watch URL.
func (v YouTubeVideo) URL() string {
	return "https://www.youtube.com/watch?v=" + v.VideoID
}

// EmbedURL returns the privacy-enhanced embed URL.
func (v YouTubeVideo) EmbedURL() string {
	return "https://www.youtube-nocookie.com/embed/" + v.VideoID
}
