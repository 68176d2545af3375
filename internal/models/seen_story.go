package models

import "time"

// SeenStory marks a news story URL as claimed by the scraper.
type SeenStory struct {
	Hash      string    `gorm:"size:40;primaryKey"`
	URL       string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"index;not null"`
}

func (SeenStory) TableName() string { return "seen_stories" }
