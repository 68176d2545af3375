package models

import "time"

// Base is embedded by rows that carry an auto-increment id and creation time.
type Base struct {
	ID        uint      `json:"id"        gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `json:"createdAt"`
}

// All lists every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Category{},
		&Article{},
		&Tag{},
		&ArticleTag{},
		&UserSession{},
		&SeenStory{},
	}
}
