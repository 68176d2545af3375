package models

import "time"

// UserSession is a login session persisted by the database session store.
type UserSession struct {
	Token     string    `json:"-"         gorm:"size:64;primaryKey"`
	UserID    uint      `json:"userId"    gorm:"index;not null"`
	ExpiresAt time.Time `json:"expiresAt" gorm:"index;not null"`
	CreatedAt time.Time `json:"createdAt"`
}

func (UserSession) TableName() string { return "user_sessions" }
