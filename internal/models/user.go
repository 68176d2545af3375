package models

// User is a site account. Only admins can log in to the dashboard.
type User struct {
	Base
	Username string `json:"username" gorm:"size:191;uniqueIndex;not null"`
	Password string `json:"-"        gorm:"not null"`
	Email    string `json:"email"    gorm:"size:191;uniqueIndex;not null"`
	FullName string `json:"fullName" gorm:"size:191"`
	IsAdmin  bool   `json:"isAdmin"  gorm:"not null;default:false"`
}

func (User) TableName() string { return "users" }
