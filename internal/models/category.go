package models

// Category groups articles on the public site.
type Category struct {
	ID          uint   `json:"id"          gorm:"primaryKey;autoIncrement"`
	Name        string `json:"name"        gorm:"size:191;not null"`
	Slug        string `json:"slug"        gorm:"size:191;uniqueIndex;not null"`
	Description string `json:"description" gorm:"type:text"`
	Color       string `json:"color"       gorm:"size:32"`
	BgColor     string `json:"bgColor"     gorm:"size:32"`
}

func (Category) TableName() string { return "categories" }
