package entity

import (
	"time"
)

type Comment struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement:false" json:"id"`
	AuthorID uint64 `gorm:"not null;index" json:"author_id"`
	Author   *User  `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	StoryID  uint64 `gorm:"not null;index" json:"story_id"`
	Story    *Story `gorm:"foreignKey:StoryID" json:"-"`
	Content  string `gorm:"type:text;not null" json:"content"`

	ReactionsCount int `gorm:"not null;default:0" json:"reactions_count"`

	IsRemoved bool `gorm:"not null;default:false" json:"is_removed"`

	SubmittedDate time.Time  `gorm:"autoCreateTime" json:"submitted_date"`
	EditedDate    *time.Time `json:"edited_date"`
}

func (Comment) TableName() string {
	return "comments"
}
