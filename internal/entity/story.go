package entity

import (
	"time"
)

type Story struct {
	ID       uint64  `gorm:"primaryKey;autoIncrement:false" json:"id"`
	AuthorID uint64  `gorm:"not null;index" json:"author_id"`
	Author   *User   `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	TopicID  *uint64 `gorm:"index" json:"topic_id"`
	Topic    *Topic  `gorm:"foreignKey:TopicID" json:"topic,omitempty"`
	Content  string  `gorm:"type:text;not null" json:"content"`

	CommentsCount  int `gorm:"not null;default:0" json:"comments_count"`
	ReactionsCount int `gorm:"not null;default:0" json:"reactions_count"`

	IsPublished bool `gorm:"not null;default:false" json:"is_published"`
	// Terminal soft delete. Once set it never flips back.
	IsRemoved bool `gorm:"not null;default:false" json:"is_removed"`

	SubmittedDate time.Time  `gorm:"autoCreateTime" json:"submitted_date"`
	PublishedDate *time.Time `json:"published_date"`
	EditedDate    *time.Time `json:"edited_date"`
}

func (Story) TableName() string {
	return "stories"
}
