package entity

import (
	"time"
)

type User struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Username     string `gorm:"size:32;uniqueIndex;not null" json:"username"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`

	// Denormalized counters. Kept consistent with the underlying rows by
	// the repositories; never written by callers directly.
	StoriesCount          int `gorm:"not null;default:0" json:"stories_count"`
	CommentsCount         int `gorm:"not null;default:0" json:"comments_count"`
	StoryReactionsCount   int `gorm:"not null;default:0" json:"story_reactions_count"`
	CommentReactionsCount int `gorm:"not null;default:0" json:"comment_reactions_count"`

	RegisteredDate time.Time `gorm:"autoCreateTime" json:"registered_date"`
}

func (User) TableName() string {
	return "users"
}
