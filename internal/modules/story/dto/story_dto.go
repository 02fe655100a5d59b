package dto

import (
	"time"

	topicDto "github.com/thebestory/backend/internal/modules/topic/dto"
)

type SubmitStoryRequest struct {
	Topic   string `json:"topic" binding:"omitempty,min=2,max=32"`
	Content string `json:"content" binding:"required,min=1,max=16384"`
}

type EditStoryRequest struct {
	Content string `json:"content" binding:"required,min=1,max=16384"`
}

type StoryResponse struct {
	ID             string                 `json:"id"`
	Author         string                 `json:"author"`
	Topic          *topicDto.TopicResponse `json:"topic,omitempty"`
	Content        string                 `json:"content"`
	CommentsCount  int                    `json:"comments_count"`
	ReactionsCount int                    `json:"reactions_count"`
	IsPublished    bool                   `json:"is_published"`
	SubmittedDate  time.Time              `json:"submitted_date"`
	PublishedDate  *time.Time             `json:"published_date"`
	EditedDate     *time.Time             `json:"edited_date"`
}

type ListingQuery struct {
	Before string `form:"before"`
	After  string `form:"after"`
	Limit  int    `form:"limit"`
}
