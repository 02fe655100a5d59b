package dto

import "time"

type CreateCommentRequest struct {
	Content string `json:"content" binding:"required,min=1,max=8192"`
}

type EditCommentRequest struct {
	Content string `json:"content" binding:"required,min=1,max=8192"`
}

type CommentResponse struct {
	ID             string     `json:"id"`
	StoryID        string     `json:"story_id"`
	Author         string     `json:"author"`
	Content        string     `json:"content"`
	ReactionsCount int        `json:"reactions_count"`
	SubmittedDate  time.Time  `json:"submitted_date"`
	EditedDate     *time.Time `json:"edited_date"`
}
