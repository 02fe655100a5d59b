package dto

import "time"

type RegisterInput struct {
	Username string `json:"username" binding:"required,min=2,max=32"`
	Email    string `json:"email" binding:"required,email,max=100"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

type UserResponse struct {
	ID                    string    `json:"id"`
	Username              string    `json:"username"`
	StoriesCount          int       `json:"stories_count"`
	CommentsCount         int       `json:"comments_count"`
	StoryReactionsCount   int       `json:"story_reactions_count"`
	CommentReactionsCount int       `json:"comment_reactions_count"`
	RegisteredDate        time.Time `json:"registered_date"`
}
