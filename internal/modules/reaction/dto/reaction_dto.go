package dto

import "time"

type SetReactionRequest struct {
	ObjectID   string `json:"object_id" binding:"required"`
	ReactionID int    `json:"reaction_id" binding:"omitempty,min=1"`
	Present    *bool  `json:"present" binding:"required"`
}

type ReactionResponse struct {
	UserID        string    `json:"user_id"`
	ObjectID      string    `json:"object_id"`
	ObjectType    string    `json:"object_type"`
	ReactionID    int       `json:"reaction_id"`
	Active        bool      `json:"active"`
	SubmittedDate time.Time `json:"submitted_date"`
}
