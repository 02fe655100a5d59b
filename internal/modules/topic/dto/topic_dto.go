package dto

type CreateTopicRequest struct {
	Title       string `json:"title" binding:"required,min=2,max=64"`
	Slug        string `json:"slug" binding:"required,min=2,max=32,lowercase"`
	Description string `json:"description" binding:"max=4096"`
	Icon        string `json:"icon" binding:"max=16"`
}

type TopicResponse struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Slug         string `json:"slug"`
	Description  string `json:"description"`
	Icon         string `json:"icon"`
	StoriesCount int    `json:"stories_count"`
	IsActive     bool   `json:"is_active"`
}
