package entity

type Topic struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Title       string `gorm:"size:64;not null" json:"title"`
	Slug        string `gorm:"size:32;uniqueIndex;not null" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
	Icon        string `gorm:"size:16" json:"icon"`

	// Published, non-removed stories under this topic.
	StoriesCount int `gorm:"not null;default:0" json:"stories_count"`

	IsActive bool `gorm:"not null;default:true" json:"is_active"`
}

func (Topic) TableName() string {
	return "topics"
}
