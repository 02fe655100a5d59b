package entity

// Entity type tags recorded against every allocated id.
const (
	TypeUser     = "user"
	TypeTopic    = "topic"
	TypeStory    = "story"
	TypeComment  = "comment"
	TypeReaction = "reaction"
)

// Snowflake is one row of the global id space. Every entity, whatever its
// kind, owns exactly one row here; ids are never reused across kinds.
type Snowflake struct {
	ID   uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	Type string `gorm:"size:20;not null;index" json:"type"`
}

func (Snowflake) TableName() string {
	return "snowflakes"
}
