package entity

import (
	"time"
)

// Reaction kinds. The column is general but the platform currently only
// ships likes.
const ReactionLike = 1

// Reaction is one toggle event in the append-only ledger, not a persistent
// fact. A row with IsRemoved=true records an absence; the current state of a
// (user, object, kind) tuple is the latest row for it by SubmittedDate, ties
// broken by id.
type Reaction struct {
	ID         uint64 `gorm:"primaryKey;autoIncrement:false" json:"id"`
	UserID     uint64 `gorm:"not null;index:idx_reactions_tuple,priority:1" json:"user_id"`
	User       *User  `gorm:"foreignKey:UserID" json:"-"`
	ObjectID   uint64 `gorm:"not null;index:idx_reactions_tuple,priority:2;index:idx_reactions_object" json:"object_id"`
	ReactionID int    `gorm:"not null;index:idx_reactions_tuple,priority:3" json:"reaction_id"`

	// No schema default: gorm drops zero-valued fields carrying a default
	// tag from the INSERT, which would turn every explicit false into true.
	// The repository writes this field on every insert.
	IsRemoved bool `gorm:"not null" json:"is_removed"`

	SubmittedDate time.Time `gorm:"autoCreateTime" json:"submitted_date"`
}

func (Reaction) TableName() string {
	return "reactions"
}

// ReactionState materializes the current state of one ledger tuple so that
// transition detection is a single guarded write instead of a read-then-act
// race. It always equals the latest ledger row for its tuple.
type ReactionState struct {
	UserID     uint64 `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	ObjectID   uint64 `gorm:"primaryKey;autoIncrement:false" json:"object_id"`
	ReactionID int    `gorm:"primaryKey;autoIncrement:false" json:"reaction_id"`

	Active    bool      `gorm:"not null" json:"active"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ReactionState) TableName() string {
	return "reaction_states"
}
