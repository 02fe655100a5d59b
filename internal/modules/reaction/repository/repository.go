package reaction

import (
	"context"
	"errors"
	"time"

	"github.com/thebestory/backend/internal/entity"
	"github.com/thebestory/backend/pkg/apperror"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Contended tuples are retried this many times before the conflict is
// surfaced to the caller.
const maxSetAttempts = 3

type ReactionRepository interface {
	// Set appends a ledger row for the tuple and reports whether it flipped
	// the tuple's active state. Counter adjustments ride in the same
	// transaction, keyed off the reported transition.
	Set(ctx context.Context, rec *entity.Reaction, objectType string, authorID uint64, present bool) (bool, error)
	IsActive(ctx context.Context, userID, objectID uint64, reactionID int) (bool, error)
	LatestEntry(ctx context.Context, userID, objectID uint64, reactionID int) (*entity.Reaction, error)
	History(ctx context.Context, userID, objectID uint64, reactionID int) ([]*entity.Reaction, error)
}

type reactionRepository struct {
	db *gorm.DB
}

func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

func (r *reactionRepository) Set(ctx context.Context, rec *entity.Reaction, objectType string, authorID uint64, present bool) (bool, error) {
	var transition bool
	var err error

	for attempt := 0; attempt < maxSetAttempts; attempt++ {
		transition, err = r.trySet(ctx, rec, objectType, authorID, present)
		if err == nil || !errors.Is(err, apperror.ErrConflict) {
			return transition, err
		}
	}
	return false, apperror.ErrConflict
}

// trySet runs one attempt as a single transaction:
//
//  1. flip the tuple's current-state row where it differs (a guarded write,
//     so two concurrent toggles can never both observe the same prior state);
//  2. if nothing flipped, insert the state row; a fresh tuple counts as an
//     implicit inactive, so a first present=true is a real transition and a
//     first present=false is not;
//  3. append the ledger row;
//  4. on a transition, move the object's and its author's counters.
func (r *reactionRepository) trySet(ctx context.Context, rec *entity.Reaction, objectType string, authorID uint64, present bool) (bool, error) {
	var transition bool

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		transition = false

		res := tx.Model(&entity.ReactionState{}).
			Where("user_id = ? AND object_id = ? AND reaction_id = ? AND active <> ?",
				rec.UserID, rec.ObjectID, rec.ReactionID, present).
			Updates(map[string]interface{}{
				"active":     present,
				"updated_at": time.Now().UTC(),
			})
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 1 {
			transition = true
		} else {
			state := entity.ReactionState{
				UserID:     rec.UserID,
				ObjectID:   rec.ObjectID,
				ReactionID: rec.ReactionID,
				Active:     present,
			}
			ins := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&state)
			if ins.Error != nil {
				return ins.Error
			}

			if ins.RowsAffected == 1 {
				// Fresh tuple; the implicit prior state is inactive.
				transition = present
			} else {
				// The row exists with, presumably, the same state. A
				// concurrent writer may have flipped it between our two
				// statements; re-check and retry if so.
				var current entity.ReactionState
				if err := tx.Where("user_id = ? AND object_id = ? AND reaction_id = ?",
					rec.UserID, rec.ObjectID, rec.ReactionID).First(&current).Error; err != nil {
					return err
				}
				if current.Active != present {
					return apperror.ErrConflict
				}
			}
		}

		rec.IsRemoved = !present
		if err := tx.Create(rec).Error; err != nil {
			return err
		}

		if !transition {
			return nil
		}

		delta := 1
		if !present {
			delta = -1
		}

		switch objectType {
		case entity.TypeStory:
			if err := tx.Model(&entity.Story{}).
				Where("id = ?", rec.ObjectID).
				UpdateColumn("reactions_count", gorm.Expr("reactions_count + ?", delta)).Error; err != nil {
				return err
			}
			return tx.Model(&entity.User{}).
				Where("id = ?", authorID).
				UpdateColumn("story_reactions_count", gorm.Expr("story_reactions_count + ?", delta)).Error
		case entity.TypeComment:
			if err := tx.Model(&entity.Comment{}).
				Where("id = ?", rec.ObjectID).
				UpdateColumn("reactions_count", gorm.Expr("reactions_count + ?", delta)).Error; err != nil {
				return err
			}
			return tx.Model(&entity.User{}).
				Where("id = ?", authorID).
				UpdateColumn("comment_reactions_count", gorm.Expr("comment_reactions_count + ?", delta)).Error
		default:
			return apperror.ErrUnknownTarget
		}
	})

	return transition, err
}

func (r *reactionRepository) IsActive(ctx context.Context, userID, objectID uint64, reactionID int) (bool, error) {
	var state entity.ReactionState
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND object_id = ? AND reaction_id = ?", userID, objectID, reactionID).
		First(&state).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Never toggled; a missing row is an implicit inactive.
			return false, nil
		}
		return false, err
	}
	return state.Active, nil
}

// LatestEntry returns the most recent ledger row for the tuple, ties broken
// by id, which is insertion order.
func (r *reactionRepository) LatestEntry(ctx context.Context, userID, objectID uint64, reactionID int) (*entity.Reaction, error) {
	var rec entity.Reaction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND object_id = ? AND reaction_id = ?", userID, objectID, reactionID).
		Order("submitted_date DESC, id DESC").
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *reactionRepository) History(ctx context.Context, userID, objectID uint64, reactionID int) ([]*entity.Reaction, error) {
	var recs []*entity.Reaction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND object_id = ? AND reaction_id = ?", userID, objectID, reactionID).
		Order("submitted_date ASC, id ASC").
		Find(&recs).Error
	return recs, err
}
