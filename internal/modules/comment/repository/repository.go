package comment

import (
	"context"
	"errors"
	"time"

	"github.com/thebestory/backend/internal/entity"
	"github.com/thebestory/backend/pkg/apperror"
	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *entity.Comment) error
	FindByID(ctx context.Context, id uint64) (*entity.Comment, error)
	FindByStoryID(ctx context.Context, storyID uint64) ([]*entity.Comment, error)
	UpdateContent(ctx context.Context, id uint64, content string, now time.Time) (*entity.Comment, error)
	Remove(ctx context.Context, id uint64) error
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create inserts the comment and bumps both comments_count fields in one
// transaction. The guarded story update doubles as the liveness check, so a
// concurrently removed story can never gain a comment.
func (r *commentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entity.Story{}).
			Where("id = ? AND is_removed = ?", comment.StoryID, false).
			UpdateColumn("comments_count", gorm.Expr("comments_count + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&entity.Story{}).Where("id = ?", comment.StoryID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return apperror.ErrNotFound
			}
			return apperror.ErrStoryRemoved
		}

		if err := tx.Create(comment).Error; err != nil {
			return err
		}

		res = tx.Model(&entity.User{}).
			Where("id = ?", comment.AuthorID).
			UpdateColumn("comments_count", gorm.Expr("comments_count + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperror.ErrUnknownTarget
		}
		return nil
	})
}

func (r *commentRepository) FindByID(ctx context.Context, id uint64) (*entity.Comment, error) {
	var comment entity.Comment
	err := r.db.WithContext(ctx).
		Preload("Author").
		First(&comment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) FindByStoryID(ctx context.Context, storyID uint64) ([]*entity.Comment, error) {
	var comments []*entity.Comment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("story_id = ? AND is_removed = ?", storyID, false).
		Order("reactions_count DESC, id ASC").
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) UpdateContent(ctx context.Context, id uint64, content string, now time.Time) (*entity.Comment, error) {
	var comment entity.Comment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entity.Comment{}).
			Where("id = ? AND is_removed = ?", id, false).
			Updates(map[string]interface{}{
				"content":     content,
				"edited_date": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			if err := tx.First(&entity.Comment{}, "id = ?", id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperror.ErrNotFound
				}
				return err
			}
			return apperror.ErrRemoved
		}
		return tx.First(&comment, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// Remove soft-deletes the comment and walks back both comments_count
// fields. Idempotent for the same reason story removal is.
func (r *commentRepository) Remove(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comment entity.Comment
		if err := tx.First(&comment, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.ErrNotFound
			}
			return err
		}

		res := tx.Model(&entity.Comment{}).
			Where("id = ? AND is_removed = ?", id, false).
			UpdateColumn("is_removed", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Already removed.
			return nil
		}

		if err := tx.Model(&entity.Story{}).
			Where("id = ?", comment.StoryID).
			UpdateColumn("comments_count", gorm.Expr("comments_count - ?", 1)).Error; err != nil {
			return err
		}

		return tx.Model(&entity.User{}).
			Where("id = ?", comment.AuthorID).
			UpdateColumn("comments_count", gorm.Expr("comments_count - ?", 1)).Error
	})
}
