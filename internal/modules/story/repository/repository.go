package story

import (
	"context"
	"errors"
	"time"

	"github.com/thebestory/backend/internal/entity"
	"github.com/thebestory/backend/pkg/apperror"
	"gorm.io/gorm"
)

// Listing direction for pivot-based pages, as the public feed uses.
type Direction int

const (
	DirectionNone Direction = iota
	DirectionBefore
	DirectionAfter
)

type StoryRepository interface {
	Create(ctx context.Context, story *entity.Story) error
	FindByID(ctx context.Context, id uint64) (*entity.Story, error)
	Publish(ctx context.Context, id uint64, now time.Time) (*entity.Story, error)
	UpdateContent(ctx context.Context, id uint64, content string, now time.Time) (*entity.Story, error)
	Remove(ctx context.Context, id uint64) error
	Latest(ctx context.Context, pivot uint64, direction Direction, limit int) ([]*entity.Story, error)
	Top(ctx context.Context, pivot uint64, direction Direction, limit int) ([]*entity.Story, error)
	Random(ctx context.Context, limit int) ([]*entity.Story, error)
}

type storyRepository struct {
	db *gorm.DB
	// countRemoved keeps removed stories in the author's lifetime count.
	countRemoved bool
}

func NewStoryRepository(db *gorm.DB, countRemoved bool) StoryRepository {
	return &storyRepository{db: db, countRemoved: countRemoved}
}

// Create inserts the draft and bumps the author's stories_count in the same
// transaction, so the counter is never observably stale.
func (r *storyRepository) Create(ctx context.Context, story *entity.Story) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(story).Error; err != nil {
			return err
		}

		res := tx.Model(&entity.User{}).
			Where("id = ?", story.AuthorID).
			UpdateColumn("stories_count", gorm.Expr("stories_count + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperror.ErrUnknownTarget
		}
		return nil
	})
}

func (r *storyRepository) FindByID(ctx context.Context, id uint64) (*entity.Story, error) {
	var story entity.Story
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Topic").
		First(&story, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return &story, nil
}

// Publish stamps published_date exactly once. Re-publishing an already
// published story is a no-op; publishing a removed story is a stale-state
// error. The topic counter moves with the guarded update, not with the read.
func (r *storyRepository) Publish(ctx context.Context, id uint64, now time.Time) (*entity.Story, error) {
	var story entity.Story
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&story, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.ErrNotFound
			}
			return err
		}
		if story.IsRemoved {
			return apperror.ErrRemoved
		}

		res := tx.Model(&entity.Story{}).
			Where("id = ? AND is_published = ? AND is_removed = ?", id, false, false).
			Updates(map[string]interface{}{
				"is_published":   true,
				"published_date": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Already published.
			return nil
		}

		story.IsPublished = true
		story.PublishedDate = &now

		if story.TopicID != nil {
			if err := tx.Model(&entity.Topic{}).
				Where("id = ?", *story.TopicID).
				UpdateColumn("stories_count", gorm.Expr("stories_count + ?", 1)).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &story, nil
}

func (r *storyRepository) UpdateContent(ctx context.Context, id uint64, content string, now time.Time) (*entity.Story, error) {
	var story entity.Story
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entity.Story{}).
			Where("id = ? AND is_removed = ?", id, false).
			Updates(map[string]interface{}{
				"content":     content,
				"edited_date": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			if err := tx.First(&entity.Story{}, "id = ?", id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperror.ErrNotFound
				}
				return err
			}
			return apperror.ErrRemoved
		}
		return tx.First(&story, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &story, nil
}

// Remove soft-deletes the story. Idempotent: the guarded update decides
// whether counters move, so a second call changes nothing.
func (r *storyRepository) Remove(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var story entity.Story
		if err := tx.First(&story, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.ErrNotFound
			}
			return err
		}

		res := tx.Model(&entity.Story{}).
			Where("id = ? AND is_removed = ?", id, false).
			UpdateColumn("is_removed", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Already removed.
			return nil
		}

		if story.IsPublished && story.TopicID != nil {
			if err := tx.Model(&entity.Topic{}).
				Where("id = ?", *story.TopicID).
				UpdateColumn("stories_count", gorm.Expr("stories_count - ?", 1)).Error; err != nil {
				return err
			}
		}

		if !r.countRemoved {
			if err := tx.Model(&entity.User{}).
				Where("id = ?", story.AuthorID).
				UpdateColumn("stories_count", gorm.Expr("stories_count - ?", 1)).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *storyRepository) Latest(ctx context.Context, pivot uint64, direction Direction, limit int) ([]*entity.Story, error) {
	return r.listPublished(ctx, "published_date DESC", pivot, direction, limit)
}

func (r *storyRepository) Top(ctx context.Context, pivot uint64, direction Direction, limit int) ([]*entity.Story, error) {
	return r.listPublished(ctx, "reactions_count DESC", pivot, direction, limit)
}

func (r *storyRepository) Random(ctx context.Context, limit int) ([]*entity.Story, error) {
	var stories []*entity.Story
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Topic").
		Where("is_published = ? AND is_removed = ?", true, false).
		Order("RANDOM()").
		Limit(limit).
		Find(&stories).Error
	return stories, err
}

func (r *storyRepository) listPublished(ctx context.Context, order string, pivot uint64, direction Direction, limit int) ([]*entity.Story, error) {
	var stories []*entity.Story

	query := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Topic").
		Where("is_published = ? AND is_removed = ?", true, false)

	switch direction {
	case DirectionBefore:
		query = query.Where("id > ?", pivot)
	case DirectionAfter:
		query = query.Where("id < ?", pivot)
	}

	err := query.Order(order).Limit(limit).Find(&stories).Error
	return stories, err
}
