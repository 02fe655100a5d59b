package topic

import (
	"context"
	"errors"

	"github.com/thebestory/backend/internal/entity"
	"github.com/thebestory/backend/pkg/apperror"
	"gorm.io/gorm"
)

type TopicRepository interface {
	Create(ctx context.Context, topic *entity.Topic) error
	FindByID(ctx context.Context, id uint64) (*entity.Topic, error)
	FindBySlug(ctx context.Context, slug string) (*entity.Topic, error)
	FindAll(ctx context.Context, activeOnly bool) ([]*entity.Topic, error)
	SetActive(ctx context.Context, id uint64, active bool) error
}

type topicRepository struct {
	db *gorm.DB
}

func NewTopicRepository(db *gorm.DB) TopicRepository {
	return &topicRepository{db: db}
}

func (r *topicRepository) Create(ctx context.Context, topic *entity.Topic) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&entity.Topic{}).Where("slug = ?", topic.Slug).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperror.ErrSlugTaken
		}
		return tx.Create(topic).Error
	})

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperror.ErrSlugTaken
	}

	return err
}

func (r *topicRepository) FindByID(ctx context.Context, id uint64) (*entity.Topic, error) {
	var topic entity.Topic
	if err := r.db.WithContext(ctx).First(&topic, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return &topic, nil
}

func (r *topicRepository) FindBySlug(ctx context.Context, slug string) (*entity.Topic, error) {
	var topic entity.Topic
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&topic).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return &topic, nil
}

func (r *topicRepository) FindAll(ctx context.Context, activeOnly bool) ([]*entity.Topic, error) {
	var topics []*entity.Topic
	query := r.db.WithContext(ctx)

	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	if err := query.Order("slug ASC").Find(&topics).Error; err != nil {
		return nil, err
	}
	return topics, nil
}

func (r *topicRepository) SetActive(ctx context.Context, id uint64, active bool) error {
	res := r.db.WithContext(ctx).Model(&entity.Topic{}).
		Where("id = ?", id).
		UpdateColumn("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.ErrNotFound
	}
	return nil
}
