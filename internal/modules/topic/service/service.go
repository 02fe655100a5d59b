package topic

import (
	"context"

	"github.com/thebestory/backend/internal/entity"
	snowflake "github.com/thebestory/backend/internal/modules/snowflake/repository"
	"github.com/thebestory/backend/internal/modules/topic/dto"
	repository "github.com/thebestory/backend/internal/modules/topic/repository"
	"github.com/thebestory/backend/pkg/identifier"
)

type TopicService interface {
	CreateTopic(ctx context.Context, req dto.CreateTopicRequest) (*dto.TopicResponse, error)
	GetBySlug(ctx context.Context, slug string) (*dto.TopicResponse, error)
	GetAll(ctx context.Context, includeInactive bool) ([]dto.TopicResponse, error)
}

type topicService struct {
	repo      repository.TopicRepository
	allocator snowflake.Allocator
}

func NewTopicService(repo repository.TopicRepository, allocator snowflake.Allocator) TopicService {
	return &topicService{repo: repo, allocator: allocator}
}

func (s *topicService) CreateTopic(ctx context.Context, req dto.CreateTopicRequest) (*dto.TopicResponse, error) {
	id, err := s.allocator.Allocate(ctx, entity.TypeTopic)
	if err != nil {
		return nil, err
	}

	topic := &entity.Topic{
		ID:          id,
		Title:       req.Title,
		Slug:        req.Slug,
		Description: req.Description,
		Icon:        req.Icon,
		IsActive:    true,
	}

	if err := s.repo.Create(ctx, topic); err != nil {
		return nil, err
	}

	resp := toTopicResponse(topic)
	return &resp, nil
}

func (s *topicService) GetBySlug(ctx context.Context, slug string) (*dto.TopicResponse, error) {
	topic, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	resp := toTopicResponse(topic)
	return &resp, nil
}

func (s *topicService) GetAll(ctx context.Context, includeInactive bool) ([]dto.TopicResponse, error) {
	topics, err := s.repo.FindAll(ctx, !includeInactive)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.TopicResponse, 0, len(topics))
	for _, t := range topics {
		responses = append(responses, toTopicResponse(t))
	}
	return responses, nil
}

func toTopicResponse(topic *entity.Topic) dto.TopicResponse {
	return dto.TopicResponse{
		ID:           identifier.To36(topic.ID),
		Title:        topic.Title,
		Slug:         topic.Slug,
		Description:  topic.Description,
		Icon:         topic.Icon,
		StoriesCount: topic.StoriesCount,
		IsActive:     topic.IsActive,
	}
}
