package story

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"

	"github.com/thebestory/backend/internal/entity"
	snowflake "github.com/thebestory/backend/internal/modules/snowflake/repository"
	"github.com/thebestory/backend/internal/modules/story/dto"
	repository "github.com/thebestory/backend/internal/modules/story/repository"
	topicDto "github.com/thebestory/backend/internal/modules/topic/dto"
	topicRepo "github.com/thebestory/backend/internal/modules/topic/repository"
	"github.com/thebestory/backend/pkg/apperror"
	"github.com/thebestory/backend/pkg/identifier"
	"github.com/thebestory/backend/pkg/ratelimiter"
)

// Listing bounds, matching the public feed defaults.
const (
	listingMinLimit     = 1
	listingMaxLimit     = 100
	listingDefaultLimit = 25
)

type StoryService interface {
	Submit(ctx context.Context, authorID uint64, req dto.SubmitStoryRequest) (*dto.StoryResponse, error)
	Details(ctx context.Context, storyID uint64, viewerID *uint64) (*dto.StoryResponse, error)
	Publish(ctx context.Context, userID, storyID uint64) (*dto.StoryResponse, error)
	Edit(ctx context.Context, userID, storyID uint64, req dto.EditStoryRequest) (*dto.StoryResponse, error)
	Remove(ctx context.Context, userID, storyID uint64) error
	Latest(ctx context.Context, query dto.ListingQuery) ([]dto.StoryResponse, error)
	Top(ctx context.Context, query dto.ListingQuery) ([]dto.StoryResponse, error)
	Random(ctx context.Context, limit int) ([]dto.StoryResponse, error)
}

type storyService struct {
	repo        repository.StoryRepository
	topicRepo   topicRepo.TopicRepository
	allocator   snowflake.Allocator
	redisClient *redis.Client
	submitEvery time.Duration
	sanitizer   *bluemonday.Policy
}

func NewStoryService(repo repository.StoryRepository, topicRepo topicRepo.TopicRepository, allocator snowflake.Allocator, redisClient *redis.Client, submitEvery time.Duration) StoryService {
	return &storyService{
		repo:        repo,
		topicRepo:   topicRepo,
		allocator:   allocator,
		redisClient: redisClient,
		submitEvery: submitEvery,
		sanitizer:   bluemonday.StrictPolicy(),
	}
}

func (s *storyService) Submit(ctx context.Context, authorID uint64, req dto.SubmitStoryRequest) (*dto.StoryResponse, error) {
	limit := s.submitEvery
	allowed, err := ratelimiter.CheckAndSetRateLimit(ctx, s.redisClient, authorID, "story", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to check rate limit: %w", err)
	}
	if !allowed {
		ttl, _ := ratelimiter.GetRateLimitTTL(ctx, s.redisClient, authorID, "story")
		return nil, &ratelimiter.RateLimitError{
			Message:    fmt.Sprintf("you can only submit one story every %.0f seconds. Please wait %.0f seconds", limit.Seconds(), ttl.Seconds()),
			RetryAfter: ttl,
		}
	}

	content := strings.TrimSpace(s.sanitizer.Sanitize(req.Content))
	if content == "" {
		_ = ratelimiter.ClearRateLimit(ctx, s.redisClient, authorID, "story")
		return nil, apperror.ErrInvalidInput
	}

	var topicID *uint64
	var topic *entity.Topic
	if req.Topic != "" {
		topic, err = s.topicRepo.FindBySlug(ctx, req.Topic)
		if err != nil {
			_ = ratelimiter.ClearRateLimit(ctx, s.redisClient, authorID, "story")
			return nil, err
		}
		if !topic.IsActive {
			_ = ratelimiter.ClearRateLimit(ctx, s.redisClient, authorID, "story")
			return nil, apperror.ErrForbidden
		}
		topicID = &topic.ID
	}

	id, err := s.allocator.Allocate(ctx, entity.TypeStory)
	if err != nil {
		return nil, err
	}

	story := &entity.Story{
		ID:       id,
		AuthorID: authorID,
		TopicID:  topicID,
		Content:  content,
	}

	if err := s.repo.Create(ctx, story); err != nil {
		_ = ratelimiter.ClearRateLimit(ctx, s.redisClient, authorID, "story")
		return nil, err
	}

	story.Topic = topic
	resp := toStoryResponse(story)
	return &resp, nil
}

// Details hides removed stories entirely and drafts from everyone but their
// author, the way the public API always has.
func (s *storyService) Details(ctx context.Context, storyID uint64, viewerID *uint64) (*dto.StoryResponse, error) {
	story, err := s.repo.FindByID(ctx, storyID)
	if err != nil {
		return nil, err
	}
	if story.IsRemoved {
		return nil, apperror.ErrNotFound
	}
	if !story.IsPublished && (viewerID == nil || *viewerID != story.AuthorID) {
		return nil, apperror.ErrNotPublished
	}

	resp := toStoryResponse(story)
	return &resp, nil
}

func (s *storyService) Publish(ctx context.Context, userID, storyID uint64) (*dto.StoryResponse, error) {
	if err := s.requireAuthor(ctx, userID, storyID); err != nil {
		return nil, err
	}

	story, err := s.repo.Publish(ctx, storyID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	resp := toStoryResponse(story)
	return &resp, nil
}

func (s *storyService) Edit(ctx context.Context, userID, storyID uint64, req dto.EditStoryRequest) (*dto.StoryResponse, error) {
	if err := s.requireAuthor(ctx, userID, storyID); err != nil {
		return nil, err
	}

	content := strings.TrimSpace(s.sanitizer.Sanitize(req.Content))
	if content == "" {
		return nil, apperror.ErrInvalidInput
	}

	story, err := s.repo.UpdateContent(ctx, storyID, content, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	resp := toStoryResponse(story)
	return &resp, nil
}

func (s *storyService) Remove(ctx context.Context, userID, storyID uint64) error {
	if err := s.requireAuthor(ctx, userID, storyID); err != nil {
		return err
	}
	return s.repo.Remove(ctx, storyID)
}

func (s *storyService) Latest(ctx context.Context, query dto.ListingQuery) ([]dto.StoryResponse, error) {
	pivot, direction, limit, err := validateListing(query)
	if err != nil {
		return nil, err
	}
	stories, err := s.repo.Latest(ctx, pivot, direction, limit)
	if err != nil {
		return nil, err
	}
	return toStoryResponses(stories), nil
}

func (s *storyService) Top(ctx context.Context, query dto.ListingQuery) ([]dto.StoryResponse, error) {
	pivot, direction, limit, err := validateListing(query)
	if err != nil {
		return nil, err
	}
	stories, err := s.repo.Top(ctx, pivot, direction, limit)
	if err != nil {
		return nil, err
	}
	return toStoryResponses(stories), nil
}

func (s *storyService) Random(ctx context.Context, limit int) ([]dto.StoryResponse, error) {
	if limit < listingMinLimit || limit > listingMaxLimit {
		limit = listingDefaultLimit
	}
	stories, err := s.repo.Random(ctx, limit)
	if err != nil {
		return nil, err
	}
	return toStoryResponses(stories), nil
}

func (s *storyService) requireAuthor(ctx context.Context, userID, storyID uint64) error {
	story, err := s.repo.FindByID(ctx, storyID)
	if err != nil {
		return err
	}
	if story.AuthorID != userID {
		return apperror.ErrForbidden
	}
	return nil
}

func validateListing(query dto.ListingQuery) (uint64, repository.Direction, int, error) {
	if query.Before != "" && query.After != "" {
		return 0, repository.DirectionNone, 0, apperror.ErrInvalidInput
	}

	limit := query.Limit
	if limit == 0 {
		limit = listingDefaultLimit
	}
	if limit < listingMinLimit || limit > listingMaxLimit {
		return 0, repository.DirectionNone, 0, apperror.ErrInvalidInput
	}

	switch {
	case query.Before != "":
		pivot, err := identifier.From36(query.Before)
		if err != nil {
			return 0, repository.DirectionNone, 0, err
		}
		return pivot, repository.DirectionBefore, limit, nil
	case query.After != "":
		pivot, err := identifier.From36(query.After)
		if err != nil {
			return 0, repository.DirectionNone, 0, err
		}
		return pivot, repository.DirectionAfter, limit, nil
	}
	return 0, repository.DirectionNone, limit, nil
}

func toStoryResponse(story *entity.Story) dto.StoryResponse {
	resp := dto.StoryResponse{
		ID:             identifier.To36(story.ID),
		Content:        story.Content,
		CommentsCount:  story.CommentsCount,
		ReactionsCount: story.ReactionsCount,
		IsPublished:    story.IsPublished,
		SubmittedDate:  story.SubmittedDate,
		PublishedDate:  story.PublishedDate,
		EditedDate:     story.EditedDate,
	}

	if story.Author != nil {
		resp.Author = story.Author.Username
	}

	if story.Topic != nil {
		resp.Topic = &topicDto.TopicResponse{
			ID:           identifier.To36(story.Topic.ID),
			Title:        story.Topic.Title,
			Slug:         story.Topic.Slug,
			Description:  story.Topic.Description,
			Icon:         story.Topic.Icon,
			StoriesCount: story.Topic.StoriesCount,
			IsActive:     story.Topic.IsActive,
		}
	}

	return resp
}

func toStoryResponses(stories []*entity.Story) []dto.StoryResponse {
	responses := make([]dto.StoryResponse, 0, len(stories))
	for _, story := range stories {
		responses = append(responses, toStoryResponse(story))
	}
	return responses
}
