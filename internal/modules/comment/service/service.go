package comment

import (
	"context"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/thebestory/backend/internal/entity"
	"github.com/thebestory/backend/internal/modules/comment/dto"
	repository "github.com/thebestory/backend/internal/modules/comment/repository"
	snowflake "github.com/thebestory/backend/internal/modules/snowflake/repository"
	storyRepo "github.com/thebestory/backend/internal/modules/story/repository"
	"github.com/thebestory/backend/pkg/apperror"
	"github.com/thebestory/backend/pkg/identifier"
)

type CommentService interface {
	Create(ctx context.Context, authorID, storyID uint64, req dto.CreateCommentRequest) (*dto.CommentResponse, error)
	ListByStory(ctx context.Context, storyID uint64, viewerID *uint64) ([]dto.CommentResponse, error)
	Edit(ctx context.Context, userID, commentID uint64, req dto.EditCommentRequest) (*dto.CommentResponse, error)
	Remove(ctx context.Context, userID, commentID uint64) error
}

type commentService struct {
	repo      repository.CommentRepository
	storyRepo storyRepo.StoryRepository
	allocator snowflake.Allocator
	sanitizer *bluemonday.Policy
}

func NewCommentService(repo repository.CommentRepository, storyRepo storyRepo.StoryRepository, allocator snowflake.Allocator) CommentService {
	return &commentService{
		repo:      repo,
		storyRepo: storyRepo,
		allocator: allocator,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

func (s *commentService) Create(ctx context.Context, authorID, storyID uint64, req dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	content := strings.TrimSpace(s.sanitizer.Sanitize(req.Content))
	if content == "" {
		return nil, apperror.ErrInvalidInput
	}

	id, err := s.allocator.Allocate(ctx, entity.TypeComment)
	if err != nil {
		return nil, err
	}

	comment := &entity.Comment{
		ID:       id,
		AuthorID: authorID,
		StoryID:  storyID,
		Content:  content,
	}

	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, err
	}

	resp := toCommentResponse(comment)
	return &resp, nil
}

// ListByStory mirrors the story details gate: removed stories 404, drafts
// are visible to their author only.
func (s *commentService) ListByStory(ctx context.Context, storyID uint64, viewerID *uint64) ([]dto.CommentResponse, error) {
	story, err := s.storyRepo.FindByID(ctx, storyID)
	if err != nil {
		return nil, err
	}
	if story.IsRemoved {
		return nil, apperror.ErrNotFound
	}
	if !story.IsPublished && (viewerID == nil || *viewerID != story.AuthorID) {
		return nil, apperror.ErrNotPublished
	}

	comments, err := s.repo.FindByStoryID(ctx, storyID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CommentResponse, 0, len(comments))
	for _, comment := range comments {
		responses = append(responses, toCommentResponse(comment))
	}
	return responses, nil
}

func (s *commentService) Edit(ctx context.Context, userID, commentID uint64, req dto.EditCommentRequest) (*dto.CommentResponse, error) {
	if err := s.requireAuthor(ctx, userID, commentID); err != nil {
		return nil, err
	}

	content := strings.TrimSpace(s.sanitizer.Sanitize(req.Content))
	if content == "" {
		return nil, apperror.ErrInvalidInput
	}

	comment, err := s.repo.UpdateContent(ctx, commentID, content, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	resp := toCommentResponse(comment)
	return &resp, nil
}

func (s *commentService) Remove(ctx context.Context, userID, commentID uint64) error {
	if err := s.requireAuthor(ctx, userID, commentID); err != nil {
		return err
	}
	return s.repo.Remove(ctx, commentID)
}

func (s *commentService) requireAuthor(ctx context.Context, userID, commentID uint64) error {
	comment, err := s.repo.FindByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.AuthorID != userID {
		return apperror.ErrForbidden
	}
	return nil
}

func toCommentResponse(comment *entity.Comment) dto.CommentResponse {
	resp := dto.CommentResponse{
		ID:             identifier.To36(comment.ID),
		StoryID:        identifier.To36(comment.StoryID),
		Content:        comment.Content,
		ReactionsCount: comment.ReactionsCount,
		SubmittedDate:  comment.SubmittedDate,
		EditedDate:     comment.EditedDate,
	}
	if comment.Author != nil {
		resp.Author = comment.Author.Username
	}
	return resp
}
