package reaction

import (
	"context"

	commentRepo "github.com/thebestory/backend/internal/modules/comment/repository"
	"github.com/thebestory/backend/internal/entity"
	"github.com/thebestory/backend/internal/modules/reaction/dto"
	repository "github.com/thebestory/backend/internal/modules/reaction/repository"
	snowflake "github.com/thebestory/backend/internal/modules/snowflake/repository"
	storyRepo "github.com/thebestory/backend/internal/modules/story/repository"
	"github.com/thebestory/backend/pkg/apperror"
	"github.com/thebestory/backend/pkg/identifier"
)

type ReactionService interface {
	SetReaction(ctx context.Context, userID, objectID uint64, reactionID int, present bool) (*dto.ReactionResponse, error)
	IsActive(ctx context.Context, userID, objectID uint64, reactionID int) (bool, error)
}

type reactionService struct {
	repo        repository.ReactionRepository
	allocator   snowflake.Allocator
	storyRepo   storyRepo.StoryRepository
	commentRepo commentRepo.CommentRepository
}

func NewReactionService(repo repository.ReactionRepository, allocator snowflake.Allocator, storyRepo storyRepo.StoryRepository, commentRepo commentRepo.CommentRepository) ReactionService {
	return &reactionService{
		repo:        repo,
		allocator:   allocator,
		storyRepo:   storyRepo,
		commentRepo: commentRepo,
	}
}

// SetReaction resolves the polymorphic target through the snowflake table,
// allocates an id for the ledger row and hands the rest to the repository.
// Reacting to a removed or unpublished target is rejected, as the public API
// always has.
func (s *reactionService) SetReaction(ctx context.Context, userID, objectID uint64, reactionID int, present bool) (*dto.ReactionResponse, error) {
	if reactionID == 0 {
		reactionID = entity.ReactionLike
	}

	objectType, err := s.allocator.Resolve(ctx, objectID)
	if err != nil {
		return nil, err
	}

	var authorID uint64
	switch objectType {
	case entity.TypeStory:
		story, err := s.storyRepo.FindByID(ctx, objectID)
		if err != nil {
			return nil, err
		}
		if story.IsRemoved {
			return nil, apperror.ErrRemoved
		}
		if !story.IsPublished {
			return nil, apperror.ErrNotPublished
		}
		authorID = story.AuthorID
	case entity.TypeComment:
		comment, err := s.commentRepo.FindByID(ctx, objectID)
		if err != nil {
			return nil, err
		}
		if comment.IsRemoved {
			return nil, apperror.ErrRemoved
		}
		authorID = comment.AuthorID
	default:
		return nil, apperror.ErrUnknownTarget
	}

	id, err := s.allocator.Allocate(ctx, entity.TypeReaction)
	if err != nil {
		return nil, err
	}

	rec := &entity.Reaction{
		ID:         id,
		UserID:     userID,
		ObjectID:   objectID,
		ReactionID: reactionID,
	}

	if _, err := s.repo.Set(ctx, rec, objectType, authorID, present); err != nil {
		return nil, err
	}

	return &dto.ReactionResponse{
		UserID:        identifier.To36(userID),
		ObjectID:      identifier.To36(objectID),
		ObjectType:    objectType,
		ReactionID:    reactionID,
		Active:        !rec.IsRemoved,
		SubmittedDate: rec.SubmittedDate,
	}, nil
}

func (s *reactionService) IsActive(ctx context.Context, userID, objectID uint64, reactionID int) (bool, error) {
	if reactionID == 0 {
		reactionID = entity.ReactionLike
	}
	return s.repo.IsActive(ctx, userID, objectID, reactionID)
}
