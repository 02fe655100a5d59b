package stat

import (
	"context"

	repository "github.com/thebestory/backend/internal/modules/stat/repository"
	userRepo "github.com/thebestory/backend/internal/modules/user/repository"
)

type UserStats struct {
	Username              string `json:"username"`
	StoriesCount          int64  `json:"stories_count"`
	CommentsCount         int64  `json:"comments_count"`
	StoryReactionsCount   int64  `json:"story_reactions_count"`
	CommentReactionsCount int64  `json:"comment_reactions_count"`
}

type StatService interface {
	// UserStats recomputes the user's aggregates from the underlying rows,
	// bypassing the stored counters.
	UserStats(ctx context.Context, username string, includeRemovedStories bool) (*UserStats, error)
}

type statService struct {
	repo  repository.StatRepository
	users userRepo.UserRepository
}

func NewStatService(repo repository.StatRepository, users userRepo.UserRepository) StatService {
	return &statService{repo: repo, users: users}
}

func (s *statService) UserStats(ctx context.Context, username string, includeRemovedStories bool) (*UserStats, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	stories, err := s.repo.StoriesByAuthor(ctx, user.ID, includeRemovedStories)
	if err != nil {
		return nil, err
	}
	comments, err := s.repo.CommentsByAuthor(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	storyReactions, err := s.repo.ActiveStoryReactionsForAuthor(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	commentReactions, err := s.repo.ActiveCommentReactionsForAuthor(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &UserStats{
		Username:              user.Username,
		StoriesCount:          stories,
		CommentsCount:         comments,
		StoryReactionsCount:   storyReactions,
		CommentReactionsCount: commentReactions,
	}, nil
}
