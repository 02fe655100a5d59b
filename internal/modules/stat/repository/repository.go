package stat

import (
	"context"

	"github.com/thebestory/backend/internal/entity"
	"gorm.io/gorm"
)

// StatRepository recomputes every denormalized counter from the underlying
// rows. These are the from-scratch aggregates the stored counters must
// always agree with; the write paths maintain the counters incrementally
// and these queries are the authority when they are audited.
type StatRepository interface {
	StoriesByAuthor(ctx context.Context, authorID uint64, includeRemoved bool) (int64, error)
	PublishedStoriesInTopic(ctx context.Context, topicID uint64) (int64, error)
	CommentsOnStory(ctx context.Context, storyID uint64) (int64, error)
	CommentsByAuthor(ctx context.Context, authorID uint64) (int64, error)
	ActiveReactionsOnObject(ctx context.Context, objectID uint64) (int64, error)
	ActiveStoryReactionsForAuthor(ctx context.Context, authorID uint64) (int64, error)
	ActiveCommentReactionsForAuthor(ctx context.Context, authorID uint64) (int64, error)
}

type statRepository struct {
	db *gorm.DB
}

func NewStatRepository(db *gorm.DB) StatRepository {
	return &statRepository{db: db}
}

func (r *statRepository) StoriesByAuthor(ctx context.Context, authorID uint64, includeRemoved bool) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&entity.Story{}).Where("author_id = ?", authorID)
	if !includeRemoved {
		query = query.Where("is_removed = ?", false)
	}
	err := query.Count(&count).Error
	return count, err
}

func (r *statRepository) PublishedStoriesInTopic(ctx context.Context, topicID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Story{}).
		Where("topic_id = ? AND is_published = ? AND is_removed = ?", topicID, true, false).
		Count(&count).Error
	return count, err
}

func (r *statRepository) CommentsOnStory(ctx context.Context, storyID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Comment{}).
		Where("story_id = ? AND is_removed = ?", storyID, false).
		Count(&count).Error
	return count, err
}

func (r *statRepository) CommentsByAuthor(ctx context.Context, authorID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Comment{}).
		Where("author_id = ? AND is_removed = ?", authorID, false).
		Count(&count).Error
	return count, err
}

// activeReactionSQL counts tuples whose latest ledger row is active. Ties on
// submitted_date break by id, which is insertion order.
const activeReactionSQL = `
SELECT COUNT(*) FROM reactions r
WHERE r.is_removed = ?
  AND r.id = (
    SELECT r2.id FROM reactions r2
    WHERE r2.user_id = r.user_id
      AND r2.object_id = r.object_id
      AND r2.reaction_id = r.reaction_id
    ORDER BY r2.submitted_date DESC, r2.id DESC
    LIMIT 1
  )`

func (r *statRepository) ActiveReactionsOnObject(ctx context.Context, objectID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Raw(activeReactionSQL+" AND r.object_id = ?", false, objectID).
		Scan(&count).Error
	return count, err
}

func (r *statRepository) ActiveStoryReactionsForAuthor(ctx context.Context, authorID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Raw(activeReactionSQL+" AND r.object_id IN (SELECT id FROM stories WHERE author_id = ?)", false, authorID).
		Scan(&count).Error
	return count, err
}

func (r *statRepository) ActiveCommentReactionsForAuthor(ctx context.Context, authorID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Raw(activeReactionSQL+" AND r.object_id IN (SELECT id FROM comments WHERE author_id = ?)", false, authorID).
		Scan(&count).Error
	return count, err
}
