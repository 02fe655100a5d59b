package story

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/thebestory/backend/internal/entity"
	"github.com/thebestory/backend/pkg/apperror"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&entity.Snowflake{},
		&entity.User{},
		&entity.Topic{},
		&entity.Story{},
	))

	return db
}

func mustUser(t *testing.T, db *gorm.DB, id uint64, username string) *entity.User {
	t.Helper()
	user := &entity.User{ID: id, Username: username, Email: username + "@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func mustTopic(t *testing.T, db *gorm.DB, id uint64, slug string) *entity.Topic {
	t.Helper()
	topic := &entity.Topic{ID: id, Title: slug, Slug: slug, IsActive: true}
	require.NoError(t, db.Create(topic).Error)
	return topic
}

func userStoriesCount(t *testing.T, db *gorm.DB, userID uint64) int {
	t.Helper()
	var user entity.User
	require.NoError(t, db.First(&user, "id = ?", userID).Error)
	return user.StoriesCount
}

func topicStoriesCount(t *testing.T, db *gorm.DB, topicID uint64) int {
	t.Helper()
	var topic entity.Topic
	require.NoError(t, db.First(&topic, "id = ?", topicID).Error)
	return topic.StoriesCount
}

func TestCreateIncrementsAuthorCount(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStoryRepository(db, true)
	ctx := context.Background()

	mustUser(t, db, 1, "alice")

	require.NoError(t, repo.Create(ctx, &entity.Story{ID: 10, AuthorID: 1, Content: "once upon a time"}))
	assert.Equal(t, 1, userStoriesCount(t, db, 1))

	require.NoError(t, repo.Create(ctx, &entity.Story{ID: 11, AuthorID: 1, Content: "another one"}))
	assert.Equal(t, 2, userStoriesCount(t, db, 1))

	// A draft is not published and not removed.
	story, err := repo.FindByID(ctx, 10)
	require.NoError(t, err)
	assert.False(t, story.IsPublished)
	assert.False(t, story.IsRemoved)
	assert.Nil(t, story.PublishedDate)
}

func TestCreateUnknownAuthor(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStoryRepository(db, true)

	err := repo.Create(context.Background(), &entity.Story{ID: 10, AuthorID: 42, Content: "orphan"})
	assert.ErrorIs(t, err, apperror.ErrUnknownTarget)
}

func TestPublishStampsDateExactlyOnce(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStoryRepository(db, true)
	ctx := context.Background()

	mustUser(t, db, 1, "alice")
	topic := mustTopic(t, db, 2, "funny")
	topicID := topic.ID

	require.NoError(t, repo.Create(ctx, &entity.Story{ID: 10, AuthorID: 1, TopicID: &topicID, Content: "draft"}))

	first := time.Date(2017, 3, 4, 12, 0, 0, 0, time.UTC)
	story, err := repo.Publish(ctx, 10, first)
	require.NoError(t, err)
	assert.True(t, story.IsPublished)
	require.NotNil(t, story.PublishedDate)
	assert.True(t, story.PublishedDate.Equal(first))
	assert.Equal(t, 1, topicStoriesCount(t, db, topicID))

	// Re-publishing is a no-op, not an error; the date and counter hold.
	second := first.Add(time.Hour)
	story, err = repo.Publish(ctx, 10, second)
	require.NoError(t, err)
	require.NotNil(t, story.PublishedDate)

	reloaded, err := repo.FindByID(ctx, 10)
	require.NoError(t, err)
	assert.True(t, reloaded.PublishedDate.Equal(first))
	assert.Equal(t, 1, topicStoriesCount(t, db, topicID))
}

func TestPublishRemovedStory(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStoryRepository(db, true)
	ctx := context.Background()

	mustUser(t, db, 1, "alice")
	require.NoError(t, repo.Create(ctx, &entity.Story{ID: 10, AuthorID: 1, Content: "draft"}))
	require.NoError(t, repo.Remove(ctx, 10))

	_, err := repo.Publish(ctx, 10, time.Now().UTC())
	assert.ErrorIs(t, err, apperror.ErrRemoved)
}

func TestEditStampsEditedDate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStoryRepository(db, true)
	ctx := context.Background()

	mustUser(t, db, 1, "alice")
	require.NoError(t, repo.Create(ctx, &entity.Story{ID: 10, AuthorID: 1, Content: "v1"}))

	now := time.Date(2017, 5, 6, 9, 0, 0, 0, time.UTC)
	story, err := repo.UpdateContent(ctx, 10, "v2", now)
	require.NoError(t, err)
	assert.Equal(t, "v2", story.Content)
	require.NotNil(t, story.EditedDate)
	assert.True(t, story.EditedDate.Equal(now))
}

func TestEditRemovedStory(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStoryRepository(db, true)
	ctx := context.Background()

	mustUser(t, db, 1, "alice")
	require.NoError(t, repo.Create(ctx, &entity.Story{ID: 10, AuthorID: 1, Content: "v1"}))
	require.NoError(t, repo.Remove(ctx, 10))

	_, err := repo.UpdateContent(ctx, 10, "v2", time.Now().UTC())
	assert.ErrorIs(t, err, apperror.ErrRemoved)

	_, err = repo.UpdateContent(ctx, 99, "v2", time.Now().UTC())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestRemoveIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStoryRepository(db, true)
	ctx := context.Background()

	mustUser(t, db, 1, "alice")
	topic := mustTopic(t, db, 2, "funny")
	topicID := topic.ID

	require.NoError(t, repo.Create(ctx, &entity.Story{ID: 10, AuthorID: 1, TopicID: &topicID, Content: "draft"}))
	_, err := repo.Publish(ctx, 10, time.Now().UTC())
	require.NoError(t, err)
	require.Equal(t, 1, topicStoriesCount(t, db, topicID))

	require.NoError(t, repo.Remove(ctx, 10))
	assert.Equal(t, 0, topicStoriesCount(t, db, topicID))

	// Second removal changes nothing.
	require.NoError(t, repo.Remove(ctx, 10))
	assert.Equal(t, 0, topicStoriesCount(t, db, topicID))

	story, err := repo.FindByID(ctx, 10)
	require.NoError(t, err)
	assert.True(t, story.IsRemoved)
}

func TestRemoveAuthorCountPolicy(t *testing.T) {
	t.Run("historical count keeps removed stories", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewStoryRepository(db, true)
		ctx := context.Background()

		mustUser(t, db, 1, "alice")
		require.NoError(t, repo.Create(ctx, &entity.Story{ID: 10, AuthorID: 1, Content: "s"}))
		require.NoError(t, repo.Remove(ctx, 10))

		assert.Equal(t, 1, userStoriesCount(t, db, 1))
	})

	t.Run("live count drops removed stories", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewStoryRepository(db, false)
		ctx := context.Background()

		mustUser(t, db, 1, "alice")
		require.NoError(t, repo.Create(ctx, &entity.Story{ID: 10, AuthorID: 1, Content: "s"}))
		require.NoError(t, repo.Remove(ctx, 10))

		assert.Equal(t, 0, userStoriesCount(t, db, 1))

		// Removal stays idempotent under this policy too.
		require.NoError(t, repo.Remove(ctx, 10))
		assert.Equal(t, 0, userStoriesCount(t, db, 1))
	})
}

func TestListingsExcludeDraftsAndRemoved(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStoryRepository(db, true)
	ctx := context.Background()

	mustUser(t, db, 1, "alice")

	require.NoError(t, repo.Create(ctx, &entity.Story{ID: 10, AuthorID: 1, Content: "draft"}))
	require.NoError(t, repo.Create(ctx, &entity.Story{ID: 11, AuthorID: 1, Content: "published"}))
	require.NoError(t, repo.Create(ctx, &entity.Story{ID: 12, AuthorID: 1, Content: "gone"}))

	_, err := repo.Publish(ctx, 11, time.Now().UTC())
	require.NoError(t, err)
	_, err = repo.Publish(ctx, 12, time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, repo.Remove(ctx, 12))

	latest, err := repo.Latest(ctx, 0, DirectionNone, 25)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, uint64(11), latest[0].ID)

	top, err := repo.Top(ctx, 0, DirectionNone, 25)
	require.NoError(t, err)
	require.Len(t, top, 1)

	random, err := repo.Random(ctx, 25)
	require.NoError(t, err)
	require.Len(t, random, 1)
}
