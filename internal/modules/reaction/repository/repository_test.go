package reaction

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/thebestory/backend/internal/entity"
	stat "github.com/thebestory/backend/internal/modules/stat/repository"
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
		&entity.Story{},
		&entity.Comment{},
		&entity.Reaction{},
		&entity.ReactionState{},
	))

	return db
}

// seedStory creates the story author (id 1) and a published story (id 10).
func seedStory(t *testing.T, db *gorm.DB) *entity.Story {
	t.Helper()

	author := &entity.User{ID: 1, Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(author).Error)

	now := time.Now().UTC()
	story := &entity.Story{ID: 10, AuthorID: author.ID, Content: "story", IsPublished: true, PublishedDate: &now}
	require.NoError(t, db.Create(story).Error)
	return story
}

func seedReactor(t *testing.T, db *gorm.DB, id uint64) *entity.User {
	t.Helper()
	user := &entity.User{ID: id, Username: fmt.Sprintf("user%d", id), Email: fmt.Sprintf("user%d@example.com", id), PasswordHash: "x"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func storyReactionsCount(t *testing.T, db *gorm.DB, storyID uint64) int {
	t.Helper()
	var story entity.Story
	require.NoError(t, db.First(&story, "id = ?", storyID).Error)
	return story.ReactionsCount
}

func authorStoryReactions(t *testing.T, db *gorm.DB, userID uint64) int {
	t.Helper()
	var user entity.User
	require.NoError(t, db.First(&user, "id = ?", userID).Error)
	return user.StoryReactionsCount
}

// set toggles with a fresh ledger id from the shared sequence.
func set(t *testing.T, repo ReactionRepository, seq *uint64, userID, objectID uint64, present bool) bool {
	t.Helper()
	rec := &entity.Reaction{
		ID:         atomic.AddUint64(seq, 1) + 1000,
		UserID:     userID,
		ObjectID:   objectID,
		ReactionID: entity.ReactionLike,
	}
	transition, err := repo.Set(context.Background(), rec, entity.TypeStory, 1, present)
	require.NoError(t, err)
	return transition
}

func TestLedgerRowsPersistExplicitState(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReactionRepository(db)
	ctx := context.Background()
	story := seedStory(t, db)
	seedReactor(t, db, 2)
	var seq uint64

	// A row recording a presence must round-trip is_removed=false; an
	// insert that silently stores the column default would flatten the
	// whole ledger into absences.
	rec := &entity.Reaction{ID: 500, UserID: 2, ObjectID: story.ID, ReactionID: entity.ReactionLike, IsRemoved: false}
	require.NoError(t, db.Create(rec).Error)

	var got entity.Reaction
	require.NoError(t, db.First(&got, "id = ?", 500).Error)
	assert.False(t, got.IsRemoved)
	require.NoError(t, db.Delete(&entity.Reaction{}, "id = ?", 500).Error)

	// Through the repository, the ledger mirrors each call's state.
	set(t, repo, &seq, 2, story.ID, true)
	set(t, repo, &seq, 2, story.ID, false)
	set(t, repo, &seq, 2, story.ID, true)

	history, err := repo.History(ctx, 2, story.ID, entity.ReactionLike)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.False(t, history[0].IsRemoved)
	assert.True(t, history[1].IsRemoved)
	assert.False(t, history[2].IsRemoved)
}

func TestFirstToggleSemantics(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReactionRepository(db)
	story := seedStory(t, db)
	seedReactor(t, db, 2)
	var seq uint64

	// A tuple never toggled is implicitly inactive, so a first
	// present=false appends a row without a transition.
	assert.False(t, set(t, repo, &seq, 2, story.ID, false))
	assert.Equal(t, 0, storyReactionsCount(t, db, story.ID))

	// The first present=true is a real transition.
	assert.True(t, set(t, repo, &seq, 2, story.ID, true))
	assert.Equal(t, 1, storyReactionsCount(t, db, story.ID))
	assert.Equal(t, 1, authorStoryReactions(t, db, 1))
}

func TestSetIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReactionRepository(db)
	story := seedStory(t, db)
	seedReactor(t, db, 2)
	var seq uint64

	assert.True(t, set(t, repo, &seq, 2, story.ID, true))
	assert.False(t, set(t, repo, &seq, 2, story.ID, true))
	assert.False(t, set(t, repo, &seq, 2, story.ID, true))

	// Counters moved once; the ledger recorded every call.
	assert.Equal(t, 1, storyReactionsCount(t, db, story.ID))

	history, err := repo.History(context.Background(), 2, story.ID, entity.ReactionLike)
	require.NoError(t, err)
	assert.Len(t, history, 3)
}

func TestRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReactionRepository(db)
	ctx := context.Background()
	story := seedStory(t, db)
	seedReactor(t, db, 2)
	var seq uint64

	assert.True(t, set(t, repo, &seq, 2, story.ID, true))
	assert.True(t, set(t, repo, &seq, 2, story.ID, false))
	assert.True(t, set(t, repo, &seq, 2, story.ID, true))

	assert.Equal(t, 1, storyReactionsCount(t, db, story.ID))
	assert.Equal(t, 1, authorStoryReactions(t, db, 1))

	active, err := repo.IsActive(ctx, 2, story.ID, entity.ReactionLike)
	require.NoError(t, err)
	assert.True(t, active)

	latest, err := repo.LatestEntry(ctx, 2, story.ID, entity.ReactionLike)
	require.NoError(t, err)
	assert.False(t, latest.IsRemoved)
}

func TestUntoggledTupleIsInactive(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReactionRepository(db)
	story := seedStory(t, db)

	active, err := repo.IsActive(context.Background(), 99, story.ID, entity.ReactionLike)
	require.NoError(t, err)
	assert.False(t, active)
}

func TestCommentReactionCounters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReactionRepository(db)
	ctx := context.Background()
	story := seedStory(t, db)
	seedReactor(t, db, 2)

	comment := &entity.Comment{ID: 20, AuthorID: 1, StoryID: story.ID, Content: "c"}
	require.NoError(t, db.Create(comment).Error)

	rec := &entity.Reaction{ID: 2001, UserID: 2, ObjectID: comment.ID, ReactionID: entity.ReactionLike}
	transition, err := repo.Set(ctx, rec, entity.TypeComment, 1, true)
	require.NoError(t, err)
	assert.True(t, transition)

	var got entity.Comment
	require.NoError(t, db.First(&got, "id = ?", comment.ID).Error)
	assert.Equal(t, 1, got.ReactionsCount)

	var author entity.User
	require.NoError(t, db.First(&author, "id = ?", uint64(1)).Error)
	assert.Equal(t, 1, author.CommentReactionsCount)
	assert.Equal(t, 0, author.StoryReactionsCount)
}

func TestCountersMatchLedgerRecount(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReactionRepository(db)
	ctx := context.Background()
	story := seedStory(t, db)
	statRepo := stat.NewStatRepository(db)
	var seq uint64

	// Three users with distinct toggle histories: ends active, ends
	// inactive, never active.
	seedReactor(t, db, 2)
	seedReactor(t, db, 3)
	seedReactor(t, db, 4)

	set(t, repo, &seq, 2, story.ID, true)
	set(t, repo, &seq, 2, story.ID, false)
	set(t, repo, &seq, 2, story.ID, true)

	set(t, repo, &seq, 3, story.ID, true)
	set(t, repo, &seq, 3, story.ID, false)

	set(t, repo, &seq, 4, story.ID, false)

	recount, err := statRepo.ActiveReactionsOnObject(ctx, story.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), recount)
	assert.Equal(t, int(recount), storyReactionsCount(t, db, story.ID))

	perAuthor, err := statRepo.ActiveStoryReactionsForAuthor(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int(perAuthor), authorStoryReactions(t, db, 1))
}

func TestConcurrentDistinctUsers(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReactionRepository(db)
	story := seedStory(t, db)

	const users = 20
	for i := 0; i < users; i++ {
		seedReactor(t, db, uint64(100+i))
	}

	var seq uint64
	var wg sync.WaitGroup
	errs := make(chan error, users)
	for i := 0; i < users; i++ {
		wg.Add(1)
		go func(userID uint64) {
			defer wg.Done()
			rec := &entity.Reaction{
				ID:         atomic.AddUint64(&seq, 1) + 1000,
				UserID:     userID,
				ObjectID:   story.ID,
				ReactionID: entity.ReactionLike,
			}
			_, err := repo.Set(context.Background(), rec, entity.TypeStory, 1, true)
			errs <- err
		}(uint64(100 + i))
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	assert.Equal(t, users, storyReactionsCount(t, db, story.ID))
	assert.Equal(t, users, authorStoryReactions(t, db, 1))

	recount, err := stat.NewStatRepository(db).ActiveReactionsOnObject(context.Background(), story.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(users), recount)
}
