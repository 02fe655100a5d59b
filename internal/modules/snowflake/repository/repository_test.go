package snowflake

import (
	"context"
	"fmt"
	"sync"
	"testing"

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

	require.NoError(t, db.AutoMigrate(&entity.Snowflake{}))

	return db
}

func TestAllocateAssignsDistinctIDs(t *testing.T) {
	db := setupTestDB(t)
	allocator := NewAllocator(db)
	ctx := context.Background()

	a, err := allocator.Allocate(ctx, entity.TypeUser)
	require.NoError(t, err)
	b, err := allocator.Allocate(ctx, entity.TypeStory)
	require.NoError(t, err)

	assert.NotZero(t, a)
	assert.NotEqual(t, a, b)
}

func TestResolveReturnsRecordedType(t *testing.T) {
	db := setupTestDB(t)
	allocator := NewAllocator(db)
	ctx := context.Background()

	id, err := allocator.Allocate(ctx, entity.TypeComment)
	require.NoError(t, err)

	typ, err := allocator.Resolve(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, entity.TypeComment, typ)
}

func TestResolveUnknownID(t *testing.T) {
	db := setupTestDB(t)
	allocator := NewAllocator(db)

	_, err := allocator.Resolve(context.Background(), 999999)
	assert.ErrorIs(t, err, apperror.ErrUnknownTarget)
}

func TestConcurrentAllocationMixedTypes(t *testing.T) {
	db := setupTestDB(t)
	allocator := NewAllocator(db)
	ctx := context.Background()

	const workers = 50
	const perWorker = 200

	types := []string{
		entity.TypeUser,
		entity.TypeTopic,
		entity.TypeStory,
		entity.TypeComment,
		entity.TypeReaction,
	}

	var mu sync.Mutex
	seen := make(map[uint64]string, workers*perWorker)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			entityType := types[w%len(types)]
			for i := 0; i < perWorker; i++ {
				id, err := allocator.Allocate(ctx, entityType)
				if err != nil {
					t.Errorf("allocate failed: %v", err)
					return
				}
				mu.Lock()
				seen[id] = entityType
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()

	require.Len(t, seen, workers*perWorker, "every allocation must yield a distinct id")

	// Spot-check the recorded type tags.
	checked := 0
	for id, want := range seen {
		got, err := allocator.Resolve(ctx, id)
		require.NoError(t, err)
		require.Equal(t, want, got)
		checked++
		if checked >= 100 {
			break
		}
	}

	var total int64
	require.NoError(t, db.Model(&entity.Snowflake{}).Count(&total).Error)
	assert.Equal(t, int64(workers*perWorker), total)
}
