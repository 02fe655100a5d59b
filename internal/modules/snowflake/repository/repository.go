package snowflake

import (
	"context"
	"errors"
	"fmt"

	"github.com/thebestory/backend/internal/entity"
	"github.com/thebestory/backend/pkg/apperror"
	"gorm.io/gorm"
)

// Allocator hands out ids from the global snowflake space. The (id, type)
// row is committed before the id is returned, so a crash between allocation
// and the entity write leaves at most an orphaned snowflake row and never a
// duplicate id.
type Allocator interface {
	Allocate(ctx context.Context, entityType string) (uint64, error)
	Resolve(ctx context.Context, id uint64) (string, error)
}

type allocator struct {
	db *gorm.DB
}

func NewAllocator(db *gorm.DB) Allocator {
	return &allocator{db: db}
}

func (a *allocator) Allocate(ctx context.Context, entityType string) (uint64, error) {
	row := entity.Snowflake{Type: entityType}
	if err := a.db.WithContext(ctx).Create(&row).Error; err != nil {
		// The only failure modes here are storage I/O and id-space
		// exhaustion. Neither is retryable.
		return 0, fmt.Errorf("id allocation failed: %w", err)
	}
	return row.ID, nil
}

// Resolve returns the entity kind owning id, or ErrUnknownTarget.
func (a *allocator) Resolve(ctx context.Context, id uint64) (string, error) {
	var row entity.Snowflake
	err := a.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperror.ErrUnknownTarget
		}
		return "", err
	}
	return row.Type, nil
}
