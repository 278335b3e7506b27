package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"workboard/internal/model"
)

// BehaviorRepository stores behavior overrides.
type BehaviorRepository struct {
	db *gorm.DB
}

func NewBehaviorRepository(db *gorm.DB) *BehaviorRepository {
	return &BehaviorRepository{db: db}
}

func (r *BehaviorRepository) Put(ctx context.Context, o *model.BehaviorOverride) error {
	if err := upsert(r.db.WithContext(ctx), o); err != nil {
		return fmt.Errorf("put override: %w", err)
	}
	return nil
}

// ListActive returns overrides still flagged active, oldest first.
func (r *BehaviorRepository) ListActive(ctx context.Context) ([]model.BehaviorOverride, error) {
	var overrides []model.BehaviorOverride
	if err := r.db.WithContext(ctx).Where("active = ?", true).
		Order("created_at ASC, id ASC").
		Find(&overrides).Error; err != nil {
		return nil, fmt.Errorf("list overrides: %w", err)
	}
	return overrides, nil
}

func (r *BehaviorRepository) Deactivate(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Model(&model.BehaviorOverride{}).
		Where("id IN ?", ids).
		Update("active", false).Error
	if err != nil {
		return fmt.Errorf("deactivate overrides: %w", err)
	}
	return nil
}
