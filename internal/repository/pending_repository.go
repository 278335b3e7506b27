package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"workboard/internal/model"
)

// PendingRepository holds the single-slot pending task.
type PendingRepository struct {
	db *gorm.DB
}

func NewPendingRepository(db *gorm.DB) *PendingRepository {
	return &PendingRepository{db: db}
}

// Get returns the live pending task. An expired record is deleted and
// reported as absent.
func (r *PendingRepository) Get(ctx context.Context, now time.Time) (*model.PendingTask, error) {
	var pending model.PendingTask
	ok, err := first(r.db.WithContext(ctx), &pending, "slot = ?", model.PendingSlot)
	if err != nil {
		return nil, fmt.Errorf("get pending: %w", err)
	}
	if !ok {
		return nil, nil
	}
	if pending.Expired(now) {
		if err := r.Clear(ctx); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return &pending, nil
}

// Save overwrites the slot.
func (r *PendingRepository) Save(ctx context.Context, pending *model.PendingTask) error {
	pending.Slot = model.PendingSlot
	if err := upsert(r.db.WithContext(ctx), pending); err != nil {
		return fmt.Errorf("save pending: %w", err)
	}
	return nil
}

func (r *PendingRepository) Clear(ctx context.Context) error {
	if err := r.db.WithContext(ctx).Where("slot = ?", model.PendingSlot).Delete(&model.PendingTask{}).Error; err != nil {
		return fmt.Errorf("clear pending: %w", err)
	}
	return nil
}
