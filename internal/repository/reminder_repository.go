package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"workboard/internal/model"
)

// ReminderRepository stores reminders.
type ReminderRepository struct {
	db *gorm.DB
}

func NewReminderRepository(db *gorm.DB) *ReminderRepository {
	return &ReminderRepository{db: db}
}

func (r *ReminderRepository) Put(ctx context.Context, rem *model.Reminder) error {
	if err := upsert(r.db.WithContext(ctx), rem); err != nil {
		return fmt.Errorf("put reminder: %w", err)
	}
	return nil
}

// ListActive returns active reminders in creation order, which is the
// numbering users see.
func (r *ReminderRepository) ListActive(ctx context.Context) ([]model.Reminder, error) {
	var reminders []model.Reminder
	if err := r.db.WithContext(ctx).Where("active = ?", true).
		Order("created_at ASC, id ASC").
		Find(&reminders).Error; err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	return reminders, nil
}

func (r *ReminderRepository) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	if err := r.db.WithContext(ctx).Model(&model.Reminder{}).Where("id = ?", id).Updates(fields).Error; err != nil {
		return fmt.Errorf("update reminder: %w", err)
	}
	return nil
}
