package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"workboard/internal/model"
)

// NoteRepository stores agent notes.
type NoteRepository struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

func (r *NoteRepository) Put(ctx context.Context, note *model.AgentNote) error {
	if err := upsert(r.db.WithContext(ctx), note); err != nil {
		return fmt.Errorf("put note: %w", err)
	}
	return nil
}

// ListActive returns active notes whose AppliesUntil is empty or not before date.
func (r *NoteRepository) ListActive(ctx context.Context, date string) ([]model.AgentNote, error) {
	var notes []model.AgentNote
	if err := r.db.WithContext(ctx).
		Where("active = ? AND (applies_until = '' OR applies_until >= ?)", true, date).
		Order("created_at ASC, id ASC").
		Find(&notes).Error; err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}
