package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"workboard/internal/model"
)

// SettingsRepository keeps the single settings row merged over defaults.
type SettingsRepository struct {
	db       *gorm.DB
	defaults model.Settings
}

func NewSettingsRepository(db *gorm.DB, defaults model.Settings) *SettingsRepository {
	return &SettingsRepository{db: db, defaults: defaults}
}

// Get returns stored settings with zero fields filled from defaults.
func (r *SettingsRepository) Get(ctx context.Context) (model.Settings, error) {
	var stored model.Settings
	ok, err := first(r.db.WithContext(ctx), &stored, "slot = ?", model.SettingsSlot)
	if err != nil {
		return model.Settings{}, fmt.Errorf("get settings: %w", err)
	}
	out := r.defaults
	out.Slot = model.SettingsSlot
	if !ok {
		return out, nil
	}
	if stored.DailyCapacityHours > 0 {
		out.DailyCapacityHours = stored.DailyCapacityHours
	}
	if stored.NudgeDelayMinutes > 0 {
		out.NudgeDelayMinutes = stored.NudgeDelayMinutes
	}
	if stored.TelegramChatID != 0 {
		out.TelegramChatID = stored.TelegramChatID
	}
	if stored.Persona != "" {
		out.Persona = stored.Persona
	}
	if stored.CustomSubtypes != nil {
		out.CustomSubtypes = stored.CustomSubtypes
	}
	out.UpdatedAt = stored.UpdatedAt
	return out, nil
}

func (r *SettingsRepository) Put(ctx context.Context, s *model.Settings) error {
	s.Slot = model.SettingsSlot
	if err := upsert(r.db.WithContext(ctx), s); err != nil {
		return fmt.Errorf("put settings: %w", err)
	}
	return nil
}
