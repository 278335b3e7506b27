package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"workboard/internal/model"
)

// CheckInRepository stores check-ins partitioned by date.
type CheckInRepository struct {
	db *gorm.DB
}

func NewCheckInRepository(db *gorm.DB) *CheckInRepository {
	return &CheckInRepository{db: db}
}

func (r *CheckInRepository) Put(ctx context.Context, ci *model.CheckIn) error {
	if err := upsert(r.db.WithContext(ctx), ci); err != nil {
		return fmt.Errorf("put checkin: %w", err)
	}
	return nil
}

// ListByDate returns the date's check-ins oldest first.
func (r *CheckInRepository) ListByDate(ctx context.Context, date string) ([]model.CheckIn, error) {
	var checkins []model.CheckIn
	if err := r.db.WithContext(ctx).Where("date = ?", date).
		Order("created_at ASC, id ASC").
		Find(&checkins).Error; err != nil {
		return nil, fmt.Errorf("list checkins: %w", err)
	}
	return checkins, nil
}

// SetResponse attaches the user's answer to a check-in.
func (r *CheckInRepository) SetResponse(ctx context.Context, id, response string, at time.Time) error {
	err := r.db.WithContext(ctx).Model(&model.CheckIn{}).Where("id = ?", id).
		Updates(map[string]any{"response": response, "response_at": at}).Error
	if err != nil {
		return fmt.Errorf("set checkin response: %w", err)
	}
	return nil
}
