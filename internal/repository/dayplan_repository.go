package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"workboard/internal/model"
)

// DayPlanRepository stores one plan per calendar date.
type DayPlanRepository struct {
	db *gorm.DB
}

func NewDayPlanRepository(db *gorm.DB) *DayPlanRepository {
	return &DayPlanRepository{db: db}
}

func (r *DayPlanRepository) Put(ctx context.Context, plan *model.DayPlan) error {
	if err := upsert(r.db.WithContext(ctx), plan); err != nil {
		return fmt.Errorf("put dayplan: %w", err)
	}
	return nil
}

func (r *DayPlanRepository) Get(ctx context.Context, date string) (*model.DayPlan, error) {
	var plan model.DayPlan
	ok, err := first(r.db.WithContext(ctx), &plan, "date = ?", date)
	if err != nil {
		return nil, fmt.Errorf("get dayplan: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return &plan, nil
}

func (r *DayPlanRepository) UpdateFields(ctx context.Context, date string, fields map[string]any) error {
	if err := r.db.WithContext(ctx).Model(&model.DayPlan{}).Where("date = ?", date).Updates(fields).Error; err != nil {
		return fmt.Errorf("update dayplan: %w", err)
	}
	return nil
}
