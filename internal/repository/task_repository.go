package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"workboard/internal/model"
)

// TaskRepository handles tasks keyed by id with week and date secondary indexes.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Put inserts or fully overwrites a task.
func (r *TaskRepository) Put(ctx context.Context, task *model.Task) error {
	if err := upsert(r.db.WithContext(ctx), task); err != nil {
		return fmt.Errorf("put task: %w", err)
	}
	return nil
}

// Get returns nil when the task does not exist.
func (r *TaskRepository) Get(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	ok, err := first(r.db.WithContext(ctx), &task, "id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return &task, nil
}

// UpdateFields applies a partial update keyed by column name.
func (r *TaskRepository) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Model(&model.Task{}).Where("id = ?", id).Updates(fields).Error; err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

// ListByWeek returns the week's tasks, optionally narrowed to a day name.
func (r *TaskRepository) ListByWeek(ctx context.Context, weekID, day string) ([]model.Task, error) {
	q := r.db.WithContext(ctx).Where("week_id = ?", weekID)
	if day != "" {
		q = q.Where("day = ?", day)
	}
	var tasks []model.Task
	if err := q.Order("created_at ASC, id ASC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list week tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) ListByDate(ctx context.Context, date string) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Where("date = ?", date).
		Order("created_at ASC, id ASC").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list date tasks: %w", err)
	}
	return tasks, nil
}

// Delete removes a task completely.
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Task{}).Error; err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}
