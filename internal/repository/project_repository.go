package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"workboard/internal/model"
)

// ProjectRepository manages projects.
type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Put(ctx context.Context, project *model.Project) error {
	if err := upsert(r.db.WithContext(ctx), project); err != nil {
		return fmt.Errorf("put project: %w", err)
	}
	return nil
}

func (r *ProjectRepository) Get(ctx context.Context, id string) (*model.Project, error) {
	var project model.Project
	ok, err := first(r.db.WithContext(ctx), &project, "id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return &project, nil
}

func (r *ProjectRepository) ListActive(ctx context.Context) ([]model.Project, error) {
	var projects []model.Project
	if err := r.db.WithContext(ctx).Where("active = ?", true).Order("name ASC").Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}
