package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"workboard/internal/model"
	"workboard/internal/repository"
)

// ProjectService looks up and creates projects.
type ProjectService struct {
	projects *repository.ProjectRepository
}

func NewProjectService(projects *repository.ProjectRepository) *ProjectService {
	return &ProjectService{projects: projects}
}

func (s *ProjectService) ListActive(ctx context.Context) ([]model.Project, error) {
	return s.projects.ListActive(ctx)
}

// FindOrCreate returns the active project named name (case-insensitive),
// creating it in area when none exists.
func (s *ProjectService) FindOrCreate(ctx context.Context, name, area string, now time.Time) (*model.Project, bool, error) {
	name = strings.TrimSpace(name)
	projects, err := s.projects.ListActive(ctx)
	if err != nil {
		return nil, false, err
	}
	for _, p := range projects {
		if strings.EqualFold(p.Name, name) {
			return &p, false, nil
		}
	}
	if area == "" {
		area = "personal"
	}
	p := &model.Project{
		ID:            uuid.NewString(),
		Area:          area,
		Name:          name,
		MatchKeywords: []string{strings.ToLower(name)},
		Active:        true,
		CreatedAt:     now,
	}
	if err := model.Validate(p); err != nil {
		return nil, false, err
	}
	if err := s.projects.Put(ctx, p); err != nil {
		return nil, false, err
	}
	return p, true, nil
}
