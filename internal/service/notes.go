package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"workboard/internal/model"
	"workboard/internal/repository"
)

// NoteInput describes a note to keep.
type NoteInput struct {
	Note string
	// ProjectID tags an existing project.
	ProjectID string
	// NewProjectName creates a project when ProjectID is empty.
	NewProjectName string
	NewProjectArea string
	// TaskHint is fuzzy matched against the week's tasks.
	TaskHint     string
	AppliesUntil string
}

// NoteResult reports what AddNote stored.
type NoteResult struct {
	Note       model.AgentNote
	NewProject *model.Project
	TaggedTask *model.Task
}

// NoteService stores agent notes.
type NoteService struct {
	notes    *repository.NoteRepository
	projects *ProjectService
}

func NewNoteService(notes *repository.NoteRepository, projects *ProjectService) *NoteService {
	return &NoteService{notes: notes, projects: projects}
}

// Add stores a note, creating the named project and tagging a matched task.
func (s *NoteService) Add(ctx context.Context, in NoteInput, week []model.Task, now time.Time) (*NoteResult, error) {
	res := &NoteResult{}
	projectID := in.ProjectID
	if projectID == "" && strings.TrimSpace(in.NewProjectName) != "" {
		area := in.NewProjectArea
		if area == "" {
			area = "admin"
		}
		p, created, err := s.projects.FindOrCreate(ctx, in.NewProjectName, area, now)
		if err != nil {
			return nil, err
		}
		projectID = p.ID
		if created {
			res.NewProject = p
		}
	}

	var taskID string
	if in.TaskHint != "" {
		if t, ok := MatchTask(in.TaskHint, week); ok {
			taskID = t.ID
			res.TaggedTask = &t
		}
	}

	res.Note = model.AgentNote{
		ID:              uuid.NewString(),
		Note:            strings.TrimSpace(in.Note),
		AppliesFrom:     DateString(now),
		AppliesUntil:    in.AppliesUntil,
		Affects:         "general",
		Active:          true,
		TaggedProjectID: projectID,
		TaggedTaskID:    taskID,
		CreatedAt:       now,
	}
	if err := model.Validate(res.Note); err != nil {
		return nil, err
	}
	if err := s.notes.Put(ctx, &res.Note); err != nil {
		return nil, err
	}
	return res, nil
}

// Active lists notes still in effect on now's date.
func (s *NoteService) Active(ctx context.Context, now time.Time) ([]model.AgentNote, error) {
	return s.notes.ListActive(ctx, DateString(now))
}
