package service

import (
	"context"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"workboard/internal/model"
	"workboard/internal/repository"
)

// DefaultPendingTTL is how long a clarification waits for an answer.
const DefaultPendingTTL = 10 * time.Minute

var knownFields = []string{model.FieldProject, model.FieldHours, model.FieldDay, model.FieldConfirm}

// Answer is the outcome of applying one answer to a pending task.
type Answer struct {
	Pending model.PendingTask
	// Field is the field the answer was applied to.
	Field string
	// Accepted is false when the value could not be used; the field stays missing.
	Accepted bool
	// Complete is true once nothing is missing.
	Complete bool
}

// ApplyAnswer fills one field of p from value. An empty field answers the
// first missing one. Unusable values leave p's data and missing list untouched.
func ApplyAnswer(p model.PendingTask, field, value string) Answer {
	p.Missing = slices.Clone(p.Missing)
	if field == "" && len(p.Missing) > 0 {
		field = p.Missing[0]
	}
	value = strings.TrimSpace(value)

	accepted := false
	switch field {
	case model.FieldProject:
		if id, ok := pickCandidate(value, p.Candidates); ok {
			p.Draft.ProjectID = id
			accepted = true
		}
	case model.FieldHours:
		if h, err := strconv.ParseFloat(value, 64); err == nil && h > 0 {
			p.Draft.EstimatedHours = h
			accepted = true
		}
	case model.FieldDay:
		if value != "" {
			p.Draft.Day = strings.ToLower(value)
			accepted = true
		}
	case model.FieldConfirm:
		accepted = true
	}

	if accepted {
		p.Missing = slices.DeleteFunc(p.Missing, func(f string) bool { return f == field })
	}
	return Answer{Pending: p, Field: field, Accepted: accepted, Complete: len(p.Missing) == 0}
}

// pickCandidate reads value as a 1-based index into candidates, falling back
// to the first candidate whose name contains it.
func pickCandidate(value string, candidates []model.ProjectCandidate) (string, bool) {
	if value == "" {
		return "", false
	}
	if n, err := strconv.Atoi(value); err == nil && n >= 1 && n <= len(candidates) {
		return candidates[n-1].ID, true
	}
	needle := strings.ToLower(value)
	for _, c := range candidates {
		if strings.Contains(strings.ToLower(c.Name), needle) {
			return c.ID, true
		}
	}
	return "", false
}

// PendingService drives the single pending task through clarification.
type PendingService struct {
	repo  *repository.PendingRepository
	tasks *TaskService
	ttl   time.Duration
	log   zerolog.Logger
}

func NewPendingService(repo *repository.PendingRepository, tasks *TaskService, ttl time.Duration, log zerolog.Logger) *PendingService {
	if ttl <= 0 {
		ttl = DefaultPendingTTL
	}
	return &PendingService{repo: repo, tasks: tasks, ttl: ttl, log: log}
}

// Load returns the live pending task or nil.
func (s *PendingService) Load(ctx context.Context, now time.Time) (*model.PendingTask, error) {
	return s.repo.Get(ctx, now)
}

// Begin stores draft as the pending task, replacing any previous one.
// Project candidates come from the draft's candidate ids, or every project
// when the draft names none.
func (s *PendingService) Begin(ctx context.Context, draft model.TaskDraft, projects []model.Project, now time.Time) (*model.PendingTask, error) {
	var missing []string
	for _, f := range draft.NeedsClarification {
		f = strings.ToLower(strings.TrimSpace(f))
		if slices.Contains(knownFields, f) && !slices.Contains(missing, f) {
			missing = append(missing, f)
		}
	}
	if len(missing) == 0 {
		missing = []string{model.FieldConfirm}
	}

	p := &model.PendingTask{
		Draft:      draft,
		Missing:    missing,
		Candidates: projectCandidates(draft.ProjectCandidates, projects),
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.ttl),
	}
	p.Draft.NeedsClarification = nil
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	s.log.Info().Str("task", draft.Name).Strs("missing", missing).Msg("task pending clarification")
	return p, nil
}

func projectCandidates(ids []string, projects []model.Project) []model.ProjectCandidate {
	var out []model.ProjectCandidate
	for _, id := range ids {
		for _, p := range projects {
			if p.ID == id {
				out = append(out, model.ProjectCandidate{ID: p.ID, Name: p.Name})
				break
			}
		}
	}
	if len(out) > 0 {
		return out
	}
	for _, p := range projects {
		out = append(out, model.ProjectCandidate{ID: p.ID, Name: p.Name})
	}
	return out
}

// Submission reports what an answer did.
type Submission struct {
	// NothingPending is set when no live pending task exists.
	NothingPending bool
	Field          string
	Accepted       bool
	// Task is the committed task once every field is resolved.
	Task *model.Task
	// Pending is the still incomplete record otherwise.
	Pending *model.PendingTask
}

// Submit applies an answer. A complete task is committed and the slot cleared;
// otherwise the record is saved back with a refreshed expiry.
func (s *PendingService) Submit(ctx context.Context, field, value string, now time.Time) (Submission, error) {
	p, err := s.repo.Get(ctx, now)
	if err != nil {
		return Submission{}, err
	}
	if p == nil {
		return Submission{NothingPending: true}, nil
	}

	ans := ApplyAnswer(*p, field, value)
	sub := Submission{Field: ans.Field, Accepted: ans.Accepted}
	if ans.Complete {
		task, err := s.tasks.CreateFromDraft(ctx, ans.Pending.Draft, now)
		if err != nil {
			return Submission{}, err
		}
		if err := s.repo.Clear(ctx); err != nil {
			return Submission{}, err
		}
		sub.Task = task
		return sub, nil
	}

	next := ans.Pending
	next.ExpiresAt = now.Add(s.ttl)
	if err := s.repo.Save(ctx, &next); err != nil {
		return Submission{}, err
	}
	sub.Pending = &next
	return sub, nil
}

// Cancel drops any pending task.
func (s *PendingService) Cancel(ctx context.Context) error {
	return s.repo.Clear(ctx)
}
