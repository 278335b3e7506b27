package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"workboard/internal/model"
	"workboard/internal/repository"
)

const lastMinute = 23*60 + 55

// TaskService wraps task-related business logic.
type TaskService struct {
	tasks *repository.TaskRepository
	plans *DayPlanService
	log   zerolog.Logger
}

func NewTaskService(tasks *repository.TaskRepository, plans *DayPlanService, log zerolog.Logger) *TaskService {
	return &TaskService{tasks: tasks, plans: plans, log: log}
}

// CreateFromDraft commits a fully specified draft as a new todo task in now's week.
func (s *TaskService) CreateFromDraft(ctx context.Context, draft model.TaskDraft, now time.Time) (*model.Task, error) {
	name := strings.TrimSpace(draft.Name)
	if name == "" {
		name = "Untitled"
	}

	projectID := draft.ProjectID
	if projectID == "" && len(draft.ProjectCandidates) > 0 {
		projectID = draft.ProjectCandidates[0]
	}

	hours := draft.EstimatedHours
	if hours <= 0 {
		hours = DefaultHours(draft.Subtype)
	}

	priority := draft.Priority
	if priority == "" {
		priority = model.PriorityNormal
	}

	day, date, weekID := ResolveDay(draft.Day, now)

	task := &model.Task{
		ID:             uuid.NewString(),
		WeekID:         weekID,
		Day:            day,
		Date:           date,
		ProjectID:      projectID,
		Name:           name,
		Subtype:        draft.Subtype,
		Priority:       priority,
		Status:         model.StatusTodo,
		EstimatedHours: hours,
		Notes:          draft.Notes,
		DueDate:        draft.DueDate,
		CourseWeek:     draft.CourseWeek,
		IsTimeBlock:    draft.IsTimeBlock,
		CreatedAt:      now,
	}

	if draft.Time != "" {
		start, end, err := blockTimes(draft.Time, draft.BlockEnd, hours)
		if err != nil {
			s.log.Warn().Err(err).Str("task", name).Msg("ignoring block time")
		} else {
			task.BlockStart, task.BlockEnd = start, end
		}
	}

	if err := model.Validate(task); err != nil {
		return nil, err
	}
	if err := s.tasks.Put(ctx, task); err != nil {
		return nil, err
	}
	s.log.Info().Str("task_id", task.ID).Str("name", task.Name).Str("day", task.Day).Msg("task created")
	return task, nil
}

// ResolveDay turns a day word into (day name, date, week id). Weekday names
// resolve inside now's ISO week; "today" and "tomorrow" resolve to real dates.
// Unknown words are kept as the day with no date.
func ResolveDay(day string, now time.Time) (string, string, string) {
	day = strings.ToLower(strings.TrimSpace(day))
	weekID := WeekID(now)
	switch day {
	case "":
		return "", "", weekID
	case "today":
		return DayName(now), DateString(now), weekID
	case "tomorrow":
		next := now.AddDate(0, 0, 1)
		return DayName(next), DateString(next), WeekID(next)
	}
	dates, err := WeekDates(weekID)
	if err != nil {
		return day, "", weekID
	}
	return day, dates[day], weekID
}

// blockTimes aligns both ends to 5 minutes and derives end from the duration
// when absent or not after start.
func blockTimes(start, end string, hours float64) (string, string, error) {
	startMin, err := ParseClock(start)
	if err != nil {
		return "", "", err
	}
	startMin = min(roundTo5(float64(startMin)), lastMinute)
	if end != "" {
		endMin, err := ParseClock(end)
		if err != nil {
			return "", "", err
		}
		endMin = min(roundTo5(float64(endMin)), lastMinute)
		if endMin > startMin {
			return FormatClock(startMin), FormatClock(endMin), nil
		}
	}
	endMin := min(startMin+durationMinutes(hours), lastMinute)
	if endMin <= startMin {
		return "", "", fmt.Errorf("block starting %s does not fit in the day", start)
	}
	return FormatClock(startMin), FormatClock(endMin), nil
}

func (s *TaskService) Get(ctx context.Context, id string) (*model.Task, error) {
	return s.tasks.Get(ctx, id)
}

// SetStatus changes a task's status, stamping started_at or completed_at.
func (s *TaskService) SetStatus(ctx context.Context, task model.Task, status model.TaskStatus, now time.Time) (*model.Task, error) {
	fields := map[string]any{"status": status}
	switch status {
	case model.StatusDone:
		fields["completed_at"] = now
		task.CompletedAt = &now
	case model.StatusDoing:
		fields["started_at"] = now
		task.StartedAt = &now
	}
	if err := s.tasks.UpdateFields(ctx, task.ID, fields); err != nil {
		return nil, err
	}
	task.Status = status
	return &task, nil
}

// MoveToDay reassigns a task's day and nothing else.
func (s *TaskService) MoveToDay(ctx context.Context, task model.Task, day string) (*model.Task, error) {
	day = strings.ToLower(strings.TrimSpace(day))
	if err := s.tasks.UpdateFields(ctx, task.ID, map[string]any{"day": day}); err != nil {
		return nil, err
	}
	task.Day = day
	return &task, nil
}

// PushToNextDay moves a task to the following calendar day and reopens it.
func (s *TaskService) PushToNextDay(ctx context.Context, task model.Task, now time.Time) (*model.Task, error) {
	day := NextDayName(now)
	fields := map[string]any{"day": day, "status": model.StatusTodo}
	if err := s.tasks.UpdateFields(ctx, task.ID, fields); err != nil {
		return nil, err
	}
	task.Day = day
	task.Status = model.StatusTodo
	return &task, nil
}

func (s *TaskService) Delete(ctx context.Context, id string) error {
	return s.tasks.Delete(ctx, id)
}

// Today lists today's tasks.
func (s *TaskService) Today(ctx context.Context, now time.Time) ([]model.Task, error) {
	return s.plans.TasksFor(ctx, now)
}

// Week lists every task of now's ISO week.
func (s *TaskService) Week(ctx context.Context, now time.Time) ([]model.Task, error) {
	return s.tasks.ListByWeek(ctx, WeekID(now), "")
}

// OnDay lists the non-dropped week tasks assigned to a day name.
func (s *TaskService) OnDay(ctx context.Context, now time.Time, day string) ([]model.Task, error) {
	tasks, err := s.tasks.ListByWeek(ctx, WeekID(now), strings.ToLower(day))
	if err != nil {
		return nil, err
	}
	out := tasks[:0]
	for _, t := range tasks {
		if t.Status != model.StatusDropped {
			out = append(out, t)
		}
	}
	return out, nil
}

// DayLoad sums the estimated hours of non-dropped tasks on a day.
func DayLoad(tasks []model.Task, day string) float64 {
	total := 0.0
	for _, t := range tasks {
		if t.Day == day && t.Status != model.StatusDropped {
			total += t.EstimatedHours
		}
	}
	return total
}

// FreeHours reports remaining capacity per weekday, skipping full days.
func FreeHours(tasks []model.Task, capacity float64) map[string]float64 {
	out := make(map[string]float64)
	for _, day := range DayNames[:5] {
		if free := capacity - DayLoad(tasks, day); free > 0 {
			out[day] = free
		}
	}
	return out
}

// ResolveTask finds the task a fragment refers to, trying today's tasks before
// the whole week. It returns nil when neither set matches.
func ResolveTask(fragment string, today, week []model.Task) *model.Task {
	if t, ok := MatchTask(fragment, today); ok {
		return &t
	}
	if t, ok := MatchTask(fragment, week); ok {
		return &t
	}
	return nil
}

// NextUp is the task the user should work on next and, when planned, its block.
type NextUp struct {
	Task  model.Task
	Block *model.Block
}

// Next picks the first planned block whose task is still open, falling back
// to the most urgent open task of the day.
func (s *TaskService) Next(ctx context.Context, now time.Time) (*NextUp, error) {
	tasks, err := s.Today(ctx, now)
	if err != nil {
		return nil, err
	}
	plan, err := s.plans.Get(ctx, DateString(now))
	if err != nil {
		return nil, err
	}
	return NextTask(plan, tasks), nil
}

// NextTask is the pure selection behind Next.
func NextTask(plan *model.DayPlan, tasks []model.Task) *NextUp {
	byID := make(map[string]model.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}
	if plan != nil {
		for i, b := range plan.Blocks {
			if b.Type != model.BlockWork || b.TaskID == "" {
				continue
			}
			if t, ok := byID[b.TaskID]; ok && t.Status.Active() {
				return &NextUp{Task: t, Block: &plan.Blocks[i]}
			}
		}
	}

	var active []model.Task
	for _, t := range tasks {
		if t.Status.Active() {
			active = append(active, t)
		}
	}
	if len(active) == 0 {
		return nil
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Priority.Rank() < active[j].Priority.Rank()
	})
	return &NextUp{Task: active[0]}
}
