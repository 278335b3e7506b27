package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"workboard/internal/model"
	"workboard/internal/repository"
	"workboard/internal/testutil"
)

type fixture struct {
	out       *testutil.Outbox
	taskRepo  *repository.TaskRepository
	tasks     *TaskService
	plans     *DayPlanService
	pending   *PendingService
	checkins  *CheckInService
	behavior  *BehaviorService
	reminders *ReminderService
	projects  *ProjectService
	notes     *NoteService
	subtypes  *SubtypeService
	briefings *BriefingService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.DB(t)
	log := zerolog.Nop()
	out := &testutil.Outbox{}

	taskRepo := repository.NewTaskRepository(db)
	plans := NewDayPlanService(taskRepo, repository.NewDayPlanRepository(db), DefaultWindow, 6, log)
	tasks := NewTaskService(taskRepo, plans, log)
	projects := NewProjectService(repository.NewProjectRepository(db))
	behavior := NewBehaviorService(repository.NewBehaviorRepository(db), log)
	checkins := NewCheckInService(repository.NewCheckInRepository(db), tasks, plans, behavior, out, log)
	settings := repository.NewSettingsRepository(db, model.Settings{DailyCapacityHours: 6})

	return &fixture{
		out:       out,
		taskRepo:  taskRepo,
		tasks:     tasks,
		plans:     plans,
		pending:   NewPendingService(repository.NewPendingRepository(db), tasks, DefaultPendingTTL, log),
		checkins:  checkins,
		behavior:  behavior,
		reminders: NewReminderService(repository.NewReminderRepository(db), behavior, out, log),
		projects:  projects,
		notes:     NewNoteService(repository.NewNoteRepository(db), projects),
		subtypes:  NewSubtypeService(settings),
		briefings: NewBriefingService(plans, tasks, projects, checkins, behavior, out, log),
	}
}

func (f *fixture) addTask(t *testing.T, draft model.TaskDraft) model.Task {
	t.Helper()
	task, err := f.tasks.CreateFromDraft(context.Background(), draft, testutil.Tuesday)
	require.NoError(t, err)
	return *task
}

func (f *fixture) addProject(t *testing.T, name, area string) model.Project {
	t.Helper()
	p, created, err := f.projects.FindOrCreate(context.Background(), name, area, testutil.Tuesday)
	require.NoError(t, err)
	require.True(t, created)
	return *p
}
