package intent

import (
	"context"
	"time"

	"workboard/internal/model"
)

// Context is what a classifier and the executor know about the user's day.
type Context struct {
	Now            time.Time
	Today          string
	DayName        string
	WeekID         string
	Projects       []model.Project
	TodayTasks     []model.Task
	WeekTasks      []model.Task
	Pending        *model.PendingTask
	RecentCheckIns []model.CheckIn
	Notes          []model.AgentNote
	Overrides      []model.BehaviorOverride
	Settings       model.Settings
	Plan           *model.DayPlan
}

// Classifier turns free text into an intent.
type Classifier interface {
	Classify(ctx context.Context, text string, c *Context) (Intent, error)
}
