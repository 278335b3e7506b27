package orchestrator

import (
	"context"
	"fmt"
	"time"

	"workboard/internal/intent"
	"workboard/internal/service"
)

// BuildContext loads the snapshot classifiers and handlers work from.
func (o *Orchestrator) BuildContext(ctx context.Context, now time.Time) (*intent.Context, error) {
	c := &intent.Context{
		Now:     now,
		Today:   service.DateString(now),
		DayName: service.DayName(now),
		WeekID:  service.WeekID(now),
	}

	var err error
	if c.Projects, err = o.svc.Projects.ListActive(ctx); err != nil {
		return nil, fmt.Errorf("load projects: %w", err)
	}
	if c.TodayTasks, err = o.svc.Tasks.Today(ctx, now); err != nil {
		return nil, fmt.Errorf("load today's tasks: %w", err)
	}
	if c.WeekTasks, err = o.svc.Tasks.Week(ctx, now); err != nil {
		return nil, fmt.Errorf("load week tasks: %w", err)
	}
	if c.Pending, err = o.svc.Pending.Load(ctx, now); err != nil {
		return nil, fmt.Errorf("load pending task: %w", err)
	}
	if c.RecentCheckIns, err = o.svc.CheckIns.Today(ctx, now); err != nil {
		return nil, fmt.Errorf("load check-ins: %w", err)
	}
	if c.Notes, err = o.svc.Notes.Active(ctx, now); err != nil {
		return nil, fmt.Errorf("load notes: %w", err)
	}
	if c.Overrides, err = o.svc.Behavior.Active(ctx, now); err != nil {
		return nil, fmt.Errorf("load overrides: %w", err)
	}
	if c.Settings, err = o.svc.Settings.Get(ctx); err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	if c.Plan, err = o.svc.Plans.Get(ctx, c.Today); err != nil {
		return nil, fmt.Errorf("load day plan: %w", err)
	}
	return c, nil
}
