// Package orchestrator routes classified intents to the services that
// execute them and renders the reply the user sees.
package orchestrator

import (
	"time"

	"github.com/rs/zerolog"

	"workboard/internal/intent"
	"workboard/internal/repository"
	"workboard/internal/service"
)

// Services bundles everything the orchestrator dispatches to.
type Services struct {
	Tasks     *service.TaskService
	Plans     *service.DayPlanService
	Pending   *service.PendingService
	CheckIns  *service.CheckInService
	Reminders *service.ReminderService
	Behavior  *service.BehaviorService
	Notes     *service.NoteService
	Subtypes  *service.SubtypeService
	Projects  *service.ProjectService
	Settings  *repository.SettingsRepository
}

// Orchestrator turns one inbound message into exactly one reply.
type Orchestrator struct {
	svc        Services
	classifier intent.Classifier
	loc        *time.Location
	now        func() time.Time
	log        zerolog.Logger
}

// Option customises an Orchestrator.
type Option func(*Orchestrator)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

func New(svc Services, classifier intent.Classifier, loc *time.Location, log zerolog.Logger, opts ...Option) *Orchestrator {
	if loc == nil {
		loc = time.Local
	}
	o := &Orchestrator{
		svc:        svc,
		classifier: classifier,
		loc:        loc,
		now:        time.Now,
		log:        log,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Now is the orchestrator's clock in the user's timezone.
func (o *Orchestrator) Now() time.Time {
	return o.now().In(o.loc)
}
