package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"workboard/internal/config"
	"workboard/internal/intent"
	"workboard/internal/logging"
	"workboard/internal/model"
	"workboard/internal/orchestrator"
	"workboard/internal/repository"
	"workboard/internal/service"
)

// relay lets services hold a Messenger before the transport exists.
type relay struct {
	target service.Messenger
}

func (r *relay) Send(ctx context.Context, text string) error {
	return r.target.Send(ctx, text)
}

// app is the wired object graph shared by every command.
type app struct {
	cfg       config.Config
	log       zerolog.Logger
	db        *gorm.DB
	out       *relay
	svc       orchestrator.Services
	briefings *service.BriefingService
	scheduler *service.SchedulerService
	orch      *orchestrator.Orchestrator
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	log := logging.New(cfg.LogLevel, cfg.LogPretty)

	db, err := repository.NewDB(cfg.DatabaseURL, logging.Component(log, "db"))
	if err != nil {
		return nil, fmt.Errorf("db: %w", err)
	}

	window, err := service.ParseWindow(cfg.WorkdayStart, cfg.WorkdayEnd)
	if err != nil {
		return nil, fmt.Errorf("workday window: %w", err)
	}

	out := &relay{target: service.LogMessenger{Log: logging.Component(log, "outbox")}}

	taskRepo := repository.NewTaskRepository(db)
	settingsRepo := repository.NewSettingsRepository(db, model.Settings{
		DailyCapacityHours: 6,
		NudgeDelayMinutes:  int(cfg.NudgeDelay.Minutes()),
		TelegramChatID:     cfg.TelegramChatID,
	})
	settings, err := settingsRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("settings: %w", err)
	}

	svcLog := logging.Component(log, "service")
	plans := service.NewDayPlanService(taskRepo, repository.NewDayPlanRepository(db), window, settings.DailyCapacityHours, svcLog)
	tasks := service.NewTaskService(taskRepo, plans, svcLog)
	projects := service.NewProjectService(repository.NewProjectRepository(db))
	behavior := service.NewBehaviorService(repository.NewBehaviorRepository(db), svcLog)
	checkins := service.NewCheckInService(repository.NewCheckInRepository(db), tasks, plans, behavior, out, svcLog)

	svc := orchestrator.Services{
		Tasks:     tasks,
		Plans:     plans,
		Pending:   service.NewPendingService(repository.NewPendingRepository(db), tasks, cfg.PendingTTL, svcLog),
		CheckIns:  checkins,
		Reminders: service.NewReminderService(repository.NewReminderRepository(db), behavior, out, svcLog),
		Behavior:  behavior,
		Notes:     service.NewNoteService(repository.NewNoteRepository(db), projects),
		Subtypes:  service.NewSubtypeService(settingsRepo),
		Projects:  projects,
		Settings:  settingsRepo,
	}

	classifier, err := newClassifier(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:       cfg,
		log:       log,
		db:        db,
		out:       out,
		svc:       svc,
		briefings: service.NewBriefingService(plans, tasks, projects, checkins, behavior, out, svcLog),
		scheduler: service.NewSchedulerService(cfg.Location, logging.Component(log, "scheduler")),
		orch:      orchestrator.New(svc, classifier, cfg.Location, logging.Component(log, "orchestrator")),
	}, nil
}

func newClassifier(ctx context.Context, cfg config.Config, log zerolog.Logger) (intent.Classifier, error) {
	if cfg.GeminiAPIKey == "" {
		log.Info().Msg("no Gemini key, using rule classifier")
		return intent.RuleClassifier{}, nil
	}
	c, err := intent.NewGeminiClassifier(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		return nil, fmt.Errorf("classifier: %w", err)
	}
	return c, nil
}

// scheduleJobs registers the timed passes and sweeps.
func (a *app) scheduleJobs() error {
	daily := []struct {
		name string
		at   string
		job  service.Job
	}{
		{"morning", a.cfg.MorningTime, a.passJob(a.briefings.Morning)},
		{"midday", a.cfg.MiddayTime, a.passJob(a.briefings.Midday)},
		{"evening", a.cfg.EveningTime, a.passJob(a.briefings.Evening)},
	}
	for _, d := range daily {
		if _, err := a.scheduler.ScheduleDaily(d.name, d.at, d.job); err != nil {
			return fmt.Errorf("schedule %s: %w", d.name, err)
		}
	}

	if _, err := a.scheduler.ScheduleInterval("block-checkins", a.cfg.BlockSweepInterval, a.blockSweep); err != nil {
		return fmt.Errorf("schedule block check-ins: %w", err)
	}
	if _, err := a.scheduler.ScheduleInterval("nudges", a.cfg.NudgeSweepInterval, a.nudgeSweep); err != nil {
		return fmt.Errorf("schedule nudges: %w", err)
	}
	if _, err := a.scheduler.ScheduleInterval("reminders", a.cfg.BlockSweepInterval, a.reminderSweep); err != nil {
		return fmt.Errorf("schedule reminders: %w", err)
	}
	return nil
}

func (a *app) passJob(pass func(context.Context, time.Time) (service.PassResult, error)) service.Job {
	return func(ctx context.Context, now time.Time) error {
		res, err := pass(ctx, now)
		if err != nil {
			return err
		}
		a.log.Info().Str("status", res.Status).Str("date", res.Date).Int("blocks", res.Blocks).Str("score", res.Score).Msg("pass finished")
		return nil
	}
}

func (a *app) blockSweep(ctx context.Context, now time.Time) error {
	_, err := a.svc.CheckIns.RunDueBlockCheckIns(ctx, now, a.cfg.BlockCheckInLookback)
	return err
}

func (a *app) nudgeSweep(ctx context.Context, now time.Time) error {
	delay := a.cfg.NudgeDelay
	if st, err := a.svc.Settings.Get(ctx); err == nil && st.NudgeDelayMinutes > 0 {
		delay = time.Duration(st.NudgeDelayMinutes) * time.Minute
	}
	_, err := a.svc.CheckIns.SweepNudges(ctx, now, delay)
	return err
}

func (a *app) reminderSweep(ctx context.Context, now time.Time) error {
	_, err := a.svc.Reminders.FireDue(ctx, now)
	return err
}

func (a *app) close() {
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
