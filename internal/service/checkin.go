package service

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"workboard/internal/model"
	"workboard/internal/repository"
)

const maxMessageLen = 500

// Check-in response statuses.
const (
	ResponseDone    = "done"
	ResponseWorking = "working"
	ResponseSkipped = "skipped"
	ResponsePushed  = "pushed"
)

// Block check-in outcomes.
const (
	BlockSent         = "sent"
	BlockTaskNotFound = "task_not_found"
	BlockAlreadyDone  = "already_done"
	BlockAlreadySent  = "already_sent"
	BlockPaused       = "paused"
)

// CheckInService sends block check-ins, escalates silence with one nudge,
// and attaches the user's answers.
type CheckInService struct {
	repo      *repository.CheckInRepository
	tasks     *TaskService
	plans     *DayPlanService
	behavior  *BehaviorService
	messenger Messenger
	log       zerolog.Logger
}

func NewCheckInService(repo *repository.CheckInRepository, tasks *TaskService, plans *DayPlanService, behavior *BehaviorService, messenger Messenger, log zerolog.Logger) *CheckInService {
	return &CheckInService{repo: repo, tasks: tasks, plans: plans, behavior: behavior, messenger: messenger, log: log}
}

// Record stores a check-in dated now.
func (s *CheckInService) Record(ctx context.Context, taskID string, typ model.CheckInType, message string, now time.Time) (*model.CheckIn, error) {
	return s.record(ctx, &model.CheckIn{TaskID: taskID, Type: typ, MessageSent: message}, now)
}

func (s *CheckInService) record(ctx context.Context, ci *model.CheckIn, now time.Time) (*model.CheckIn, error) {
	ci.ID = uuid.NewString()
	ci.Date = DateString(now)
	ci.MessageSent = truncate(ci.MessageSent, maxMessageLen)
	ci.CreatedAt = now
	if err := s.repo.Put(ctx, ci); err != nil {
		return nil, err
	}
	return ci, nil
}

// RecordUserMessage logs an inbound message with its text as the response.
func (s *CheckInService) RecordUserMessage(ctx context.Context, text, reply string, now time.Time) (*model.CheckIn, error) {
	resp := truncate(text, maxMessageLen)
	return s.record(ctx, &model.CheckIn{
		Type:        model.CheckInUserMessage,
		MessageSent: reply,
		Response:    &resp,
		ResponseAt:  &now,
	}, now)
}

func (s *CheckInService) Today(ctx context.Context, now time.Time) ([]model.CheckIn, error) {
	return s.repo.ListByDate(ctx, DateString(now))
}

// SendBlockCheckIn asks whether the task's block went as planned. A task
// gets at most one block check-in per day.
func (s *CheckInService) SendBlockCheckIn(ctx context.Context, taskID, blockEnd string, now time.Time) (string, error) {
	task, err := s.tasks.Get(ctx, taskID)
	if err != nil {
		return "", err
	}
	if task == nil {
		return BlockTaskNotFound, nil
	}
	if task.Status == model.StatusDone {
		return BlockAlreadyDone, nil
	}

	paused, err := s.behavior.IsPaused(ctx, now)
	if err != nil {
		return "", err
	}
	if paused {
		return BlockPaused, nil
	}

	checkins, err := s.Today(ctx, now)
	if err != nil {
		return "", err
	}
	for _, ci := range checkins {
		if ci.Type == model.CheckInBlockEnd && ci.TaskID == taskID {
			return BlockAlreadySent, nil
		}
	}

	msg := fmt.Sprintf("⏰ Block check-in (%s).\n*%s*, done?\n\nReply: ✅ done | 🔵 still working | ⏭ skipped | 🔄 pushed to tomorrow",
		blockEnd, task.Name)
	if err := s.messenger.Send(ctx, msg); err != nil {
		return "", fmt.Errorf("send block check-in: %w", err)
	}
	if _, err := s.Record(ctx, taskID, model.CheckInBlockEnd, msg, now); err != nil {
		return "", err
	}
	s.log.Info().Str("task_id", taskID).Str("block_end", blockEnd).Msg("block check-in sent")
	return BlockSent, nil
}

// RunDueBlockCheckIns fires check-ins for today's work blocks that ended
// within (now-lookback, now].
func (s *CheckInService) RunDueBlockCheckIns(ctx context.Context, now time.Time, lookback time.Duration) (int, error) {
	plan, err := s.plans.Get(ctx, DateString(now))
	if err != nil {
		return 0, err
	}
	if plan == nil {
		return 0, nil
	}
	nowMin := clockOf(now)
	from := nowMin - int(lookback.Minutes())
	sent := 0
	for _, b := range plan.Blocks {
		if b.Type != model.BlockWork || b.TaskID == "" {
			continue
		}
		end, err := ParseClock(b.End)
		if err != nil || end <= from || end > nowMin {
			continue
		}
		status, err := s.SendBlockCheckIn(ctx, b.TaskID, b.End, now)
		if err != nil {
			return sent, err
		}
		if status == BlockSent {
			sent++
		}
	}
	return sent, nil
}

// NudgeReport summarises one sweep.
type NudgeReport struct {
	Paused bool
	Sent   int
}

// SweepNudges escalates unanswered block check-ins older than delay with a
// single nudge each. Nothing happens while paused.
func (s *CheckInService) SweepNudges(ctx context.Context, now time.Time, delay time.Duration) (NudgeReport, error) {
	paused, err := s.behavior.IsPaused(ctx, now)
	if err != nil {
		return NudgeReport{}, err
	}
	if paused {
		return NudgeReport{Paused: true}, nil
	}

	checkins, err := s.Today(ctx, now)
	if err != nil {
		return NudgeReport{}, err
	}

	nudged := make(map[string]struct{})
	for _, ci := range checkins {
		if ci.Type == model.CheckInNudge && ci.NudgeOf != "" {
			nudged[ci.NudgeOf] = struct{}{}
		}
	}

	var report NudgeReport
	for _, ci := range checkins {
		if ci.Type != model.CheckInBlockEnd || ci.Answered() {
			continue
		}
		if _, ok := nudged[ci.ID]; ok {
			continue
		}
		if now.Sub(ci.CreatedAt) < delay {
			continue
		}

		name := "your last block"
		if ci.TaskID != "" {
			task, err := s.tasks.Get(ctx, ci.TaskID)
			if err != nil {
				return report, err
			}
			if task != nil {
				name = task.Name
			}
		}
		msg := fmt.Sprintf("👋 Hey, *%s* block ended %d min ago. Working on it or did something come up?",
			name, int(delay.Minutes()))
		if err := s.messenger.Send(ctx, msg); err != nil {
			return report, fmt.Errorf("send nudge: %w", err)
		}
		if _, err := s.record(ctx, &model.CheckIn{
			TaskID:      ci.TaskID,
			Type:        model.CheckInNudge,
			MessageSent: msg,
			NudgeOf:     ci.ID,
		}, now); err != nil {
			return report, err
		}
		nudged[ci.ID] = struct{}{}
		report.Sent++
	}
	if report.Sent > 0 {
		s.log.Info().Int("sent", report.Sent).Msg("nudges sent")
	}
	return report, nil
}

// Absorption is the result of interpreting a check-in response.
type Absorption struct {
	Status string
	// CheckIn is the answered check-in, nil when none was open.
	CheckIn *model.CheckIn
	// Task is the mutated task, nil when the check-in had none.
	Task *model.Task
}

// Absorb attaches status to the most recent unanswered block_end or morning
// check-in of today and applies it to the referenced task.
func (s *CheckInService) Absorb(ctx context.Context, status string, now time.Time) (*Absorption, error) {
	checkins, err := s.Today(ctx, now)
	if err != nil {
		return nil, err
	}
	res := &Absorption{Status: status}
	open := LatestOpenCheckIn(checkins)
	if open == nil {
		return res, nil
	}

	if open.TaskID != "" {
		task, err := s.tasks.Get(ctx, open.TaskID)
		if err != nil {
			return nil, err
		}
		if task != nil {
			res.Task, err = s.applyResponse(ctx, *task, status, now)
			if err != nil {
				return nil, err
			}
		}
	}

	if err := s.repo.SetResponse(ctx, open.ID, status, now); err != nil {
		return nil, err
	}
	open.Response = &status
	open.ResponseAt = &now
	res.CheckIn = open
	return res, nil
}

func (s *CheckInService) applyResponse(ctx context.Context, task model.Task, status string, now time.Time) (*model.Task, error) {
	switch status {
	case ResponseDone:
		return s.tasks.SetStatus(ctx, task, model.StatusDone, now)
	case ResponseWorking:
		return s.tasks.SetStatus(ctx, task, model.StatusDoing, now)
	case ResponseSkipped:
		return s.tasks.SetStatus(ctx, task, model.StatusSkipped, now)
	case ResponsePushed:
		return s.tasks.PushToNextDay(ctx, task, now)
	default:
		return &task, nil
	}
}

// LatestOpenCheckIn scans most recent first for an unanswered block_end or
// morning check-in.
func LatestOpenCheckIn(checkins []model.CheckIn) *model.CheckIn {
	for i := len(checkins) - 1; i >= 0; i-- {
		ci := checkins[i]
		if (ci.Type == model.CheckInBlockEnd || ci.Type == model.CheckInMorning) && !ci.Answered() {
			return &ci
		}
	}
	return nil
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
