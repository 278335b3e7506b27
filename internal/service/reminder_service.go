package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"workboard/internal/model"
	"workboard/internal/repository"
)

const (
	ReminderOneTime   = "one_time"
	ReminderRecurring = "recurring"

	defaultReminderTime = "09:00"
)

// ReminderInput describes a reminder to set. An empty Recurrence makes it one-time.
type ReminderInput struct {
	Message    string
	Date       string
	Time       string
	Recurrence string
}

// ReminderService creates reminders and fires the ones that are due.
type ReminderService struct {
	repo      *repository.ReminderRepository
	behavior  *BehaviorService
	messenger Messenger
	log       zerolog.Logger
}

func NewReminderService(repo *repository.ReminderRepository, behavior *BehaviorService, messenger Messenger, log zerolog.Logger) *ReminderService {
	return &ReminderService{repo: repo, behavior: behavior, messenger: messenger, log: log}
}

func (s *ReminderService) Create(ctx context.Context, in ReminderInput, now time.Time) (*model.Reminder, error) {
	if strings.TrimSpace(in.Message) == "" {
		return nil, fmt.Errorf("%w: reminder message is required", model.ErrInvalid)
	}
	at := in.Time
	if at == "" {
		at = defaultReminderTime
	}
	r := &model.Reminder{
		ID:          uuid.NewString(),
		Type:        ReminderOneTime,
		Message:     strings.TrimSpace(in.Message),
		TriggerDate: in.Date,
		TriggerTime: at,
		Active:      true,
		CreatedAt:   now,
	}
	if rec := strings.ToLower(strings.TrimSpace(in.Recurrence)); rec != "" {
		if err := checkRecurrence(rec); err != nil {
			return nil, err
		}
		r.Type = ReminderRecurring
		r.Recurrence = rec
	} else if r.TriggerDate == "" {
		r.TriggerDate = DateString(now)
	}
	if err := model.Validate(r); err != nil {
		return nil, err
	}
	if err := s.repo.Put(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func checkRecurrence(rec string) error {
	kind, arg, _ := strings.Cut(rec, ":")
	switch kind {
	case "daily":
		return nil
	case "weekly":
		for _, d := range DayNames {
			if d == arg {
				return nil
			}
		}
	case "monthly":
		if n, err := strconv.Atoi(arg); err == nil && n >= 1 && n <= 31 {
			return nil
		}
	}
	return fmt.Errorf("%w: recurrence %q, expected daily, weekly:<day> or monthly:<n>", model.ErrInvalid, rec)
}

// ListActive returns active reminders in the order users number them.
func (s *ReminderService) ListActive(ctx context.Context) ([]model.Reminder, error) {
	return s.repo.ListActive(ctx)
}

// DeleteByNumber deactivates the n-th active reminder (1-based). It returns
// nil when n is out of range.
func (s *ReminderService) DeleteByNumber(ctx context.Context, n int) (*model.Reminder, error) {
	reminders, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if n < 1 || n > len(reminders) {
		return nil, nil
	}
	r := reminders[n-1]
	if err := s.repo.UpdateFields(ctx, r.ID, map[string]any{"active": false}); err != nil {
		return nil, err
	}
	r.Active = false
	return &r, nil
}

// FireDue sends every reminder due at now. Each fires at most once per day;
// one-time reminders are deactivated after firing.
func (s *ReminderService) FireDue(ctx context.Context, now time.Time) (int, error) {
	paused, err := s.behavior.IsPaused(ctx, now)
	if err != nil {
		return 0, err
	}
	if paused {
		return 0, nil
	}
	reminders, err := s.repo.ListActive(ctx)
	if err != nil {
		return 0, err
	}
	fired := 0
	today := DateString(now)
	for _, r := range reminders {
		if !ReminderDue(r, now) {
			continue
		}
		if err := s.messenger.Send(ctx, "🔔 Reminder: "+r.Message); err != nil {
			return fired, fmt.Errorf("send reminder: %w", err)
		}
		fields := map[string]any{"last_fired_on": today}
		if r.Type == ReminderOneTime {
			fields["active"] = false
		}
		if err := s.repo.UpdateFields(ctx, r.ID, fields); err != nil {
			return fired, err
		}
		fired++
		s.log.Info().Str("reminder_id", r.ID).Msg("reminder fired")
	}
	return fired, nil
}

// ReminderDue reports whether r should fire at now.
func ReminderDue(r model.Reminder, now time.Time) bool {
	today := DateString(now)
	if !r.Active || r.LastFiredOn == today {
		return false
	}
	at, err := ParseClock(r.TriggerTime)
	if err != nil || clockOf(now) < at {
		return false
	}
	if r.Type != ReminderRecurring {
		return r.TriggerDate == "" || r.TriggerDate <= today
	}

	kind, arg, _ := strings.Cut(r.Recurrence, ":")
	switch kind {
	case "daily":
		return true
	case "weekly":
		return DayName(now) == arg
	case "monthly":
		day, err := strconv.Atoi(arg)
		if err != nil || day <= 0 {
			return false
		}
		year, month, _ := now.Date()
		if end := daysInMonth(month, year); day > end {
			day = end
		}
		return now.Day() == day
	}
	return false
}

func daysInMonth(month time.Month, year int) int {
	// Move to next month, roll back a day.
	firstOfMonth := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return firstOfMonth.AddDate(0, 1, -1).Day()
}
