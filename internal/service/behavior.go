package service

import (
	"context"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"workboard/internal/model"
	"workboard/internal/repository"
)

var isoDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// BehaviorService manages behavior overrides. Expiry is applied when
// overrides are read.
type BehaviorService struct {
	repo *repository.BehaviorRepository
	log  zerolog.Logger
}

func NewBehaviorService(repo *repository.BehaviorRepository, log zerolog.Logger) *BehaviorService {
	return &BehaviorService{repo: repo, log: log}
}

// Active returns unexpired overrides and deactivates the expired ones.
func (s *BehaviorService) Active(ctx context.Context, now time.Time) ([]model.BehaviorOverride, error) {
	all, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	today := DateString(now)
	var live []model.BehaviorOverride
	var expired []string
	for _, o := range all {
		if o.AppliesUntil != "" && o.AppliesUntil < today {
			expired = append(expired, o.ID)
			continue
		}
		live = append(live, o)
	}
	if len(expired) > 0 {
		if err := s.repo.Deactivate(ctx, expired...); err != nil {
			return nil, err
		}
		s.log.Debug().Int("count", len(expired)).Msg("expired overrides deactivated")
	}
	return live, nil
}

// IsPaused reports whether a paused override applies today.
func (s *BehaviorService) IsPaused(ctx context.Context, now time.Time) (bool, error) {
	overrides, err := s.Active(ctx, now)
	if err != nil {
		return false, err
	}
	return Paused(overrides, DateString(now)), nil
}

// Paused checks an already loaded override list.
func Paused(overrides []model.BehaviorOverride, date string) bool {
	for _, o := range overrides {
		if o.Setting == model.SettingPaused && strings.EqualFold(o.Value, model.ValueTrue) && o.LiveOn(date) {
			return true
		}
	}
	return false
}

// Modify records a setting change for today, tomorrow, this week or permanently.
func (s *BehaviorService) Modify(ctx context.Context, setting, value, duration string, now time.Time) (*model.BehaviorOverride, error) {
	from := DateString(now)
	until := ""
	switch strings.ToLower(duration) {
	case "today":
		until = from
	case "tomorrow":
		until = DateString(now.AddDate(0, 0, 1))
	case "this_week", "this week":
		dates, err := WeekDates(WeekID(now))
		if err != nil {
			return nil, err
		}
		until = dates["sunday"]
	}
	return s.put(ctx, setting, value, from, until, now)
}

// Pause silences proactive messages until the given point. "end of day" and
// the empty string mean today; "indefinitely" never expires.
func (s *BehaviorService) Pause(ctx context.Context, until string, now time.Time) (*model.BehaviorOverride, error) {
	return s.put(ctx, model.SettingPaused, model.ValueTrue, DateString(now), pauseUntil(until, now), now)
}

func pauseUntil(until string, now time.Time) string {
	u := strings.ToLower(strings.TrimSpace(until))
	switch {
	case u == "" || u == "end of day" || u == "today":
		return DateString(now)
	case u == "tomorrow":
		return DateString(now.AddDate(0, 0, 1))
	case u == "indefinitely" || u == "forever" || u == "permanent":
		return ""
	case isoDate.MatchString(u):
		return u
	case slices.Contains(DayNames, u):
		for i := 0; i < 7; i++ {
			d := now.AddDate(0, 0, i)
			if DayName(d) == u {
				return DateString(d)
			}
		}
	}
	return DateString(now)
}

func (s *BehaviorService) put(ctx context.Context, setting, value, from, until string, now time.Time) (*model.BehaviorOverride, error) {
	o := &model.BehaviorOverride{
		ID:           uuid.NewString(),
		Setting:      setting,
		Value:        value,
		AppliesFrom:  from,
		AppliesUntil: until,
		Active:       true,
		CreatedAt:    now,
	}
	if err := model.Validate(o); err != nil {
		return nil, err
	}
	if err := s.repo.Put(ctx, o); err != nil {
		return nil, err
	}
	s.log.Info().Str("setting", setting).Str("value", value).Str("until", until).Msg("behavior override set")
	return o, nil
}

// Resume deactivates every paused override.
func (s *BehaviorService) Resume(ctx context.Context) (int, error) {
	return s.deactivateWhere(ctx, func(o model.BehaviorOverride) bool { return o.Setting == model.SettingPaused })
}

// Reset deactivates all overrides.
func (s *BehaviorService) Reset(ctx context.Context) (int, error) {
	return s.deactivateWhere(ctx, func(model.BehaviorOverride) bool { return true })
}

func (s *BehaviorService) deactivateWhere(ctx context.Context, match func(model.BehaviorOverride) bool) (int, error) {
	all, err := s.repo.ListActive(ctx)
	if err != nil {
		return 0, err
	}
	var ids []string
	for _, o := range all {
		if match(o) {
			ids = append(ids, o.ID)
		}
	}
	if err := s.repo.Deactivate(ctx, ids...); err != nil {
		return 0, err
	}
	return len(ids), nil
}
