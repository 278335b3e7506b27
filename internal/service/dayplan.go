package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"workboard/internal/model"
	"workboard/internal/repository"
)

const (
	lunchStart  = 12 * 60
	lunchEnd    = 13 * 60
	breakEvery  = 150
	breakLength = 30
)

// Window is the workday in minutes since midnight.
type Window struct {
	Start int
	End   int
}

// DefaultWindow is 08:00-18:00.
var DefaultWindow = Window{Start: 8 * 60, End: 18 * 60}

// ParseWindow builds a window from two HH:MM strings, shrunk inward to
// 5-minute marks.
func ParseWindow(start, end string) (Window, error) {
	s, err := ParseClock(start)
	if err != nil {
		return Window{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return Window{}, err
	}
	s, e = roundUpTo5(s), e-e%5
	if e <= s {
		return Window{}, fmt.Errorf("workday end %s must be after start %s", end, start)
	}
	return Window{Start: s, End: e}, nil
}

type span struct{ start, end int }

func overlapsAny(busy []span, start, end int) bool {
	for _, b := range busy {
		if start < b.end && b.start < end {
			return true
		}
	}
	return false
}

// skipBusy moves cursor forward until [cursor, cursor+dur) is clear of busy spans.
func skipBusy(busy []span, cursor, dur int) int {
	for moved := true; moved; {
		moved = false
		for _, b := range busy {
			if cursor < b.end && b.start < cursor+dur {
				cursor = b.end
				moved = true
			}
		}
	}
	return cursor
}

// GenerateBlocks packs tasks into a day. Scheduled tasks keep their
// block_start/block_end verbatim; the rest are placed greedily by priority
// from the window start with a noon lunch, plus a 30 minute break whenever a
// block ends within half an hour past a 2.5 hour mark of the day. Tasks that
// do not start before the window closes are left out.
func GenerateBlocks(tasks []model.Task, window Window, scheduled []model.Task) []model.Block {
	var blocks []model.Block
	var busy []span

	for _, t := range scheduled {
		start, err := ParseClock(t.BlockStart)
		if err != nil {
			continue
		}
		end, err := ParseClock(t.BlockEnd)
		if err != nil || end <= start {
			end = start + durationMinutes(t.EstimatedHours)
		}
		blocks = append(blocks, workBlock(t, start, end))
		busy = append(busy, span{start, end})
	}

	queue := make([]model.Task, len(tasks))
	copy(queue, tasks)
	sort.SliceStable(queue, func(i, j int) bool {
		return queue[i].Priority.Rank() < queue[j].Priority.Rank()
	})

	open, closeAt := roundUpTo5(window.Start), window.End-window.End%5
	cursor := open
	for _, task := range queue {
		dur := durationMinutes(task.EstimatedHours)

		cursor = skipBusy(busy, cursor, dur)
		if cursor < lunchStart && cursor+dur > lunchStart && closeAt > lunchStart {
			if !overlapsAny(busy, lunchStart, lunchEnd) {
				blocks = append(blocks, breakBlock(lunchStart, lunchEnd, "Lunch"))
				busy = append(busy, span{lunchStart, lunchEnd})
			}
			cursor = skipBusy(busy, lunchEnd, dur)
		}
		if cursor >= closeAt {
			break
		}

		end := min(cursor+dur, closeAt)
		blocks = append(blocks, workBlock(task, cursor, end))
		busy = append(busy, span{cursor, end})
		cursor = end

		if since := cursor - open; since > 0 && since%breakEvery < breakLength && cursor != lunchEnd && cursor < closeAt {
			breakEnd := min(cursor+breakLength, closeAt)
			crossesLunch := cursor < lunchStart && breakEnd > lunchStart
			if !crossesLunch && !overlapsAny(busy, cursor, breakEnd) {
				blocks = append(blocks, breakBlock(cursor, breakEnd, "Break"))
				busy = append(busy, span{cursor, breakEnd})
				cursor = breakEnd
			}
		}
	}

	sort.SliceStable(blocks, func(i, j int) bool { return blocks[i].Start < blocks[j].Start })
	return blocks
}

func workBlock(t model.Task, start, end int) model.Block {
	return model.Block{
		Start:  FormatClock(start),
		End:    FormatClock(end),
		Type:   model.BlockWork,
		TaskID: t.ID,
		Label:  t.Name,
	}
}

func breakBlock(start, end int, label string) model.Block {
	return model.Block{
		Start: FormatClock(start),
		End:   FormatClock(end),
		Type:  model.BlockBreak,
		Label: label,
	}
}

func roundUpTo5(minutes int) int {
	if r := minutes % 5; r != 0 {
		return minutes + 5 - r
	}
	return minutes
}

// DayPlanService builds and stores day plans.
type DayPlanService struct {
	tasks    *repository.TaskRepository
	plans    *repository.DayPlanRepository
	window   Window
	capacity float64
	log      zerolog.Logger
}

func NewDayPlanService(tasks *repository.TaskRepository, plans *repository.DayPlanRepository, window Window, capacity float64, log zerolog.Logger) *DayPlanService {
	return &DayPlanService{tasks: tasks, plans: plans, window: window, capacity: capacity, log: log}
}

// Get returns the stored plan for date, or nil.
func (s *DayPlanService) Get(ctx context.Context, date string) (*model.DayPlan, error) {
	return s.plans.Get(ctx, date)
}

// Ensure returns the plan for day, generating one if it is missing or empty.
func (s *DayPlanService) Ensure(ctx context.Context, day time.Time) (*model.DayPlan, error) {
	plan, err := s.plans.Get(ctx, DateString(day))
	if err != nil {
		return nil, err
	}
	if plan != nil && len(plan.Blocks) > 0 {
		return plan, nil
	}
	return s.Generate(ctx, day)
}

// Generate (re)builds the plan for day. Sent flags of an existing plan are kept.
func (s *DayPlanService) Generate(ctx context.Context, day time.Time) (*model.DayPlan, error) {
	date := DateString(day)
	tasks, err := s.TasksFor(ctx, day)
	if err != nil {
		return nil, err
	}

	var scheduled, unscheduled []model.Task
	for _, t := range tasks {
		if !t.Status.Schedulable() {
			continue
		}
		if t.BlockStart != "" {
			scheduled = append(scheduled, t)
		} else {
			unscheduled = append(unscheduled, t)
		}
	}

	plan := &model.DayPlan{
		Date:          date,
		WeekID:        WeekID(day),
		Blocks:        GenerateBlocks(unscheduled, s.window, scheduled),
		CapacityHours: s.capacity,
	}
	existing, err := s.plans.Get(ctx, date)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		plan.MorningSent = existing.MorningSent
		plan.MiddaySent = existing.MiddaySent
		plan.EveningSent = existing.EveningSent
		plan.CreatedAt = existing.CreatedAt
	}

	if err := s.plans.Put(ctx, plan); err != nil {
		return nil, err
	}
	s.log.Info().Str("date", date).Int("blocks", len(plan.Blocks)).Int("tasks", len(scheduled)+len(unscheduled)).
		Msg("day plan generated")
	return plan, nil
}

// TasksFor returns the tasks assigned to day, by week and day name plus any
// whose calendar date matches and which have not been moved to another day.
func (s *DayPlanService) TasksFor(ctx context.Context, day time.Time) ([]model.Task, error) {
	dayName := DayName(day)
	byWeek, err := s.tasks.ListByWeek(ctx, WeekID(day), dayName)
	if err != nil {
		return nil, err
	}
	byDate, err := s.tasks.ListByDate(ctx, DateString(day))
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(byWeek))
	out := make([]model.Task, 0, len(byWeek)+len(byDate))
	for _, t := range byWeek {
		seen[t.ID] = struct{}{}
		out = append(out, t)
	}
	for _, t := range byDate {
		if _, ok := seen[t.ID]; ok {
			continue
		}
		if t.Day != "" && t.Day != dayName {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// MarkSent flips one of the plan's sent flags.
func (s *DayPlanService) MarkSent(ctx context.Context, date string, kind model.CheckInType) error {
	var column string
	switch kind {
	case model.CheckInMorning:
		column = "morning_sent"
	case model.CheckInMidday:
		column = "midday_sent"
	case model.CheckInEvening:
		column = "evening_sent"
	default:
		return fmt.Errorf("no sent flag for %q", kind)
	}
	return s.plans.UpdateFields(ctx, date, map[string]any{column: true})
}
