package service

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"workboard/internal/model"
)

// Pass outcomes.
const (
	PassSent        = "sent"
	PassAlreadySent = "already_sent"
	PassPaused      = "paused"
)

// AreaEmoji marks a project's area in block listings.
var AreaEmoji = map[string]string{
	"teaching": "🟦",
	"research": "🟪",
	"admin":    "🟨",
	"personal": "🟩",
}

// PassResult reports what a scheduled pass did.
type PassResult struct {
	Status string
	Date   string
	Blocks int
	Score  string
}

// BriefingService runs the morning, midday and evening passes.
type BriefingService struct {
	plans     *DayPlanService
	tasks     *TaskService
	projects  *ProjectService
	checkins  *CheckInService
	behavior  *BehaviorService
	messenger Messenger
	log       zerolog.Logger
}

func NewBriefingService(plans *DayPlanService, tasks *TaskService, projects *ProjectService, checkins *CheckInService, behavior *BehaviorService, messenger Messenger, log zerolog.Logger) *BriefingService {
	return &BriefingService{
		plans:     plans,
		tasks:     tasks,
		projects:  projects,
		checkins:  checkins,
		behavior:  behavior,
		messenger: messenger,
		log:       log,
	}
}

// Morning ensures today's plan exists and sends the day's briefing once.
func (s *BriefingService) Morning(ctx context.Context, now time.Time) (PassResult, error) {
	plan, err := s.plans.Ensure(ctx, now)
	if err != nil {
		return PassResult{}, err
	}
	return s.run(ctx, now, plan, model.CheckInMorning, plan.MorningSent, func(d dayView) (string, string) {
		return d.morning(), ""
	})
}

// Midday reports morning results and the afternoon blocks once.
func (s *BriefingService) Midday(ctx context.Context, now time.Time) (PassResult, error) {
	plan, err := s.plans.Ensure(ctx, now)
	if err != nil {
		return PassResult{}, err
	}
	return s.run(ctx, now, plan, model.CheckInMidday, plan.MiddaySent, func(d dayView) (string, string) {
		return d.midday()
	})
}

// Evening summarises the day once.
func (s *BriefingService) Evening(ctx context.Context, now time.Time) (PassResult, error) {
	plan, err := s.plans.Ensure(ctx, now)
	if err != nil {
		return PassResult{}, err
	}
	return s.run(ctx, now, plan, model.CheckInEvening, plan.EveningSent, func(d dayView) (string, string) {
		return d.evening()
	})
}

func (s *BriefingService) run(ctx context.Context, now time.Time, plan *model.DayPlan, kind model.CheckInType, sent bool, build func(dayView) (string, string)) (PassResult, error) {
	res := PassResult{Date: plan.Date, Blocks: len(plan.Blocks)}
	if sent {
		res.Status = PassAlreadySent
		return res, nil
	}
	paused, err := s.behavior.IsPaused(ctx, now)
	if err != nil {
		return PassResult{}, err
	}
	if paused {
		res.Status = PassPaused
		s.log.Info().Str("pass", string(kind)).Msg("paused, skipping pass")
		return res, nil
	}

	view, err := s.load(ctx, now, plan)
	if err != nil {
		return PassResult{}, err
	}
	msg, score := build(view)
	if err := s.messenger.Send(ctx, msg); err != nil {
		return PassResult{}, fmt.Errorf("send %s pass: %w", kind, err)
	}
	if _, err := s.checkins.Record(ctx, "", kind, msg, now); err != nil {
		return PassResult{}, err
	}
	if err := s.plans.MarkSent(ctx, plan.Date, kind); err != nil {
		return PassResult{}, err
	}
	s.log.Info().Str("pass", string(kind)).Str("date", plan.Date).Msg("pass sent")
	res.Status = PassSent
	res.Score = score
	return res, nil
}

// dayView is everything a pass message is built from.
type dayView struct {
	now      time.Time
	plan     *model.DayPlan
	tasks    map[string]model.Task
	today    []model.Task
	week     []model.Task
	projects map[string]model.Project
	checkins []model.CheckIn
}

func (s *BriefingService) load(ctx context.Context, now time.Time, plan *model.DayPlan) (dayView, error) {
	v := dayView{now: now, plan: plan, tasks: make(map[string]model.Task), projects: make(map[string]model.Project)}
	var err error
	if v.today, err = s.tasks.Today(ctx, now); err != nil {
		return v, err
	}
	if v.week, err = s.tasks.Week(ctx, now); err != nil {
		return v, err
	}
	for _, t := range v.week {
		v.tasks[t.ID] = t
	}
	for _, t := range v.today {
		v.tasks[t.ID] = t
	}
	for _, b := range plan.Blocks {
		if b.TaskID == "" {
			continue
		}
		if _, ok := v.tasks[b.TaskID]; ok {
			continue
		}
		t, err := s.tasks.Get(ctx, b.TaskID)
		if err != nil {
			return v, err
		}
		if t != nil {
			v.tasks[t.ID] = *t
		}
	}
	projects, err := s.projects.ListActive(ctx)
	if err != nil {
		return v, err
	}
	for _, p := range projects {
		v.projects[p.ID] = p
	}
	if v.checkins, err = s.checkins.Today(ctx, now); err != nil {
		return v, err
	}
	return v, nil
}

func (d dayView) projectName(t model.Task) string {
	if p, ok := d.projects[t.ProjectID]; ok {
		return p.Name
	}
	return "?"
}

func (d dayView) blockLine(b model.Block) string {
	if b.Type == model.BlockBreak {
		return fmt.Sprintf("🍽 %s-%s | %s", b.Start, b.End, b.Label)
	}
	t, ok := d.tasks[b.TaskID]
	if !ok {
		return fmt.Sprintf("⬜ %s-%s | Unassigned", b.Start, b.End)
	}
	emoji := AreaEmoji["admin"]
	if p, ok := d.projects[t.ProjectID]; ok {
		if e, ok := AreaEmoji[p.Area]; ok {
			emoji = e
		}
	}
	subtype := t.Subtype
	if subtype == "" {
		subtype = "General"
	}
	return fmt.Sprintf("%s %s-%s | %s: %s [%s, %s]", emoji, b.Start, b.End, d.projectName(t), t.Name, subtype, FormatHours(t.EstimatedHours))
}

func (d dayView) morning() string {
	var active, done int
	areas := make(map[string]bool)
	for _, t := range d.week {
		if t.Status == model.StatusDropped {
			continue
		}
		active++
		if t.Status == model.StatusDone {
			done++
		}
		if p, ok := d.projects[t.ProjectID]; ok {
			areas[p.Area] = true
		}
	}
	pct := 0
	if active > 0 {
		pct = done * 100 / active
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Good morning. Here's %s, %s.\n\n", d.now.Weekday(), d.now.Format("Jan 02"))
	fmt.Fprintf(&b, "Week progress: %d/%d tasks done (%d%%)\n\n", done, active, pct)
	b.WriteString("*TODAY'S BLOCKS:*\n")

	planned := 0.0
	urgent := 0
	for _, blk := range d.plan.Blocks {
		b.WriteString(d.blockLine(blk))
		b.WriteByte('\n')
		if t, ok := d.tasks[blk.TaskID]; ok && blk.Type == model.BlockWork {
			planned += t.EstimatedHours
			if t.Priority == model.PriorityUrgent {
				urgent++
			}
		}
	}
	if len(d.plan.Blocks) == 0 {
		b.WriteString("Nothing scheduled.\n")
	}

	parts := []string{fmt.Sprintf("⏱ %s planned", FormatHours(planned))}
	if urgent > 0 {
		parts = append(parts, fmt.Sprintf("🔴 %d urgent", urgent))
	}
	var neglected []string
	for _, a := range model.Areas {
		if !areas[a] {
			neglected = append(neglected, a)
		}
	}
	if len(neglected) > 0 {
		parts = append(parts, fmt.Sprintf("⚠ %s has 0 tasks this week", strings.Join(neglected, ", ")))
	}
	b.WriteString("\n" + strings.Join(parts, " | ") + "\n\n")
	b.WriteString("Reply:\n✅ = ready to start\n📋 = show full week\n➕ \"task name\" = quick add")
	return b.String()
}

func (d dayView) midday() (string, string) {
	var done, skipped, total int
	var afternoon []model.Block
	for _, blk := range d.plan.Blocks {
		if blk.Start >= "13:00" {
			afternoon = append(afternoon, blk)
			continue
		}
		if blk.Type != model.BlockWork || blk.TaskID == "" {
			continue
		}
		total++
		switch d.tasks[blk.TaskID].Status {
		case model.StatusDone:
			done++
		case model.StatusSkipped:
			skipped++
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 Midday check: %d/%d blocks done", done, total)
	if skipped > 0 {
		fmt.Fprintf(&b, ", %d skipped", skipped)
	}
	b.WriteString(".\n\n*AFTERNOON:*\n")
	for _, blk := range afternoon {
		b.WriteString(d.blockLine(blk))
		b.WriteByte('\n')
	}
	if len(afternoon) == 0 {
		b.WriteString("Nothing scheduled.\n")
	}
	b.WriteString("\nAnything changed? Reply 👍 to continue or tell me what shifted.")
	return b.String(), fmt.Sprintf("%d/%d", done, total)
}

func (d dayView) evening() (string, string) {
	var active []model.Task
	for _, t := range d.today {
		if t.Status != model.StatusDropped {
			active = append(active, t)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*Day summary*: %s, %s.\n\n", d.now.Weekday(), d.now.Format("Jan 02"))
	var done, carried, skipped int
	for _, t := range active {
		icon, label := "❌", "not done"
		switch t.Status {
		case model.StatusDone:
			icon, label = "✅", "done"
			done++
		case model.StatusDoing:
			icon, label = "🔵", "in progress"
			carried++
		case model.StatusSkipped:
			icon, label = "⏭", "skipped"
			skipped++
		default:
			carried++
		}
		fmt.Fprintf(&b, "%s %s: %s (%s)\n", icon, d.projectName(t), t.Name, label)
	}
	score := fmt.Sprintf("%d/%d", done, len(active))
	fmt.Fprintf(&b, "\nScore: %s complete | %d carried forward | %d skipped\n", score, carried, skipped)

	tomorrow := NextDayName(d.now)
	var tomorrowCount int
	var tomorrowHours float64
	for _, t := range d.week {
		if t.Day == tomorrow && t.Status.Schedulable() {
			tomorrowCount++
			tomorrowHours += t.EstimatedHours
		}
	}
	if tomorrowCount > 0 {
		fmt.Fprintf(&b, "\nTomorrow has %s planned across %d tasks.\n", FormatHours(tomorrowHours), tomorrowCount)
	}

	todayIdx := slices.Index(DayNames, DayName(d.now))
	var behind []model.Task
	for _, t := range d.week {
		if !t.Status.Active() || (t.Priority != model.PriorityUrgent && t.Priority != model.PriorityHigh) {
			continue
		}
		if idx := slices.Index(DayNames, t.Day); idx >= 0 && idx < todayIdx {
			behind = append(behind, t)
		}
	}
	if len(behind) > 0 {
		fmt.Fprintf(&b, "\n⚠ *%d task(s) behind schedule:*\n", len(behind))
		for _, t := range behind[:min(3, len(behind))] {
			fmt.Fprintf(&b, "  • %s: %s (was %s)\n", d.projectName(t), t.Name, t.Day)
		}
	}

	var food, exercise int
	for _, ci := range d.checkins {
		switch ci.Type {
		case model.CheckInLogFood:
			food++
		case model.CheckInLogExercise:
			exercise++
		}
	}
	b.WriteByte('\n')
	if exercise > 0 {
		fmt.Fprintf(&b, "🏋 Exercise: %d logged today\n", exercise)
	} else {
		b.WriteString("🏋 No exercise logged today.\n")
	}
	if food > 0 {
		fmt.Fprintf(&b, "🍽 Food: %d entries logged\n", food)
	} else {
		b.WriteString("🍽 No food logged today. How was your eating?\n")
	}
	b.WriteString("\n💤 *Sleep reminder:* Start winding down. Target 7h sleep.")
	return b.String(), score
}

// FormatHours renders hours without trailing zeros, e.g. 1.5h.
func FormatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64) + "h"
}
