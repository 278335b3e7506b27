package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"workboard/internal/intent"
	"workboard/internal/model"
	"workboard/internal/service"
)

// Result is what executing one intent produced. Only the fields relevant to
// Kind are set.
type Result struct {
	Kind intent.Kind
	// Problem explains, in user terms, why the request was not carried out.
	Problem string

	// add_task and complete_pending
	Created        []model.Task
	Pending        *model.PendingTask
	PendingMessage string
	NothingPending bool
	Accepted       bool

	// task mutations and queries
	Task    *model.Task
	Next    *service.NextUp
	Day     string
	DayLoad float64
	Tasks   []model.Task
	Plan    *model.DayPlan

	Absorbed  *service.Absorption
	Reminder  *model.Reminder
	Reminders []model.Reminder
	Override  *model.BehaviorOverride
	Cleared   int
	Note      *service.NoteResult
	Logged    *model.CheckIn
	Subtypes  map[string][]string
	Reply     string
	Saved     bool
}

// Execute performs the side effects of in against the context snapshot c.
// Domain refusals come back as Result.Problem; a non-nil error means a
// collaborator failed.
func (o *Orchestrator) Execute(ctx context.Context, in intent.Intent, c *intent.Context) (*Result, error) {
	res := &Result{Kind: in.Kind()}
	now := c.Now

	var err error
	switch v := in.(type) {
	case intent.AddTask:
		err = o.addTasks(ctx, v, c, res)

	case intent.CompletePending:
		var sub service.Submission
		sub, err = o.svc.Pending.Submit(ctx, v.Field, v.Value, now)
		if err != nil {
			break
		}
		res.NothingPending = sub.NothingPending
		res.Accepted = sub.Accepted
		res.Pending = sub.Pending
		if sub.Task != nil {
			res.Created = []model.Task{*sub.Task}
			err = o.refreshPlan(ctx, c, *sub.Task)
		}

	case intent.StatusChange:
		task := service.ResolveTask(v.TaskMatch, c.TodayTasks, c.WeekTasks)
		if task == nil {
			res.Problem = noMatch(v.TaskMatch)
			break
		}
		if res.Task, err = o.svc.Tasks.SetStatus(ctx, *task, v.Status, now); err != nil {
			break
		}
		res.Next = service.NextTask(c.Plan, todayAfter(c, *res.Task))

	case intent.MoveTask:
		day, _, _ := service.ResolveDay(v.ToDay, now)
		if !slices.Contains(service.DayNames, day) {
			res.Problem = fmt.Sprintf("I don't know the day '%s'.", v.ToDay)
			break
		}
		task := service.ResolveTask(v.TaskMatch, nil, c.WeekTasks)
		if task == nil {
			res.Problem = noMatch(v.TaskMatch)
			break
		}
		if res.Task, err = o.svc.Tasks.MoveToDay(ctx, *task, day); err != nil {
			break
		}
		res.Day = day
		res.DayLoad = service.DayLoad(replaceTask(c.WeekTasks, *res.Task), day)

	case intent.PushTomorrow:
		task := service.ResolveTask(v.TaskMatch, c.TodayTasks, c.WeekTasks)
		if task == nil {
			res.Problem = noMatch(v.TaskMatch)
			break
		}
		if res.Task, err = o.svc.Tasks.PushToNextDay(ctx, *task, now); err != nil {
			break
		}
		res.Day = res.Task.Day

	case intent.QueryNext:
		res.Next = service.NextTask(c.Plan, c.TodayTasks)

	case intent.QueryToday:
		res.Tasks = withoutDropped(c.TodayTasks)
		res.Plan = c.Plan

	case intent.QueryDay:
		day, _, _ := service.ResolveDay(v.Day, now)
		res.Day = day
		for _, t := range c.WeekTasks {
			if t.Day == day && t.Status != model.StatusDropped {
				res.Tasks = append(res.Tasks, t)
			}
		}

	case intent.QueryWeek:
		res.Tasks = withoutDropped(c.WeekTasks)

	case intent.CheckInResponse:
		if res.Absorbed, err = o.svc.CheckIns.Absorb(ctx, v.Status, now); err != nil {
			break
		}
		res.Task = res.Absorbed.Task
		today := c.TodayTasks
		if res.Task != nil {
			today = todayAfter(c, *res.Task)
		}
		res.Next = service.NextTask(c.Plan, today)

	case intent.Acknowledge:

	case intent.SetReminder:
		res.Reminder, err = o.svc.Reminders.Create(ctx, service.ReminderInput{
			Message:    v.Message,
			Date:       v.Date,
			Time:       v.Time,
			Recurrence: v.Recurring,
		}, now)

	case intent.DeleteReminder:
		if res.Reminder, err = o.svc.Reminders.DeleteByNumber(ctx, v.Number); err == nil && res.Reminder == nil {
			res.Problem = "Invalid reminder number."
		}

	case intent.ListReminders:
		res.Reminders, err = o.svc.Reminders.ListActive(ctx)

	case intent.ModifyBehavior:
		res.Override, err = o.svc.Behavior.Modify(ctx, v.Setting, v.Value, v.Duration, now)

	case intent.ResetBehavior:
		res.Cleared, err = o.svc.Behavior.Reset(ctx)

	case intent.AddNote:
		res.Note, err = o.svc.Notes.Add(ctx, service.NoteInput{
			Note:           v.Note,
			ProjectID:      v.TaggedProject,
			NewProjectName: v.NewProjectName,
			NewProjectArea: v.NewProjectArea,
			TaskHint:       v.TaggedTask,
			AppliesUntil:   v.AppliesUntil,
		}, c.WeekTasks, now)

	case intent.HealthLog:
		res.Logged, err = o.svc.CheckIns.Record(ctx, "", v.Type, healthEntry(v), now)

	case intent.Pause:
		res.Override, err = o.svc.Behavior.Pause(ctx, v.Until, now)

	case intent.ManageSubtypes:
		err = o.manageSubtypes(ctx, v, res)

	case intent.Chat:
		res.Reply = v.Reply
		if v.SaveAsNote && strings.TrimSpace(v.Message) != "" {
			if res.Note, err = o.svc.Notes.Add(ctx, service.NoteInput{Note: v.Message}, nil, now); err == nil {
				res.Saved = true
			}
		}

	case intent.Unknown:

	default:
		return nil, fmt.Errorf("execute intent: unhandled kind %q", in.Kind())
	}

	if err != nil {
		if errors.Is(err, model.ErrInvalid) {
			res.Problem = problemText(err)
			return res, nil
		}
		return nil, fmt.Errorf("execute %s: %w", in.Kind(), err)
	}
	return res, nil
}

// addTasks commits complete drafts and parks the first incomplete one for
// clarification. Only one task can be pending, so later incomplete drafts
// are dropped.
func (o *Orchestrator) addTasks(ctx context.Context, v intent.AddTask, c *intent.Context, res *Result) error {
	for _, draft := range v.Tasks {
		if len(draft.NeedsClarification) > 0 {
			if res.Pending != nil {
				o.log.Warn().Str("task", draft.Name).Msg("dropping second draft needing clarification")
				continue
			}
			p, err := o.svc.Pending.Begin(ctx, draft, c.Projects, c.Now)
			if err != nil {
				return err
			}
			res.Pending = p
			res.PendingMessage = v.MessageToUser
			continue
		}
		task, err := o.svc.Tasks.CreateFromDraft(ctx, draft, c.Now)
		if err != nil {
			return err
		}
		res.Created = append(res.Created, *task)
	}
	return o.refreshPlan(ctx, c, res.Created...)
}

// refreshPlan regenerates today's existing plan when a new task lands on it.
func (o *Orchestrator) refreshPlan(ctx context.Context, c *intent.Context, created ...model.Task) error {
	if c.Plan == nil {
		return nil
	}
	for _, t := range created {
		if t.Date == c.Today {
			plan, err := o.svc.Plans.Generate(ctx, c.Now)
			if err != nil {
				return err
			}
			c.Plan = plan
			return nil
		}
	}
	return nil
}

func (o *Orchestrator) manageSubtypes(ctx context.Context, v intent.ManageSubtypes, res *Result) error {
	area := strings.ToLower(strings.TrimSpace(v.Area))
	switch v.Action {
	case "add", "remove":
		change := o.svc.Subtypes.Add
		if v.Action == "remove" {
			change = o.svc.Subtypes.Remove
		}
		list, err := change(ctx, area, strings.TrimSpace(v.Subtype))
		if err != nil {
			return err
		}
		res.Subtypes = map[string][]string{area: list}
		return nil
	default:
		list, err := o.svc.Subtypes.List(ctx, area)
		if err != nil {
			return err
		}
		res.Subtypes = list
		return nil
	}
}

func healthEntry(h intent.HealthLog) string {
	switch h.Type {
	case model.CheckInLogSleep:
		entry := "slept"
		if h.Hours > 0 {
			entry += " " + strconv.FormatFloat(h.Hours, 'f', -1, 64) + "h"
		}
		if h.Notes != "" {
			entry += ": " + h.Notes
		}
		return entry
	case model.CheckInLogExercise:
		if h.Duration != "" && !strings.Contains(h.Entry, h.Duration) {
			return h.Entry + " (" + h.Duration + ")"
		}
	}
	return h.Entry
}

// todayAfter is today's task list with t's new state applied; tasks moved
// off today drop out.
func todayAfter(c *intent.Context, t model.Task) []model.Task {
	var out []model.Task
	for _, x := range replaceTask(c.TodayTasks, t) {
		if x.Day != "" && x.Day != c.DayName {
			continue
		}
		out = append(out, x)
	}
	return out
}

func replaceTask(tasks []model.Task, t model.Task) []model.Task {
	out := slices.Clone(tasks)
	for i := range out {
		if out[i].ID == t.ID {
			out[i] = t
			return out
		}
	}
	return append(out, t)
}

func withoutDropped(tasks []model.Task) []model.Task {
	var out []model.Task
	for _, t := range tasks {
		if t.Status != model.StatusDropped {
			out = append(out, t)
		}
	}
	return out
}

func noMatch(fragment string) string {
	return fmt.Sprintf("No matching task found for '%s'.", fragment)
}

func problemText(err error) string {
	_, msg, ok := strings.Cut(err.Error(), model.ErrInvalid.Error()+": ")
	if !ok || msg == "" {
		return "That didn't look right."
	}
	return strings.ToUpper(msg[:1]) + msg[1:] + "."
}
