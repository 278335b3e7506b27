package intent

import (
	"context"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"workboard/internal/model"
	"workboard/internal/service"
)

var (
	hoursPattern    = regexp.MustCompile(`\b(\d+(?:\.\d+)?)\s*(?:h|hr|hrs|hour|hours)\b`)
	dayPattern      = regexp.MustCompile(`\b(?:on |for |by )?(monday|tuesday|wednesday|thursday|friday|saturday|sunday|today|tomorrow)\b`)
	clockPattern    = regexp.MustCompile(`\bat (\d{1,2}:\d{2})\b`)
	reminderPattern = regexp.MustCompile(`^remind me (?:to )?(.+?)(?: at (\d{1,2}:\d{2}))?(?: (daily|every day))?$`)
	numberPattern   = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*(?:h|hr|hrs|hours?)?$`)
)

var checkInWords = map[string]string{
	"✅":             service.ResponseDone,
	"👍":             service.ResponseDone,
	"done":          service.ResponseDone,
	"🔵":             service.ResponseWorking,
	"still working": service.ResponseWorking,
	"working":       service.ResponseWorking,
	"⏭":             service.ResponseSkipped,
	"skip":          service.ResponseSkipped,
	"skipped":       service.ResponseSkipped,
	"🔄":             service.ResponsePushed,
	"push":          service.ResponsePushed,
	"pushed":        service.ResponsePushed,
}

var confirmWords = []string{"yes", "y", "ok", "okay", "sure", "confirm"}

var subtypeHints = []struct {
	words   []string
	subtype string
}{
	{[]string{"grade", "grading"}, "Grading"},
	{[]string{"write", "draft", "writing"}, "Writing"},
	{[]string{"slides", "lecture"}, "Slides"},
	{[]string{"email", "emails"}, "Email"},
	{[]string{"meeting", "meet"}, "Meetings"},
	{[]string{"call", "book"}, "Errands"},
}

// RuleClassifier understands a fixed command vocabulary without a model.
type RuleClassifier struct{}

func (RuleClassifier) Classify(_ context.Context, text string, c *Context) (Intent, error) {
	return ParseRules(text, c), nil
}

// ParseRules classifies text by keyword rules. c may be nil.
func ParseRules(text string, c *Context) Intent {
	msg := strings.ToLower(strings.TrimSpace(strings.ReplaceAll(text, "\uFE0F", "")))
	if msg == "" {
		return Unknown{Raw: text}
	}

	if c != nil && c.Pending != nil && len(c.Pending.Missing) > 0 {
		field := c.Pending.Missing[0]
		if value, ok := pendingAnswer(msg, field); ok {
			return CompletePending{Field: field, Value: value}
		}
		if field == model.FieldProject {
			if in := parseCommand(text, msg, c); in.Kind() != KindUnknown {
				return in
			}
			return CompletePending{Field: field, Value: msg}
		}
	}
	return parseCommand(text, msg, c)
}

func parseCommand(text, msg string, c *Context) Intent {
	if status, ok := checkInWords[msg]; ok {
		return CheckInResponse{Status: status}
	}
	if slices.Contains(confirmWords, msg) {
		return CheckInResponse{Status: service.ResponseDone}
	}

	switch msg {
	case "what's next", "whats next", "next":
		return QueryNext{}
	case "today", "what's today", "show today":
		return QueryToday{}
	case "week", "show week", "this week":
		return QueryWeek{}
	case "reminders", "list reminders":
		return ListReminders{}
	case "subtypes", "list subtypes":
		return ManageSubtypes{Action: "list"}
	case "resume", "reset", "unpause":
		return ResetBehavior{}
	case "pause":
		return Pause{Until: "end of day"}
	case "thanks", "thank you", "cool", "got it":
		return Acknowledge{}
	}
	if strings.Contains(msg, "what's next") || strings.Contains(msg, "whats next") {
		return QueryNext{}
	}

	if rest, ok := strings.CutPrefix(msg, "done with "); ok {
		return StatusChange{Status: model.StatusDone, TaskMatch: rest}
	}
	if rest, ok := cutAnyPrefix(msg, "working on ", "doing ", "started "); ok {
		return StatusChange{Status: model.StatusDoing, TaskMatch: rest}
	}
	if rest, ok := cutAnyPrefix(msg, "skip ", "skipped "); ok {
		return StatusChange{Status: model.StatusSkipped, TaskMatch: rest}
	}
	if rest, ok := strings.CutPrefix(msg, "push "); ok {
		if i := strings.LastIndex(rest, " to "); i > 0 {
			task, day := rest[:i], strings.TrimSpace(rest[i+4:])
			if day == "tomorrow" {
				return PushTomorrow{TaskMatch: task}
			}
			return MoveTask{TaskMatch: task, ToDay: day}
		}
		return PushTomorrow{TaskMatch: rest}
	}
	if rest, ok := cutAnyPrefix(msg, "what's on ", "whats on ", "show ", "what's due "); ok {
		if day := dayPattern.FindStringSubmatch(rest); day != nil {
			return QueryDay{Day: resolveDayWord(day[1], c)}
		}
	}
	if slices.Contains(service.DayNames, msg) || msg == "tomorrow" {
		return QueryDay{Day: resolveDayWord(msg, c)}
	}

	if rest, ok := strings.CutPrefix(msg, "pause until "); ok {
		return Pause{Until: rest}
	}
	if rest, ok := strings.CutPrefix(msg, "delete reminder "); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(rest, "#"))); err == nil {
			return DeleteReminder{Number: n}
		}
	}
	if m := reminderPattern.FindStringSubmatch(msg); m != nil {
		r := SetReminder{Message: m[1], Time: m[2]}
		if m[3] != "" {
			r.Recurring = "daily"
		}
		return r
	}
	if rest, ok := cutAnyPrefix(text, "note:", "Note:", "note ", "Note "); ok && strings.TrimSpace(rest) != "" {
		return AddNote{Note: strings.TrimSpace(rest)}
	}
	if in, ok := parseSubtypeCommand(msg); ok {
		return in
	}
	if rest, ok := cutAnyPrefix(msg, "ate ", "food:", "food "); ok {
		return HealthLog{Type: model.CheckInLogFood, Entry: strings.TrimSpace(rest)}
	}
	if rest, ok := cutAnyPrefix(msg, "gym", "ran ", "walked ", "workout", "exercise:", "exercise "); ok {
		return HealthLog{Type: model.CheckInLogExercise, Entry: strings.TrimSpace(msg), Duration: strings.TrimSpace(rest)}
	}
	if rest, ok := cutAnyPrefix(msg, "slept "); ok {
		h := HealthLog{Type: model.CheckInLogSleep, Entry: msg}
		if m := hoursPattern.FindStringSubmatch(rest); m != nil {
			h.Hours, _ = strconv.ParseFloat(m[1], 64)
		}
		return h
	}

	if rest, ok := cutAnyPrefix(text, "add ", "Add "); ok {
		return parseAdd(rest, c)
	}

	return Unknown{Raw: text}
}

// pendingAnswer extracts an answer to field when msg is clearly one.
func pendingAnswer(msg, field string) (string, bool) {
	switch field {
	case model.FieldHours:
		if m := numberPattern.FindStringSubmatch(msg); m != nil {
			return m[1], true
		}
	case model.FieldDay:
		if slices.Contains(service.DayNames, msg) || msg == "today" || msg == "tomorrow" {
			return msg, true
		}
	case model.FieldConfirm:
		if slices.Contains(confirmWords, msg) || msg == "✅" || msg == "👍" {
			return msg, true
		}
	case model.FieldProject:
		if _, err := strconv.Atoi(msg); err == nil {
			return msg, true
		}
	}
	return "", false
}

func parseAdd(rest string, c *Context) Intent {
	draft := model.TaskDraft{Priority: model.PriorityNormal}
	orig := rest
	lower := strings.ToLower(rest)
	if len(lower) != len(orig) {
		orig = lower
	}
	cut := func(m []int) {
		lower = lower[:m[0]] + lower[m[1]:]
		orig = orig[:m[0]] + orig[m[1]:]
	}

	if m := hoursPattern.FindStringSubmatchIndex(lower); m != nil {
		draft.EstimatedHours, _ = strconv.ParseFloat(lower[m[2]:m[3]], 64)
		cut(m)
	}
	if m := clockPattern.FindStringSubmatchIndex(lower); m != nil {
		draft.Time = lower[m[2]:m[3]]
		cut(m)
	}
	if m := dayPattern.FindStringSubmatchIndex(lower); m != nil {
		draft.Day = lower[m[2]:m[3]]
		cut(m)
	}
	for _, w := range []string{"urgent", "high priority", "low priority"} {
		if i := strings.Index(lower, w); i >= 0 {
			draft.Priority = model.Priority(strings.Fields(w)[0])
			cut([]int{i, i + len(w)})
		}
	}
	draft.Name = strings.Join(strings.Fields(orig), " ")
	if draft.Name == "" {
		return Unknown{Raw: "add " + rest}
	}
	draft.Subtype = inferSubtype(strings.ToLower(draft.Name))

	var projects []model.Project
	if c != nil {
		projects = c.Projects
	}
	switch matches := service.MatchProjectsByHint(draft.Name, projects); len(matches) {
	case 1:
		draft.ProjectID = matches[0].ID
	case 0:
		draft.NeedsClarification = append(draft.NeedsClarification, model.FieldProject)
	default:
		for _, p := range matches {
			draft.ProjectCandidates = append(draft.ProjectCandidates, p.ID)
		}
		draft.NeedsClarification = append(draft.NeedsClarification, model.FieldProject)
	}
	if draft.Day == "" {
		draft.NeedsClarification = append(draft.NeedsClarification, model.FieldDay)
	}
	return AddTask{Tasks: []model.TaskDraft{draft}}
}

func inferSubtype(name string) string {
	words := strings.Fields(name)
	for _, h := range subtypeHints {
		for _, w := range h.words {
			if slices.Contains(words, w) {
				return h.subtype
			}
		}
	}
	return ""
}

func parseSubtypeCommand(msg string) (Intent, bool) {
	if rest, ok := strings.CutPrefix(msg, "list subtypes for "); ok {
		return ManageSubtypes{Action: "list", Area: strings.TrimSpace(rest)}, true
	}
	for _, action := range []string{"add", "remove"} {
		rest, ok := strings.CutPrefix(msg, action+" subtype ")
		if !ok {
			continue
		}
		sep := " to "
		if action == "remove" {
			sep = " from "
		}
		i := strings.LastIndex(rest, sep)
		if i <= 0 {
			return nil, false
		}
		return ManageSubtypes{
			Action:  action,
			Subtype: titleWords(rest[:i]),
			Area:    strings.TrimSpace(rest[i+len(sep):]),
		}, true
	}
	return nil, false
}

// titleWords restores capitalised subtype names from lowercased input.
func titleWords(s string) string {
	return cases.Title(language.English).String(strings.TrimSpace(s))
}

func resolveDayWord(day string, c *Context) string {
	if c == nil || c.Now.IsZero() {
		return day
	}
	switch day {
	case "today":
		return service.DayName(c.Now)
	case "tomorrow":
		return service.NextDayName(c.Now)
	}
	return day
}

func cutAnyPrefix(s string, prefixes ...string) (string, bool) {
	for _, p := range prefixes {
		if rest, ok := strings.CutPrefix(s, p); ok {
			return rest, true
		}
	}
	return "", false
}
