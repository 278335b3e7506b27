package orchestrator

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"workboard/internal/intent"
	"workboard/internal/model"
	"workboard/internal/service"
)

// Failure is sent when executing a message failed unexpectedly.
const Failure = "Something went wrong processing that. Try again?"

var priorityEmoji = map[model.Priority]string{
	model.PriorityUrgent: "🔴",
	model.PriorityHigh:   "🟠",
	model.PriorityNormal: "🟡",
	model.PriorityLow:    "⚪",
}

// Render formats the reply for an executed intent.
func Render(in intent.Intent, res *Result, c *intent.Context) string {
	if res.Problem != "" {
		return res.Problem
	}
	names := projectNames(c)

	switch v := in.(type) {
	case intent.AddTask:
		if res.Pending != nil && len(res.Created) == 0 {
			if res.PendingMessage != "" {
				return res.PendingMessage
			}
			return question(res.Pending)
		}
		var msgs []string
		for _, t := range res.Created {
			msgs = append(msgs, addedLine(t, names, c))
		}
		if res.Pending != nil {
			msgs = append(msgs, question(res.Pending))
		}
		switch len(msgs) {
		case 0:
			return "Task noted."
		case 1:
			return msgs[0]
		}
		for i := range msgs {
			msgs[i] = fmt.Sprintf("%d. %s", i+1, msgs[i])
		}
		return strings.Join(msgs, "\n\n")

	case intent.CompletePending:
		switch {
		case res.NothingPending:
			return "There's nothing waiting for an answer."
		case len(res.Created) > 0:
			t := res.Created[0]
			return fmt.Sprintf("✅ Added:\n*%s*: %s\n⏱ %s | 📅 %s",
				nameOr(names[t.ProjectID], "No project"), t.Name, service.FormatHours(t.EstimatedHours), dayLabel(t.Day))
		case res.Pending != nil && !res.Accepted:
			return "I couldn't use that. " + question(res.Pending)
		case res.Pending != nil:
			return "Got it. " + question(res.Pending)
		}
		return "Got it."

	case intent.StatusChange:
		name := res.Task.Name
		switch v.Status {
		case model.StatusDoing:
			return fmt.Sprintf("🔵 *%s*: working on it.", name)
		case model.StatusSkipped:
			return fmt.Sprintf("⏭ *%s* skipped.", name)
		}
		msg := fmt.Sprintf("✅ *%s* marked done.", name)
		if res.Next != nil {
			msg += "\nNext up: " + nextLabel(res.Next)
		}
		return msg

	case intent.MoveTask:
		msg := fmt.Sprintf("📅 *%s* moved to %s.", res.Task.Name, dayLabel(res.Day))
		if res.DayLoad > 0 {
			msg += fmt.Sprintf("\n%s now at %s.", dayLabel(res.Day), service.FormatHours(res.DayLoad))
		}
		return msg

	case intent.PushTomorrow:
		return fmt.Sprintf("📅 *%s* pushed to tomorrow.", res.Task.Name)

	case intent.QueryNext:
		if res.Next == nil {
			return "Nothing left for today. You're done!"
		}
		return "Next: " + nextLabel(res.Next)

	case intent.QueryToday:
		if len(res.Tasks) == 0 {
			return "No tasks scheduled for today."
		}
		return taskList("TODAY", res.Tasks)

	case intent.QueryDay:
		if len(res.Tasks) == 0 {
			return fmt.Sprintf("Nothing scheduled for *%s*.", dayLabel(res.Day))
		}
		return taskList(strings.ToUpper(res.Day), res.Tasks)

	case intent.QueryWeek:
		return weekSummary(res.Tasks)

	case intent.CheckInResponse:
		return checkInReply(v.Status, res)

	case intent.Acknowledge:
		return "✅"

	case intent.SetReminder:
		r := res.Reminder
		if r.Recurrence != "" {
			return fmt.Sprintf("🔁 Recurring reminder set: %s (%s, %s)", r.Message, r.Recurrence, r.TriggerTime)
		}
		return fmt.Sprintf("⏰ Reminder set: %s (%s %s)", r.Message, r.TriggerDate, r.TriggerTime)

	case intent.DeleteReminder:
		return "✅ Deleted: " + res.Reminder.Message

	case intent.ListReminders:
		if len(res.Reminders) == 0 {
			return "No active reminders."
		}
		lines := []string{"Your active reminders:"}
		for i, r := range res.Reminders {
			when := strings.TrimSpace(r.TriggerDate + " " + r.TriggerTime)
			prefix := "⏰"
			if r.Recurrence != "" {
				prefix = "🔁"
				when = r.Recurrence + " " + r.TriggerTime
			}
			lines = append(lines, fmt.Sprintf("%d. %s %s (%s)", i+1, prefix, r.Message, when))
		}
		lines = append(lines, "\nReply \"delete reminder N\" to remove one.")
		return strings.Join(lines, "\n")

	case intent.ModifyBehavior:
		o := res.Override
		until := "for good"
		if o.AppliesUntil != "" {
			until = "until " + o.AppliesUntil
		}
		return fmt.Sprintf("✅ %s set to %s %s.", o.Setting, nameOr(o.Value, "on"), until)

	case intent.ResetBehavior:
		if res.Cleared == 0 {
			return "Nothing to reset. Everything is on defaults."
		}
		return fmt.Sprintf("✅ Back to defaults (%d override(s) cleared).", res.Cleared)

	case intent.AddNote:
		return noteReply(res.Note)

	case intent.HealthLog:
		switch v.Type {
		case model.CheckInLogSleep:
			msg := "💤 Sleep logged"
			if v.Hours > 0 {
				msg += ": " + service.FormatHours(v.Hours)
			}
			if v.Notes != "" {
				msg += " (" + v.Notes + ")"
			}
			return msg
		case model.CheckInLogExercise:
			msg := "🏋 Exercise logged: " + v.Entry
			if v.Duration != "" && !strings.Contains(v.Entry, v.Duration) {
				msg += " (" + v.Duration + ")"
			}
			return msg
		}
		return "📝 Food logged: " + v.Entry

	case intent.Pause:
		until := res.Override.AppliesUntil
		if until == "" {
			until = "further notice"
		}
		return fmt.Sprintf("🔕 Paused until %s. Say \"resume\" to turn me back on.", until)

	case intent.ManageSubtypes:
		return subtypeReply(v, res.Subtypes)

	case intent.Chat:
		if res.Reply == "" {
			if res.Saved {
				return "📌 Noted."
			}
			return "💬 Got it."
		}
		if res.Saved {
			return "📌 " + res.Reply
		}
		return res.Reply

	case intent.Unknown:
		return "I didn't catch that. Try \"add <task> 2h tomorrow\", \"done with <task>\", \"what's next\" or \"week\"."
	}
	return fmt.Sprintf("Got it. (%s)", in.Kind())
}

func projectNames(c *intent.Context) map[string]string {
	names := make(map[string]string)
	if c == nil {
		return names
	}
	for _, p := range c.Projects {
		names[p.ID] = p.Name
	}
	return names
}

func projectArea(id string, c *intent.Context) string {
	if c != nil {
		for _, p := range c.Projects {
			if p.ID == id {
				return p.Area
			}
		}
	}
	return ""
}

func addedLine(t model.Task, names map[string]string, c *intent.Context) string {
	emoji, ok := service.AreaEmoji[projectArea(t.ProjectID, c)]
	if !ok {
		emoji = "📋"
	}
	at := ""
	if t.BlockStart != "" {
		at = " @ " + t.BlockStart
		if t.BlockEnd != "" {
			at += "-" + t.BlockEnd
		}
	}
	return fmt.Sprintf("✅ Added to *%s*%s:\n%s *%s*: %s\n📁 %s | ⏱ %s | %s %s",
		dayLabel(t.Day), at,
		emoji, nameOr(names[t.ProjectID], "No project"), t.Name,
		nameOr(t.Subtype, "General"), service.FormatHours(t.EstimatedHours),
		priorityEmoji[t.Priority], t.Priority)
}

// question asks for the first missing field of p.
func question(p *model.PendingTask) string {
	if len(p.Missing) == 0 {
		return "Anything else?"
	}
	switch p.Missing[0] {
	case model.FieldProject:
		var b strings.Builder
		fmt.Fprintf(&b, "Which project is *%s* for?", p.Draft.Name)
		for i, cand := range p.Candidates {
			fmt.Fprintf(&b, "\n%d. %s", i+1, cand.Name)
		}
		return b.String()
	case model.FieldHours:
		return fmt.Sprintf("How many hours for *%s*?", p.Draft.Name)
	case model.FieldDay:
		return fmt.Sprintf("Which day should *%s* go on?", p.Draft.Name)
	default:
		return fmt.Sprintf("Add *%s*? Reply yes to confirm.", p.Draft.Name)
	}
}

func nextLabel(n *service.NextUp) string {
	label := "*" + n.Task.Name + "*"
	switch {
	case n.Block != nil:
		label += fmt.Sprintf(" (%s)", n.Block.Start)
	case n.Task.BlockStart != "":
		label += fmt.Sprintf(" (%s)", n.Task.BlockStart)
	}
	return label
}

func statusIcon(s model.TaskStatus) string {
	switch s {
	case model.StatusDone:
		return "✅"
	case model.StatusDoing:
		return "🔵"
	case model.StatusSkipped:
		return "⏭"
	}
	return "⬜"
}

func taskList(heading string, tasks []model.Task) string {
	done := 0
	for _, t := range tasks {
		if t.Status == model.StatusDone {
			done++
		}
	}
	lines := []string{fmt.Sprintf("*%s*: %d/%d done\n", heading, done, len(tasks))}
	for _, t := range tasks {
		lines = append(lines, fmt.Sprintf("%s %s (%s)", statusIcon(t.Status), t.Name, service.FormatHours(t.EstimatedHours)))
	}
	return strings.Join(lines, "\n")
}

func weekSummary(tasks []model.Task) string {
	done := 0
	for _, t := range tasks {
		if t.Status == model.StatusDone {
			done++
		}
	}
	pct := 0
	if len(tasks) > 0 {
		pct = int(math.Round(float64(done) / float64(len(tasks)) * 100))
	}
	lines := []string{fmt.Sprintf("*WEEK*: %d/%d (%d%%)\n", done, len(tasks), pct)}
	for _, day := range service.DayNames {
		var n, d int
		for _, t := range tasks {
			if t.Day != day {
				continue
			}
			n++
			if t.Status == model.StatusDone {
				d++
			}
		}
		lines = append(lines, fmt.Sprintf("*%s*: %d/%d | %s", strings.ToUpper(day[:3]), d, n, service.FormatHours(service.DayLoad(tasks, day))))
	}
	return strings.Join(lines, "\n")
}

func checkInReply(status string, res *Result) string {
	name := "it"
	if res.Task != nil {
		name = "*" + res.Task.Name + "*"
	}
	if res.Absorbed == nil || res.Absorbed.CheckIn == nil {
		return "👍 Noted, though there was no open check-in to answer."
	}
	switch status {
	case service.ResponseDone:
		msg := "✅ " + name + " done."
		if res.Next != nil {
			msg += "\nNext: " + nextLabel(res.Next)
		}
		return msg
	case service.ResponseWorking:
		return "🔵 Still on " + name + ". Keep going."
	case service.ResponseSkipped:
		return "⏭ Skipped. Moving on."
	case service.ResponsePushed:
		return "📅 Pushed to tomorrow."
	}
	return "👍"
}

func noteReply(n *service.NoteResult) string {
	msg := "📌 Noted: " + n.Note.Note
	if n.NewProject != nil {
		msg += fmt.Sprintf("\n➕ Created new project: *%s* (%s)", n.NewProject.Name, n.NewProject.Area)
	}
	switch {
	case n.TaggedTask != nil:
		msg += fmt.Sprintf("\n🏷 Tagged to task: *%s*", n.TaggedTask.Name)
	case n.Note.TaggedProjectID != "" && n.NewProject == nil:
		msg += "\n🏷 Tagged to project"
	}
	return msg
}

func subtypeReply(v intent.ManageSubtypes, subtypes map[string][]string) string {
	switch v.Action {
	case "add":
		return fmt.Sprintf("✅ Added subtype *%s* to %s.", v.Subtype, titleCase(v.Area))
	case "remove":
		return fmt.Sprintf("✅ Removed subtype *%s* from %s.", v.Subtype, titleCase(v.Area))
	}
	lines := []string{"*Subtypes:*"}
	for _, area := range model.Areas {
		list, ok := subtypes[area]
		if !ok {
			continue
		}
		lines = append(lines, fmt.Sprintf("\n*%s:*", titleCase(area)))
		if len(list) == 0 {
			lines = append(lines, "(none)")
			continue
		}
		lines = append(lines, strings.Join(list, ", "))
	}
	return strings.Join(lines, "\n")
}

func dayLabel(day string) string {
	if day == "" {
		return "Unscheduled"
	}
	return titleCase(day)
}

// titleCase builds a Caser per call; Casers are not safe for concurrent use.
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

func nameOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
