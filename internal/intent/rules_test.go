package intent

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workboard/internal/model"
	"workboard/internal/service"
)

var tuesday = time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

func testContext() *Context {
	return &Context{
		Now:     tuesday,
		Today:   "2026-03-10",
		DayName: "tuesday",
		WeekID:  "2026-W11",
		Projects: []model.Project{
			{ID: "grant", Name: "NSF Grant", Area: "research", MatchKeywords: []string{"nsf", "proposal"}},
			{ID: "stats", Name: "Stats 101", Area: "teaching", MatchKeywords: []string{"stats", "grade"}},
		},
	}
}

func TestParseRules(t *testing.T) {
	tests := []struct {
		text string
		want Intent
	}{
		{"what's next?", QueryNext{}},
		{"Today", QueryToday{}},
		{"show week", QueryWeek{}},
		{"tomorrow", QueryDay{Day: "wednesday"}},
		{"what's on friday", QueryDay{Day: "friday"}},
		{"done with grade midterms", StatusChange{Status: model.StatusDone, TaskMatch: "grade midterms"}},
		{"working on slides", StatusChange{Status: model.StatusDoing, TaskMatch: "slides"}},
		{"skip email", StatusChange{Status: model.StatusSkipped, TaskMatch: "email"}},
		{"push report to thursday", MoveTask{TaskMatch: "report", ToDay: "thursday"}},
		{"push report to tomorrow", PushTomorrow{TaskMatch: "report"}},
		{"push report", PushTomorrow{TaskMatch: "report"}},
		{"✅", CheckInResponse{Status: service.ResponseDone}},
		{"still working", CheckInResponse{Status: service.ResponseWorking}},
		{"thanks", Acknowledge{}},
		{"pause", Pause{Until: "end of day"}},
		{"pause until friday", Pause{Until: "friday"}},
		{"resume", ResetBehavior{}},
		{"reminders", ListReminders{}},
		{"delete reminder #2", DeleteReminder{Number: 2}},
		{"remind me to call the dean at 14:30", SetReminder{Message: "call the dean", Time: "14:30"}},
		{"remind me to stretch at 10:00 daily", SetReminder{Message: "stretch", Time: "10:00", Recurring: "daily"}},
		{"Note: chair prefers email over Slack", AddNote{Note: "chair prefers email over Slack"}},
		{"add subtype field work to research", ManageSubtypes{Action: "add", Area: "research", Subtype: "Field Work"}},
		{"remove subtype letters from admin", ManageSubtypes{Action: "remove", Area: "admin", Subtype: "Letters"}},
		{"list subtypes for teaching", ManageSubtypes{Action: "list", Area: "teaching"}},
		{"ate a salad", HealthLog{Type: model.CheckInLogFood, Entry: "a salad"}},
		{"slept 7.5 hours", HealthLog{Type: model.CheckInLogSleep, Entry: "slept 7.5 hours", Hours: 7.5}},
		{"the weather is nice", Unknown{Raw: "the weather is nice"}},
	}
	c := testContext()
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := ParseRules(tt.text, c)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseRules(%q) mismatch (-want +got):\n%s", tt.text, diff)
			}
		})
	}
}

func TestParseRulesAddTask(t *testing.T) {
	got := ParseRules("add grade midterms 2h tomorrow urgent", testContext())
	add, ok := got.(AddTask)
	require.True(t, ok, "got %T", got)
	require.Len(t, add.Tasks, 1)
	d := add.Tasks[0]
	assert.Equal(t, "grade midterms", d.Name)
	assert.Equal(t, 2.0, d.EstimatedHours)
	assert.Equal(t, "tomorrow", d.Day)
	assert.Equal(t, "stats", d.ProjectID)
	assert.Equal(t, "Grading", d.Subtype)
	assert.Equal(t, model.PriorityUrgent, d.Priority)
	assert.Empty(t, d.NeedsClarification)
}

func TestParseRulesAddTaskNeedsClarification(t *testing.T) {
	got := ParseRules("Add Write Report at 10:00", testContext())
	add, ok := got.(AddTask)
	require.True(t, ok, "got %T", got)
	d := add.Tasks[0]
	assert.Equal(t, "Write Report", d.Name)
	assert.Equal(t, "10:00", d.Time)
	assert.Equal(t, "Writing", d.Subtype)
	assert.Empty(t, d.ProjectID)
	assert.Equal(t, []string{model.FieldProject, model.FieldDay}, d.NeedsClarification)
}

func TestParseRulesAnswersPending(t *testing.T) {
	c := testContext()
	c.Pending = &model.PendingTask{Draft: model.TaskDraft{Name: "Write report"}, Missing: []string{model.FieldProject, model.FieldHours}}

	assert.Equal(t, CompletePending{Field: model.FieldProject, Value: "2"}, ParseRules("2", c))
	assert.Equal(t, CompletePending{Field: model.FieldProject, Value: "nsf grant"}, ParseRules("NSF Grant", c))
	// Commands still win over free-text project answers.
	assert.Equal(t, QueryToday{}, ParseRules("today", c))

	c.Pending.Missing = []string{model.FieldHours}
	assert.Equal(t, CompletePending{Field: model.FieldHours, Value: "1.5"}, ParseRules("1.5h", c))

	c.Pending.Missing = []string{model.FieldConfirm}
	assert.Equal(t, CompletePending{Field: model.FieldConfirm, Value: "yes"}, ParseRules("Yes", c))
}

func TestRuleClassifierNilContext(t *testing.T) {
	got, err := RuleClassifier{}.Classify(context.Background(), "tomorrow", nil)
	require.NoError(t, err)
	assert.Equal(t, QueryDay{Day: "tomorrow"}, got)

	got, err = RuleClassifier{}.Classify(context.Background(), "   ", nil)
	require.NoError(t, err)
	assert.Equal(t, KindUnknown, got.Kind())
}

func TestSystemPrompt(t *testing.T) {
	c := testContext()
	c.TodayTasks = []model.Task{{Name: "Grade midterms", Status: model.StatusTodo, EstimatedHours: 2, Priority: model.PriorityHigh, Day: "tuesday"}}
	c.WeekTasks = c.TodayTasks
	c.Pending = &model.PendingTask{
		Draft:      model.TaskDraft{Name: "Write report"},
		Missing:    []string{model.FieldProject},
		Candidates: []model.ProjectCandidate{{ID: "grant", Name: "NSF Grant"}},
	}
	c.Notes = []model.AgentNote{{Note: "travelling thursday"}}

	prompt := SystemPrompt(c)
	for _, want := range []string{
		"CURRENT DATE: 2026-03-10",
		"- NSF Grant (area: research, id: grant) [keywords: nsf, proposal]",
		"1. [todo] Grade midterms (2h, high)",
		"tuesday: 2h planned, 0/1 done",
		`"name":"Write report"`,
		"  1. NSF Grant",
		"- travelling thursday (until: indefinite)",
		"POSSIBLE INTENTS:",
	} {
		assert.True(t, strings.Contains(prompt, want), "prompt lacks %q", want)
	}

	assert.Contains(t, SystemPrompt(nil), "PENDING TASK:\nnull")
}
