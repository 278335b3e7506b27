package orchestrator

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workboard/internal/intent"
	"workboard/internal/model"
	"workboard/internal/repository"
	"workboard/internal/service"
	"workboard/internal/testutil"
)

type classifierFunc func(ctx context.Context, text string, c *intent.Context) (intent.Intent, error)

func (f classifierFunc) Classify(ctx context.Context, text string, c *intent.Context) (intent.Intent, error) {
	return f(ctx, text, c)
}

type harness struct {
	orch     *Orchestrator
	svc      Services
	projects *repository.ProjectRepository
	out      *testutil.Outbox
}

func newHarness(t *testing.T, classifier intent.Classifier) *harness {
	t.Helper()
	db := testutil.DB(t)
	log := zerolog.Nop()
	out := &testutil.Outbox{}

	taskRepo := repository.NewTaskRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	plans := service.NewDayPlanService(taskRepo, repository.NewDayPlanRepository(db), service.DefaultWindow, 6, log)
	tasks := service.NewTaskService(taskRepo, plans, log)
	projects := service.NewProjectService(projectRepo)
	behavior := service.NewBehaviorService(repository.NewBehaviorRepository(db), log)
	settings := repository.NewSettingsRepository(db, model.Settings{DailyCapacityHours: 6})

	svc := Services{
		Tasks:     tasks,
		Plans:     plans,
		Pending:   service.NewPendingService(repository.NewPendingRepository(db), tasks, service.DefaultPendingTTL, log),
		CheckIns:  service.NewCheckInService(repository.NewCheckInRepository(db), tasks, plans, behavior, out, log),
		Reminders: service.NewReminderService(repository.NewReminderRepository(db), behavior, out, log),
		Behavior:  behavior,
		Notes:     service.NewNoteService(repository.NewNoteRepository(db), projects),
		Subtypes:  service.NewSubtypeService(settings),
		Projects:  projects,
		Settings:  settings,
	}
	if classifier == nil {
		classifier = intent.RuleClassifier{}
	}
	// Each message lands a second after the previous one so creation order is stable.
	var tick atomic.Int64
	clock := func() time.Time { return testutil.Tuesday.Add(time.Duration(tick.Add(1)) * time.Second) }
	orch := New(svc, classifier, time.UTC, log, WithClock(clock))
	return &harness{orch: orch, svc: svc, projects: projectRepo, out: out}
}

func (h *harness) project(t *testing.T, id, name, area string, keywords ...string) {
	t.Helper()
	require.NoError(t, h.projects.Put(context.Background(), &model.Project{
		ID: id, Name: name, Area: area, MatchKeywords: keywords, Active: true, CreatedAt: testutil.Tuesday,
	}))
}

func (h *harness) say(t *testing.T, text string) string {
	t.Helper()
	reply, err := h.orch.HandleMessage(context.Background(), 0, text)
	require.NoError(t, err)
	return reply
}

func TestAddThenMarkDone(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)
	h.project(t, "stats", "Stats 101", "teaching", "stats", "grade")

	reply := h.say(t, "add grade midterms 2h tomorrow")
	assert.Equal(t, "✅ Added to *Wednesday*:\n🟦 *Stats 101*: grade midterms\n📁 Grading | ⏱ 2h | 🟡 normal", reply)

	week, err := h.svc.Tasks.Week(ctx, testutil.Tuesday)
	require.NoError(t, err)
	require.Len(t, week, 1)
	assert.Equal(t, "stats", week[0].ProjectID)
	assert.Equal(t, "2026-03-11", week[0].Date)

	reply = h.say(t, "done with grade")
	assert.Equal(t, "✅ *grade midterms* marked done.", reply)

	stored, err := h.svc.Tasks.Get(ctx, week[0].ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusDone, stored.Status)

	reply = h.say(t, "week")
	assert.Contains(t, reply, "*WEEK*: 1/1 (100%)")
	assert.Contains(t, reply, "*WED*: 1/1 | 2h")
}

func TestAddNeedsProjectThenAnswer(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)
	h.project(t, "grant", "NSF Grant", "research", "nsf", "proposal")
	h.project(t, "stats", "Stats 101", "teaching", "stats", "grade")

	reply := h.say(t, "add write report 1h friday")
	assert.Equal(t, "Which project is *write report* for?\n1. NSF Grant\n2. Stats 101", reply)

	pending, err := h.svc.Pending.Load(ctx, testutil.Tuesday)
	require.NoError(t, err)
	require.NotNil(t, pending)

	reply = h.say(t, "2")
	assert.Equal(t, "✅ Added:\n*Stats 101*: write report\n⏱ 1h | 📅 Friday", reply)

	pending, err = h.svc.Pending.Load(ctx, testutil.Tuesday)
	require.NoError(t, err)
	assert.Nil(t, pending)

	friday, err := h.svc.Tasks.OnDay(ctx, testutil.Tuesday, "friday")
	require.NoError(t, err)
	require.Len(t, friday, 1)
	assert.Equal(t, "stats", friday[0].ProjectID)
	assert.Equal(t, "2026-03-13", friday[0].Date)
}

func TestAddForTodayRegeneratesExistingPlan(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)
	h.project(t, "stats", "Stats 101", "teaching", "stats", "grade")

	h.say(t, "add grade quizzes 1h today")
	_, err := h.svc.Plans.Generate(ctx, testutil.Tuesday)
	require.NoError(t, err)

	h.say(t, "add grade labs 1h today urgent")
	plan, err := h.svc.Plans.Get(ctx, "2026-03-10")
	require.NoError(t, err)
	require.NotNil(t, plan)
	require.Len(t, plan.Blocks, 2)

	reply := h.say(t, "what's next")
	assert.Equal(t, "Next: *grade labs* (08:00)", reply)

	reply = h.say(t, "today")
	assert.Contains(t, reply, "*TODAY*: 0/2 done\n")
	assert.Contains(t, reply, "⬜ grade quizzes (1h)")
}

func TestProblemsAreReplies(t *testing.T) {
	h := newHarness(t, nil)
	h.project(t, "stats", "Stats 101", "teaching", "stats", "grade")
	h.say(t, "add grade midterms 2h thursday")

	assert.Equal(t, "No matching task found for 'xyz123'.", h.say(t, "done with xyz123"))
	assert.Equal(t, "I don't know the day 'someday'.", h.say(t, "push grade to someday"))
	assert.Equal(t, "Invalid reminder number.", h.say(t, "delete reminder 3"))
}

func TestCompletePendingWithNothingPending(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)

	c, err := h.orch.BuildContext(ctx, h.orch.Now())
	require.NoError(t, err)
	in := intent.CompletePending{Field: model.FieldDay, Value: "monday"}
	res, err := h.orch.Execute(ctx, in, c)
	require.NoError(t, err)
	assert.True(t, res.NothingPending)
	assert.Equal(t, "There's nothing waiting for an answer.", Render(in, res, c))
}

func TestMoveReportsDayLoad(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)
	h.project(t, "stats", "Stats 101", "teaching", "stats", "grade")
	h.say(t, "add grade midterms 2h thursday")
	h.say(t, "add grade quizzes 1h friday")

	reply := h.say(t, "push midterms to friday")
	assert.Equal(t, "📅 *grade midterms* moved to Friday.\nFriday now at 3h.", reply)

	friday, err := h.svc.Tasks.OnDay(ctx, testutil.Tuesday, "friday")
	require.NoError(t, err)
	assert.Len(t, friday, 2)
}

func TestInvalidReminderBecomesProblem(t *testing.T) {
	h := newHarness(t, classifierFunc(func(context.Context, string, *intent.Context) (intent.Intent, error) {
		return intent.SetReminder{Message: "water plants", Recurring: "fortnightly"}, nil
	}))

	reply := h.say(t, "remind me every other week")
	assert.Equal(t, `Recurrence "fortnightly", expected daily, weekly:<day> or monthly:<n>.`, reply)

	reminders, err := h.svc.Reminders.ListActive(context.Background())
	require.NoError(t, err)
	assert.Empty(t, reminders)
}

func TestRemindersRoundTrip(t *testing.T) {
	h := newHarness(t, nil)

	assert.Equal(t, "No active reminders.", h.say(t, "reminders"))
	assert.Equal(t, "⏰ Reminder set: call the dean (2026-03-10 14:30)", h.say(t, "remind me to call the dean at 14:30"))
	assert.Equal(t, "🔁 Recurring reminder set: stretch (daily, 10:00)", h.say(t, "remind me to stretch at 10:00 daily"))

	list := h.say(t, "reminders")
	assert.Contains(t, list, "1. ⏰ call the dean (2026-03-10 14:30)")
	assert.Contains(t, list, "2. 🔁 stretch (daily 10:00)")

	assert.Equal(t, "✅ Deleted: call the dean", h.say(t, "delete reminder 1"))
}

func TestPauseAndReset(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)

	assert.Equal(t, `🔕 Paused until 2026-03-13. Say "resume" to turn me back on.`, h.say(t, "pause until friday"))
	paused, err := h.svc.Behavior.IsPaused(ctx, testutil.Tuesday)
	require.NoError(t, err)
	assert.True(t, paused)

	assert.Equal(t, "✅ Back to defaults (1 override(s) cleared).", h.say(t, "resume"))
	assert.Equal(t, "Nothing to reset. Everything is on defaults.", h.say(t, "resume"))
}

func TestSubtypesAndNotes(t *testing.T) {
	h := newHarness(t, nil)

	assert.Equal(t, "✅ Added subtype *Field Work* to Research.", h.say(t, "add subtype field work to research"))
	list := h.say(t, "list subtypes for research")
	assert.Contains(t, list, "*Research:*")
	assert.Contains(t, list, "Collaboration, Field Work")

	assert.Equal(t, "Unknown area \"hobbies\".", h.say(t, "add subtype guitar to hobbies"))

	assert.Equal(t, "📌 Noted: chair prefers email", h.say(t, "note: chair prefers email"))
	assert.Equal(t, "💤 Sleep logged: 7h", h.say(t, "slept 7 hours"))
}

func TestCheckInResponseWithoutOpenCheckIn(t *testing.T) {
	h := newHarness(t, nil)
	assert.Equal(t, "👍 Noted, though there was no open check-in to answer.", h.say(t, "✅"))
}

func TestCheckInResponseAnswersBlock(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)
	h.project(t, "stats", "Stats 101", "teaching", "stats", "grade")
	h.say(t, "add grade quizzes 1h today")
	h.say(t, "add grade labs 2h today low priority")
	plan, err := h.svc.Plans.Generate(ctx, testutil.Tuesday)
	require.NoError(t, err)
	require.Len(t, plan.Blocks, 2)
	require.Equal(t, "09:00", plan.Blocks[0].End)

	_, err = h.svc.CheckIns.SendBlockCheckIn(ctx, plan.Blocks[0].TaskID, "09:00", testutil.Tuesday)
	require.NoError(t, err)

	reply := h.say(t, "done")
	assert.Equal(t, "✅ *grade quizzes* done.\nNext: *grade labs* (09:00)", reply)
}

func TestUnknownAndClassifierFailure(t *testing.T) {
	h := newHarness(t, nil)
	unknown := h.say(t, "the weather is nice")
	assert.Contains(t, unknown, "I didn't catch that.")

	failing := newHarness(t, classifierFunc(func(context.Context, string, *intent.Context) (intent.Intent, error) {
		return nil, errors.New("model unavailable")
	}))
	assert.Equal(t, unknown, failing.say(t, "anything at all"))

	checkins, err := failing.svc.CheckIns.Today(context.Background(), testutil.Tuesday)
	require.NoError(t, err)
	require.Len(t, checkins, 1)
	assert.Equal(t, model.CheckInUserMessage, checkins[0].Type)
	require.NotNil(t, checkins[0].Response)
	assert.Equal(t, "anything at all", *checkins[0].Response)
}

func TestEmptyMessageIsIgnored(t *testing.T) {
	h := newHarness(t, nil)
	reply, err := h.orch.HandleMessage(context.Background(), 5, "   ")
	require.NoError(t, err)
	assert.Empty(t, reply)

	st, err := h.svc.Settings.Get(context.Background())
	require.NoError(t, err)
	assert.Zero(t, st.TelegramChatID)
}

func TestChatIDCapturedOnce(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)

	reply, err := h.orch.HandleMessage(ctx, 42, "thanks")
	require.NoError(t, err)
	assert.Equal(t, "✅", reply)

	_, err = h.orch.HandleMessage(ctx, 7, "thanks")
	require.NoError(t, err)

	st, err := h.svc.Settings.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(42), st.TelegramChatID)
}
