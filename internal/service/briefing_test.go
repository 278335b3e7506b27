package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workboard/internal/model"
	"workboard/internal/testutil"
)

func TestMorningSendsOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	now := testutil.Tuesday.Add(-2 * time.Hour)

	stats := f.addProject(t, "Stats 101", "teaching")
	f.addTask(t, model.TaskDraft{Name: "Grade midterms", ProjectID: stats.ID, Subtype: "Grading", EstimatedHours: 2, Day: "today", Priority: model.PriorityUrgent})

	res, err := f.briefings.Morning(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, PassSent, res.Status)
	assert.Equal(t, "2026-03-10", res.Date)
	assert.Equal(t, 1, res.Blocks)

	msgs := f.out.Sent()
	require.Len(t, msgs, 1)
	assert.True(t, strings.HasPrefix(msgs[0], "Good morning. Here's Tuesday, Mar 10."), msgs[0])
	assert.Contains(t, msgs[0], "🟦 08:00-10:00 | Stats 101: Grade midterms [Grading, 2h]")
	assert.Contains(t, msgs[0], "🔴 1 urgent")
	assert.Contains(t, msgs[0], "research, admin, personal has 0 tasks this week")

	res, err = f.briefings.Morning(ctx, now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, PassAlreadySent, res.Status)
	assert.Len(t, f.out.Sent(), 1)

	checkins, err := f.checkins.Today(ctx, now)
	require.NoError(t, err)
	require.Len(t, checkins, 1)
	assert.Equal(t, model.CheckInMorning, checkins[0].Type)
}

func TestMorningPaused(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	now := testutil.Tuesday

	_, err := f.behavior.Pause(ctx, "today", now)
	require.NoError(t, err)

	res, err := f.briefings.Morning(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, PassPaused, res.Status)
	assert.Empty(t, f.out.Sent())

	plan, err := f.plans.Get(ctx, "2026-03-10")
	require.NoError(t, err)
	require.NotNil(t, plan)
	assert.False(t, plan.MorningSent)
}

func TestMiddayScoresMorningBlocks(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	now := testutil.Tuesday

	a := f.addTask(t, model.TaskDraft{Name: "Write intro", EstimatedHours: 1, Day: "today"})
	f.addTask(t, model.TaskDraft{Name: "Lit search", EstimatedHours: 1, Day: "today"})
	_, err := f.tasks.SetStatus(ctx, a, model.StatusDone, now)
	require.NoError(t, err)

	res, err := f.briefings.Midday(ctx, now.Add(4*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, PassSent, res.Status)
	// Finished tasks are left out of the plan, so one open block remains.
	assert.Equal(t, "0/1", res.Score)

	msgs := f.out.Sent()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "Midday check")
	assert.Contains(t, msgs[0], "*AFTERNOON:*\nNothing scheduled.")
}

func TestEveningSendsOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	now := testutil.Tuesday.Add(9 * time.Hour)

	f.addTask(t, model.TaskDraft{Name: "Email chair", EstimatedHours: 0.5, Day: "today"})

	res, err := f.briefings.Evening(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, PassSent, res.Status)

	res, err = f.briefings.Evening(ctx, now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, PassAlreadySent, res.Status)

	msgs := f.out.Sent()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "*Day summary*: Tuesday, Mar 10.")
	assert.Contains(t, msgs[0], "Email chair")
}

func TestFormatHours(t *testing.T) {
	assert.Equal(t, "2h", FormatHours(2))
	assert.Equal(t, "1.5h", FormatHours(1.5))
	assert.Equal(t, "0.25h", FormatHours(0.25))
}
