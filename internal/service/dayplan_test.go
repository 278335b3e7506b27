package service

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workboard/internal/model"
	"workboard/internal/testutil"
)

func work(id, start, end string) model.Block {
	return model.Block{Start: start, End: end, Type: model.BlockWork, TaskID: id, Label: id}
}

func rest(start, end, label string) model.Block {
	return model.Block{Start: start, End: end, Type: model.BlockBreak, Label: label}
}

func task(id string, hours float64, p model.Priority) model.Task {
	return model.Task{ID: id, Name: id, EstimatedHours: hours, Priority: p, Status: model.StatusTodo}
}

func TestGenerateBlocks(t *testing.T) {
	tests := []struct {
		name      string
		tasks     []model.Task
		window    Window
		scheduled []model.Task
		want      []model.Block
	}{
		{
			name:   "single task from window start",
			tasks:  []model.Task{task("a", 1.5, model.PriorityNormal)},
			window: DefaultWindow,
			want:   []model.Block{work("a", "08:00", "09:30")},
		},
		{
			name:   "lunch before a task that would straddle noon",
			tasks:  []model.Task{task("a", 2, model.PriorityNormal), task("b", 3, model.PriorityNormal)},
			window: DefaultWindow,
			want: []model.Block{
				work("a", "08:00", "10:00"),
				rest("12:00", "13:00", "Lunch"),
				work("b", "13:00", "16:00"),
			},
		},
		{
			name:   "lunch after a fixed block pushes a task toward noon",
			tasks:  []model.Task{task("a", 3, model.PriorityNormal), task("b", 1, model.PriorityNormal)},
			window: DefaultWindow,
			scheduled: []model.Task{
				{ID: "fixed", Name: "fixed", EstimatedHours: 0.5, BlockStart: "11:00", BlockEnd: "11:30"},
			},
			want: []model.Block{
				work("a", "08:00", "11:00"),
				work("fixed", "11:00", "11:30"),
				rest("12:00", "13:00", "Lunch"),
				work("b", "13:00", "14:00"),
			},
		},
		{
			name:   "task ending at noon needs no lunch",
			tasks:  []model.Task{task("a", 3, model.PriorityNormal), task("b", 1, model.PriorityNormal)},
			window: DefaultWindow,
			want: []model.Block{
				work("a", "08:00", "11:00"),
				work("b", "11:00", "12:00"),
			},
		},
		{
			name:   "break on the two and a half hour mark",
			tasks:  []model.Task{task("a", 2.5, model.PriorityNormal), task("b", 1, model.PriorityNormal)},
			window: DefaultWindow,
			want: []model.Block{
				work("a", "08:00", "10:30"),
				rest("10:30", "11:00", "Break"),
				work("b", "11:00", "12:00"),
			},
		},
		{
			name:   "break within half an hour past the mark",
			tasks:  []model.Task{task("a", 2, model.PriorityNormal), task("b", 0.75, model.PriorityNormal)},
			window: DefaultWindow,
			want: []model.Block{
				work("a", "08:00", "10:00"),
				work("b", "10:00", "10:45"),
				rest("10:45", "11:15", "Break"),
			},
		},
		{
			name: "priority order",
			tasks: []model.Task{
				task("low", 1, model.PriorityLow),
				task("urgent", 1, model.PriorityUrgent),
				task("normal", 1, model.PriorityNormal),
			},
			window: DefaultWindow,
			want: []model.Block{
				work("urgent", "08:00", "09:00"),
				work("normal", "09:00", "10:00"),
				work("low", "10:00", "11:00"),
			},
		},
		{
			name: "window close truncates and drops",
			tasks: []model.Task{
				task("a", 1.5, model.PriorityNormal),
				task("b", 1, model.PriorityNormal),
				task("c", 1, model.PriorityNormal),
			},
			window: Window{Start: 8 * 60, End: 10 * 60},
			want: []model.Block{
				work("a", "08:00", "09:30"),
				work("b", "09:30", "10:00"),
			},
		},
		{
			name:   "fixed block is kept and worked around",
			tasks:  []model.Task{task("free", 2, model.PriorityNormal)},
			window: DefaultWindow,
			scheduled: []model.Task{
				{ID: "fixed", Name: "fixed", EstimatedHours: 1, BlockStart: "09:00", BlockEnd: "10:00"},
			},
			want: []model.Block{
				work("fixed", "09:00", "10:00"),
				work("free", "10:00", "12:00"),
			},
		},
		{
			name:   "window start rounds up to five minutes",
			tasks:  []model.Task{task("a", 0.5, model.PriorityNormal)},
			window: Window{Start: 8*60 + 2, End: 18 * 60},
			want:   []model.Block{work("a", "08:05", "08:35")},
		},
		{
			name:   "unaligned window end is floored",
			tasks:  []model.Task{task("a", 1, model.PriorityNormal)},
			window: Window{Start: 17 * 60, End: 17*60 + 58},
			want:   []model.Block{work("a", "17:00", "17:55")},
		},
		{
			name:   "empty day",
			window: DefaultWindow,
			want:   nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateBlocks(tt.tasks, tt.window, tt.scheduled)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("GenerateBlocks() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGenerateBlocksNeverOverlap(t *testing.T) {
	tasks := []model.Task{
		task("a", 1.25, model.PriorityHigh),
		task("b", 2.5, model.PriorityNormal),
		task("c", 0.75, model.PriorityUrgent),
		task("d", 3, model.PriorityLow),
		task("e", 1, model.PriorityNormal),
	}
	scheduled := []model.Task{
		{ID: "meeting", Name: "meeting", EstimatedHours: 1, BlockStart: "10:30", BlockEnd: "11:30"},
		{ID: "seminar", Name: "seminar", EstimatedHours: 1.5, BlockStart: "14:00"},
	}

	blocks := GenerateBlocks(tasks, DefaultWindow, scheduled)
	require.NotEmpty(t, blocks)
	for i := range blocks {
		si, _ := ParseClock(blocks[i].Start)
		ei, _ := ParseClock(blocks[i].End)
		assert.Less(t, si, ei, "block %d is empty", i)
		if blocks[i].TaskID != "meeting" && blocks[i].TaskID != "seminar" {
			assert.GreaterOrEqual(t, si, DefaultWindow.Start)
			assert.LessOrEqual(t, ei, DefaultWindow.End)
		}
		for j := i + 1; j < len(blocks); j++ {
			sj, _ := ParseClock(blocks[j].Start)
			ej, _ := ParseClock(blocks[j].End)
			assert.False(t, si < ej && sj < ei, "blocks %v and %v overlap", blocks[i], blocks[j])
		}
	}
	for i := 1; i < len(blocks); i++ {
		assert.LessOrEqual(t, blocks[i-1].Start, blocks[i].Start)
	}
}

func TestParseWindow(t *testing.T) {
	w, err := ParseWindow("09:00", "17:30")
	require.NoError(t, err)
	assert.Equal(t, Window{Start: 540, End: 1050}, w)

	w, err = ParseWindow("08:02", "17:58")
	require.NoError(t, err)
	assert.Equal(t, Window{Start: 485, End: 1075}, w)

	_, err = ParseWindow("17:00", "09:00")
	assert.Error(t, err)
	_, err = ParseWindow("09:01", "09:04")
	assert.Error(t, err)
	_, err = ParseWindow("nine", "17:00")
	assert.Error(t, err)
}

func TestDayPlanServiceGenerateKeepsSentFlags(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	now := testutil.Tuesday

	a := f.addTask(t, model.TaskDraft{Name: "Grade midterms", EstimatedHours: 2, Day: "tuesday"})
	f.addTask(t, model.TaskDraft{Name: "Tomorrow thing", EstimatedHours: 1, Day: "wednesday"})

	plan, err := f.plans.Ensure(ctx, now)
	require.NoError(t, err)
	require.Len(t, plan.Blocks, 1)
	assert.Equal(t, a.ID, plan.Blocks[0].TaskID)
	assert.Equal(t, "2026-W11", plan.WeekID)

	require.NoError(t, f.plans.MarkSent(ctx, plan.Date, model.CheckInMorning))

	b := f.addTask(t, model.TaskDraft{Name: "Email chair", EstimatedHours: 0.5, Day: "today", Priority: model.PriorityUrgent})
	plan, err = f.plans.Generate(ctx, now)
	require.NoError(t, err)
	assert.True(t, plan.MorningSent)
	require.Len(t, plan.Blocks, 2)
	assert.Equal(t, b.ID, plan.Blocks[0].TaskID)

	stored, err := f.plans.Get(ctx, "2026-03-10")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.MorningSent)
	assert.False(t, stored.EveningSent)
}

func TestDayPlanServiceSkipsFinishedTasks(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	done := f.addTask(t, model.TaskDraft{Name: "Already done", EstimatedHours: 1, Day: "tuesday"})
	_, err := f.tasks.SetStatus(ctx, done, model.StatusDone, testutil.Tuesday)
	require.NoError(t, err)

	plan, err := f.plans.Generate(ctx, testutil.Tuesday)
	require.NoError(t, err)
	assert.Empty(t, plan.Blocks)
}
