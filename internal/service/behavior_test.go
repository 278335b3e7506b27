package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workboard/internal/model"
	"workboard/internal/testutil"
)

func TestPaused(t *testing.T) {
	overrides := []model.BehaviorOverride{
		{Setting: "tone", Value: "brief", Active: true},
		{Setting: model.SettingPaused, Value: "TRUE", AppliesFrom: "2026-03-10", AppliesUntil: "2026-03-11", Active: true},
	}
	assert.True(t, Paused(overrides, "2026-03-10"))
	assert.True(t, Paused(overrides, "2026-03-11"))
	assert.False(t, Paused(overrides, "2026-03-12"))
	assert.False(t, Paused(overrides, "2026-03-09"))

	overrides[1].Active = false
	assert.False(t, Paused(overrides, "2026-03-10"))
}

func TestPauseUntil(t *testing.T) {
	now := testutil.Tuesday
	tests := map[string]string{
		"":             "2026-03-10",
		"end of day":   "2026-03-10",
		"Tomorrow":     "2026-03-11",
		"indefinitely": "",
		"2026-04-01":   "2026-04-01",
		"friday":       "2026-03-13",
		"tuesday":      "2026-03-10",
		"monday":       "2026-03-16",
		"someday":      "2026-03-10",
	}
	for in, want := range tests {
		assert.Equal(t, want, pauseUntil(in, now), "pauseUntil(%q)", in)
	}
}

func TestBehaviorModifyDurations(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	now := testutil.Tuesday

	o, err := f.behavior.Modify(ctx, "tone", "brief", "this_week", now)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-10", o.AppliesFrom)
	assert.Equal(t, "2026-03-15", o.AppliesUntil)

	o, err = f.behavior.Modify(ctx, "tone", "brief", "today", now)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-10", o.AppliesUntil)

	o, err = f.behavior.Modify(ctx, "tone", "brief", "permanent", now)
	require.NoError(t, err)
	assert.Empty(t, o.AppliesUntil)

	_, err = f.behavior.Modify(ctx, "", "x", "today", now)
	assert.ErrorIs(t, err, model.ErrInvalid)
}

func TestBehaviorActiveDeactivatesExpired(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	now := testutil.Tuesday

	_, err := f.behavior.Pause(ctx, "tomorrow", now)
	require.NoError(t, err)
	_, err = f.behavior.Modify(ctx, "tone", "brief", "permanent", now)
	require.NoError(t, err)

	paused, err := f.behavior.IsPaused(ctx, now.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.True(t, paused)

	live, err := f.behavior.Active(ctx, now.AddDate(0, 0, 2))
	require.NoError(t, err)
	require.Len(t, live, 1)
	assert.Equal(t, "tone", live[0].Setting)

	// The expired pause stays gone even when asked about an earlier day.
	paused, err = f.behavior.IsPaused(ctx, now)
	require.NoError(t, err)
	assert.False(t, paused)
}

func TestBehaviorResumeAndReset(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	now := testutil.Tuesday

	_, err := f.behavior.Pause(ctx, "indefinitely", now)
	require.NoError(t, err)
	_, err = f.behavior.Modify(ctx, "tone", "brief", "", now)
	require.NoError(t, err)

	n, err := f.behavior.Resume(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	paused, err := f.behavior.IsPaused(ctx, now)
	require.NoError(t, err)
	assert.False(t, paused)

	n, err = f.behavior.Reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	live, err := f.behavior.Active(ctx, now)
	require.NoError(t, err)
	assert.Empty(t, live)

	n, err = f.behavior.Reset(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
