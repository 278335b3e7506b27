package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("WORKBOARD_CONFIG", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "workboard.db", cfg.DatabaseURL)
	assert.Equal(t, "America/Chicago", cfg.Location.String())
	assert.Equal(t, "07:00", cfg.MorningTime)
	assert.Equal(t, 30*time.Minute, cfg.NudgeDelay)
	assert.Equal(t, 15*time.Minute, cfg.NudgeSweepInterval)
	assert.Equal(t, 10*time.Minute, cfg.PendingTTL)
	assert.Equal(t, 1, cfg.SendRatePerSec)
	assert.ErrorIs(t, cfg.RequireTelegram(), ErrMissingToken)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("WORKBOARD_CONFIG", "")
	t.Setenv("TELEGRAM_TOKEN", " abc:123 ")
	t.Setenv("TELEGRAM_CHAT_ID", "42")
	t.Setenv("TIMEZONE", "Europe/Berlin")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("NUDGE_DELAY_MINUTES", "45")
	t.Setenv("PENDING_TTL", "5m")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "abc:123", cfg.TelegramToken)
	assert.Equal(t, int64(42), cfg.TelegramChatID)
	assert.Equal(t, "Europe/Berlin", cfg.Location.String())
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 45*time.Minute, cfg.NudgeDelay)
	assert.Equal(t, 5*time.Minute, cfg.PendingTTL)
	assert.NoError(t, cfg.RequireTelegram())
}

func TestLoadFromFile(t *testing.T) {
	t.Setenv("WORKBOARD_CONFIG", "")
	t.Setenv("MORNING_TIME", "")
	path := filepath.Join(t.TempDir(), "workboard.yaml")
	require.NoError(t, os.WriteFile(path, []byte("morning_time: \"06:30\"\nworkday_end: \"17:00\"\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "06:30", cfg.MorningTime)
	assert.Equal(t, "17:00", cfg.WorkdayEnd)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv("WORKBOARD_CONFIG", "")

	t.Run("bad time", func(t *testing.T) {
		t.Setenv("MORNING_TIME", "7am")
		_, err := Load("")
		assert.Error(t, err)
	})
	t.Run("bad timezone", func(t *testing.T) {
		t.Setenv("TIMEZONE", "Mars/Olympus")
		_, err := Load("")
		assert.Error(t, err)
	})
	t.Run("bad level", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "loud")
		_, err := Load("")
		assert.Error(t, err)
	})
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}
