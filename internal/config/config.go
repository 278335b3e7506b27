package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"workboard/internal/model"
)

// Config keeps runtime settings for the agent.
type Config struct {
	TelegramToken  string
	TelegramChatID int64
	DatabaseURL    string `validate:"required"`
	Timezone       string `validate:"required"`
	Location       *time.Location

	LogLevel  string `validate:"oneof=trace debug info warn error"`
	LogPretty bool

	GeminiAPIKey string
	GeminiModel  string

	MorningTime  string `validate:"hhmm"`
	MiddayTime   string `validate:"hhmm"`
	EveningTime  string `validate:"hhmm"`
	WorkdayStart string `validate:"hhmm"`
	WorkdayEnd   string `validate:"hhmm"`

	NudgeDelay           time.Duration `validate:"gt=0"`
	NudgeSweepInterval   time.Duration `validate:"gt=0"`
	BlockSweepInterval   time.Duration `validate:"gt=0"`
	BlockCheckInLookback time.Duration `validate:"gte=0"`
	PendingTTL           time.Duration `validate:"gt=0"`
	SendRatePerSec       int           `validate:"gte=1"`
}

// ErrMissingToken is returned by RequireTelegram when no bot token is configured.
var ErrMissingToken = errors.New("TELEGRAM_TOKEN is required")

var validate = model.NewValidator()

// Load reads configuration from .env, environment variables and an optional
// YAML file, applying defaults for everything but the bot token.
func Load(configFile string) (Config, error) {
	// A missing .env is fine.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	if configFile == "" {
		configFile = strings.TrimSpace(os.Getenv("WORKBOARD_CONFIG"))
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %q: %w", configFile, err)
		}
	}

	cfg := Config{
		TelegramToken:        strings.TrimSpace(v.GetString("telegram_token")),
		TelegramChatID:       v.GetInt64("telegram_chat_id"),
		DatabaseURL:          strings.TrimSpace(v.GetString("database_url")),
		Timezone:             strings.TrimSpace(v.GetString("timezone")),
		LogLevel:             strings.ToLower(strings.TrimSpace(v.GetString("log_level"))),
		LogPretty:            v.GetBool("log_pretty"),
		GeminiAPIKey:         strings.TrimSpace(v.GetString("gemini_api_key")),
		GeminiModel:          strings.TrimSpace(v.GetString("gemini_model")),
		MorningTime:          v.GetString("morning_time"),
		MiddayTime:           v.GetString("midday_time"),
		EveningTime:          v.GetString("evening_time"),
		WorkdayStart:         v.GetString("workday_start"),
		WorkdayEnd:           v.GetString("workday_end"),
		NudgeDelay:           time.Duration(v.GetInt("nudge_delay_minutes")) * time.Minute,
		NudgeSweepInterval:   v.GetDuration("nudge_sweep_interval"),
		BlockSweepInterval:   v.GetDuration("block_sweep_interval"),
		BlockCheckInLookback: v.GetDuration("block_checkin_lookback"),
		PendingTTL:           v.GetDuration("pending_ttl"),
		SendRatePerSec:       v.GetInt("send_rate_per_sec"),
	}

	if err := validate.Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return cfg, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}
	cfg.Location = loc

	return cfg, nil
}

// RequireTelegram reports whether the transport can be started.
func (c Config) RequireTelegram() error {
	if c.TelegramToken == "" {
		return ErrMissingToken
	}
	return nil
}

var envBindings = map[string]string{
	"telegram_token":         "TELEGRAM_TOKEN",
	"telegram_chat_id":       "TELEGRAM_CHAT_ID",
	"database_url":           "DATABASE_URL",
	"timezone":               "TIMEZONE",
	"log_level":              "LOG_LEVEL",
	"log_pretty":             "LOG_PRETTY",
	"gemini_api_key":         "GEMINI_API_KEY",
	"gemini_model":           "GEMINI_MODEL",
	"morning_time":           "MORNING_TIME",
	"midday_time":            "MIDDAY_TIME",
	"evening_time":           "EVENING_TIME",
	"workday_start":          "WORKDAY_START",
	"workday_end":            "WORKDAY_END",
	"nudge_delay_minutes":    "NUDGE_DELAY_MINUTES",
	"nudge_sweep_interval":   "NUDGE_SWEEP_INTERVAL",
	"block_sweep_interval":   "BLOCK_SWEEP_INTERVAL",
	"block_checkin_lookback": "BLOCK_CHECKIN_LOOKBACK",
	"pending_ttl":            "PENDING_TTL",
	"send_rate_per_sec":      "SEND_RATE_PER_SEC",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database_url", "workboard.db")
	v.SetDefault("timezone", "America/Chicago")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_pretty", true)
	v.SetDefault("gemini_model", "gemini-2.5-flash")
	v.SetDefault("morning_time", "07:00")
	v.SetDefault("midday_time", "13:00")
	v.SetDefault("evening_time", "18:00")
	v.SetDefault("workday_start", "08:00")
	v.SetDefault("workday_end", "18:00")
	v.SetDefault("nudge_delay_minutes", 30)
	v.SetDefault("nudge_sweep_interval", "15m")
	v.SetDefault("block_sweep_interval", "1m")
	v.SetDefault("block_checkin_lookback", "10m")
	v.SetDefault("pending_ttl", "10m")
	v.SetDefault("send_rate_per_sec", 1)
}
