package model

import "time"

// SettingsSlot is the single key user settings live under.
const SettingsSlot = "USER"

// SubtypeDelta records per-area changes to the built-in subtype list.
type SubtypeDelta struct {
	Added   []string `json:"added,omitempty"`
	Removed []string `json:"removed,omitempty"`
}

// Settings stores the user's preferences; zero fields fall back to config defaults.
type Settings struct {
	Slot               string `gorm:"primaryKey"`
	DailyCapacityHours float64
	NudgeDelayMinutes  int
	TelegramChatID     int64
	Persona            string
	CustomSubtypes     map[string]SubtypeDelta `gorm:"serializer:json"`
	UpdatedAt          time.Time
}
