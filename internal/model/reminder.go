package model

import "time"

// Reminder is a scheduled one-off or repeating message.
type Reminder struct {
	ID          string `gorm:"primaryKey"`
	Type        string `validate:"oneof=one_time recurring"`
	Message     string `validate:"required"`
	TriggerDate string
	TriggerTime string `validate:"hhmm"`
	// Recurrence is daily, weekly:<day> or monthly:<n>.
	Recurrence  string
	Active      bool
	LastFiredOn string
	CreatedAt   time.Time
}

// AgentNote is a free-form thought the user asked to keep.
type AgentNote struct {
	ID              string `gorm:"primaryKey"`
	Note            string `validate:"required"`
	AppliesFrom     string
	AppliesUntil    string
	Affects         string
	Active          bool
	TaggedProjectID string
	TaggedTaskID    string
	CreatedAt       time.Time
}
