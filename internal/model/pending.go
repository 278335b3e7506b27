package model

import "time"

// PendingSlot is the single key the pending task lives under.
const PendingSlot = "USER"

// Fields a pending task can be waiting on.
const (
	FieldProject = "project"
	FieldHours   = "hours"
	FieldDay     = "day"
	FieldConfirm = "confirm"
)

// PendingTask is a task under clarification. At most one exists.
type PendingTask struct {
	Slot       string             `gorm:"primaryKey"`
	Draft      TaskDraft          `gorm:"serializer:json"`
	Missing    []string           `gorm:"serializer:json"`
	Candidates []ProjectCandidate `gorm:"serializer:json"`
	CreatedAt  time.Time
	ExpiresAt  time.Time
}

// Expired reports whether the record is past its TTL at now.
func (p PendingTask) Expired(now time.Time) bool {
	return !p.ExpiresAt.IsZero() && p.ExpiresAt.Before(now)
}
