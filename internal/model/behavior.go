package model

import "time"

const (
	SettingPaused = "paused"
	ValueTrue     = "true"
)

// BehaviorOverride is a temporary or permanent setting change.
// AppliesFrom/AppliesUntil are YYYY-MM-DD; an empty AppliesUntil never expires.
type BehaviorOverride struct {
	ID           string `gorm:"primaryKey"`
	Setting      string `gorm:"index" validate:"required"`
	Value        string
	AppliesFrom  string
	AppliesUntil string
	Active       bool
	CreatedAt    time.Time
}

// LiveOn reports whether the override applies on the given date.
func (o BehaviorOverride) LiveOn(date string) bool {
	if !o.Active {
		return false
	}
	if o.AppliesFrom != "" && o.AppliesFrom > date {
		return false
	}
	return o.AppliesUntil == "" || o.AppliesUntil >= date
}
