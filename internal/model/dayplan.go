package model

import "time"

type BlockType string

const (
	BlockWork  BlockType = "work"
	BlockBreak BlockType = "break"
)

// Block is one scheduled interval of a day plan. Times are HH:MM.
type Block struct {
	Start  string    `json:"start"`
	End    string    `json:"end"`
	Type   BlockType `json:"type"`
	TaskID string    `json:"task_id,omitempty"`
	Label  string    `json:"label"`
}

// DayPlan holds the schedule for one calendar date.
type DayPlan struct {
	Date          string  `gorm:"primaryKey"`
	WeekID        string  `gorm:"index"`
	Blocks        []Block `gorm:"serializer:json"`
	CapacityHours float64
	MorningSent   bool
	MiddaySent    bool
	EveningSent   bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
