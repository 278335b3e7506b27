package model

import "time"

type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
	PriorityLow    Priority = "low"
)

// Rank orders priorities by urgency; unknown values rank as normal.
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 0
	case PriorityHigh:
		return 1
	case PriorityLow:
		return 3
	default:
		return 2
	}
}

type TaskStatus string

const (
	StatusTodo    TaskStatus = "todo"
	StatusDoing   TaskStatus = "doing"
	StatusDone    TaskStatus = "done"
	StatusSkipped TaskStatus = "skipped"
	StatusDropped TaskStatus = "dropped"
)

// Schedulable reports whether a task in this status may still be packed into a day.
func (s TaskStatus) Schedulable() bool {
	return s != StatusDone && s != StatusDropped
}

// Active reports whether the task still needs work today.
func (s TaskStatus) Active() bool {
	return s == StatusTodo || s == StatusDoing
}

// Task represents a single unit of work in the week board.
type Task struct {
	ID             string     `gorm:"primaryKey" validate:"required"`
	WeekID         string     `gorm:"index" validate:"omitempty,weekid"`
	Day            string     `validate:"omitempty,lowercase"`
	Date           string     `gorm:"index"`
	BlockStart     string     `validate:"omitempty,clock5"`
	BlockEnd       string     `validate:"omitempty,clock5"`
	ProjectID      string     `gorm:"index"`
	Name           string     `validate:"required"`
	Subtype        string
	Priority       Priority   `validate:"oneof=urgent high normal low"`
	Status         TaskStatus `gorm:"index" validate:"oneof=todo doing done skipped dropped"`
	EstimatedHours float64    `validate:"gt=0"`
	Notes          string
	DueDate        string
	CourseWeek     string
	CarryCount     int
	Recurring      bool
	IsTimeBlock    bool
	StartedAt      *time.Time
	CompletedAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TaskDraft is the partially known description of a task produced by intake.
type TaskDraft struct {
	Name               string   `json:"name"`
	ProjectID          string   `json:"project_id,omitempty"`
	ProjectCandidates  []string `json:"project_candidates,omitempty"`
	Subtype            string   `json:"subtype,omitempty"`
	Priority           Priority `json:"priority,omitempty"`
	EstimatedHours     float64  `json:"estimated_hours,omitempty"`
	Day                string   `json:"day,omitempty"`
	Time               string   `json:"time,omitempty"`
	BlockEnd           string   `json:"block_end,omitempty"`
	DueDate            string   `json:"due_date,omitempty"`
	CourseWeek         string   `json:"course_week,omitempty"`
	Notes              string   `json:"notes,omitempty"`
	IsTimeBlock        bool     `json:"is_time_block,omitempty"`
	NeedsClarification []string `json:"needs_clarification,omitempty"`
}
