package model

import "time"

// Areas a project can belong to.
var Areas = []string{"teaching", "research", "admin", "personal"}

// Project groups tasks by area of work.
type Project struct {
	ID            string   `gorm:"primaryKey" validate:"required"`
	Area          string   `validate:"oneof=teaching research admin personal"`
	Name          string   `validate:"required"`
	Description   string
	MatchKeywords []string `gorm:"serializer:json"`
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ProjectCandidate is the display form of a project offered during clarification.
type ProjectCandidate struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
