package model

import "time"

type CheckInType string

const (
	CheckInMorning     CheckInType = "morning"
	CheckInMidday      CheckInType = "midday"
	CheckInEvening     CheckInType = "evening"
	CheckInBlockEnd    CheckInType = "block_end"
	CheckInNudge       CheckInType = "nudge"
	CheckInUserMessage CheckInType = "user_message"
	CheckInLogFood     CheckInType = "log_food"
	CheckInLogExercise CheckInType = "log_exercise"
	CheckInLogSleep    CheckInType = "log_sleep"
)

// CheckIn records an outbound prompt and, once answered, the user's response.
type CheckIn struct {
	ID          string      `gorm:"primaryKey"`
	Date        string      `gorm:"index"`
	TaskID      string      `gorm:"index"`
	Type        CheckInType `gorm:"index"`
	MessageSent string
	// NudgeOf points at the block_end check-in a nudge escalates.
	NudgeOf    string `gorm:"index"`
	Response   *string
	ResponseAt *time.Time
	CreatedAt  time.Time
}

// Answered reports whether a response has been attached.
func (c CheckIn) Answered() bool {
	return c.Response != nil
}
