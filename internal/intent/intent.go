// Package intent defines the closed set of things a user message can ask
// for, and the classifiers that turn free text into one of them.
package intent

import "workboard/internal/model"

// Kind names an intent variant on the wire.
type Kind string

const (
	KindAddTask         Kind = "add_task"
	KindCompletePending Kind = "complete_pending"
	KindMarkDone        Kind = "mark_done"
	KindMarkDoing       Kind = "mark_doing"
	KindMarkSkipped     Kind = "mark_skipped"
	KindMoveTask        Kind = "move_task"
	KindPushTomorrow    Kind = "push_tomorrow"
	KindQueryNext       Kind = "query_next"
	KindQueryToday      Kind = "query_today"
	KindQueryDay        Kind = "query_day"
	KindQueryWeek       Kind = "query_week"
	KindCheckInResponse Kind = "checkin_response"
	KindAcknowledge     Kind = "acknowledge"
	KindSetReminder     Kind = "set_reminder"
	KindDeleteReminder  Kind = "delete_reminder"
	KindListReminders   Kind = "list_reminders"
	KindModifyBehavior  Kind = "modify_behavior"
	KindResetBehavior   Kind = "reset_behavior"
	KindAddNote         Kind = "add_note"
	KindLogFood         Kind = "log_food"
	KindLogExercise     Kind = "log_exercise"
	KindLogSleep        Kind = "log_sleep"
	KindPause           Kind = "pause_agent"
	KindManageSubtypes  Kind = "manage_subtypes"
	KindChat            Kind = "chat"
	KindUnknown         Kind = "unknown"
)

// Intent is one classified request. The set of implementations is closed.
type Intent interface {
	Kind() Kind
	isIntent()
}

// AddTask creates one task per draft; drafts with missing fields go to clarification.
type AddTask struct {
	Tasks         []model.TaskDraft `json:"tasks" validate:"min=1"`
	MessageToUser string            `json:"message_to_user,omitempty"`
}

// CompletePending answers the open clarification question.
type CompletePending struct {
	Field string `json:"field,omitempty"`
	Value string `json:"value"`
}

// StatusChange sets a matched task to done, doing or skipped.
type StatusChange struct {
	Status    model.TaskStatus `json:"-"`
	TaskMatch string           `json:"task_match" validate:"required"`
}

type MoveTask struct {
	TaskMatch string `json:"task_match" validate:"required"`
	ToDay     string `json:"to_day" validate:"required"`
}

type PushTomorrow struct {
	TaskMatch string `json:"task_match" validate:"required"`
}

type QueryNext struct{}

type QueryToday struct{}

type QueryDay struct {
	Day string `json:"day" validate:"required"`
}

type QueryWeek struct{}

// CheckInResponse answers the latest block or morning check-in.
type CheckInResponse struct {
	Status string `json:"status" validate:"oneof=done working skipped pushed"`
}

type Acknowledge struct{}

type SetReminder struct {
	Message   string `json:"message" validate:"required"`
	Date      string `json:"date,omitempty"`
	Time      string `json:"time,omitempty"`
	Recurring string `json:"recurring,omitempty"`
}

type DeleteReminder struct {
	Number int `json:"reminder_number"`
}

type ListReminders struct{}

type ModifyBehavior struct {
	Setting  string `json:"setting" validate:"required"`
	Value    string `json:"value"`
	Duration string `json:"duration,omitempty"`
}

// ResetBehavior clears every override, including a pause.
type ResetBehavior struct{}

type AddNote struct {
	Note           string `json:"note" validate:"required"`
	AppliesUntil   string `json:"applies_until,omitempty"`
	TaggedProject  string `json:"tagged_project,omitempty"`
	TaggedTask     string `json:"tagged_task,omitempty"`
	NewProjectName string `json:"new_project_name,omitempty"`
	NewProjectArea string `json:"new_project_area,omitempty"`
}

// HealthLog records food, exercise or sleep.
type HealthLog struct {
	Type     model.CheckInType `json:"-"`
	Entry    string            `json:"entry,omitempty"`
	Duration string            `json:"duration,omitempty"`
	Hours    float64           `json:"hours,omitempty"`
	Notes    string            `json:"notes,omitempty"`
}

type Pause struct {
	Until string `json:"until,omitempty"`
}

type ManageSubtypes struct {
	Action  string `json:"action" validate:"oneof=add remove list"`
	Area    string `json:"area,omitempty"`
	Subtype string `json:"subtype,omitempty"`
}

// Chat is free conversation; Reply is the classifier's answer, if any.
type Chat struct {
	Message    string `json:"message"`
	Reply      string `json:"reply,omitempty"`
	SaveAsNote bool   `json:"save_as_note,omitempty"`
}

// Unknown carries the raw text of anything that could not be classified.
type Unknown struct {
	Raw   string `json:"raw"`
	Error string `json:"error,omitempty"`
}

func (AddTask) Kind() Kind         { return KindAddTask }
func (CompletePending) Kind() Kind { return KindCompletePending }
func (MoveTask) Kind() Kind        { return KindMoveTask }
func (PushTomorrow) Kind() Kind    { return KindPushTomorrow }
func (QueryNext) Kind() Kind       { return KindQueryNext }
func (QueryToday) Kind() Kind      { return KindQueryToday }
func (QueryDay) Kind() Kind        { return KindQueryDay }
func (QueryWeek) Kind() Kind       { return KindQueryWeek }
func (CheckInResponse) Kind() Kind { return KindCheckInResponse }
func (Acknowledge) Kind() Kind     { return KindAcknowledge }
func (SetReminder) Kind() Kind     { return KindSetReminder }
func (DeleteReminder) Kind() Kind  { return KindDeleteReminder }
func (ListReminders) Kind() Kind   { return KindListReminders }
func (ModifyBehavior) Kind() Kind  { return KindModifyBehavior }
func (ResetBehavior) Kind() Kind   { return KindResetBehavior }
func (AddNote) Kind() Kind         { return KindAddNote }
func (Pause) Kind() Kind           { return KindPause }
func (ManageSubtypes) Kind() Kind  { return KindManageSubtypes }
func (Chat) Kind() Kind            { return KindChat }
func (Unknown) Kind() Kind         { return KindUnknown }

func (s StatusChange) Kind() Kind {
	switch s.Status {
	case model.StatusDoing:
		return KindMarkDoing
	case model.StatusSkipped:
		return KindMarkSkipped
	default:
		return KindMarkDone
	}
}

func (h HealthLog) Kind() Kind {
	switch h.Type {
	case model.CheckInLogExercise:
		return KindLogExercise
	case model.CheckInLogSleep:
		return KindLogSleep
	default:
		return KindLogFood
	}
}

func (AddTask) isIntent()         {}
func (CompletePending) isIntent() {}
func (StatusChange) isIntent()    {}
func (MoveTask) isIntent()        {}
func (PushTomorrow) isIntent()    {}
func (QueryNext) isIntent()       {}
func (QueryToday) isIntent()      {}
func (QueryDay) isIntent()        {}
func (QueryWeek) isIntent()       {}
func (CheckInResponse) isIntent() {}
func (Acknowledge) isIntent()     {}
func (SetReminder) isIntent()     {}
func (DeleteReminder) isIntent()  {}
func (ListReminders) isIntent()   {}
func (ModifyBehavior) isIntent()  {}
func (ResetBehavior) isIntent()   {}
func (AddNote) isIntent()         {}
func (HealthLog) isIntent()       {}
func (Pause) isIntent()           {}
func (ManageSubtypes) isIntent()  {}
func (Chat) isIntent()            {}
func (Unknown) isIntent()         {}
