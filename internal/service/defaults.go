package service

// HourDefaults estimates a task's hours from its subtype when intake gives none.
var HourDefaults = map[string]float64{
	"Lecture Content": 2,
	"Slides":          2,
	"Examples":        1,
	"Labs":            2,
	"Homework":        1.5,
	"Grading":         1.5,
	"Office Hours":    1,
	"Writing":         2,
	"Analysis":        2,
	"Experiments":     3,
	"IRB":             1,
	"Submissions":     1,
	"Lit Review":      2,
	"Email":           0.5,
	"Meetings":        1,
	"Doctors":         0.5,
	"Errands":         1,
	"Taxes":           1.5,
	"Finances":        1.5,
}

const fallbackHours = 1.0

// DefaultHours returns the subtype's default estimate or one hour.
func DefaultHours(subtype string) float64 {
	if h, ok := HourDefaults[subtype]; ok {
		return h
	}
	return fallbackHours
}

// DefaultSubtypes are the built-in subtype lists per area.
var DefaultSubtypes = map[string][]string{
	"teaching": {"Lecture Content", "Slides", "Examples", "Labs", "Homework", "Grading", "Office Hours", "Student Issues"},
	"research": {"Planning", "Writing", "Analysis", "Experiments", "IRB", "Submissions", "Lit Review", "Collaboration"},
	"admin":    {"Email", "Meetings", "Reports", "Committee", "Letters", "Scheduling"},
	"personal": {"Family", "House", "Finances", "Taxes", "Doctors", "Insurance", "Kids School", "Errands"},
}
