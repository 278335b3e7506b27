package service

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// DayNames lists ISO weekday names starting Monday.
var DayNames = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// DateString formats t as YYYY-MM-DD in its own location.
func DateString(t time.Time) string {
	return t.Format(dateLayout)
}

// DayName returns the lowercase weekday name of t.
func DayName(t time.Time) string {
	return strings.ToLower(t.Weekday().String())
}

// WeekID returns the ISO year-week label, e.g. 2026-W06.
func WeekID(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// NextDayName is the weekday name of the following calendar day.
func NextDayName(t time.Time) string {
	return DayName(t.AddDate(0, 0, 1))
}

// WeekDates maps each day name of an ISO week to its YYYY-MM-DD date.
func WeekDates(weekID string) (map[string]string, error) {
	yearStr, weekStr, ok := strings.Cut(weekID, "-W")
	if !ok {
		return nil, fmt.Errorf("invalid week id %q", weekID)
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return nil, fmt.Errorf("invalid week id %q: %w", weekID, err)
	}
	week, err := strconv.Atoi(weekStr)
	if err != nil || week < 1 || week > 53 {
		return nil, fmt.Errorf("invalid week id %q", weekID)
	}

	// Week 1 is the week containing January 4th.
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	offset := (int(jan4.Weekday()) + 6) % 7
	monday := jan4.AddDate(0, 0, -offset+7*(week-1))

	dates := make(map[string]string, len(DayNames))
	for i, name := range DayNames {
		dates[name] = DateString(monday.AddDate(0, 0, i))
	}
	return dates, nil
}

// ParseClock converts HH:MM into minutes since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock renders minutes since midnight as HH:MM.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// roundTo5 rounds minutes to the nearest 5-minute multiple.
func roundTo5(minutes float64) int {
	return int(math.Round(minutes/5)) * 5
}

// durationMinutes converts estimated hours into a 5-minute aligned duration
// with a 5-minute floor.
func durationMinutes(hours float64) int {
	d := roundTo5(hours * 60)
	if d < 5 {
		d = 5
	}
	return d
}

// clockOf returns minutes since midnight for t.
func clockOf(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
