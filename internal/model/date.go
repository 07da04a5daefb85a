package model

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the day-month-year form used by the NSE API and by users.
const DateLayout = "02-01-2006"

// NewDate returns the calendar date y-m-d at midnight UTC.
func NewDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Day strips the clock from t, keeping its calendar date in t's location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate parses a dd-mm-yyyy date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q (want dd-mm-yyyy): %w", s, err)
	}
	return t, nil
}

// FormatDate formats t as dd-mm-yyyy.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DateRange is an inclusive calendar-day interval.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Days returns the number of calendar days in the range, both ends included.
// It returns 0 for a reversed range.
func (r DateRange) Days() int {
	if r.Start.After(r.End) {
		return 0
	}
	return int(Day(r.End).Sub(Day(r.Start)).Hours()/24) + 1
}

// Contains reports whether t falls on a day inside the range.
func (r DateRange) Contains(t time.Time) bool {
	d := Day(t)
	return !d.Before(Day(r.Start)) && !d.After(Day(r.End))
}

// Validate checks start <= end and that neither bound is after today.
func (r DateRange) Validate(today time.Time) error {
	if r.Start.After(r.End) {
		return &RangeError{Range: r, Reason: "start date must not be after end date"}
	}
	today = Day(today)
	if Day(r.Start).After(today) || Day(r.End).After(today) {
		return &RangeError{Range: r, Reason: "range contains future dates"}
	}
	return nil
}

func (r DateRange) String() string {
	return FormatDate(r.Start) + ".." + FormatDate(r.End)
}
