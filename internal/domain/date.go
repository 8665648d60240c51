package domain

import (
	"fmt"
	"time"
)

// Date is a calendar date in YYYY-MM-DD form.
// Zero-padded ISO dates order lexically, so comparisons are plain string
// comparisons and never involve time zones.
type Date string

const dateLayout = "2006-01-02"

// ParseDate validates s and returns it as a Date.
func ParseDate(s string) (Date, error) {
	if _, err := time.Parse(dateLayout, s); err != nil {
		return "", fmt.Errorf("invalid date %q: must be YYYY-MM-DD", s)
	}
	return Date(s), nil
}

// Valid reports whether d is a well-formed YYYY-MM-DD date.
func (d Date) Valid() bool {
	_, err := time.Parse(dateLayout, string(d))
	return err == nil
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool { return d < other }

// After reports whether d is strictly later than other.
func (d Date) After(other Date) bool { return d > other }

func (d Date) String() string { return string(d) }

// Today returns the current date in UTC.
func Today() Date {
	return Date(time.Now().UTC().Format(dateLayout))
}

// MonthKey identifies one calendar month in YYYY-MM form.
type MonthKey string

const monthLayout = "2006-01"

// ParseMonthKey validates s and returns it as a MonthKey.
func ParseMonthKey(s string) (MonthKey, error) {
	if _, err := time.Parse(monthLayout, s); err != nil {
		return "", fmt.Errorf("invalid month %q: must be YYYY-MM", s)
	}
	return MonthKey(s), nil
}

// First returns the first day of the month.
func (m MonthKey) First() Date {
	return Date(string(m) + "-01")
}

// Last returns the last day of the month.
func (m MonthKey) Last() Date {
	t, err := time.Parse(monthLayout, string(m))
	if err != nil {
		return ""
	}
	// Day 0 of the next month is the last day of this one.
	last := time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC)
	return Date(last.Format(dateLayout))
}

func (m MonthKey) String() string { return string(m) }
