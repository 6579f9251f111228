// Package timeutil provides civil date arithmetic and clock-window checks.
// All calculations are pure; callers inject the current time.
package timeutil

import (
	"errors"
	"fmt"
	"time"
)

// ErrBadFormat is returned when a date or clock string cannot be parsed.
var ErrBadFormat = errors.New("timeutil: bad format")

// Date is a civil calendar date with no time-of-day component.
type Date struct {
	Year  int
	Month int
	Day   int
}

// ParseDate converts a "YYYY-MM-DD" string to a Date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrBadFormat, s)
	}
	return Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}, nil
}

// DateOf returns the civil date of the wall-clock instant t.
func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d == Date{}
}

// midnight returns the UTC midnight instant of d. time.Date normalizes
// out-of-range components, which keeps month/year rollovers and leap years
// correct without a calendar table.
func (d Date) midnight() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the count of whole days from a to b, positive when b
// is later. Computed as an epoch-seconds difference floor-divided by 86400.
func DaysBetween(a, b Date) int64 {
	const day = int64(86400)
	diff := b.midnight().Unix() - a.midnight().Unix()
	q := diff / day
	if diff%day != 0 && diff < 0 {
		q--
	}
	return q
}

// ClockTime is a time of day in minutes since midnight.
type ClockTime int

// ParseClock converts an "HH:MM" string to a ClockTime.
func ParseClock(s string) (ClockTime, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadFormat, s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrBadFormat, s)
	}
	return ClockTime(h*60 + m), nil
}

// ClockOf returns the ClockTime of the wall-clock instant t.
func ClockOf(t time.Time) ClockTime {
	return ClockTime(t.Hour()*60 + t.Minute())
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// WithinWindow reports whether cur falls inside the inclusive window
// [start, end]. A start after end wraps past midnight: the window is then
// satisfied when cur >= start OR cur <= end. This is how a display window
// spanning midnight (e.g. 22:00-06:00) is supported.
func WithinWindow(start, end, cur ClockTime) bool {
	if start <= end {
		return start <= cur && cur <= end
	}
	return cur >= start || cur <= end
}

// ApplyOffset shifts t by a signed number of hours (timezone correction),
// wrapping across day boundaries.
func ApplyOffset(t time.Time, hours int) time.Time {
	return t.Add(time.Duration(hours) * time.Hour)
}
