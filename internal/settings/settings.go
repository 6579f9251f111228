// Package settings provides the typed display configuration and the remote
// JSON document it is loaded from.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/sweeney/countdown-strip/internal/color"
	"github.com/sweeney/countdown-strip/internal/timeutil"
)

// ErrInvalid is returned when a settings document fails validation.
// Callers keep the previous valid settings when they see it.
var ErrInvalid = errors.New("settings: invalid")

// Settings is the validated per-cycle display configuration. It is
// immutable between refreshes.
type Settings struct {
	TargetDate      timeutil.Date // the event counted down to
	StartDate       timeutil.Date // first day of the countdown
	PrimaryColor    color.RGB
	SecondaryColor  color.RGB
	UseCustomColors bool
	WindowStart     timeutil.ClockTime // display window start
	WindowEnd       timeutil.ClockTime
	FromStart       bool // day blocks anchor at the strip's start
	Reverse         bool // iterate days left instead of days elapsed
	WithMarker      bool
	MarkerColor     color.RGB
	FlashInterval   time.Duration // primary/secondary swap period
}

// CountdownLength returns the countdown length in days. Always >= 1 for
// settings that passed validation.
func (s Settings) CountdownLength() int64 {
	n := timeutil.DaysBetween(s.StartDate, s.TargetDate)
	if n < 0 {
		return -n
	}
	return n
}

// doc mirrors the remote JSON settings document. Field names are the
// contract with the settings host; flash_speed is accepted as a legacy
// alias for FlashSpeed.
type doc struct {
	ImportantDate     string   `json:"ImportantDate"`
	StartFromDay      string   `json:"StartFromDay"`
	PrimaryRGBColor   string   `json:"PrimaryRGBColor"`
	SecondaryRGBColor string   `json:"SecondaryRGBColor"`
	UseCustomColors   bool     `json:"UseCustomColors"`
	StartTime         string   `json:"StartTime"`
	EndTime           string   `json:"EndTime"`
	FromPi            bool     `json:"FromPi"`
	IsReverse         bool     `json:"IsReverse"`
	WithMarker        *bool    `json:"WithMarker"`
	MarkerRGBColor    string   `json:"MarkerRGBColor"`
	FlashSpeed        *float64 `json:"FlashSpeed"`
	FlashSpeedLegacy  *float64 `json:"flash_speed"`
}

// Defaults applied when the document omits optional fields.
const (
	defaultStartTime   = "00:00"
	defaultEndTime     = "23:59"
	defaultMarkerColor = "(255,255,255)"
	defaultFlashSecs   = 2.0
)

// Parse decodes and validates a settings document.
//
// Malformed color and clock strings degrade to safe defaults with a log
// line (the strip must keep running on a bad document); a missing or
// malformed date, or a target before the start, is ErrInvalid — there is no
// safe default date to count down to.
func Parse(data []byte) (Settings, error) {
	var d doc
	if err := json.Unmarshal(data, &d); err != nil {
		return Settings{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	target, err := timeutil.ParseDate(d.ImportantDate)
	if err != nil {
		return Settings{}, fmt.Errorf("%w: ImportantDate: %v", ErrInvalid, err)
	}
	start, err := timeutil.ParseDate(d.StartFromDay)
	if err != nil {
		return Settings{}, fmt.Errorf("%w: StartFromDay: %v", ErrInvalid, err)
	}
	if length := timeutil.DaysBetween(start, target); length < 1 {
		return Settings{}, fmt.Errorf("%w: countdown length %d (target %s, start %s)",
			ErrInvalid, length, target, start)
	}

	s := Settings{
		TargetDate:      target,
		StartDate:       start,
		PrimaryColor:    parseColor(d.PrimaryRGBColor, "PrimaryRGBColor"),
		SecondaryColor:  parseColor(d.SecondaryRGBColor, "SecondaryRGBColor"),
		UseCustomColors: d.UseCustomColors,
		FromStart:       d.FromPi,
		Reverse:         d.IsReverse,
		WithMarker:      true,
	}

	if d.WithMarker != nil {
		s.WithMarker = *d.WithMarker
	}
	marker := d.MarkerRGBColor
	if marker == "" {
		marker = defaultMarkerColor
	}
	s.MarkerColor = parseColor(marker, "MarkerRGBColor")

	s.WindowStart = parseClock(d.StartTime, defaultStartTime, "StartTime")
	s.WindowEnd = parseClock(d.EndTime, defaultEndTime, "EndTime")

	secs := defaultFlashSecs
	if d.FlashSpeedLegacy != nil {
		secs = *d.FlashSpeedLegacy
	} else if d.FlashSpeed != nil {
		secs = *d.FlashSpeed
	}
	s.FlashInterval = time.Duration(secs * float64(time.Second))

	return s, nil
}

func parseColor(s, field string) color.RGB {
	c, err := color.Parse(s)
	if err != nil {
		log.Printf("settings: %s: %v, using white", field, err)
		return color.White
	}
	return c
}

func parseClock(s, def, field string) timeutil.ClockTime {
	if s == "" {
		s = def
	}
	c, err := timeutil.ParseClock(s)
	if err != nil {
		log.Printf("settings: %s: %v, using %s", field, err, def)
		c, _ = timeutil.ParseClock(def)
	}
	return c
}
