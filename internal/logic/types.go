// Package logic contains the pure countdown core: sensor debouncing,
// per-day state, frame rendering and the tick decision.
// This package has NO external dependencies (no GPIO, network, OS, or
// time.Sleep). Time and randomness are always injected.
package logic

import (
	"time"

	"github.com/sweeney/countdown-strip/internal/color"
)

// Mode identifies which renderer draws the frame.
type Mode string

const (
	ModeCountdown Mode = "COUNTDOWN"
	ModeBreathing Mode = "BREATHING"
)

// Action is what the tick loop should do with the strip this tick.
type Action int

const (
	// ActionHold leaves the strip as it is.
	ActionHold Action = iota
	// ActionRender writes the frame in TickResult.Frame.
	ActionRender
	// ActionBlank turns the strip off.
	ActionBlank
)

func (a Action) String() string {
	switch a {
	case ActionRender:
		return "RENDER"
	case ActionBlank:
		return "BLANK"
	default:
		return "HOLD"
	}
}

// TickInput is one sample of the outside world.
type TickInput struct {
	// Dark is the raw sensor sample, true = dark. Sensor faults must be
	// passed as a light sample so the strip fails toward blank.
	Dark bool
	// Now is the wall clock used for the flash-swap timer.
	Now time.Time
	// Local is the timezone-corrected local time for the window check.
	Local time.Time
}

// TickResult is the controller's decision for one tick.
type TickResult struct {
	Action Action
	// Mode and Frame are valid when Action is ActionRender. The frame is
	// owned by the renderer; callers must not mutate or retain it past the
	// strip write.
	Mode  Mode
	Frame []color.RGB
	// Rollover signals a new observed day: the caller should refetch the
	// date and settings and call Reset.
	Rollover bool
}
