package logic

import (
	"math"
	"math/rand"
	"time"

	"github.com/sweeney/countdown-strip/internal/color"
	"github.com/sweeney/countdown-strip/internal/settings"
	"github.com/sweeney/countdown-strip/internal/timeutil"
)

// PhaseStep is the default animation phase advance per tick, in radians.
// It controls animation speed independent of the tick rate.
const PhaseStep = 0.05

// defaultFlashInterval backs a non-positive configured interval.
const defaultFlashInterval = 2 * time.Second

// State is the per-day countdown state. It is built once per day (at
// startup and on each rollover) and replaced wholesale — never partially
// mutated across a day boundary. Only the animation phases advance between
// ticks.
type State struct {
	// Remaining is the day count until the target; negative once it has
	// passed. Drives the render-mode switch.
	Remaining int64
	// Length is the countdown length in days, fixed for the cycle.
	Length int64
	// Phase is the animation phase in [0, 2π).
	Phase float64
	// Swap inverts the primary/secondary block mapping while true.
	Swap     bool
	lastSwap time.Time

	// Base color channel weights for breathing mode, drawn once per day.
	BaseR, BaseG, BaseB float64
}

// NewState derives the day's state from the current date and settings.
func NewState(current timeutil.Date, cfg settings.Settings, rnd *rand.Rand) *State {
	s := &State{
		Remaining: timeutil.DaysBetween(current, cfg.TargetDate),
		Length:    cfg.CountdownLength(),
	}
	s.BaseR, s.BaseG, s.BaseB = color.RandomBase(rnd)
	return s
}

// Mode returns the render mode the state selects: countdown while the
// current date sits inside the countdown span, breathing otherwise (before
// the countdown starts, and forever once the target date has passed).
func (s *State) Mode() Mode {
	if s.Remaining >= 0 && s.Remaining <= s.Length {
		return ModeCountdown
	}
	return ModeBreathing
}

// AdvancePhase moves the animation phase forward by step radians, wrapping
// at 2π.
func (s *State) AdvancePhase(step float64) {
	s.Phase = math.Mod(s.Phase+step, 2*math.Pi)
}

// AdvanceSwap toggles the primary/secondary swap once per interval and
// records the toggle time. A non-positive interval falls back to 2s.
// now carries Go's monotonic reading, so the elapsed check is immune to
// wall-clock steps; no calendar fallback is needed.
func (s *State) AdvanceSwap(now time.Time, interval time.Duration) {
	if interval <= 0 {
		interval = defaultFlashInterval
	}
	if s.lastSwap.IsZero() {
		s.lastSwap = now
		return
	}
	if now.Sub(s.lastSwap) >= interval {
		s.Swap = !s.Swap
		s.lastSwap = now
	}
}
