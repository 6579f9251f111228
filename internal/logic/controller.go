package logic

import (
	"math/rand"

	"github.com/sweeney/countdown-strip/internal/settings"
	"github.com/sweeney/countdown-strip/internal/timeutil"
)

// Controller orchestrates one tick: advance the animation phases, debounce
// the sensor sample, and decide whether to render, blank or roll the day
// over.
//
// The rollover trigger reuses the consistently-light signal. The device is
// expected to sit in darkness through its display window and see light only
// when the observed day changes (curtains open, room lit). That is an
// assumption about the installation, not a general day-boundary detector.
type Controller struct {
	cfg       settings.Settings
	state     *State
	debounce  *Debouncer
	renderer  *Renderer
	phaseStep float64

	lastDark  bool
	lastLight bool
}

// NewController creates a Controller for one countdown cycle.
func NewController(current timeutil.Date, cfg settings.Settings, pixelCount, debounceThreshold int, rnd *rand.Rand) *Controller {
	return &Controller{
		cfg:       cfg,
		state:     NewState(current, cfg, rnd),
		debounce:  NewDebouncer(debounceThreshold),
		renderer:  NewRenderer(pixelCount, rnd),
		phaseStep: PhaseStep,
	}
}

// Tick processes one sensor sample and returns the decision for this tick.
// Outside the display window the strip is blanked unconditionally. Inside
// it, a consistently dark room renders, a consistently lit one blanks and
// signals a rollover, and an unsettled signal holds the last frame.
func (c *Controller) Tick(in TickInput) TickResult {
	c.state.AdvancePhase(c.phaseStep)
	c.state.AdvanceSwap(in.Now, c.cfg.FlashInterval)

	dark, light := c.debounce.Update(in.Dark)
	c.lastDark, c.lastLight = dark, light

	if !timeutil.WithinWindow(c.cfg.WindowStart, c.cfg.WindowEnd, timeutil.ClockOf(in.Local)) {
		return TickResult{Action: ActionBlank}
	}

	res := TickResult{Action: ActionHold, Rollover: light}
	switch {
	case dark:
		res.Action = ActionRender
		res.Mode = c.state.Mode()
		res.Frame = c.renderer.Render(c.state, c.cfg)
	case light:
		res.Action = ActionBlank
	}
	return res
}

// Reset replaces the countdown state wholesale for a new day. Callers must
// build the new date and settings completely before calling so the swap is
// atomic with respect to rendering. The debounce counters and the frame
// buffer carry over; the per-day state does not.
func (c *Controller) Reset(current timeutil.Date, cfg settings.Settings, rnd *rand.Rand) {
	c.cfg = cfg
	c.state = NewState(current, cfg, rnd)
}

// State returns the live per-day state for observation.
func (c *Controller) State() *State {
	return c.state
}

// Settings returns the active settings.
func (c *Controller) Settings() settings.Settings {
	return c.cfg
}

// SignalCounts returns the debounce counters for observation.
func (c *Controller) SignalCounts() (dark, light int) {
	return c.debounce.Counts()
}

// Signals returns the debounced signals from the most recent tick.
func (c *Controller) Signals() (dark, light bool) {
	return c.lastDark, c.lastLight
}
