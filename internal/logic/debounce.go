package logic

// DefaultThreshold is the number of consecutive matching samples required
// before a light signal is considered consistent.
const DefaultThreshold = 25

// Debouncer converts a noisy binary light reading into level-triggered
// "consistently dark" / "consistently light" signals.
type Debouncer struct {
	threshold int
	dark      int
	light     int
}

// NewDebouncer creates a Debouncer. A threshold <= 0 falls back to
// DefaultThreshold.
func NewDebouncer(threshold int) *Debouncer {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Debouncer{threshold: threshold}
}

// Update consumes one sample and returns the current signals. Each sample
// resets the opposite counter, so at most one counter is nonzero at any
// time. Counters saturate at the threshold. The outputs are level-triggered:
// they stay true on every call while the condition persists, which is what
// keeps the strip rendering tick after tick through the night.
func (d *Debouncer) Update(dark bool) (consistentDark, consistentLight bool) {
	if dark {
		if d.dark < d.threshold {
			d.dark++
		}
		d.light = 0
	} else {
		if d.light < d.threshold {
			d.light++
		}
		d.dark = 0
	}
	return d.dark >= d.threshold, d.light >= d.threshold
}

// Counts returns the current counter values.
func (d *Debouncer) Counts() (dark, light int) {
	return d.dark, d.light
}
