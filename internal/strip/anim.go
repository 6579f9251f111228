package strip

import (
	"time"

	"github.com/sweeney/countdown-strip/internal/color"
)

// Startup runs the power-on test pattern: a green wipe across the strip,
// then yellow and blue flashes, then off. The sleep function is injected
// so tests run instantly.
func Startup(w Writer, sleep func(time.Duration)) error {
	frame := make([]color.RGB, w.Count())
	for i := range frame {
		frame[i] = ColorProgress
		if err := w.Write(frame[:i+1]); err != nil {
			return err
		}
		sleep(10 * time.Millisecond)
	}
	sleep(200 * time.Millisecond)

	if err := w.Fill(color.RGB{R: 155, G: 155}); err != nil {
		return err
	}
	sleep(200 * time.Millisecond)

	if err := w.Fill(color.RGB{B: 255}); err != nil {
		return err
	}
	sleep(200 * time.Millisecond)

	return w.Clear()
}

// Progress displays a boot progress bar of step filled segments out of
// total, with a one pixel gap between segments. Steps outside [1, total]
// are ignored.
func Progress(w Writer, step, total int) error {
	if step < 1 || step > total {
		return nil
	}

	n := w.Count()
	segmentSize := n / total
	frame := make([]color.RGB, n)
	for segment := 0; segment < step; segment++ {
		start := segment * segmentSize
		end := start + segmentSize - 1 // one pixel gap
		for i := start; i < end && i < n; i++ {
			frame[i] = ColorProgress
		}
	}
	return w.Write(frame)
}
