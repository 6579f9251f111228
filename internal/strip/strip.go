// Package strip drives the addressable LED strip with hardware abstraction.
// The real implementation uses the rpi-ws281x PWM driver.
// The fake implementation records frames for testing.
package strip

import "github.com/sweeney/countdown-strip/internal/color"

// Writer pushes pixel frames to the strip.
type Writer interface {
	// Write displays a full frame. Frames shorter than the strip leave
	// the remaining pixels unchanged.
	Write(frame []color.RGB) error

	// Fill lights every pixel with a single color.
	Fill(c color.RGB) error

	// Clear turns every pixel off.
	Clear() error

	// Count returns the number of pixels on the strip.
	Count() int

	// Close turns the strip off and releases resources.
	Close() error
}

// Hardware defaults (BCM numbering for the data pin).
const (
	DefaultPin        = 18
	DefaultCount      = 100
	DefaultBrightness = 255
)

// Status colors shown outside normal rendering.
var (
	ColorProgress = color.RGB{G: 255}
	ColorError    = color.RGB{R: 255}
	ColorUpdate   = color.RGB{B: 255}
)
