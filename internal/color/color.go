// Package color provides RGB parsing and arithmetic for the LED strip.
package color

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
)

// ErrBadFormat is returned when a color string cannot be parsed.
var ErrBadFormat = errors.New("color: bad format")

// RGB is a single pixel color.
type RGB struct {
	R, G, B uint8
}

// Common colors.
var (
	White = RGB{R: 255, G: 255, B: 255}
	Off   = RGB{}
)

// Parse converts an "(r,g,b)" formatted string to an RGB value.
func Parse(s string) (RGB, error) {
	trimmed := strings.TrimSpace(s)
	trimmed = strings.TrimPrefix(trimmed, "(")
	trimmed = strings.TrimSuffix(trimmed, ")")
	parts := strings.Split(trimmed, ",")
	if len(parts) != 3 {
		return RGB{}, fmt.Errorf("%w: %q", ErrBadFormat, s)
	}

	var ch [3]uint8
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v < 0 || v > 255 {
			return RGB{}, fmt.Errorf("%w: %q", ErrBadFormat, s)
		}
		ch[i] = uint8(v)
	}
	return RGB{R: ch[0], G: ch[1], B: ch[2]}, nil
}

// ParseOrDefault parses s, falling back to def when s is malformed.
// Settings strings are expected to be pre-validated upstream, but a bad
// one must never halt the render loop.
func ParseOrDefault(s string, def RGB) RGB {
	c, err := Parse(s)
	if err != nil {
		return def
	}
	return c
}

// Clamp truncates v to an integer and clamps it to [0, 255].
func Clamp(v float64) uint8 {
	n := int(v)
	if n > 255 {
		return 255
	}
	if n < 0 {
		return 0
	}
	return uint8(n)
}

// Lighten scales each channel by factor and clamps. Factors below 1 darken.
func Lighten(c RGB, factor float64) RGB {
	return RGB{
		R: Clamp(float64(c.R) * factor),
		G: Clamp(float64(c.G) * factor),
		B: Clamp(float64(c.B) * factor),
	}
}

// RandomBase draws three independent channel weights, each uniform over
// [0.01, 0.99]. Used once per day as the breathing-mode base color.
func RandomBase(rnd *rand.Rand) (r, g, b float64) {
	draw := func() float64 { return float64(rnd.Intn(99)+1) / 100 }
	return draw(), draw(), draw()
}
