//go:build linux

package strip

import (
	"fmt"

	ws2811 "github.com/rpi-ws281x/rpi-ws281x-go"

	"github.com/sweeney/countdown-strip/internal/color"
)

// RealWriter drives a WS2812 strip through the rpi-ws281x PWM engine.
type RealWriter struct {
	dev   *ws2811.WS2811
	count int
}

// NewRealWriter initializes the strip hardware.
func NewRealWriter(pin, count, brightness int) (*RealWriter, error) {
	opt := ws2811.DefaultOptions
	opt.Channels[0].GpioPin = pin
	opt.Channels[0].LedCount = count
	opt.Channels[0].Brightness = brightness

	dev, err := ws2811.MakeWS2811(&opt)
	if err != nil {
		return nil, fmt.Errorf("configure ws281x: %w", err)
	}
	if err := dev.Init(); err != nil {
		return nil, fmt.Errorf("init ws281x: %w", err)
	}

	return &RealWriter{dev: dev, count: count}, nil
}

// Write displays a full frame.
func (w *RealWriter) Write(frame []color.RGB) error {
	leds := w.dev.Leds(0)
	for i, c := range frame {
		if i >= len(leds) {
			break
		}
		leds[i] = pack(c)
	}
	return w.dev.Render()
}

// Fill lights every pixel with a single color.
func (w *RealWriter) Fill(c color.RGB) error {
	leds := w.dev.Leds(0)
	v := pack(c)
	for i := range leds {
		leds[i] = v
	}
	return w.dev.Render()
}

// Clear turns every pixel off.
func (w *RealWriter) Clear() error {
	return w.Fill(color.Off)
}

// Count returns the number of pixels on the strip.
func (w *RealWriter) Count() int {
	return w.count
}

// Close blanks the strip and releases the PWM engine.
func (w *RealWriter) Close() error {
	err := w.Clear()
	w.dev.Fini()
	return err
}

func pack(c color.RGB) uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}
