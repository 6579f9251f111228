//go:build !linux

package strip

import (
	"errors"

	"github.com/sweeney/countdown-strip/internal/color"
)

// RealWriter is not available on non-Linux platforms.
type RealWriter struct{}

// NewRealWriter returns an error on non-Linux platforms.
func NewRealWriter(pin, count, brightness int) (*RealWriter, error) {
	return nil, errors.New("strip: not supported on this platform (requires Linux)")
}

// Write is not implemented on non-Linux platforms.
func (w *RealWriter) Write(frame []color.RGB) error {
	return errors.New("strip: not supported")
}

// Fill is not implemented on non-Linux platforms.
func (w *RealWriter) Fill(c color.RGB) error {
	return errors.New("strip: not supported")
}

// Clear is not implemented on non-Linux platforms.
func (w *RealWriter) Clear() error {
	return errors.New("strip: not supported")
}

// Count returns zero on non-Linux platforms.
func (w *RealWriter) Count() int { return 0 }

// Close is not implemented on non-Linux platforms.
func (w *RealWriter) Close() error { return nil }
