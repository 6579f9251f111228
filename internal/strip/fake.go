package strip

import "github.com/sweeney/countdown-strip/internal/color"

// FakeWriter is a test double that records everything written to it.
type FakeWriter struct {
	// PixelCount is the pretend strip length.
	PixelCount int

	// Frames holds a copy of every frame passed to Write.
	Frames [][]color.RGB

	// Fills holds every color passed to Fill.
	Fills []color.RGB

	// Cleared counts Clear calls.
	Cleared int

	// Closed tracks if Close was called
	Closed bool

	// WriteError, if set, is returned by Write, Fill and Clear.
	WriteError error
}

// NewFakeWriter creates a FakeWriter with the given pixel count.
func NewFakeWriter(count int) *FakeWriter {
	return &FakeWriter{PixelCount: count}
}

// Write records a copy of the frame.
func (f *FakeWriter) Write(frame []color.RGB) error {
	if f.WriteError != nil {
		return f.WriteError
	}
	cp := make([]color.RGB, len(frame))
	copy(cp, frame)
	f.Frames = append(f.Frames, cp)
	return nil
}

// Fill records the fill color.
func (f *FakeWriter) Fill(c color.RGB) error {
	if f.WriteError != nil {
		return f.WriteError
	}
	f.Fills = append(f.Fills, c)
	return nil
}

// Clear counts the call.
func (f *FakeWriter) Clear() error {
	if f.WriteError != nil {
		return f.WriteError
	}
	f.Cleared++
	return nil
}

// Count returns the pretend strip length.
func (f *FakeWriter) Count() int { return f.PixelCount }

// Close marks the writer as closed.
func (f *FakeWriter) Close() error {
	f.Closed = true
	return nil
}

// LastFrame returns the most recent frame, or nil if none were written.
func (f *FakeWriter) LastFrame() []color.RGB {
	if len(f.Frames) == 0 {
		return nil
	}
	return f.Frames[len(f.Frames)-1]
}
