package settings

import "context"

// FakeSource is a test double that returns scripted settings.
type FakeSource struct {
	// Settings is returned by Fetch when Err is nil.
	Settings Settings

	// Err, if set, is returned by Fetch.
	Err error

	// Calls counts Fetch invocations.
	Calls int
}

// NewFakeSource creates a FakeSource returning the given settings.
func NewFakeSource(s Settings) *FakeSource {
	return &FakeSource{Settings: s}
}

// Fetch returns the scripted settings or error.
func (f *FakeSource) Fetch(ctx context.Context) (Settings, error) {
	f.Calls++
	if f.Err != nil {
		return Settings{}, f.Err
	}
	return f.Settings, nil
}
