package timeapi

import (
	"context"

	"github.com/sweeney/countdown-strip/internal/timeutil"
)

// FakeSource is a test double returning scripted time data.
type FakeSource struct {
	TZ          string
	OffsetHours int
	Date        timeutil.Date

	// Per-call errors; nil means success.
	TimezoneErr  error
	OffsetErr    error
	LocalDateErr error

	// LocalDateCalls counts LocalDate invocations.
	LocalDateCalls int
}

// Timezone returns the scripted timezone.
func (f *FakeSource) Timezone(ctx context.Context) (string, error) {
	if f.TimezoneErr != nil {
		return "", f.TimezoneErr
	}
	return f.TZ, nil
}

// Offset returns the scripted offset.
func (f *FakeSource) Offset(ctx context.Context, tz string) (int, error) {
	if f.OffsetErr != nil {
		return 0, f.OffsetErr
	}
	return f.OffsetHours, nil
}

// LocalDate returns the scripted date.
func (f *FakeSource) LocalDate(ctx context.Context, tz string) (timeutil.Date, error) {
	f.LocalDateCalls++
	if f.LocalDateErr != nil {
		return timeutil.Date{}, f.LocalDateErr
	}
	return f.Date, nil
}
