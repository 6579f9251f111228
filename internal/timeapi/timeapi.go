// Package timeapi discovers the device's timezone, UTC offset and local
// date from public time APIs. The core never dials; it consumes this
// package through the Source interface.
package timeapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/sweeney/countdown-strip/internal/timeutil"
)

// Source supplies timezone and date information.
type Source interface {
	// Timezone returns the IANA timezone name for the device's location.
	Timezone(ctx context.Context) (string, error)

	// Offset returns the UTC offset in whole hours for the timezone.
	Offset(ctx context.Context, tz string) (int, error)

	// LocalDate returns the current civil date in the timezone.
	LocalDate(ctx context.Context, tz string) (timeutil.Date, error)
}

// Default endpoints. Overridable for tests.
const (
	defaultTimezoneURL = "http://ipwhois.app/json/"
	defaultOffsetURL   = "http://worldtimeapi.org/api/timezone/%s"
	defaultDateURL     = "https://timeapi.io/api/Time/current/zone?timeZone=%s"
)

// HTTPSource queries public time APIs with bounded retries.
type HTTPSource struct {
	client      *http.Client
	timezoneURL string
	offsetURL   string // %s = timezone
	dateURL     string // %s = timezone
	attempts    int
	backoff     time.Duration
}

// NewHTTPSource creates a Source backed by the public time APIs.
func NewHTTPSource() *HTTPSource {
	return &HTTPSource{
		client:      &http.Client{Timeout: 10 * time.Second},
		timezoneURL: defaultTimezoneURL,
		offsetURL:   defaultOffsetURL,
		dateURL:     defaultDateURL,
		attempts:    3,
		backoff:     2 * time.Second,
	}
}

// Timezone returns the IANA timezone from IP geolocation.
func (s *HTTPSource) Timezone(ctx context.Context) (string, error) {
	var out struct {
		Timezone string `json:"timezone"`
	}
	if err := s.getJSON(ctx, "timezone", s.timezoneURL, &out); err != nil {
		return "", err
	}
	if out.Timezone == "" {
		return "", fmt.Errorf("timeapi: empty timezone in response")
	}
	return out.Timezone, nil
}

// Offset returns the UTC offset in whole hours for tz. The API reports
// "+HH:MM"; only the hour component is used.
func (s *HTTPSource) Offset(ctx context.Context, tz string) (int, error) {
	var out struct {
		UTCOffset string `json:"utc_offset"`
	}
	if err := s.getJSON(ctx, "offset", fmt.Sprintf(s.offsetURL, tz), &out); err != nil {
		return 0, err
	}
	if len(out.UTCOffset) < 3 {
		return 0, fmt.Errorf("timeapi: malformed utc_offset %q", out.UTCOffset)
	}
	hours, err := strconv.Atoi(out.UTCOffset[:3])
	if err != nil {
		return 0, fmt.Errorf("timeapi: malformed utc_offset %q: %w", out.UTCOffset, err)
	}
	return hours, nil
}

// LocalDate returns the current civil date in tz.
func (s *HTTPSource) LocalDate(ctx context.Context, tz string) (timeutil.Date, error) {
	var out struct {
		Year  int `json:"year"`
		Month int `json:"month"`
		Day   int `json:"day"`
	}
	if err := s.getJSON(ctx, "local date", fmt.Sprintf(s.dateURL, tz), &out); err != nil {
		return timeutil.Date{}, err
	}
	d := timeutil.Date{Year: out.Year, Month: out.Month, Day: out.Day}
	if d.IsZero() {
		return timeutil.Date{}, fmt.Errorf("timeapi: empty date in response")
	}
	return d, nil
}

func (s *HTTPSource) getJSON(ctx context.Context, what, url string, out interface{}) error {
	var lastErr error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.backoff):
			}
		}

		if err := s.getJSONOnce(ctx, url, out); err != nil {
			lastErr = err
			log.Printf("timeapi: %s attempt %d/%d: %v", what, attempt, s.attempts, err)
			continue
		}
		return nil
	}
	return fmt.Errorf("timeapi: %s failed: %w", what, lastErr)
}

func (s *HTTPSource) getJSONOnce(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
