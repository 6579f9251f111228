package settings

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// Source supplies display settings. The real implementation fetches a JSON
// document over HTTP; the fake allows testing without a network.
type Source interface {
	Fetch(ctx context.Context) (Settings, error)
}

// HTTPSource fetches settings from a remote URL with bounded retries.
type HTTPSource struct {
	url      string
	client   *http.Client
	attempts int
	backoff  time.Duration
}

// NewHTTPSource creates a Source for the given settings URL.
func NewHTTPSource(url string) *HTTPSource {
	return &HTTPSource{
		url:      url,
		client:   &http.Client{Timeout: 10 * time.Second},
		attempts: 3,
		backoff:  2 * time.Second,
	}
}

// Fetch retrieves and parses the settings document, retrying transient
// failures. Validation errors are not retried — a bad document stays bad.
func (s *HTTPSource) Fetch(ctx context.Context) (Settings, error) {
	var lastErr error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return Settings{}, ctx.Err()
			case <-time.After(s.backoff):
			}
		}

		data, err := s.fetchOnce(ctx)
		if err != nil {
			lastErr = err
			log.Printf("settings: fetch attempt %d/%d: %v", attempt, s.attempts, err)
			continue
		}
		return Parse(data)
	}
	return Settings{}, fmt.Errorf("settings: fetch failed: %w", lastErr)
}

func (s *HTTPSource) fetchOnce(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return data, nil
}
