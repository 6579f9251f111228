// Package status provides a thread-safe status tracker for the countdown-strip
// daemon. It is designed to be read by HTTP handlers and event payloads.
package status

import (
	"sync"
	"time"
)

// NetworkInfo contains network state. This is a local copy to avoid
// importing internal/mqtt from status.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config contains daemon configuration for display.
type Config struct {
	PollMs      int64
	Threshold   int
	Pixels      int
	HeartbeatMs int64
	Broker      string
	SettingsURL string
	HTTPPort    string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	Mode            string
	Remaining       int64
	Length          int64
	ConsistentDark  bool
	ConsistentLight bool
	InWindow        bool
	Rollovers       int
	LastRollover    time.Time
	StartTime       time.Time
	Now             time.Time
	MQTTConnected   bool
	Network         *NetworkInfo
	Config          Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update sets the render mode, countdown position and sensor signals.
// Called from runLoop on every tick.
func (t *Tracker) Update(mode string, remaining, length int64, dark, light, inWindow bool) {
	t.mu.Lock()
	t.snap.Mode = mode
	t.snap.Remaining = remaining
	t.snap.Length = length
	t.snap.ConsistentDark = dark
	t.snap.ConsistentLight = light
	t.snap.InWindow = inWindow
	t.mu.Unlock()
}

// RecordRollover increments the rollover counter.
func (t *Tracker) RecordRollover(at time.Time) {
	t.mu.Lock()
	t.snap.Rollovers++
	t.snap.LastRollover = at
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// SetNetwork sets the network info.
func (t *Tracker) SetNetwork(info *NetworkInfo) {
	t.mu.Lock()
	t.snap.Network = info
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
