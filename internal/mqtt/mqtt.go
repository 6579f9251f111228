// Package mqtt provides MQTT publishing with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"
)

// Topic is the MQTT topic for countdown events.
const Topic = "home/countdown/strip/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "home/countdown/strip/system"

// EventType identifies a countdown event.
type EventType string

// Countdown event types.
const (
	EventRollover   EventType = "ROLLOVER"
	EventModeChange EventType = "MODE_CHANGE"
)

// Event represents a countdown event worth telling the broker about.
type Event struct {
	Timestamp time.Time
	Type      EventType
	Remaining int64
	Length    int64
	Mode      string
}

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a countdown event to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(event Event) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string         // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string         // e.g., "SIGTERM", "SIGINT" (shutdown only)
	Config     *SystemConfig  // startup only
	Heartbeat  *HeartbeatInfo // heartbeat only
	Network    *NetworkInfo   // startup and heartbeat
	RawPayload []byte         // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool           // Whether the message should be retained by the broker
}

// SystemConfig captures the daemon configuration announced at startup.
type SystemConfig struct {
	PollMs      int    `json:"poll_ms"`
	Threshold   int    `json:"threshold"`
	Pixels      int    `json:"pixels"`
	HeartbeatMs int    `json:"heartbeat_ms"`
	Broker      string `json:"broker"`
	SettingsURL string `json:"settings_url,omitempty"`
}

// HeartbeatInfo carries the periodic liveness snapshot.
type HeartbeatInfo struct {
	UptimeSeconds int64  `json:"uptime_seconds"`
	Rollovers     int    `json:"rollovers"`
	Mode          string `json:"mode"`
	RemainingDays int64  `json:"remaining_days"`
}

// NetworkInfo describes the device's network interface.
type NetworkInfo struct {
	Type       string `json:"type"`
	IP         string `json:"ip"`
	Status     string `json:"status"`
	Gateway    string `json:"gateway,omitempty"`
	WifiStatus string `json:"wifi_status,omitempty"`
	SSID       string `json:"ssid,omitempty"`
}

// Payload represents the MQTT message payload structure.
type Payload struct {
	Countdown CountdownPayload `json:"countdown"`
}

// CountdownPayload contains the countdown event details.
type CountdownPayload struct {
	Timestamp     string `json:"timestamp"`
	Event         string `json:"event"`
	RemainingDays int64  `json:"remaining_days"`
	LengthDays    int64  `json:"length_days"`
	Mode          string `json:"mode"`
}

// FormatPayload creates the JSON payload for a countdown event.
func FormatPayload(event Event) ([]byte, error) {
	payload := Payload{
		Countdown: CountdownPayload{
			Timestamp:     event.Timestamp.UTC().Format(time.RFC3339),
			Event:         string(event.Type),
			RemainingDays: event.Remaining,
			LengthDays:    event.Length,
			Mode:          event.Mode,
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string         `json:"timestamp"`
	Event     string         `json:"event"`
	Reason    string         `json:"reason,omitempty"`
	Config    *SystemConfig  `json:"config,omitempty"`
	Heartbeat *HeartbeatInfo `json:"heartbeat,omitempty"`
	Network   *NetworkInfo   `json:"network,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
			Config:    event.Config,
			Heartbeat: event.Heartbeat,
			Network:   event.Network,
		},
	}
	return json.Marshal(payload)
}
