package mqtt

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestTopic(t *testing.T) {
	expected := "home/countdown/strip/events"
	if Topic != expected {
		t.Errorf("unexpected topic: got %s, want %s", Topic, expected)
	}
}

func TestTopicSystem(t *testing.T) {
	expected := "home/countdown/strip/system"
	if TopicSystem != expected {
		t.Errorf("unexpected system topic: got %s, want %s", TopicSystem, expected)
	}
}

func TestFormatPayload(t *testing.T) {
	event := Event{
		Timestamp: time.Date(2026, 12, 20, 22, 18, 12, 0, time.UTC),
		Type:      EventRollover,
		Remaining: 5,
		Length:    24,
		Mode:      "COUNTDOWN",
	}

	payload, err := FormatPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed Payload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if parsed.Countdown.Timestamp != "2026-12-20T22:18:12Z" {
		t.Errorf("unexpected timestamp: %s", parsed.Countdown.Timestamp)
	}
	if parsed.Countdown.Event != "ROLLOVER" {
		t.Errorf("unexpected event: %s", parsed.Countdown.Event)
	}
	if parsed.Countdown.RemainingDays != 5 {
		t.Errorf("unexpected remaining_days: %d", parsed.Countdown.RemainingDays)
	}
	if parsed.Countdown.LengthDays != 24 {
		t.Errorf("unexpected length_days: %d", parsed.Countdown.LengthDays)
	}
	if parsed.Countdown.Mode != "COUNTDOWN" {
		t.Errorf("unexpected mode: %s", parsed.Countdown.Mode)
	}
}

func TestFormatPayloadExactJSON(t *testing.T) {
	event := Event{
		Timestamp: time.Date(2026, 12, 21, 6, 0, 0, 0, time.UTC),
		Type:      EventModeChange,
		Remaining: 0,
		Length:    24,
		Mode:      "BREATHING",
	}

	payload, err := FormatPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `{"countdown":{"timestamp":"2026-12-21T06:00:00Z","event":"MODE_CHANGE","remaining_days":0,"length_days":24,"mode":"BREATHING"}}`
	if string(payload) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", string(payload), expected)
	}
}

func TestFormatPayloadTimezoneConversion(t *testing.T) {
	loc, _ := time.LoadLocation("America/New_York")
	localTime := time.Date(2026, 2, 3, 10, 30, 0, 0, loc) // 10:30 EST = 15:30 UTC

	event := Event{
		Timestamp: localTime,
		Type:      EventRollover,
		Remaining: 3,
		Length:    10,
		Mode:      "COUNTDOWN",
	}

	payload, err := FormatPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed Payload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if parsed.Countdown.Timestamp != "2026-02-03T15:30:00Z" {
		t.Errorf("expected UTC timestamp 2026-02-03T15:30:00Z, got %s", parsed.Countdown.Timestamp)
	}
}

func TestFormatSystemPayloadShutdown(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 2, 3, 10, 30, 45, 0, time.UTC),
		Event:     "SHUTDOWN",
		Reason:    "SIGTERM",
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `{"system":{"timestamp":"2026-02-03T10:30:45Z","event":"SHUTDOWN","reason":"SIGTERM"}}`
	if string(payload) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", string(payload), expected)
	}
}

func TestFormatSystemPayloadStartupExactJSON(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 2, 3, 19, 5, 51, 0, time.UTC),
		Event:     "STARTUP",
		Config: &SystemConfig{
			PollMs:      50,
			Threshold:   25,
			Pixels:      100,
			HeartbeatMs: 900000,
			Broker:      "tcp://192.168.1.200:1883",
		},
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `{"system":{"timestamp":"2026-02-03T19:05:51Z","event":"STARTUP","config":{"poll_ms":50,"threshold":25,"pixels":100,"heartbeat_ms":900000,"broker":"tcp://192.168.1.200:1883"}}}`
	if string(payload) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", string(payload), expected)
	}
}

func TestFormatSystemPayloadStartupOmitsReason(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 2, 3, 19, 5, 51, 0, time.UTC),
		Event:     "STARTUP",
		Reason:    "",
		Config:    &SystemConfig{PollMs: 50, Broker: "tcp://broker:1883"},
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	system := parsed["system"].(map[string]interface{})
	if _, exists := system["reason"]; exists {
		t.Error("reason field should be omitted for startup events")
	}
}

func TestFormatSystemPayloadHeartbeatExactJSON(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 2, 4, 12, 15, 0, 0, time.UTC),
		Event:     "HEARTBEAT",
		Heartbeat: &HeartbeatInfo{
			UptimeSeconds: 900,
			Rollovers:     3,
			Mode:          "COUNTDOWN",
			RemainingDays: 5,
		},
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `{"system":{"timestamp":"2026-02-04T12:15:00Z","event":"HEARTBEAT","heartbeat":{"uptime_seconds":900,"rollovers":3,"mode":"COUNTDOWN","remaining_days":5}}}`
	if string(payload) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", string(payload), expected)
	}
}

func TestFormatSystemPayloadHeartbeatOmitsOtherFields(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 2, 4, 12, 15, 0, 0, time.UTC),
		Event:     "HEARTBEAT",
		Heartbeat: &HeartbeatInfo{UptimeSeconds: 900},
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	system := parsed["system"].(map[string]interface{})
	if _, exists := system["reason"]; exists {
		t.Error("reason field should be omitted for heartbeat events")
	}
	if _, exists := system["config"]; exists {
		t.Error("config field should be omitted for heartbeat events")
	}
}

func TestFormatSystemPayloadStartupWithNetwork(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 2, 3, 19, 5, 51, 0, time.UTC),
		Event:     "STARTUP",
		Config: &SystemConfig{
			PollMs:      50,
			Threshold:   25,
			Pixels:      100,
			HeartbeatMs: 900000,
			Broker:      "tcp://192.168.1.200:1883",
		},
		Network: &NetworkInfo{
			Type:       "wifi",
			IP:         "192.168.1.100",
			Status:     "connected",
			Gateway:    "192.168.1.1",
			WifiStatus: "connected",
			SSID:       "MyNetwork",
		},
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `{"system":{"timestamp":"2026-02-03T19:05:51Z","event":"STARTUP","config":{"poll_ms":50,"threshold":25,"pixels":100,"heartbeat_ms":900000,"broker":"tcp://192.168.1.200:1883"},"network":{"type":"wifi","ip":"192.168.1.100","status":"connected","gateway":"192.168.1.1","wifi_status":"connected","ssid":"MyNetwork"}}}`
	if string(payload) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", string(payload), expected)
	}
}

func TestFormatSystemPayloadNetworkOmittedWhenNil(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 2, 3, 10, 30, 45, 0, time.UTC),
		Event:     "SHUTDOWN",
		Reason:    "SIGTERM",
		Network:   nil,
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	system := parsed["system"].(map[string]interface{})
	if _, exists := system["network"]; exists {
		t.Error("network field should be omitted when nil")
	}
}

func TestFormatSystemPayloadRawPassthrough(t *testing.T) {
	raw := []byte(`{"system":{"custom":true}}`)
	event := SystemEvent{
		Timestamp:  time.Now(),
		Event:      "HEARTBEAT",
		RawPayload: raw,
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(payload) != string(raw) {
		t.Errorf("raw payload not returned directly: %s", payload)
	}
}

func TestFakePublisher(t *testing.T) {
	f := NewFakePublisher()

	event := Event{
		Timestamp: time.Now(),
		Type:      EventRollover,
		Remaining: 4,
		Length:    24,
		Mode:      "COUNTDOWN",
	}

	if err := f.Publish(event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(f.Events))
	}
	if f.Events[0].Type != EventRollover {
		t.Errorf("unexpected event type: %s", f.Events[0].Type)
	}
	if len(f.Payloads) != 1 {
		t.Fatalf("expected 1 payload, got %d", len(f.Payloads))
	}
}

func TestFakePublisherError(t *testing.T) {
	f := NewFakePublisher()
	f.PublishError = errors.New("simulated error")

	err := f.Publish(Event{Timestamp: time.Now(), Type: EventRollover})
	if err == nil {
		t.Error("expected error")
	}
	if len(f.Events) != 0 {
		t.Errorf("expected no events recorded on error, got %d", len(f.Events))
	}
}

func TestFakePublisherPublishSystem(t *testing.T) {
	f := NewFakePublisher()

	event := SystemEvent{
		Timestamp: time.Now(),
		Event:     "SHUTDOWN",
		Reason:    "SIGTERM",
	}

	if err := f.PublishSystem(event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.SystemEvents) != 1 {
		t.Fatalf("expected 1 system event, got %d", len(f.SystemEvents))
	}
	if f.SystemEvents[0].Event != "SHUTDOWN" {
		t.Errorf("unexpected event: %s", f.SystemEvents[0].Event)
	}
	if f.SystemEvents[0].Reason != "SIGTERM" {
		t.Errorf("unexpected reason: %s", f.SystemEvents[0].Reason)
	}
	if len(f.SystemPayloads) != 1 {
		t.Fatalf("expected 1 system payload, got %d", len(f.SystemPayloads))
	}
}

func TestFakePublisherRecordsRetainedFlag(t *testing.T) {
	f := NewFakePublisher()

	f.PublishSystem(SystemEvent{Timestamp: time.Now(), Event: "STARTUP", Retained: true})
	f.PublishSystem(SystemEvent{Timestamp: time.Now(), Event: "HEARTBEAT", Retained: false})

	if len(f.SystemEvents) != 2 {
		t.Fatalf("expected 2 system events, got %d", len(f.SystemEvents))
	}
	if !f.SystemEvents[0].Retained {
		t.Error("first event should have Retained=true")
	}
	if f.SystemEvents[1].Retained {
		t.Error("second event should have Retained=false")
	}
}

func TestFakePublisherPreservesEventOrder(t *testing.T) {
	f := NewFakePublisher()

	types := []EventType{EventRollover, EventModeChange, EventRollover}
	for _, typ := range types {
		f.Publish(Event{Timestamp: time.Now(), Type: typ})
	}

	if len(f.Events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(f.Events))
	}
	for i, typ := range types {
		if f.Events[i].Type != typ {
			t.Errorf("event %d: expected %s, got %s", i, typ, f.Events[i].Type)
		}
	}
}

func TestFakePublisherReset(t *testing.T) {
	f := NewFakePublisher()

	f.Publish(Event{Timestamp: time.Now(), Type: EventRollover})
	f.PublishSystem(SystemEvent{Timestamp: time.Now(), Event: "SHUTDOWN", Reason: "SIGTERM"})
	f.Close()
	f.PublishError = errors.New("error")
	f.Connected = true

	f.Reset()

	if len(f.Events) != 0 || len(f.Payloads) != 0 {
		t.Error("events and payloads should be cleared")
	}
	if len(f.SystemEvents) != 0 || len(f.SystemPayloads) != 0 {
		t.Error("system events and payloads should be cleared")
	}
	if f.Closed {
		t.Error("closed should be reset")
	}
	if f.PublishError != nil {
		t.Error("error should be cleared")
	}
	if f.Connected {
		t.Error("connected should be reset")
	}
}

// Interface compliance checks.
var (
	_ Publisher        = (*FakePublisher)(nil)
	_ ConnectionStatus = (*FakePublisher)(nil)
	_ Publisher        = (*RealPublisher)(nil)
	_ ConnectionStatus = (*RealPublisher)(nil)
)
