// Command countdown-strip drives an addressable LED strip that counts down
// the days to an important date, publishing lifecycle events to MQTT.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/countdown-strip/internal/logic"
	"github.com/sweeney/countdown-strip/internal/mqtt"
	"github.com/sweeney/countdown-strip/internal/sensor"
	"github.com/sweeney/countdown-strip/internal/settings"
	"github.com/sweeney/countdown-strip/internal/status"
	"github.com/sweeney/countdown-strip/internal/strip"
	"github.com/sweeney/countdown-strip/internal/timeapi"
	"github.com/sweeney/countdown-strip/internal/timeutil"
	"github.com/sweeney/countdown-strip/internal/web"
)

func main() {
	poll := flag.Duration("poll", 50*time.Millisecond, "Sensor polling interval")
	settingsURL := flag.String("settings-url", "", "URL of the settings JSON document (required)")
	broker := flag.String("broker", "tcp://192.168.1.200:1883", "MQTT broker address")
	heartbeat := flag.Duration("heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	pixels := flag.Int("pixels", strip.DefaultCount, "Number of pixels on the strip")
	ledPin := flag.Int("led-pin", strip.DefaultPin, "BCM pin number for the strip data line")
	sensorPin := flag.Int("sensor-pin", sensor.DefaultPin, "BCM pin number for the light sensor")
	threshold := flag.Int("threshold", logic.DefaultThreshold, "Consecutive samples before a light change is trusted")
	brightness := flag.Int("brightness", strip.DefaultBrightness, "Strip brightness (0-255)")
	httpAddr := flag.String("http", ":80", "HTTP status address (empty to disable)")

	flag.Parse()

	if *settingsURL == "" {
		log.Fatal("fatal: --settings-url is required")
	}
	if err := run(*poll, *settingsURL, *broker, *heartbeat, *pixels, *ledPin, *sensorPin, *threshold, *brightness, *httpAddr); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(poll time.Duration, settingsURL, broker string, heartbeat time.Duration, pixels, ledPin, sensorPin, threshold, brightness int, httpAddr string) error {
	ctx := context.Background()

	// Initialize the strip first so boot progress and errors are visible.
	writer, err := strip.NewRealWriter(ledPin, pixels, brightness)
	if err != nil {
		return fmt.Errorf("init strip: %w", err)
	}
	defer writer.Close()

	if err := strip.Startup(writer, time.Sleep); err != nil {
		return fmt.Errorf("startup animation: %w", err)
	}

	ctrl, offsetHours, src, err := boot(ctx, writer, settingsURL, pixels, threshold)
	if err != nil {
		// Paint the strip red so a headless install shows the failure.
		if fillErr := writer.Fill(strip.ColorError); fillErr != nil {
			log.Printf("error fill failed: %v", fillErr)
		}
		return err
	}

	reader, err := sensor.NewRealReader(sensorPin)
	if err != nil {
		if fillErr := writer.Fill(strip.ColorError); fillErr != nil {
			log.Printf("error fill failed: %v", fillErr)
		}
		return fmt.Errorf("init sensor: %w", err)
	}
	defer reader.Close()

	publisher := mqtt.NewRealPublisher(broker)
	defer publisher.Close()

	tracker := status.NewTracker(time.Now(), status.Config{
		PollMs:      poll.Milliseconds(),
		Threshold:   threshold,
		Pixels:      pixels,
		HeartbeatMs: heartbeat.Milliseconds(),
		Broker:      broker,
		SettingsURL: settingsURL,
		HTTPPort:    httpAddr,
	})
	if net := readNetworkInfo(); net != nil {
		tracker.SetNetwork(net)
	}

	// Publish startup event with full status snapshot
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	if httpAddr != "" {
		srv := web.New(httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", httpAddr)
	}

	st := ctrl.State()
	log.Printf("started: poll=%v remaining=%d length=%d broker=%s heartbeat=%v",
		poll, st.Remaining, st.Length, broker, heartbeat)

	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	timeSrc := timeapi.NewHTTPSource()
	deps := loopDeps{
		sensor:      reader,
		strip:       writer,
		ctrl:        ctrl,
		publisher:   publisher,
		mqttStatus:  publisher,
		tracker:     tracker,
		refresh:     makeRefresh(timeSrc, src),
		rnd:         rand.New(rand.NewSource(time.Now().UnixNano())),
		offsetHours: offsetHours,
		heartbeat:   heartbeat,
	}
	return runLoop(deps, time.Now, ticker.C, sigCh)
}

// boot walks the startup sequence, advancing the on-strip progress bar
// through each step: timezone, UTC offset, local date, settings, controller.
func boot(ctx context.Context, writer strip.Writer, settingsURL string, pixels, threshold int) (*logic.Controller, int, settings.Source, error) {
	const totalSteps = 10
	step := func(n int) {
		if err := strip.Progress(writer, n, totalSteps); err != nil {
			log.Printf("progress display failed: %v", err)
		}
	}
	step(1)

	timeSrc := timeapi.NewHTTPSource()
	tz, err := timeSrc.Timezone(ctx)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("discover timezone: %w", err)
	}
	log.Printf("timezone: %s", tz)
	step(2)

	offsetHours, err := timeSrc.Offset(ctx, tz)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("fetch utc offset: %w", err)
	}
	log.Printf("utc offset: %+d", offsetHours)
	step(4)

	current, err := timeSrc.LocalDate(ctx, tz)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("fetch local date: %w", err)
	}
	log.Printf("local date: %s", current)
	step(6)

	src := settings.NewHTTPSource(settingsURL)
	cfg, err := src.Fetch(ctx)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("fetch settings: %w", err)
	}
	log.Printf("settings: target=%s length=%d", cfg.TargetDate, cfg.CountdownLength())
	step(8)

	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	ctrl := logic.NewController(current, cfg, pixels, threshold, rnd)
	step(10)
	time.Sleep(500 * time.Millisecond)
	if err := writer.Clear(); err != nil {
		log.Printf("clear after boot failed: %v", err)
	}

	return ctrl, offsetHours, src, nil
}

// refreshFunc refetches the local date and settings for a day rollover.
type refreshFunc func(ctx context.Context) (timeutil.Date, settings.Settings, error)

func makeRefresh(timeSrc timeapi.Source, src settings.Source) refreshFunc {
	return func(ctx context.Context) (timeutil.Date, settings.Settings, error) {
		tz, err := timeSrc.Timezone(ctx)
		if err != nil {
			return timeutil.Date{}, settings.Settings{}, fmt.Errorf("refresh timezone: %w", err)
		}
		current, err := timeSrc.LocalDate(ctx, tz)
		if err != nil {
			return timeutil.Date{}, settings.Settings{}, fmt.Errorf("refresh local date: %w", err)
		}
		cfg, err := src.Fetch(ctx)
		if err != nil {
			return timeutil.Date{}, settings.Settings{}, fmt.Errorf("refresh settings: %w", err)
		}
		return current, cfg, nil
	}
}

// loopDeps bundles everything runLoop touches so tests can inject fakes.
type loopDeps struct {
	sensor      sensor.Reader
	strip       strip.Writer
	ctrl        *logic.Controller
	publisher   mqtt.Publisher
	mqttStatus  mqtt.ConnectionStatus
	tracker     *status.Tracker
	refresh     refreshFunc
	rnd         *rand.Rand
	offsetHours int
	heartbeat   time.Duration
}

func runLoop(deps loopDeps, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	startTime := now()
	lastHB := startTime
	var lastMode logic.Mode
	rolloverHandled := false

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			event := mqtt.SystemEvent{
				Timestamp: now(),
				Event:     "SHUTDOWN",
				Reason:    signalName,
				Retained:  true,
			}
			if deps.tracker != nil {
				if deps.mqttStatus != nil {
					deps.tracker.SetMQTTConnected(deps.mqttStatus.IsConnected())
				}
				snap := deps.tracker.Snapshot()
				event.RawPayload = status.FormatStatusEvent(snap, "SHUTDOWN", signalName)
			}
			if err := deps.publisher.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			} else {
				log.Printf("published shutdown event")
			}
			if err := deps.strip.Clear(); err != nil {
				log.Printf("clear on shutdown failed: %v", err)
			}
			return nil

		case <-tick:
			t := now()
			dark, err := deps.sensor.ReadDark()
			if err != nil {
				// Treat a faulty sensor as a lit room: fail toward blank.
				log.Printf("sensor read error: %v", err)
				dark = false
			}
			local := timeutil.ApplyOffset(t, deps.offsetHours)

			res := deps.ctrl.Tick(logic.TickInput{Dark: dark, Now: t, Local: local})

			switch res.Action {
			case logic.ActionRender:
				if lastMode != "" && res.Mode != lastMode {
					log.Printf("mode change: %s -> %s", lastMode, res.Mode)
					st := deps.ctrl.State()
					modeEvent := mqtt.Event{
						Timestamp: t,
						Type:      mqtt.EventModeChange,
						Remaining: st.Remaining,
						Length:    st.Length,
						Mode:      string(res.Mode),
					}
					if err := deps.publisher.Publish(modeEvent); err != nil {
						log.Printf("publish error: %v", err)
					}
				}
				lastMode = res.Mode
				if err := deps.strip.Write(res.Frame); err != nil {
					log.Printf("strip write error: %v", err)
				}
			case logic.ActionBlank:
				if err := deps.strip.Clear(); err != nil {
					log.Printf("strip clear error: %v", err)
				}
			}

			if res.Rollover && !rolloverHandled {
				// Handle once per light streak; a failed refresh waits for
				// the next darkness/light cycle rather than hammering the
				// settings endpoint every tick.
				rolloverHandled = true
				handleRollover(deps, t)
			} else if !res.Rollover {
				rolloverHandled = false
			}

			if deps.heartbeat > 0 && t.Sub(lastHB) >= deps.heartbeat {
				lastHB = t
				publishHeartbeat(deps, t, startTime)
			}

			if deps.tracker != nil {
				st := deps.ctrl.State()
				darkSig, lightSig := deps.ctrl.Signals()
				cfg := deps.ctrl.Settings()
				inWindow := timeutil.WithinWindow(cfg.WindowStart, cfg.WindowEnd, timeutil.ClockOf(local))
				deps.tracker.Update(string(st.Mode()), st.Remaining, st.Length, darkSig, lightSig, inWindow)
				if deps.mqttStatus != nil {
					deps.tracker.SetMQTTConnected(deps.mqttStatus.IsConnected())
				}
			}
		}
	}
}

func handleRollover(deps loopDeps, t time.Time) {
	log.Printf("daylight detected, refreshing date and settings")
	current, cfg, err := deps.refresh(context.Background())
	if err != nil {
		log.Printf("rollover refresh failed: %v", err)
		return
	}

	deps.ctrl.Reset(current, cfg, deps.rnd)
	st := deps.ctrl.State()
	log.Printf("rolled over: date=%s remaining=%d length=%d", current, st.Remaining, st.Length)

	if deps.tracker != nil {
		deps.tracker.RecordRollover(t)
	}
	event := mqtt.Event{
		Timestamp: t,
		Type:      mqtt.EventRollover,
		Remaining: st.Remaining,
		Length:    st.Length,
		Mode:      string(st.Mode()),
	}
	if err := deps.publisher.Publish(event); err != nil {
		log.Printf("publish error: %v", err)
	}
}

func publishHeartbeat(deps loopDeps, t, startTime time.Time) {
	st := deps.ctrl.State()
	rollovers := 0
	if deps.tracker != nil {
		if deps.mqttStatus != nil {
			deps.tracker.SetMQTTConnected(deps.mqttStatus.IsConnected())
		}
		// Refresh network info for heartbeat
		if net := readNetworkInfo(); net != nil {
			deps.tracker.SetNetwork(net)
		}
		rollovers = deps.tracker.Snapshot().Rollovers
	}

	uptime := t.Sub(startTime)
	log.Printf("heartbeat: uptime=%v mode=%s remaining=%d rollovers=%d",
		uptime, st.Mode(), st.Remaining, rollovers)

	hbEvent := mqtt.SystemEvent{
		Timestamp: t,
		Event:     "HEARTBEAT",
		Heartbeat: &mqtt.HeartbeatInfo{
			UptimeSeconds: int64(uptime.Seconds()),
			Rollovers:     rollovers,
			Mode:          string(st.Mode()),
			RemainingDays: st.Remaining,
		},
	}
	if net := readNetworkInfo(); net != nil {
		hbEvent.Network = &mqtt.NetworkInfo{
			Type:       net.Type,
			IP:         net.IP,
			Status:     net.Status,
			Gateway:    net.Gateway,
			WifiStatus: net.WifiStatus,
			SSID:       net.SSID,
		}
	}
	if err := deps.publisher.PublishSystem(hbEvent); err != nil {
		log.Printf("heartbeat publish error: %v", err)
	}
}

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

func readNetworkInfo() *status.NetworkInfo {
	s := os.Getenv(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       os.Getenv(envNetworkType),
		IP:         os.Getenv(envNetworkIP),
		Status:     s,
		Gateway:    os.Getenv(envNetworkGateway),
		WifiStatus: os.Getenv(envNetworkWifiStatus),
		SSID:       os.Getenv(envNetworkWifiSSID),
	}
}
