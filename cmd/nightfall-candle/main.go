// Command nightfall-candle runs the candle countdown in a terminal (or
// headless on a Pi with buttons) and publishes its lifecycle to MQTT.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/sweeney/nightfall-candle/internal/audio"
	"github.com/sweeney/nightfall-candle/internal/config"
	"github.com/sweeney/nightfall-candle/internal/engine"
	"github.com/sweeney/nightfall-candle/internal/gpio"
	"github.com/sweeney/nightfall-candle/internal/logic"
	"github.com/sweeney/nightfall-candle/internal/mqtt"
	"github.com/sweeney/nightfall-candle/internal/render"
	"github.com/sweeney/nightfall-candle/internal/status"
	"github.com/sweeney/nightfall-candle/internal/stitch"
	"github.com/sweeney/nightfall-candle/internal/storage"
	"github.com/sweeney/nightfall-candle/internal/titlegen"
	"github.com/sweeney/nightfall-candle/internal/web"
)

// Preference keys in the store.
const (
	prefMuted  = "muted"
	prefVolume = "volume"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (missing file uses defaults)")
	variant := flag.String("variant", "", `Timer variant: "candle" or "focus"`)
	duration := flag.Duration("duration", 0, "Countdown duration configured at startup")
	broker := flag.String("broker", "", "MQTT broker address")
	httpAddr := flag.String("http", "", "HTTP status address (empty in config disables)")
	db := flag.String("db", "", "sqlite database path")
	heartbeat := flag.Duration("heartbeat", 0, "Heartbeat interval (0 to disable)")
	useGPIO := flag.Bool("gpio", false, "Read start/pause/reset buttons from GPIO")
	pinStart := flag.Int("pin-start", gpio.DefaultPins.Start, "BCM pin for the start button")
	pinPause := flag.Int("pin-pause", gpio.DefaultPins.Pause, "BCM pin for the pause button")
	pinReset := flag.Int("pin-reset", gpio.DefaultPins.Reset, "BCM pin for the reset button")
	poll := flag.Duration("poll", 0, "GPIO polling interval")
	debounce := flag.Duration("debounce", 0, "Button debounce duration")
	noAudio := flag.Bool("no-audio", false, "Do not open the speaker")
	headless := flag.Bool("headless", false, "Run without the terminal UI")
	logPath := flag.String("log", "", "Log file (terminal mode discards logs otherwise)")
	printConfig := flag.Bool("print-config", false, "Print the effective config and exit")

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}

	// Only flags given on the command line override the file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "variant":
			cfg.Variant = *variant
		case "duration":
			cfg.Duration = *duration
		case "broker":
			cfg.MQTT.Broker = *broker
		case "http":
			cfg.HTTP.Addr = *httpAddr
		case "db":
			cfg.Storage.Path = *db
		case "heartbeat":
			cfg.MQTT.Heartbeat = *heartbeat
		case "gpio":
			cfg.GPIO.Enabled = *useGPIO
		case "pin-start":
			cfg.GPIO.PinStart = *pinStart
		case "pin-pause":
			cfg.GPIO.PinPause = *pinPause
		case "pin-reset":
			cfg.GPIO.PinReset = *pinReset
		case "poll":
			cfg.GPIO.Poll = *poll
		case "debounce":
			cfg.GPIO.Debounce = *debounce
		case "no-audio":
			cfg.Audio.Enabled = !*noAudio
		case "headless":
			cfg.Headless = *headless
		case "log":
			cfg.LogPath = *logPath
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatalf("fatal: %v", err)
	}

	if *printConfig {
		out, err := cfg.Marshal()
		if err != nil {
			log.Fatalf("fatal: %v", err)
		}
		os.Stdout.Write(out)
		return
	}

	closeLog, err := redirectLog(cfg)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
	defer closeLog()

	if err := run(cfg); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

// redirectLog keeps log lines off the terminal UI.
func redirectLog(cfg config.Config) (func(), error) {
	if cfg.LogPath != "" {
		f, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log: %w", err)
		}
		log.SetOutput(f)
		return func() { f.Close() }, nil
	}
	if !cfg.Headless {
		log.SetOutput(io.Discard)
	}
	return func() {}, nil
}

func run(cfg config.Config) error {
	variant, err := engine.VariantByName(cfg.Variant)
	if err != nil {
		return err
	}
	if cfg.Engine.SpawnMin > 0 {
		variant.SpawnMin = cfg.Engine.SpawnMin
	}
	if cfg.Engine.SpawnMax > 0 {
		variant.SpawnMax = cfg.Engine.SpawnMax
	}
	if cfg.Engine.MaxParticles > 0 {
		variant.MaxParticles = cfg.Engine.MaxParticles
	}

	// Preferences and session history
	var store *storage.Store
	if cfg.Storage.Path != "" {
		store, err = storage.Open(cfg.Storage.Path)
		if err != nil {
			log.Printf("storage unavailable, continuing without: %v", err)
		} else {
			defer store.Close()
		}
	}

	// Audio
	sound := audio.NewManager()
	if cfg.Audio.Enabled {
		if err := sound.Initialize(); err != nil {
			log.Printf("audio unavailable, continuing silent: %v", err)
		}
		defer sound.Close()
	}
	muted, volume := cfg.Audio.Muted, cfg.Audio.Volume
	if store != nil {
		if _, err := store.GetPref(prefMuted, &muted); err != nil {
			log.Printf("read pref %s: %v", prefMuted, err)
		}
		if _, err := store.GetPref(prefVolume, &volume); err != nil {
			log.Printf("read pref %s: %v", prefVolume, err)
		}
	}
	sound.SetVolume(volume)
	sound.SetMuted(muted)

	// Render sink and keyboard
	commands := make(chan command, 8)
	var sink render.Sink = render.Nop{}
	var term *render.Terminal
	if !cfg.Headless {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("open terminal: %w", err)
		}
		if err := screen.Init(); err != nil {
			return fmt.Errorf("init terminal: %w", err)
		}
		defer screen.Fini()
		term = render.NewTerminal(screen, "Nightfall Candle ("+variant.Name+")")
		term.SetNote(noteFor(muted))
		sink = term
		go readKeys(screen, term, commands)
	}

	seed := cfg.Engine.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	eng := engine.New(engine.Options{
		Sink:          sink,
		Audio:         sound,
		Variant:       variant,
		FrameInterval: cfg.Engine.FrameInterval,
		SmokeDelay:    cfg.Engine.SmokeDelay,
		SafetyTimeout: cfg.Engine.SafetyTimeout,
		EventBuffer:   cfg.Engine.EventBuffer,
		Seed:          seed,
	})
	defer eng.Destroy()

	// GPIO buttons
	var buttons gpio.Reader
	var pollC <-chan time.Time
	if cfg.GPIO.Enabled {
		r, err := gpio.NewRealReader(gpio.Pins{Start: cfg.GPIO.PinStart, Pause: cfg.GPIO.PinPause, Reset: cfg.GPIO.PinReset})
		if err != nil {
			return fmt.Errorf("init gpio: %w", err)
		}
		defer r.Close()
		buttons = r
		ticker := time.NewTicker(cfg.GPIO.Poll)
		defer ticker.Stop()
		pollC = ticker.C
	}

	// Initialize MQTT
	publisher := mqtt.NewRealPublisher(cfg.MQTT.Broker)
	defer publisher.Close()

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), status.Config{
		Variant:     variant.Name,
		HeartbeatMs: cfg.MQTT.Heartbeat.Milliseconds(),
		PollMs:      cfg.GPIO.Poll.Milliseconds(),
		DebounceMs:  cfg.GPIO.Debounce.Milliseconds(),
		Broker:      cfg.MQTT.Broker,
		HTTPAddr:    cfg.HTTP.Addr,
		GPIO:        cfg.GPIO.Enabled,
		Audio:       cfg.Audio.Enabled,
	})
	tracker.SetMuted(muted)
	if net := readNetworkInfo(); net != nil {
		tracker.SetNetwork(net)
	}

	if cfg.Duration > 0 {
		eng.Configure(cfg.Duration)
	}
	tracker.Update(eng.Snapshot())

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

	// Start HTTP status server
	if cfg.HTTP.Addr != "" {
		gen := titlegen.New(titlegen.Config{
			Endpoint: cfg.TitleGen.Endpoint,
			Model:    cfg.TitleGen.Model,
			APIKey:   os.Getenv(cfg.TitleGen.APIKeyEnv),
			Timeout:  cfg.TitleGen.Timeout,
		})
		srv := web.New(cfg.HTTP.Addr, tracker, web.APIs{
			GenerateTitle:    titlegen.Handler(gen),
			GenerateStitched: stitch.Handler(),
		})
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.HTTP.Addr)
	}

	var beat <-chan time.Time
	if cfg.MQTT.Heartbeat > 0 {
		ticker := time.NewTicker(cfg.MQTT.Heartbeat)
		defer ticker.Stop()
		beat = ticker.C
	}
	refresh := time.NewTicker(time.Second)
	defer refresh.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	log.Printf("started: variant=%s duration=%v broker=%s heartbeat=%v gpio=%v",
		variant.Name, cfg.Duration, cfg.MQTT.Broker, cfg.MQTT.Heartbeat, cfg.GPIO.Enabled)

	l := &loop{
		engine:     eng,
		publisher:  publisher,
		mqttStatus: publisher,
		tracker:    tracker,
		sessions:   storage.NewSessionLog(variant.Name),
		sound:      sound,
		buttons:    buttons,
		debouncer:  logic.NewButtonDebouncer(cfg.GPIO.Debounce),
		now:        time.Now,
	}
	if store != nil {
		l.store = store
	}
	if term != nil {
		l.note = term.SetNote
	}
	return l.run(sigCh, commands, pollC, beat, refresh.C)
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
