package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nightfall.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	def := Default()
	if cfg.Variant != def.Variant || cfg.MQTT.Broker != def.MQTT.Broker || cfg.GPIO.PinStart != def.GPIO.PinStart {
		t.Errorf("got %+v, want defaults", cfg)
	}

	cfg, err = Load("")
	if err != nil || cfg.HTTP.Addr != ":8080" {
		t.Errorf("Load(\"\"): got %+v, %v", cfg.HTTP, err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
variant: focus
duration: 25m
engine:
  spawn_min: 300ms
  spawn_max: 900ms
mqtt:
  broker: tcp://10.0.0.5:1883
gpio:
  enabled: true
  pin_reset: 5
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Variant != "focus" {
		t.Errorf("Variant: got %q, want focus", cfg.Variant)
	}
	if cfg.Duration != 25*time.Minute {
		t.Errorf("Duration: got %v, want 25m", cfg.Duration)
	}
	if cfg.Engine.SpawnMin != 300*time.Millisecond || cfg.Engine.SpawnMax != 900*time.Millisecond {
		t.Errorf("spawn range: got %v..%v", cfg.Engine.SpawnMin, cfg.Engine.SpawnMax)
	}
	if cfg.MQTT.Broker != "tcp://10.0.0.5:1883" {
		t.Errorf("Broker: got %q", cfg.MQTT.Broker)
	}
	if cfg.MQTT.Heartbeat != 15*time.Minute {
		t.Errorf("Heartbeat should keep its default: got %v", cfg.MQTT.Heartbeat)
	}
	if !cfg.GPIO.Enabled || cfg.GPIO.PinReset != 5 || cfg.GPIO.PinStart != 17 {
		t.Errorf("GPIO: got %+v", cfg.GPIO)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"negative duration", "duration: -5s\n", "duration must not be negative"},
		{"inverted spawn range", "engine:\n  spawn_min: 2s\n  spawn_max: 1s\n", "below spawn_min"},
		{"unknown variant", "variant: lantern\n", "unknown variant"},
		{"volume", "audio:\n  volume: 1.5\n", "audio.volume"},
		{"syntax", "variant: [\n", "parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.body))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error: got %q, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestMarshalRoundTripsDurations(t *testing.T) {
	cfg := Default()
	cfg.Duration = 90 * time.Second
	data, err := cfg.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(data), "duration: 1m30s") {
		t.Errorf("durations should render as strings:\n%s", data)
	}
}
