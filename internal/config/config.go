// Package config loads the daemon configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full daemon configuration. Command-line flags override
// whatever the file sets.
type Config struct {
	Variant  string        `yaml:"variant"`
	Duration time.Duration `yaml:"duration"`
	Headless bool          `yaml:"headless"`
	LogPath  string        `yaml:"log"`

	Engine   EngineConfig   `yaml:"engine"`
	Audio    AudioConfig    `yaml:"audio"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	HTTP     HTTPConfig     `yaml:"http"`
	GPIO     GPIOConfig     `yaml:"gpio"`
	Storage  StorageConfig  `yaml:"storage"`
	TitleGen TitleGenConfig `yaml:"titlegen"`
}

// EngineConfig tunes the animation. Zero values keep the engine defaults.
type EngineConfig struct {
	FrameInterval time.Duration `yaml:"frame_interval"`
	SmokeDelay    time.Duration `yaml:"smoke_delay"`
	SafetyTimeout time.Duration `yaml:"safety_timeout"`
	EventBuffer   int           `yaml:"event_buffer"`
	SpawnMin      time.Duration `yaml:"spawn_min"`
	SpawnMax      time.Duration `yaml:"spawn_max"`
	MaxParticles  int           `yaml:"max_particles"`
	Seed          uint64        `yaml:"seed"`
}

type AudioConfig struct {
	Enabled bool    `yaml:"enabled"`
	Muted   bool    `yaml:"muted"`
	Volume  float64 `yaml:"volume"`
}

type MQTTConfig struct {
	Broker    string        `yaml:"broker"`
	Heartbeat time.Duration `yaml:"heartbeat"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

type GPIOConfig struct {
	Enabled  bool          `yaml:"enabled"`
	PinStart int           `yaml:"pin_start"`
	PinPause int           `yaml:"pin_pause"`
	PinReset int           `yaml:"pin_reset"`
	Poll     time.Duration `yaml:"poll"`
	Debounce time.Duration `yaml:"debounce"`
}

type StorageConfig struct {
	Path string `yaml:"path"`
}

// TitleGenConfig points the title proxy at the model endpoint. The API key
// is read from the environment variable named by APIKeyEnv.
type TitleGenConfig struct {
	Endpoint  string        `yaml:"endpoint"`
	Model     string        `yaml:"model"`
	APIKeyEnv string        `yaml:"api_key_env"`
	Timeout   time.Duration `yaml:"timeout"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Variant: "candle",
		Audio: AudioConfig{
			Enabled: true,
			Volume:  0.7,
		},
		MQTT: MQTTConfig{
			Broker:    "tcp://localhost:1883",
			Heartbeat: 15 * time.Minute,
		},
		HTTP: HTTPConfig{
			Addr: ":8080",
		},
		GPIO: GPIOConfig{
			PinStart: 17,
			PinPause: 27,
			PinReset: 22,
			Poll:     20 * time.Millisecond,
			Debounce: 50 * time.Millisecond,
		},
		Storage: StorageConfig{
			Path: "nightfall.db",
		},
		TitleGen: TitleGenConfig{
			Endpoint:  "https://generativelanguage.googleapis.com/v1beta/models",
			Model:     "gemini-vision-1",
			APIKeyEnv: "GEMINI_API_KEY",
			Timeout:   30 * time.Second,
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects settings the daemon cannot run with.
func (c Config) Validate() error {
	switch c.Variant {
	case "candle", "focus":
	default:
		return fmt.Errorf("unknown variant %q", c.Variant)
	}
	durations := []struct {
		name string
		d    time.Duration
	}{
		{"duration", c.Duration},
		{"engine.frame_interval", c.Engine.FrameInterval},
		{"engine.smoke_delay", c.Engine.SmokeDelay},
		{"engine.safety_timeout", c.Engine.SafetyTimeout},
		{"engine.spawn_min", c.Engine.SpawnMin},
		{"engine.spawn_max", c.Engine.SpawnMax},
		{"mqtt.heartbeat", c.MQTT.Heartbeat},
		{"gpio.poll", c.GPIO.Poll},
		{"gpio.debounce", c.GPIO.Debounce},
		{"titlegen.timeout", c.TitleGen.Timeout},
	}
	for _, d := range durations {
		if d.d < 0 {
			return fmt.Errorf("%s must not be negative: %v", d.name, d.d)
		}
	}
	if c.Engine.SpawnMin > 0 && c.Engine.SpawnMax > 0 && c.Engine.SpawnMax < c.Engine.SpawnMin {
		return fmt.Errorf("engine.spawn_max %v is below spawn_min %v", c.Engine.SpawnMax, c.Engine.SpawnMin)
	}
	if c.Engine.EventBuffer < 0 || c.Engine.MaxParticles < 0 {
		return errors.New("engine.event_buffer and engine.max_particles must not be negative")
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return fmt.Errorf("audio.volume must be within [0,1]: %v", c.Audio.Volume)
	}
	if c.GPIO.Enabled && c.GPIO.Poll == 0 {
		return errors.New("gpio.poll must be positive when gpio is enabled")
	}
	return nil
}

// Marshal renders the configuration as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
