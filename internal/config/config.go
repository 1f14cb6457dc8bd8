package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port              string `yaml:"port" env:"HOLO_PORT"`
		// SnapshotLimit caps the multipart upload size in bytes.
		SnapshotLimit     int64  `yaml:"snapshotLimit" env:"HOLO_SNAPSHOT_LIMIT"`
		// SnapshotMaxPixels caps width*height of each uploaded image.
		SnapshotMaxPixels int    `yaml:"snapshotMaxPixels" env:"HOLO_SNAPSHOT_MAX_PIXELS"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr" env:"HOLO_REDIS_ADDR"`
		Password string `yaml:"password" env:"HOLO_REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"HOLO_REDIS_DB"`
		TTL      string `yaml:"ttl" env:"HOLO_REDIS_TTL"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url" env:"HOLO_POSTGRES_URL"`
	} `yaml:"postgres"`
	Catalog struct {
		ID   string `yaml:"id" env:"HOLO_CATALOG_ID"`
		File string `yaml:"file" env:"HOLO_CATALOG_FILE"`
		TTL  string `yaml:"ttl" env:"HOLO_CATALOG_TTL"`
	} `yaml:"catalog"`
	Guide struct {
		TickInterval    string `yaml:"tickInterval" env:"HOLO_TICK_INTERVAL"`
		FeedbackDelay   string `yaml:"feedbackDelay" env:"HOLO_FEEDBACK_DELAY"`
		HotspotDuration string `yaml:"hotspotDuration" env:"HOLO_HOTSPOT_DURATION"`
		VoiceEnabled    bool   `yaml:"voiceEnabled" env:"HOLO_VOICE_ENABLED"`
	} `yaml:"guide"`
	Audio struct {
		Enabled bool `yaml:"enabled" env:"HOLO_AUDIO_ENABLED"`
	} `yaml:"audio"`
	Log struct {
		Level  string `yaml:"level" env:"HOLO_LOG_LEVEL"`
		Format string `yaml:"format" env:"HOLO_LOG_FORMAT"`
		File   string `yaml:"file" env:"HOLO_LOG_FILE"`
	} `yaml:"log"`
}

// Load reads YAML config from path, then applies HOLO_* environment
// overrides. A missing file is not an error: env and defaults still apply.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
