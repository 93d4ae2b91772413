package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Playback PlaybackConfig `koanf:"playback"`
	Engine   EngineConfig   `koanf:"engine"`
	Log      LogConfig      `koanf:"log"`
	MPRIS    MPRISConfig    `koanf:"mpris"`
	Notify   NotifyConfig   `koanf:"notify"`
}

// PlaybackConfig holds the playback service settings.
type PlaybackConfig struct {
	ErrorPolicy string        `koanf:"error_policy"` // "poison" or "per_call" (default: "poison")
	EventBuffer int           `koanf:"event_buffer"` // subscriber channel size (default: 16)
	OpTimeout   time.Duration `koanf:"op_timeout"`   // wait limit for UI and MPRIS commands (default: 10s)
	Resume      *bool         `koanf:"resume"`       // restore last position on open (default: true)
}

// EngineConfig holds the audio engine settings.
type EngineConfig struct {
	Buffer     time.Duration `koanf:"buffer"`      // speaker buffer (default: 100ms)
	SeekSettle time.Duration `koanf:"seek_settle"` // muted pause after a seek (default: 100ms)
	Volume     *float64      `koanf:"volume"`      // initial volume 0-1 when none was saved (default: 1)
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Enabled bool   `koanf:"enabled"`
	Level   string `koanf:"level"`  // logrus level name (default: "info")
	Format  string `koanf:"format"` // "text" or "json" (default: "text")
	File    string `koanf:"file"`   // empty means the state directory
}

// MPRISConfig holds desktop media control settings.
type MPRISConfig struct {
	Enabled *bool `koanf:"enabled"` // default: true
}

// NotifyConfig holds desktop notification settings.
type NotifyConfig struct {
	Errors *bool `koanf:"errors"` // notify on fatal playback errors (default: true)
}

const (
	defaultEventBuffer = 16
	defaultOpTimeout   = 10 * time.Second
	defaultBuffer      = 100 * time.Millisecond
	defaultSeekSettle  = 100 * time.Millisecond
)

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	configPaths := getConfigPaths()

	for _, path := range configPaths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	if cfg.Log.File != "" {
		cfg.Log.File = expandPath(cfg.Log.File)
	}
	cfg.Playback.ErrorPolicy = strings.ToLower(strings.TrimSpace(cfg.Playback.ErrorPolicy))

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/playctl/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "playctl", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// GetPlaybackConfig returns the playback configuration with defaults applied.
func (c *Config) GetPlaybackConfig() PlaybackConfig {
	cfg := c.Playback

	if cfg.ErrorPolicy == "" {
		cfg.ErrorPolicy = "poison"
	}
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = defaultEventBuffer
	}
	if cfg.OpTimeout <= 0 {
		cfg.OpTimeout = defaultOpTimeout
	}
	if cfg.Resume == nil {
		cfg.Resume = boolPtr(true)
	}

	return cfg
}

// ResumeEnabled returns true if positions are saved and restored.
func (c *Config) ResumeEnabled() bool {
	return *c.GetPlaybackConfig().Resume
}

// GetEngineConfig returns the engine configuration with defaults applied.
func (c *Config) GetEngineConfig() EngineConfig {
	cfg := c.Engine

	if cfg.Buffer <= 0 {
		cfg.Buffer = defaultBuffer
	}
	if cfg.SeekSettle < 0 {
		cfg.SeekSettle = 0
	} else if cfg.SeekSettle == 0 {
		cfg.SeekSettle = defaultSeekSettle
	}
	if cfg.Volume == nil || *cfg.Volume < 0 || *cfg.Volume > 1 {
		cfg.Volume = float64Ptr(1)
	}

	return cfg
}

// GetLogConfig returns the log configuration with defaults applied.
func (c *Config) GetLogConfig() LogConfig {
	cfg := c.Log

	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if cfg.Format != "json" {
		cfg.Format = "text"
	}

	return cfg
}

// MPRISEnabled returns true unless media controls were turned off.
func (c *Config) MPRISEnabled() bool {
	return c.MPRIS.Enabled == nil || *c.MPRIS.Enabled
}

// NotifyErrors returns true unless error notifications were turned off.
func (c *Config) NotifyErrors() bool {
	return c.Notify.Errors == nil || *c.Notify.Errors
}

func boolPtr(b bool) *bool {
	return &b
}

func float64Ptr(f float64) *float64 {
	return &f
}
