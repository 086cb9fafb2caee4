package config

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	maxBrightnessValue      = 1000
	maxLowThresholdPercent  = 100
	minIntervalSeconds      = 1
	maxIntervalSeconds      = 3600
	minRetentionDays        = 1
	maxRetentionDays        = 3650
	minCleanupIntervalHours = 1
	maxCleanupIntervalHours = 720
)

const (
	SinkSysfs  = "sysfs"
	SinkLogind = "logind"

	ReaderSysfs   = "sysfs"
	ReaderLibrary = "battery"
)

type Config struct {
	Brightness BrightnessConfig `toml:"brightness" json:"brightness"`
	Daemon     DaemonConfig     `toml:"daemon" json:"daemon"`
	Storage    StorageConfig    `toml:"storage" json:"storage"`
	MQTT       MQTTConfig       `toml:"mqtt" json:"mqtt"`
}

// BrightnessConfig maps each power scenario to a backlight value.
type BrightnessConfig struct {
	Full                uint32 `toml:"full" json:"full"`
	Low                 uint32 `toml:"low" json:"low"`
	LowThresholdPercent uint32 `toml:"low_threshold_percent" json:"low_threshold_percent"`
	Charging            uint32 `toml:"charging" json:"charging"`
	Discharging         uint32 `toml:"discharging" json:"discharging"`
	Unknown             uint32 `toml:"unknown" json:"unknown"`
	ACIn                uint32 `toml:"ac_in" json:"ac_in"`
}

type DaemonConfig struct {
	IntervalSeconds int    `toml:"interval_seconds" json:"interval_seconds"`
	Display         string `toml:"display" json:"display"`
	Sink            string `toml:"sink" json:"sink"`
	Reader          string `toml:"reader" json:"reader"`
}

type StorageConfig struct {
	Enabled              bool   `toml:"enabled" json:"enabled"`
	DBPath               string `toml:"db_path" json:"db_path"`
	RetentionDays        int    `toml:"retention_days" json:"retention_days"`
	CleanupIntervalHours int    `toml:"cleanup_interval_hours" json:"cleanup_interval_hours"`
}

type MQTTConfig struct {
	Enabled  bool   `toml:"enabled" json:"enabled"`
	Broker   string `toml:"broker" json:"broker"`
	Topic    string `toml:"topic" json:"topic"`
	ClientID string `toml:"client_id" json:"client_id"`
}

func DefaultConfig() *Config {
	return &Config{
		Brightness: BrightnessConfig{
			Full:                225,
			Low:                 100,
			LowThresholdPercent: 25,
			Charging:            255,
			Discharging:         155,
			Unknown:             155,
			ACIn:                225,
		},
		Daemon: DaemonConfig{
			IntervalSeconds: 1,
			Sink:            SinkSysfs,
			Reader:          ReaderSysfs,
		},
		Storage: StorageConfig{
			Enabled:              true,
			DBPath:               DefaultDBPath(),
			RetentionDays:        30,
			CleanupIntervalHours: 24,
		},
		MQTT: MQTTConfig{
			Broker:   "tcp://localhost:1883",
			Topic:    "gamma-daemon/brightness",
			ClientID: "gamma-daemon",
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/GammaDaemon/conf.toml.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join("/etc", "GammaDaemon", "conf.toml")
	}
	return filepath.Join(dir, "GammaDaemon", "conf.toml")
}

// DefaultDBPath returns $XDG_STATE_HOME/GammaDaemon/history.db.
func DefaultDBPath() string {
	if dir := os.Getenv("XDG_STATE_HOME"); filepath.IsAbs(dir) {
		return filepath.Join(dir, "GammaDaemon", "history.db")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "/var/lib/gamma-daemon/history.db"
	}
	return filepath.Join(home, ".local", "state", "GammaDaemon", "history.db")
}

func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return NormalizeAndValidate(cfg)
}

// LoadOrDefault never fails: a missing or invalid file yields DefaultConfig
// and a warning.
func LoadOrDefault(path string, logger *slog.Logger) *Config {
	cfg, err := Load(path)
	if err == nil {
		return cfg
	}
	if os.IsNotExist(err) {
		logger.Warn("config file not found, using defaults", "path", path)
	} else {
		logger.Warn("config file invalid, using defaults", "path", path, "err", err)
	}
	return DefaultConfig()
}

func NormalizeAndValidate(cfg *Config) (*Config, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}

	sanitized := *cfg

	b := sanitized.Brightness
	for _, v := range []struct {
		name  string
		value uint32
	}{
		{"brightness.full", b.Full},
		{"brightness.low", b.Low},
		{"brightness.charging", b.Charging},
		{"brightness.discharging", b.Discharging},
		{"brightness.unknown", b.Unknown},
		{"brightness.ac_in", b.ACIn},
	} {
		if err := validateRange(v.name, int(v.value), 0, maxBrightnessValue); err != nil {
			return nil, err
		}
	}
	if err := validateRange("brightness.low_threshold_percent", int(b.LowThresholdPercent), 0, maxLowThresholdPercent); err != nil {
		return nil, err
	}

	if err := validateRange("daemon.interval_seconds", sanitized.Daemon.IntervalSeconds, minIntervalSeconds, maxIntervalSeconds); err != nil {
		return nil, err
	}
	sanitized.Daemon.Display = strings.TrimSpace(sanitized.Daemon.Display)
	sanitized.Daemon.Sink = strings.ToLower(strings.TrimSpace(sanitized.Daemon.Sink))
	if err := validateOneOf("daemon.sink", sanitized.Daemon.Sink, SinkSysfs, SinkLogind); err != nil {
		return nil, err
	}
	sanitized.Daemon.Reader = strings.ToLower(strings.TrimSpace(sanitized.Daemon.Reader))
	if err := validateOneOf("daemon.reader", sanitized.Daemon.Reader, ReaderSysfs, ReaderLibrary); err != nil {
		return nil, err
	}

	if sanitized.Storage.Enabled {
		var err error
		sanitized.Storage.DBPath, err = sanitizePath("storage.db_path", sanitized.Storage.DBPath)
		if err != nil {
			return nil, err
		}
		if err := validateRange("storage.retention_days", sanitized.Storage.RetentionDays, minRetentionDays, maxRetentionDays); err != nil {
			return nil, err
		}
		if err := validateRange("storage.cleanup_interval_hours", sanitized.Storage.CleanupIntervalHours, minCleanupIntervalHours, maxCleanupIntervalHours); err != nil {
			return nil, err
		}
	}

	if sanitized.MQTT.Enabled {
		sanitized.MQTT.Broker = strings.TrimSpace(sanitized.MQTT.Broker)
		if sanitized.MQTT.Broker == "" {
			return nil, fmt.Errorf("mqtt.broker must not be empty")
		}
		sanitized.MQTT.Topic = strings.TrimSpace(sanitized.MQTT.Topic)
		if sanitized.MQTT.Topic == "" {
			return nil, fmt.Errorf("mqtt.topic must not be empty")
		}
	}

	return &sanitized, nil
}

func Save(path string, cfg *Config) error {
	trimmedPath := strings.TrimSpace(path)
	if trimmedPath == "" {
		return fmt.Errorf("config path must not be empty")
	}

	sanitized, err := NormalizeAndValidate(cfg)
	if err != nil {
		return err
	}

	var data bytes.Buffer
	if err := toml.NewEncoder(&data).Encode(sanitized); err != nil {
		return fmt.Errorf("encode config TOML: %w", err)
	}

	dir := filepath.Dir(trimmedPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, ".conf-*.toml")
	if err != nil {
		return fmt.Errorf("create temp config file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		if tmpPath != "" {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data.Bytes()); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("write temp config file: %w", err)
	}
	if err := tmpFile.Chmod(0o644); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("chmod temp config file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp config file: %w", err)
	}
	if err := os.Rename(tmpPath, trimmedPath); err != nil {
		return fmt.Errorf("replace config file: %w", err)
	}
	tmpPath = ""

	return nil
}

func sanitizePath(name, value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", fmt.Errorf("%s must not be empty", name)
	}
	cleaned := filepath.Clean(trimmed)
	if !filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("%s must be an absolute path, got %q", name, value)
	}
	return cleaned, nil
}

func validateRange(name string, value, min, max int) error {
	if value < min || value > max {
		return fmt.Errorf("%s must be between %d and %d, got %d", name, min, max, value)
	}

	return nil
}

func validateOneOf(name, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("%s must be one of %s, got %q", name, strings.Join(allowed, ", "), value)
}
