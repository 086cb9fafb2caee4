package backlight

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/godbus/dbus/v5"
)

// SysfsSink writes brightness straight to the device's sysfs file.
// This needs write access to /sys/class/backlight, usually root or a udev rule.
type SysfsSink struct {
	dev Device
}

func NewSysfsSink(dev Device) *SysfsSink {
	return &SysfsSink{dev: dev}
}

func (s *SysfsSink) Name() string {
	return s.dev.Name
}

// Apply sets the brightness. Writing the current value again is harmless.
func (s *SysfsSink) Apply(value uint32) error {
	v := s.dev.Clamp(value)
	path := filepath.Join(s.dev.Path, "brightness")
	if err := os.WriteFile(path, []byte(strconv.FormatUint(uint64(v), 10)), 0o644); err != nil {
		return fmt.Errorf("write brightness: %w", err)
	}
	return nil
}

const (
	logindDest          = "org.freedesktop.login1"
	logindSessionPath   = "/org/freedesktop/login1/session/auto"
	logindSetBrightness = "org.freedesktop.login1.Session.SetBrightness"
)

type caller interface {
	Call(method string, flags dbus.Flags, args ...interface{}) *dbus.Call
}

// LogindSink asks systemd-logind to set the brightness on behalf of the
// caller's session, which works without root.
type LogindSink struct {
	dev     Device
	session caller
}

// NewLogindSink connects to the system bus.
func NewLogindSink(dev Device) (*LogindSink, error) {
	conn, err := dbus.SystemBus()
	if err != nil {
		return nil, fmt.Errorf("connect system bus: %w", err)
	}
	return &LogindSink{
		dev:     dev,
		session: conn.Object(logindDest, logindSessionPath),
	}, nil
}

func (s *LogindSink) Name() string {
	return s.dev.Name
}

func (s *LogindSink) Apply(value uint32) error {
	v := s.dev.Clamp(value)
	if err := s.session.Call(logindSetBrightness, 0, "backlight", s.dev.Name, v).Err; err != nil {
		return fmt.Errorf("logind SetBrightness: %w", err)
	}
	return nil
}
