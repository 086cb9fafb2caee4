// Package backlight enumerates display backlights and sets their brightness.
package backlight

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

var sysfsRoot = "/sys"

// Device is a backlight under /sys/class/backlight.
type Device struct {
	Name          string `json:"name"`
	Path          string `json:"path"`
	MaxBrightness int64  `json:"max_brightness"`
}

// Enumerate lists all backlight devices in name order.
func Enumerate() ([]Device, error) {
	matches, err := filepath.Glob(filepath.Join(sysfsRoot, "class/backlight/*"))
	if err != nil {
		return nil, fmt.Errorf("glob backlight: %w", err)
	}

	devices := make([]Device, 0, len(matches))
	for _, dir := range matches {
		maxBrightness, err := readIntFile(filepath.Join(dir, "max_brightness"))
		if err != nil {
			return nil, fmt.Errorf("read max_brightness of %s: %w", filepath.Base(dir), err)
		}
		devices = append(devices, Device{
			Name:          filepath.Base(dir),
			Path:          dir,
			MaxBrightness: maxBrightness,
		})
	}
	return devices, nil
}

// Find returns the named device, or the first one when name is empty.
func Find(name string) (Device, error) {
	devices, err := Enumerate()
	if err != nil {
		return Device{}, err
	}
	if len(devices) == 0 {
		return Device{}, fmt.Errorf("no backlight found")
	}
	if name == "" {
		return devices[0], nil
	}
	for _, d := range devices {
		if d.Name == name {
			return d, nil
		}
	}
	return Device{}, fmt.Errorf("backlight %q not found", name)
}

// Brightness reads the device's current brightness.
func (d Device) Brightness() (int64, error) {
	v, err := readIntFile(filepath.Join(d.Path, "brightness"))
	if err != nil {
		return 0, fmt.Errorf("read brightness: %w", err)
	}
	return v, nil
}

// Clamp limits value to what the device accepts.
func (d Device) Clamp(value uint32) uint32 {
	if d.MaxBrightness >= 0 && int64(value) > d.MaxBrightness {
		return uint32(d.MaxBrightness)
	}
	return value
}

func readIntFile(path string) (int64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
}
