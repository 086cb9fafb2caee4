package collector

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

var sysfsRoot = "/sys"

// ErrNoBattery is returned when no battery power supply is present.
var ErrNoBattery = errors.New("no battery found")

// SysfsReader reads battery state from /sys/class/power_supply/BAT*/uevent.
type SysfsReader struct{}

// NewSysfsReader creates a reader backed by the kernel power_supply class.
func NewSysfsReader() *SysfsReader {
	return &SysfsReader{}
}

// Read returns the current state of the first battery.
func (r *SysfsReader) Read() (PowerSample, error) {
	matches, err := filepath.Glob(filepath.Join(sysfsRoot, "class/power_supply/BAT*"))
	if err != nil {
		return PowerSample{}, fmt.Errorf("glob battery: %w", err)
	}
	if len(matches) == 0 {
		return PowerSample{}, ErrNoBattery
	}

	data, err := os.ReadFile(filepath.Join(matches[0], "uevent"))
	if err != nil {
		return PowerSample{}, fmt.Errorf("read uevent: %w", err)
	}

	props := parseUevent(string(data))
	charge, err := chargeFraction(props)
	if err != nil {
		return PowerSample{}, err
	}

	s := PowerSample{
		Timestamp:      time.Now().Unix(),
		ChargeFraction: charge,
		Status:         ParseStatus(props["POWER_SUPPLY_STATUS"]),
		ACPlugged:      ACOnline(),
	}

	// Some firmware reports "Discharging" at full capacity while on AC power.
	if s.Status == StatusDischarging && s.ChargeFraction >= 1 && s.ACPlugged {
		s.Status = StatusFull
	}

	return s, nil
}

// chargeFraction prefers POWER_SUPPLY_CAPACITY and falls back to the
// charge_now/charge_full or energy_now/energy_full pairs.
func chargeFraction(props map[string]string) (float64, error) {
	if v, ok := props["POWER_SUPPLY_CAPACITY"]; ok {
		pct, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parse capacity %q: %w", v, err)
		}
		return clampFraction(float64(pct) / 100), nil
	}

	for _, pair := range [][2]string{
		{"POWER_SUPPLY_CHARGE_NOW", "POWER_SUPPLY_CHARGE_FULL"},
		{"POWER_SUPPLY_ENERGY_NOW", "POWER_SUPPLY_ENERGY_FULL"},
	} {
		now, errNow := strconv.ParseInt(props[pair[0]], 10, 64)
		full, errFull := strconv.ParseInt(props[pair[1]], 10, 64)
		if errNow == nil && errFull == nil && full > 0 {
			return clampFraction(float64(now) / float64(full)), nil
		}
	}

	return 0, fmt.Errorf("no charge level reported")
}

// ACOnline reports whether any AC adapter is online. A system without
// adapter entries is treated as unplugged.
func ACOnline() bool {
	for _, pattern := range []string{"AC*", "ACAD*", "ADP*"} {
		matches, err := filepath.Glob(filepath.Join(sysfsRoot, "class/power_supply", pattern, "online"))
		if err != nil {
			continue
		}
		for _, path := range matches {
			data, err := os.ReadFile(path)
			if err == nil && strings.TrimSpace(string(data)) == "1" {
				return true
			}
		}
	}
	return false
}

func parseUevent(data string) map[string]string {
	props := make(map[string]string)
	for _, line := range strings.Split(data, "\n") {
		if k, v, ok := strings.Cut(line, "="); ok {
			props[k] = v
		}
	}
	return props
}
