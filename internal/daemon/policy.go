package daemon

import (
	"github.com/cptspacemanspiff/gamma-daemon/internal/collector"
	"github.com/cptspacemanspiff/gamma-daemon/internal/config"
)

// EmptyBrightness is used for an empty battery regardless of configuration.
const EmptyBrightness uint32 = 10

// Evaluate maps a power sample to the brightness configured for it.
//
//	Full                 -> full
//	Charging             -> charging
//	Empty                -> EmptyBrightness
//	Unknown on AC        -> ac_in
//	Unknown on battery   -> low or discharging
//	Discharging          -> low or discharging, even while plugged in
func Evaluate(s collector.PowerSample, cfg config.BrightnessConfig) uint32 {
	switch s.Status {
	case collector.StatusFull:
		return cfg.Full
	case collector.StatusCharging:
		return cfg.Charging
	case collector.StatusEmpty:
		return EmptyBrightness
	case collector.StatusUnknown:
		if s.ACPlugged {
			return cfg.ACIn
		}
	}
	return lowOrDischarging(s, cfg)
}

// lowOrDischarging picks low at or below the threshold, discharging above it.
func lowOrDischarging(s collector.PowerSample, cfg config.BrightnessConfig) uint32 {
	if s.ChargeFraction <= float64(cfg.LowThresholdPercent)/100.0 {
		return cfg.Low
	}
	return cfg.Discharging
}
