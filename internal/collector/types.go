package collector

import "fmt"

// Status is the battery state reported by the power supply.
type Status int

const (
	StatusUnknown Status = iota
	StatusFull
	StatusCharging
	StatusDischarging
	StatusEmpty
)

var statusNames = map[Status]string{
	StatusUnknown:     "Unknown",
	StatusFull:        "Full",
	StatusCharging:    "Charging",
	StatusDischarging: "Discharging",
	StatusEmpty:       "Empty",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// ParseStatus maps a POWER_SUPPLY_STATUS value to a Status.
// Anything outside the four known states (e.g. "Not charging") is Unknown.
func ParseStatus(s string) Status {
	switch s {
	case "Full":
		return StatusFull
	case "Charging":
		return StatusCharging
	case "Discharging":
		return StatusDischarging
	case "Empty":
		return StatusEmpty
	}
	return StatusUnknown
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	*s = ParseStatus(string(text))
	return nil
}

// PowerSample is a snapshot of the notebook's power state.
type PowerSample struct {
	Timestamp      int64   `json:"timestamp"`
	ChargeFraction float64 `json:"charge_fraction"`
	Status         Status  `json:"status"`
	ACPlugged      bool    `json:"ac_plugged"`
}

// ChargePct returns the charge level as a percentage.
func (s PowerSample) ChargePct() float64 {
	return s.ChargeFraction * 100
}

// UnknownSample is the state assumed before anything has been read:
// unknown status, adapter unplugged.
func UnknownSample() PowerSample {
	return PowerSample{Status: StatusUnknown}
}

// Reader produces a fresh PowerSample on each call.
type Reader interface {
	Read() (PowerSample, error)
}

func clampFraction(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}
