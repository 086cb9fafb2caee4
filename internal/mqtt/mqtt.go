// Package mqtt publishes brightness decisions to an MQTT broker.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/cptspacemanspiff/gamma-daemon/internal/daemon"
)

// Publisher publishes brightness decisions to MQTT.
type Publisher interface {
	// Publish sends a decision to the broker.
	// Returns error if publishing fails (should not stop the daemon).
	Publish(d daemon.Decision) error

	// Close disconnects from the broker.
	Close() error
}

// Payload represents the MQTT message payload structure.
type Payload struct {
	Brightness BrightnessPayload `json:"brightness"`
}

// BrightnessPayload contains the decision details.
type BrightnessPayload struct {
	Timestamp string  `json:"timestamp"`
	Value     uint32  `json:"value"`
	Status    string  `json:"status"`
	ACPlugged bool    `json:"ac_plugged"`
	ChargePct float64 `json:"charge_pct"`
	Applied   bool    `json:"applied"`
	Error     string  `json:"error,omitempty"`
}

// FormatPayload creates the JSON payload for a decision.
func FormatPayload(d daemon.Decision) ([]byte, error) {
	payload := Payload{
		Brightness: BrightnessPayload{
			Timestamp: time.Unix(d.Timestamp, 0).UTC().Format(time.RFC3339),
			Value:     d.Value,
			Status:    d.Status.String(),
			ACPlugged: d.ACPlugged,
			ChargePct: d.ChargePct,
			Applied:   d.Applied,
			Error:     d.Error,
		},
	}
	return json.Marshal(payload)
}

// Recorder adapts a Publisher to the loop's recorder hook.
type Recorder struct {
	Publisher
}

// Record publishes the decision.
func (r Recorder) Record(d daemon.Decision) error {
	return r.Publish(d)
}
