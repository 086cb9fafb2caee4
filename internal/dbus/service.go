package dbus

import (
	"encoding/json"
	"fmt"

	godbus "github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"

	"github.com/cptspacemanspiff/gamma-daemon/internal/config"
	"github.com/cptspacemanspiff/gamma-daemon/internal/daemon"
	"github.com/cptspacemanspiff/gamma-daemon/internal/storage"
)

const (
	BusName   = "org.gnome.GammaDaemon"
	ObjPath   = "/org/gnome/GammaDaemon"
	IfaceName = "org.gnome.GammaDaemon"

	maxRangeSecs = 86400 * 366
)

const introspectXML = `
<node>
  <interface name="` + IfaceName + `">
    <method name="GetCurrentState">
      <arg direction="out" type="s" name="json"/>
    </method>
    <method name="GetHistory">
      <arg direction="in" type="x" name="from_epoch"/>
      <arg direction="in" type="x" name="to_epoch"/>
      <arg direction="out" type="s" name="json"/>
    </method>
  </interface>
` + introspect.IntrospectDataString + `
</node>`

// CurrentState is the GetCurrentState payload.
type CurrentState struct {
	Display    string                  `json:"display"`
	Brightness config.BrightnessConfig `json:"brightness"`
	Latest     *daemon.Decision        `json:"latest"`
}

// History is the GetHistory payload.
type History struct {
	Decisions []daemon.Decision `json:"decisions"`
}

// Service exposes the daemon's decision history over D-Bus.
type Service struct {
	store      *storage.DB
	display    string
	brightness config.BrightnessConfig
}

// NewService creates a new D-Bus service.
func NewService(store *storage.DB, display string, brightness config.BrightnessConfig) *Service {
	return &Service{store: store, display: display, brightness: brightness}
}

// Export registers the service on the session bus.
func (s *Service) Export() (*godbus.Conn, error) {
	conn, err := godbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}

	if err := conn.Export(s, ObjPath, IfaceName); err != nil {
		return nil, fmt.Errorf("export service: %w", err)
	}
	if err := conn.Export(introspect.Introspectable(introspectXML), ObjPath, "org.freedesktop.DBus.Introspectable"); err != nil {
		return nil, fmt.Errorf("export introspection: %w", err)
	}

	reply, err := conn.RequestName(BusName, godbus.NameFlagDoNotQueue)
	if err != nil {
		return nil, fmt.Errorf("request name: %w", err)
	}
	if reply != godbus.RequestNameReplyPrimaryOwner {
		return nil, fmt.Errorf("name %s already taken", BusName)
	}

	return conn, nil
}

// GetCurrentState returns the latest decision and the active brightness table as JSON.
func (s *Service) GetCurrentState() (string, *godbus.Error) {
	latest, err := s.store.LatestDecision()
	if err != nil {
		return "", godbus.MakeFailedError(err)
	}
	return marshal(CurrentState{Display: s.display, Brightness: s.brightness, Latest: latest})
}

// GetHistory returns decisions in a time range as JSON.
func (s *Service) GetHistory(fromEpoch, toEpoch int64) (string, *godbus.Error) {
	if err := validateRange(fromEpoch, toEpoch); err != nil {
		return "", godbus.MakeFailedError(err)
	}
	decisions, err := s.store.DecisionsInRange(fromEpoch, toEpoch)
	if err != nil {
		return "", godbus.MakeFailedError(err)
	}
	if decisions == nil {
		decisions = []daemon.Decision{}
	}
	return marshal(History{Decisions: decisions})
}

func validateRange(from, to int64) error {
	if from < 0 {
		return fmt.Errorf("from_epoch must not be negative, got %d", from)
	}
	if to < from {
		return fmt.Errorf("to_epoch %d is before from_epoch %d", to, from)
	}
	if to-from > maxRangeSecs {
		return fmt.Errorf("range of %d seconds exceeds %d", to-from, maxRangeSecs)
	}
	return nil
}

func marshal(v any) (string, *godbus.Error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", godbus.MakeFailedError(err)
	}
	return string(data), nil
}
