package collector

import (
	"log/slog"

	"github.com/godbus/dbus/v5"
)

const prepareForSleep = "org.freedesktop.login1.Manager.PrepareForSleep"

// SleepMonitor listens for systemd-logind PrepareForSleep signals and
// notifies on resume, so the daemon can sample right away instead of
// waiting for the next poll.
type SleepMonitor struct {
	conn    *dbus.Conn
	signals chan *dbus.Signal
	done    chan struct{}
	wake    chan struct{}
	log     *slog.Logger
}

// NewSleepMonitor creates a new sleep monitor connected to the system bus.
func NewSleepMonitor(logger *slog.Logger) (*SleepMonitor, error) {
	conn, err := dbus.SystemBus()
	if err != nil {
		return nil, err
	}

	err = conn.AddMatchSignal(
		dbus.WithMatchInterface("org.freedesktop.login1.Manager"),
		dbus.WithMatchMember("PrepareForSleep"),
	)
	if err != nil {
		return nil, err
	}

	m := &SleepMonitor{
		conn:    conn,
		signals: make(chan *dbus.Signal, 16),
		done:    make(chan struct{}),
		wake:    make(chan struct{}, 1),
		log:     logger,
	}
	conn.Signal(m.signals)
	go m.listen(m.signals)
	return m, nil
}

// Wake returns a channel that receives a value each time the system resumes.
func (m *SleepMonitor) Wake() <-chan struct{} {
	return m.wake
}

// Close stops the monitor.
func (m *SleepMonitor) Close() {
	close(m.done)
	m.conn.RemoveSignal(m.signals)
}

// listen returns on Close or when the bus connection closes the channel.
func (m *SleepMonitor) listen(ch <-chan *dbus.Signal) {
	for {
		select {
		case sig, ok := <-ch:
			if !ok {
				m.log.Warn("system bus closed, sleep monitor stopped")
				return
			}
			m.handle(sig)
		case <-m.done:
			return
		}
	}
}

func (m *SleepMonitor) handle(sig *dbus.Signal) {
	if sig == nil || sig.Name != prepareForSleep || len(sig.Body) < 1 {
		return
	}
	going, ok := sig.Body[0].(bool)
	if !ok {
		return
	}
	if going {
		m.log.Info("system going to sleep")
		return
	}
	m.log.Info("system woke up")
	select {
	case m.wake <- struct{}{}:
	default:
	}
}
