package collector

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
)

func TestSleepMonitor_Handle(t *testing.T) {
	m := &SleepMonitor{
		wake: make(chan struct{}, 1),
		log:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	m.handle(&dbus.Signal{Name: prepareForSleep, Body: []interface{}{true}})
	select {
	case <-m.wake:
		t.Fatal("wake signalled on sleep")
	default:
	}

	m.handle(&dbus.Signal{Name: "org.freedesktop.login1.Manager.PrepareForShutdown", Body: []interface{}{false}})
	m.handle(&dbus.Signal{Name: prepareForSleep, Body: []interface{}{"bogus"}})
	m.handle(&dbus.Signal{Name: prepareForSleep})
	m.handle(nil)
	select {
	case <-m.wake:
		t.Fatal("wake signalled on unrelated signal")
	default:
	}

	// Two resumes before the loop drains collapse into one notification.
	m.handle(&dbus.Signal{Name: prepareForSleep, Body: []interface{}{false}})
	m.handle(&dbus.Signal{Name: prepareForSleep, Body: []interface{}{false}})
	select {
	case <-m.wake:
	default:
		t.Fatal("wake not signalled on resume")
	}
	select {
	case <-m.wake:
		t.Fatal("second wake not coalesced")
	default:
	}
}

func TestSleepMonitor_ListenStopsWhenBusCloses(t *testing.T) {
	m := &SleepMonitor{
		done: make(chan struct{}),
		wake: make(chan struct{}, 1),
		log:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	ch := make(chan *dbus.Signal, 1)

	returned := make(chan struct{})
	go func() {
		m.listen(ch)
		close(returned)
	}()

	ch <- &dbus.Signal{Name: prepareForSleep, Body: []interface{}{false}}
	close(ch)

	select {
	case <-returned:
	case <-time.After(5 * time.Second):
		t.Fatal("listen did not return after the signal channel closed")
	}
	select {
	case <-m.wake:
	default:
		t.Fatal("resume queued before close was not delivered")
	}
}

func TestSleepMonitor_ListenStopsOnDone(t *testing.T) {
	m := &SleepMonitor{
		done: make(chan struct{}),
		wake: make(chan struct{}, 1),
		log:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	returned := make(chan struct{})
	go func() {
		m.listen(make(chan *dbus.Signal))
		close(returned)
	}()
	close(m.done)

	select {
	case <-returned:
	case <-time.After(5 * time.Second):
		t.Fatal("listen did not return after done was closed")
	}
}
