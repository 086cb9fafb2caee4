package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/cptspacemanspiff/gamma-daemon/internal/collector"
	"github.com/cptspacemanspiff/gamma-daemon/internal/config"
	"github.com/cptspacemanspiff/gamma-daemon/internal/daemon"
)

func TestTopicHandlerFilters(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, parseTopics(false, "power, mqtt"))

	logger.Info("untopical")
	logger.With("topic", "power").Info("power record")
	logger.With("topic", "backlight").Info("backlight record")
	logger.Info("inline mqtt", "topic", "mqtt")
	logger.Info("inline sleep", "topic", "sleep")

	out := buf.String()
	for _, want := range []string{"untopical", "power record", "inline mqtt"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	for _, unwanted := range []string{"backlight record", "inline sleep"} {
		if strings.Contains(out, unwanted) {
			t.Errorf("output contains filtered %q:\n%s", unwanted, out)
		}
	}
}

func TestTopicHandlerVerbosePassesAll(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, parseTopics(true, ""))

	logger.With("topic", "policy").Debug("policy record")
	logger.With("topic", "storage").WithGroup("db").Info("storage record")

	out := buf.String()
	if !strings.Contains(out, "policy record") || !strings.Contains(out, "storage record") {
		t.Fatalf("verbose output missing records:\n%s", out)
	}
}

func TestParseTopics(t *testing.T) {
	topics := parseTopics(false, " power,,backlight ")
	if len(topics) != 2 || !topics["power"] || !topics["backlight"] {
		t.Fatalf("parseTopics() = %v, want power and backlight", topics)
	}
	if got := parseTopics(false, ""); len(got) != 0 {
		t.Fatalf("parseTopics(\"\") = %v, want empty", got)
	}
}

func TestTopicHandlerPassesWarningsAndErrors(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, parseTopics(false, ""))

	logger.With("topic", "mqtt").Warn("publisher unavailable")
	logger.With("topic", "storage").Error("cleanup failed")
	logger.With("topic", "storage").Info("cleanup done")

	out := buf.String()
	for _, want := range []string{"publisher unavailable", "cleanup failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "cleanup done") {
		t.Errorf("disabled topic Info passed:\n%s", out)
	}
}

type staticReader struct {
	samples []collector.PowerSample
	calls   int
}

func (r *staticReader) Read() (collector.PowerSample, error) {
	s := r.samples[min(r.calls, len(r.samples)-1)]
	r.calls++
	return s, nil
}

type errSink struct{ err error }

func (s errSink) Apply(uint32) error { return s.err }

func TestDefaultLoggingShowsBrightnessOutcome(t *testing.T) {
	charging := collector.PowerSample{Status: collector.StatusCharging, ACPlugged: true, ChargeFraction: 0.5}
	discharging := collector.PowerSample{Status: collector.StatusDischarging, ChargeFraction: 0.5}

	var buf bytes.Buffer
	loop := daemon.New(daemon.Params{
		Reader:     &staticReader{samples: []collector.PowerSample{charging}},
		Sink:       errSink{err: errors.New("permission denied")},
		Brightness: config.DefaultConfig().Brightness,
		Logger:     newLogger(&buf, parseTopics(false, "")),
	})
	if err := loop.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if out := buf.String(); !strings.Contains(out, "brightness change failed") || !strings.Contains(out, "permission denied") {
		t.Fatalf("apply failure not logged with default flags:\n%s", out)
	}

	buf.Reset()
	loop = daemon.New(daemon.Params{
		Reader:     &staticReader{samples: []collector.PowerSample{charging, discharging}},
		Sink:       errSink{},
		Brightness: config.DefaultConfig().Brightness,
		Logger:     newLogger(&buf, parseTopics(false, "")),
	})
	if err := loop.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := loop.Tick(); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
	out := buf.String()
	if strings.Count(out, "applied brightness") != 2 {
		t.Fatalf("applied values not logged with default flags:\n%s", out)
	}
	if strings.Contains(out, "power state changed") {
		t.Fatalf("policy detail logged without --log=policy:\n%s", out)
	}
}
