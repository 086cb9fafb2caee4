package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/cptspacemanspiff/gamma-daemon/internal/collector"
	"github.com/cptspacemanspiff/gamma-daemon/internal/config"
)

// Sink applies a brightness value to one display.
type Sink interface {
	Apply(value uint32) error
}

// Recorder is told about every brightness decision the loop dispatches.
type Recorder interface {
	Record(d Decision) error
}

// Decision is one evaluated transition and the outcome of applying it.
type Decision struct {
	Timestamp int64            `json:"timestamp"`
	Status    collector.Status `json:"status"`
	ACPlugged bool             `json:"ac_plugged"`
	ChargePct float64          `json:"charge_pct"`
	Value     uint32           `json:"value"`
	Applied   bool             `json:"applied"`
	Error     string           `json:"error,omitempty"`
}

// Params configures a Loop. Reader, Sink and Logger are required.
type Params struct {
	Reader     collector.Reader
	Sink       Sink
	Brightness config.BrightnessConfig
	Interval   time.Duration
	Recorders  []Recorder
	// Wake triggers an immediate poll, e.g. after resume.
	Wake   <-chan struct{}
	Logger *slog.Logger
	// Ticks replaces the interval ticker when set.
	Ticks <-chan time.Time
}

// Loop polls the power state and adjusts brightness on transitions.
// It owns its tracker; nothing else reads or writes it.
type Loop struct {
	reader     collector.Reader
	sink       Sink
	brightness config.BrightnessConfig
	interval   time.Duration
	recorders  []Recorder
	wake       <-chan struct{}
	ticks      <-chan time.Time
	tracker    *Tracker
	log        *slog.Logger
	now        func() time.Time
}

func New(p Params) *Loop {
	interval := p.Interval
	if interval <= 0 {
		interval = time.Second
	}
	return &Loop{
		reader:     p.Reader,
		sink:       p.Sink,
		brightness: p.Brightness,
		interval:   interval,
		recorders:  p.Recorders,
		wake:       p.Wake,
		ticks:      p.Ticks,
		tracker:    NewTracker(),
		log:        p.Logger,
		now:        time.Now,
	}
}

// Run starts the loop and blocks until ctx is cancelled or the power state
// can no longer be read. Cancellation is only observed between polls.
func (l *Loop) Run(ctx context.Context) error {
	if err := l.Start(); err != nil {
		return err
	}

	ticks := l.ticks
	if ticks == nil {
		ticker := time.NewTicker(l.interval)
		defer ticker.Stop()
		ticks = ticker.C
	}

	l.log.Info("gamma loop running", "interval", l.interval)
	for {
		select {
		case <-ctx.Done():
			l.log.Info("gamma loop stopped")
			return nil
		case <-ticks:
		case <-l.wake:
			l.log.Info("resumed, polling now")
		}
		if err := l.Tick(); err != nil {
			return err
		}
	}
}

// Start takes the first sample, seeds the tracker with it and applies the
// brightness for it.
func (l *Loop) Start() error {
	sample, err := l.reader.Read()
	if err != nil {
		return &ReadError{Err: err}
	}
	l.tracker.Seed(sample)
	l.log.Info("initial power state",
		"status", sample.Status,
		"ac_plugged", sample.ACPlugged,
		"charge_pct", sample.ChargePct())
	l.dispatch(sample)
	l.tracker.Commit()
	return nil
}

// Tick runs one poll: read, advance, apply on transition, commit.
// Only a read failure is returned.
func (l *Loop) Tick() error {
	sample, err := l.reader.Read()
	if err != nil {
		return &ReadError{Err: err}
	}

	l.tracker.Advance(sample)
	if l.tracker.HasTransitioned() {
		prev := l.tracker.Previous()
		l.log.Debug("power state changed",
			"topic", "policy",
			"from_status", prev.Status,
			"to_status", sample.Status,
			"from_ac", prev.ACPlugged,
			"to_ac", sample.ACPlugged)
		l.dispatch(l.tracker.Current())
	}
	l.tracker.Commit()
	return nil
}

// Tracker exposes the loop's tracker for inspection in tests.
func (l *Loop) Tracker() *Tracker {
	return l.tracker
}

func (l *Loop) dispatch(s collector.PowerSample) {
	value := Evaluate(s, l.brightness)
	d := Decision{
		Timestamp: l.now().Unix(),
		Status:    s.Status,
		ACPlugged: s.ACPlugged,
		ChargePct: s.ChargePct(),
		Value:     value,
	}

	if err := l.sink.Apply(value); err != nil {
		applyErr := &ApplyError{Display: sinkName(l.sink), Value: value, Err: err}
		l.log.Error("brightness change failed", "err", applyErr)
		d.Error = applyErr.Error()
	} else {
		d.Applied = true
		l.log.Info("applied brightness",
			"value", value,
			"status", s.Status,
			"ac_plugged", s.ACPlugged,
			"charge_pct", s.ChargePct())
	}

	for _, r := range l.recorders {
		if err := r.Record(d); err != nil {
			l.log.Error("record decision", "err", err)
		}
	}
}

func sinkName(s Sink) string {
	if n, ok := s.(interface{ Name() string }); ok {
		return n.Name()
	}
	return ""
}
