package collector

import (
	"errors"
	"fmt"
	"time"

	"github.com/distatus/battery"
)

// LibraryReader reads battery state through github.com/distatus/battery.
// The AC adapter is still probed through sysfs since the library does not
// report it.
type LibraryReader struct {
	index int
	get   func(idx int) (*battery.Battery, error)
}

// NewLibraryReader creates a reader for the battery at the given index.
func NewLibraryReader(index int) *LibraryReader {
	return &LibraryReader{index: index, get: battery.Get}
}

// Read returns the current state of the configured battery.
func (r *LibraryReader) Read() (PowerSample, error) {
	b, err := r.get(r.index)
	if err != nil && !usablePartial(err) {
		return PowerSample{}, fmt.Errorf("read battery %d: %w", r.index, err)
	}
	if b == nil {
		return PowerSample{}, ErrNoBattery
	}
	if b.Full <= 0 {
		return PowerSample{}, fmt.Errorf("battery %d reports no full capacity", r.index)
	}

	s := PowerSample{
		Timestamp:      time.Now().Unix(),
		ChargeFraction: clampFraction(b.Current / b.Full),
		Status:         libraryStatus(b.State),
		ACPlugged:      ACOnline(),
	}
	if s.Status == StatusDischarging && s.ChargeFraction >= 1 && s.ACPlugged {
		s.Status = StatusFull
	}
	return s, nil
}

// usablePartial reports whether err is a partial failure that left the
// fields we depend on intact.
func usablePartial(err error) bool {
	var partial battery.ErrPartial
	if !errors.As(err, &partial) {
		return false
	}
	return partial.State == nil && partial.Current == nil && partial.Full == nil
}

// libraryStatus maps the library's states onto ours; anything it cannot
// classify is Unknown.
func libraryStatus(s battery.State) Status {
	switch s {
	case battery.Full:
		return StatusFull
	case battery.Charging:
		return StatusCharging
	case battery.Discharging:
		return StatusDischarging
	case battery.Empty:
		return StatusEmpty
	}
	return StatusUnknown
}
