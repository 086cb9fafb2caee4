package daemon

import "github.com/cptspacemanspiff/gamma-daemon/internal/collector"

// Tracker holds the power state seen on the previous and the current poll.
type Tracker struct {
	previous collector.PowerSample
	current  collector.PowerSample
}

// NewTracker returns a tracker with both states set to the unknown,
// unplugged sentinel.
func NewTracker() *Tracker {
	return &Tracker{
		previous: collector.UnknownSample(),
		current:  collector.UnknownSample(),
	}
}

// Seed sets both states, so the next poll only transitions on a real change.
func (t *Tracker) Seed(s collector.PowerSample) {
	t.previous = s
	t.current = s
}

// Advance records a new sample as current. previous is untouched.
func (t *Tracker) Advance(s collector.PowerSample) {
	t.current = s
}

// Commit makes current the new previous. Called once per cycle whatever
// the cycle did.
func (t *Tracker) Commit() {
	t.previous = t.current
}

// HasTransitioned reports a change of status or AC adapter between the two
// states. Charge drift alone is not a transition.
func (t *Tracker) HasTransitioned() bool {
	return t.previous.Status != t.current.Status || t.previous.ACPlugged != t.current.ACPlugged
}

func (t *Tracker) Previous() collector.PowerSample { return t.previous }

func (t *Tracker) Current() collector.PowerSample { return t.current }
