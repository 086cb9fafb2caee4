package daemon

import (
	"testing"

	"github.com/cptspacemanspiff/gamma-daemon/internal/collector"
)

func sample(status collector.Status, ac bool, charge float64) collector.PowerSample {
	return collector.PowerSample{Status: status, ACPlugged: ac, ChargeFraction: charge}
}

func TestNewTracker_Sentinel(t *testing.T) {
	tr := NewTracker()
	if tr.Previous() != collector.UnknownSample() || tr.Current() != collector.UnknownSample() {
		t.Fatalf("new tracker = %+v/%+v, want unknown sentinel", tr.Previous(), tr.Current())
	}
	if tr.HasTransitioned() {
		t.Fatal("HasTransitioned() = true on a fresh tracker")
	}
}

func TestTracker_HasTransitioned(t *testing.T) {
	tests := []struct {
		name string
		prev collector.PowerSample
		cur  collector.PowerSample
		want bool
	}{
		{
			name: "identical",
			prev: sample(collector.StatusDischarging, false, 0.5),
			cur:  sample(collector.StatusDischarging, false, 0.5),
			want: false,
		},
		{
			name: "charge drift only",
			prev: sample(collector.StatusDischarging, false, 0.5),
			cur:  sample(collector.StatusDischarging, false, 0.1),
			want: false,
		},
		{
			name: "ac only",
			prev: sample(collector.StatusUnknown, false, 0.5),
			cur:  sample(collector.StatusUnknown, true, 0.5),
			want: true,
		},
		{
			name: "status only",
			prev: sample(collector.StatusCharging, true, 0.5),
			cur:  sample(collector.StatusFull, true, 0.5),
			want: true,
		},
		{
			name: "both",
			prev: sample(collector.StatusCharging, true, 0.5),
			cur:  sample(collector.StatusDischarging, false, 0.5),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTracker()
			tr.Seed(tt.prev)
			tr.Advance(tt.cur)
			if got := tr.HasTransitioned(); got != tt.want {
				t.Fatalf("HasTransitioned() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTracker_AdvanceAndCommit(t *testing.T) {
	tr := NewTracker()
	s := sample(collector.StatusCharging, true, 0.4)

	tr.Advance(s)
	if tr.Previous() != collector.UnknownSample() {
		t.Fatalf("Advance touched previous: %+v", tr.Previous())
	}
	if tr.Current() != s {
		t.Fatalf("Current() = %+v, want %+v", tr.Current(), s)
	}
	if !tr.HasTransitioned() {
		t.Fatal("HasTransitioned() = false, want true before commit")
	}

	tr.Commit()
	if tr.Previous() != s {
		t.Fatalf("Previous() = %+v after commit, want %+v", tr.Previous(), s)
	}
	if tr.HasTransitioned() {
		t.Fatal("HasTransitioned() = true after commit")
	}

	// The same sample again never re-triggers.
	tr.Advance(s)
	if tr.HasTransitioned() {
		t.Fatal("HasTransitioned() = true for a repeated sample")
	}
}
