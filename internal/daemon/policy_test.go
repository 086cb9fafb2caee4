package daemon

import (
	"testing"

	"github.com/cptspacemanspiff/gamma-daemon/internal/collector"
	"github.com/cptspacemanspiff/gamma-daemon/internal/config"
)

func testBrightness() config.BrightnessConfig {
	return config.BrightnessConfig{
		Full:                225,
		Low:                 100,
		LowThresholdPercent: 25,
		Charging:            255,
		Discharging:         155,
		Unknown:             155,
		ACIn:                225,
	}
}

func TestEvaluate(t *testing.T) {
	// Distinct values so every branch is identifiable.
	cfg := config.BrightnessConfig{
		Full:                201,
		Low:                 202,
		LowThresholdPercent: 25,
		Charging:            203,
		Discharging:         204,
		Unknown:             205,
		ACIn:                206,
	}

	tests := []struct {
		name   string
		sample collector.PowerSample
		want   uint32
	}{
		{"full on battery", collector.PowerSample{Status: collector.StatusFull, ChargeFraction: 0.1}, 201},
		{"full on AC", collector.PowerSample{Status: collector.StatusFull, ChargeFraction: 1, ACPlugged: true}, 201},
		{"charging", collector.PowerSample{Status: collector.StatusCharging, ChargeFraction: 0.05}, 203},
		{"charging on AC", collector.PowerSample{Status: collector.StatusCharging, ChargeFraction: 0.9, ACPlugged: true}, 203},
		{"empty", collector.PowerSample{Status: collector.StatusEmpty}, EmptyBrightness},
		{"empty on AC", collector.PowerSample{Status: collector.StatusEmpty, ACPlugged: true, ChargeFraction: 0.5}, EmptyBrightness},
		{"unknown on AC", collector.PowerSample{Status: collector.StatusUnknown, ACPlugged: true, ChargeFraction: 0.1}, 206},
		{"unknown on battery low", collector.PowerSample{Status: collector.StatusUnknown, ChargeFraction: 0.1}, 202},
		{"unknown on battery high", collector.PowerSample{Status: collector.StatusUnknown, ChargeFraction: 0.8}, 204},
		{"discharging low", collector.PowerSample{Status: collector.StatusDischarging, ChargeFraction: 0.2}, 202},
		{"discharging high", collector.PowerSample{Status: collector.StatusDischarging, ChargeFraction: 0.5}, 204},
		{"discharging at threshold", collector.PowerSample{Status: collector.StatusDischarging, ChargeFraction: 0.25}, 202},
		{"discharging just above threshold", collector.PowerSample{Status: collector.StatusDischarging, ChargeFraction: 0.2501}, 204},
		{"discharging while plugged uses charge rule", collector.PowerSample{Status: collector.StatusDischarging, ChargeFraction: 0.1, ACPlugged: true}, 202},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Evaluate(tt.sample, cfg); got != tt.want {
				t.Fatalf("Evaluate() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestEvaluate_Example(t *testing.T) {
	cfg := testBrightness()

	low := collector.PowerSample{Status: collector.StatusDischarging, ChargeFraction: 0.20}
	if got := Evaluate(low, cfg); got != 100 {
		t.Fatalf("Evaluate(20%%) = %d, want 100", got)
	}

	high := collector.PowerSample{Status: collector.StatusDischarging, ChargeFraction: 0.50}
	if got := Evaluate(high, cfg); got != 155 {
		t.Fatalf("Evaluate(50%%) = %d, want 155", got)
	}
}

func TestEvaluate_FullIgnoresChargeAndAC(t *testing.T) {
	cfg := testBrightness()
	for _, ac := range []bool{false, true} {
		for _, charge := range []float64{0, 0.25, 0.5, 1} {
			s := collector.PowerSample{Status: collector.StatusFull, ACPlugged: ac, ChargeFraction: charge}
			if got := Evaluate(s, cfg); got != cfg.Full {
				t.Fatalf("Evaluate(%+v) = %d, want %d", s, got, cfg.Full)
			}
		}
	}
}

func TestEvaluate_EmptyIgnoresConfig(t *testing.T) {
	for _, cfg := range []config.BrightnessConfig{{}, testBrightness(), {Full: 1000, Low: 1000, Charging: 1000, Discharging: 1000, Unknown: 1000, ACIn: 1000, LowThresholdPercent: 100}} {
		s := collector.PowerSample{Status: collector.StatusEmpty}
		if got := Evaluate(s, cfg); got != EmptyBrightness {
			t.Fatalf("Evaluate(empty, %+v) = %d, want %d", cfg, got, EmptyBrightness)
		}
	}
}

func TestEvaluate_ThresholdEdges(t *testing.T) {
	cfg := testBrightness()

	cfg.LowThresholdPercent = 0
	if got := Evaluate(collector.PowerSample{Status: collector.StatusDischarging, ChargeFraction: 0}, cfg); got != cfg.Low {
		t.Fatalf("0%% with threshold 0 = %d, want low", got)
	}
	if got := Evaluate(collector.PowerSample{Status: collector.StatusDischarging, ChargeFraction: 0.01}, cfg); got != cfg.Discharging {
		t.Fatalf("1%% with threshold 0 = %d, want discharging", got)
	}

	cfg.LowThresholdPercent = 100
	if got := Evaluate(collector.PowerSample{Status: collector.StatusDischarging, ChargeFraction: 1}, cfg); got != cfg.Low {
		t.Fatalf("100%% with threshold 100 = %d, want low", got)
	}
}
