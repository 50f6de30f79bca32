package anim

import (
	"math"
	"testing"
	"time"
)

func TestEasing(t *testing.T) {
	tests := []struct {
		name   string
		easing Easing
	}{
		{"linear", Linear},
		{"cubic-out", EaseOutCubic},
		{"cubic-in-out", EaseInOutCubic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.easing(0); math.Abs(got) > 1e-9 {
				t.Errorf("easing(0) = %v, want 0", got)
			}
			if got := tt.easing(1); math.Abs(got-1) > 1e-9 {
				t.Errorf("easing(1) = %v, want 1", got)
			}
		})
	}

	if EaseOutCubic(0.5) <= 0.5 {
		t.Errorf("EaseOutCubic(0.5) = %v, want > 0.5", EaseOutCubic(0.5))
	}
}

func TestByName(t *testing.T) {
	if ByName("linear")(0.25) != 0.25 {
		t.Error("ByName(linear) is not linear")
	}
	if ByName("bogus")(0.5) != EaseOutCubic(0.5) {
		t.Error("ByName(unknown) should fall back to cubic ease-out")
	}
}

func TestSequence_DelayThenProperty(t *testing.T) {
	var values []float64
	start := time.Unix(1000, 0)

	var seq Sequence
	seq.Add(&Delay{Duration: 2 * time.Second})
	seq.Add(&Property{
		From:     0,
		To:       100,
		Duration: 2 * time.Second,
		Easing:   Linear,
		OnChange: func(v float64) { values = append(values, v) },
	})

	if !seq.Advance(start) {
		t.Fatal("sequence finished immediately")
	}
	if !seq.Advance(start.Add(time.Second)) {
		t.Fatal("sequence finished during delay")
	}
	if len(values) != 0 {
		t.Fatalf("property changed during delay: %v", values)
	}

	// Delay ends at +2s; the property begins and reports its start value.
	if !seq.Advance(start.Add(2 * time.Second)) {
		t.Fatal("sequence finished when the property began")
	}
	if len(values) != 1 || values[0] != 0 {
		t.Fatalf("values after begin = %v, want [0]", values)
	}

	seq.Advance(start.Add(3 * time.Second))
	if got := values[len(values)-1]; got != 50 {
		t.Errorf("value at midpoint = %v, want 50", got)
	}

	if seq.Advance(start.Add(5 * time.Second)) {
		t.Error("sequence should be finished after the property duration")
	}
	if got := values[len(values)-1]; got != 100 {
		t.Errorf("final value = %v, want 100", got)
	}
	if !seq.Done() {
		t.Error("Done() = false after completion")
	}
}

func TestProperty_SuppressesRepeatedValues(t *testing.T) {
	calls := 0
	p := &Property{From: 0, To: 0, Duration: time.Second, OnChange: func(float64) { calls++ }}

	now := time.Unix(0, 0)
	p.Begin(now)
	p.Update(now.Add(500 * time.Millisecond))
	p.Update(now.Add(time.Second))

	if calls != 1 {
		t.Errorf("OnChange called %d times, want 1", calls)
	}
}

func TestProperty_ZeroDuration(t *testing.T) {
	var last float64
	p := &Property{From: 0, To: 10, OnChange: func(v float64) { last = v }}

	now := time.Unix(0, 0)
	p.Begin(now)
	if !p.Update(now) {
		t.Error("zero-duration property should finish on first update")
	}
	if last != 10 {
		t.Errorf("last value = %v, want 10", last)
	}
}
