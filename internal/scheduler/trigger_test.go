package scheduler

import (
	"testing"
	"time"
)

func at(hour, minute int) time.Time {
	return time.Date(2025, time.March, 10, hour, minute, 0, 0, time.UTC)
}

func TestMinuteOfHour(t *testing.T) {
	trig := MinuteOfHour(0)

	tests := []struct {
		name      string
		now       time.Time
		lastFired time.Time
		want      bool
	}{
		{"matching minute, never fired", at(9, 0), time.Time{}, true},
		{"wrong minute", at(9, 1), time.Time{}, false},
		{"already fired this minute", at(9, 0), at(9, 0), false},
		{"fired previous hour", at(10, 0), at(9, 0), true},
		{"second tick within same minute", at(9, 0).Add(30 * time.Second), at(9, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := trig.Due(tt.now, tt.lastFired); got != tt.want {
				t.Errorf("Due(%v, %v) = %v, want %v", tt.now, tt.lastFired, got, tt.want)
			}
		})
	}
}

func TestGatedHalfHour(t *testing.T) {
	trig := GatedHalfHour(12)

	tests := []struct {
		name      string
		now       time.Time
		lastFired time.Time
		want      bool
	}{
		{"half past the wrong hour", at(11, 30), time.Time{}, false},
		{"half past the gate hour", at(12, 30), time.Time{}, true},
		{"minute after the slot", at(12, 31), at(12, 30), false},
		{"minute after the slot, never fired", at(12, 31), time.Time{}, false},
		{"next day same slot", at(12, 30).Add(24 * time.Hour), at(12, 30), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := trig.Due(tt.now, tt.lastFired); got != tt.want {
				t.Errorf("Due(%v, %v) = %v, want %v", tt.now, tt.lastFired, got, tt.want)
			}
		})
	}
}

func TestDailyAt(t *testing.T) {
	trig := DailyAt(7, 15)

	if trig.Due(at(7, 14), time.Time{}) {
		t.Error("should not fire a minute early")
	}
	if !trig.Due(at(7, 15), time.Time{}) {
		t.Error("should fire at the configured time")
	}
	if trig.Due(at(7, 15), at(7, 15)) {
		t.Error("should not fire twice in the same minute")
	}
	if !trig.Due(at(7, 15).Add(24*time.Hour), at(7, 15)) {
		t.Error("should fire again the next day")
	}
}

func TestEvery(t *testing.T) {
	trig := Every(time.Hour)

	if !trig.Due(at(9, 5), time.Time{}) {
		t.Error("should fire immediately when never fired")
	}
	if trig.Due(at(9, 35), at(9, 5)) {
		t.Error("should not fire before the interval elapses")
	}
	if !trig.Due(at(10, 5), at(9, 5)) {
		t.Error("should fire once the interval has elapsed")
	}
}

// An instant that passes while the process is down is simply gone: the
// trigger only ever looks at the current time.
func TestMissedInstantIsNotBackfilled(t *testing.T) {
	trig := GatedHalfHour(12)

	// Fired two days ago; the 12:30 slot yesterday was missed. At 12:31
	// today nothing fires.
	lastFired := at(12, 30).Add(-48 * time.Hour)
	if trig.Due(at(12, 31), lastFired) {
		t.Error("missed slot must not fire late")
	}
}
