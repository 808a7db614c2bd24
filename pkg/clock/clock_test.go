package clock

import (
	"testing"
	"time"
)

func TestStampFormatsDayMonth(t *testing.T) {
	tests := []struct {
		at   time.Time
		want string
	}{
		{time.Date(2025, time.January, 13, 10, 0, 0, 0, time.UTC), "13.01"},
		{time.Date(2025, time.December, 2, 0, 0, 0, 0, time.UTC), "02.12"},
		{time.Date(2024, time.April, 4, 23, 59, 0, 0, time.UTC), "04.04"},
	}
	for _, tt := range tests {
		if got := Stamp(tt.at); got != tt.want {
			t.Fatalf("Stamp(%v) = %q, want %q", tt.at, got, tt.want)
		}
	}
}

func TestFixedClockIsFrozen(t *testing.T) {
	at := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	c := Fixed(at)
	if !c.Now().Equal(at) {
		t.Fatalf("fixed clock drifted: %v", c.Now())
	}
	if !c.Now().Equal(c.Now()) {
		t.Fatal("fixed clock should be stable across calls")
	}
}

func TestSystemClockAdvances(t *testing.T) {
	c := System()
	before := time.Now().Add(-time.Minute)
	if c.Now().Before(before) {
		t.Fatalf("system clock is in the past: %v", c.Now())
	}
}
