package models

import (
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:30", 570, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"9:30", 0, true},
		{"09:60", 0, true},
		{"ab:cd", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseClock(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseClock(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseClock(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestTimeSlotOverlaps(t *testing.T) {
	nine := TimeSlot{StartTime: "09:00", EndTime: "10:00"}
	tests := []struct {
		name  string
		other TimeSlot
		want  bool
	}{
		{"touching after", TimeSlot{"10:00", "11:00"}, false},
		{"touching before", TimeSlot{"08:00", "09:00"}, false},
		{"inside", TimeSlot{"09:15", "09:45"}, true},
		{"straddles start", TimeSlot{"08:30", "09:30"}, true},
		{"same", TimeSlot{"09:00", "10:00"}, true},
		{"disjoint", TimeSlot{"13:00", "14:00"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := nine.Overlaps(tt.other); got != tt.want {
				t.Errorf("Overlaps = %v, want %v", got, tt.want)
			}
			if got := tt.other.Overlaps(nine); got != tt.want {
				t.Errorf("reverse Overlaps = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTimeSlotSame(t *testing.T) {
	window := TimeSlot{"09:00", "12:00"}
	if !window.Same(TimeSlot{"09:00", "12:00"}) {
		t.Error("expected window to match itself")
	}
	if window.Same(TimeSlot{"09:00", "10:00"}) {
		t.Error("a sub-window must not match the offered window")
	}
	if window.Same(TimeSlot{"bad", "12:00"}) {
		t.Error("unparseable window must not match")
	}
}

func TestValidateSlots(t *testing.T) {
	ok := []TimeSlot{{"10:00", "11:00"}, {"09:00", "10:00"}}
	if err := ValidateSlots(ok); err != nil {
		t.Fatalf("adjacent slots rejected: %v", err)
	}
	if err := ValidateSlots([]TimeSlot{{"09:00", "10:30"}, {"10:00", "11:00"}}); err == nil {
		t.Fatal("overlapping slots accepted")
	}
	if err := ValidateSlots([]TimeSlot{{"10:00", "10:00"}}); err == nil {
		t.Fatal("empty window accepted")
	}
	if err := ValidateSlots([]TimeSlot{{"11:00", "10:00"}}); err == nil {
		t.Fatal("inverted window accepted")
	}
}

func TestSortSlots(t *testing.T) {
	in := []TimeSlot{{"14:00", "15:00"}, {"08:00", "09:00"}, {"10:00", "11:00"}}
	got := SortSlots(in)
	if got[0].StartTime != "08:00" || got[2].StartTime != "14:00" {
		t.Fatalf("unexpected order: %v", got)
	}
	if in[0].StartTime != "14:00" {
		t.Fatal("SortSlots modified its input")
	}
}

func TestDayOf(t *testing.T) {
	d, _ := ParseDate("2026-10-19", time.UTC)
	if DayOf(d) != Monday {
		t.Fatalf("2026-10-19 resolved to %s", DayOf(d))
	}
}

func TestBookingStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to BookingStatus
		want     bool
	}{
		{BookingPending, BookingConfirmed, true},
		{BookingPending, BookingCancelled, true},
		{BookingPending, BookingCompleted, false},
		{BookingConfirmed, BookingCompleted, true},
		{BookingConfirmed, BookingCancelled, true},
		{BookingCompleted, BookingCancelled, false},
		{BookingCancelled, BookingConfirmed, false},
		{BookingRescheduled, BookingConfirmed, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransition(tt.to); got != tt.want {
			t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}
