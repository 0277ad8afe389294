package models

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"
)

const (
	ClockLayout = "15:04"
	DateLayout  = "2006-01-02"
)

var ErrInvalidClock = errors.New("time must be formatted as HH:MM")

// ParseClock converts a wall-clock "HH:MM" string to minutes after midnight.
func ParseClock(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, ErrInvalidClock
	}
	h, err := strconv.Atoi(s[:2])
	if err != nil || h < 0 || h > 23 {
		return 0, ErrInvalidClock
	}
	m, err := strconv.Atoi(s[3:])
	if err != nil || m < 0 || m > 59 {
		return 0, ErrInvalidClock
	}
	return h*60 + m, nil
}

// ParseDate parses a calendar date in the given location.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, loc)
}

// TimeSlot is a half-open [StartTime, EndTime) wall-clock window.
type TimeSlot struct {
	StartTime string `json:"start_time" validate:"required,hhmm"`
	EndTime   string `json:"end_time" validate:"required,hhmm"`
}

func (s TimeSlot) minutes() (int, int, error) {
	start, err := ParseClock(s.StartTime)
	if err != nil {
		return 0, 0, fmt.Errorf("start %q: %w", s.StartTime, err)
	}
	end, err := ParseClock(s.EndTime)
	if err != nil {
		return 0, 0, fmt.Errorf("end %q: %w", s.EndTime, err)
	}
	return start, end, nil
}

func (s TimeSlot) Validate() error {
	start, end, err := s.minutes()
	if err != nil {
		return err
	}
	if end <= start {
		return fmt.Errorf("slot %s-%s: end must be after start", s.StartTime, s.EndTime)
	}
	return nil
}

// Overlaps uses half-open comparison, so windows that only touch do not collide.
func (s TimeSlot) Overlaps(o TimeSlot) bool {
	s1, e1, err := s.minutes()
	if err != nil {
		return false
	}
	s2, e2, err := o.minutes()
	if err != nil {
		return false
	}
	return s1 < e2 && s2 < e1
}

// Same reports whether o covers exactly the minutes of s.
func (s TimeSlot) Same(o TimeSlot) bool {
	s1, e1, err := s.minutes()
	if err != nil {
		return false
	}
	s2, e2, err := o.minutes()
	if err != nil {
		return false
	}
	return s1 == s2 && e1 == e2
}

func (s TimeSlot) String() string {
	return s.StartTime + "-" + s.EndTime
}

// ValidateSlots checks every window and rejects any pair that overlaps.
func ValidateSlots(slots []TimeSlot) error {
	for _, s := range slots {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	sorted := SortSlots(slots)
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].Overlaps(sorted[i]) {
			return fmt.Errorf("slots %s and %s overlap", sorted[i-1], sorted[i])
		}
	}
	return nil
}

// SortSlots returns a copy ordered by start time.
func SortSlots(slots []TimeSlot) []TimeSlot {
	out := make([]TimeSlot, len(slots))
	copy(out, slots)
	sort.SliceStable(out, func(i, j int) bool {
		a, _ := ParseClock(out[i].StartTime)
		b, _ := ParseClock(out[j].StartTime)
		return a < b
	})
	return out
}
