package services

import (
	"context"
	"testing"
	"time"

	"github.com/anjiri1684/mindcare/models"
	"github.com/anjiri1684/mindcare/utils"
)

func TestListOpenSlotsExpandsWeekdays(t *testing.T) {
	f := newBookingFixture(t)

	open, err := f.slots.ListOpenSlots(context.Background(), SlotQuery{From: nextMonday, To: nextTuesday})
	if err != nil {
		t.Fatalf("ListOpenSlots: %v", err)
	}
	want := []struct{ date, start string }{
		{nextMonday, "09:00"},
		{nextMonday, "10:00"},
		{nextTuesday, "14:00"},
	}
	if len(open) != len(want) {
		t.Fatalf("expected %d slots, got %d: %+v", len(want), len(open), open)
	}
	for i, w := range want {
		if open[i].Date != w.date || open[i].StartTime != w.start {
			t.Errorf("slot %d: expected %s %s, got %s %s", i, w.date, w.start, open[i].Date, open[i].StartTime)
		}
		if open[i].ProfessionalName != "Grace Wanjiru" {
			t.Errorf("slot %d: missing professional name", i)
		}
	}
	if open[0].Day != models.Monday || open[2].Day != models.Tuesday {
		t.Errorf("weekday labels wrong: %s %s", open[0].Day, open[2].Day)
	}
}

func TestListOpenSlotsHidesBookedWindows(t *testing.T) {
	f := newBookingFixture(t)
	f.book(t, nextMonday, slot("09:00", "10:00"))

	open, err := f.slots.ListOpenSlots(context.Background(), SlotQuery{Dates: []string{nextMonday}})
	if err != nil {
		t.Fatalf("ListOpenSlots: %v", err)
	}
	if len(open) != 1 || open[0].StartTime != "10:00" {
		t.Fatalf("expected only the touching 10:00 window, got %+v", open)
	}
}

func TestListOpenSlotsSkipsStartedWindows(t *testing.T) {
	f := newBookingFixture(t)
	// 14:30 on the Tuesday itself: the 14:00 window has started.
	f.slots.Clock = Clock{Now: func() time.Time { return time.Date(2030, 1, 8, 14, 30, 0, 0, time.UTC) }, Location: time.UTC}

	open, err := f.slots.ListOpenSlots(context.Background(), SlotQuery{Dates: []string{nextTuesday}})
	if err != nil {
		t.Fatalf("ListOpenSlots: %v", err)
	}
	if len(open) != 0 {
		t.Fatalf("expected no open slots, got %+v", open)
	}
}

func TestListOpenSlotsIgnoresInactiveProfessionals(t *testing.T) {
	f := newBookingFixture(t)
	if err := f.db.Model(&models.User{}).Where("id = ?", f.pro.ID).Update("is_active", false).Error; err != nil {
		t.Fatal(err)
	}
	open, err := f.slots.ListOpenSlots(context.Background(), SlotQuery{Dates: []string{nextMonday}})
	if err != nil {
		t.Fatalf("ListOpenSlots: %v", err)
	}
	if len(open) != 0 {
		t.Fatalf("inactive professional should offer nothing, got %+v", open)
	}
}

func TestListOpenSlotsFiltersByProfessional(t *testing.T) {
	f := newBookingFixture(t)
	other := createProfessional(t, f.db, "Peter Kamau", map[models.DayOfWeek][]models.TimeSlot{
		models.Monday: {slot("09:00", "10:00")},
	})

	all, err := f.slots.ListOpenSlots(context.Background(), SlotQuery{Dates: []string{nextMonday}})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 monday slots across professionals, got %d", len(all))
	}

	only, err := f.slots.ListOpenSlots(context.Background(), SlotQuery{Dates: []string{nextMonday}, ProfessionalID: &other.ID})
	if err != nil {
		t.Fatal(err)
	}
	if len(only) != 1 || only[0].ProfessionalID != other.ID {
		t.Fatalf("filter leaked other professionals: %+v", only)
	}
}

func TestListOpenSlotsValidation(t *testing.T) {
	f := newBookingFixture(t)
	cases := []struct {
		name string
		q    SlotQuery
	}{
		{"bad date", SlotQuery{Dates: []string{"07/01/2030"}}},
		{"reversed range", SlotQuery{From: nextTuesday, To: nextMonday}},
		{"range too long", SlotQuery{From: "2030-01-01", To: "2030-03-01"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.slots.ListOpenSlots(context.Background(), tc.q)
			mustKind(t, err, utils.KindValidation)
		})
	}
}

func TestListOpenSlotsDropsPastAndDuplicateDates(t *testing.T) {
	f := newBookingFixture(t)
	open, err := f.slots.ListOpenSlots(context.Background(), SlotQuery{
		Dates: []string{nextMonday, "2029-12-31", nextMonday},
	})
	if err != nil {
		t.Fatalf("ListOpenSlots: %v", err)
	}
	if len(open) != 2 {
		t.Fatalf("expected the two monday windows once, got %+v", open)
	}
}

func TestCheckSlotAvailable(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	booked := f.book(t, nextMonday, slot("09:00", "10:00"))

	cases := []struct {
		name    string
		date    string
		window  models.TimeSlot
		exclude bool
		want    bool
	}{
		{"booked window", nextMonday, slot("09:00", "10:00"), false, false},
		{"touching window", nextMonday, slot("10:00", "11:00"), false, true},
		{"part of offered window", nextMonday, slot("10:15", "10:45"), false, false},
		{"outside offered windows", nextMonday, slot("12:00", "13:00"), false, false},
		{"spans two windows", nextMonday, slot("09:30", "10:30"), false, false},
		{"unavailable weekday", "2030-01-09", slot("09:00", "10:00"), false, false},
		{"own booking excluded", nextMonday, slot("09:00", "10:00"), true, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ex := &booked.ID
			if !tc.exclude {
				ex = nil
			}
			got, err := f.slots.CheckSlotAvailable(ctx, f.pro.ID, tc.date, tc.window, ex)
			if err != nil {
				t.Fatalf("CheckSlotAvailable: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}

	_, err := f.slots.CheckSlotAvailable(ctx, f.pro.ID, "2030-1-7", slot("09:00", "10:00"), nil)
	mustKind(t, err, utils.KindValidation)
}
