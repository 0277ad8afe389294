package services

import (
	"context"
	"testing"

	"github.com/anjiri1684/mindcare/models"
	"github.com/anjiri1684/mindcare/utils"
	"github.com/google/uuid"
)

func TestGetAvailabilityReturnsSevenDaysInOrder(t *testing.T) {
	db := newTestDB(t)
	pro := createProfessional(t, db, "Amina Hassan", map[models.DayOfWeek][]models.TimeSlot{
		models.Wednesday: {slot("08:00", "09:00")},
	})
	svc := NewAvailabilityService(db, nil)

	week, err := svc.GetAvailability(context.Background(), pro.ID)
	if err != nil {
		t.Fatalf("GetAvailability: %v", err)
	}
	if len(week) != 7 {
		t.Fatalf("expected 7 records, got %d", len(week))
	}
	for i, day := range models.Week {
		if week[i].Day != day {
			t.Errorf("record %d: expected %s, got %s", i, day, week[i].Day)
		}
	}
	if !week[2].Available || len(week[2].Slots) != 1 {
		t.Errorf("wednesday should be available with one slot, got %+v", week[2])
	}
	if week[0].Available {
		t.Errorf("monday should not be available")
	}
}

func TestGetAvailabilityFillsMissingDays(t *testing.T) {
	db := newTestDB(t)
	u := createUser(t, db, "New Pro", models.RoleProfessional)
	if err := db.Create(&models.Professional{UserID: u.ID, Status: models.ProfessionalActive}).Error; err != nil {
		t.Fatal(err)
	}

	week, err := NewAvailabilityService(db, nil).GetAvailability(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("GetAvailability: %v", err)
	}
	if len(week) != 7 {
		t.Fatalf("expected 7 placeholder records, got %d", len(week))
	}
	for _, d := range week {
		if d.Available || len(d.Slots) != 0 {
			t.Errorf("placeholder %s should be empty and unavailable", d.Day)
		}
	}
}

func TestGetAvailabilityUnknownProfessional(t *testing.T) {
	db := newTestDB(t)
	_, err := NewAvailabilityService(db, nil).GetAvailability(context.Background(), uuid.New())
	mustKind(t, err, utils.KindNotFound)
}

func dayRecord(t *testing.T, svc *AvailabilityService, pro models.User, day models.DayOfWeek) models.Availability {
	t.Helper()
	week, err := svc.GetAvailability(context.Background(), pro.ID)
	if err != nil {
		t.Fatalf("GetAvailability: %v", err)
	}
	for _, d := range week {
		if d.Day == day {
			return d
		}
	}
	t.Fatalf("no %s record", day)
	return models.Availability{}
}

func TestReplaceDaySlots(t *testing.T) {
	db := newTestDB(t)
	pro := createProfessional(t, db, "Amina Hassan", nil)
	svc := NewAvailabilityService(db, nil)
	monday := dayRecord(t, svc, pro, models.Monday)

	updated, err := svc.ReplaceDaySlots(context.Background(), actorOf(pro), monday.ID,
		[]models.TimeSlot{slot("13:00", "14:00"), slot("09:00", "10:00")}, true)
	if err != nil {
		t.Fatalf("ReplaceDaySlots: %v", err)
	}
	if !updated.Available || len(updated.Slots) != 2 || updated.Slots[0].StartTime != "09:00" {
		t.Fatalf("unexpected record %+v", updated)
	}

	stored := dayRecord(t, svc, pro, models.Monday)
	if len(stored.Slots) != 2 || stored.Slots[1].StartTime != "13:00" {
		t.Fatalf("slots not persisted in order: %+v", stored.Slots)
	}

	if _, err := svc.ReplaceDaySlots(context.Background(), actorOf(pro), monday.ID, nil, false); err != nil {
		t.Fatalf("clearing day: %v", err)
	}
	if cleared := dayRecord(t, svc, pro, models.Monday); cleared.Available || len(cleared.Slots) != 0 {
		t.Fatalf("expected cleared day, got %+v", cleared)
	}
}

func TestReplaceDaySlotsRejectsBadInput(t *testing.T) {
	db := newTestDB(t)
	pro := createProfessional(t, db, "Amina Hassan", map[models.DayOfWeek][]models.TimeSlot{
		models.Monday: {slot("09:00", "10:00")},
	})
	svc := NewAvailabilityService(db, nil)
	monday := dayRecord(t, svc, pro, models.Monday)

	cases := []struct {
		name      string
		slots     []models.TimeSlot
		available bool
	}{
		{"overlapping", []models.TimeSlot{slot("09:00", "10:00"), slot("09:30", "10:30")}, true},
		{"reversed", []models.TimeSlot{slot("11:00", "10:00")}, true},
		{"bad clock", []models.TimeSlot{slot("9am", "10:00")}, true},
		{"available without slots", nil, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.ReplaceDaySlots(context.Background(), actorOf(pro), monday.ID, tc.slots, tc.available)
			mustKind(t, err, utils.KindValidation)
		})
	}

	stored := dayRecord(t, svc, pro, models.Monday)
	if len(stored.Slots) != 1 || stored.Slots[0].StartTime != "09:00" {
		t.Fatalf("rejected updates must not change the record: %+v", stored.Slots)
	}
}

func TestReplaceDaySlotsOwnership(t *testing.T) {
	db := newTestDB(t)
	pro := createProfessional(t, db, "Amina Hassan", nil)
	other := createProfessional(t, db, "Peter Kamau", nil)
	admin := createUser(t, db, "Site Admin", models.RoleAdmin)
	svc := NewAvailabilityService(db, nil)
	monday := dayRecord(t, svc, pro, models.Monday)
	slots := []models.TimeSlot{slot("09:00", "10:00")}

	_, err := svc.ReplaceDaySlots(context.Background(), actorOf(other), monday.ID, slots, true)
	mustKind(t, err, utils.KindForbidden)

	if _, err := svc.ReplaceDaySlots(context.Background(), actorOf(admin), monday.ID, slots, true); err != nil {
		t.Fatalf("admin edit: %v", err)
	}

	_, err = svc.ReplaceDaySlots(context.Background(), actorOf(pro), uuid.New(), slots, true)
	mustKind(t, err, utils.KindNotFound)
}

func TestInitializeWeek(t *testing.T) {
	db := newTestDB(t)
	u := createUser(t, db, "New Pro", models.RoleProfessional)
	if err := db.Create(&models.Professional{UserID: u.ID, Status: models.ProfessionalActive}).Error; err != nil {
		t.Fatal(err)
	}
	svc := NewAvailabilityService(db, nil)

	week, err := svc.InitializeWeek(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("InitializeWeek: %v", err)
	}
	if len(week) != 7 {
		t.Fatalf("expected 7 rows, got %d", len(week))
	}

	_, err = svc.InitializeWeek(context.Background(), u.ID)
	mustKind(t, err, utils.KindConflict)

	var count int64
	db.Model(&models.Availability{}).Where("professional_id = ?", u.ID).Count(&count)
	if count != 7 {
		t.Fatalf("second initialize must not add rows, have %d", count)
	}

	_, err = svc.InitializeWeek(context.Background(), uuid.New())
	mustKind(t, err, utils.KindNotFound)
}
