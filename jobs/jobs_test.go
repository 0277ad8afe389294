package jobs

import (
	"context"
	"sync"
	"testing"
	"time"

	config "github.com/anjiri1684/mindcare/configs"
	"github.com/anjiri1684/mindcare/database"
	"github.com/anjiri1684/mindcare/models"
	"github.com/anjiri1684/mindcare/services"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type recorder struct {
	mu   sync.Mutex
	sent []uuid.UUID
	kind []models.NotificationType
}

func (r *recorder) Notify(_ context.Context, recipient uuid.UUID, kind models.NotificationType, _ *uuid.UUID, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, recipient)
	r.kind = append(r.kind, kind)
	return nil
}

func newRunner(t *testing.T, now time.Time) (*Runner, *recorder) {
	t.Helper()
	db, err := database.Open(config.Config{DBDriver: "sqlite", DatabaseURL: "file:" + t.Name() + "?mode=memory&cache=shared", Env: "production"})
	if err != nil {
		t.Fatal(err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	if err := database.Migrate(db); err != nil {
		t.Fatal(err)
	}
	rec := &recorder{}
	return &Runner{
		DB:       db,
		Notifier: rec,
		Clock:    services.Clock{Now: func() time.Time { return now }, Location: time.UTC},
		Log:      zap.NewNop(),
	}, rec
}

func addBooking(t *testing.T, db *gorm.DB, date, start, end string, status models.BookingStatus) models.Booking {
	t.Helper()
	b := models.Booking{
		UserID:         uuid.New(),
		ProfessionalID: uuid.New(),
		Date:           date,
		StartTime:      start,
		EndTime:        end,
		Modality:       models.ModalityVideo,
		Concern:        "Anxiety",
		Status:         status,
	}
	if err := db.Create(&b).Error; err != nil {
		t.Fatal(err)
	}
	return b
}

func TestSendSessionReminders(t *testing.T) {
	now := time.Date(2030, 1, 7, 8, 0, 0, 0, time.UTC)
	r, rec := newRunner(t, now)
	addBooking(t, r.DB, "2030-01-07", "09:00", "10:00", models.BookingConfirmed)
	addBooking(t, r.DB, "2030-01-07", "09:04", "10:00", models.BookingConfirmed)
	addBooking(t, r.DB, "2030-01-07", "09:05", "10:00", models.BookingConfirmed)
	addBooking(t, r.DB, "2030-01-07", "09:00", "10:00", models.BookingPending)
	addBooking(t, r.DB, "2030-01-07", "08:30", "09:00", models.BookingConfirmed)

	n, err := r.SendSessionReminders(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("expected reminders for the 09:00 and 09:04 sessions, got %d", n)
	}
	if len(rec.sent) != 4 {
		t.Fatalf("both parties should be reminded, got %d notifications", len(rec.sent))
	}
}

func TestSendSessionRemindersAcrossMidnight(t *testing.T) {
	now := time.Date(2030, 1, 7, 23, 2, 0, 0, time.UTC)
	r, _ := newRunner(t, now)
	addBooking(t, r.DB, "2030-01-08", "00:05", "01:00", models.BookingConfirmed)

	n, err := r.SendSessionReminders(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("expected the after-midnight session to be reminded, got %d", n)
	}
}

func TestExpireStalePendingBookings(t *testing.T) {
	now := time.Date(2030, 1, 7, 12, 0, 0, 0, time.UTC)
	r, rec := newRunner(t, now)
	stale := addBooking(t, r.DB, "2030-01-07", "11:00", "12:00", models.BookingPending)
	yesterday := addBooking(t, r.DB, "2030-01-06", "15:00", "16:00", models.BookingPending)
	upcoming := addBooking(t, r.DB, "2030-01-07", "13:00", "14:00", models.BookingPending)
	confirmed := addBooking(t, r.DB, "2030-01-07", "10:00", "11:00", models.BookingConfirmed)

	n, err := r.ExpireStalePendingBookings(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("expected 2 expired bookings, got %d", n)
	}

	status := func(id uuid.UUID) models.BookingStatus {
		var b models.Booking
		r.DB.First(&b, "id = ?", id)
		return b.Status
	}
	if status(stale.ID) != models.BookingCancelled || status(yesterday.ID) != models.BookingCancelled {
		t.Fatal("stale pending bookings should be cancelled")
	}
	if status(upcoming.ID) != models.BookingPending || status(confirmed.ID) != models.BookingConfirmed {
		t.Fatal("other bookings must be left alone")
	}
	if len(rec.kind) != 2 || rec.kind[0] != models.NotificationBookingCancelled {
		t.Fatalf("expected cancellation notices, got %v", rec.kind)
	}

	again, _ := r.ExpireStalePendingBookings(context.Background())
	if again != 0 {
		t.Fatalf("second run should find nothing, got %d", again)
	}
}

func TestSchedule(t *testing.T) {
	r, _ := newRunner(t, time.Now())
	c := cron.New()
	if err := r.Schedule(c); err != nil {
		t.Fatal(err)
	}
	if len(c.Entries()) != 2 {
		t.Fatalf("expected 2 cron entries, got %d", len(c.Entries()))
	}
}
