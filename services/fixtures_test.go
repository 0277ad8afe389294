package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	config "github.com/anjiri1684/mindcare/configs"
	"github.com/anjiri1684/mindcare/database"
	"github.com/anjiri1684/mindcare/models"
	"github.com/anjiri1684/mindcare/utils"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Tuesday 2030-01-01 09:00 UTC. The following Monday is 2030-01-07.
var testNow = time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC)

const (
	nextMonday  = "2030-01-07"
	nextTuesday = "2030-01-08"
)

var testClock = Clock{Now: func() time.Time { return testNow }, Location: time.UTC}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Open(config.Config{
		DBDriver:    "sqlite",
		DatabaseURL: "file:" + name + "?mode=memory&cache=shared",
		Env:         "production",
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func createUser(t *testing.T, db *gorm.DB, name string, role models.Role) models.User {
	t.Helper()
	u := models.User{
		FullName: name,
		Email:    strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@mindcare.test",
		Password: "x",
		Role:     role,
		IsActive: true,
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

// createProfessional adds a professional with a week of rows and the given
// weekday slots marked available.
func createProfessional(t *testing.T, db *gorm.DB, name string, week map[models.DayOfWeek][]models.TimeSlot) models.User {
	t.Helper()
	u := createUser(t, db, name, models.RoleProfessional)
	if err := db.Create(&models.Professional{UserID: u.ID, Status: models.ProfessionalActive}).Error; err != nil {
		t.Fatalf("create professional: %v", err)
	}
	if _, err := initializeWeek(db, u.ID); err != nil {
		t.Fatalf("initialize week: %v", err)
	}
	for day, slots := range week {
		err := db.Model(&models.Availability{}).
			Where("professional_id = ? AND day = ?", u.ID, day).
			Updates(map[string]any{"slots": datatypes.JSONSlice[models.TimeSlot](slots), "available": true}).Error
		if err != nil {
			t.Fatalf("set %s slots: %v", day, err)
		}
	}
	return u
}

func slot(start, end string) models.TimeSlot {
	return models.TimeSlot{StartTime: start, EndTime: end}
}

func actorOf(u models.User) Actor {
	return Actor{UserID: u.ID, Role: u.Role}
}

func mustKind(t *testing.T, err error, kind utils.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	if got := utils.KindOf(err); got != kind {
		t.Fatalf("expected %s error, got %s (%v)", kind, got, err)
	}
}

type sentNotification struct {
	Recipient uuid.UUID
	Kind      models.NotificationType
	BookingID *uuid.UUID
	Message   string
}

type recordingDispatcher struct {
	mu   sync.Mutex
	sent []sentNotification
	err  error
}

func (d *recordingDispatcher) Notify(_ context.Context, recipient uuid.UUID, kind models.NotificationType, bookingID *uuid.UUID, message string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, sentNotification{recipient, kind, bookingID, message})
	return d.err
}

func (d *recordingDispatcher) kinds() []models.NotificationType {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]models.NotificationType, 0, len(d.sent))
	for _, n := range d.sent {
		out = append(out, n.Kind)
	}
	return out
}

type bookingFixture struct {
	db       *gorm.DB
	slots    *SlotService
	bookings *BookingService
	notes    *recordingDispatcher
	pro      models.User
	client   models.User
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()
	db := newTestDB(t)
	pro := createProfessional(t, db, "Grace Wanjiru", map[models.DayOfWeek][]models.TimeSlot{
		models.Monday:  {slot("09:00", "10:00"), slot("10:00", "11:00")},
		models.Tuesday: {slot("14:00", "15:00")},
	})
	client := createUser(t, db, "Brian Otieno", models.RoleUser)
	slots := NewSlotService(db, testClock, 31)
	notes := &recordingDispatcher{}
	return &bookingFixture{
		db:       db,
		slots:    slots,
		bookings: NewBookingService(db, slots, notes, nil, "https://meet.example.test"),
		notes:    notes,
		pro:      pro,
		client:   client,
	}
}

func (f *bookingFixture) book(t *testing.T, date string, s models.TimeSlot) *models.Booking {
	t.Helper()
	b, err := f.bookings.Create(context.Background(), actorOf(f.client), CreateBookingInput{
		ProfessionalID: f.pro.ID,
		Date:           date,
		StartTime:      s.StartTime,
		EndTime:        s.EndTime,
		Modality:       models.ModalityVideo,
		Concern:        "Anxiety",
	})
	if err != nil {
		t.Fatalf("create booking %s %s: %v", date, s, err)
	}
	return b
}
