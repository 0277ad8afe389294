package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type DayOfWeek string

const (
	Monday    DayOfWeek = "MONDAY"
	Tuesday   DayOfWeek = "TUESDAY"
	Wednesday DayOfWeek = "WEDNESDAY"
	Thursday  DayOfWeek = "THURSDAY"
	Friday    DayOfWeek = "FRIDAY"
	Saturday  DayOfWeek = "SATURDAY"
	Sunday    DayOfWeek = "SUNDAY"
)

// Week lists the days in the order availability is returned.
var Week = []DayOfWeek{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var weekdays = map[time.Weekday]DayOfWeek{
	time.Monday:    Monday,
	time.Tuesday:   Tuesday,
	time.Wednesday: Wednesday,
	time.Thursday:  Thursday,
	time.Friday:    Friday,
	time.Saturday:  Saturday,
	time.Sunday:    Sunday,
}

func DayOf(t time.Time) DayOfWeek {
	return weekdays[t.Weekday()]
}

type Availability struct {
	ID             uuid.UUID                     `gorm:"type:uuid;primaryKey" json:"id"`
	ProfessionalID uuid.UUID                     `gorm:"type:uuid;not null;uniqueIndex:idx_availability_professional_day" json:"professional_id"`
	Day            DayOfWeek                     `gorm:"size:10;not null;uniqueIndex:idx_availability_professional_day" json:"day"`
	Slots          datatypes.JSONSlice[TimeSlot] `gorm:"not null" json:"slots"`
	Available      bool                          `gorm:"not null;default:false" json:"available"`
	CreatedAt      time.Time                     `json:"created_at"`
	UpdatedAt      time.Time                     `json:"updated_at"`
}

func (a *Availability) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Slots == nil {
		a.Slots = datatypes.JSONSlice[TimeSlot]{}
	}
	return nil
}
