package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingPending     BookingStatus = "PENDING"
	BookingConfirmed   BookingStatus = "CONFIRMED"
	BookingCompleted   BookingStatus = "COMPLETED"
	BookingCancelled   BookingStatus = "CANCELLED"
	BookingRescheduled BookingStatus = "RESCHEDULED"
)

// ActiveStatuses hold a professional's time.
var ActiveStatuses = []BookingStatus{BookingPending, BookingConfirmed}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled, BookingRescheduled:
		return true
	}
	return false
}

func (s BookingStatus) Active() bool {
	return s == BookingPending || s == BookingConfirmed
}

var transitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {BookingCompleted, BookingCancelled},
}

// CanTransition reports whether the lifecycle graph has an edge from s to next.
func (s BookingStatus) CanTransition(next BookingStatus) bool {
	for _, to := range transitions[s] {
		if to == next {
			return true
		}
	}
	return false
}

type Modality string

const (
	ModalityVideo Modality = "VIDEO"
	ModalityAudio Modality = "AUDIO"
)

func (m Modality) Valid() bool {
	return m == ModalityVideo || m == ModalityAudio
}

type Booking struct {
	ID             uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID     `gorm:"type:uuid;not null;index" json:"user_id"`
	ProfessionalID uuid.UUID     `gorm:"type:uuid;not null;index:idx_bookings_professional_date" json:"professional_id"`
	Date           string        `gorm:"column:session_date;size:10;not null;index:idx_bookings_professional_date" json:"date"`
	StartTime      string        `gorm:"size:5;not null" json:"start_time"`
	EndTime        string        `gorm:"size:5;not null" json:"end_time"`
	Modality       Modality      `gorm:"size:10;not null" json:"modality"`
	Concern        string        `gorm:"type:text;not null" json:"concern"`
	Notes          *string       `gorm:"type:text" json:"notes,omitempty"`
	Status         BookingStatus `gorm:"size:20;not null;default:'PENDING';index" json:"status"`

	CancellationReason *string    `gorm:"type:text" json:"cancellation_reason,omitempty"`
	CancelledBy        *uuid.UUID `gorm:"type:uuid" json:"cancelled_by,omitempty"`
	MeetingLink        *string    `gorm:"size:255" json:"meeting_link,omitempty"`

	User         User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Professional Professional `gorm:"foreignKey:ProfessionalID;references:UserID" json:"professional,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.Status == "" {
		b.Status = BookingPending
	}
	return nil
}

func (b *Booking) Slot() TimeSlot {
	return TimeSlot{StartTime: b.StartTime, EndTime: b.EndTime}
}

// StartsAt resolves the booking's wall-clock start in loc.
func (b *Booking) StartsAt(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout+" "+ClockLayout, b.Date+" "+b.StartTime, loc)
}
