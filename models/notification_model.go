package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationBookingCreated     NotificationType = "BOOKING_CREATED"
	NotificationBookingConfirmed   NotificationType = "BOOKING_CONFIRMED"
	NotificationBookingCancelled   NotificationType = "BOOKING_CANCELLED"
	NotificationBookingCompleted   NotificationType = "BOOKING_COMPLETED"
	NotificationBookingRescheduled NotificationType = "BOOKING_RESCHEDULED"
	NotificationSessionReminder    NotificationType = "SESSION_REMINDER"
)

type Notification struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	RecipientID uuid.UUID        `gorm:"type:uuid;not null;index" json:"recipient_id"`
	Type        NotificationType `gorm:"size:40;not null" json:"type"`
	BookingID   *uuid.UUID       `gorm:"type:uuid" json:"booking_id,omitempty"`
	Message     string           `gorm:"type:text;not null" json:"message"`
	ReadAt      *time.Time       `json:"read_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
