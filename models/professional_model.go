package models

import (
	"time"

	"github.com/google/uuid"
)

type ProfessionalStatus string

const (
	ProfessionalActive    ProfessionalStatus = "ACTIVE"
	ProfessionalSuspended ProfessionalStatus = "SUSPENDED"
)

type Professional struct {
	UserID         uuid.UUID          `gorm:"type:uuid;primaryKey" json:"user_id"`
	Title          *string            `gorm:"size:255" json:"title"`
	Bio            *string            `gorm:"type:text" json:"bio"`
	Specialization *string            `gorm:"size:255" json:"specialization"`
	Status         ProfessionalStatus `gorm:"size:20;not null;default:'ACTIVE'" json:"status"`
	User           User               `gorm:"foreignKey:UserID" json:"user"`
	CreatedAt      time.Time          `json:"-"`
	UpdatedAt      time.Time          `json:"-"`
}
