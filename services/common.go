package services

import (
	"context"
	"errors"
	"time"

	"github.com/anjiri1684/mindcare/models"
	"github.com/anjiri1684/mindcare/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Actor is the authenticated caller of a service operation.
type Actor struct {
	UserID uuid.UUID
	Role   models.Role
}

func (a Actor) IsAdmin() bool { return a.Role.IsAdmin() }

// Clock supplies "now" and the zone wall-clock dates and times are read in.
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

func (c Clock) now() time.Time {
	loc := c.location()
	if c.Now == nil {
		return time.Now().In(loc)
	}
	return c.Now().In(loc)
}

func (c Clock) location() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

// Current is "now" in the clock's zone.
func (c Clock) Current() time.Time { return c.now() }

func (c Clock) Zone() *time.Location { return c.location() }

// Today is the current calendar date in the clock's zone.
func (c Clock) Today() string {
	return c.now().Format(models.DateLayout)
}

// Started reports whether date+clock is at or before now.
func (c Clock) Started(date, clock string) bool {
	at, err := time.ParseInLocation(models.DateLayout+" "+models.ClockLayout, date+" "+clock, c.location())
	if err != nil {
		return true
	}
	return !at.After(c.now())
}

// Dispatcher delivers booking notifications. Callers treat failures as non-fatal.
type Dispatcher interface {
	Notify(ctx context.Context, recipientID uuid.UUID, kind models.NotificationType, bookingID *uuid.UUID, message string) error
}

func nopLogger(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// dbError maps store errors that have a domain meaning and wraps the rest.
func dbError(err error, op string) error {
	var appErr *utils.AppError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return utils.ConflictError("%s conflicts with an existing record", op)
	}
	return utils.InternalError(err, "Failed to %s", op)
}
