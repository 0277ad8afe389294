package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anjiri1684/mindcare/models"
	"github.com/anjiri1684/mindcare/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookingService struct {
	DB             *gorm.DB
	Slots          *SlotService
	Notifier       Dispatcher
	Log            *zap.Logger
	MeetingBaseURL string
}

func NewBookingService(db *gorm.DB, slots *SlotService, notifier Dispatcher, log *zap.Logger, meetingBaseURL string) *BookingService {
	return &BookingService{DB: db, Slots: slots, Notifier: notifier, Log: nopLogger(log), MeetingBaseURL: meetingBaseURL}
}

type CreateBookingInput struct {
	ProfessionalID uuid.UUID
	Date           string
	StartTime      string
	EndTime        string
	Modality       models.Modality
	Concern        string
	Notes          *string
}

type RescheduleInput struct {
	Date      string
	StartTime string
	EndTime   string
	Reason    *string
}

type BookingFilter struct {
	Status         models.BookingStatus
	From           string
	To             string
	ProfessionalID *uuid.UUID
	UserID         *uuid.UUID
	Page           utils.Page
}

type BookingList struct {
	Data []models.Booking `json:"data"`
	Meta utils.Meta       `json:"meta"`
}

// Create books an open window as PENDING. Availability is checked again
// inside the transaction with the professional row locked.
func (s *BookingService) Create(ctx context.Context, actor Actor, in CreateBookingInput) (*models.Booking, error) {
	slot := models.TimeSlot{StartTime: in.StartTime, EndTime: in.EndTime}
	if err := s.validateWindow(in.Date, slot); err != nil {
		return nil, err
	}
	if !in.Modality.Valid() {
		return nil, utils.ValidationError("modality must be VIDEO or AUDIO")
	}
	concern := strings.TrimSpace(in.Concern)
	if concern == "" {
		return nil, utils.ValidationError("concern is required")
	}
	if in.ProfessionalID == actor.UserID {
		return nil, utils.ValidationError("You cannot book a session with yourself")
	}

	booking := models.Booking{
		UserID:         actor.UserID,
		ProfessionalID: in.ProfessionalID,
		Date:           in.Date,
		StartTime:      in.StartTime,
		EndTime:        in.EndTime,
		Modality:       in.Modality,
		Concern:        concern,
		Notes:          in.Notes,
		Status:         models.BookingPending,
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockProfessional(tx, in.ProfessionalID); err != nil {
			return err
		}
		ok, err := slotAvailable(tx, in.ProfessionalID, in.Date, slot, nil, s.Slots.Clock.location())
		if err != nil {
			return err
		}
		if !ok {
			return utils.ConflictError("The selected slot is no longer available")
		}
		return tx.Create(&booking).Error
	})
	if err != nil {
		return nil, slotConflict(err, "create booking")
	}

	s.Log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("professional_id", booking.ProfessionalID.String()),
		zap.String("date", booking.Date),
		zap.String("window", slot.String()))
	s.notify(ctx, booking.ProfessionalID, models.NotificationBookingCreated, &booking,
		fmt.Sprintf("New session request for %s %s.", booking.Date, slot))
	return &booking, nil
}

// Confirm moves PENDING to CONFIRMED and issues a meeting link if none is set.
func (s *BookingService) Confirm(ctx context.Context, actor Actor, bookingID uuid.UUID) (*models.Booking, error) {
	booking, err := s.transition(ctx, bookingID, func(tx *gorm.DB, b *models.Booking) error {
		if b.ProfessionalID != actor.UserID {
			return utils.ForbiddenError("Only the booked professional can confirm this session")
		}
		if b.Status != models.BookingPending {
			return utils.InvalidStateError("Only pending bookings can be confirmed, this one is %s", b.Status)
		}
		b.Status = models.BookingConfirmed
		if b.MeetingLink == nil && s.MeetingBaseURL != "" {
			link, err := utils.MeetingLink(s.MeetingBaseURL)
			if err != nil {
				return err
			}
			b.MeetingLink = &link
		}
		return tx.Model(b).Select("Status", "MeetingLink").Updates(b).Error
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, booking.UserID, models.NotificationBookingConfirmed, booking,
		fmt.Sprintf("Your session on %s at %s has been confirmed.", booking.Date, booking.StartTime))
	return booking, nil
}

// Cancel is open to the booking's user, its professional and admins.
func (s *BookingService) Cancel(ctx context.Context, actor Actor, bookingID uuid.UUID, reason string) (*models.Booking, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, utils.ValidationError("A cancellation reason is required")
	}

	booking, err := s.transition(ctx, bookingID, func(tx *gorm.DB, b *models.Booking) error {
		if b.UserID != actor.UserID && b.ProfessionalID != actor.UserID && !actor.IsAdmin() {
			return utils.ForbiddenError("You cannot cancel this booking")
		}
		if !b.Status.CanTransition(models.BookingCancelled) {
			return utils.InvalidStateError("A %s booking cannot be cancelled", b.Status)
		}
		cancelledBy := actor.UserID
		b.Status = models.BookingCancelled
		b.CancellationReason = &reason
		b.CancelledBy = &cancelledBy
		return tx.Model(b).Select("Status", "CancellationReason", "CancelledBy").Updates(b).Error
	})
	if err != nil {
		return nil, err
	}

	msg := fmt.Sprintf("The session on %s at %s was cancelled: %s", booking.Date, booking.StartTime, reason)
	if actor.UserID != booking.UserID {
		s.notify(ctx, booking.UserID, models.NotificationBookingCancelled, booking, msg)
	}
	if actor.UserID != booking.ProfessionalID {
		s.notify(ctx, booking.ProfessionalID, models.NotificationBookingCancelled, booking, msg)
	}
	return booking, nil
}

// Complete closes a CONFIRMED session.
func (s *BookingService) Complete(ctx context.Context, actor Actor, bookingID uuid.UUID) (*models.Booking, error) {
	booking, err := s.transition(ctx, bookingID, func(tx *gorm.DB, b *models.Booking) error {
		if b.ProfessionalID != actor.UserID {
			return utils.ForbiddenError("Only the booked professional can complete this session")
		}
		if b.Status != models.BookingConfirmed {
			return utils.InvalidStateError("Only confirmed bookings can be completed, this one is %s", b.Status)
		}
		b.Status = models.BookingCompleted
		return tx.Model(b).Select("Status").Updates(b).Error
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, booking.UserID, models.NotificationBookingCompleted, booking,
		fmt.Sprintf("Your session on %s has been marked as completed.", booking.Date))
	return booking, nil
}

// Reschedule moves an active booking to a new window in place. The status
// does not change and a colliding window leaves the booking untouched.
func (s *BookingService) Reschedule(ctx context.Context, actor Actor, bookingID uuid.UUID, in RescheduleInput) (*models.Booking, error) {
	slot := models.TimeSlot{StartTime: in.StartTime, EndTime: in.EndTime}
	if err := s.validateWindow(in.Date, slot); err != nil {
		return nil, err
	}

	var previous models.TimeSlot
	var previousDate string
	booking, err := s.transition(ctx, bookingID, func(tx *gorm.DB, b *models.Booking) error {
		if b.UserID != actor.UserID && b.ProfessionalID != actor.UserID {
			return utils.ForbiddenError("You cannot reschedule this booking")
		}
		if !b.Status.Active() {
			return utils.InvalidStateError("A %s booking cannot be rescheduled", b.Status)
		}
		if err := lockProfessional(tx, b.ProfessionalID); err != nil {
			return err
		}
		ok, err := slotAvailable(tx, b.ProfessionalID, in.Date, slot, &b.ID, s.Slots.Clock.location())
		if err != nil {
			return err
		}
		if !ok {
			return utils.ConflictError("The requested window is not available")
		}

		previous, previousDate = b.Slot(), b.Date
		b.Date, b.StartTime, b.EndTime = in.Date, in.StartTime, in.EndTime
		return tx.Model(b).Select("Date", "StartTime", "EndTime").Updates(b).Error
	})
	if err != nil {
		return nil, err
	}

	s.Log.Info("Booking rescheduled",
		zap.String("booking_id", booking.ID.String()),
		zap.String("from", previousDate+" "+previous.String()),
		zap.String("to", booking.Date+" "+slot.String()))

	msg := fmt.Sprintf("The session on %s at %s moved to %s at %s.", previousDate, previous.StartTime, booking.Date, booking.StartTime)
	if in.Reason != nil && strings.TrimSpace(*in.Reason) != "" {
		msg += " Reason: " + strings.TrimSpace(*in.Reason)
	}
	other := booking.ProfessionalID
	if actor.UserID == booking.ProfessionalID {
		other = booking.UserID
	}
	s.notify(ctx, other, models.NotificationBookingRescheduled, booking, msg)
	return booking, nil
}

// SetMeetingLink replaces the link of a CONFIRMED booking.
func (s *BookingService) SetMeetingLink(ctx context.Context, actor Actor, bookingID uuid.UUID, link string) (*models.Booking, error) {
	link = strings.TrimSpace(link)
	if link == "" {
		return nil, utils.ValidationError("meeting_link is required")
	}
	return s.transition(ctx, bookingID, func(tx *gorm.DB, b *models.Booking) error {
		if b.ProfessionalID != actor.UserID {
			return utils.ForbiddenError("Only the booked professional can set the meeting link")
		}
		if b.Status != models.BookingConfirmed {
			return utils.InvalidStateError("Meeting links can only be added to confirmed bookings")
		}
		b.MeetingLink = &link
		return tx.Model(b).Select("MeetingLink").Updates(b).Error
	})
}

func (s *BookingService) Get(ctx context.Context, actor Actor, bookingID uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	err := s.DB.WithContext(ctx).
		Preload("User").
		Preload("Professional.User").
		First(&booking, "id = ?", bookingID).Error
	if isNotFound(err) {
		return nil, utils.NotFoundError("Booking not found")
	}
	if err != nil {
		return nil, dbError(err, "load booking")
	}
	if booking.UserID != actor.UserID && booking.ProfessionalID != actor.UserID && !actor.IsAdmin() {
		return nil, utils.ForbiddenError("You cannot view this booking")
	}
	return &booking, nil
}

// List pages through bookings visible to the actor: users see their own,
// professionals the ones booked with them, admins everything.
func (s *BookingService) List(ctx context.Context, actor Actor, f BookingFilter) (*BookingList, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, utils.ValidationError("Unknown status %q", f.Status)
	}
	for _, d := range []string{f.From, f.To} {
		if d == "" {
			continue
		}
		if _, err := models.ParseDate(d, s.Slots.Clock.location()); err != nil {
			return nil, utils.ValidationError("Invalid date %q, expected YYYY-MM-DD", d)
		}
	}

	scope := func(db *gorm.DB) *gorm.DB {
		switch {
		case actor.IsAdmin():
		case actor.Role == models.RoleProfessional:
			db = db.Where("professional_id = ?", actor.UserID)
		default:
			db = db.Where("user_id = ?", actor.UserID)
		}
		if f.Status != "" {
			db = db.Where("status = ?", f.Status)
		}
		if f.From != "" {
			db = db.Where("session_date >= ?", f.From)
		}
		if f.To != "" {
			db = db.Where("session_date <= ?", f.To)
		}
		if f.ProfessionalID != nil {
			db = db.Where("professional_id = ?", *f.ProfessionalID)
		}
		if f.UserID != nil {
			db = db.Where("user_id = ?", *f.UserID)
		}
		return db
	}

	page := f.Page.Normalize()
	db := s.DB.WithContext(ctx)

	var total int64
	if err := db.Model(&models.Booking{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, dbError(err, "count bookings")
	}

	bookings := []models.Booking{}
	if err := db.Model(&models.Booking{}).Scopes(scope).
		Preload("User").
		Preload("Professional.User").
		Order("session_date desc").Order("start_time desc").
		Offset(page.Offset()).Limit(page.Limit).
		Find(&bookings).Error; err != nil {
		return nil, dbError(err, "list bookings")
	}

	return &BookingList{Data: bookings, Meta: utils.BuildMeta(total, page)}, nil
}

// transition loads and locks a booking, applies fn and commits.
func (s *BookingService) transition(ctx context.Context, bookingID uuid.UUID, fn func(tx *gorm.DB, b *models.Booking) error) (*models.Booking, error) {
	var booking models.Booking
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&booking, "id = ?", bookingID).Error; err != nil {
			if isNotFound(err) {
				return utils.NotFoundError("Booking not found")
			}
			return err
		}
		return fn(tx, &booking)
	})
	if err != nil {
		return nil, slotConflict(err, "update booking")
	}
	return &booking, nil
}

func (s *BookingService) validateWindow(date string, slot models.TimeSlot) error {
	if _, err := models.ParseDate(date, s.Slots.Clock.location()); err != nil {
		return utils.ValidationError("date must be formatted as YYYY-MM-DD")
	}
	if err := slot.Validate(); err != nil {
		return utils.ValidationError("%v", err)
	}
	if s.Slots.Clock.Started(date, slot.StartTime) {
		return utils.ValidationError("Sessions cannot be booked in the past")
	}
	return nil
}

func (s *BookingService) notify(ctx context.Context, recipient uuid.UUID, kind models.NotificationType, b *models.Booking, message string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.Notify(ctx, recipient, kind, &b.ID, message); err != nil {
		s.Log.Warn("Notification failed",
			zap.String("booking_id", b.ID.String()),
			zap.String("type", string(kind)),
			zap.Error(err))
	}
}

// lockProfessional serialises writes for one professional's calendar.
func lockProfessional(tx *gorm.DB, professionalID uuid.UUID) error {
	var prof models.Professional
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("User").
		First(&prof, "user_id = ?", professionalID).Error
	if isNotFound(err) {
		return utils.NotFoundError("Professional not found")
	}
	if err != nil {
		return err
	}
	if prof.Status != models.ProfessionalActive || !prof.User.IsActive {
		return utils.NotFoundError("Professional is not accepting bookings")
	}
	return nil
}

// slotConflict reports a lost race on the active window index as a slot
// conflict rather than a generic duplicate.
func slotConflict(err error, op string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return utils.ConflictError("The selected slot is no longer available")
	}
	return dbError(err, op)
}
