package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/anjiri1684/mindcare/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	reminderLead   = 60 * time.Minute
	reminderWindow = 5 * time.Minute
)

// SendSessionReminders notifies both parties of CONFIRMED sessions starting
// in [60, 65) minutes. A booking that already has a reminder is skipped.
func (r *Runner) SendSessionReminders(ctx context.Context) (int, error) {
	now := r.Clock.Current()
	loc := r.Clock.Zone()
	from, to := now.Add(reminderLead), now.Add(reminderLead+reminderWindow)

	dates := []string{from.Format(models.DateLayout)}
	if d := to.Format(models.DateLayout); d != dates[0] {
		dates = append(dates, d)
	}

	var bookings []models.Booking
	if err := r.DB.WithContext(ctx).
		Where("status = ? AND session_date IN ?", models.BookingConfirmed, dates).
		Find(&bookings).Error; err != nil {
		return 0, fmt.Errorf("load upcoming bookings: %w", err)
	}

	sent := 0
	for _, b := range bookings {
		start, err := b.StartsAt(loc)
		if err != nil || start.Before(from) || !start.Before(to) {
			continue
		}
		var already int64
		if err := r.DB.WithContext(ctx).Model(&models.Notification{}).
			Where("booking_id = ? AND type = ?", b.ID, models.NotificationSessionReminder).
			Count(&already).Error; err != nil {
			return sent, fmt.Errorf("check reminders: %w", err)
		}
		if already > 0 {
			continue
		}

		msg := fmt.Sprintf("Your session on %s starts at %s.", b.Date, b.StartTime)
		if b.MeetingLink != nil {
			msg += " Join: " + *b.MeetingLink
		}
		for _, recipient := range []uuid.UUID{b.UserID, b.ProfessionalID} {
			if err := r.Notifier.Notify(ctx, recipient, models.NotificationSessionReminder, &b.ID, msg); err != nil {
				r.Log.Warn("Reminder failed", zap.String("booking_id", b.ID.String()), zap.Error(err))
			}
		}
		sent++
	}
	return sent, nil
}
