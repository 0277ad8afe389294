package jobs

import (
	"context"
	"fmt"

	"github.com/anjiri1684/mindcare/models"
	"go.uber.org/zap"
)

const expiredReason = "Expired: not confirmed before the session start"

// ExpireStalePendingBookings cancels PENDING bookings whose start has passed
// so they stop holding the professional's window.
func (r *Runner) ExpireStalePendingBookings(ctx context.Context) (int, error) {
	now := r.Clock.Current()
	loc := r.Clock.Zone()

	var pending []models.Booking
	if err := r.DB.WithContext(ctx).
		Where("status = ? AND session_date <= ?", models.BookingPending, now.Format(models.DateLayout)).
		Find(&pending).Error; err != nil {
		return 0, fmt.Errorf("load pending bookings: %w", err)
	}

	expired := 0
	for _, b := range pending {
		start, err := b.StartsAt(loc)
		if err != nil || start.After(now) {
			continue
		}
		res := r.DB.WithContext(ctx).Model(&models.Booking{}).
			Where("id = ? AND status = ?", b.ID, models.BookingPending).
			Updates(map[string]any{
				"status":              models.BookingCancelled,
				"cancellation_reason": expiredReason,
			})
		if res.Error != nil {
			return expired, fmt.Errorf("expire booking %s: %w", b.ID, res.Error)
		}
		if res.RowsAffected == 0 {
			continue
		}
		expired++
		msg := fmt.Sprintf("Your session request for %s at %s expired before it was confirmed.", b.Date, b.StartTime)
		if err := r.Notifier.Notify(ctx, b.UserID, models.NotificationBookingCancelled, &b.ID, msg); err != nil {
			r.Log.Warn("Expiry notification failed", zap.String("booking_id", b.ID.String()), zap.Error(err))
		}
	}
	return expired, nil
}
