package jobs

import (
	"context"
	"time"

	"github.com/anjiri1684/mindcare/services"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const jobTimeout = 2 * time.Minute

// Runner holds what the periodic booking jobs need.
type Runner struct {
	DB       *gorm.DB
	Notifier services.Dispatcher
	Clock    services.Clock
	Log      *zap.Logger
}

// Schedule registers both jobs on c every five minutes.
func (r *Runner) Schedule(c *cron.Cron) error {
	if _, err := c.AddFunc("*/5 * * * *", r.wrap("SendSessionReminders", r.SendSessionReminders)); err != nil {
		return err
	}
	if _, err := c.AddFunc("*/5 * * * *", r.wrap("ExpireStalePendingBookings", r.ExpireStalePendingBookings)); err != nil {
		return err
	}
	return nil
}

func (r *Runner) wrap(name string, job func(context.Context) (int, error)) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		n, err := job(ctx)
		if err != nil {
			r.Log.Error("Job failed", zap.String("job", name), zap.Error(err))
			return
		}
		if n > 0 {
			r.Log.Info("Job finished", zap.String("job", name), zap.Int("bookings", n))
		}
	}
}
