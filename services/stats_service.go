package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/anjiri1684/mindcare/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const statsCacheKey = "mindcare:admin:stats"

// StatsCache is the small slice of a key/value store the dashboard needs.
type StatsCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type StatsService struct {
	DB    *gorm.DB
	Slots *SlotService
	Cache StatsCache
	TTL   time.Duration
	Log   *zap.Logger
}

func NewStatsService(db *gorm.DB, slots *SlotService, cache StatsCache, ttl time.Duration, log *zap.Logger) *StatsService {
	return &StatsService{DB: db, Slots: slots, Cache: cache, TTL: ttl, Log: nopLogger(log)}
}

type DashboardStats struct {
	TotalUsers          int64                          `json:"total_users"`
	ActiveProfessionals int64                          `json:"active_professionals"`
	TotalBookings       int64                          `json:"total_bookings"`
	BookingsByStatus    map[models.BookingStatus]int64 `json:"bookings_by_status"`
	PendingBookings     int64                          `json:"pending_bookings"`
	BookingsLast30Days  int64                          `json:"bookings_last_30_days"`
	UpcomingBooked      int64                          `json:"upcoming_booked"`
	UpcomingOpen        int64                          `json:"upcoming_open"`
	UtilizationRate     float64                        `json:"utilization_rate"`
	GeneratedAt         time.Time                      `json:"generated_at"`
}

// Dashboard aggregates platform counters. Results are cached for TTL when a
// cache is configured; cache failures fall through to the database.
func (s *StatsService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	if s.Cache != nil && s.TTL > 0 {
		if raw, err := s.Cache.Get(ctx, statsCacheKey); err == nil && len(raw) > 0 {
			var cached DashboardStats
			if json.Unmarshal(raw, &cached) == nil {
				return &cached, nil
			}
		}
	}

	stats, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}

	if s.Cache != nil && s.TTL > 0 {
		if raw, err := json.Marshal(stats); err == nil {
			if err := s.Cache.Set(ctx, statsCacheKey, raw, s.TTL); err != nil {
				s.Log.Warn("Failed to cache dashboard stats", zap.Error(err))
			}
		}
	}
	return stats, nil
}

func (s *StatsService) compute(ctx context.Context) (*DashboardStats, error) {
	db := s.DB.WithContext(ctx)
	now := s.Slots.Clock.now()
	stats := &DashboardStats{
		BookingsByStatus: map[models.BookingStatus]int64{},
		GeneratedAt:      now,
	}

	if err := db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, dbError(err, "count users")
	}
	if err := db.Model(&models.Professional{}).
		Joins("JOIN users ON users.id = professionals.user_id").
		Where("professionals.status = ? AND users.is_active = ?", models.ProfessionalActive, true).
		Count(&stats.ActiveProfessionals).Error; err != nil {
		return nil, dbError(err, "count professionals")
	}

	var rows []struct {
		Status models.BookingStatus
		Count  int64
	}
	if err := db.Model(&models.Booking{}).Select("status, COUNT(*) AS count").Group("status").Scan(&rows).Error; err != nil {
		return nil, dbError(err, "count bookings")
	}
	for _, r := range rows {
		stats.BookingsByStatus[r.Status] = r.Count
		stats.TotalBookings += r.Count
	}
	stats.PendingBookings = stats.BookingsByStatus[models.BookingPending]

	if err := db.Model(&models.Booking{}).Where("created_at > ?", now.AddDate(0, 0, -30)).
		Count(&stats.BookingsLast30Days).Error; err != nil {
		return nil, dbError(err, "count recent bookings")
	}

	today := now.Format(models.DateLayout)
	dates := make([]string, 0, 7)
	for i := 0; i < 7; i++ {
		dates = append(dates, now.AddDate(0, 0, i).Format(models.DateLayout))
	}
	if err := db.Model(&models.Booking{}).
		Where("status IN ? AND session_date >= ? AND session_date <= ?", models.ActiveStatuses, today, dates[len(dates)-1]).
		Count(&stats.UpcomingBooked).Error; err != nil {
		return nil, dbError(err, "count upcoming bookings")
	}
	open, err := s.Slots.openSlots(db, dates, nil)
	if err != nil {
		return nil, err
	}
	stats.UpcomingOpen = int64(len(open))
	if total := stats.UpcomingBooked + stats.UpcomingOpen; total > 0 {
		stats.UtilizationRate = float64(stats.UpcomingBooked) / float64(total)
	}
	return stats, nil
}
