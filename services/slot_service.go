package services

import (
	"context"
	"sort"
	"time"

	"github.com/anjiri1684/mindcare/models"
	"github.com/anjiri1684/mindcare/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const defaultMaxRangeDays = 31

type SlotService struct {
	DB           *gorm.DB
	Clock        Clock
	MaxRangeDays int
}

func NewSlotService(db *gorm.DB, clock Clock, maxRangeDays int) *SlotService {
	if maxRangeDays <= 0 {
		maxRangeDays = defaultMaxRangeDays
	}
	return &SlotService{DB: db, Clock: clock, MaxRangeDays: maxRangeDays}
}

// SlotQuery selects candidate dates either as an explicit list or an
// inclusive From..To range.
type SlotQuery struct {
	Dates          []string
	From           string
	To             string
	ProfessionalID *uuid.UUID
}

type OpenSlot struct {
	ProfessionalID   uuid.UUID        `json:"professional_id"`
	ProfessionalName string           `json:"professional_name"`
	Date             string           `json:"date"`
	Day              models.DayOfWeek `json:"day"`
	StartTime        string           `json:"start_time"`
	EndTime          string           `json:"end_time"`
}

// ListOpenSlots expands every candidate date into the weekday windows of
// active professionals, minus windows that collide with a pending or
// confirmed booking. Output is ordered by date, professional, start time.
func (s *SlotService) ListOpenSlots(ctx context.Context, q SlotQuery) ([]OpenSlot, error) {
	dates, err := s.resolveDates(q)
	if err != nil {
		return nil, err
	}
	return s.openSlots(s.DB.WithContext(ctx), dates, q.ProfessionalID)
}

// CheckSlotAvailable is the point check behind booking creation and rescheduling.
func (s *SlotService) CheckSlotAvailable(ctx context.Context, professionalID uuid.UUID, date string, slot models.TimeSlot, exclude *uuid.UUID) (bool, error) {
	if _, err := models.ParseDate(date, s.Clock.location()); err != nil {
		return false, utils.ValidationError("date must be formatted as YYYY-MM-DD")
	}
	if err := slot.Validate(); err != nil {
		return false, utils.ValidationError("%v", err)
	}
	ok, err := slotAvailable(s.DB.WithContext(ctx), professionalID, date, slot, exclude, s.Clock.location())
	if err != nil {
		return false, dbError(err, "check slot availability")
	}
	return ok, nil
}

func (s *SlotService) resolveDates(q SlotQuery) ([]string, error) {
	loc := s.Clock.location()
	var days []time.Time

	if len(q.Dates) > 0 {
		for _, raw := range q.Dates {
			d, err := models.ParseDate(raw, loc)
			if err != nil {
				return nil, utils.ValidationError("Invalid date %q, expected YYYY-MM-DD", raw)
			}
			days = append(days, d)
		}
	} else {
		if q.From == "" {
			q.From = s.Clock.Today()
		}
		from, err := models.ParseDate(q.From, loc)
		if err != nil {
			return nil, utils.ValidationError("Invalid from date %q, expected YYYY-MM-DD", q.From)
		}
		to := from.AddDate(0, 0, 6)
		if q.To != "" {
			to, err = models.ParseDate(q.To, loc)
			if err != nil {
				return nil, utils.ValidationError("Invalid to date %q, expected YYYY-MM-DD", q.To)
			}
		}
		if to.Before(from) {
			return nil, utils.ValidationError("to must not be before from")
		}
		for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
			days = append(days, d)
			if len(days) > s.MaxRangeDays {
				break
			}
		}
	}

	if len(days) > s.MaxRangeDays {
		return nil, utils.ValidationError("At most %d dates can be queried at once", s.MaxRangeDays)
	}

	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	today := s.Clock.Today()
	dates := make([]string, 0, len(days))
	for _, d := range days {
		ds := d.Format(models.DateLayout)
		if ds < today {
			continue
		}
		if n := len(dates); n > 0 && dates[n-1] == ds {
			continue
		}
		dates = append(dates, ds)
	}
	return dates, nil
}

type bookingKey struct {
	professionalID uuid.UUID
	date           string
}

func (s *SlotService) openSlots(db *gorm.DB, dates []string, professionalID *uuid.UUID) ([]OpenSlot, error) {
	if len(dates) == 0 {
		return []OpenSlot{}, nil
	}
	loc := s.Clock.location()

	daySet := map[models.DayOfWeek]bool{}
	for _, ds := range dates {
		d, _ := models.ParseDate(ds, loc)
		daySet[models.DayOf(d)] = true
	}
	days := make([]models.DayOfWeek, 0, len(daySet))
	for d := range daySet {
		days = append(days, d)
	}

	var professionals []models.Professional
	profQuery := db.Preload("User").
		Select("professionals.*").
		Joins("JOIN users ON users.id = professionals.user_id").
		Where("professionals.status = ? AND users.is_active = ?", models.ProfessionalActive, true)
	if professionalID != nil {
		profQuery = profQuery.Where("professionals.user_id = ?", *professionalID)
	}
	if err := profQuery.Find(&professionals).Error; err != nil {
		return nil, dbError(err, "load professionals")
	}
	if len(professionals) == 0 {
		return []OpenSlot{}, nil
	}
	names := make(map[uuid.UUID]string, len(professionals))
	ids := make([]uuid.UUID, 0, len(professionals))
	for _, p := range professionals {
		names[p.UserID] = p.User.FullName
		ids = append(ids, p.UserID)
	}

	var records []models.Availability
	if err := db.Where("professional_id IN ? AND day IN ? AND available = ?", ids, days, true).
		Find(&records).Error; err != nil {
		return nil, dbError(err, "load availability")
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].ProfessionalID.String() < records[j].ProfessionalID.String()
	})
	byDay := map[models.DayOfWeek][]models.Availability{}
	for _, r := range records {
		byDay[r.Day] = append(byDay[r.Day], r)
	}

	var bookings []models.Booking
	if err := db.Select("professional_id", "session_date", "start_time", "end_time").
		Where("professional_id IN ? AND session_date IN ? AND status IN ?", ids, dates, models.ActiveStatuses).
		Find(&bookings).Error; err != nil {
		return nil, dbError(err, "load bookings")
	}
	taken := map[bookingKey][]models.TimeSlot{}
	for _, b := range bookings {
		k := bookingKey{b.ProfessionalID, b.Date}
		taken[k] = append(taken[k], b.Slot())
	}

	open := []OpenSlot{}
	for _, ds := range dates {
		d, _ := models.ParseDate(ds, loc)
		day := models.DayOf(d)
		for _, rec := range byDay[day] {
			busy := taken[bookingKey{rec.ProfessionalID, ds}]
			for _, slot := range models.SortSlots(rec.Slots) {
				if s.Clock.Started(ds, slot.StartTime) || collides(slot, busy) {
					continue
				}
				open = append(open, OpenSlot{
					ProfessionalID:   rec.ProfessionalID,
					ProfessionalName: names[rec.ProfessionalID],
					Date:             ds,
					Day:              day,
					StartTime:        slot.StartTime,
					EndTime:          slot.EndTime,
				})
			}
		}
	}
	return open, nil
}

func collides(slot models.TimeSlot, busy []models.TimeSlot) bool {
	for _, b := range busy {
		if slot.Overlaps(b) {
			return true
		}
	}
	return false
}

// slotAvailable requires the window to be one of the offered slots of that
// weekday, exactly as listed, and to collide with no active booking other
// than exclude.
func slotAvailable(db *gorm.DB, professionalID uuid.UUID, date string, slot models.TimeSlot, exclude *uuid.UUID, loc *time.Location) (bool, error) {
	d, err := models.ParseDate(date, loc)
	if err != nil {
		return false, err
	}

	var record models.Availability
	err = db.Where("professional_id = ? AND day = ?", professionalID, models.DayOf(d)).First(&record).Error
	if isNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !record.Available {
		return false, nil
	}

	offered := false
	for _, w := range record.Slots {
		if w.Same(slot) {
			offered = true
			break
		}
	}
	if !offered {
		return false, nil
	}

	q := db.Model(&models.Booking{}).
		Where("professional_id = ? AND session_date = ? AND status IN ?", professionalID, date, models.ActiveStatuses).
		Where("start_time < ? AND end_time > ?", slot.EndTime, slot.StartTime)
	if exclude != nil {
		q = q.Where("id <> ?", *exclude)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count == 0, nil
}
