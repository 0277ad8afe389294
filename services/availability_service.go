package services

import (
	"context"

	"github.com/anjiri1684/mindcare/models"
	"github.com/anjiri1684/mindcare/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AvailabilityService struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func NewAvailabilityService(db *gorm.DB, log *zap.Logger) *AvailabilityService {
	return &AvailabilityService{DB: db, Log: nopLogger(log)}
}

// GetAvailability returns one record per weekday, Monday first. Days without
// a stored row come back as unavailable with no slots.
func (s *AvailabilityService) GetAvailability(ctx context.Context, professionalID uuid.UUID) ([]models.Availability, error) {
	db := s.DB.WithContext(ctx)
	if err := professionalExists(db, professionalID); err != nil {
		return nil, err
	}

	var stored []models.Availability
	if err := db.Where("professional_id = ?", professionalID).Find(&stored).Error; err != nil {
		return nil, dbError(err, "load availability")
	}
	byDay := make(map[models.DayOfWeek]models.Availability, len(stored))
	for _, a := range stored {
		byDay[a.Day] = a
	}

	week := make([]models.Availability, 0, len(models.Week))
	for _, day := range models.Week {
		if a, ok := byDay[day]; ok {
			week = append(week, a)
			continue
		}
		week = append(week, models.Availability{
			ProfessionalID: professionalID,
			Day:            day,
			Slots:          datatypes.JSONSlice[models.TimeSlot]{},
			Available:      false,
		})
	}
	return week, nil
}

// ReplaceDaySlots swaps the whole slot list of one day record. Bookings already
// made against removed slots are left alone.
func (s *AvailabilityService) ReplaceDaySlots(ctx context.Context, actor Actor, dayID uuid.UUID, slots []models.TimeSlot, available bool) (*models.Availability, error) {
	if available && len(slots) == 0 {
		return nil, utils.ValidationError("An available day needs at least one slot")
	}
	if err := models.ValidateSlots(slots); err != nil {
		return nil, utils.ValidationError("Invalid slots: %v", err)
	}

	var day models.Availability
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&day, "id = ?", dayID).Error; err != nil {
			if isNotFound(err) {
				return utils.NotFoundError("Availability record not found")
			}
			return err
		}
		if day.ProfessionalID != actor.UserID && !actor.IsAdmin() {
			return utils.ForbiddenError("You can only edit your own availability")
		}

		day.Slots = datatypes.JSONSlice[models.TimeSlot](models.SortSlots(slots))
		day.Available = available
		return tx.Model(&day).Select("Slots", "Available").Updates(&day).Error
	})
	if err != nil {
		return nil, dbError(err, "update availability")
	}

	s.Log.Info("Availability updated",
		zap.String("availability_id", day.ID.String()),
		zap.String("professional_id", day.ProfessionalID.String()),
		zap.String("day", string(day.Day)),
		zap.Int("slots", len(day.Slots)))
	return &day, nil
}

// InitializeWeek creates the seven placeholder rows for a professional.
func (s *AvailabilityService) InitializeWeek(ctx context.Context, professionalID uuid.UUID) ([]models.Availability, error) {
	var week []models.Availability
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := professionalExists(tx, professionalID); err != nil {
			return err
		}
		var err error
		week, err = initializeWeek(tx, professionalID)
		return err
	})
	if err != nil {
		return nil, dbError(err, "initialize availability")
	}
	s.Log.Info("Availability initialized", zap.String("professional_id", professionalID.String()))
	return week, nil
}

func initializeWeek(tx *gorm.DB, professionalID uuid.UUID) ([]models.Availability, error) {
	var count int64
	if err := tx.Model(&models.Availability{}).Where("professional_id = ?", professionalID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, utils.ConflictError("Availability is already initialized")
	}

	week := make([]models.Availability, 0, len(models.Week))
	for _, day := range models.Week {
		week = append(week, models.Availability{
			ProfessionalID: professionalID,
			Day:            day,
			Slots:          datatypes.JSONSlice[models.TimeSlot]{},
			Available:      false,
		})
	}
	if err := tx.Create(&week).Error; err != nil {
		return nil, err
	}
	return week, nil
}

func professionalExists(db *gorm.DB, professionalID uuid.UUID) error {
	var count int64
	if err := db.Model(&models.Professional{}).Where("user_id = ?", professionalID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return utils.NotFoundError("Professional not found")
	}
	return nil
}
