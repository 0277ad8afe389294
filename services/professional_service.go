package services

import (
	"context"
	"strings"

	"github.com/anjiri1684/mindcare/models"
	"github.com/anjiri1684/mindcare/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProfessionalService struct {
	DB *gorm.DB
}

func NewProfessionalService(db *gorm.DB) *ProfessionalService {
	return &ProfessionalService{DB: db}
}

type ProfessionalList struct {
	Data []models.Professional `json:"data"`
	Meta utils.Meta            `json:"meta"`
}

type ProfileInput struct {
	Title          *string
	Bio            *string
	Specialization *string
}

// List returns bookable professionals, optionally filtered by specialization.
func (s *ProfessionalService) List(ctx context.Context, specialization string, page utils.Page) (*ProfessionalList, error) {
	page = page.Normalize()
	query := func() *gorm.DB {
		q := s.DB.WithContext(ctx).Model(&models.Professional{}).
			Joins("JOIN users ON users.id = professionals.user_id").
			Where("professionals.status = ? AND users.is_active = ?", models.ProfessionalActive, true)
		if spec := strings.TrimSpace(specialization); spec != "" {
			q = q.Where("LOWER(professionals.specialization) LIKE ?", "%"+strings.ToLower(spec)+"%")
		}
		return q
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, dbError(err, "count professionals")
	}
	items := []models.Professional{}
	if err := query().Select("professionals.*").Preload("User").
		Order("users.full_name asc").
		Offset(page.Offset()).Limit(page.Limit).
		Find(&items).Error; err != nil {
		return nil, dbError(err, "list professionals")
	}
	return &ProfessionalList{Data: items, Meta: utils.BuildMeta(total, page)}, nil
}

func (s *ProfessionalService) Get(ctx context.Context, id uuid.UUID) (*models.Professional, error) {
	var prof models.Professional
	err := s.DB.WithContext(ctx).Preload("User").First(&prof, "user_id = ?", id).Error
	if isNotFound(err) {
		return nil, utils.NotFoundError("Professional not found")
	}
	if err != nil {
		return nil, dbError(err, "load professional")
	}
	return &prof, nil
}

// UpdateProfile lets a professional edit their own public profile.
func (s *ProfessionalService) UpdateProfile(ctx context.Context, actor Actor, in ProfileInput) (*models.Professional, error) {
	prof, err := s.Get(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	updates := map[string]any{}
	if in.Title != nil {
		updates["title"] = strings.TrimSpace(*in.Title)
	}
	if in.Bio != nil {
		updates["bio"] = strings.TrimSpace(*in.Bio)
	}
	if in.Specialization != nil {
		updates["specialization"] = strings.TrimSpace(*in.Specialization)
	}
	if len(updates) == 0 {
		return prof, nil
	}
	if err := s.DB.WithContext(ctx).Model(&models.Professional{}).Where("user_id = ?", actor.UserID).Updates(updates).Error; err != nil {
		return nil, dbError(err, "update profile")
	}
	return s.Get(ctx, actor.UserID)
}
