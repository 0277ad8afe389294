package services

import (
	"context"
	"strings"

	"github.com/anjiri1684/mindcare/models"
	"github.com/anjiri1684/mindcare/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserService backs the admin user management screens.
type UserService struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func NewUserService(db *gorm.DB, log *zap.Logger) *UserService {
	return &UserService{DB: db, Log: nopLogger(log)}
}

type UserFilter struct {
	Search string
	Role   models.Role
	Page   utils.Page
}

type UserList struct {
	Data []models.User `json:"data"`
	Meta utils.Meta    `json:"meta"`
}

func (s *UserService) List(ctx context.Context, f UserFilter) (*UserList, error) {
	if f.Role != "" && !f.Role.Valid() {
		return nil, utils.ValidationError("Unknown role %q", f.Role)
	}
	page := f.Page.Normalize()
	query := func() *gorm.DB {
		q := s.DB.WithContext(ctx).Model(&models.User{})
		if search := strings.ToLower(strings.TrimSpace(f.Search)); search != "" {
			term := "%" + search + "%"
			q = q.Where("LOWER(full_name) LIKE ? OR LOWER(email) LIKE ?", term, term)
		}
		if f.Role != "" {
			q = q.Where("role = ?", f.Role)
		}
		return q
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, dbError(err, "count users")
	}
	users := []models.User{}
	if err := query().Order("created_at desc").Offset(page.Offset()).Limit(page.Limit).Find(&users).Error; err != nil {
		return nil, dbError(err, "list users")
	}
	return &UserList{Data: users, Meta: utils.BuildMeta(total, page)}, nil
}

// SetActive toggles whether a user may log in. Deactivated professionals
// drop out of slot search.
func (s *UserService) SetActive(ctx context.Context, actor Actor, userID uuid.UUID, active bool) (*models.User, error) {
	if userID == actor.UserID && !active {
		return nil, utils.ValidationError("You cannot deactivate your own account")
	}
	var user models.User
	err := s.DB.WithContext(ctx).First(&user, "id = ?", userID).Error
	if isNotFound(err) {
		return nil, utils.NotFoundError("User not found")
	}
	if err != nil {
		return nil, dbError(err, "load user")
	}
	if user.Role == models.RoleSuperAdmin && actor.Role != models.RoleSuperAdmin {
		return nil, utils.ForbiddenError("Only a super admin can change another super admin")
	}
	if err := s.DB.WithContext(ctx).Model(&user).Update("is_active", active).Error; err != nil {
		return nil, dbError(err, "update user status")
	}
	user.IsActive = active
	s.Log.Info("User status changed",
		zap.String("user_id", user.ID.String()),
		zap.Bool("is_active", active),
		zap.String("by", actor.UserID.String()))
	return &user, nil
}

// ChangeRole moves a user between roles. Becoming a PROFESSIONAL creates the
// profile and an empty week of availability. Leaving it suspends the profile
// so existing bookings keep their professional.
func (s *UserService) ChangeRole(ctx context.Context, actor Actor, userID uuid.UUID, role models.Role) (*models.User, error) {
	if !role.Valid() {
		return nil, utils.ValidationError("Unknown role %q", role)
	}
	if userID == actor.UserID {
		return nil, utils.ForbiddenError("You cannot change your own role")
	}
	if role.IsAdmin() && actor.Role != models.RoleSuperAdmin {
		return nil, utils.ForbiddenError("Only a super admin can grant admin roles")
	}

	var user models.User
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, "id = ?", userID).Error; err != nil {
			if isNotFound(err) {
				return utils.NotFoundError("User not found")
			}
			return err
		}
		if user.Role.IsAdmin() && actor.Role != models.RoleSuperAdmin {
			return utils.ForbiddenError("Only a super admin can change an admin's role")
		}
		if user.Role == role {
			return nil
		}

		if role == models.RoleProfessional {
			var prof models.Professional
			err := tx.First(&prof, "user_id = ?", user.ID).Error
			switch {
			case isNotFound(err):
				prof = models.Professional{UserID: user.ID, Status: models.ProfessionalActive}
				if err := tx.Create(&prof).Error; err != nil {
					return err
				}
				if _, err := initializeWeek(tx, user.ID); err != nil {
					return err
				}
			case err != nil:
				return err
			default:
				if err := tx.Model(&prof).Update("status", models.ProfessionalActive).Error; err != nil {
					return err
				}
			}
		} else if user.Role == models.RoleProfessional {
			if err := tx.Model(&models.Professional{}).Where("user_id = ?", user.ID).
				Update("status", models.ProfessionalSuspended).Error; err != nil {
				return err
			}
		}

		user.Role = role
		return tx.Model(&user).Update("role", role).Error
	})
	if err != nil {
		return nil, dbError(err, "change role")
	}
	s.Log.Info("User role changed",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(role)),
		zap.String("by", actor.UserID.String()))
	return &user, nil
}
