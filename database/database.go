package database

import (
	"errors"
	"fmt"

	config "github.com/anjiri1684/mindcare/configs"
	"github.com/anjiri1684/mindcare/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// activeWindowIndex lets the store reject a second active booking of the same
// window even if two transactions pass the overlap check together.
const activeWindowIndex = `CREATE UNIQUE INDEX IF NOT EXISTS idx_bookings_active_window
ON bookings (professional_id, session_date, start_time, end_time)
WHERE status IN ('PENDING', 'CONFIRMED')`

// Open connects using the configured driver. sqlite is meant for local runs.
func Open(cfg config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "", "postgres":
		if cfg.DatabaseURL == "" {
			return nil, errors.New("DATABASE_URL is not set")
		}
		dialector = postgres.Open(cfg.DatabaseURL)
	case "sqlite":
		dsn := cfg.DatabaseURL
		if dsn == "" {
			dsn = "mindcare.db"
		}
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	logLevel := logger.Warn
	if !cfg.IsProduction() {
		logLevel = logger.Info
	}
	return gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
		Logger:                                   logger.Default.LogMode(logLevel),
	})
}

func ConnectDB(cfg config.Config, log *zap.Logger) {
	db, err := Open(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	DB = db
	log.Info("Database connected successfully", zap.String("driver", cfg.DBDriver))
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Professional{},
		&models.Availability{},
		&models.Booking{},
		&models.Notification{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if err := db.Exec(activeWindowIndex).Error; err != nil {
		return fmt.Errorf("create active window index: %w", err)
	}
	return nil
}

// SeedAdmin creates the SUPERADMIN account from configuration once.
func SeedAdmin(db *gorm.DB, cfg config.Config, log *zap.Logger) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		log.Warn("ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", cfg.AdminEmail).Count(&count).Error; err != nil {
		return fmt.Errorf("check admin user: %w", err)
	}
	if count > 0 {
		log.Info("Admin user already exists")
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := models.User{
		FullName: cfg.AdminFullName,
		Email:    cfg.AdminEmail,
		Password: string(hashedPassword),
		Role:     models.RoleSuperAdmin,
		IsActive: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}
	log.Info("Admin user seeded successfully", zap.String("email", admin.Email))
	return nil
}
