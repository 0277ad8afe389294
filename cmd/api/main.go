package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/anjiri1684/mindcare/configs"
	"github.com/anjiri1684/mindcare/database"
	"github.com/anjiri1684/mindcare/handlers"
	"github.com/anjiri1684/mindcare/jobs"
	"github.com/anjiri1684/mindcare/middleware"
	"github.com/anjiri1684/mindcare/notifications"
	"github.com/anjiri1684/mindcare/routes"
	"github.com/anjiri1684/mindcare/services"
	"github.com/anjiri1684/mindcare/utils"
	"github.com/anjiri1684/mindcare/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()
	log := utils.InitializeLogger(cfg.Env, cfg.LogLevel)
	defer log.Sync()

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	database.ConnectDB(cfg, log)
	if err := database.Migrate(database.DB); err != nil {
		log.Fatal("Database migration failed", zap.Error(err))
	}
	if err := database.SeedAdmin(database.DB, cfg, log); err != nil {
		log.Fatal("Admin seed failed", zap.Error(err))
	}

	clock := services.Clock{Location: cfg.Location()}
	hub := websocket.NewHub(log)

	var mailer services.Mailer
	if m := notifications.NewBrevoMailer(cfg, log); m != nil {
		mailer = m
	}

	var statsCache services.StatsCache
	if cfg.RedisAddr != "" {
		cache, err := utils.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisCacheDB)
		if err != nil {
			log.Warn("Redis unavailable, dashboard stats will not be cached", zap.Error(err))
		} else {
			statsCache = cache
			defer cache.Close()
		}
	}

	notifier := services.NewNotificationService(database.DB, hub, mailer, log)
	slots := services.NewSlotService(database.DB, clock, cfg.MaxSlotRangeDays)
	auth := services.NewAuthService(database.DB, cfg.JWTSecret, cfg.JWTTTL(), log)

	h := routes.Handlers{
		Auth: &handlers.AuthHandler{Auth: auth},
		Availability: &handlers.AvailabilityHandler{
			Availability: services.NewAvailabilityService(database.DB, log),
			Slots:        slots,
		},
		Bookings:      &handlers.BookingHandler{Bookings: services.NewBookingService(database.DB, slots, notifier, log, cfg.MeetingBaseURL)},
		Notifications: &handlers.NotificationHandler{Notifications: notifier},
		Professionals: &handlers.ProfessionalHandler{Professionals: services.NewProfessionalService(database.DB)},
		Admin: &handlers.AdminHandler{
			Stats: services.NewStatsService(database.DB, slots, statsCache, cfg.StatsCacheTTL(), log),
			Users: services.NewUserService(database.DB, log),
		},
		WS: &handlers.WSHandler{Auth: auth, Hub: hub, Log: log},
	}

	runner := &jobs.Runner{DB: database.DB, Notifier: notifier, Clock: clock, Log: log}
	scheduler := cron.New(cron.WithLocation(clock.Zone()))
	if err := runner.Schedule(scheduler); err != nil {
		log.Fatal("Failed to schedule jobs", zap.Error(err))
	}
	scheduler.Start()
	log.Info("Cron jobs scheduled", zap.Int("jobs", len(scheduler.Entries())))

	app := fiber.New(fiber.Config{
		AppName:      "MindCare",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			status, body := utils.ErrorBody(err)
			if status >= fiber.StatusInternalServerError {
				log.Error("Request failed", zap.Error(err), zap.String("path", c.Path()), zap.String("method", c.Method()))
			}
			return c.Status(status).JSON(body)
		},
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Authorization",
		MaxAge:        86400,
	}))
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   cfg.Timezone,
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	limiter := middleware.NewRateLimiter(cfg.MaxRequestsPerMin, log)
	routes.Setup(app, h, middleware.Protected(cfg.JWTSecret, auth), limiter.Handler())

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Info("Shutting down server")
		<-scheduler.Stop().Done()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error("Server forced to shutdown", zap.Error(err))
		}
	}()

	log.Info("Server is running", zap.String("port", cfg.AppPort))
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatal("Server failed to start", zap.Error(err))
	}
}
