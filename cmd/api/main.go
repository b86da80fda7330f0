package main

import (
	"time"

	config "github.com/anjiri1684/skill_swap/configs"
	"github.com/anjiri1684/skill_swap/database"
	"github.com/anjiri1684/skill_swap/handlers"
	"github.com/anjiri1684/skill_swap/jobs"
	"github.com/anjiri1684/skill_swap/middleware"
	"github.com/anjiri1684/skill_swap/notifications"
	"github.com/anjiri1684/skill_swap/routes"
	"github.com/anjiri1684/skill_swap/services"
	"github.com/anjiri1684/skill_swap/websocket"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("🔥 Invalid configuration: %v", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("🔥 %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("🔥 %v", err)
	}
	if err := database.SeedCategories(db); err != nil {
		log.Fatalf("🔥 %v", err)
	}

	var mailer services.Mailer
	if brevo := notifications.NewBrevoService(cfg.BrevoAPIKey, cfg.EmailSender, cfg.EmailSenderName); brevo != nil {
		mailer = brevo
	}

	var cld *cloudinary.Cloudinary
	var certificateUploader services.FileUploader
	if cfg.CloudinaryURL != "" {
		cld, err = cloudinary.NewFromURL(cfg.CloudinaryURL)
		if err != nil {
			log.Fatalf("🔥 Failed to initialize Cloudinary: %v", err)
		}
		certificateUploader = services.NewCloudinaryUploader(cld)
	} else {
		log.Warn("⚠️ CLOUDINARY_URL not set, uploads and certificates are disabled.")
	}

	hub := websocket.NewHub()
	go hub.Run()
	defer hub.Stop()

	notifier := services.NewNotifier(mailer, hub)
	userSvc := services.NewUserService(db, cfg.JWTSecret, cfg.TokenTTL)
	skillSvc := services.NewSkillService(db)
	bookingSvc := services.NewBookingService(db, notifier, cfg.MeetingURLTemplate)
	sessionSvc := services.NewSessionService(db, notifier)
	certSvc := services.NewCertificateService(db, services.ChromePDFRenderer{}, certificateUploader, cfg.CertificateThreshold)
	bookingSvc.OnCompleted(certSvc.HandleCompletion)

	c := cron.New()
	if err := jobs.NewReminders(db, mailer).Register(c); err != nil {
		log.Fatalf("🔥 %v", err)
	}
	c.Start()
	defer c.Stop()
	log.Info("✅ Cron jobs for session reminders scheduled successfully.")

	app := fiber.New(fiber.Config{
		AppName:      "Skill Swap",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.AllowOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Authorization",
		MaxAge:        86400,
	}))
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "Welcome to Skill Swap API",
		})
	})

	api := app.Group("/api")
	protected := middleware.Protected(cfg.JWTSecret)

	routes.AuthRoutes(api, handlers.NewAuthHandler(userSvc, mailer))
	routes.ProfileRoutes(api, protected, handlers.NewProfileHandler(userSvc))
	routes.SkillRoutes(api, protected, handlers.NewSkillHandler(skillSvc))
	routes.BookingRoutes(api, protected, handlers.NewBookingHandler(bookingSvc, sessionSvc))
	routes.SessionRoutes(api, protected, handlers.NewSessionHandler(sessionSvc, bookingSvc))
	routes.UploadRoutes(api, protected, handlers.NewMediaHandler(
		services.NewMediaService(cld),
		certSvc,
		services.NewReportService(mailer, cfg.ReportEmail),
	))
	routes.EventsRoutes(api, handlers.NewEventsHandler(hub, cfg.JWTSecret))

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})

	log.Infof("✅ Server is running on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("🔥 Server failed to start: %v", err)
	}
}
