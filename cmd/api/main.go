package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/adityaharshit/code-i-technology-sub001/internal/config"
	"github.com/adityaharshit/code-i-technology-sub001/internal/database"
	"github.com/adityaharshit/code-i-technology-sub001/internal/events"
	"github.com/adityaharshit/code-i-technology-sub001/internal/handler"
	"github.com/adityaharshit/code-i-technology-sub001/internal/middleware"
	"github.com/adityaharshit/code-i-technology-sub001/internal/models"
	"github.com/adityaharshit/code-i-technology-sub001/internal/repository"
	"github.com/adityaharshit/code-i-technology-sub001/internal/router"
	"github.com/adityaharshit/code-i-technology-sub001/internal/service"
	cloud "github.com/adityaharshit/code-i-technology-sub001/pkg/cloudinary"
	"github.com/adityaharshit/code-i-technology-sub001/pkg/retry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Student{},
		&models.Admin{},
		&models.Course{},
		&models.Enrollment{},
		&models.Transaction{},
		&models.Certificate{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, caching disabled")
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = nats.Connect(cfg.NATSURL)
		if err != nil {
			logger.Warn().Err(err).Msg("nats unavailable, event publishing disabled")
			natsConn = nil
		} else {
			defer natsConn.Close()
		}
	}

	uploader, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create cloudinary client: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	retryCfg := retry.Config{
		MaxAttempts: cfg.Retry.MaxAttempts,
		BaseDelay:   cfg.Retry.BaseDelay,
	}

	studentRepo := repository.NewStudentRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	certificateRepo := repository.NewCertificateRepository(db)
	reportRepo := repository.NewReportRepository(db)

	publisher := events.NewPublisher(natsConn, "cit.transactions", logger)
	fetcher := service.NewHTTPResourceFetcher(cfg.Timeouts.FileUpload, retryCfg, logger)

	authService := service.NewAuthService(studentRepo, adminRepo, validate, cfg.JWTSecret, cfg.TokenTTL, cfg.Timeouts.Auth, logger)
	studentService := service.NewStudentService(studentRepo, validate, uploader, retryCfg, cfg.Timeouts.FileUpload, logger)
	courseService := service.NewCourseService(courseRepo, validate, logger)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, studentRepo, courseRepo, validate, logger)
	transactionService := service.NewTransactionService(transactionRepo, courseRepo, enrollmentRepo, validate, uploader, retryCfg, cfg.Timeouts.FileUpload, publisher, logger)
	invoiceService := service.NewInvoiceService(transactionRepo, validate, logger)
	idCardService := service.NewIDCardService(studentRepo, courseRepo, transactionRepo, fetcher, cfg.IDCardFrontTemplateURL, cfg.IDCardBackTemplateURL, logger)
	certificateService := service.NewCertificateService(certificateRepo, enrollmentRepo, validate, redisClient, cfg.VerificationCacheTTL, logger)
	reportService := service.NewReportService(reportRepo, studentRepo, redisClient, cfg.ReportCacheTTL, cfg.Timeouts.Report, logger)

	deps := router.Dependencies{
		AuthHandler:        handler.NewAuthHandler(authService, cfg.Messages, logger),
		StudentHandler:     handler.NewStudentHandler(studentService, cfg.Messages, logger),
		CourseHandler:      handler.NewCourseHandler(courseService, cfg.Messages, logger),
		EnrollmentHandler:  handler.NewEnrollmentHandler(enrollmentService, cfg.Messages, logger),
		TransactionHandler: handler.NewTransactionHandler(transactionService, invoiceService, cfg.Messages, logger),
		IDCardHandler:      handler.NewIDCardHandler(idCardService, cfg.Messages, logger),
		CertificateHandler: handler.NewCertificateHandler(certificateService, cfg.Messages, logger),
		ReportHandler:      handler.NewReportHandler(reportService, cfg.Messages, logger),
		JWTMiddleware:      middleware.JWTProtected(cfg.JWTSecret),
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    16 * 1024 * 1024,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, deps)

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
