package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/adityaharshit/code-i-technology-sub001/internal/config"
	"github.com/adityaharshit/code-i-technology-sub001/internal/handler"
	"github.com/adityaharshit/code-i-technology-sub001/internal/middleware"
	"github.com/adityaharshit/code-i-technology-sub001/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler        *handler.AuthHandler
	StudentHandler     *handler.StudentHandler
	CourseHandler      *handler.CourseHandler
	EnrollmentHandler  *handler.EnrollmentHandler
	TransactionHandler *handler.TransactionHandler
	IDCardHandler      *handler.IDCardHandler
	CertificateHandler *handler.CertificateHandler
	ReportHandler      *handler.ReportHandler
	JWTMiddleware      fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}
	studentOnly := middleware.RequireRole(middleware.RoleStudent)
	adminOnly := middleware.RequireRole(middleware.RoleAdmin)

	if deps.AuthHandler != nil {
		deps.AuthHandler.Register(api.Group("/auth"))
	}

	if deps.StudentHandler != nil {
		deps.StudentHandler.RegisterPublic(api.Group("/students"))
		deps.StudentHandler.RegisterStudent(api.Group("/students", jwtMiddleware, studentOnly))
		deps.StudentHandler.RegisterAdmin(api.Group("/admin/students", jwtMiddleware, adminOnly))
	}

	if deps.CourseHandler != nil {
		deps.CourseHandler.RegisterPublic(api.Group("/courses"))
		deps.CourseHandler.RegisterAdmin(api.Group("/admin/courses", jwtMiddleware, adminOnly))
	}

	if deps.EnrollmentHandler != nil {
		deps.EnrollmentHandler.RegisterStudent(api.Group("/enrollments", jwtMiddleware, studentOnly))
		deps.EnrollmentHandler.RegisterAdmin(api.Group("/admin/enrollments", jwtMiddleware, adminOnly))
	}

	if deps.TransactionHandler != nil {
		deps.TransactionHandler.RegisterStudent(api.Group("/transactions", jwtMiddleware, studentOnly))
		deps.TransactionHandler.RegisterAdmin(api.Group("/admin/transactions", jwtMiddleware, adminOnly))
	}

	if deps.IDCardHandler != nil {
		deps.IDCardHandler.RegisterStudent(api.Group("/idcards", jwtMiddleware, studentOnly))
	}

	if deps.CertificateHandler != nil {
		// Verification is public but rate limited; it backs printed QR codes.
		verifyGroup := api.Group("/certificates", middleware.RateLimit("certificate_verify", 30, time.Minute))
		deps.CertificateHandler.RegisterPublic(verifyGroup)
		deps.CertificateHandler.RegisterStudent(api.Group("/certificates", jwtMiddleware, studentOnly))
		deps.CertificateHandler.RegisterAdmin(api.Group("/admin/certificates", jwtMiddleware, adminOnly))
	}

	if deps.ReportHandler != nil {
		deps.ReportHandler.RegisterAdmin(api.Group("/admin/reports", jwtMiddleware, adminOnly))
	}
}
