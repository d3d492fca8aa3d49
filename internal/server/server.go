package server

import (
	"context"
	"net/http"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rohith4dev/Student-management/internal/audit"
	"github.com/rohith4dev/Student-management/internal/auth"
	"github.com/rohith4dev/Student-management/internal/handlers"
	"github.com/rohith4dev/Student-management/internal/metrics"
	"github.com/rohith4dev/Student-management/internal/middleware"
	"github.com/rohith4dev/Student-management/internal/ratelimit"
	"github.com/rohith4dev/Student-management/internal/services"
)

// Deps bundles everything the HTTP layer needs. Limiter and Health may be
// nil.
type Deps struct {
	Guard    *auth.Guard
	Tokens   auth.TokenSettings
	Auth     *services.AuthService
	Students *services.StudentService
	Users    *services.UserService
	Activity *audit.Recorder
	Limiter  *ratelimit.Limiter
	Health   func(ctx context.Context) error
}

// New assembles the fiber app with all routes and middleware.
func New(deps Deps) *fiber.App {
	app := fiber.New()
	app.Use(logger.New())
	app.Use(cors.New())
	app.Use(metrics.Middleware())

	authHandler := handlers.NewAuthHandler(deps.Auth)
	studentHandler := handlers.NewStudentHandler(deps.Students)
	userHandler := handlers.NewUserHandler(deps.Users)
	activityHandler := handlers.NewActivityHandler(deps.Activity)

	authenticated := middleware.Authenticated(deps.Guard, deps.Tokens)
	adminOnly := middleware.AdminOnly(deps.Guard, deps.Tokens)

	authGroup := app.Group("/auth")
	if deps.Limiter != nil {
		authGroup.Use(deps.Limiter.Middleware())
	}
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	students := app.Group("/students", authenticated)
	students.Get("/", studentHandler.List)
	students.Post("/", studentHandler.Create)
	students.Put("/:id", studentHandler.Update)
	students.Put("/:id/subjects", studentHandler.UpdateSubjects)
	students.Get("/:id/photo", studentHandler.Photo)
	app.Delete("/students/:id", adminOnly, studentHandler.Delete)

	// Profile is self-service; the rest of /users is admin-gated.
	app.Put("/users/profile", authenticated, userHandler.UpdateProfile)
	app.Get("/users", adminOnly, userHandler.List)
	app.Delete("/users/:id", adminOnly, userHandler.Delete)
	app.Put("/users/:id/role", adminOnly, userHandler.UpdateRole)

	app.Get("/activity-logs", adminOnly, activityHandler.List)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Get("/healthz", func(c *fiber.Ctx) error {
		if deps.Health != nil {
			if err := deps.Health(c.Context()); err != nil {
				return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{"status": "down", "error": err.Error()})
			}
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	return app
}
