package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/jhoicas/Reportes-api/internal/application/auth"
	"github.com/jhoicas/Reportes-api/internal/application/report"
	"github.com/jhoicas/Reportes-api/internal/application/usecase"
	"github.com/jhoicas/Reportes-api/internal/domain/entity"
	"github.com/jhoicas/Reportes-api/pkg/config"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	UserUC     *usecase.UserUseCase
	Submit     *report.SubmitUseCase
	Query      *report.QueryUseCase
	Export     *report.ExportUseCase
	Delete     *report.DeleteUseCase
	SuperAdmin config.SuperAdminConfig
	// RateLimitPerMinute peticiones por IP y minuto sobre /api; 0 = sin límite.
	RateLimitPerMinute int
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	if deps.RateLimitPerMinute > 0 {
		api.Use(limiter.New(limiter.Config{
			Max:               deps.RateLimitPerMinute,
			Expiration:        time.Minute,
			LimiterMiddleware: limiter.SlidingWindow{},
			KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
		}))
	}

	requireAuth := AuthMiddleware(deps.AuthUC)

	// Auth (público salvo me/users)
	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/admins", authHandler.Admins)
	authGroup.Get("/me", requireAuth, authHandler.Me)
	authGroup.Get("/users", requireAuth, authHandler.Users)

	// Records (protegido)
	recordHandler := NewRecordHandler(deps.Submit, deps.Query, deps.Export, deps.Delete)
	records := api.Group("/records", requireAuth)
	records.Post("/", recordHandler.Create)
	records.Get("/", recordHandler.List)
	records.Get("/check-today", recordHandler.CheckToday)
	records.Get("/summary", recordHandler.Summary)
	records.Get("/export", recordHandler.Export)
	records.Delete("/:id", RequireRole(entity.RoleAdmin), recordHandler.Delete)

	// Superadmin (X-Admin-Token o email autorizado)
	superHandler := NewSuperAdminHandler(deps.UserUC, deps.Query, deps.Delete)
	super := api.Group("/superadmin", SuperAdminMiddleware(deps.SuperAdmin, deps.AuthUC))
	super.Get("/users", superHandler.ListUsers)
	super.Put("/users/:id/role", superHandler.UpdateRole)
	super.Delete("/users/:id", superHandler.DeleteUser)
	super.Get("/records", superHandler.ListRecords)
	super.Delete("/records/:id", superHandler.DeleteRecord)
}
