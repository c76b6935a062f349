package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	_ "github.com/jhoicas/Reportes-api/docs"
	"github.com/jhoicas/Reportes-api/internal/application/auth"
	"github.com/jhoicas/Reportes-api/internal/application/report"
	"github.com/jhoicas/Reportes-api/internal/application/usecase"
	"github.com/jhoicas/Reportes-api/internal/domain/schema"
	"github.com/jhoicas/Reportes-api/internal/infrastructure/archive"
	"github.com/jhoicas/Reportes-api/internal/infrastructure/excel"
	"github.com/jhoicas/Reportes-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/Reportes-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Reportes-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Reportes-api/internal/interfaces/http"
	"github.com/jhoicas/Reportes-api/pkg/config"
	"github.com/jhoicas/Reportes-api/pkg/logger"
	"github.com/jhoicas/Reportes-api/pkg/timeutil"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("schema", cfg.Report.SchemaVersion).
		Str("timezone", cfg.Report.Timezone).
		Msg("iniciando aplicación")

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.Sentry.DSN,
			EnableTracing:    true,
			TracesSampleRate: cfg.Sentry.TracesSampleRate,
			Environment:      cfg.App.Env,
		}); err != nil {
			log.Error().Err(err).Msg("inicializar Sentry")
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool, log.Component("postgres.migrate")); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	activeSchema, err := schema.Lookup(cfg.Report.SchemaVersion)
	if err != nil {
		log.Fatal().Err(err).Msg("esquema de reporte")
	}
	cal, err := timeutil.NewCalendar(cfg.Report.Timezone)
	if err != nil {
		log.Fatal().Err(err).Msg("zona horaria de reportes")
	}

	userRepo := postgres.NewUserRepository(pool)
	recordRepo := postgres.NewRecordRepository(pool)
	txRunner := postgres.NewTxRunner(pool)
	prom := metrics.New()

	// Archivo S3 de exports: opcional, un fallo de subida no rompe la descarga.
	var archiver report.Archiver
	if cfg.Archive.Enabled() {
		s3Archiver, err := archive.NewS3Archiver(ctx, cfg.Archive)
		if err != nil {
			log.Fatal().Err(err).Msg("archivo S3 de exports")
		}
		archiver = s3Archiver
		log.Info().Str("bucket", cfg.Archive.Bucket).Msg("archivo de exports habilitado")
	}

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	userUC := usecase.NewUserUseCase(userRepo, txRunner, cfg.Report.UserDeletePolicy, log)
	scopes := report.NewScopeResolver(userRepo)
	submitUC := report.NewSubmitUseCase(recordRepo, activeSchema, cal, prom, log)
	queryUC := report.NewQueryUseCase(recordRepo, scopes, cal)
	generators := map[string]report.SheetGenerator{
		"xlsx": excel.NewExcelizeGenerator(),
		"pdf":  infrapdf.NewMarotoReportGenerator(),
	}
	exportUC := report.NewExportUseCase(recordRepo, scopes, activeSchema, cal, generators, archiver, prom,
		report.ExportConfig{
			TimeLayout:    cfg.Report.ExportTimeLayout,
			ArchivePrefix: cfg.Archive.Prefix,
		}, log)
	deleteUC := report.NewDeleteUseCase(recordRepo, userRepo, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(sentryfiber.New(sentryfiber.Options{Repanic: true}))
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log))
	app.Use(prom.Middleware())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.HTTP.CORSOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, X-Admin-Token",
		ExposeHeaders: "Content-Disposition",
	}))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Reportes API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", prom.Handler())

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:             authUC,
		UserUC:             userUC,
		Submit:             submitUC,
		Query:              queryUC,
		Export:             exportUC,
		Delete:             deleteUC,
		SuperAdmin:         cfg.SuperAdmin,
		RateLimitPerMinute: cfg.HTTP.RateLimitPerMinute,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
