package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/dfmorales/almacen-api/internal/application/auth"
	"github.com/dfmorales/almacen-api/internal/application/inventory"
	"github.com/dfmorales/almacen-api/internal/application/usecase"
	"github.com/dfmorales/almacen-api/internal/infrastructure/postgres"
	httpRouter "github.com/dfmorales/almacen-api/internal/interfaces/http"
	"github.com/dfmorales/almacen-api/pkg/config"
	"github.com/dfmorales/almacen-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	invRepo := postgres.NewInventoryRepository(pool)
	insetRepo := postgres.NewInsetRepository(pool)
	outsetRepo := postgres.NewOutsetRepository(pool)
	binRepo := postgres.NewBinRepository(pool)
	metaRepo := postgres.NewMetadataRepository(pool)
	auditRepo := postgres.NewAuditLogRepository(pool)
	cleanupRepo := postgres.NewCleanupLogRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	audit := inventory.NewAuditRecorder(auditRepo, log)
	ledgerUC := inventory.NewLedgerUseCase(invRepo, audit)
	insetUC := inventory.NewInsetUseCase(txRunner, insetRepo, audit)
	outsetUC := inventory.NewOutsetUseCase(txRunner, outsetRepo, ledgerUC, audit)
	batchUC := inventory.NewBatchUseCase(txRunner, outsetRepo, audit)
	importUC := inventory.NewImportUseCase(txRunner, audit, log, cfg.Import.BatchSize, cfg.Import.Workers)
	adminUC := usecase.NewAdminUseCase(userRepo, auditRepo, audit)
	metadataUC := usecase.NewMetadataUseCase(binRepo, metaRepo, audit)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	scheduler := inventory.NewCleanupScheduler(
		invRepo, cleanupRepo, log,
		cfg.Cleanup.RetentionDays, cfg.Cleanup.IntervalHours, time.Now,
	)
	if cfg.Cleanup.Enabled {
		scheduler.Start(ctx)
		defer scheduler.Stop()
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    (cfg.Import.MaxUploadMB + 1) << 20,
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs. El spec lo genera swag
	// fuera del build; si no está, la API arranca sin UI en vez de morir.
	const swaggerSpec = "./docs/swagger.json"
	if _, err := os.Stat(swaggerSpec); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerSpec,
			Path:     "docs",
			Title:    "Almacén API",
		}))
	} else {
		log.Warn().Str("path", swaggerSpec).Msg("swagger.json no encontrado, UI de docs deshabilitada")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		LedgerUC:    ledgerUC,
		InsetUC:     insetUC,
		OutsetUC:    outsetUC,
		BatchUC:     batchUC,
		ImportUC:    importUC,
		AdminUC:     adminUC,
		MetadataUC:  metadataUC,
		Scheduler:   scheduler,
		JWTSecret:   cfg.JWT.Secret,
		MaxUploadMB: cfg.Import.MaxUploadMB,
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
