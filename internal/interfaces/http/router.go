package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dfmorales/almacen-api/internal/application/auth"
	"github.com/dfmorales/almacen-api/internal/application/inventory"
	"github.com/dfmorales/almacen-api/internal/application/usecase"
	"github.com/dfmorales/almacen-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	LedgerUC   *inventory.LedgerUseCase
	InsetUC    *inventory.InsetUseCase
	OutsetUC   *inventory.OutsetUseCase
	BatchUC    *inventory.BatchUseCase
	ImportUC   *inventory.ImportUseCase
	AdminUC    *usecase.AdminUseCase
	MetadataUC *usecase.MetadataUseCase
	Scheduler  *inventory.CleanupScheduler

	JWTSecret   string
	MaxUploadMB int
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/auth/me", authHandler.Me)

	// Inventario (protegido)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.LedgerUC, deps.ImportUC, deps.MaxUploadMB)
	invGroup.Get("/", inventoryHandler.List)
	invGroup.Get("/sku/:sku", inventoryHandler.ListBySKU)
	invGroup.Post("/update", inventoryHandler.Update)
	invGroup.Post("/import-excel", inventoryHandler.ImportExcel)

	// Entradas (protegido)
	insets := protected.Group("/insets")
	insetHandler := NewInsetHandler(deps.InsetUC)
	insets.Post("/", insetHandler.Create)
	insets.Get("/", insetHandler.List)

	// Salidas, individuales y por lote (protegido)
	outsets := protected.Group("/outsets")
	outsetHandler := NewOutsetHandler(deps.OutsetUC, deps.BatchUC, deps.LedgerUC)
	outsets.Post("/batch", outsetHandler.CreateBatch)
	outsets.Delete("/batch/:batchId", outsetHandler.DeleteBatch)
	outsets.Post("/", outsetHandler.Create)
	outsets.Get("/", outsetHandler.List)
	outsets.Delete("/:id", outsetHandler.Delete)

	// Metadatos: lecturas con token, escrituras solo admin
	metadata := protected.Group("/metadata")
	metadataHandler := NewMetadataHandler(deps.MetadataUC)
	metadata.Get("/:type", metadataHandler.List)
	adminWrites := RequireRole(entity.RoleAdmin)
	metadata.Post("/:type", adminWrites, metadataHandler.Create)
	metadata.Put("/:type/:id", adminWrites, metadataHandler.Rename)
	metadata.Delete("/:type/:id", adminWrites, metadataHandler.Delete)

	// Consola de administración (solo admin)
	admin := protected.Group("/admin", RequireRole(entity.RoleAdmin))
	adminHandler := NewAdminHandler(deps.AdminUC, deps.Scheduler)
	admin.Get("/users", adminHandler.ListUsers)
	admin.Post("/users/:id/approve", adminHandler.ApproveUser)
	admin.Post("/users/:id/suspend", adminHandler.SuspendUser)
	admin.Post("/users/:id/role", adminHandler.SetRole)
	admin.Delete("/users/:id", adminHandler.DeleteUser)
	admin.Get("/audit-logs", adminHandler.ListAuditLogs)
	admin.Get("/cleanup/logs", adminHandler.ListCleanupLogs)
	admin.Post("/cleanup/run", adminHandler.RunCleanup)
}
