package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/dfmorales/almacen-api/internal/application/dto"
	"github.com/dfmorales/almacen-api/internal/application/inventory"
	"github.com/dfmorales/almacen-api/internal/application/usecase"
	"github.com/dfmorales/almacen-api/internal/domain"
	"github.com/dfmorales/almacen-api/internal/domain/entity"
	"github.com/dfmorales/almacen-api/internal/domain/repository"
)

// AdminHandler consola de administración: usuarios, bitácora de auditoría y
// barrido de limpieza.
type AdminHandler struct {
	uc        *usecase.AdminUseCase
	scheduler *inventory.CleanupScheduler
}

// NewAdminHandler construye el handler de administración.
func NewAdminHandler(uc *usecase.AdminUseCase, scheduler *inventory.CleanupScheduler) *AdminHandler {
	return &AdminHandler{uc: uc, scheduler: scheduler}
}

// ListUsers godoc
// @Summary      Listar usuarios
// @Tags         admin
// @Produce      json
// @Param        limit   query  int  false  "tope de filas"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {array}  dto.UserResponse
// @Security     BearerAuth
// @Router       /api/admin/users [get]
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.DefaultPage()
	users, err := h.uc.ListUsers(c.Context(), page)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(users)
}

// ApproveUser godoc
// @Summary      Aprobar una cuenta pendiente
// @Tags         admin
// @Produce      json
// @Param        id  path  string  true  "id del usuario"
// @Success      200  {object}  dto.UserResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/admin/users/{id}/approve [post]
func (h *AdminHandler) ApproveUser(c *fiber.Ctx) error {
	user, err := h.uc.ApproveUser(c.Context(), c.Params("id"), GetActor(c))
	if err != nil {
		return h.userError(c, err)
	}
	return c.JSON(user)
}

// SuspendUser godoc
// @Summary      Suspender una cuenta
// @Tags         admin
// @Produce      json
// @Param        id  path  string  true  "id del usuario"
// @Success      200  {object}  dto.UserResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/admin/users/{id}/suspend [post]
func (h *AdminHandler) SuspendUser(c *fiber.Ctx) error {
	user, err := h.uc.SuspendUser(c.Context(), c.Params("id"), GetActor(c))
	if err != nil {
		return h.userError(c, err)
	}
	return c.JSON(user)
}

// SetRole godoc
// @Summary      Cambiar el rol de un usuario
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "id del usuario"
// @Param        body  body  dto.SetRoleRequest  true  "role: admin | operador"
// @Success      200   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/admin/users/{id}/role [post]
func (h *AdminHandler) SetRole(c *fiber.Ctx) error {
	var in dto.SetRoleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	user, err := h.uc.SetRole(c.Context(), c.Params("id"), in.Role, GetActor(c))
	if err != nil {
		return h.userError(c, err)
	}
	return c.JSON(user)
}

// DeleteUser godoc
// @Summary      Eliminar un usuario
// @Tags         admin
// @Produce      json
// @Param        id  path  string  true  "id del usuario"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	if err := h.uc.DeleteUser(c.Context(), c.Params("id"), GetActor(c)); err != nil {
		return h.userError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListAuditLogs godoc
// @Summary      Consultar la bitácora de auditoría
// @Tags         admin
// @Produce      json
// @Param        action  query  string  false  "filtrar por acción"
// @Param        table   query  string  false  "filtrar por tabla objetivo"
// @Param        userId  query  string  false  "filtrar por usuario"
// @Param        limit   query  int     false  "tope de filas"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200  {array}  dto.AuditLogResponse
// @Security     BearerAuth
// @Router       /api/admin/audit-logs [get]
func (h *AdminHandler) ListAuditLogs(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.DefaultPage()
	f := repository.AuditFilter{
		Action:      strings.TrimSpace(c.Query("action")),
		TargetTable: strings.TrimSpace(c.Query("table")),
		UserID:      strings.TrimSpace(c.Query("userId")),
	}
	logs, err := h.uc.ListAuditLogs(c.Context(), f, page)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(logs)
}

// ListCleanupLogs godoc
// @Summary      Historial de corridas del barrido de limpieza
// @Tags         admin
// @Produce      json
// @Param        limit   query  int  false  "tope de filas"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {array}  dto.CleanupLogResponse
// @Security     BearerAuth
// @Router       /api/admin/cleanup/logs [get]
func (h *AdminHandler) ListCleanupLogs(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.DefaultPage()
	runs, err := h.scheduler.ListRuns(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.CleanupLogResponse, 0, len(runs))
	for _, run := range runs {
		out = append(out, toCleanupLogResponse(run))
	}
	return c.JSON(out)
}

// RunCleanup godoc
// @Summary      Ejecutar el barrido de limpieza de inmediato
// @Tags         admin
// @Produce      json
// @Success      200  {object}  dto.CleanupLogResponse
// @Security     BearerAuth
// @Router       /api/admin/cleanup/run [post]
func (h *AdminHandler) RunCleanup(c *fiber.Ctx) error {
	entry := h.scheduler.RunNow(c.Context())
	return c.JSON(toCleanupLogResponse(entry))
}

func (h *AdminHandler) userError(c *fiber.Ctx, err error) error {
	switch err {
	case domain.ErrUserNotFound:
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "usuario no encontrado"})
	case domain.ErrInvalidInput:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "operación inválida sobre ese usuario"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func toCleanupLogResponse(e *entity.CleanupLogEntry) dto.CleanupLogResponse {
	resp := dto.CleanupLogResponse{
		ID:                 e.ID,
		CleanupDate:        e.CleanupDate,
		ItemsRemoved:       e.ItemsRemoved,
		ActualItemsRemoved: e.ActualItemsRemoved,
		Items:              make([]dto.CleanupItemResponse, 0, len(e.Items)),
		Status:             e.Status,
		ErrorMessage:       e.ErrorMessage,
	}
	for _, it := range e.Items {
		resp.Items = append(resp.Items, dto.CleanupItemResponse{
			SKUID:        it.SKUID,
			Bin:          it.Bin,
			LastUpdated:  it.LastUpdated,
			DaysInactive: it.DaysInactive,
		})
	}
	return resp
}
