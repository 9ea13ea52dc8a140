package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/dfmorales/almacen-api/internal/application/dto"
	"github.com/dfmorales/almacen-api/internal/application/inventory"
	"github.com/dfmorales/almacen-api/internal/domain"
	"github.com/dfmorales/almacen-api/internal/domain/repository"
)

// OutsetHandler maneja despachos de salida, individuales y por lote.
type OutsetHandler struct {
	uc       *inventory.OutsetUseCase
	batchUC  *inventory.BatchUseCase
	ledgerUC *inventory.LedgerUseCase
}

// NewOutsetHandler construye el handler de salidas.
func NewOutsetHandler(uc *inventory.OutsetUseCase, batchUC *inventory.BatchUseCase, ledgerUC *inventory.LedgerUseCase) *OutsetHandler {
	return &OutsetHandler{uc: uc, batchUC: batchUC, ledgerUC: ledgerUC}
}

// Create godoc
// @Summary      Registrar un despacho de salida
// @Tags         outsets
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOutsetRequest  true  "skuId, bin, quantity, customerName, invoiceNo"
// @Success      201   {object}  dto.OutsetResponse
// @Failure      400   {object}  dto.StockShortage
// @Failure      404   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/outsets [post]
func (h *OutsetHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOutsetRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.RecordOutbound(c.Context(), in, GetActor(c))
	if err != nil {
		switch err {
		case domain.ErrInvalidInput:
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "skuId, bin, quantity >= 1, customerName e invoiceNo son requeridos"})
		case domain.ErrUnknownItem:
			return c.Status(fiber.StatusNotFound).JSON(h.ledgerUC.Shortage(c.Context(), in.SKUID, in.Bin, in.Quantity))
		case domain.ErrInsufficientStock:
			return c.Status(fiber.StatusBadRequest).JSON(h.ledgerUC.Shortage(c.Context(), in.SKUID, in.Bin, in.Quantity))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Delete godoc
// @Summary      Anular un despacho (restituye el stock descontado)
// @Tags         outsets
// @Produce      json
// @Param        id  path  string  true  "id del despacho"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/outsets/{id} [delete]
func (h *OutsetHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.uc.DeleteOutbound(c.Context(), id, GetActor(c)); err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "despacho no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// List godoc
// @Summary      Listar despachos de salida
// @Tags         outsets
// @Produce      json
// @Param        sku       query  string  false  "filtrar por sku"
// @Param        bin       query  string  false  "filtrar por bin"
// @Param        customer  query  string  false  "filtrar por cliente"
// @Param        invoice   query  string  false  "filtrar por factura"
// @Param        batchId   query  string  false  "filtrar por lote"
// @Param        limit     query  int     false  "tope de filas"
// @Param        offset    query  int     false  "desplazamiento"
// @Success      200  {array}  dto.OutsetResponse
// @Security     BearerAuth
// @Router       /api/outsets [get]
func (h *OutsetHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.DefaultPage()
	f := repository.OutsetFilter{
		SKUID:        strings.TrimSpace(c.Query("sku")),
		Bin:          strings.TrimSpace(c.Query("bin")),
		CustomerName: strings.TrimSpace(c.Query("customer")),
		InvoiceNo:    strings.TrimSpace(c.Query("invoice")),
		BatchID:      strings.TrimSpace(c.Query("batchId")),
	}
	recs, err := h.uc.List(c.Context(), f, page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.OutsetResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, inventory.ToOutsetResponse(rec))
	}
	return c.JSON(out)
}

// CreateBatch godoc
// @Summary      Registrar un lote de salida (all-or-nothing)
// @Tags         outsets
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BatchOutsetRequest  true  "items, customerName, invoiceNo"
// @Success      201   {object}  dto.BatchOutsetResponse
// @Failure      400   {object}  dto.BatchErrorResponse
// @Security     BearerAuth
// @Router       /api/outsets/batch [post]
func (h *OutsetHandler) CreateBatch(c *fiber.Ctx) error {
	var in dto.BatchOutsetRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.batchUC.RecordOutboundBatch(c.Context(), in, GetActor(c))
	if err != nil {
		var batchErr *inventory.BatchValidationError
		if errors.As(err, &batchErr) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.BatchErrorResponse{
				Code:    "BATCH_REJECTED",
				Message: "el lote fue rechazado completo; ninguna línea se despachó",
				Items:   batchErr.Items,
			})
		}
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "items no vacíos, customerName e invoiceNo son requeridos"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// DeleteBatch godoc
// @Summary      Anular un lote completo (restituye todo el stock descontado)
// @Tags         outsets
// @Produce      json
// @Param        batchId  path  string  true  "id del lote"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/outsets/batch/{batchId} [delete]
func (h *OutsetHandler) DeleteBatch(c *fiber.Ctx) error {
	batchID := c.Params("batchId")
	if err := h.batchUC.DeleteBatch(c.Context(), batchID, GetActor(c)); err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "lote no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
