package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/dfmorales/almacen-api/internal/application/dto"
	"github.com/dfmorales/almacen-api/internal/application/inventory"
	"github.com/dfmorales/almacen-api/internal/domain"
	"github.com/dfmorales/almacen-api/internal/domain/repository"
)

// InsetHandler maneja recibos de entrada.
type InsetHandler struct {
	uc *inventory.InsetUseCase
}

// NewInsetHandler construye el handler de entradas.
func NewInsetHandler(uc *inventory.InsetUseCase) *InsetHandler {
	return &InsetHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar una entrada de mercancía
// @Tags         insets
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInsetRequest  true  "sku, orderNo, bin, quantity"
// @Success      201   {object}  dto.InsetResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/insets [post]
func (h *InsetHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInsetRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.RecordInbound(c.Context(), in, GetActor(c))
	if err != nil {
		switch err {
		case domain.ErrInvalidInput:
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "sku, orderNo, bin y quantity >= 1 son requeridos"})
		case domain.ErrDuplicate:
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "ya existe un recibo para ese sku, bin y número de orden"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar recibos de entrada
// @Tags         insets
// @Produce      json
// @Param        sku      query  string  false  "filtrar por sku"
// @Param        bin      query  string  false  "filtrar por bin"
// @Param        orderNo  query  string  false  "filtrar por número de orden"
// @Param        limit    query  int     false  "tope de filas"
// @Param        offset   query  int     false  "desplazamiento"
// @Success      200  {array}  dto.InsetResponse
// @Security     BearerAuth
// @Router       /api/insets [get]
func (h *InsetHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.DefaultPage()
	f := repository.InsetFilter{
		SKU:     strings.TrimSpace(c.Query("sku")),
		Bin:     strings.TrimSpace(c.Query("bin")),
		OrderNo: strings.TrimSpace(c.Query("orderNo")),
	}
	recs, err := h.uc.List(c.Context(), f, page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.InsetResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, inventory.ToInsetResponse(rec))
	}
	return c.JSON(out)
}
