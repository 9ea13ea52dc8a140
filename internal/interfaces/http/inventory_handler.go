package http

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/dfmorales/almacen-api/internal/application/dto"
	"github.com/dfmorales/almacen-api/internal/application/inventory"
	"github.com/dfmorales/almacen-api/internal/domain"
	"github.com/dfmorales/almacen-api/internal/domain/repository"
)

// InventoryHandler expone el libro de existencias: listados, ajuste manual e
// importación desde Excel.
type InventoryHandler struct {
	ledgerUC *inventory.LedgerUseCase
	importUC *inventory.ImportUseCase

	maxUploadBytes int64
}

// NewInventoryHandler construye el handler de inventario.
func NewInventoryHandler(ledgerUC *inventory.LedgerUseCase, importUC *inventory.ImportUseCase, maxUploadMB int) *InventoryHandler {
	if maxUploadMB <= 0 {
		maxUploadMB = 10
	}
	return &InventoryHandler{
		ledgerUC:       ledgerUC,
		importUC:       importUC,
		maxUploadBytes: int64(maxUploadMB) << 20,
	}
}

// List godoc
// @Summary      Listar filas en existencia (cantidad > 0)
// @Tags         inventory
// @Produce      json
// @Param        sku     query  string  false  "filtrar por sku"
// @Param        bin     query  string  false  "filtrar por bin"
// @Param        limit   query  int     false  "tope de filas (def 20, max 100)"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200  {array}  dto.InventoryRecordResponse
// @Security     BearerAuth
// @Router       /api/inventory [get]
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.DefaultPage()
	f := repository.InventoryFilter{
		SKUID: strings.TrimSpace(c.Query("sku")),
		Bin:   strings.TrimSpace(c.Query("bin")),
	}
	recs, err := h.ledgerUC.List(c.Context(), f, page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.InventoryRecordResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, inventory.ToInventoryResponse(rec))
	}
	return c.JSON(out)
}

// ListBySKU godoc
// @Summary      Bins que tienen un sku (incluye cantidad 0)
// @Tags         inventory
// @Produce      json
// @Param        sku  path  string  true  "sku"
// @Success      200  {array}  dto.InventoryRecordResponse
// @Security     BearerAuth
// @Router       /api/inventory/sku/{sku} [get]
func (h *InventoryHandler) ListBySKU(c *fiber.Ctx) error {
	sku := strings.TrimSpace(c.Params("sku"))
	if sku == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "sku requerido"})
	}
	recs, err := h.ledgerUC.ListBySKU(c.Context(), sku)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.InventoryRecordResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, inventory.ToInventoryResponse(rec))
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Ajuste manual de existencias (delta con signo)
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "skuId, bin, delta"
// @Success      200   {object}  dto.InventoryRecordResponse
// @Failure      400   {object}  dto.StockShortage
// @Failure      404   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/inventory/update [post]
func (h *InventoryHandler) Update(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	rec, err := h.ledgerUC.ManualAdjust(c.Context(), in, GetActor(c))
	if err != nil {
		switch err {
		case domain.ErrInvalidInput:
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "skuId, bin y delta distinto de cero son requeridos"})
		case domain.ErrUnknownItem:
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "UNKNOWN_ITEM", Message: "no existe esa combinación sku/bin"})
		case domain.ErrInsufficientStock:
			return c.Status(fiber.StatusBadRequest).JSON(h.ledgerUC.Shortage(c.Context(), in.SKUID, in.Bin, -in.Delta))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(inventory.ToInventoryResponse(rec))
}

// ImportExcel godoc
// @Summary      Importar inventario o entradas desde un archivo Excel
// @Tags         inventory
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file    true   "archivo .xlsx o .xls"
// @Param        mode  query     string  false  "inventory (default) | inset"
// @Success      200  {object}  dto.ImportResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      413  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/inventory/import-excel [post]
func (h *InventoryHandler) ImportExcel(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_FILE", Message: "campo multipart 'file' requerido"})
	}
	if fileHeader.Size > h.maxUploadBytes {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(dto.ErrorResponse{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("el archivo supera el máximo de %d MB", h.maxUploadBytes>>20),
		})
	}
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext != ".xlsx" && ext != ".xls" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILE_TYPE", Message: "solo se aceptan archivos .xlsx o .xls"})
	}
	mode := c.Query("mode", inventory.ImportModeSeed)
	if mode != inventory.ImportModeSeed && mode != inventory.ImportModeInbound {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_MODE", Message: "mode debe ser 'inventory' o 'inset'"})
	}

	f, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "UNREADABLE_FILE", Message: err.Error()})
	}
	defer f.Close()

	results, err := h.importUC.ImportFile(c.Context(), f, mode, GetActor(c))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "IMPORT_FAILED", Message: err.Error()})
	}
	return c.JSON(dto.NewImportResponse(results))
}
