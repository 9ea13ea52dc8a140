package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dfmorales/almacen-api/internal/application/dto"
	"github.com/dfmorales/almacen-api/internal/application/usecase"
	"github.com/dfmorales/almacen-api/internal/domain"
)

const metaTypeBins = "bins"

// MetadataHandler CRUD de bins y catálogos auxiliares. El tipo viene en la
// ruta (/api/metadata/:type); "bins" tiene forma propia y baja lógica, el
// resto son catálogos planos nombre+id.
type MetadataHandler struct {
	uc *usecase.MetadataUseCase
}

// NewMetadataHandler construye el handler de metadatos.
func NewMetadataHandler(uc *usecase.MetadataUseCase) *MetadataHandler {
	return &MetadataHandler{uc: uc}
}

// List godoc
// @Summary      Listar un catálogo (bins, sizes, colors, packs, categories)
// @Tags         metadata
// @Produce      json
// @Param        type             path   string  true   "tipo de catálogo"
// @Param        includeInactive  query  bool    false  "solo bins: incluir inactivos"
// @Success      200  {array}  dto.MetadataItemResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/metadata/{type} [get]
func (h *MetadataHandler) List(c *fiber.Ctx) error {
	metaType := c.Params("type")
	if metaType == metaTypeBins {
		bins, err := h.uc.ListBins(c.Context(), c.QueryBool("includeInactive"))
		if err != nil {
			return h.metaError(c, err)
		}
		return c.JSON(bins)
	}
	items, err := h.uc.ListMetadata(c.Context(), metaType)
	if err != nil {
		return h.metaError(c, err)
	}
	return c.JSON(items)
}

// Create godoc
// @Summary      Crear una entrada de catálogo
// @Tags         metadata
// @Accept       json
// @Produce      json
// @Param        type  path  string                  true  "tipo de catálogo"
// @Param        body  body  dto.CreateNamedRequest  true  "name"
// @Success      201   {object}  dto.MetadataItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/metadata/{type} [post]
func (h *MetadataHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateNamedRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	metaType := c.Params("type")
	if metaType == metaTypeBins {
		bin, err := h.uc.CreateBin(c.Context(), in.Name, GetActor(c))
		if err != nil {
			return h.metaError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(bin)
	}
	item, err := h.uc.CreateMetadata(c.Context(), metaType, in.Name, GetActor(c))
	if err != nil {
		return h.metaError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// Rename godoc
// @Summary      Renombrar una entrada de catálogo
// @Tags         metadata
// @Accept       json
// @Produce      json
// @Param        type  path  string                  true  "tipo de catálogo"
// @Param        id    path  string                  true  "id de la entrada"
// @Param        body  body  dto.CreateNamedRequest  true  "name"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/metadata/{type}/{id} [put]
func (h *MetadataHandler) Rename(c *fiber.Ctx) error {
	var in dto.CreateNamedRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	metaType, id := c.Params("type"), c.Params("id")
	var err error
	if metaType == metaTypeBins {
		err = h.uc.RenameBin(c.Context(), id, in.Name, GetActor(c))
	} else {
		err = h.uc.RenameMetadata(c.Context(), metaType, id, in.Name, GetActor(c))
	}
	if err != nil {
		return h.metaError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Delete godoc
// @Summary      Eliminar una entrada de catálogo (bins: baja lógica)
// @Tags         metadata
// @Produce      json
// @Param        type  path  string  true  "tipo de catálogo"
// @Param        id    path  string  true  "id de la entrada"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/metadata/{type}/{id} [delete]
func (h *MetadataHandler) Delete(c *fiber.Ctx) error {
	metaType, id := c.Params("type"), c.Params("id")
	var err error
	if metaType == metaTypeBins {
		err = h.uc.DeactivateBin(c.Context(), id, GetActor(c))
	} else {
		err = h.uc.DeleteMetadata(c.Context(), metaType, id, GetActor(c))
	}
	if err != nil {
		return h.metaError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *MetadataHandler) metaError(c *fiber.Ctx, err error) error {
	switch err {
	case domain.ErrInvalidInput:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "tipo de catálogo o nombre inválido"})
	case domain.ErrDuplicate:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "ya existe una entrada con ese nombre"})
	case domain.ErrNotFound:
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "entrada no encontrada"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
