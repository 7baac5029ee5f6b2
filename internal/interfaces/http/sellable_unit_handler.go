package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/retail-backoffice/internal/application/dto"
	"github.com/jhoicas/retail-backoffice/internal/application/usecase"
)

// SellableUnitHandler maneja las peticiones HTTP del catálogo de SKUs (protegido).
type SellableUnitHandler struct {
	uc *usecase.SellableUnitUseCase
}

// NewSellableUnitHandler construye el handler.
func NewSellableUnitHandler(uc *usecase.SellableUnitUseCase) *SellableUnitHandler {
	return &SellableUnitHandler{uc: uc}
}

// Create godoc
// @Summary      Crear unidad vendible
// @Tags         sellable-units
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSellableUnitRequest  true  "sku, name, price, reorder_level"
// @Success      201   {object}  dto.SellableUnitResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sellable-units [post]
func (h *SellableUnitHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSellableUnitRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(GetOrganizationID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener unidad vendible
// @Tags         sellable-units
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la unidad"
// @Success      200  {object}  dto.SellableUnitResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sellable-units/{id} [get]
func (h *SellableUnitHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(GetOrganizationID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "unidad no encontrada"})
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar unidad vendible
// @Tags         sellable-units
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la unidad"
// @Param        body  body  dto.UpdateSellableUnitRequest  true  "campos a actualizar"
// @Success      200   {object}  dto.SellableUnitResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sellable-units/{id} [put]
func (h *SellableUnitHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateSellableUnitRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(GetOrganizationID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "unidad no encontrada"})
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar unidades vendibles de la organización
// @Tags         sellable-units
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Tamaño de página"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {object}  dto.SellableUnitListResponse
// @Router       /api/sellable-units [get]
func (h *SellableUnitHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	out, err := h.uc.List(GetOrganizationID(c), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar unidad vendible
// @Tags         sellable-units
// @Security     Bearer
// @Param        id  path  string  true  "ID de la unidad"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sellable-units/{id} [delete]
func (h *SellableUnitHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(GetOrganizationID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
