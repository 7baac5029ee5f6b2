package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/retail-backoffice/internal/application/dto"
	appstock "github.com/jhoicas/retail-backoffice/internal/application/stock"
	"github.com/jhoicas/retail-backoffice/internal/domain/money"
	"github.com/jhoicas/retail-backoffice/internal/domain/repository"
)

// StockHandler maneja las peticiones HTTP del motor de stock (protegido).
// Toda mutación pasa por el coordinador; aquí solo se parsea y se mapea error.
type StockHandler struct {
	coordinator      *appstock.Coordinator
	expiringSoonDays int
}

// NewStockHandler construye el handler. expiringSoonDays es el umbral por
// defecto del listado de lotes próximos a vencer.
func NewStockHandler(coordinator *appstock.Coordinator, expiringSoonDays int) *StockHandler {
	return &StockHandler{coordinator: coordinator, expiringSoonDays: expiringSoonDays}
}

func (h *StockHandler) quantityInput(c *fiber.Ctx) (appstock.QuantityInput, error) {
	var in dto.QuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return appstock.QuantityInput{}, fmt.Errorf("cuerpo inválido")
	}
	return appstock.QuantityInput{
		OrganizationID:  GetOrganizationID(c),
		UserID:          GetUserID(c),
		StockID:         c.Params("id"),
		Quantity:        in.Quantity,
		ReferenceNumber: in.ReferenceNumber,
	}, nil
}

// Reserve godoc
// @Summary      Reservar stock
// @Description  Aparta unidades del disponible recorriendo lotes según la
//               política de ordenamiento del despliegue (FIFO o FEFO). Todo o nada.
// @Tags         stocks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del stock"
// @Param        body  body  dto.QuantityRequest  true  "quantity, reference_number"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stocks/{id}/reserve [post]
func (h *StockHandler) Reserve(c *fiber.Ctx) error {
	in, err := h.quantityInput(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: err.Error()})
	}
	if err := h.coordinator.ReserveStock(c.Context(), in); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "reserva registrada"})
}

// Release godoc
// @Summary      Liberar reserva
// @Tags         stocks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del stock"
// @Param        body  body  dto.QuantityRequest  true  "quantity, reference_number"
// @Success      200   {object}  map[string]string
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stocks/{id}/release [post]
func (h *StockHandler) Release(c *fiber.Ctx) error {
	in, err := h.quantityInput(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: err.Error()})
	}
	if err := h.coordinator.ReleaseStock(c.Context(), in); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "reserva liberada"})
}

// Consume godoc
// @Summary      Consumir reserva (venta completada)
// @Tags         stocks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del stock"
// @Param        body  body  dto.QuantityRequest  true  "quantity, reference_number"
// @Success      200   {object}  map[string]string
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stocks/{id}/consume [post]
func (h *StockHandler) Consume(c *fiber.Ctx) error {
	in, err := h.quantityInput(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: err.Error()})
	}
	if err := h.coordinator.ConsumeStock(c.Context(), in); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "consumo registrado"})
}

// AddBatch godoc
// @Summary      Recibir lote
// @Description  Registra una recepción: crea el lote, recalcula el costo
//               promedio ponderado de la unidad y emite el movimiento RECEIPT.
// @Tags         stocks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AddBatchRequest  true  "batch_number, quantity, unit_cost; stock_id o sellable_unit_id + location_id"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stocks/receipts [post]
func (h *StockHandler) AddBatch(c *fiber.Ctx) error {
	var in dto.AddBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	unitCost, err := money.New(in.UnitCost, in.Currency)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	batchID, err := h.coordinator.AddBatch(c.Context(), appstock.AddBatchInput{
		OrganizationID:  GetOrganizationID(c),
		UserID:          GetUserID(c),
		StockID:         in.StockID,
		SellableUnitID:  in.SellableUnitID,
		LocationID:      in.LocationID,
		BatchNumber:     in.BatchNumber,
		Quantity:        in.Quantity,
		UnitCost:        unitCost,
		ExpiryDate:      in.ExpiryDate,
		Condition:       in.Condition,
		ReferenceNumber: in.ReferenceNumber,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"batch_id": batchID})
}

// AdjustBatch godoc
// @Summary      Ajustar cantidad de lote (reconciliación de conteo)
// @Tags         stocks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id       path  string  true  "ID del stock"
// @Param        batchID  path  string  true  "ID del lote"
// @Param        body     body  dto.AdjustBatchRequest  true  "counted_quantity, reference_number"
// @Success      200  {object}  map[string]string
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stocks/{id}/batches/{batchID}/adjust [post]
func (h *StockHandler) AdjustBatch(c *fiber.Ctx) error {
	var in dto.AdjustBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	err := h.coordinator.AdjustBatchQuantity(c.Context(), appstock.AdjustBatchInput{
		OrganizationID:  GetOrganizationID(c),
		UserID:          GetUserID(c),
		StockID:         c.Params("id"),
		BatchID:         c.Params("batchID"),
		CountedQuantity: in.CountedQuantity,
		ReferenceNumber: in.ReferenceNumber,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "ajuste registrado"})
}

// MoveBatchCondition godoc
// @Summary      Cambiar condición de lote
// @Tags         stocks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id       path  string  true  "ID del stock"
// @Param        batchID  path  string  true  "ID del lote"
// @Param        body     body  dto.MoveBatchConditionRequest  true  "condition"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stocks/{id}/batches/{batchID}/condition [post]
func (h *StockHandler) MoveBatchCondition(c *fiber.Ctx) error {
	var in dto.MoveBatchConditionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	err := h.coordinator.MoveBatchToCondition(c.Context(), appstock.MoveBatchConditionInput{
		OrganizationID:  GetOrganizationID(c),
		UserID:          GetUserID(c),
		StockID:         c.Params("id"),
		BatchID:         c.Params("batchID"),
		NewCondition:    in.Condition,
		ReferenceNumber: in.ReferenceNumber,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "condición actualizada"})
}

// Stocktake godoc
// @Summary      Registrar fecha de conteo físico
// @Description  Marca el instante del conteo sobre el agregado. No cambia
//               cantidades: los deltas van por el ajuste de lote.
// @Tags         stocks
// @Security     Bearer
// @Param        id  path  string  true  "ID del stock"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stocks/{id}/stocktake [post]
func (h *StockHandler) Stocktake(c *fiber.Ctx) error {
	if err := h.coordinator.RecordStocktake(c.Context(), GetOrganizationID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "conteo registrado"})
}

// Snapshot godoc
// @Summary      Totales derivados del stock
// @Tags         stocks
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del stock"
// @Success      200  {object}  dto.StockSnapshotResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stocks/{id} [get]
func (h *StockHandler) Snapshot(c *fiber.Ctx) error {
	out, err := h.coordinator.GetStockSnapshot(c.Context(), GetOrganizationID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ExpiringBatches godoc
// @Summary      Lotes próximos a vencer
// @Tags         stocks
// @Security     Bearer
// @Produce      json
// @Param        id    path   string  true   "ID del stock"
// @Param        days  query  int     false  "Umbral en días (default configurado)"
// @Success      200  {array}  dto.BatchResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stocks/{id}/expiring [get]
func (h *StockHandler) ExpiringBatches(c *fiber.Ctx) error {
	days := c.QueryInt("days", h.expiringSoonDays)
	out, err := h.coordinator.ListExpiringBatches(c.Context(), GetOrganizationID(c), c.Params("id"), days)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// LowStock godoc
// @Summary      Stocks en o bajo el nivel de reorden
// @Tags         stocks
// @Security     Bearer
// @Produce      json
// @Param        location_id  query  string  true   "Ubicación a revisar"
// @Param        limit        query  int     false  "Tamaño de página"
// @Param        offset       query  int     false  "Desplazamiento"
// @Success      200  {array}  dto.LowStockItemResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stocks/low-stock [get]
func (h *StockHandler) LowStock(c *fiber.Ctx) error {
	locationID := c.Query("location_id")
	if locationID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "location_id requerido"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	out, err := h.coordinator.ListLowStock(c.Context(), GetOrganizationID(c), locationID, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListMovements godoc
// @Summary      Libro de movimientos de una unidad vendible
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        sellable_unit_id  query  string  true   "Unidad vendible"
// @Param        from              query  string  false  "Desde (RFC3339)"
// @Param        to                query  string  false  "Hasta, exclusivo (RFC3339)"
// @Param        type              query  string  false  "Tipo de movimiento"
// @Param        reference_number  query  string  false  "Referencia exacta"
// @Param        limit             query  int     false  "Tamaño de página"
// @Param        offset            query  int     false  "Desplazamiento"
// @Success      200  {array}  dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movements [get]
func (h *StockHandler) ListMovements(c *fiber.Ctx) error {
	unitID := c.Query("sellable_unit_id")
	if unitID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "sellable_unit_id requerido"})
	}
	filter := repository.MovementFilter{
		Type:            c.Query("type"),
		ReferenceNumber: c.Query("reference_number"),
		Limit:           c.QueryInt("limit", 50),
		Offset:          c.QueryInt("offset", 0),
	}
	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from debe ser RFC3339"})
		}
		filter.From = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to debe ser RFC3339"})
		}
		filter.To = &t
	}
	out, err := h.coordinator.ListMovements(c.Context(), GetOrganizationID(c), unitID, filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
