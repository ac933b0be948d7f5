package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// InventoryHandler maneja el libro de movimientos y la lista de reposición (protegido).
type InventoryHandler struct {
	movements     *inventory.MovementUseCase
	replenishment *inventory.ReplenishmentUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(movements *inventory.MovementUseCase, replenishment *inventory.ReplenishmentUseCase) *InventoryHandler {
	return &InventoryHandler{movements: movements, replenishment: replenishment}
}

// CreateMovement godoc
// @Summary      Registrar movimiento de inventario
// @Description  Crea el movimiento en estado PENDING. No afecta saldos hasta confirmarse.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMovementRequest  true  "type, product_id, bodegas según el tipo, quantity"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) CreateMovement(c *fiber.Ctx) error {
	var in dto.CreateMovementRequest
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	mov, err := h.movements.CreateMovement(c.UserContext(), inventory.CreateMovementInput{
		Type:                   entity.MovementType(in.Type),
		ProductID:              in.ProductID,
		SupplierID:             in.SupplierID,
		SourceWarehouseID:      in.SourceWarehouseID,
		DestinationWarehouseID: in.DestinationWarehouseID,
		Quantity:               in.Quantity,
		UnitCost:               in.UnitCost,
		LotID:                  in.LotID,
		SerialNumber:           in.SerialNumber,
		DocumentType:           in.DocumentType,
		DocumentID:             in.DocumentID,
		Reference:              in.Reference,
		Notes:                  in.Notes,
		Date:                   in.Date,
		Actor:                  GetUserID(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MovementFromEntity(mov))
}

// GetMovement godoc
// @Summary      Obtener movimiento
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/{id} [get]
func (h *InventoryHandler) GetMovement(c *fiber.Ctx) error {
	mov, err := h.movements.GetMovement(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MovementFromEntity(mov))
}

// ListMovements godoc
// @Summary      Listar movimientos
// @Description  Más recientes primero. warehouse_id coincide con origen o destino.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  false  "Producto"
// @Param        warehouse_id  query  string  false  "Bodega (origen o destino)"
// @Param        type          query  string  false  "INGRESS | EGRESS | ADJUSTMENT | RETURN | TRANSFER"
// @Param        state         query  string  false  "PENDING | CONFIRMED | VOIDED"
// @Param        from          query  string  false  "Desde (RFC 3339)"
// @Param        to            query  string  false  "Hasta (RFC 3339)"
// @Param        limit         query  int     false  "Límite"  default(20)
// @Param        offset        query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	from, err := queryTime(c, "from")
	if err != nil {
		return writeError(c, err)
	}
	to, err := queryTime(c, "to")
	if err != nil {
		return writeError(c, err)
	}
	p := page(c)
	list, err := h.movements.ListMovements(c.UserContext(), repository.MovementFilter{
		ProductID:   c.Query("product_id"),
		WarehouseID: c.Query("warehouse_id"),
		Type:        entity.MovementType(c.Query("type")),
		State:       entity.MovementState(c.Query("state")),
		From:        from,
		To:          to,
		Limit:       p.Limit,
		Offset:      p.Offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, dto.MovementFromEntity(m))
	}
	return c.JSON(dto.MovementListResponse{Items: items, Page: dto.PageResponse{Limit: p.Limit, Offset: p.Offset}})
}

// ConfirmMovement godoc
// @Summary      Confirmar movimiento
// @Description  PENDING → CONFIRMED. Aplica el efecto sobre saldos y re-evalúa alertas en una sola transacción.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/{id}/confirm [post]
func (h *InventoryHandler) ConfirmMovement(c *fiber.Ctx) error {
	mov, err := h.movements.ConfirmMovement(c.UserContext(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MovementFromEntity(mov))
}

// VoidMovement godoc
// @Summary      Anular movimiento
// @Description  PENDING → VOIDED. No toca saldos.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/{id}/void [post]
func (h *InventoryHandler) VoidMovement(c *fiber.Ctx) error {
	mov, err := h.movements.VoidMovement(c.UserContext(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MovementFromEntity(mov))
}

// GetReplenishmentList godoc
// @Summary      Lista de reposición
// @Description  Pares con disponible igual o inferior al mínimo y la cantidad sugerida de pedido,
//
//	más urgentes primero.
//
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Filtrar por bodega. Vacío = todas."
// @Success      200  {array}   inventory.ReplenishmentSuggestion
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/inventory/replenishment [get]
func (h *InventoryHandler) GetReplenishmentList(c *fiber.Ctx) error {
	list, err := h.replenishment.GenerateReplenishmentList(c.UserContext(), c.Query("warehouse_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":          len(list),
		"replenishments": list,
	})
}
