package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// LotHandler registro y bloqueo de lotes.
type LotHandler struct {
	uc *inventory.LotUseCase
}

// NewLotHandler construye el handler.
func NewLotHandler(uc *inventory.LotUseCase) *LotHandler {
	return &LotHandler{uc: uc}
}

// Register godoc
// @Summary      Registrar lote
// @Description  Los productos perecederos exigen fecha de vencimiento. El código es único.
// @Tags         lots
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterLotRequest  true  "Datos del lote"
// @Success      201   {object}  dto.LotResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/lots [post]
func (h *LotHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterLotRequest
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	lot, err := h.uc.RegisterLot(c.UserContext(), inventory.RegisterLotInput{
		Code:              in.Code,
		ProductID:         in.ProductID,
		WarehouseID:       in.WarehouseID,
		ProductionDate:    in.ProductionDate,
		ExpirationDate:    in.ExpirationDate,
		InitialQuantity:   in.InitialQuantity,
		AvailableQuantity: in.AvailableQuantity,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.LotFromEntity(lot))
}

// Get godoc
// @Summary      Obtener lote
// @Tags         lots
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del lote"
// @Success      200  {object}  dto.LotResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/lots/{id} [get]
func (h *LotHandler) Get(c *fiber.Ctx) error {
	lot, err := h.uc.GetLot(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.LotFromEntity(lot))
}

// List godoc
// @Summary      Listar lotes
// @Tags         lots
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  false  "Producto"
// @Param        warehouse_id  query  string  false  "Bodega"
// @Param        state         query  string  false  "ACTIVE | EXPIRED | DEPLETED | BLOCKED"
// @Success      200  {object}  dto.LotListResponse
// @Router       /api/lots [get]
func (h *LotHandler) List(c *fiber.Ctx) error {
	p := page(c)
	list, err := h.uc.ListLots(c.UserContext(), repository.LotFilter{
		ProductID:   c.Query("product_id"),
		WarehouseID: c.Query("warehouse_id"),
		State:       entity.LotState(c.Query("state")),
		Limit:       p.Limit,
		Offset:      p.Offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	items := make([]dto.LotResponse, 0, len(list))
	for _, l := range list {
		items = append(items, dto.LotFromEntity(l))
	}
	return c.JSON(dto.LotListResponse{Items: items, Page: dto.PageResponse{Limit: p.Limit, Offset: p.Offset}})
}

// Block godoc
// @Summary      Bloquear lote
// @Tags         lots
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del lote"
// @Success      200  {object}  dto.LotResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/lots/{id}/block [post]
func (h *LotHandler) Block(c *fiber.Ctx) error {
	lot, err := h.uc.BlockLot(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.LotFromEntity(lot))
}

// Unblock godoc
// @Summary      Desbloquear lote
// @Tags         lots
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del lote"
// @Success      200  {object}  dto.LotResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/lots/{id}/unblock [post]
func (h *LotHandler) Unblock(c *fiber.Ctx) error {
	lot, err := h.uc.UnblockLot(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.LotFromEntity(lot))
}
