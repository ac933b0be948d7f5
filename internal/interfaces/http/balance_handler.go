package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// BalanceHandler expone los saldos por (producto, bodega).
type BalanceHandler struct {
	uc *inventory.BalanceUseCase
}

// NewBalanceHandler construye el handler.
func NewBalanceHandler(uc *inventory.BalanceUseCase) *BalanceHandler {
	return &BalanceHandler{uc: uc}
}

// Get godoc
// @Summary      Saldo de un producto en una bodega
// @Description  Un par sin fila se reporta en cero.
// @Tags         balances
// @Security     Bearer
// @Produce      json
// @Param        product_id    path  string  true  "Producto"
// @Param        warehouse_id  path  string  true  "Bodega"
// @Success      200  {object}  dto.BalanceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/balances/{product_id}/{warehouse_id} [get]
func (h *BalanceHandler) Get(c *fiber.Ctx) error {
	b, err := h.uc.GetBalance(c.UserContext(), c.Params("product_id"), c.Params("warehouse_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.BalanceFromEntity(b))
}

// List godoc
// @Summary      Listar saldos
// @Tags         balances
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  false  "Producto"
// @Param        warehouse_id  query  string  false  "Bodega"
// @Param        limit         query  int     false  "Límite"  default(20)
// @Param        offset        query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.BalanceListResponse
// @Router       /api/inventory/balances [get]
func (h *BalanceHandler) List(c *fiber.Ctx) error {
	p := page(c)
	list, err := h.uc.ListBalances(c.UserContext(), repository.BalanceFilter{
		ProductID:   c.Query("product_id"),
		WarehouseID: c.Query("warehouse_id"),
		Limit:       p.Limit,
		Offset:      p.Offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	items := make([]dto.BalanceResponse, 0, len(list))
	for _, b := range list {
		items = append(items, dto.BalanceFromEntity(b))
	}
	return c.JSON(dto.BalanceListResponse{Items: items, Page: dto.PageResponse{Limit: p.Limit, Offset: p.Offset}})
}

// Delete godoc
// @Summary      Eliminar saldo
// @Description  Elimina la fila del par y resuelve su alerta de stock abierta. Solo admin.
// @Tags         balances
// @Security     Bearer
// @Param        product_id    path  string  true  "Producto"
// @Param        warehouse_id  path  string  true  "Bodega"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/balances/{product_id}/{warehouse_id} [delete]
func (h *BalanceHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteBalance(c.UserContext(), c.Params("product_id"), c.Params("warehouse_id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
