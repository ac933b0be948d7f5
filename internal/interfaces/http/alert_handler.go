package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// AlertHandler consulta y cierre manual de alertas.
type AlertHandler struct {
	uc *inventory.AlertUseCase
}

// NewAlertHandler construye el handler.
func NewAlertHandler(uc *inventory.AlertUseCase) *AlertHandler {
	return &AlertHandler{uc: uc}
}

// ListOpen godoc
// @Summary      Listar alertas abiertas
// @Description  Más urgentes primero.
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        kind          query  string  false  "LOW_STOCK | OUT_OF_STOCK | OVER_STOCK | NEAR_EXPIRY | EXPIRED"
// @Param        priority      query  string  false  "LOW | MEDIUM | HIGH | CRITICAL"
// @Param        warehouse_id  query  string  false  "Bodega"
// @Param        product_id    query  string  false  "Producto"
// @Success      200  {object}  dto.AlertListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/alerts [get]
func (h *AlertHandler) ListOpen(c *fiber.Ctx) error {
	p := page(c)
	list, err := h.uc.ListOpenAlerts(c.UserContext(), repository.AlertFilter{
		Kind:        entity.AlertKind(c.Query("kind")),
		Priority:    entity.AlertPriority(c.Query("priority")),
		WarehouseID: c.Query("warehouse_id"),
		ProductID:   c.Query("product_id"),
		Limit:       p.Limit,
		Offset:      p.Offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	items := make([]dto.AlertResponse, 0, len(list))
	for _, a := range list {
		items = append(items, dto.AlertFromEntity(a))
	}
	return c.JSON(dto.AlertListResponse{Items: items, Page: dto.PageResponse{Limit: p.Limit, Offset: p.Offset}})
}

// Get godoc
// @Summary      Obtener alerta
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la alerta"
// @Success      200  {object}  dto.AlertResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/alerts/{id} [get]
func (h *AlertHandler) Get(c *fiber.Ctx) error {
	a, err := h.uc.GetAlert(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.AlertFromEntity(a))
}

// Resolve godoc
// @Summary      Resolver alerta
// @Description  OPEN → RESOLVED. Las notas son obligatorias. No afecta inventario.
// @Tags         alerts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID de la alerta"
// @Param        body  body  dto.CloseAlertRequest  true  "Notas de resolución"
// @Success      200   {object}  dto.AlertResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/alerts/{id}/resolve [post]
func (h *AlertHandler) Resolve(c *fiber.Ctx) error {
	return h.close(c, h.uc.ResolveAlert)
}

// Dismiss godoc
// @Summary      Descartar alerta
// @Tags         alerts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID de la alerta"
// @Param        body  body  dto.CloseAlertRequest  true  "Motivo"
// @Success      200   {object}  dto.AlertResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/alerts/{id}/dismiss [post]
func (h *AlertHandler) Dismiss(c *fiber.Ctx) error {
	return h.close(c, h.uc.DismissAlert)
}

type closeFunc func(ctx context.Context, id, actor, notes string) (*entity.StockAlert, error)

func (h *AlertHandler) close(c *fiber.Ctx, fn closeFunc) error {
	var in dto.CloseAlertRequest
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	a, err := fn(c.UserContext(), c.Params("id"), GetUserID(c), in.Notes)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.AlertFromEntity(a))
}
