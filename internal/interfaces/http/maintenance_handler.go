package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
)

// MaintenanceHandler dispara los trabajos batch bajo demanda (solo admin).
// En producción los mismos trabajos corren desde cmd/inventory-jobs.
type MaintenanceHandler struct {
	provisioning *inventory.ProvisioningUseCase
	alerts       *inventory.AlertUseCase
	balances     *inventory.BalanceUseCase
}

// NewMaintenanceHandler construye el handler.
func NewMaintenanceHandler(provisioning *inventory.ProvisioningUseCase, alerts *inventory.AlertUseCase, balances *inventory.BalanceUseCase) *MaintenanceHandler {
	return &MaintenanceHandler{provisioning: provisioning, alerts: alerts, balances: balances}
}

// ProvisionBalances godoc
// @Summary      Aprovisionar saldos faltantes
// @Description  Completa productos activos × bodegas activas. Idempotente.
// @Tags         maintenance
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CountResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/maintenance/provision-balances [post]
func (h *MaintenanceHandler) ProvisionBalances(c *fiber.Ctx) error {
	n, err := h.provisioning.ProvisionMissingBalances(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.CountResponse{Count: n})
}

// SweepExpirations godoc
// @Summary      Barrido de vencimientos
// @Tags         maintenance
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CountResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/maintenance/sweep-expirations [post]
func (h *MaintenanceHandler) SweepExpirations(c *fiber.Ctx) error {
	n, err := h.alerts.SweepExpirations(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.CountResponse{Count: n})
}

// RebuildBalances godoc
// @Summary      Recalcular saldos desde el libro
// @Tags         maintenance
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  inventory.RebuildResult
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/maintenance/rebuild-balances [post]
func (h *MaintenanceHandler) RebuildBalances(c *fiber.Ctx) error {
	res, err := h.balances.RebuildBalances(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}
