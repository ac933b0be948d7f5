package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC       *usecase.ProductUseCase
	WarehouseUC     *usecase.WarehouseUseCase
	MovementUC      *inventory.MovementUseCase
	BalanceUC       *inventory.BalanceUseCase
	AlertUC         *inventory.AlertUseCase
	LotUC           *inventory.LotUseCase
	ProvisioningUC  *inventory.ProvisioningUseCase
	ReplenishmentUC *inventory.ReplenishmentUseCase
	JWTSecret       string
}

// Router registra las rutas de la API. Todo /api requiere Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret), uuidQuery("product_id", "warehouse_id"))
	adminOnly := RequireRole(RoleAdmin)
	operators := RequireRole(RoleAdmin, RoleBodeguero)
	byID := uuidParams("id")
	byPair := uuidParams("product_id", "warehouse_id")

	// Products
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", operators, productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", byID, productHandler.GetByID)
	products.Put("/:id", operators, byID, productHandler.Update)

	// Warehouses
	warehouses := api.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", adminOnly, warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", byID, warehouseHandler.GetByID)
	warehouses.Put("/:id", adminOnly, byID, warehouseHandler.Update)

	// Lots
	lots := api.Group("/lots")
	lotHandler := NewLotHandler(deps.LotUC)
	lots.Post("/", operators, lotHandler.Register)
	lots.Get("/", lotHandler.List)
	lots.Get("/:id", byID, lotHandler.Get)
	lots.Post("/:id/block", operators, byID, lotHandler.Block)
	lots.Post("/:id/unblock", operators, byID, lotHandler.Unblock)

	inv := api.Group("/inventory")

	// Libro de movimientos
	inventoryHandler := NewInventoryHandler(deps.MovementUC, deps.ReplenishmentUC)
	inv.Post("/movements", operators, inventoryHandler.CreateMovement)
	inv.Get("/movements", inventoryHandler.ListMovements)
	inv.Get("/movements/:id", byID, inventoryHandler.GetMovement)
	inv.Post("/movements/:id/confirm", operators, byID, inventoryHandler.ConfirmMovement)
	inv.Post("/movements/:id/void", operators, byID, inventoryHandler.VoidMovement)
	inv.Get("/replenishment", inventoryHandler.GetReplenishmentList)

	// Saldos
	balanceHandler := NewBalanceHandler(deps.BalanceUC)
	inv.Get("/balances", balanceHandler.List)
	inv.Get("/balances/:product_id/:warehouse_id", byPair, balanceHandler.Get)
	inv.Delete("/balances/:product_id/:warehouse_id", adminOnly, byPair, balanceHandler.Delete)

	// Alertas
	alertHandler := NewAlertHandler(deps.AlertUC)
	inv.Get("/alerts", alertHandler.ListOpen)
	inv.Get("/alerts/:id", byID, alertHandler.Get)
	inv.Post("/alerts/:id/resolve", operators, byID, alertHandler.Resolve)
	inv.Post("/alerts/:id/dismiss", operators, byID, alertHandler.Dismiss)

	// Mantenimiento
	maintenance := inv.Group("/maintenance", adminOnly)
	maintenanceHandler := NewMaintenanceHandler(deps.ProvisioningUC, deps.AlertUC, deps.BalanceUC)
	maintenance.Post("/provision-balances", maintenanceHandler.ProvisionBalances)
	maintenance.Post("/sweep-expirations", maintenanceHandler.SweepExpirations)
	maintenance.Post("/rebuild-balances", maintenanceHandler.RebuildBalances)
}
