package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// AlertFilter filtros para listar alertas abiertas. Campos vacíos no filtran.
type AlertFilter struct {
	Kind        entity.AlertKind
	Priority    entity.AlertPriority
	WarehouseID string
	ProductID   string
	Limit       int
	Offset      int
}

// StockAlertRepository define el puerto de persistencia de alertas.
// La base garantiza una sola alerta OPEN de nivel de stock por (producto, bodega)
// y una sola OPEN por (lote, tipo) para vencimientos.
type StockAlertRepository interface {
	GetByID(ctx context.Context, id string) (*entity.StockAlert, error)
	GetForUpdate(ctx context.Context, id string) (*entity.StockAlert, error)
	// FindOpenStockLevel devuelve (bloqueada) la alerta OPEN LOW_STOCK/OUT_OF_STOCK del par, o nil.
	FindOpenStockLevel(ctx context.Context, productID, warehouseID string) (*entity.StockAlert, error)
	// FindOpenForLot devuelve (bloqueada) la alerta OPEN del tipo indicado para el lote, o nil.
	FindOpenForLot(ctx context.Context, lotID string, kind entity.AlertKind) (*entity.StockAlert, error)
	// ExistsForLot indica si el lote tuvo alguna vez una alerta del tipo, en cualquier estado.
	ExistsForLot(ctx context.Context, lotID string, kind entity.AlertKind) (bool, error)
	// InsertIfAbsent inserta la alerta salvo conflicto con otra OPEN equivalente; devuelve false si perdió la carrera.
	InsertIfAbsent(ctx context.Context, alert *entity.StockAlert) (bool, error)
	Update(ctx context.Context, alert *entity.StockAlert) error
	ListOpen(ctx context.Context, filter AlertFilter) ([]*entity.StockAlert, error)
}
