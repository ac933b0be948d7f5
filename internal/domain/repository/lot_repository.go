package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// LotFilter filtros para listar lotes. Campos vacíos no filtran.
type LotFilter struct {
	ProductID   string
	WarehouseID string
	State       entity.LotState
	Limit       int
	Offset      int
}

// LotRepository define el puerto de persistencia para lotes.
// Los lotes no se eliminan; solo cambian cantidad y estado.
type LotRepository interface {
	Create(ctx context.Context, lot *entity.Lot) error
	GetByID(ctx context.Context, id string) (*entity.Lot, error)
	// GetForUpdate bloquea la fila del lote (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Lot, error)
	Update(ctx context.Context, lot *entity.Lot) error
	List(ctx context.Context, filter LotFilter) ([]*entity.Lot, error)
	// ListForExpirationSweep devuelve lotes ACTIVE con cantidad disponible > 0 y fecha de vencimiento.
	ListForExpirationSweep(ctx context.Context) ([]*entity.Lot, error)
}
