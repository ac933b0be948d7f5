package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// MovementFilter filtros para listar movimientos. Campos vacíos no filtran.
// WarehouseID coincide con bodega origen o destino.
type MovementFilter struct {
	ProductID   string
	WarehouseID string
	Type        entity.MovementType
	State       entity.MovementState
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}

// MovementRepository define el puerto de persistencia del libro de movimientos.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	// GetForUpdate bloquea la fila del movimiento durante la confirmación o anulación.
	GetForUpdate(ctx context.Context, id string) (*entity.Movement, error)
	// UpdateState persiste State y los sellos de confirmación/anulación.
	UpdateState(ctx context.Context, movement *entity.Movement) error
	List(ctx context.Context, filter MovementFilter) ([]*entity.Movement, error)
	// ListConfirmed devuelve todos los movimientos CONFIRMED en orden de confirmación (confirmation_seq).
	ListConfirmed(ctx context.Context) ([]*entity.Movement, error)
}
