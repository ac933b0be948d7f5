package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// MovementUseCase administra el libro de movimientos: creación (PENDING), confirmación y anulación.
// La confirmación es el único disparador de cambios de saldo.
type MovementUseCase struct {
	txRunner   TxRunner
	aggregator *Aggregator
	log        zerolog.Logger
	clock      Clock
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(txRunner TxRunner, aggregator *Aggregator, log zerolog.Logger, clock Clock) *MovementUseCase {
	return &MovementUseCase{
		txRunner:   txRunner,
		aggregator: aggregator,
		log:        log,
		clock:      clock,
	}
}

// CreateMovementInput entrada para crear un movimiento.
// Los campos exigidos dependen de Type (ver inventory.ValidateMovement).
type CreateMovementInput struct {
	Type                   entity.MovementType
	ProductID              string
	SupplierID             string
	SourceWarehouseID      string
	DestinationWarehouseID string
	Quantity               decimal.Decimal
	UnitCost               *decimal.Decimal
	LotID                  string
	SerialNumber           string
	DocumentType           string
	DocumentID             string
	Reference              string
	Notes                  string
	Date                   *time.Time
	Actor                  string
}

// CreateMovement valida y persiste un movimiento PENDING. No toca saldos.
func (uc *MovementUseCase) CreateMovement(ctx context.Context, in CreateMovementInput) (*entity.Movement, error) {
	now := uc.clock.now()
	mov := &entity.Movement{
		ID:                     uuid.New().String(),
		Type:                   in.Type,
		Date:                   now,
		ProductID:              strings.TrimSpace(in.ProductID),
		SupplierID:             strings.TrimSpace(in.SupplierID),
		SourceWarehouseID:      strings.TrimSpace(in.SourceWarehouseID),
		DestinationWarehouseID: strings.TrimSpace(in.DestinationWarehouseID),
		Quantity:               in.Quantity,
		UnitCost:               in.UnitCost,
		LotID:                  strings.TrimSpace(in.LotID),
		SerialNumber:           strings.TrimSpace(in.SerialNumber),
		DocumentType:           in.DocumentType,
		DocumentID:             in.DocumentID,
		Reference:              in.Reference,
		Notes:                  in.Notes,
		State:                  entity.MovementStatePending,
		CreatedBy:              in.Actor,
		CreatedAt:              now,
	}
	if in.Date != nil {
		mov.Date = *in.Date
	}
	if err := inventory.ValidateMovement(mov); err != nil {
		return nil, err
	}

	err := uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		product, err := repos.Products.GetByID(ctx, mov.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		for _, whID := range inventory.WarehouseIDs(mov) {
			wh, err := repos.Warehouses.GetByID(ctx, whID)
			if err != nil {
				return err
			}
			if wh == nil {
				return domain.ErrNotFound
			}
		}
		if product.LotControlled && mov.LotID == "" {
			return domain.MissingField("lot_id")
		}
		if product.SerialControlled && mov.SerialNumber == "" {
			return domain.MissingField("serial_number")
		}
		if mov.LotID != "" {
			lot, err := repos.Lots.GetByID(ctx, mov.LotID)
			if err != nil {
				return err
			}
			if lot == nil {
				return domain.ErrNotFound
			}
			if lot.ProductID != mov.ProductID || lot.WarehouseID != inventory.LotWarehouseID(mov) {
				return domain.InvalidField("lot_id", domain.ErrInvalidInput)
			}
		}
		return repos.Movements.Create(ctx, mov)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("movement_id", mov.ID).
		Str("type", string(mov.Type)).
		Str("product_id", mov.ProductID).
		Str("quantity", mov.Quantity.String()).
		Msg("movimiento registrado (PENDING)")
	return mov, nil
}

// ConfirmMovement confirma un movimiento PENDING y, en la misma transacción, aplica sus efectos
// sobre saldos y re-evalúa las alertas de los pares afectados.
func (uc *MovementUseCase) ConfirmMovement(ctx context.Context, id, actor string) (mov *entity.Movement, err error) {
	ctx, span := tracer.Start(ctx, "ConfirmMovement")
	span.SetAttributes(attribute.String("movement.id", id))
	defer func() { endSpan(span, err) }()

	if actor == "" {
		return nil, domain.MissingField("actor")
	}

	err = uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		m, err := repos.Movements.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if m == nil {
			return domain.ErrNotFound
		}
		if m.State != entity.MovementStatePending {
			return domain.ErrInvalidState
		}
		now := uc.clock.now()
		m.State = entity.MovementStateConfirmed
		m.ConfirmedAt = &now
		m.ConfirmedBy = actor
		if err := repos.Movements.UpdateState(ctx, m); err != nil {
			return err
		}
		if err := uc.aggregator.Apply(ctx, repos, m, now); err != nil {
			return err
		}
		mov = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("movement_id", mov.ID).
		Str("type", string(mov.Type)).
		Str("actor", actor).
		Msg("movimiento confirmado")
	return mov, nil
}

// VoidMovement anula un movimiento PENDING. No revierte saldos porque nunca los tocó.
func (uc *MovementUseCase) VoidMovement(ctx context.Context, id, actor string) (mov *entity.Movement, err error) {
	ctx, span := tracer.Start(ctx, "VoidMovement")
	span.SetAttributes(attribute.String("movement.id", id))
	defer func() { endSpan(span, err) }()

	if actor == "" {
		return nil, domain.MissingField("actor")
	}

	err = uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		m, err := repos.Movements.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if m == nil {
			return domain.ErrNotFound
		}
		if m.State != entity.MovementStatePending {
			return domain.ErrInvalidState
		}
		now := uc.clock.now()
		m.State = entity.MovementStateVoided
		m.VoidedAt = &now
		m.VoidedBy = actor
		if err := repos.Movements.UpdateState(ctx, m); err != nil {
			return err
		}
		mov = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("movement_id", mov.ID).Str("actor", actor).Msg("movimiento anulado")
	return mov, nil
}

// GetMovement obtiene un movimiento por ID.
func (uc *MovementUseCase) GetMovement(ctx context.Context, id string) (*entity.Movement, error) {
	var mov *entity.Movement
	err := uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		m, err := repos.Movements.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if m == nil {
			return domain.ErrNotFound
		}
		mov = m
		return nil
	})
	return mov, err
}

// ListMovements lista movimientos filtrados, más recientes primero.
func (uc *MovementUseCase) ListMovements(ctx context.Context, filter repository.MovementFilter) ([]*entity.Movement, error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, domain.InvalidField("type", domain.ErrInvalidInput)
	}
	if filter.State != "" && !filter.State.Valid() {
		return nil, domain.InvalidField("state", domain.ErrInvalidInput)
	}
	var list []*entity.Movement
	err := uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		var err error
		list, err = repos.Movements.List(ctx, filter)
		return err
	})
	return list, err
}
