package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// LotUseCase registra lotes (flujos de recepción) y administra su bloqueo.
type LotUseCase struct {
	txRunner TxRunner
	log      zerolog.Logger
	clock    Clock
}

// NewLotUseCase construye el caso de uso.
func NewLotUseCase(txRunner TxRunner, log zerolog.Logger, clock Clock) *LotUseCase {
	return &LotUseCase{txRunner: txRunner, log: log, clock: clock}
}

// RegisterLotInput entrada para registrar un lote. AvailableQuantity nil equivale a InitialQuantity.
type RegisterLotInput struct {
	Code              string
	ProductID         string
	WarehouseID       string
	ProductionDate    *time.Time
	ExpirationDate    *time.Time
	InitialQuantity   decimal.Decimal
	AvailableQuantity *decimal.Decimal
}

// RegisterLot valida y persiste un lote ACTIVE. El código es único.
func (uc *LotUseCase) RegisterLot(ctx context.Context, in RegisterLotInput) (*entity.Lot, error) {
	code := strings.TrimSpace(in.Code)
	if code == "" {
		return nil, domain.MissingField("code")
	}
	if in.ProductID == "" {
		return nil, domain.MissingField("product_id")
	}
	if in.WarehouseID == "" {
		return nil, domain.MissingField("warehouse_id")
	}
	if !in.InitialQuantity.IsPositive() {
		return nil, domain.InvalidField("initial_quantity", domain.ErrInvalidQuantity)
	}
	available := in.InitialQuantity
	if in.AvailableQuantity != nil {
		available = *in.AvailableQuantity
	}
	if available.IsNegative() || available.GreaterThan(in.InitialQuantity) {
		return nil, domain.InvalidField("available_quantity", domain.ErrInvalidQuantity)
	}
	if in.ProductionDate != nil && in.ExpirationDate != nil && in.ExpirationDate.Before(*in.ProductionDate) {
		return nil, domain.InvalidField("expiration_date", domain.ErrInvalidInput)
	}

	now := uc.clock.now()
	lot := &entity.Lot{
		ID:                uuid.New().String(),
		Code:              code,
		ProductID:         in.ProductID,
		WarehouseID:       in.WarehouseID,
		ProductionDate:    in.ProductionDate,
		ExpirationDate:    in.ExpirationDate,
		InitialQuantity:   in.InitialQuantity,
		AvailableQuantity: available,
		ReservedQuantity:  decimal.Zero,
		State:             entity.LotStateActive,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if available.IsZero() {
		lot.State = entity.LotStateDepleted
	}

	err := uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		product, err := repos.Products.GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		wh, err := repos.Warehouses.GetByID(ctx, in.WarehouseID)
		if err != nil {
			return err
		}
		if product == nil || wh == nil {
			return domain.ErrNotFound
		}
		if product.Perishable && in.ExpirationDate == nil {
			return domain.MissingField("expiration_date")
		}
		return repos.Lots.Create(ctx, lot)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("lot_id", lot.ID).Str("code", lot.Code).Str("product_id", lot.ProductID).Msg("lote registrado")
	return lot, nil
}

// GetLot obtiene un lote por ID.
func (uc *LotUseCase) GetLot(ctx context.Context, id string) (*entity.Lot, error) {
	var lot *entity.Lot
	err := uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		l, err := repos.Lots.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if l == nil {
			return domain.ErrNotFound
		}
		lot = l
		return nil
	})
	return lot, err
}

// ListLots lista lotes filtrados.
func (uc *LotUseCase) ListLots(ctx context.Context, filter repository.LotFilter) ([]*entity.Lot, error) {
	if filter.State != "" && !filter.State.Valid() {
		return nil, domain.InvalidField("state", domain.ErrInvalidInput)
	}
	var list []*entity.Lot
	err := uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		var err error
		list, err = repos.Lots.List(ctx, filter)
		return err
	})
	return list, err
}

// BlockLot bloquea un lote ACTIVE (queda fuera del barrido de vencimientos).
func (uc *LotUseCase) BlockLot(ctx context.Context, id string) (*entity.Lot, error) {
	return uc.transition(ctx, id, entity.LotStateActive, entity.LotStateBlocked)
}

// UnblockLot reactiva un lote BLOCKED.
func (uc *LotUseCase) UnblockLot(ctx context.Context, id string) (*entity.Lot, error) {
	return uc.transition(ctx, id, entity.LotStateBlocked, entity.LotStateActive)
}

func (uc *LotUseCase) transition(ctx context.Context, id string, from, to entity.LotState) (*entity.Lot, error) {
	var lot *entity.Lot
	err := uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		l, err := repos.Lots.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if l == nil {
			return domain.ErrNotFound
		}
		if l.State != from {
			return domain.ErrInvalidState
		}
		l.State = to
		l.UpdatedAt = uc.clock.now()
		if err := repos.Lots.Update(ctx, l); err != nil {
			return err
		}
		lot = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("lot_id", lot.ID).Str("state", string(to)).Msg("estado de lote actualizado")
	return lot, nil
}
