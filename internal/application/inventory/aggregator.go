package inventory

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// Aggregator mantiene los saldos por (producto, bodega) a partir de movimientos confirmados.
// Solo lo invoca la confirmación, dentro de su transacción.
type Aggregator struct {
	alerts *AlertGenerator
	log    zerolog.Logger
}

// NewAggregator construye el agregador.
func NewAggregator(alerts *AlertGenerator, log zerolog.Logger) *Aggregator {
	return &Aggregator{alerts: alerts, log: log}
}

// Apply aplica los efectos del movimiento sobre los saldos y re-evalúa la alerta de stock
// de cada par modificado. Una salida sobre un par sin fila no tiene efecto.
func (a *Aggregator) Apply(ctx context.Context, repos repository.Repositories, m *entity.Movement, at time.Time) error {
	product, err := repos.Products.GetByID(ctx, m.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}

	for _, e := range inventory.Effects(m) {
		var balance *entity.StockBalance
		switch e.Kind {
		case inventory.EffectCredit:
			balance, err = repos.Balances.Credit(ctx, e.ProductID, e.WarehouseID, e.Quantity, at)
		case inventory.EffectDebit:
			balance, err = repos.Balances.Debit(ctx, e.ProductID, e.WarehouseID, e.Quantity, at)
		}
		if err != nil {
			return err
		}
		if balance == nil {
			a.log.Debug().
				Str("movement_id", m.ID).
				Str("warehouse_id", e.WarehouseID).
				Msg("salida sin fila de saldo: sin efecto")
			continue
		}
		if err := a.alerts.EvaluateStock(ctx, repos, product, balance); err != nil {
			return err
		}
	}

	if q := inventory.LotDebit(m); q.IsPositive() {
		return a.consumeLot(ctx, repos, m.LotID, q, at)
	}
	return nil
}

// consumeLot descuenta la cantidad del lote (piso en cero) y lo marca DEPLETED al agotarse.
func (a *Aggregator) consumeLot(ctx context.Context, repos repository.Repositories, lotID string, q decimal.Decimal, at time.Time) error {
	lot, err := repos.Lots.GetForUpdate(ctx, lotID)
	if err != nil {
		return err
	}
	if lot == nil {
		return domain.ErrNotFound
	}
	lot.AvailableQuantity = inventory.FloorSub(lot.AvailableQuantity, q)
	if lot.AvailableQuantity.IsZero() && lot.State == entity.LotStateActive {
		lot.State = entity.LotStateDepleted
	}
	lot.UpdatedAt = at
	return repos.Lots.Update(ctx, lot)
}
