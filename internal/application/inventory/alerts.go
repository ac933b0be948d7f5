package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// AlertGenerator deriva alertas de nivel de stock (por saldo) y de vencimiento (por lote).
// Ambas familias son idempotentes: re-ejecutar converge al mismo conjunto de alertas abiertas.
type AlertGenerator struct {
	log   zerolog.Logger
	clock Clock
}

// NewAlertGenerator construye el generador.
func NewAlertGenerator(log zerolog.Logger, clock Clock) *AlertGenerator {
	return &AlertGenerator{log: log, clock: clock}
}

// EvaluateStock re-evalúa el par (producto, bodega) del saldo contra el mínimo del producto.
// Mantiene una sola alerta OPEN de nivel de stock por par: si ya existe se actualiza en sitio
// (tipo, cantidad, prioridad, fecha), y se resuelve sola cuando el saldo supera el mínimo.
func (g *AlertGenerator) EvaluateStock(ctx context.Context, repos repository.Repositories, product *entity.Product, balance *entity.StockBalance) error {
	decision := inventory.EvaluateStockLevel(balance.Available, product.StockMinimum)
	existing, err := repos.Alerts.FindOpenStockLevel(ctx, balance.ProductID, balance.WarehouseID)
	if err != nil {
		return err
	}
	now := g.clock.now()

	switch decision.Action {
	case inventory.StockActionResolve:
		if existing == nil {
			return nil
		}
		note := fmt.Sprintf("resuelta automáticamente: disponible %s supera el mínimo %s",
			balance.Available.String(), product.StockMinimum.String())
		return g.autoResolve(ctx, repos, existing, note, now)

	case inventory.StockActionRaise:
		if existing != nil {
			return g.refreshStockAlert(ctx, repos, existing, decision, balance, product, now)
		}
		alert := &entity.StockAlert{
			ID:              uuid.New().String(),
			Kind:            decision.Kind,
			ProductID:       balance.ProductID,
			WarehouseID:     balance.WarehouseID,
			CurrentQuantity: balance.Available,
			Threshold:       product.StockMinimum,
			Priority:        decision.Priority,
			State:           entity.AlertStateOpen,
			GeneratedAt:     now,
		}
		inserted, err := repos.Alerts.InsertIfAbsent(ctx, alert)
		if err != nil {
			return err
		}
		if inserted {
			g.log.Info().
				Str("alert_id", alert.ID).
				Str("kind", string(alert.Kind)).
				Str("priority", string(alert.Priority)).
				Str("product_id", alert.ProductID).
				Str("warehouse_id", alert.WarehouseID).
				Msg("alerta de stock abierta")
			return nil
		}
		// Otra transacción abrió la alerta del par: se actualiza la ganadora.
		existing, err = repos.Alerts.FindOpenStockLevel(ctx, balance.ProductID, balance.WarehouseID)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrConflict
		}
		return g.refreshStockAlert(ctx, repos, existing, decision, balance, product, now)
	}
	return nil
}

func (g *AlertGenerator) refreshStockAlert(
	ctx context.Context,
	repos repository.Repositories,
	alert *entity.StockAlert,
	decision inventory.StockDecision,
	balance *entity.StockBalance,
	product *entity.Product,
	now time.Time,
) error {
	if alert.Kind != decision.Kind {
		g.log.Info().
			Str("alert_id", alert.ID).
			Str("from", string(alert.Kind)).
			Str("to", string(decision.Kind)).
			Msg("alerta de stock cambia de tipo")
	}
	alert.Kind = decision.Kind
	alert.Priority = decision.Priority
	alert.CurrentQuantity = balance.Available
	alert.Threshold = product.StockMinimum
	alert.GeneratedAt = now
	return repos.Alerts.Update(ctx, alert)
}

// ResolveForRemovedBalance resuelve la alerta de stock abierta de un par cuya fila de saldo se eliminó.
func (g *AlertGenerator) ResolveForRemovedBalance(ctx context.Context, repos repository.Repositories, productID, warehouseID string) error {
	existing, err := repos.Alerts.FindOpenStockLevel(ctx, productID, warehouseID)
	if err != nil || existing == nil {
		return err
	}
	return g.autoResolve(ctx, repos, existing, "resuelta automáticamente: saldo eliminado", g.clock.now())
}

func (g *AlertGenerator) autoResolve(ctx context.Context, repos repository.Repositories, alert *entity.StockAlert, note string, now time.Time) error {
	alert.State = entity.AlertStateResolved
	alert.ResolvedAt = &now
	alert.ResolvedBy = SystemActor
	alert.ResolutionNotes = note
	if err := repos.Alerts.Update(ctx, alert); err != nil {
		return err
	}
	g.log.Info().
		Str("alert_id", alert.ID).
		Str("product_id", alert.ProductID).
		Str("warehouse_id", alert.WarehouseID).
		Msg("alerta de stock resuelta automáticamente")
	return nil
}

// EvaluateLot aplica la regla de vencimientos a un lote. Devuelve true si creó o actualizó una alerta.
// EXPIRED se crea una sola vez por lote, aunque la anterior se haya cerrado; NEAR_EXPIRY recalcula días y prioridad en cada barrido.
// Ninguna de las dos se resuelve automáticamente.
func (g *AlertGenerator) EvaluateLot(ctx context.Context, repos repository.Repositories, lot *entity.Lot, today time.Time) (bool, error) {
	decision := inventory.EvaluateExpiration(lot, today)
	if !decision.Applies {
		return false, nil
	}
	existing, err := repos.Alerts.FindOpenForLot(ctx, lot.ID, decision.Kind)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return g.refreshLotAlert(ctx, repos, existing, decision, lot)
	}
	if decision.Kind == entity.AlertKindExpired {
		seen, err := repos.Alerts.ExistsForLot(ctx, lot.ID, decision.Kind)
		if err != nil {
			return false, err
		}
		if seen {
			return false, nil
		}
	}

	days := decision.Days
	threshold := decimal.Zero
	if decision.Kind == entity.AlertKindNearExpiry {
		threshold = decimal.NewFromInt(inventory.NearExpiryWindowDays)
	}
	alert := &entity.StockAlert{
		ID:              uuid.New().String(),
		Kind:            decision.Kind,
		ProductID:       lot.ProductID,
		WarehouseID:     lot.WarehouseID,
		LotID:           lot.ID,
		CurrentQuantity: lot.AvailableQuantity,
		Threshold:       threshold,
		ExpirationDate:  lot.ExpirationDate,
		DaysToExpiry:    &days,
		Priority:        decision.Priority,
		State:           entity.AlertStateOpen,
		GeneratedAt:     g.clock.now(),
	}
	inserted, err := repos.Alerts.InsertIfAbsent(ctx, alert)
	if err != nil {
		return false, err
	}
	if inserted {
		g.log.Info().
			Str("alert_id", alert.ID).
			Str("kind", string(alert.Kind)).
			Str("lot_id", lot.ID).
			Int("days_to_expiry", days).
			Msg("alerta de vencimiento abierta")
		return true, nil
	}
	existing, err = repos.Alerts.FindOpenForLot(ctx, lot.ID, decision.Kind)
	if err != nil {
		return false, err
	}
	if existing == nil {
		return false, domain.ErrConflict
	}
	return g.refreshLotAlert(ctx, repos, existing, decision, lot)
}

func (g *AlertGenerator) refreshLotAlert(ctx context.Context, repos repository.Repositories, alert *entity.StockAlert, decision inventory.ExpirationDecision, lot *entity.Lot) (bool, error) {
	if decision.Kind == entity.AlertKindExpired {
		return false, nil
	}
	days := decision.Days
	alert.DaysToExpiry = &days
	alert.Priority = decision.Priority
	alert.CurrentQuantity = lot.AvailableQuantity
	alert.ExpirationDate = lot.ExpirationDate
	if err := repos.Alerts.Update(ctx, alert); err != nil {
		return false, err
	}
	return true, nil
}
