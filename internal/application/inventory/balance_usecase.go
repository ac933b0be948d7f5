package inventory

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// JobRebuildBalances nombre del trabajo de recálculo completo de saldos.
const JobRebuildBalances = "rebuild-balances"

// BalanceUseCase consulta y repara saldos. Los saldos son caché; la auditoría usa el libro.
type BalanceUseCase struct {
	txRunner TxRunner
	alerts   *AlertGenerator
	locker   JobLocker
	log      zerolog.Logger
}

// NewBalanceUseCase construye el caso de uso. locker nil equivale a NoopJobLocker.
func NewBalanceUseCase(txRunner TxRunner, alerts *AlertGenerator, locker JobLocker, log zerolog.Logger) *BalanceUseCase {
	if locker == nil {
		locker = NoopJobLocker{}
	}
	return &BalanceUseCase{txRunner: txRunner, alerts: alerts, locker: locker, log: log}
}

// GetBalance devuelve el saldo del par. Si la fila aún no existe devuelve un saldo en cero.
func (uc *BalanceUseCase) GetBalance(ctx context.Context, productID, warehouseID string) (*entity.StockBalance, error) {
	var balance *entity.StockBalance
	err := uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		product, err := repos.Products.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		wh, err := repos.Warehouses.GetByID(ctx, warehouseID)
		if err != nil {
			return err
		}
		if product == nil || wh == nil {
			return domain.ErrNotFound
		}
		balance, err = repos.Balances.Get(ctx, productID, warehouseID)
		if err != nil {
			return err
		}
		if balance == nil {
			balance = &entity.StockBalance{
				ProductID:   productID,
				WarehouseID: warehouseID,
				Available:   decimal.Zero,
				Reserved:    decimal.Zero,
				InTransit:   decimal.Zero,
			}
		}
		return nil
	})
	return balance, err
}

// ListBalances lista saldos filtrados por producto y/o bodega.
func (uc *BalanceUseCase) ListBalances(ctx context.Context, filter repository.BalanceFilter) ([]*entity.StockBalance, error) {
	var list []*entity.StockBalance
	err := uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		var err error
		list, err = repos.Balances.List(ctx, filter)
		return err
	})
	return list, err
}

// DeleteBalance elimina la fila de saldo del par y resuelve su alerta de stock abierta.
func (uc *BalanceUseCase) DeleteBalance(ctx context.Context, productID, warehouseID string) error {
	err := uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		deleted, err := repos.Balances.Delete(ctx, productID, warehouseID)
		if err != nil {
			return err
		}
		if !deleted {
			return domain.ErrNotFound
		}
		return uc.alerts.ResolveForRemovedBalance(ctx, repos, productID, warehouseID)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("product_id", productID).Str("warehouse_id", warehouseID).Msg("saldo eliminado")
	return nil
}

// RebuildResult resumen del recálculo completo.
type RebuildResult struct {
	Movements int `json:"movements"` // movimientos confirmados reproducidos
	Balances  int `json:"balances"`  // pares evaluados
	Corrected int `json:"corrected"` // filas cuyo disponible difería del libro
}

// RebuildBalances recalcula el disponible de cada par reproduciendo el libro completo y corrige
// las filas que difieren. Reservado y en tránsito no se tocan. Los pares corregidos re-evalúan su alerta.
func (uc *BalanceUseCase) RebuildBalances(ctx context.Context) (result RebuildResult, err error) {
	ctx, span := tracer.Start(ctx, "RebuildBalances")
	defer func() {
		span.SetAttributes(
			attribute.Int("movements.replayed", result.Movements),
			attribute.Int("balances.corrected", result.Corrected),
		)
		endSpan(span, err)
	}()

	release, err := uc.locker.Acquire(ctx, JobRebuildBalances)
	if err != nil {
		return RebuildResult{}, err
	}
	defer release()

	err = uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		result = RebuildResult{}
		if err := repos.Balances.LockForRebuild(ctx); err != nil {
			return err
		}
		movements, err := repos.Movements.ListConfirmed(ctx)
		if err != nil {
			return err
		}
		result.Movements = len(movements)
		expected := inventory.Replay(movements)

		current, err := repos.Balances.List(ctx, repository.BalanceFilter{})
		if err != nil {
			return err
		}
		for _, b := range current {
			key := inventory.Pair{ProductID: b.ProductID, WarehouseID: b.WarehouseID}
			if _, ok := expected[key]; !ok {
				expected[key] = decimal.Zero
			}
		}
		byPair := make(map[inventory.Pair]*entity.StockBalance, len(current))
		for _, b := range current {
			byPair[inventory.Pair{ProductID: b.ProductID, WarehouseID: b.WarehouseID}] = b
		}

		products := make(map[string]*entity.Product)
		for key, want := range expected {
			result.Balances++
			if b, ok := byPair[key]; ok && b.Available.Equal(want) {
				continue
			}
			updated, err := repos.Balances.SetAvailable(ctx, key.ProductID, key.WarehouseID, want)
			if err != nil {
				return err
			}
			result.Corrected++

			product, ok := products[key.ProductID]
			if !ok {
				product, err = repos.Products.GetByID(ctx, key.ProductID)
				if err != nil {
					return err
				}
				products[key.ProductID] = product
			}
			if product == nil {
				continue
			}
			if err := uc.alerts.EvaluateStock(ctx, repos, product, updated); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return RebuildResult{}, err
	}

	uc.log.Info().
		Int("movements", result.Movements).
		Int("balances", result.Balances).
		Int("corrected", result.Corrected).
		Msg("recálculo de saldos finalizado")
	return result, nil
}
