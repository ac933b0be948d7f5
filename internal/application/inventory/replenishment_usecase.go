package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// ReplenishmentSuggestion sugerencia de reposición para un par bajo su stock mínimo.
type ReplenishmentSuggestion struct {
	ProductID         string          `json:"product_id"`
	SKU               string          `json:"sku"`
	ProductName       string          `json:"product_name"`
	WarehouseID       string          `json:"warehouse_id"`
	Available         decimal.Decimal `json:"available"`
	StockMinimum      decimal.Decimal `json:"stock_minimum"`
	TargetStock       decimal.Decimal `json:"target_stock"`        // StockMaximum, o mínimo * 1.5 si no hay máximo
	SuggestedOrderQty decimal.Decimal `json:"suggested_order_qty"` // TargetStock - Available
	Priority          int             `json:"priority"`            // 1 = más urgente
}

// ReplenishmentUseCase genera la lista de reposición de una bodega a partir de los saldos.
type ReplenishmentUseCase struct {
	txRunner TxRunner
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(txRunner TxRunner) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{txRunner: txRunner}
}

var idealFactor = decimal.NewFromFloat(1.5)

// GenerateReplenishmentList devuelve los pares con disponible <= mínimo, ordenados por mayor
// déficit relativo primero. warehouseID vacío considera todas las bodegas.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context, warehouseID string) ([]ReplenishmentSuggestion, error) {
	suggestions := []ReplenishmentSuggestion{}
	err := uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		balances, err := repos.Balances.List(ctx, repository.BalanceFilter{WarehouseID: warehouseID})
		if err != nil {
			return err
		}
		products := make(map[string]*entity.Product)
		for _, b := range balances {
			product, ok := products[b.ProductID]
			if !ok {
				product, err = repos.Products.GetByID(ctx, b.ProductID)
				if err != nil {
					return err
				}
				products[b.ProductID] = product
			}
			if product == nil || !product.Active || !product.StockMinimum.IsPositive() {
				continue
			}
			if b.Available.GreaterThan(product.StockMinimum) {
				continue
			}
			target := product.StockMaximum
			if !target.GreaterThan(product.StockMinimum) {
				target = product.StockMinimum.Mul(idealFactor)
			}
			suggested := target.Sub(b.Available)
			if suggested.IsNegative() {
				suggested = decimal.Zero
			}
			suggestions = append(suggestions, ReplenishmentSuggestion{
				ProductID:         product.ID,
				SKU:               product.SKU,
				ProductName:       product.Name,
				WarehouseID:       b.WarehouseID,
				Available:         b.Available,
				StockMinimum:      product.StockMinimum,
				TargetStock:       target,
				SuggestedOrderQty: suggested,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Mayor déficit relativo (disponible / mínimo) primero; desempate por mayor cantidad sugerida.
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		ra := a.Available.Div(a.StockMinimum)
		rb := b.Available.Div(b.StockMinimum)
		if !ra.Equal(rb) {
			return ra.LessThan(rb)
		}
		return a.SuggestedOrderQty.GreaterThan(b.SuggestedOrderQty)
	})
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
