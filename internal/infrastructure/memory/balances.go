package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.StockBalanceRepository = (*balanceRepo)(nil)

type balanceRepo struct{ st *state }

func (r *balanceRepo) Get(_ context.Context, productID, warehouseID string) (*entity.StockBalance, error) {
	b, ok := r.st.balances[balanceKey{productID, warehouseID}]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r *balanceRepo) List(_ context.Context, f repository.BalanceFilter) ([]*entity.StockBalance, error) {
	list := make([]*entity.StockBalance, 0)
	for _, b := range r.st.balances {
		if (f.ProductID == "" || b.ProductID == f.ProductID) && (f.WarehouseID == "" || b.WarehouseID == f.WarehouseID) {
			b := b
			list = append(list, &b)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].ProductID != list[j].ProductID {
			return list[i].ProductID < list[j].ProductID
		}
		return list[i].WarehouseID < list[j].WarehouseID
	})
	return page(list, f.Limit, f.Offset), nil
}

func (r *balanceRepo) zero(productID, warehouseID string) entity.StockBalance {
	return entity.StockBalance{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Available:   decimal.Zero,
		Reserved:    decimal.Zero,
		InTransit:   decimal.Zero,
		UpdatedAt:   time.Now().UTC(),
	}
}

func (r *balanceRepo) EnsureExists(_ context.Context, productID, warehouseID string) (bool, error) {
	key := balanceKey{productID, warehouseID}
	if _, ok := r.st.balances[key]; ok {
		return false, nil
	}
	r.st.balances[key] = r.zero(productID, warehouseID)
	return true, nil
}

func (r *balanceRepo) Credit(_ context.Context, productID, warehouseID string, qty decimal.Decimal, at time.Time) (*entity.StockBalance, error) {
	key := balanceKey{productID, warehouseID}
	b, ok := r.st.balances[key]
	if !ok {
		b = r.zero(productID, warehouseID)
	}
	b.Available = b.Available.Add(qty)
	b.LastIngressAt = &at
	b.UpdatedAt = at
	r.st.balances[key] = b
	return &b, nil
}

func (r *balanceRepo) Debit(_ context.Context, productID, warehouseID string, qty decimal.Decimal, at time.Time) (*entity.StockBalance, error) {
	key := balanceKey{productID, warehouseID}
	b, ok := r.st.balances[key]
	if !ok {
		return nil, nil
	}
	b.Available = inventory.FloorSub(b.Available, qty)
	b.LastEgressAt = &at
	b.UpdatedAt = at
	r.st.balances[key] = b
	return &b, nil
}

// LockForRebuild no hace nada: Store.Run ya serializa todas las transacciones.
func (r *balanceRepo) LockForRebuild(context.Context) error { return nil }

func (r *balanceRepo) SetAvailable(_ context.Context, productID, warehouseID string, available decimal.Decimal) (*entity.StockBalance, error) {
	key := balanceKey{productID, warehouseID}
	b, ok := r.st.balances[key]
	if !ok {
		b = r.zero(productID, warehouseID)
	}
	b.Available = available
	b.UpdatedAt = time.Now().UTC()
	r.st.balances[key] = b
	return &b, nil
}

func (r *balanceRepo) Delete(_ context.Context, productID, warehouseID string) (bool, error) {
	key := balanceKey{productID, warehouseID}
	if _, ok := r.st.balances[key]; !ok {
		return false, nil
	}
	delete(r.st.balances, key)
	return true, nil
}
