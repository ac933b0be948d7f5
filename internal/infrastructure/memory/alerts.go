package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.StockAlertRepository = (*alertRepo)(nil)

type alertRepo struct{ st *state }

func (r *alertRepo) GetByID(_ context.Context, id string) (*entity.StockAlert, error) {
	a, ok := r.st.alerts[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *alertRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockAlert, error) {
	return r.GetByID(ctx, id)
}

func (r *alertRepo) FindOpenStockLevel(_ context.Context, productID, warehouseID string) (*entity.StockAlert, error) {
	for _, a := range r.st.alerts {
		if a.State == entity.AlertStateOpen && a.Kind.IsStockLevel() && a.ProductID == productID && a.WarehouseID == warehouseID {
			return &a, nil
		}
	}
	return nil, nil
}

func (r *alertRepo) FindOpenForLot(_ context.Context, lotID string, kind entity.AlertKind) (*entity.StockAlert, error) {
	for _, a := range r.st.alerts {
		if a.State == entity.AlertStateOpen && a.Kind == kind && a.LotID == lotID {
			return &a, nil
		}
	}
	return nil, nil
}

func (r *alertRepo) ExistsForLot(_ context.Context, lotID string, kind entity.AlertKind) (bool, error) {
	for _, a := range r.st.alerts {
		if a.Kind == kind && a.LotID == lotID {
			return true, nil
		}
	}
	return false, nil
}

// conflicts replica los índices únicos parciales de stock_alerts.
func (r *alertRepo) conflicts(alert *entity.StockAlert) bool {
	for _, a := range r.st.alerts {
		if a.State != entity.AlertStateOpen || a.ID == alert.ID {
			continue
		}
		if alert.Kind.IsStockLevel() && a.Kind.IsStockLevel() &&
			a.ProductID == alert.ProductID && a.WarehouseID == alert.WarehouseID {
			return true
		}
		if alert.Kind.IsExpiration() && a.Kind == alert.Kind && a.LotID == alert.LotID {
			return true
		}
	}
	return false
}

func (r *alertRepo) InsertIfAbsent(_ context.Context, alert *entity.StockAlert) (bool, error) {
	if _, ok := r.st.alerts[alert.ID]; ok {
		return false, domain.ErrDuplicate
	}
	if alert.State == entity.AlertStateOpen && r.conflicts(alert) {
		return false, nil
	}
	r.st.alerts[alert.ID] = *alert
	r.st.insertSeq[alert.ID] = r.st.next()
	return true, nil
}

func (r *alertRepo) Update(_ context.Context, alert *entity.StockAlert) error {
	if _, ok := r.st.alerts[alert.ID]; !ok {
		return domain.ErrNotFound
	}
	if alert.State == entity.AlertStateOpen && r.conflicts(alert) {
		return domain.ErrDuplicate
	}
	r.st.alerts[alert.ID] = *alert
	return nil
}

var priorityRank = map[entity.AlertPriority]int{
	entity.AlertPriorityCritical: 4,
	entity.AlertPriorityHigh:     3,
	entity.AlertPriorityMedium:   2,
	entity.AlertPriorityLow:      1,
}

func (r *alertRepo) ListOpen(_ context.Context, f repository.AlertFilter) ([]*entity.StockAlert, error) {
	list := make([]*entity.StockAlert, 0)
	for _, a := range r.st.alerts {
		if a.State != entity.AlertStateOpen {
			continue
		}
		if (f.Kind != "" && a.Kind != f.Kind) ||
			(f.Priority != "" && a.Priority != f.Priority) ||
			(f.WarehouseID != "" && a.WarehouseID != f.WarehouseID) ||
			(f.ProductID != "" && a.ProductID != f.ProductID) {
			continue
		}
		a := a
		list = append(list, &a)
	}
	// prioridad descendente, luego más recientes primero
	sort.Slice(list, func(i, j int) bool {
		pi, pj := priorityRank[list[i].Priority], priorityRank[list[j].Priority]
		if pi != pj {
			return pi > pj
		}
		if !list[i].GeneratedAt.Equal(list[j].GeneratedAt) {
			return list[i].GeneratedAt.After(list[j].GeneratedAt)
		}
		return r.st.insertSeq[list[i].ID] > r.st.insertSeq[list[j].ID]
	})
	return page(list, f.Limit, f.Offset), nil
}
