package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var (
	_ repository.LotRepository      = (*lotRepo)(nil)
	_ repository.MovementRepository = (*movementRepo)(nil)
)

type lotRepo struct{ st *state }

func (r *lotRepo) Create(_ context.Context, l *entity.Lot) error {
	for _, other := range r.st.lots {
		if other.Code == l.Code {
			return domain.ErrDuplicate
		}
	}
	r.st.lots[l.ID] = *l
	r.st.insertSeq[l.ID] = r.st.next()
	return nil
}

func (r *lotRepo) GetByID(_ context.Context, id string) (*entity.Lot, error) {
	l, ok := r.st.lots[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (r *lotRepo) GetForUpdate(ctx context.Context, id string) (*entity.Lot, error) {
	return r.GetByID(ctx, id)
}

func (r *lotRepo) Update(_ context.Context, l *entity.Lot) error {
	if _, ok := r.st.lots[l.ID]; !ok {
		return domain.ErrNotFound
	}
	r.st.lots[l.ID] = *l
	return nil
}

func (r *lotRepo) collect(keep func(entity.Lot) bool) []*entity.Lot {
	list := make([]*entity.Lot, 0)
	for _, l := range r.st.lots {
		if keep(l) {
			l := l
			list = append(list, &l)
		}
	}
	sort.Slice(list, func(i, j int) bool { return r.st.insertSeq[list[i].ID] < r.st.insertSeq[list[j].ID] })
	return list
}

func (r *lotRepo) List(_ context.Context, f repository.LotFilter) ([]*entity.Lot, error) {
	list := r.collect(func(l entity.Lot) bool {
		return (f.ProductID == "" || l.ProductID == f.ProductID) &&
			(f.WarehouseID == "" || l.WarehouseID == f.WarehouseID) &&
			(f.State == "" || l.State == f.State)
	})
	return page(list, f.Limit, f.Offset), nil
}

func (r *lotRepo) ListForExpirationSweep(_ context.Context) ([]*entity.Lot, error) {
	return r.collect(func(l entity.Lot) bool {
		return l.State == entity.LotStateActive && l.ExpirationDate != nil && l.AvailableQuantity.IsPositive()
	}), nil
}

type movementRepo struct{ st *state }

func (r *movementRepo) Create(_ context.Context, m *entity.Movement) error {
	if _, ok := r.st.movements[m.ID]; ok {
		return domain.ErrDuplicate
	}
	r.st.movements[m.ID] = *m
	r.st.insertSeq[m.ID] = r.st.next()
	return nil
}

func (r *movementRepo) GetByID(_ context.Context, id string) (*entity.Movement, error) {
	m, ok := r.st.movements[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r *movementRepo) GetForUpdate(ctx context.Context, id string) (*entity.Movement, error) {
	return r.GetByID(ctx, id)
}

func (r *movementRepo) UpdateState(_ context.Context, m *entity.Movement) error {
	stored, ok := r.st.movements[m.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stored.State = m.State
	stored.ConfirmedAt, stored.ConfirmedBy = m.ConfirmedAt, m.ConfirmedBy
	stored.VoidedAt, stored.VoidedBy = m.VoidedAt, m.VoidedBy
	r.st.movements[m.ID] = stored
	if m.State == entity.MovementStateConfirmed {
		r.st.confirmSeq[m.ID] = r.st.next()
	}
	return nil
}

func (r *movementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	list := make([]*entity.Movement, 0)
	for _, m := range r.st.movements {
		if f.ProductID != "" && m.ProductID != f.ProductID {
			continue
		}
		if f.WarehouseID != "" && m.SourceWarehouseID != f.WarehouseID && m.DestinationWarehouseID != f.WarehouseID {
			continue
		}
		if f.Type != "" && m.Type != f.Type {
			continue
		}
		if f.State != "" && m.State != f.State {
			continue
		}
		if f.From != nil && m.Date.Before(*f.From) {
			continue
		}
		if f.To != nil && m.Date.After(*f.To) {
			continue
		}
		m := m
		list = append(list, &m)
	}
	// más recientes primero
	sort.Slice(list, func(i, j int) bool {
		if !list[i].Date.Equal(list[j].Date) {
			return list[i].Date.After(list[j].Date)
		}
		return r.st.insertSeq[list[i].ID] > r.st.insertSeq[list[j].ID]
	})
	return page(list, f.Limit, f.Offset), nil
}

func (r *movementRepo) ListConfirmed(_ context.Context) ([]*entity.Movement, error) {
	list := make([]*entity.Movement, 0)
	for _, m := range r.st.movements {
		if m.State == entity.MovementStateConfirmed {
			m := m
			list = append(list, &m)
		}
	}
	sort.Slice(list, func(i, j int) bool { return r.st.confirmSeq[list[i].ID] < r.st.confirmSeq[list[j].ID] })
	return list, nil
}
