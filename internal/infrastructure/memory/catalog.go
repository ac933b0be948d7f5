package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var (
	_ repository.ProductRepository   = (*productRepo)(nil)
	_ repository.WarehouseRepository = (*warehouseRepo)(nil)
)

type productRepo struct{ st *state }

func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	if _, ok := r.st.products[p.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, other := range r.st.products {
		if other.SKU == p.SKU {
			return domain.ErrDuplicate
		}
	}
	r.st.products[p.ID] = *p
	r.st.insertSeq[p.ID] = r.st.next()
	return nil
}

func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.st.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *productRepo) Update(_ context.Context, p *entity.Product) error {
	if _, ok := r.st.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	r.st.products[p.ID] = *p
	return nil
}

func (r *productRepo) sorted(keep func(entity.Product) bool) []*entity.Product {
	list := make([]*entity.Product, 0, len(r.st.products))
	for _, p := range r.st.products {
		if keep(p) {
			p := p
			list = append(list, &p)
		}
	}
	sort.Slice(list, func(i, j int) bool { return r.st.insertSeq[list[i].ID] < r.st.insertSeq[list[j].ID] })
	return list
}

func (r *productRepo) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	return page(r.sorted(func(entity.Product) bool { return true }), limit, offset), nil
}

func (r *productRepo) ListAll(_ context.Context) ([]*entity.Product, error) {
	return r.sorted(func(entity.Product) bool { return true }), nil
}

func (r *productRepo) ListActive(_ context.Context) ([]*entity.Product, error) {
	return r.sorted(func(p entity.Product) bool { return p.Active }), nil
}

type warehouseRepo struct{ st *state }

func (r *warehouseRepo) Create(_ context.Context, w *entity.Warehouse) error {
	if _, ok := r.st.warehouses[w.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, other := range r.st.warehouses {
		if w.Code != "" && other.Code == w.Code {
			return domain.ErrDuplicate
		}
	}
	r.st.warehouses[w.ID] = *w
	r.st.insertSeq[w.ID] = r.st.next()
	return nil
}

func (r *warehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	w, ok := r.st.warehouses[id]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (r *warehouseRepo) Update(_ context.Context, w *entity.Warehouse) error {
	if _, ok := r.st.warehouses[w.ID]; !ok {
		return domain.ErrNotFound
	}
	r.st.warehouses[w.ID] = *w
	return nil
}

func (r *warehouseRepo) sorted(keep func(entity.Warehouse) bool) []*entity.Warehouse {
	list := make([]*entity.Warehouse, 0, len(r.st.warehouses))
	for _, w := range r.st.warehouses {
		if keep(w) {
			w := w
			list = append(list, &w)
		}
	}
	sort.Slice(list, func(i, j int) bool { return r.st.insertSeq[list[i].ID] < r.st.insertSeq[list[j].ID] })
	return list
}

func (r *warehouseRepo) List(_ context.Context, limit, offset int) ([]*entity.Warehouse, error) {
	return page(r.sorted(func(entity.Warehouse) bool { return true }), limit, offset), nil
}

func (r *warehouseRepo) ListActive(_ context.Context) ([]*entity.Warehouse, error) {
	return r.sorted(func(w entity.Warehouse) bool { return w.Active }), nil
}
