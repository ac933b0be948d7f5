package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.WarehouseRepository = (*WarehouseRepo)(nil)

// WarehouseRepo implementación de WarehouseRepository sobre PostgreSQL.
type WarehouseRepo struct {
	q Querier
}

// NewWarehouseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWarehouseRepository(q Querier) *WarehouseRepo {
	return &WarehouseRepo{q: q}
}

const warehouseColumns = `id, code, name, address, type, active, created_at, updated_at`

func scanWarehouse(s scanner) (*entity.Warehouse, error) {
	var w entity.Warehouse
	var address *string
	if err := s.Scan(&w.ID, &w.Code, &w.Name, &address, &w.Type, &w.Active, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return nil, err
	}
	w.Address = deref(address)
	return &w, nil
}

func (r *WarehouseRepo) Create(ctx context.Context, w *entity.Warehouse) error {
	query := `
		INSERT INTO warehouses (` + warehouseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		w.ID, w.Code, w.Name, nullable(w.Address), w.Type, w.Active, w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert warehouse: %w", err)
	}
	return nil
}

func (r *WarehouseRepo) GetByID(ctx context.Context, id string) (*entity.Warehouse, error) {
	w, err := scanWarehouse(r.q.QueryRow(ctx, `SELECT `+warehouseColumns+` FROM warehouses WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get warehouse: %w", err)
	}
	return w, nil
}

func (r *WarehouseRepo) Update(ctx context.Context, w *entity.Warehouse) error {
	query := `
		UPDATE warehouses SET code = $2, name = $3, address = $4, type = $5, active = $6, updated_at = $7
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, w.ID, w.Code, w.Name, nullable(w.Address), w.Type, w.Active, w.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update warehouse: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *WarehouseRepo) List(ctx context.Context, limit, offset int) ([]*entity.Warehouse, error) {
	var w where
	page := w.paginate(limit, offset)
	return r.list(ctx, `SELECT `+warehouseColumns+` FROM warehouses ORDER BY created_at, id`+page, w.args...)
}

func (r *WarehouseRepo) ListActive(ctx context.Context) ([]*entity.Warehouse, error) {
	return r.list(ctx, `SELECT `+warehouseColumns+` FROM warehouses WHERE active ORDER BY created_at, id`)
}

func (r *WarehouseRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Warehouse, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list warehouses: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Warehouse, 0)
	for rows.Next() {
		w, err := scanWarehouse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan warehouse: %w", err)
		}
		list = append(list, w)
	}
	return list, rows.Err()
}
