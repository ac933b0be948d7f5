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

var _ repository.LotRepository = (*LotRepo)(nil)

// LotRepo implementación de LotRepository sobre PostgreSQL.
type LotRepo struct {
	q Querier
}

// NewLotRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewLotRepository(q Querier) *LotRepo {
	return &LotRepo{q: q}
}

const lotColumns = `id, code, product_id, warehouse_id, production_date, expiration_date,
	initial_quantity, available_quantity, reserved_quantity, state, created_at, updated_at`

func scanLot(s scanner) (*entity.Lot, error) {
	var l entity.Lot
	err := s.Scan(&l.ID, &l.Code, &l.ProductID, &l.WarehouseID, &l.ProductionDate, &l.ExpirationDate,
		&l.InitialQuantity, &l.AvailableQuantity, &l.ReservedQuantity, &l.State, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// Create persiste el lote; código repetido -> ErrDuplicate.
func (r *LotRepo) Create(ctx context.Context, l *entity.Lot) error {
	query := `
		INSERT INTO lots (` + lotColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.Code, l.ProductID, l.WarehouseID, l.ProductionDate, l.ExpirationDate,
		l.InitialQuantity, l.AvailableQuantity, l.ReservedQuantity, l.State, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert lot: %w", err)
	}
	return nil
}

func (r *LotRepo) GetByID(ctx context.Context, id string) (*entity.Lot, error) {
	return r.get(ctx, `SELECT `+lotColumns+` FROM lots WHERE id = $1`, id)
}

// GetForUpdate obtiene el lote y bloquea la fila (SELECT FOR UPDATE).
func (r *LotRepo) GetForUpdate(ctx context.Context, id string) (*entity.Lot, error) {
	return r.get(ctx, `SELECT `+lotColumns+` FROM lots WHERE id = $1 FOR UPDATE`, id)
}

func (r *LotRepo) get(ctx context.Context, query, id string) (*entity.Lot, error) {
	l, err := scanLot(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lot: %w", err)
	}
	return l, nil
}

// Update persiste cantidades y estado del lote.
func (r *LotRepo) Update(ctx context.Context, l *entity.Lot) error {
	query := `
		UPDATE lots SET available_quantity = $2, reserved_quantity = $3, state = $4, updated_at = $5
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, l.ID, l.AvailableQuantity, l.ReservedQuantity, l.State, l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update lot: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *LotRepo) List(ctx context.Context, f repository.LotFilter) ([]*entity.Lot, error) {
	var w where
	if f.ProductID != "" {
		w.add("product_id = $%d", f.ProductID)
	}
	if f.WarehouseID != "" {
		w.add("warehouse_id = $%d", f.WarehouseID)
	}
	if f.State != "" {
		w.add("state = $%d", f.State)
	}
	query := `SELECT ` + lotColumns + ` FROM lots` + w.sql() + ` ORDER BY created_at, id`
	query += w.paginate(f.Limit, f.Offset)
	return r.list(ctx, query, w.args...)
}

// ListForExpirationSweep lotes activos, con vencimiento y existencias.
func (r *LotRepo) ListForExpirationSweep(ctx context.Context) ([]*entity.Lot, error) {
	query := `
		SELECT ` + lotColumns + ` FROM lots
		WHERE state = 'ACTIVE' AND expiration_date IS NOT NULL AND available_quantity > 0
		ORDER BY expiration_date, id`
	return r.list(ctx, query)
}

func (r *LotRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Lot, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Lot, 0)
	for rows.Next() {
		l, err := scanLot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lot: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}
