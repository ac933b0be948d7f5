package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.StockBalanceRepository = (*StockBalanceRepo)(nil)

// StockBalanceRepo saldos por (producto, bodega). Cada escritura es una sola sentencia,
// así dos confirmaciones concurrentes sobre el mismo par no pierden actualizaciones.
type StockBalanceRepo struct {
	q Querier
}

// NewStockBalanceRepository construye el adaptador de saldos. Pasar pool o tx (Querier).
func NewStockBalanceRepository(q Querier) *StockBalanceRepo {
	return &StockBalanceRepo{q: q}
}

const balanceColumns = `product_id, warehouse_id, available, reserved, in_transit, last_ingress_at, last_egress_at, updated_at`

func scanBalance(s scanner) (*entity.StockBalance, error) {
	var b entity.StockBalance
	err := s.Scan(&b.ProductID, &b.WarehouseID, &b.Available, &b.Reserved, &b.InTransit,
		&b.LastIngressAt, &b.LastEgressAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// one ejecuta una sentencia con RETURNING; sin fila devuelve nil, nil.
func (r *StockBalanceRepo) one(ctx context.Context, op, query string, args ...any) (*entity.StockBalance, error) {
	b, err := scanBalance(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		if isForeignKeyViolation(err) || isInvalidID(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%s stock balance: %w", op, err)
	}
	return b, nil
}

func (r *StockBalanceRepo) Get(ctx context.Context, productID, warehouseID string) (*entity.StockBalance, error) {
	return r.one(ctx, "get",
		`SELECT `+balanceColumns+` FROM stock_balances WHERE product_id = $1 AND warehouse_id = $2`,
		productID, warehouseID)
}

func (r *StockBalanceRepo) List(ctx context.Context, f repository.BalanceFilter) ([]*entity.StockBalance, error) {
	var w where
	if f.ProductID != "" {
		w.add("product_id = $%d", f.ProductID)
	}
	if f.WarehouseID != "" {
		w.add("warehouse_id = $%d", f.WarehouseID)
	}
	query := `SELECT ` + balanceColumns + ` FROM stock_balances` + w.sql() + ` ORDER BY product_id, warehouse_id`
	query += w.paginate(f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list stock balances: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.StockBalance, 0)
	for rows.Next() {
		b, err := scanBalance(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock balance: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

// EnsureExists crea la fila en cero si falta. true si la creó.
func (r *StockBalanceRepo) EnsureExists(ctx context.Context, productID, warehouseID string) (bool, error) {
	cmd, err := r.q.Exec(ctx, `
		INSERT INTO stock_balances (product_id, warehouse_id, available, reserved, in_transit, updated_at)
		VALUES ($1, $2, 0, 0, 0, now())
		ON CONFLICT (product_id, warehouse_id) DO NOTHING`,
		productID, warehouseID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, domain.ErrNotFound
		}
		return false, fmt.Errorf("ensure stock balance: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

// Credit suma qty al disponible; crea la fila si no existe.
func (r *StockBalanceRepo) Credit(ctx context.Context, productID, warehouseID string, qty decimal.Decimal, at time.Time) (*entity.StockBalance, error) {
	return r.one(ctx, "credit", `
		INSERT INTO stock_balances (product_id, warehouse_id, available, reserved, in_transit, last_ingress_at, updated_at)
		VALUES ($1, $2, $3, 0, 0, $4, $4)
		ON CONFLICT (product_id, warehouse_id) DO UPDATE
		SET available = stock_balances.available + EXCLUDED.available,
			last_ingress_at = EXCLUDED.last_ingress_at,
			updated_at = EXCLUDED.updated_at
		RETURNING `+balanceColumns,
		productID, warehouseID, qty, at)
}

// Debit resta qty con piso en cero. Si la fila no existe no hace nada y devuelve nil.
func (r *StockBalanceRepo) Debit(ctx context.Context, productID, warehouseID string, qty decimal.Decimal, at time.Time) (*entity.StockBalance, error) {
	return r.one(ctx, "debit", `
		UPDATE stock_balances
		SET available = GREATEST(available - $3, 0), last_egress_at = $4, updated_at = $4
		WHERE product_id = $1 AND warehouse_id = $2
		RETURNING `+balanceColumns,
		productID, warehouseID, qty, at)
}

// LockForRebuild toma SHARE ROW EXCLUSIVE sobre stock_balances: las confirmaciones en curso
// terminan antes y las nuevas esperan al commit del recálculo.
func (r *StockBalanceRepo) LockForRebuild(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, `LOCK TABLE stock_balances IN SHARE ROW EXCLUSIVE MODE`); err != nil {
		return fmt.Errorf("lock stock balances: %w", err)
	}
	return nil
}

// SetAvailable fija el disponible (reconstrucción del ledger).
func (r *StockBalanceRepo) SetAvailable(ctx context.Context, productID, warehouseID string, available decimal.Decimal) (*entity.StockBalance, error) {
	return r.one(ctx, "set", `
		INSERT INTO stock_balances (product_id, warehouse_id, available, reserved, in_transit, updated_at)
		VALUES ($1, $2, $3, 0, 0, now())
		ON CONFLICT (product_id, warehouse_id) DO UPDATE
		SET available = EXCLUDED.available, updated_at = now()
		RETURNING `+balanceColumns,
		productID, warehouseID, available)
}

func (r *StockBalanceRepo) Delete(ctx context.Context, productID, warehouseID string) (bool, error) {
	cmd, err := r.q.Exec(ctx, `DELETE FROM stock_balances WHERE product_id = $1 AND warehouse_id = $2`, productID, warehouseID)
	if err != nil {
		return false, fmt.Errorf("delete stock balance: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}
