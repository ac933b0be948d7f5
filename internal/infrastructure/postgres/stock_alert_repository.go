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

var _ repository.StockAlertRepository = (*StockAlertRepo)(nil)

// StockAlertRepo alertas de stock y vencimiento. La unicidad de alertas abiertas la garantizan
// los índices parciales ux_stock_alerts_open_*.
type StockAlertRepo struct {
	q Querier
}

// NewStockAlertRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockAlertRepository(q Querier) *StockAlertRepo {
	return &StockAlertRepo{q: q}
}

const alertColumns = `id, kind, product_id, warehouse_id, lot_id, current_quantity, threshold, expiration_date,
	days_to_expiry, priority, state, generated_at, resolved_at, resolved_by, resolution_notes`

func scanAlert(s scanner) (*entity.StockAlert, error) {
	var a entity.StockAlert
	var warehouse, lot, resolvedBy, notes *string
	err := s.Scan(&a.ID, &a.Kind, &a.ProductID, &warehouse, &lot, &a.CurrentQuantity, &a.Threshold, &a.ExpirationDate,
		&a.DaysToExpiry, &a.Priority, &a.State, &a.GeneratedAt, &a.ResolvedAt, &resolvedBy, &notes)
	if err != nil {
		return nil, err
	}
	a.WarehouseID = deref(warehouse)
	a.LotID = deref(lot)
	a.ResolvedBy = deref(resolvedBy)
	a.ResolutionNotes = deref(notes)
	return &a, nil
}

func (r *StockAlertRepo) get(ctx context.Context, query string, args ...any) (*entity.StockAlert, error) {
	a, err := scanAlert(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock alert: %w", err)
	}
	return a, nil
}

func (r *StockAlertRepo) GetByID(ctx context.Context, id string) (*entity.StockAlert, error) {
	return r.get(ctx, `SELECT `+alertColumns+` FROM stock_alerts WHERE id = $1`, id)
}

func (r *StockAlertRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockAlert, error) {
	return r.get(ctx, `SELECT `+alertColumns+` FROM stock_alerts WHERE id = $1 FOR UPDATE`, id)
}

// FindOpenStockLevel alerta LOW_STOCK/OUT_OF_STOCK abierta del par, bloqueada.
func (r *StockAlertRepo) FindOpenStockLevel(ctx context.Context, productID, warehouseID string) (*entity.StockAlert, error) {
	return r.get(ctx, `
		SELECT `+alertColumns+` FROM stock_alerts
		WHERE product_id = $1 AND warehouse_id = $2 AND state = 'OPEN' AND kind IN ('LOW_STOCK', 'OUT_OF_STOCK')
		FOR UPDATE`,
		productID, warehouseID)
}

// FindOpenForLot alerta abierta del lote para el tipo dado, bloqueada.
func (r *StockAlertRepo) FindOpenForLot(ctx context.Context, lotID string, kind entity.AlertKind) (*entity.StockAlert, error) {
	return r.get(ctx, `
		SELECT `+alertColumns+` FROM stock_alerts
		WHERE lot_id = $1 AND kind = $2 AND state = 'OPEN'
		FOR UPDATE`,
		lotID, string(kind))
}

func (r *StockAlertRepo) ExistsForLot(ctx context.Context, lotID string, kind entity.AlertKind) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM stock_alerts WHERE lot_id = $1 AND kind = $2)`,
		lotID, string(kind)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists stock alert: %w", err)
	}
	return exists, nil
}

// InsertIfAbsent inserta la alerta salvo que ya exista una abierta equivalente.
// false significa que otra transacción ganó la carrera.
func (r *StockAlertRepo) InsertIfAbsent(ctx context.Context, a *entity.StockAlert) (bool, error) {
	query := `
		INSERT INTO stock_alerts (` + alertColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT DO NOTHING`
	cmd, err := r.q.Exec(ctx, query,
		a.ID, a.Kind, a.ProductID, nullable(a.WarehouseID), nullable(a.LotID), a.CurrentQuantity, a.Threshold,
		a.ExpirationDate, a.DaysToExpiry, a.Priority, a.State, a.GeneratedAt, a.ResolvedAt,
		nullable(a.ResolvedBy), nullable(a.ResolutionNotes),
	)
	if err != nil {
		return false, fmt.Errorf("insert stock alert: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

func (r *StockAlertRepo) Update(ctx context.Context, a *entity.StockAlert) error {
	query := `
		UPDATE stock_alerts SET kind = $2, current_quantity = $3, threshold = $4, expiration_date = $5,
			days_to_expiry = $6, priority = $7, state = $8, generated_at = $9, resolved_at = $10,
			resolved_by = $11, resolution_notes = $12
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		a.ID, a.Kind, a.CurrentQuantity, a.Threshold, a.ExpirationDate, a.DaysToExpiry, a.Priority, a.State,
		a.GeneratedAt, a.ResolvedAt, nullable(a.ResolvedBy), nullable(a.ResolutionNotes),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update stock alert: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListOpen alertas abiertas, más urgentes primero.
func (r *StockAlertRepo) ListOpen(ctx context.Context, f repository.AlertFilter) ([]*entity.StockAlert, error) {
	w := where{clauses: []string{"state = 'OPEN'"}}
	if f.Kind != "" {
		w.add("kind = $%d", string(f.Kind))
	}
	if f.Priority != "" {
		w.add("priority = $%d", string(f.Priority))
	}
	if f.WarehouseID != "" {
		w.add("warehouse_id = $%d", f.WarehouseID)
	}
	if f.ProductID != "" {
		w.add("product_id = $%d", f.ProductID)
	}
	query := `SELECT ` + alertColumns + ` FROM stock_alerts` + w.sql() + `
		ORDER BY CASE priority WHEN 'CRITICAL' THEN 4 WHEN 'HIGH' THEN 3 WHEN 'MEDIUM' THEN 2 ELSE 1 END DESC,
			generated_at DESC`
	query += w.paginate(f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list stock alerts: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.StockAlert, 0)
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock alert: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}
