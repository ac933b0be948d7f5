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

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del ledger de movimientos sobre PostgreSQL.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, type, movement_date, product_id, supplier_id, source_warehouse_id,
	destination_warehouse_id, quantity, unit_cost, lot_id, serial_number, document_type, document_id,
	reference, notes, state, created_by, created_at, confirmed_at, confirmed_by, voided_at, voided_by`

func scanMovement(s scanner) (*entity.Movement, error) {
	var m entity.Movement
	var supplier, source, destination, lot, serial, docType, docID, reference, notes, confirmedBy, voidedBy *string
	err := s.Scan(&m.ID, &m.Type, &m.Date, &m.ProductID, &supplier, &source,
		&destination, &m.Quantity, &m.UnitCost, &lot, &serial, &docType, &docID,
		&reference, &notes, &m.State, &m.CreatedBy, &m.CreatedAt, &m.ConfirmedAt, &confirmedBy, &m.VoidedAt, &voidedBy)
	if err != nil {
		return nil, err
	}
	m.SupplierID = deref(supplier)
	m.SourceWarehouseID = deref(source)
	m.DestinationWarehouseID = deref(destination)
	m.LotID = deref(lot)
	m.SerialNumber = deref(serial)
	m.DocumentType = deref(docType)
	m.DocumentID = deref(docID)
	m.Reference = deref(reference)
	m.Notes = deref(notes)
	m.ConfirmedBy = deref(confirmedBy)
	m.VoidedBy = deref(voidedBy)
	return &m, nil
}

// Create registra el movimiento (normalmente en PENDING).
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	query := `
		INSERT INTO movements (id, type, movement_date, product_id, supplier_id, source_warehouse_id,
			destination_warehouse_id, quantity, unit_cost, lot_id, serial_number, document_type, document_id,
			reference, notes, state, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.Type, m.Date, m.ProductID, nullable(m.SupplierID), nullable(m.SourceWarehouseID),
		nullable(m.DestinationWarehouseID), m.Quantity, m.UnitCost, nullable(m.LotID), nullable(m.SerialNumber),
		nullable(m.DocumentType), nullable(m.DocumentID), nullable(m.Reference), nullable(m.Notes),
		m.State, m.CreatedBy, m.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	return r.get(ctx, `SELECT `+movementColumns+` FROM movements WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila: dos confirmaciones concurrentes se serializan aquí.
func (r *MovementRepo) GetForUpdate(ctx context.Context, id string) (*entity.Movement, error) {
	return r.get(ctx, `SELECT `+movementColumns+` FROM movements WHERE id = $1 FOR UPDATE`, id)
}

func (r *MovementRepo) get(ctx context.Context, query, id string) (*entity.Movement, error) {
	m, err := scanMovement(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// UpdateState persiste la transición; al confirmar asigna confirmation_seq.
func (r *MovementRepo) UpdateState(ctx context.Context, m *entity.Movement) error {
	query := `
		UPDATE movements SET state = $2, confirmed_at = $3, confirmed_by = $4, voided_at = $5, voided_by = $6,
			confirmation_seq = CASE WHEN $2 = 'CONFIRMED' THEN nextval('movement_confirmation_seq') ELSE confirmation_seq END
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		m.ID, string(m.State), m.ConfirmedAt, nullable(m.ConfirmedBy), m.VoidedAt, nullable(m.VoidedBy),
	)
	if err != nil {
		return fmt.Errorf("update movement state: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List filtra por producto, bodega (origen o destino), tipo, estado y rango de fechas.
func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	var w where
	if f.ProductID != "" {
		w.add("product_id = $%d", f.ProductID)
	}
	if f.WarehouseID != "" {
		w.args = append(w.args, f.WarehouseID)
		n := len(w.args)
		w.clauses = append(w.clauses, fmt.Sprintf("(source_warehouse_id = $%d OR destination_warehouse_id = $%d)", n, n))
	}
	if f.Type != "" {
		w.add("type = $%d", string(f.Type))
	}
	if f.State != "" {
		w.add("state = $%d", string(f.State))
	}
	if f.From != nil {
		w.add("movement_date >= $%d", *f.From)
	}
	if f.To != nil {
		w.add("movement_date <= $%d", *f.To)
	}
	query := `SELECT ` + movementColumns + ` FROM movements` + w.sql() + ` ORDER BY movement_date DESC, created_at DESC`
	query += w.paginate(f.Limit, f.Offset)
	return r.list(ctx, query, w.args...)
}

// ListConfirmed todos los movimientos confirmados en orden de aplicación.
func (r *MovementRepo) ListConfirmed(ctx context.Context) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE state = 'CONFIRMED' ORDER BY confirmation_seq`
	return r.list(ctx, query)
}

func (r *MovementRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Movement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Movement, 0)
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
