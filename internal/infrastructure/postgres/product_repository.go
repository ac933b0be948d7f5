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

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, sku, name, unit_measure, stock_minimum, stock_maximum,
	perishable, lot_controlled, serial_controlled, active, created_at, updated_at`

func scanProduct(s scanner) (*entity.Product, error) {
	var p entity.Product
	err := s.Scan(&p.ID, &p.SKU, &p.Name, &p.UnitMeasure, &p.StockMinimum, &p.StockMaximum,
		&p.Perishable, &p.LotControlled, &p.SerialControlled, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.SKU, product.Name, product.UnitMeasure, product.StockMinimum, product.StockMaximum,
		product.Perishable, product.LotControlled, product.SerialControlled, product.Active,
		product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// Update actualiza los datos maestros del producto (umbrales, flags, estado).
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE products SET sku = $2, name = $3, unit_measure = $4, stock_minimum = $5, stock_maximum = $6,
			perishable = $7, lot_controlled = $8, serial_controlled = $9, active = $10, updated_at = $11
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		product.ID, product.SKU, product.Name, product.UnitMeasure, product.StockMinimum, product.StockMaximum,
		product.Perishable, product.LotControlled, product.SerialControlled, product.Active, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista productos con paginación (más antiguos primero).
func (r *ProductRepo) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	var w where
	page := w.paginate(limit, offset)
	return r.list(ctx, `SELECT `+productColumns+` FROM products ORDER BY created_at, id`+page, w.args...)
}

// ListAll devuelve todos los productos, activos o no.
func (r *ProductRepo) ListAll(ctx context.Context) ([]*entity.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products ORDER BY created_at, id`)
}

// ListActive devuelve los productos activos.
func (r *ProductRepo) ListActive(ctx context.Context) ([]*entity.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products WHERE active ORDER BY created_at, id`)
}

func (r *ProductRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
