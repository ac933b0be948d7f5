package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)
	// ListAll devuelve todos los productos (aprovisionamiento de una bodega nueva).
	ListAll(ctx context.Context) ([]*entity.Product, error)
	// ListActive devuelve todos los productos activos (aprovisionamiento masivo).
	ListActive(ctx context.Context) ([]*entity.Product, error)
}
