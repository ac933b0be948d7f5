package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// ProductUseCase casos de uso del catálogo de productos.
// Crear o reactivar un producto aprovisiona sus saldos en la misma transacción.
type ProductUseCase struct {
	txRunner    inventory.TxRunner
	provisioner *inventory.Provisioner
	log         zerolog.Logger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(txRunner inventory.TxRunner, provisioner *inventory.Provisioner, log zerolog.Logger) *ProductUseCase {
	return &ProductUseCase{txRunner: txRunner, provisioner: provisioner, log: log}
}

// Create crea un producto y su fila de saldo en cada bodega activa.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	now := time.Now().UTC()
	product := &entity.Product{
		ID:               uuid.New().String(),
		SKU:              strings.TrimSpace(in.SKU),
		Name:             strings.TrimSpace(in.Name),
		UnitMeasure:      in.UnitMeasure,
		StockMinimum:     decimal.Zero,
		StockMaximum:     decimal.Zero,
		Perishable:       in.Perishable,
		LotControlled:    in.LotControlled,
		SerialControlled: in.SerialControlled,
		Active:           true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if in.StockMinimum != nil {
		product.StockMinimum = *in.StockMinimum
	}
	if in.StockMaximum != nil {
		product.StockMaximum = *in.StockMaximum
	}
	if in.Active != nil {
		product.Active = *in.Active
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	var created int
	err := uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		if err := repos.Products.Create(ctx, product); err != nil {
			return err
		}
		var err error
		created, err = uc.provisioner.ForProduct(ctx, repos, product)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("product_id", product.ID).Str("sku", product.SKU).Int("balances", created).Msg("producto creado")
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	var product *entity.Product
	err := uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		var err error
		product, err = repos.Products.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// Update actualiza datos maestros y umbrales. Reactivar un producto completa sus saldos faltantes.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	var product *entity.Product
	err := uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		var err error
		product, err = repos.Products.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		wasActive := product.Active
		applyProductUpdate(product, in)
		if err := validateProduct(product); err != nil {
			return err
		}
		product.UpdatedAt = time.Now().UTC()
		if err := repos.Products.Update(ctx, product); err != nil {
			return err
		}
		if product.Active && !wasActive {
			_, err = uc.provisioner.ForProduct(ctx, repos, product)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos con paginación.
func (uc *ProductUseCase) List(ctx context.Context, limit, offset int) (*dto.ProductListResponse, error) {
	var list []*entity.Product
	err := uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		var err error
		list, err = repos.Products.List(ctx, limit, offset)
		return err
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func applyProductUpdate(p *entity.Product, in dto.UpdateProductRequest) {
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.UnitMeasure != nil {
		p.UnitMeasure = *in.UnitMeasure
	}
	if in.StockMinimum != nil {
		p.StockMinimum = *in.StockMinimum
	}
	if in.StockMaximum != nil {
		p.StockMaximum = *in.StockMaximum
	}
	if in.Perishable != nil {
		p.Perishable = *in.Perishable
	}
	if in.LotControlled != nil {
		p.LotControlled = *in.LotControlled
	}
	if in.SerialControlled != nil {
		p.SerialControlled = *in.SerialControlled
	}
	if in.Active != nil {
		p.Active = *in.Active
	}
}

func validateProduct(p *entity.Product) error {
	if p.SKU == "" {
		return domain.MissingField("sku")
	}
	if p.Name == "" {
		return domain.MissingField("name")
	}
	if p.StockMinimum.IsNegative() {
		return domain.InvalidField("stock_minimum", domain.ErrInvalidQuantity)
	}
	if p.StockMaximum.IsNegative() {
		return domain.InvalidField("stock_maximum", domain.ErrInvalidQuantity)
	}
	// máximo 0 = sin tope
	if p.StockMaximum.IsPositive() && p.StockMaximum.LessThan(p.StockMinimum) {
		return domain.InvalidField("stock_maximum", domain.ErrInvalidInput)
	}
	return nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:               p.ID,
		SKU:              p.SKU,
		Name:             p.Name,
		UnitMeasure:      p.UnitMeasure,
		StockMinimum:     p.StockMinimum,
		StockMaximum:     p.StockMaximum,
		Perishable:       p.Perishable,
		LotControlled:    p.LotControlled,
		SerialControlled: p.SerialControlled,
		Active:           p.Active,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}
