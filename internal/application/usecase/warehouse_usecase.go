package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// WarehouseUseCase casos de uso CRUD para bodegas.
type WarehouseUseCase struct {
	txRunner    inventory.TxRunner
	provisioner *inventory.Provisioner
	log         zerolog.Logger
}

// NewWarehouseUseCase construye el caso de uso.
func NewWarehouseUseCase(txRunner inventory.TxRunner, provisioner *inventory.Provisioner, log zerolog.Logger) *WarehouseUseCase {
	return &WarehouseUseCase{txRunner: txRunner, provisioner: provisioner, log: log}
}

// Create crea una nueva bodega; si nace activa recibe un saldo en cero por cada producto.
func (uc *WarehouseUseCase) Create(ctx context.Context, in dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error) {
	now := time.Now().UTC()
	warehouse := &entity.Warehouse{
		ID:        uuid.New().String(),
		Code:      strings.TrimSpace(in.Code),
		Name:      strings.TrimSpace(in.Name),
		Address:   in.Address,
		Type:      entity.WarehouseType(in.Type),
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if warehouse.Type == "" {
		warehouse.Type = entity.WarehouseTypePrincipal
	}
	if in.Active != nil {
		warehouse.Active = *in.Active
	}
	if err := validateWarehouse(warehouse); err != nil {
		return nil, err
	}

	var created int
	err := uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		if err := repos.Warehouses.Create(ctx, warehouse); err != nil {
			return err
		}
		var err error
		created, err = uc.provisioner.ForWarehouse(ctx, repos, warehouse)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("warehouse_id", warehouse.ID).Str("code", warehouse.Code).Int("balances", created).Msg("bodega creada")
	return toWarehouseResponse(warehouse), nil
}

// GetByID obtiene una bodega por ID.
func (uc *WarehouseUseCase) GetByID(ctx context.Context, id string) (*dto.WarehouseResponse, error) {
	var warehouse *entity.Warehouse
	err := uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		var err error
		warehouse, err = repos.Warehouses.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, domain.ErrNotFound
	}
	return toWarehouseResponse(warehouse), nil
}

// Update actualiza una bodega. Activarla dispara el aprovisionamiento como si se hubiese creado.
func (uc *WarehouseUseCase) Update(ctx context.Context, id string, in dto.UpdateWarehouseRequest) (*dto.WarehouseResponse, error) {
	var warehouse *entity.Warehouse
	err := uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		var err error
		warehouse, err = repos.Warehouses.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if warehouse == nil {
			return domain.ErrNotFound
		}
		wasActive := warehouse.Active
		if in.Name != nil {
			warehouse.Name = strings.TrimSpace(*in.Name)
		}
		if in.Address != nil {
			warehouse.Address = *in.Address
		}
		if in.Type != nil {
			warehouse.Type = entity.WarehouseType(*in.Type)
		}
		if in.Active != nil {
			warehouse.Active = *in.Active
		}
		if err := validateWarehouse(warehouse); err != nil {
			return err
		}
		warehouse.UpdatedAt = time.Now().UTC()
		if err := repos.Warehouses.Update(ctx, warehouse); err != nil {
			return err
		}
		if warehouse.Active && !wasActive {
			_, err = uc.provisioner.ForWarehouse(ctx, repos, warehouse)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return toWarehouseResponse(warehouse), nil
}

// List lista bodegas con paginación.
func (uc *WarehouseUseCase) List(ctx context.Context, limit, offset int) (*dto.WarehouseListResponse, error) {
	var list []*entity.Warehouse
	err := uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		var err error
		list, err = repos.Warehouses.List(ctx, limit, offset)
		return err
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.WarehouseResponse, 0, len(list))
	for _, w := range list {
		items = append(items, *toWarehouseResponse(w))
	}
	return &dto.WarehouseListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func validateWarehouse(w *entity.Warehouse) error {
	if w.Code == "" {
		return domain.MissingField("code")
	}
	if w.Name == "" {
		return domain.MissingField("name")
	}
	if !w.Type.Valid() {
		return domain.InvalidField("type", domain.ErrInvalidInput)
	}
	return nil
}

func toWarehouseResponse(w *entity.Warehouse) *dto.WarehouseResponse {
	if w == nil {
		return nil
	}
	return &dto.WarehouseResponse{
		ID:        w.ID,
		Code:      w.Code,
		Name:      w.Name,
		Address:   w.Address,
		Type:      string(w.Type),
		Active:    w.Active,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}
