package inventory

import (
	"context"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// JobProvisionBalances nombre del trabajo de aprovisionamiento masivo.
const JobProvisionBalances = "provision-balances"

// Provisioner garantiza una fila de saldo por cada (producto, bodega activa).
// Todas las operaciones son idempotentes: insertan si falta y nunca tocan cantidades existentes.
type Provisioner struct {
	log zerolog.Logger
}

// NewProvisioner construye el aprovisionador.
func NewProvisioner(log zerolog.Logger) *Provisioner {
	return &Provisioner{log: log}
}

// ForProduct crea los saldos en cero del producto nuevo en cada bodega activa.
func (p *Provisioner) ForProduct(ctx context.Context, repos repository.Repositories, product *entity.Product) (int, error) {
	warehouses, err := repos.Warehouses.ListActive(ctx)
	if err != nil {
		return 0, err
	}
	created := 0
	for _, wh := range warehouses {
		ok, err := repos.Balances.EnsureExists(ctx, product.ID, wh.ID)
		if err != nil {
			return created, err
		}
		if ok {
			created++
		}
	}
	p.log.Debug().Str("product_id", product.ID).Int("created", created).Msg("saldos aprovisionados para producto")
	return created, nil
}

// ForWarehouse crea los saldos en cero de cada producto existente en la bodega nueva, si está activa.
func (p *Provisioner) ForWarehouse(ctx context.Context, repos repository.Repositories, warehouse *entity.Warehouse) (int, error) {
	if !warehouse.Active {
		return 0, nil
	}
	products, err := repos.Products.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	created := 0
	for _, product := range products {
		ok, err := repos.Balances.EnsureExists(ctx, product.ID, warehouse.ID)
		if err != nil {
			return created, err
		}
		if ok {
			created++
		}
	}
	p.log.Debug().Str("warehouse_id", warehouse.ID).Int("created", created).Msg("saldos aprovisionados para bodega")
	return created, nil
}

// ProvisioningUseCase expone la reparación masiva de saldos faltantes (tras importaciones).
type ProvisioningUseCase struct {
	txRunner TxRunner
	locker   JobLocker
	log      zerolog.Logger
}

// NewProvisioningUseCase construye el caso de uso. locker nil equivale a NoopJobLocker.
func NewProvisioningUseCase(txRunner TxRunner, locker JobLocker, log zerolog.Logger) *ProvisioningUseCase {
	if locker == nil {
		locker = NoopJobLocker{}
	}
	return &ProvisioningUseCase{txRunner: txRunner, locker: locker, log: log}
}

// ProvisionMissingBalances completa el producto cruzado productos activos × bodegas activas.
// Devuelve la cantidad de filas creadas; una segunda ejecución devuelve 0.
func (uc *ProvisioningUseCase) ProvisionMissingBalances(ctx context.Context) (created int, err error) {
	ctx, span := tracer.Start(ctx, "ProvisionMissingBalances")
	defer func() {
		span.SetAttributes(attribute.Int("balances.created", created))
		endSpan(span, err)
	}()

	release, err := uc.locker.Acquire(ctx, JobProvisionBalances)
	if err != nil {
		return 0, err
	}
	defer release()

	err = uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		created = 0
		products, err := repos.Products.ListActive(ctx)
		if err != nil {
			return err
		}
		warehouses, err := repos.Warehouses.ListActive(ctx)
		if err != nil {
			return err
		}
		for _, product := range products {
			for _, wh := range warehouses {
				ok, err := repos.Balances.EnsureExists(ctx, product.ID, wh.ID)
				if err != nil {
					return err
				}
				if ok {
					created++
				}
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	uc.log.Info().Int("created", created).Msg("aprovisionamiento de saldos finalizado")
	return created, nil
}
