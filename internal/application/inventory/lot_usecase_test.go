package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

func TestRegisterLot_Validaciones(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, 0, perishable)
	w := f.seedWarehouse(t, true)

	base := func() inventory.RegisterLotInput {
		return inventory.RegisterLotInput{
			Code: "L-001", ProductID: p.ID, WarehouseID: w.ID,
			InitialQuantity: qty(10), ExpirationDate: expiresIn(f, 60),
		}
	}

	tests := []struct {
		name   string
		mutate func(*inventory.RegisterLotInput)
		want   error
	}{
		{"sin código", func(in *inventory.RegisterLotInput) { in.Code = " " }, domain.ErrMissingField},
		{"cantidad inicial cero", func(in *inventory.RegisterLotInput) { in.InitialQuantity = qty(0) }, domain.ErrInvalidQuantity},
		{"disponible mayor que inicial", func(in *inventory.RegisterLotInput) { in.AvailableQuantity = decimalPtr(11) }, domain.ErrInvalidQuantity},
		{"vence antes de producirse", func(in *inventory.RegisterLotInput) { in.ProductionDate = expiresIn(f, 90) }, domain.ErrInvalidInput},
		{"perecedero sin vencimiento", func(in *inventory.RegisterLotInput) { in.ExpirationDate = nil }, domain.ErrMissingField},
		{"producto desconocido", func(in *inventory.RegisterLotInput) { in.ProductID = "no-existe" }, domain.ErrNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := base()
			tc.mutate(&in)
			_, err := f.lots.RegisterLot(f.ctx, in)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	lot, err := f.lots.RegisterLot(f.ctx, base())
	require.NoError(t, err)
	assert.Equal(t, entity.LotStateActive, lot.State)
	assert.True(t, lot.AvailableQuantity.Equal(qty(10)))

	_, err = f.lots.RegisterLot(f.ctx, base())
	assert.ErrorIs(t, err, domain.ErrDuplicate, "el código de lote es único")
}

func TestBlockLot(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, 0)
	w := f.seedWarehouse(t, true)
	lot := f.seedLot(t, p, w, 5, nil)

	blocked, err := f.lots.BlockLot(f.ctx, lot.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.LotStateBlocked, blocked.State)

	_, err = f.lots.BlockLot(f.ctx, lot.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	active, err := f.lots.UnblockLot(f.ctx, lot.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.LotStateActive, active.State)

	_, err = f.lots.UnblockLot(f.ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListLots(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, 0)
	w := f.seedWarehouse(t, true)
	f.seedLot(t, p, w, 5, nil)
	second := f.seedLot(t, p, w, 5, nil)
	_, err := f.lots.BlockLot(f.ctx, second.ID)
	require.NoError(t, err)

	all, err := f.lots.ListLots(f.ctx, repository.LotFilter{ProductID: p.ID})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	blocked, err := f.lots.ListLots(f.ctx, repository.LotFilter{State: entity.LotStateBlocked})
	require.NoError(t, err)
	require.Len(t, blocked, 1)
	assert.Equal(t, second.ID, blocked[0].ID)

	_, err = f.lots.ListLots(f.ctx, repository.LotFilter{State: "LOST"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
