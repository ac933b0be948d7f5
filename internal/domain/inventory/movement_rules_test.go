package inventory_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
)

func qty(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestValidateMovement(t *testing.T) {
	negCost := decimal.NewFromInt(-1)

	tests := []struct {
		name    string
		mov     entity.Movement
		wantErr error
		field   string
	}{
		{"ingreso válido", entity.Movement{Type: entity.MovementTypeIngress, ProductID: "p", DestinationWarehouseID: "w", Quantity: qty(5)}, nil, ""},
		{"ingreso sin destino", entity.Movement{Type: entity.MovementTypeIngress, ProductID: "p", Quantity: qty(5)}, domain.ErrMissingField, "destination_warehouse_id"},
		{"salida sin origen", entity.Movement{Type: entity.MovementTypeEgress, ProductID: "p", Quantity: qty(5)}, domain.ErrMissingField, "source_warehouse_id"},
		{"salida cantidad cero", entity.Movement{Type: entity.MovementTypeEgress, ProductID: "p", SourceWarehouseID: "w", Quantity: qty(0)}, domain.ErrInvalidQuantity, "quantity"},
		{"salida cantidad negativa", entity.Movement{Type: entity.MovementTypeEgress, ProductID: "p", SourceWarehouseID: "w", Quantity: qty(-3)}, domain.ErrInvalidQuantity, "quantity"},
		{"ajuste negativo válido", entity.Movement{Type: entity.MovementTypeAdjustment, ProductID: "p", SourceWarehouseID: "w", Quantity: qty(-3)}, nil, ""},
		{"ajuste cero", entity.Movement{Type: entity.MovementTypeAdjustment, ProductID: "p", SourceWarehouseID: "w", Quantity: qty(0)}, domain.ErrInvalidQuantity, "quantity"},
		{"ajuste sin origen", entity.Movement{Type: entity.MovementTypeAdjustment, ProductID: "p", Quantity: qty(2)}, domain.ErrMissingField, "source_warehouse_id"},
		{"devolución sin proveedor", entity.Movement{Type: entity.MovementTypeReturn, ProductID: "p", SourceWarehouseID: "w", Quantity: qty(1)}, domain.ErrMissingField, "supplier_id"},
		{"devolución sin bodega", entity.Movement{Type: entity.MovementTypeReturn, ProductID: "p", SupplierID: "s", Quantity: qty(1)}, domain.ErrMissingField, "source_warehouse_id"},
		{"traslado misma bodega", entity.Movement{Type: entity.MovementTypeTransfer, ProductID: "p", SourceWarehouseID: "w", DestinationWarehouseID: "w", Quantity: qty(1)}, domain.ErrInvalidInput, "destination_warehouse_id"},
		{"traslado sin destino", entity.Movement{Type: entity.MovementTypeTransfer, ProductID: "p", SourceWarehouseID: "w", Quantity: qty(1)}, domain.ErrMissingField, "destination_warehouse_id"},
		{"sin producto", entity.Movement{Type: entity.MovementTypeIngress, DestinationWarehouseID: "w", Quantity: qty(1)}, domain.ErrMissingField, "product_id"},
		{"tipo desconocido", entity.Movement{Type: "SALE", ProductID: "p", Quantity: qty(1)}, domain.ErrInvalidInput, "type"},
		{"costo negativo", entity.Movement{Type: entity.MovementTypeIngress, ProductID: "p", DestinationWarehouseID: "w", Quantity: qty(1), UnitCost: &negCost}, domain.ErrInvalidInput, "unit_cost"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := inventory.ValidateMovement(&tc.mov)
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.wantErr)
			var fe *domain.FieldError
			require.True(t, errors.As(err, &fe), "debe ser FieldError")
			assert.Equal(t, tc.field, fe.Field)
		})
	}
}

func TestEffects_PorTipo(t *testing.T) {
	tr := &entity.Movement{Type: entity.MovementTypeTransfer, ProductID: "p", SourceWarehouseID: "w1", DestinationWarehouseID: "w2", Quantity: qty(5)}
	effects := inventory.Effects(tr)
	require.Len(t, effects, 2)
	assert.Equal(t, inventory.EffectDebit, effects[0].Kind, "la salida en origen va primero")
	assert.Equal(t, "w1", effects[0].WarehouseID)
	assert.Equal(t, inventory.EffectCredit, effects[1].Kind)
	assert.Equal(t, "w2", effects[1].WarehouseID)

	adj := &entity.Movement{Type: entity.MovementTypeAdjustment, ProductID: "p", SourceWarehouseID: "w1", Quantity: qty(-4)}
	effects = inventory.Effects(adj)
	require.Len(t, effects, 1)
	assert.Equal(t, inventory.EffectDebit, effects[0].Kind)
	assert.True(t, effects[0].Quantity.Equal(qty(4)), "la cantidad del efecto es positiva")

	ret := &entity.Movement{Type: entity.MovementTypeReturn, ProductID: "p", SupplierID: "s", SourceWarehouseID: "w1", Quantity: qty(2)}
	effects = inventory.Effects(ret)
	require.Len(t, effects, 1)
	assert.Equal(t, inventory.EffectDebit, effects[0].Kind)
}

func TestFloorSub_NuncaNegativo(t *testing.T) {
	assert.True(t, inventory.FloorSub(qty(3), qty(10)).IsZero())
	assert.True(t, inventory.FloorSub(qty(10), qty(3)).Equal(qty(7)))
	assert.True(t, inventory.FloorSub(qty(0), qty(1)).IsZero())
}

func TestLotDebit(t *testing.T) {
	in := &entity.Movement{Type: entity.MovementTypeIngress, ProductID: "p", DestinationWarehouseID: "w", Quantity: qty(5), LotID: "l"}
	assert.True(t, inventory.LotDebit(in).IsZero(), "las entradas no consumen lote")

	out := &entity.Movement{Type: entity.MovementTypeEgress, ProductID: "p", SourceWarehouseID: "w", Quantity: qty(5), LotID: "l"}
	assert.True(t, inventory.LotDebit(out).Equal(qty(5)))

	noLot := &entity.Movement{Type: entity.MovementTypeEgress, ProductID: "p", SourceWarehouseID: "w", Quantity: qty(5)}
	assert.True(t, inventory.LotDebit(noLot).IsZero())
}

func TestLotWarehouseID(t *testing.T) {
	tests := []struct {
		name string
		mov  entity.Movement
		want string
	}{
		{"ingreso en destino", entity.Movement{Type: entity.MovementTypeIngress, DestinationWarehouseID: "w2", Quantity: qty(1)}, "w2"},
		{"salida en origen", entity.Movement{Type: entity.MovementTypeEgress, SourceWarehouseID: "w1", Quantity: qty(1)}, "w1"},
		{"devolución en origen", entity.Movement{Type: entity.MovementTypeReturn, SourceWarehouseID: "w1", Quantity: qty(1)}, "w1"},
		{"traslado consume en origen", entity.Movement{Type: entity.MovementTypeTransfer, SourceWarehouseID: "w1", DestinationWarehouseID: "w2", Quantity: qty(1)}, "w1"},
		{"ajuste positivo", entity.Movement{Type: entity.MovementTypeAdjustment, SourceWarehouseID: "w1", Quantity: qty(3)}, "w1"},
		{"ajuste negativo", entity.Movement{Type: entity.MovementTypeAdjustment, SourceWarehouseID: "w1", Quantity: qty(-3)}, "w1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, inventory.LotWarehouseID(&tt.mov))
		})
	}
}
