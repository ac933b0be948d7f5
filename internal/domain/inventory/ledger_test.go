package inventory_test

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
)

// applyIncremental emula al agregador: aplica efecto por efecto sobre un mapa de saldos
// donde la ausencia de fila es distinta de un saldo en cero.
func applyIncremental(balances map[inventory.Pair]decimal.Decimal, m *entity.Movement) {
	for _, e := range inventory.Effects(m) {
		key := inventory.Pair{ProductID: e.ProductID, WarehouseID: e.WarehouseID}
		current, ok := balances[key]
		switch e.Kind {
		case inventory.EffectCredit:
			balances[key] = current.Add(e.Quantity)
		case inventory.EffectDebit:
			if ok {
				balances[key] = inventory.FloorSub(current, e.Quantity)
			}
		}
	}
}

func randomMovement(r *rand.Rand) *entity.Movement {
	warehouses := []string{"w1", "w2", "w3"}
	q := decimal.NewFromInt(int64(r.Intn(20) + 1))
	src := warehouses[r.Intn(len(warehouses))]
	dst := warehouses[r.Intn(len(warehouses))]
	m := &entity.Movement{ProductID: "p", State: entity.MovementStateConfirmed, Quantity: q}
	switch r.Intn(5) {
	case 0:
		m.Type, m.DestinationWarehouseID = entity.MovementTypeIngress, dst
	case 1:
		m.Type, m.SourceWarehouseID = entity.MovementTypeEgress, src
	case 2:
		m.Type, m.SourceWarehouseID = entity.MovementTypeAdjustment, src
		if r.Intn(2) == 0 {
			m.Quantity = q.Neg()
		}
	case 3:
		m.Type, m.SourceWarehouseID, m.SupplierID = entity.MovementTypeReturn, src, "s"
	default:
		if src == dst {
			dst = "w-transit"
		}
		m.Type, m.SourceWarehouseID, m.DestinationWarehouseID = entity.MovementTypeTransfer, src, dst
	}
	return m
}

func TestReplay_EquivaleAIncremental(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for run := 0; run < 200; run++ {
		var movs []*entity.Movement
		incremental := make(map[inventory.Pair]decimal.Decimal)
		n := r.Intn(40) + 1
		for i := 0; i < n; i++ {
			m := randomMovement(r)
			movs = append(movs, m)
			applyIncremental(incremental, m)
		}
		replayed := inventory.Replay(movs)

		assert.Len(t, replayed, len(incremental), "run %d", run)
		for k, v := range incremental {
			assert.True(t, v.Equal(replayed[k]), "run %d par %v: incremental=%s replay=%s", run, k, v, replayed[k])
			assert.False(t, v.IsNegative(), "run %d par %v negativo", run, k)
		}
	}
}

func TestReplay_IgnoraNoConfirmados(t *testing.T) {
	movs := []*entity.Movement{
		{Type: entity.MovementTypeIngress, ProductID: "p", DestinationWarehouseID: "w", Quantity: decimal.NewFromInt(10), State: entity.MovementStateConfirmed},
		{Type: entity.MovementTypeIngress, ProductID: "p", DestinationWarehouseID: "w", Quantity: decimal.NewFromInt(99), State: entity.MovementStatePending},
		{Type: entity.MovementTypeEgress, ProductID: "p", SourceWarehouseID: "w", Quantity: decimal.NewFromInt(3), State: entity.MovementStateVoided},
	}
	out := inventory.Replay(movs)
	assert.True(t, out[inventory.Pair{ProductID: "p", WarehouseID: "w"}].Equal(decimal.NewFromInt(10)))
}

func TestReplay_TrasladoSinOrigen(t *testing.T) {
	movs := []*entity.Movement{
		{Type: entity.MovementTypeTransfer, ProductID: "p", SourceWarehouseID: "w1", DestinationWarehouseID: "w2", Quantity: decimal.NewFromInt(5), State: entity.MovementStateConfirmed},
	}
	out := inventory.Replay(movs)
	_, hasOrigin := out[inventory.Pair{ProductID: "p", WarehouseID: "w1"}]
	assert.False(t, hasOrigin, "la salida sobre un par inexistente no crea fila")
	assert.True(t, out[inventory.Pair{ProductID: "p", WarehouseID: "w2"}].Equal(decimal.NewFromInt(5)))
}
