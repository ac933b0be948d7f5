package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// Pair identifica un saldo.
type Pair struct {
	ProductID   string
	WarehouseID string
}

// Replay recalcula los saldos disponibles desde un estado vacío aplicando los movimientos
// confirmados en el orden recibido, con la misma regla que la aplicación incremental:
// una salida sobre un par inexistente no tiene efecto; el resto se trunca en cero.
// Los movimientos no CONFIRMED se ignoran.
func Replay(movements []*entity.Movement) map[Pair]decimal.Decimal {
	out := make(map[Pair]decimal.Decimal)
	for _, m := range movements {
		if m.State != entity.MovementStateConfirmed {
			continue
		}
		for _, e := range Effects(m) {
			key := Pair{ProductID: e.ProductID, WarehouseID: e.WarehouseID}
			current, ok := out[key]
			switch e.Kind {
			case EffectCredit:
				out[key] = current.Add(e.Quantity)
			case EffectDebit:
				if ok {
					out[key] = FloorSub(current, e.Quantity)
				}
			}
		}
	}
	return out
}
