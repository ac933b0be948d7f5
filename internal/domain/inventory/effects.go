package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// EffectKind sentido del efecto sobre un saldo.
type EffectKind int

const (
	EffectCredit EffectKind = iota + 1 // suma a Available
	EffectDebit                        // resta de Available con piso en cero
)

// BalanceEffect efecto de un movimiento confirmado sobre un saldo (producto, bodega).
// Quantity siempre es positiva; el sentido lo da Kind.
type BalanceEffect struct {
	Kind        EffectKind
	ProductID   string
	WarehouseID string
	Quantity    decimal.Decimal
}

// Effects traduce un movimiento a sus efectos sobre saldos, en el orden en que deben aplicarse.
// TRANSFER produce la salida en origen antes de la entrada en destino.
func Effects(m *entity.Movement) []BalanceEffect {
	credit := func(wh string, q decimal.Decimal) BalanceEffect {
		return BalanceEffect{Kind: EffectCredit, ProductID: m.ProductID, WarehouseID: wh, Quantity: q}
	}
	debit := func(wh string, q decimal.Decimal) BalanceEffect {
		return BalanceEffect{Kind: EffectDebit, ProductID: m.ProductID, WarehouseID: wh, Quantity: q}
	}

	switch m.Type {
	case entity.MovementTypeIngress:
		return []BalanceEffect{credit(m.DestinationWarehouseID, m.Quantity)}
	case entity.MovementTypeEgress, entity.MovementTypeReturn:
		return []BalanceEffect{debit(m.SourceWarehouseID, m.Quantity)}
	case entity.MovementTypeAdjustment:
		if m.Quantity.IsNegative() {
			return []BalanceEffect{debit(m.SourceWarehouseID, m.Quantity.Neg())}
		}
		return []BalanceEffect{credit(m.SourceWarehouseID, m.Quantity)}
	case entity.MovementTypeTransfer:
		return []BalanceEffect{
			debit(m.SourceWarehouseID, m.Quantity),
			credit(m.DestinationWarehouseID, m.Quantity),
		}
	}
	return nil
}

// FloorSub resta qty de available sin bajar de cero.
func FloorSub(available, qty decimal.Decimal) decimal.Decimal {
	out := available.Sub(qty)
	if out.IsNegative() {
		return decimal.Zero
	}
	return out
}

// LotDebit devuelve la cantidad que el movimiento consume del lote referenciado (cero si no aplica).
// Solo los efectos de salida consumen lote.
func LotDebit(m *entity.Movement) decimal.Decimal {
	if m.LotID == "" {
		return decimal.Zero
	}
	for _, e := range Effects(m) {
		if e.Kind == EffectDebit {
			return e.Quantity
		}
	}
	return decimal.Zero
}

// LotWarehouseID devuelve la bodega donde debe estar el lote referenciado: el origen de la salida
// para los movimientos que lo consumen, el destino de la entrada en los demás.
// Un TRANSFER consume el lote en origen; el lote no cambia de bodega.
func LotWarehouseID(m *entity.Movement) string {
	effects := Effects(m)
	for _, e := range effects {
		if e.Kind == EffectDebit {
			return e.WarehouseID
		}
	}
	if len(effects) > 0 {
		return effects[0].WarehouseID
	}
	return ""
}
