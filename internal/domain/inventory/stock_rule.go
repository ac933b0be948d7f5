package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// StockAction acción que debe tomar el generador sobre la alerta de nivel de stock de un par.
type StockAction int

const (
	StockActionRaise   StockAction = iota + 1 // abrir o actualizar en sitio la alerta abierta
	StockActionResolve                        // resolver automáticamente la alerta abierta, si existe
)

// StockDecision resultado de evaluar un saldo contra el mínimo del producto.
type StockDecision struct {
	Action   StockAction
	Kind     entity.AlertKind
	Priority entity.AlertPriority
}

var (
	pct25  = decimal.NewFromInt(25)
	pct50  = decimal.NewFromInt(50)
	pct100 = decimal.NewFromInt(100)
)

// EvaluateStockLevel aplica la regla de nivel de stock:
//
//	available <= 0                → OUT_OF_STOCK, CRITICAL
//	0 < available <= minimum      → LOW_STOCK; available/minimum*100 <= 25 CRITICAL, <= 50 HIGH, si no MEDIUM
//	available > minimum          → resolver
func EvaluateStockLevel(available, minimum decimal.Decimal) StockDecision {
	if !available.IsPositive() {
		return StockDecision{Action: StockActionRaise, Kind: entity.AlertKindOutOfStock, Priority: entity.AlertPriorityCritical}
	}
	if available.GreaterThan(minimum) {
		return StockDecision{Action: StockActionResolve}
	}
	pct := available.Div(minimum).Mul(pct100)
	priority := entity.AlertPriorityMedium
	switch {
	case pct.LessThanOrEqual(pct25):
		priority = entity.AlertPriorityCritical
	case pct.LessThanOrEqual(pct50):
		priority = entity.AlertPriorityHigh
	}
	return StockDecision{Action: StockActionRaise, Kind: entity.AlertKindLowStock, Priority: priority}
}
