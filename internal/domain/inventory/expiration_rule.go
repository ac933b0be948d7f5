package inventory

import (
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// NearExpiryWindowDays ventana (días) en la que un lote genera alerta de próximo vencimiento.
const NearExpiryWindowDays = 30

// ExpirationDecision resultado de evaluar un lote en el barrido de vencimientos.
type ExpirationDecision struct {
	Applies  bool
	Kind     entity.AlertKind
	Priority entity.AlertPriority
	Days     int
}

// DaysUntil días calendario entre today y expiration (negativo si ya venció).
func DaysUntil(expiration, today time.Time) int {
	e := calendarDate(expiration)
	t := calendarDate(today)
	return int(e.Sub(t).Hours() / 24)
}

func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// EvaluateExpiration aplica la regla de vencimientos a un lote ACTIVE con saldo:
//
//	días < 0          → EXPIRED, CRITICAL
//	0 <= días <= 30   → NEAR_EXPIRY; <= 7 CRITICAL, <= 15 HIGH, si no MEDIUM
func EvaluateExpiration(lot *entity.Lot, today time.Time) ExpirationDecision {
	if lot.State != entity.LotStateActive || lot.ExpirationDate == nil || !lot.AvailableQuantity.IsPositive() {
		return ExpirationDecision{}
	}
	days := DaysUntil(*lot.ExpirationDate, today)
	switch {
	case days < 0:
		return ExpirationDecision{Applies: true, Kind: entity.AlertKindExpired, Priority: entity.AlertPriorityCritical, Days: days}
	case days <= NearExpiryWindowDays:
		priority := entity.AlertPriorityMedium
		if days <= 7 {
			priority = entity.AlertPriorityCritical
		} else if days <= 15 {
			priority = entity.AlertPriorityHigh
		}
		return ExpirationDecision{Applies: true, Kind: entity.AlertKindNearExpiry, Priority: priority, Days: days}
	}
	return ExpirationDecision{}
}
