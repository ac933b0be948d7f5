package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AlertKind tipo de alerta.
type AlertKind string

const (
	AlertKindLowStock   AlertKind = "LOW_STOCK"
	AlertKindOutOfStock AlertKind = "OUT_OF_STOCK"
	AlertKindOverStock  AlertKind = "OVER_STOCK"
	AlertKindNearExpiry AlertKind = "NEAR_EXPIRY"
	AlertKindExpired    AlertKind = "EXPIRED"
)

// Valid indica si el tipo pertenece al conjunto cerrado.
func (k AlertKind) Valid() bool {
	switch k {
	case AlertKindLowStock, AlertKindOutOfStock, AlertKindOverStock, AlertKindNearExpiry, AlertKindExpired:
		return true
	}
	return false
}

// IsStockLevel indica si la alerta pertenece a la familia de nivel de stock (una abierta por par).
func (k AlertKind) IsStockLevel() bool {
	return k == AlertKindLowStock || k == AlertKindOutOfStock
}

// IsExpiration indica si la alerta pertenece a la familia de vencimientos (por lote).
func (k AlertKind) IsExpiration() bool {
	return k == AlertKindNearExpiry || k == AlertKindExpired
}

// AlertPriority prioridad de la alerta.
type AlertPriority string

const (
	AlertPriorityLow      AlertPriority = "LOW"
	AlertPriorityMedium   AlertPriority = "MEDIUM"
	AlertPriorityHigh     AlertPriority = "HIGH"
	AlertPriorityCritical AlertPriority = "CRITICAL"
)

// Valid indica si la prioridad pertenece al conjunto cerrado.
func (p AlertPriority) Valid() bool {
	switch p {
	case AlertPriorityLow, AlertPriorityMedium, AlertPriorityHigh, AlertPriorityCritical:
		return true
	}
	return false
}

// AlertState estado de la alerta.
type AlertState string

const (
	AlertStateOpen      AlertState = "OPEN"
	AlertStateResolved  AlertState = "RESOLVED"
	AlertStateDismissed AlertState = "DISMISSED"
)

// StockAlert alerta generada por el sistema sobre un saldo o un lote.
type StockAlert struct {
	ID              string
	Kind            AlertKind
	ProductID       string
	WarehouseID     string // vacío si no aplica
	LotID           string // vacío si no aplica
	CurrentQuantity decimal.Decimal
	Threshold       decimal.Decimal
	ExpirationDate  *time.Time
	DaysToExpiry    *int
	Priority        AlertPriority
	State           AlertState
	GeneratedAt     time.Time
	ResolvedAt      *time.Time
	ResolvedBy      string
	ResolutionNotes string
}
