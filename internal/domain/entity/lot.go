package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LotState estado de un lote.
type LotState string

const (
	LotStateActive   LotState = "ACTIVE"
	LotStateExpired  LotState = "EXPIRED"
	LotStateDepleted LotState = "DEPLETED"
	LotStateBlocked  LotState = "BLOCKED"
)

// Valid indica si el estado pertenece al conjunto cerrado.
func (s LotState) Valid() bool {
	switch s {
	case LotStateActive, LotStateExpired, LotStateDepleted, LotStateBlocked:
		return true
	}
	return false
}

// Lot representa un lote de producción de un producto en una bodega.
// Nunca se elimina físicamente; AvailableQuantity <= InitialQuantity.
type Lot struct {
	ID                string
	Code              string // único
	ProductID         string
	WarehouseID       string
	ProductionDate    *time.Time
	ExpirationDate    *time.Time // obligatoria si el producto es perecible
	InitialQuantity   decimal.Decimal
	AvailableQuantity decimal.Decimal
	ReservedQuantity  decimal.Decimal
	State             LotState
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
