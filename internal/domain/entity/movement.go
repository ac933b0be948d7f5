package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType tipo de movimiento de inventario.
type MovementType string

const (
	MovementTypeIngress    MovementType = "INGRESS"    // entrada a bodega destino
	MovementTypeEgress     MovementType = "EGRESS"     // salida de bodega origen
	MovementTypeAdjustment MovementType = "ADJUSTMENT" // ajuste con signo sobre bodega origen
	MovementTypeReturn     MovementType = "RETURN"     // devolución a proveedor desde bodega origen
	MovementTypeTransfer   MovementType = "TRANSFER"   // traslado entre bodegas
)

// Valid indica si el tipo pertenece al conjunto cerrado.
func (t MovementType) Valid() bool {
	switch t {
	case MovementTypeIngress, MovementTypeEgress, MovementTypeAdjustment, MovementTypeReturn, MovementTypeTransfer:
		return true
	}
	return false
}

// MovementState estado del movimiento. PENDING -> CONFIRMED o PENDING -> VOIDED; sin retorno.
type MovementState string

const (
	MovementStatePending   MovementState = "PENDING"
	MovementStateConfirmed MovementState = "CONFIRMED"
	MovementStateVoided    MovementState = "VOIDED"
)

// Valid indica si el estado pertenece al conjunto cerrado.
func (s MovementState) Valid() bool {
	switch s {
	case MovementStatePending, MovementStateConfirmed, MovementStateVoided:
		return true
	}
	return false
}

// Movement es la entrada del libro de inventario (append-only).
// Los saldos son una vista derivada de los movimientos CONFIRMED.
// Campos de referencia vacíos ("") significan ausencia.
type Movement struct {
	ID                     string
	Type                   MovementType
	Date                   time.Time
	ProductID              string
	SupplierID             string
	SourceWarehouseID      string
	DestinationWarehouseID string
	Quantity               decimal.Decimal // > 0; con signo solo en ADJUSTMENT
	UnitCost               *decimal.Decimal
	LotID                  string
	SerialNumber           string
	DocumentType           string // documento padre (compra, venta)
	DocumentID             string
	Reference              string
	Notes                  string
	State                  MovementState
	CreatedBy              string
	CreatedAt              time.Time
	ConfirmedAt            *time.Time
	ConfirmedBy            string
	VoidedAt               *time.Time
	VoidedBy               string
}
