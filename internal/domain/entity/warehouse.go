package entity

import "time"

// WarehouseType clasifica la bodega.
type WarehouseType string

const (
	WarehouseTypePrincipal WarehouseType = "PRINCIPAL"
	WarehouseTypeBranch    WarehouseType = "BRANCH"
	WarehouseTypeTransit   WarehouseType = "TRANSIT"
)

// Valid indica si el tipo pertenece al conjunto cerrado.
func (t WarehouseType) Valid() bool {
	switch t {
	case WarehouseTypePrincipal, WarehouseTypeBranch, WarehouseTypeTransit:
		return true
	}
	return false
}

// Warehouse representa una bodega o sucursal donde se almacena inventario (multi-bodega).
// Solo las bodegas activas reciben filas de saldo por aprovisionamiento.
type Warehouse struct {
	ID        string
	Code      string
	Name      string
	Address   string
	Type      WarehouseType
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
