package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// ValidateMovement valida los campos compañeros exigidos por cada tipo de movimiento.
//
//	INGRESS    bodega destino (proveedor opcional)
//	EGRESS     bodega origen
//	ADJUSTMENT bodega origen; cantidad con signo, distinta de cero
//	RETURN     proveedor y bodega origen
//	TRANSFER   bodegas origen y destino distintas
//
// El resto de tipos exige cantidad > 0.
func ValidateMovement(m *entity.Movement) error {
	if m.Type == "" {
		return domain.MissingField("type")
	}
	if !m.Type.Valid() {
		return domain.InvalidField("type", domain.ErrInvalidInput)
	}
	if m.ProductID == "" {
		return domain.MissingField("product_id")
	}
	if m.Type == entity.MovementTypeAdjustment {
		if m.Quantity.IsZero() {
			return domain.InvalidField("quantity", domain.ErrInvalidQuantity)
		}
	} else if !m.Quantity.GreaterThan(decimal.Zero) {
		return domain.InvalidField("quantity", domain.ErrInvalidQuantity)
	}
	if m.UnitCost != nil && m.UnitCost.IsNegative() {
		return domain.InvalidField("unit_cost", domain.ErrInvalidInput)
	}

	switch m.Type {
	case entity.MovementTypeIngress:
		if m.DestinationWarehouseID == "" {
			return domain.MissingField("destination_warehouse_id")
		}
	case entity.MovementTypeEgress, entity.MovementTypeAdjustment:
		if m.SourceWarehouseID == "" {
			return domain.MissingField("source_warehouse_id")
		}
	case entity.MovementTypeReturn:
		if m.SupplierID == "" {
			return domain.MissingField("supplier_id")
		}
		if m.SourceWarehouseID == "" {
			return domain.MissingField("source_warehouse_id")
		}
	case entity.MovementTypeTransfer:
		if m.SourceWarehouseID == "" {
			return domain.MissingField("source_warehouse_id")
		}
		if m.DestinationWarehouseID == "" {
			return domain.MissingField("destination_warehouse_id")
		}
		if m.SourceWarehouseID == m.DestinationWarehouseID {
			return domain.InvalidField("destination_warehouse_id", domain.ErrInvalidInput)
		}
	}
	return nil
}

// WarehouseIDs devuelve las bodegas referenciadas por el movimiento (sin vacíos ni duplicados).
func WarehouseIDs(m *entity.Movement) []string {
	ids := make([]string, 0, 2)
	if m.SourceWarehouseID != "" {
		ids = append(ids, m.SourceWarehouseID)
	}
	if m.DestinationWarehouseID != "" && m.DestinationWarehouseID != m.SourceWarehouseID {
		ids = append(ids, m.DestinationWarehouseID)
	}
	return ids
}
