package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// CreateMovementRequest body para POST /api/inventory/movements.
// Las reglas por tipo (bodegas requeridas, signo de la cantidad) se validan en el dominio.
type CreateMovementRequest struct {
	Type                   string           `json:"type" validate:"required,oneof=INGRESS EGRESS ADJUSTMENT RETURN TRANSFER"`
	ProductID              string           `json:"product_id" validate:"required,uuid"`
	SupplierID             string           `json:"supplier_id"`
	SourceWarehouseID      string           `json:"source_warehouse_id" validate:"omitempty,uuid"`
	DestinationWarehouseID string           `json:"destination_warehouse_id" validate:"omitempty,uuid"`
	Quantity               decimal.Decimal  `json:"quantity"`
	UnitCost               *decimal.Decimal `json:"unit_cost,omitempty"`
	LotID                  string           `json:"lot_id" validate:"omitempty,uuid"`
	SerialNumber           string           `json:"serial_number"`
	DocumentType           string           `json:"document_type" validate:"max=32"`
	DocumentID             string           `json:"document_id"`
	Reference              string           `json:"reference" validate:"max=200"`
	Notes                  string           `json:"notes"`
	Date                   *time.Time       `json:"date,omitempty"`
}

// MovementResponse salida de un movimiento.
type MovementResponse struct {
	ID                     string           `json:"id"`
	Type                   string           `json:"type"`
	Date                   time.Time        `json:"date"`
	ProductID              string           `json:"product_id"`
	SupplierID             string           `json:"supplier_id,omitempty"`
	SourceWarehouseID      string           `json:"source_warehouse_id,omitempty"`
	DestinationWarehouseID string           `json:"destination_warehouse_id,omitempty"`
	Quantity               decimal.Decimal  `json:"quantity"`
	UnitCost               *decimal.Decimal `json:"unit_cost,omitempty"`
	LotID                  string           `json:"lot_id,omitempty"`
	SerialNumber           string           `json:"serial_number,omitempty"`
	DocumentType           string           `json:"document_type,omitempty"`
	DocumentID             string           `json:"document_id,omitempty"`
	Reference              string           `json:"reference,omitempty"`
	Notes                  string           `json:"notes,omitempty"`
	State                  string           `json:"state"`
	CreatedBy              string           `json:"created_by"`
	CreatedAt              time.Time        `json:"created_at"`
	ConfirmedAt            *time.Time       `json:"confirmed_at,omitempty"`
	ConfirmedBy            string           `json:"confirmed_by,omitempty"`
	VoidedAt               *time.Time       `json:"voided_at,omitempty"`
	VoidedBy               string           `json:"voided_by,omitempty"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// BalanceResponse saldo de un producto en una bodega.
type BalanceResponse struct {
	ProductID     string          `json:"product_id"`
	WarehouseID   string          `json:"warehouse_id"`
	Available     decimal.Decimal `json:"available"`
	Reserved      decimal.Decimal `json:"reserved"`
	InTransit     decimal.Decimal `json:"in_transit"`
	LastIngressAt *time.Time      `json:"last_ingress_at,omitempty"`
	LastEgressAt  *time.Time      `json:"last_egress_at,omitempty"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// BalanceListResponse lista paginada de saldos.
type BalanceListResponse struct {
	Items []BalanceResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// MovementFromEntity convierte el movimiento de dominio a su salida HTTP.
func MovementFromEntity(m *entity.Movement) MovementResponse {
	return MovementResponse{
		ID:                     m.ID,
		Type:                   string(m.Type),
		Date:                   m.Date,
		ProductID:              m.ProductID,
		SupplierID:             m.SupplierID,
		SourceWarehouseID:      m.SourceWarehouseID,
		DestinationWarehouseID: m.DestinationWarehouseID,
		Quantity:               m.Quantity,
		UnitCost:               m.UnitCost,
		LotID:                  m.LotID,
		SerialNumber:           m.SerialNumber,
		DocumentType:           m.DocumentType,
		DocumentID:             m.DocumentID,
		Reference:              m.Reference,
		Notes:                  m.Notes,
		State:                  string(m.State),
		CreatedBy:              m.CreatedBy,
		CreatedAt:              m.CreatedAt,
		ConfirmedAt:            m.ConfirmedAt,
		ConfirmedBy:            m.ConfirmedBy,
		VoidedAt:               m.VoidedAt,
		VoidedBy:               m.VoidedBy,
	}
}

// BalanceFromEntity convierte el saldo de dominio a su salida HTTP.
func BalanceFromEntity(b *entity.StockBalance) BalanceResponse {
	return BalanceResponse{
		ProductID:     b.ProductID,
		WarehouseID:   b.WarehouseID,
		Available:     b.Available,
		Reserved:      b.Reserved,
		InTransit:     b.InTransit,
		LastIngressAt: b.LastIngressAt,
		LastEgressAt:  b.LastEgressAt,
		UpdatedAt:     b.UpdatedAt,
	}
}
