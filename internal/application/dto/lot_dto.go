package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// RegisterLotRequest body para POST /api/lots.
type RegisterLotRequest struct {
	Code              string           `json:"code" validate:"required,max=64"`
	ProductID         string           `json:"product_id" validate:"required,uuid"`
	WarehouseID       string           `json:"warehouse_id" validate:"required,uuid"`
	ProductionDate    *time.Time       `json:"production_date,omitempty"`
	ExpirationDate    *time.Time       `json:"expiration_date,omitempty"`
	InitialQuantity   decimal.Decimal  `json:"initial_quantity"`
	AvailableQuantity *decimal.Decimal `json:"available_quantity,omitempty"`
}

// LotResponse salida de un lote.
type LotResponse struct {
	ID                string          `json:"id"`
	Code              string          `json:"code"`
	ProductID         string          `json:"product_id"`
	WarehouseID       string          `json:"warehouse_id"`
	ProductionDate    *time.Time      `json:"production_date,omitempty"`
	ExpirationDate    *time.Time      `json:"expiration_date,omitempty"`
	InitialQuantity   decimal.Decimal `json:"initial_quantity"`
	AvailableQuantity decimal.Decimal `json:"available_quantity"`
	ReservedQuantity  decimal.Decimal `json:"reserved_quantity"`
	State             string          `json:"state"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// LotListResponse lista paginada de lotes.
type LotListResponse struct {
	Items []LotResponse `json:"items"`
	Page  PageResponse  `json:"page"`
}

// LotFromEntity convierte el lote de dominio a su salida HTTP.
func LotFromEntity(l *entity.Lot) LotResponse {
	return LotResponse{
		ID:                l.ID,
		Code:              l.Code,
		ProductID:         l.ProductID,
		WarehouseID:       l.WarehouseID,
		ProductionDate:    l.ProductionDate,
		ExpirationDate:    l.ExpirationDate,
		InitialQuantity:   l.InitialQuantity,
		AvailableQuantity: l.AvailableQuantity,
		ReservedQuantity:  l.ReservedQuantity,
		State:             string(l.State),
		CreatedAt:         l.CreatedAt,
		UpdatedAt:         l.UpdatedAt,
	}
}
