package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	SKU              string           `json:"sku" validate:"required,min=1,max=64"`
	Name             string           `json:"name" validate:"required,min=1,max=200"`
	UnitMeasure      string           `json:"unit_measure" validate:"required,max=32"`
	StockMinimum     *decimal.Decimal `json:"stock_minimum"`
	StockMaximum     *decimal.Decimal `json:"stock_maximum"`
	Perishable       bool             `json:"perishable"`
	LotControlled    bool             `json:"lot_controlled"`
	SerialControlled bool             `json:"serial_controlled"`
	Active           *bool            `json:"active"`
}

// UpdateProductRequest entrada para actualizar un producto; los saldos solo cambian vía movimientos.
type UpdateProductRequest struct {
	Name             *string          `json:"name" validate:"omitempty,min=1,max=200"`
	UnitMeasure      *string          `json:"unit_measure" validate:"omitempty,max=32"`
	StockMinimum     *decimal.Decimal `json:"stock_minimum"`
	StockMaximum     *decimal.Decimal `json:"stock_maximum"`
	Perishable       *bool            `json:"perishable"`
	LotControlled    *bool            `json:"lot_controlled"`
	SerialControlled *bool            `json:"serial_controlled"`
	Active           *bool            `json:"active"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID               string          `json:"id"`
	SKU              string          `json:"sku"`
	Name             string          `json:"name"`
	UnitMeasure      string          `json:"unit_measure"`
	StockMinimum     decimal.Decimal `json:"stock_minimum"`
	StockMaximum     decimal.Decimal `json:"stock_maximum"`
	Perishable       bool            `json:"perishable"`
	LotControlled    bool            `json:"lot_controlled"`
	SerialControlled bool            `json:"serial_controlled"`
	Active           bool            `json:"active"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
