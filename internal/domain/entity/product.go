package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo (referencia externa para el libro de inventario).
// StockMinimum y StockMaximum son los umbrales que evalúa el generador de alertas.
type Product struct {
	ID               string
	SKU              string // código único
	Name             string
	UnitMeasure      string
	StockMinimum     decimal.Decimal
	StockMaximum     decimal.Decimal
	Perishable       bool // exige fecha de vencimiento en los lotes
	LotControlled    bool
	SerialControlled bool
	Active           bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
