package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockBalance saldo de un producto en una bodega (caché derivada del libro de movimientos).
// Una fila por (ProductID, WarehouseID); Available nunca es negativo.
type StockBalance struct {
	ProductID     string
	WarehouseID   string
	Available     decimal.Decimal
	Reserved      decimal.Decimal
	InTransit     decimal.Decimal
	LastIngressAt *time.Time
	LastEgressAt  *time.Time
	UpdatedAt     time.Time
}
