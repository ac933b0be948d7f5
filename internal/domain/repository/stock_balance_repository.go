package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// BalanceFilter filtros para listar saldos.
type BalanceFilter struct {
	ProductID   string
	WarehouseID string
	Limit       int
	Offset      int
}

// StockBalanceRepository define el puerto para los saldos por (producto, bodega).
// Cada escritura es una sola sentencia atómica sobre la fila (sin leer-luego-escribir).
type StockBalanceRepository interface {
	// Get devuelve nil si la fila no existe.
	Get(ctx context.Context, productID, warehouseID string) (*entity.StockBalance, error)
	List(ctx context.Context, filter BalanceFilter) ([]*entity.StockBalance, error)
	// EnsureExists inserta una fila en cero si no existe; nunca sobrescribe cantidades. Devuelve true si creó.
	EnsureExists(ctx context.Context, productID, warehouseID string) (bool, error)
	// Credit suma qty a Available (creando la fila si falta) y sella la última entrada.
	Credit(ctx context.Context, productID, warehouseID string, qty decimal.Decimal, at time.Time) (*entity.StockBalance, error)
	// Debit resta qty de Available con piso en cero y sella la última salida.
	// Devuelve nil sin error si la fila no existe (la salida no tiene efecto).
	Debit(ctx context.Context, productID, warehouseID string, qty decimal.Decimal, at time.Time) (*entity.StockBalance, error)
	// LockForRebuild bloquea las escrituras concurrentes sobre los saldos hasta el fin de la transacción.
	// El recálculo completo lo invoca antes de leer el libro.
	LockForRebuild(ctx context.Context) error
	// SetAvailable fija Available (reparación por recálculo completo), creando la fila si falta.
	SetAvailable(ctx context.Context, productID, warehouseID string, available decimal.Decimal) (*entity.StockBalance, error)
	// Delete elimina la fila; devuelve false si no existía.
	Delete(ctx context.Context, productID, warehouseID string) (bool, error)
}
