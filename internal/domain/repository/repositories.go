package repository

// Repositories agrupa los repositorios atados a una misma transacción.
// Lo construye el TxRunner de infraestructura en cada Run.
type Repositories struct {
	Products   ProductRepository
	Warehouses WarehouseRepository
	Lots       LotRepository
	Movements  MovementRepository
	Balances   StockBalanceRepository
	Alerts     StockAlertRepository
}
