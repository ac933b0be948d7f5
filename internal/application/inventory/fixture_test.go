package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
)

// ─────────────────────────────────────────────────────────────────────────────
// Fixture: casos de uso sobre el almacén en memoria con reloj controlado
// ─────────────────────────────────────────────────────────────────────────────

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

// Now avanza un milisegundo por llamada para que las marcas de tiempo sean estrictamente crecientes.
func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Millisecond)
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type fixture struct {
	ctx           context.Context
	store         *memory.Store
	clock         *testClock
	generator     *inventory.AlertGenerator
	aggregator    *inventory.Aggregator
	movements     *inventory.MovementUseCase
	balances      *inventory.BalanceUseCase
	alerts        *inventory.AlertUseCase
	lots          *inventory.LotUseCase
	provisioning  *inventory.ProvisioningUseCase
	replenishment *inventory.ReplenishmentUseCase
}

const actor = "user-1"

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	clock := &testClock{now: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)}
	log := zerolog.Nop()

	generator := inventory.NewAlertGenerator(log, clock.Now)
	aggregator := inventory.NewAggregator(generator, log)
	return &fixture{
		ctx:           context.Background(),
		store:         store,
		clock:         clock,
		generator:     generator,
		aggregator:    aggregator,
		movements:     inventory.NewMovementUseCase(store, aggregator, log, clock.Now),
		balances:      inventory.NewBalanceUseCase(store, generator, nil, log),
		alerts:        inventory.NewAlertUseCase(store, generator, nil, log, clock.Now),
		lots:          inventory.NewLotUseCase(store, log, clock.Now),
		provisioning:  inventory.NewProvisioningUseCase(store, nil, log),
		replenishment: inventory.NewReplenishmentUseCase(store),
	}
}

type productOpt func(*entity.Product)

func withMaximum(max int64) productOpt {
	return func(p *entity.Product) { p.StockMaximum = decimal.NewFromInt(max) }
}

func lotControlled(p *entity.Product) { p.LotControlled = true }
func perishable(p *entity.Product)    { p.Perishable = true }
func inactive(p *entity.Product)      { p.Active = false }

// seedProduct crea el producto directamente en el almacén, sin aprovisionar saldos.
func (f *fixture) seedProduct(t *testing.T, minimum int64, opts ...productOpt) *entity.Product {
	t.Helper()
	now := f.clock.Now()
	p := &entity.Product{
		ID:           uuid.New().String(),
		SKU:          "SKU-" + uuid.New().String()[:8],
		Name:         "Chocolate 70%",
		UnitMeasure:  "UND",
		StockMinimum: decimal.NewFromInt(minimum),
		StockMaximum: decimal.Zero,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, opt := range opts {
		opt(p)
	}
	require.NoError(t, f.store.Run(f.ctx, func(repos repository.Repositories) error {
		return repos.Products.Create(f.ctx, p)
	}))
	return p
}

func (f *fixture) seedWarehouse(t *testing.T, active bool) *entity.Warehouse {
	t.Helper()
	now := f.clock.Now()
	w := &entity.Warehouse{
		ID:        uuid.New().String(),
		Code:      "W-" + uuid.New().String()[:8],
		Name:      "Bodega",
		Type:      entity.WarehouseTypePrincipal,
		Active:    active,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, f.store.Run(f.ctx, func(repos repository.Repositories) error {
		return repos.Warehouses.Create(f.ctx, w)
	}))
	return w
}

func (f *fixture) seedLot(t *testing.T, product *entity.Product, wh *entity.Warehouse, available int64, expiresInDays *int) *entity.Lot {
	t.Helper()
	in := inventory.RegisterLotInput{
		Code:            "L-" + uuid.New().String()[:8],
		ProductID:       product.ID,
		WarehouseID:     wh.ID,
		InitialQuantity: decimal.NewFromInt(available),
	}
	if expiresInDays != nil {
		exp := f.clock.Now().AddDate(0, 0, *expiresInDays)
		in.ExpirationDate = &exp
	}
	lot, err := f.lots.RegisterLot(f.ctx, in)
	require.NoError(t, err)
	return lot
}

func days(n int) *int { return &n }

func qty(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func decimalPtr(n int64) *decimal.Decimal {
	d := decimal.NewFromInt(n)
	return &d
}

// confirm crea y confirma el movimiento.
func (f *fixture) confirm(t *testing.T, in inventory.CreateMovementInput) *entity.Movement {
	t.Helper()
	if in.Actor == "" {
		in.Actor = actor
	}
	mov, err := f.movements.CreateMovement(f.ctx, in)
	require.NoError(t, err)
	confirmed, err := f.movements.ConfirmMovement(f.ctx, mov.ID, actor)
	require.NoError(t, err)
	return confirmed
}

func (f *fixture) ingress(t *testing.T, p *entity.Product, w *entity.Warehouse, n int64) *entity.Movement {
	t.Helper()
	return f.confirm(t, inventory.CreateMovementInput{
		Type: entity.MovementTypeIngress, ProductID: p.ID, DestinationWarehouseID: w.ID, Quantity: qty(n),
	})
}

func (f *fixture) egress(t *testing.T, p *entity.Product, w *entity.Warehouse, n int64) *entity.Movement {
	t.Helper()
	return f.confirm(t, inventory.CreateMovementInput{
		Type: entity.MovementTypeEgress, ProductID: p.ID, SourceWarehouseID: w.ID, Quantity: qty(n),
	})
}

func (f *fixture) available(t *testing.T, p *entity.Product, w *entity.Warehouse) decimal.Decimal {
	t.Helper()
	b, err := f.balances.GetBalance(f.ctx, p.ID, w.ID)
	require.NoError(t, err)
	return b.Available
}

// rowExists distingue "sin fila" de "fila en cero".
func (f *fixture) rowExists(t *testing.T, p *entity.Product, w *entity.Warehouse) bool {
	t.Helper()
	var exists bool
	require.NoError(t, f.store.Run(f.ctx, func(repos repository.Repositories) error {
		b, err := repos.Balances.Get(f.ctx, p.ID, w.ID)
		exists = b != nil
		return err
	}))
	return exists
}

func (f *fixture) openStockAlerts(t *testing.T, p *entity.Product, w *entity.Warehouse) []*entity.StockAlert {
	t.Helper()
	list, err := f.alerts.ListOpenAlerts(f.ctx, repository.AlertFilter{ProductID: p.ID, WarehouseID: w.ID})
	require.NoError(t, err)
	out := make([]*entity.StockAlert, 0, len(list))
	for _, a := range list {
		if a.Kind.IsStockLevel() {
			out = append(out, a)
		}
	}
	return out
}

func (f *fixture) openLotAlerts(t *testing.T, lot *entity.Lot) []*entity.StockAlert {
	t.Helper()
	list, err := f.alerts.ListOpenAlerts(f.ctx, repository.AlertFilter{ProductID: lot.ProductID})
	require.NoError(t, err)
	out := make([]*entity.StockAlert, 0, len(list))
	for _, a := range list {
		if a.LotID == lot.ID {
			out = append(out, a)
		}
	}
	return out
}

// faultyRunner envuelve un TxRunner y sustituye repositorios para inyectar fallos a mitad de transacción.
type faultyRunner struct {
	inner inventory.TxRunner
	wrap  func(repository.Repositories) repository.Repositories
}

func (r faultyRunner) Run(ctx context.Context, fn func(repos repository.Repositories) error) error {
	return r.inner.Run(ctx, func(repos repository.Repositories) error {
		return fn(r.wrap(repos))
	})
}

type failingAlerts struct {
	repository.StockAlertRepository
	err error
}

func (a failingAlerts) InsertIfAbsent(context.Context, *entity.StockAlert) (bool, error) {
	return false, a.err
}

// busyLocker simula el candado tomado por otra instancia.
type busyLocker struct{}

func (busyLocker) Acquire(context.Context, string) (func(), error) {
	return nil, inventory.ErrJobLocked
}
