package inventory_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// ─────────────────────────────────────────────────────────────────────────────
// Escenarios A-C: ingreso, salida y reposición sobre el mismo par
// ─────────────────────────────────────────────────────────────────────────────

func TestScenarios_AlertLifecycle(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, 10)
	w := f.seedWarehouse(t, true)

	// A: ingreso de 5 con mínimo 10 -> LOW_STOCK al 50% -> HIGH
	f.ingress(t, p, w, 5)
	assert.True(t, f.available(t, p, w).Equal(qty(5)))
	open := f.openStockAlerts(t, p, w)
	require.Len(t, open, 1)
	assert.Equal(t, entity.AlertKindLowStock, open[0].Kind)
	assert.Equal(t, entity.AlertPriorityHigh, open[0].Priority)
	alertID := open[0].ID

	// B: salida de 5 -> disponible 0 -> la misma alerta pasa a OUT_OF_STOCK / CRITICAL
	f.egress(t, p, w, 5)
	assert.True(t, f.available(t, p, w).IsZero())
	open = f.openStockAlerts(t, p, w)
	require.Len(t, open, 1, "debe seguir existiendo una sola alerta abierta")
	assert.Equal(t, alertID, open[0].ID, "la alerta se actualiza en sitio")
	assert.Equal(t, entity.AlertKindOutOfStock, open[0].Kind)
	assert.Equal(t, entity.AlertPriorityCritical, open[0].Priority)
	assert.True(t, open[0].CurrentQuantity.IsZero())

	// C: ingreso de 20 -> 20 > 10 -> resolución automática
	f.ingress(t, p, w, 20)
	assert.True(t, f.available(t, p, w).Equal(qty(20)))
	assert.Empty(t, f.openStockAlerts(t, p, w))

	resolved, err := f.alerts.GetAlert(f.ctx, alertID)
	require.NoError(t, err)
	assert.Equal(t, entity.AlertStateResolved, resolved.State)
	assert.Equal(t, inventory.SystemActor, resolved.ResolvedBy)
	assert.NotEmpty(t, resolved.ResolutionNotes)
	assert.NotNil(t, resolved.ResolvedAt)
}

// ─────────────────────────────────────────────────────────────────────────────
// Escenario D y asimetría de traslados
// ─────────────────────────────────────────────────────────────────────────────

func TestScenarioD_Transfer(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, 0)
	w1 := f.seedWarehouse(t, true)
	w2 := f.seedWarehouse(t, true)
	f.ingress(t, p, w1, 20)
	require.False(t, f.rowExists(t, p, w2))

	f.confirm(t, inventory.CreateMovementInput{
		Type: entity.MovementTypeTransfer, ProductID: p.ID,
		SourceWarehouseID: w1.ID, DestinationWarehouseID: w2.ID, Quantity: qty(5),
	})

	assert.True(t, f.available(t, p, w1).Equal(qty(15)))
	assert.True(t, f.rowExists(t, p, w2), "el destino se crea con upsert")
	assert.True(t, f.available(t, p, w2).Equal(qty(5)))
}

func TestTransfer_OrigenSinFila(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, 0)
	w1 := f.seedWarehouse(t, true)
	w2 := f.seedWarehouse(t, true)

	f.confirm(t, inventory.CreateMovementInput{
		Type: entity.MovementTypeTransfer, ProductID: p.ID,
		SourceWarehouseID: w1.ID, DestinationWarehouseID: w2.ID, Quantity: qty(5),
	})

	assert.False(t, f.rowExists(t, p, w1), "la salida sin fila no tiene efecto")
	assert.True(t, f.available(t, p, w1).IsZero())
	assert.True(t, f.available(t, p, w2).Equal(qty(5)), "el destino acredita igual")
}

// ─────────────────────────────────────────────────────────────────────────────
// Piso en cero, ajustes con signo y devoluciones
// ─────────────────────────────────────────────────────────────────────────────

func TestEgress_PisoEnCero(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, 0)
	w := f.seedWarehouse(t, true)
	f.ingress(t, p, w, 3)

	f.egress(t, p, w, 10)

	assert.True(t, f.available(t, p, w).IsZero(), "el disponible nunca queda negativo")
}

func TestAdjustment_ConSigno(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, 0)
	w := f.seedWarehouse(t, true)
	f.ingress(t, p, w, 10)

	adjust := func(n int64) inventory.CreateMovementInput {
		return inventory.CreateMovementInput{
			Type: entity.MovementTypeAdjustment, ProductID: p.ID, SourceWarehouseID: w.ID, Quantity: qty(n),
		}
	}
	f.confirm(t, adjust(-4))
	assert.True(t, f.available(t, p, w).Equal(qty(6)))

	f.confirm(t, adjust(3))
	assert.True(t, f.available(t, p, w).Equal(qty(9)))

	f.confirm(t, adjust(-50))
	assert.True(t, f.available(t, p, w).IsZero())

	_, err := f.movements.CreateMovement(f.ctx, adjust(0))
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestReturn_AProveedor(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, 0)
	w := f.seedWarehouse(t, true)
	f.ingress(t, p, w, 10)

	f.confirm(t, inventory.CreateMovementInput{
		Type: entity.MovementTypeReturn, ProductID: p.ID, SupplierID: "prov-7",
		SourceWarehouseID: w.ID, Quantity: qty(4),
	})
	assert.True(t, f.available(t, p, w).Equal(qty(6)))

	_, err := f.movements.CreateMovement(f.ctx, inventory.CreateMovementInput{
		Type: entity.MovementTypeReturn, ProductID: p.ID, SourceWarehouseID: w.ID, Quantity: qty(1), Actor: actor,
	})
	var fe *domain.FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "supplier_id", fe.Field)
	assert.ErrorIs(t, err, domain.ErrMissingField)
}

// ─────────────────────────────────────────────────────────────────────────────
// Creación: validación y referencias
// ─────────────────────────────────────────────────────────────────────────────

func TestCreateMovement_Rechazos(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, 0)
	w := f.seedWarehouse(t, true)

	tests := []struct {
		name string
		in   inventory.CreateMovementInput
		want error
	}{
		{"producto desconocido", inventory.CreateMovementInput{Type: entity.MovementTypeIngress, ProductID: "nope", DestinationWarehouseID: w.ID, Quantity: qty(1)}, domain.ErrNotFound},
		{"bodega desconocida", inventory.CreateMovementInput{Type: entity.MovementTypeIngress, ProductID: p.ID, DestinationWarehouseID: "nope", Quantity: qty(1)}, domain.ErrNotFound},
		{"ingreso sin destino", inventory.CreateMovementInput{Type: entity.MovementTypeIngress, ProductID: p.ID, Quantity: qty(1)}, domain.ErrMissingField},
		{"cantidad cero", inventory.CreateMovementInput{Type: entity.MovementTypeIngress, ProductID: p.ID, DestinationWarehouseID: w.ID}, domain.ErrInvalidQuantity},
		{"cantidad negativa en salida", inventory.CreateMovementInput{Type: entity.MovementTypeEgress, ProductID: p.ID, SourceWarehouseID: w.ID, Quantity: qty(-2)}, domain.ErrInvalidQuantity},
		{"traslado a la misma bodega", inventory.CreateMovementInput{Type: entity.MovementTypeTransfer, ProductID: p.ID, SourceWarehouseID: w.ID, DestinationWarehouseID: w.ID, Quantity: qty(1)}, domain.ErrInvalidInput},
		{"tipo inválido", inventory.CreateMovementInput{Type: "GIFT", ProductID: p.ID, Quantity: qty(1)}, domain.ErrInvalidInput},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.in.Actor = actor
			_, err := f.movements.CreateMovement(f.ctx, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	list, err := f.movements.ListMovements(f.ctx, repository.MovementFilter{})
	require.NoError(t, err)
	assert.Empty(t, list, "ningún rechazo deja registro")
}

func TestCreateMovement_Lotes(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, 0, lotControlled)
	other := f.seedProduct(t, 0)
	w := f.seedWarehouse(t, true)
	otherLot := f.seedLot(t, other, w, 5, nil)

	_, err := f.movements.CreateMovement(f.ctx, inventory.CreateMovementInput{
		Type: entity.MovementTypeIngress, ProductID: p.ID, DestinationWarehouseID: w.ID, Quantity: qty(1), Actor: actor,
	})
	var fe *domain.FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "lot_id", fe.Field)

	_, err = f.movements.CreateMovement(f.ctx, inventory.CreateMovementInput{
		Type: entity.MovementTypeIngress, ProductID: p.ID, DestinationWarehouseID: w.ID, Quantity: qty(1),
		LotID: otherLot.ID, Actor: actor,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "el lote debe ser del mismo producto")

	_, err = f.movements.CreateMovement(f.ctx, inventory.CreateMovementInput{
		Type: entity.MovementTypeIngress, ProductID: p.ID, DestinationWarehouseID: w.ID, Quantity: qty(1),
		LotID: "no-existe", Actor: actor,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateMovement_LoteDeOtraBodega(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, 0, lotControlled)
	w1 := f.seedWarehouse(t, true)
	w2 := f.seedWarehouse(t, true)
	lot := f.seedLot(t, p, w1, 10, nil)

	f.confirm(t, inventory.CreateMovementInput{
		Type: entity.MovementTypeIngress, ProductID: p.ID, DestinationWarehouseID: w1.ID, Quantity: qty(10), LotID: lot.ID,
	})

	rejected := []inventory.CreateMovementInput{
		{Type: entity.MovementTypeEgress, SourceWarehouseID: w2.ID},
		{Type: entity.MovementTypeReturn, SourceWarehouseID: w2.ID, SupplierID: "prov-1"},
		{Type: entity.MovementTypeTransfer, SourceWarehouseID: w2.ID, DestinationWarehouseID: w1.ID},
		{Type: entity.MovementTypeIngress, DestinationWarehouseID: w2.ID},
	}
	for _, in := range rejected {
		in.ProductID, in.Quantity, in.LotID, in.Actor = p.ID, qty(4), lot.ID, actor
		_, err := f.movements.CreateMovement(f.ctx, in)
		var fe *domain.FieldError
		require.ErrorAs(t, err, &fe, "tipo %s", in.Type)
		assert.Equal(t, "lot_id", fe.Field)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}

	// el traslado desde la bodega del lote lo consume en origen
	f.confirm(t, inventory.CreateMovementInput{
		Type: entity.MovementTypeTransfer, ProductID: p.ID, SourceWarehouseID: w1.ID, DestinationWarehouseID: w2.ID,
		Quantity: qty(4), LotID: lot.ID,
	})
	got, err := f.lots.GetLot(f.ctx, lot.ID)
	require.NoError(t, err)
	assert.True(t, got.AvailableQuantity.Equal(qty(6)))
	assert.Equal(t, w1.ID, got.WarehouseID)
	assert.True(t, f.available(t, p, w1).Equal(qty(6)))
	assert.True(t, f.available(t, p, w2).Equal(qty(4)))
}

func TestCreateMovement_NoTocaSaldos(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, 10)
	w := f.seedWarehouse(t, true)

	mov, err := f.movements.CreateMovement(f.ctx, inventory.CreateMovementInput{
		Type: entity.MovementTypeIngress, ProductID: p.ID, DestinationWarehouseID: w.ID, Quantity: qty(5), Actor: actor,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.MovementStatePending, mov.State)
	assert.Equal(t, actor, mov.CreatedBy)
	assert.False(t, f.rowExists(t, p, w))
	assert.Empty(t, f.openStockAlerts(t, p, w))
}

// ─────────────────────────────────────────────────────────────────────────────
// Transiciones de estado
// ─────────────────────────────────────────────────────────────────────────────

func TestMovement_TransicionesInvalidas(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, 0)
	w := f.seedWarehouse(t, true)

	confirmed := f.ingress(t, p, w, 5)
	assert.Equal(t, entity.MovementStateConfirmed, confirmed.State)
	assert.Equal(t, actor, confirmed.ConfirmedBy)
	require.NotNil(t, confirmed.ConfirmedAt)

	_, err := f.movements.ConfirmMovement(f.ctx, confirmed.ID, actor)
	assert.ErrorIs(t, err, domain.ErrInvalidState, "confirmar dos veces")
	_, err = f.movements.VoidMovement(f.ctx, confirmed.ID, actor)
	assert.ErrorIs(t, err, domain.ErrInvalidState, "anular un confirmado")
	assert.True(t, f.available(t, p, w).Equal(qty(5)), "los rechazos no cambian saldos")

	pending, err := f.movements.CreateMovement(f.ctx, inventory.CreateMovementInput{
		Type: entity.MovementTypeEgress, ProductID: p.ID, SourceWarehouseID: w.ID, Quantity: qty(2), Actor: actor,
	})
	require.NoError(t, err)
	voided, err := f.movements.VoidMovement(f.ctx, pending.ID, "user-2")
	require.NoError(t, err)
	assert.Equal(t, entity.MovementStateVoided, voided.State)
	assert.Equal(t, "user-2", voided.VoidedBy)

	_, err = f.movements.ConfirmMovement(f.ctx, pending.ID, actor)
	assert.ErrorIs(t, err, domain.ErrInvalidState, "confirmar un anulado")
	assert.True(t, f.available(t, p, w).Equal(qty(5)))

	_, err = f.movements.ConfirmMovement(f.ctx, "no-existe", actor)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestConfirmMovement_SinActor(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, 0)
	w := f.seedWarehouse(t, true)
	mov, err := f.movements.CreateMovement(f.ctx, inventory.CreateMovementInput{
		Type: entity.MovementTypeIngress, ProductID: p.ID, DestinationWarehouseID: w.ID, Quantity: qty(1), Actor: actor,
	})
	require.NoError(t, err)

	_, err = f.movements.ConfirmMovement(f.ctx, mov.ID, "")
	assert.ErrorIs(t, err, domain.ErrMissingField)
}

// ─────────────────────────────────────────────────────────────────────────────
// Atomicidad: un fallo en la evaluación de alertas deshace la confirmación
// ─────────────────────────────────────────────────────────────────────────────

func TestConfirmMovement_RollbackCompleto(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, 10)
	w := f.seedWarehouse(t, true)

	mov, err := f.movements.CreateMovement(f.ctx, inventory.CreateMovementInput{
		Type: entity.MovementTypeIngress, ProductID: p.ID, DestinationWarehouseID: w.ID, Quantity: qty(5), Actor: actor,
	})
	require.NoError(t, err)

	boom := errors.New("fallo de almacenamiento")
	runner := faultyRunner{inner: f.store, wrap: func(r repository.Repositories) repository.Repositories {
		r.Alerts = failingAlerts{StockAlertRepository: r.Alerts, err: boom}
		return r
	}}
	broken := inventory.NewMovementUseCase(runner, f.aggregator, zerolog.Nop(), f.clock.Now)

	_, err = broken.ConfirmMovement(f.ctx, mov.ID, actor)
	require.ErrorIs(t, err, boom)

	stored, err := f.movements.GetMovement(f.ctx, mov.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.MovementStatePending, stored.State, "el movimiento sigue PENDING")
	assert.Nil(t, stored.ConfirmedAt)
	assert.False(t, f.rowExists(t, p, w), "el crédito se deshizo")
	assert.Empty(t, f.openStockAlerts(t, p, w))

	// reintento con el runner sano
	_, err = f.movements.ConfirmMovement(f.ctx, mov.ID, actor)
	require.NoError(t, err)
	assert.True(t, f.available(t, p, w).Equal(qty(5)))
	assert.Len(t, f.openStockAlerts(t, p, w), 1)
}

// ─────────────────────────────────────────────────────────────────────────────
// Consumo de lotes
// ─────────────────────────────────────────────────────────────────────────────

func TestConfirmMovement_ConsumeLote(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, 0, lotControlled)
	w := f.seedWarehouse(t, true)
	lot := f.seedLot(t, p, w, 10, nil)

	withLot := func(typ entity.MovementType, n int64) inventory.CreateMovementInput {
		in := inventory.CreateMovementInput{Type: typ, ProductID: p.ID, Quantity: qty(n), LotID: lot.ID}
		if typ == entity.MovementTypeIngress {
			in.DestinationWarehouseID = w.ID
		} else {
			in.SourceWarehouseID = w.ID
		}
		return in
	}

	f.confirm(t, withLot(entity.MovementTypeIngress, 10))
	got, err := f.lots.GetLot(f.ctx, lot.ID)
	require.NoError(t, err)
	assert.True(t, got.AvailableQuantity.Equal(qty(10)), "un ingreso no modifica el lote")

	f.confirm(t, withLot(entity.MovementTypeEgress, 4))
	got, err = f.lots.GetLot(f.ctx, lot.ID)
	require.NoError(t, err)
	assert.True(t, got.AvailableQuantity.Equal(qty(6)))
	assert.Equal(t, entity.LotStateActive, got.State)

	f.confirm(t, withLot(entity.MovementTypeEgress, 9))
	got, err = f.lots.GetLot(f.ctx, lot.ID)
	require.NoError(t, err)
	assert.True(t, got.AvailableQuantity.IsZero())
	assert.Equal(t, entity.LotStateDepleted, got.State)
	assert.True(t, f.available(t, p, w).Equal(qty(0)), "10 - 4 - 9 con piso en cero")
}

// ─────────────────────────────────────────────────────────────────────────────
// Concurrencia: confirmaciones simultáneas sobre el mismo par
// ─────────────────────────────────────────────────────────────────────────────

func TestConfirmMovement_Concurrente(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, 100)
	w := f.seedWarehouse(t, true)

	const n = 20
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		mov, err := f.movements.CreateMovement(f.ctx, inventory.CreateMovementInput{
			Type: entity.MovementTypeIngress, ProductID: p.ID, DestinationWarehouseID: w.ID, Quantity: qty(2), Actor: actor,
		})
		require.NoError(t, err)
		ids = append(ids, mov.ID)
	}

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := f.movements.ConfirmMovement(f.ctx, id, actor)
			errs <- err
		}(id)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	assert.True(t, f.available(t, p, w).Equal(qty(2*n)), "sin actualizaciones perdidas")
	assert.Len(t, f.openStockAlerts(t, p, w), 1, "una sola alerta abierta por par")
}

// ─────────────────────────────────────────────────────────────────────────────
// Consultas
// ─────────────────────────────────────────────────────────────────────────────

func TestListMovements_Filtros(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, 0)
	w1 := f.seedWarehouse(t, true)
	w2 := f.seedWarehouse(t, true)
	w3 := f.seedWarehouse(t, true)

	f.ingress(t, p, w1, 10)
	f.confirm(t, inventory.CreateMovementInput{
		Type: entity.MovementTypeTransfer, ProductID: p.ID, SourceWarehouseID: w1.ID, DestinationWarehouseID: w2.ID, Quantity: qty(3),
	})
	f.ingress(t, p, w3, 1)

	byW2, err := f.movements.ListMovements(f.ctx, repository.MovementFilter{WarehouseID: w2.ID})
	require.NoError(t, err)
	require.Len(t, byW2, 1, "la bodega coincide como destino")
	assert.Equal(t, entity.MovementTypeTransfer, byW2[0].Type)

	byW1, err := f.movements.ListMovements(f.ctx, repository.MovementFilter{WarehouseID: w1.ID})
	require.NoError(t, err)
	assert.Len(t, byW1, 2, "como destino del ingreso y origen del traslado")

	ingresses, err := f.movements.ListMovements(f.ctx, repository.MovementFilter{Type: entity.MovementTypeIngress, Limit: 1})
	require.NoError(t, err)
	assert.Len(t, ingresses, 1)

	_, err = f.movements.ListMovements(f.ctx, repository.MovementFilter{State: "DONE"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
